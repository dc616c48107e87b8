package projectuser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notifier posts signup notifications to a project's configured webhook URL.
// Delivery is best effort: one attempt, no retries.
type Notifier struct {
	client *http.Client
}

func NewNotifier(timeout time.Duration) *Notifier {
	return &Notifier{
		client: &http.Client{Timeout: timeout},
	}
}

// SendSignupNotification POSTs {"user": {...}} to the webhook URL
func (n *Notifier) SendSignupNotification(ctx context.Context, url string, user PublicUser) error {
	payload, err := json.Marshal(map[string]any{"user": user})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	return nil
}
