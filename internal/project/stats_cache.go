package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss indicates no cached value for the key
var ErrCacheMiss = errors.New("stats cache miss")

// Monthly aggregations only move on signups, a short TTL keeps the dashboard
// fresh enough while sparing Postgres the repeated scan
const statsCacheTTL = 5 * time.Minute

// StatsCache caches monthly signup aggregations in Redis
type StatsCache struct {
	client *redis.Client
}

func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// getStatsKey generates the Redis key for a project-year aggregation
func getStatsKey(projectID uuid.UUID, year int) string {
	return fmt.Sprintf("signup_stats:%s:%d", projectID.String(), year)
}

// GetMonthlyStats returns the cached aggregation or ErrCacheMiss
func (c *StatsCache) GetMonthlyStats(ctx context.Context, projectID uuid.UUID, year int) ([]MonthlyStat, error) {
	data, err := c.client.Get(ctx, getStatsKey(projectID, year)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached stats: %w", err)
	}

	var stats []MonthlyStat
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats: %w", err)
	}

	return stats, nil
}

// SetMonthlyStats stores the aggregation with a short TTL
func (c *StatsCache) SetMonthlyStats(ctx context.Context, projectID uuid.UUID, year int, stats []MonthlyStat) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	if err := c.client.Set(ctx, getStatsKey(projectID, year), data, statsCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache stats: %w", err)
	}

	return nil
}
