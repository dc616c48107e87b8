package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/saishdhuri8/Authspark/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	OwnerIDContextKey       ContextKey = "owner_id"
	ScopeContextKey         ContextKey = "api_key_scope"
	ProjectUserIDContextKey ContextKey = "project_user_id"
)

// Request bodies larger than this are rejected before decoding
const maxBodySize = 1 << 20 // 1 MB

// publicProjectRoutes are the project-scoped operations an unauthenticated
// end-user must be able to invoke. toggle-active-user stays public because
// consuming apps call it from lifecycle hooks (e.g. page unload) without
// guaranteeing a live session; it verifies the token carried in its payload.
var publicProjectRoutes = map[string]struct{}{
	"signup":             {},
	"login":              {},
	"toggle-active-user": {},
}

// Middleware holds the request gates for both trust domains
type Middleware struct {
	codec *TokenCodec
}

func NewMiddleware(codec *TokenCodec) *Middleware {
	return &Middleware{codec: codec}
}

// RequireOwner validates the owner session token from the Authorization
// header and attaches the owner id to the request context
func (m *Middleware) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
			return
		}

		ownerID, err := m.codec.VerifyOwnerToken(token)
		if err != nil {
			httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), OwnerIDContextKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAPIKey decodes the apiKey field carried in the JSON body of every
// project-scoped request and attaches the tenant scope to the context.
// Decode failure rejects the request before any store access. The body is
// re-buffered so downstream handlers can decode it again.
func (m *Middleware) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var payload struct {
			APIKey string `json:"apiKey"`
		}
		if err := json.Unmarshal(body, &payload); err != nil || payload.APIKey == "" {
			httputil.RespondError(w, "Api key missing or invalid", http.StatusUnauthorized)
			return
		}

		scope, err := m.codec.DecodeAPIKey(payload.APIKey)
		if err != nil {
			httputil.RespondError(w, "Api key missing or invalid", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ScopeContextKey, scope)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireProjectUserSession is layered after RequireAPIKey. Routes on the
// public allow-list pass through; everything else needs a valid end-user
// session token, whose subject is attached to the context.
func (m *Middleware) RequireProjectUserSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := publicProjectRoutes[path.Base(r.URL.Path)]; ok {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			httputil.RespondError(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		projectUserID, err := m.codec.VerifyProjectUserToken(token)
		if err != nil {
			httputil.RespondError(w, "Invalid or expired token", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), ProjectUserIDContextKey, projectUserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// GetOwnerIDFromContext extracts the authenticated owner id from the request context
func GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(OwnerIDContextKey).(uuid.UUID)
	return ownerID, ok
}

// GetScopeFromContext extracts the API-key tenant scope from the request context
func GetScopeFromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(ScopeContextKey).(Scope)
	return scope, ok
}

// GetProjectUserIDFromContext extracts the authenticated end-user id from the request context
func GetProjectUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	projectUserID, ok := ctx.Value(ProjectUserIDContextKey).(uuid.UUID)
	return projectUserID, ok
}
