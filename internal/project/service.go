package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/logging"
)

var ErrMissingFields = errors.New("name and tokenValidTime are required")

// Store is the persistence surface the owner-facing project service needs
type Store interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string, tokenValidTime int, urlForSignup string) (*Project, error)
	SetAPIKey(ctx context.Context, projectID, ownerID uuid.UUID, apiKey string) error
	GetByIDAndOwner(ctx context.Context, projectID, ownerID uuid.UUID) (*Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Summary, error)
	CountUsers(ctx context.Context, projectID, ownerID uuid.UUID) (int, error)
	UpdateSettings(ctx context.Context, projectID, ownerID uuid.UUID, tokenValidTime *int, urlForSignup *string) error
	ListUsersPage(ctx context.Context, projectID, ownerID uuid.UUID, page int) (*UserPage, error)
	RemoveUserByEmail(ctx context.Context, projectID, ownerID uuid.UUID, email string) error
	MonthlySignupCounts(ctx context.Context, projectID, ownerID uuid.UUID, year int) ([]MonthlyStat, error)
}

// Cache is the optional stats cache in front of the aggregation query
type Cache interface {
	GetMonthlyStats(ctx context.Context, projectID uuid.UUID, year int) ([]MonthlyStat, error)
	SetMonthlyStats(ctx context.Context, projectID uuid.UUID, year int, stats []MonthlyStat) error
}

// Service handles owner-facing project operations
type Service struct {
	store  Store
	cache  Cache
	codec  *auth.TokenCodec
	logger *logging.Logger
}

func NewService(store Store, cache Cache, codec *auth.TokenCodec, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		codec:  codec,
		logger: logger,
	}
}

// CreateProject creates a project and mints its API key. The key embeds the
// generated project id, so the row is persisted first and patched with the
// key right after; a project whose key never got patched has an empty key
// that no request can decode, never a key pointing at a non-existent project.
func (s *Service) CreateProject(ctx context.Context, ownerID uuid.UUID, name string, tokenValidTime int, urlForSignup string) (*Project, error) {
	if name == "" || tokenValidTime <= 0 {
		return nil, ErrMissingFields
	}

	newProject, err := s.store.Create(ctx, ownerID, name, tokenValidTime, urlForSignup)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	apiKey, err := s.codec.CreateAPIKey(ownerID, newProject.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mint api key: %w", err)
	}

	if err := s.store.SetAPIKey(ctx, newProject.ID, ownerID, apiKey); err != nil {
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}
	newProject.APIKey = apiKey

	return newProject, nil
}

// GetInfo returns the owner-facing detail view of a project
func (s *Service) GetInfo(ctx context.Context, projectID, ownerID uuid.UUID) (*Info, error) {
	currentProject, err := s.store.GetByIDAndOwner(ctx, projectID, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	totalUsers, err := s.store.CountUsers(ctx, projectID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &Info{
		Name:           currentProject.Name,
		CreatedAt:      currentProject.CreatedAt,
		Pages:          (totalUsers + PageSize - 1) / PageSize,
		TotalUsers:     totalUsers,
		APIKey:         currentProject.APIKey,
		TokenValidTime: currentProject.TokenValidTime,
		URLForSignup:   currentProject.URLForSignup,
	}, nil
}

// ListProjects returns summaries of all projects belonging to an owner
func (s *Service) ListProjects(ctx context.Context, ownerID uuid.UUID) ([]Summary, error) {
	summaries, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return summaries, nil
}

// UpdateSettings applies a partial settings update; nil fields keep their
// prior value
func (s *Service) UpdateSettings(ctx context.Context, projectID, ownerID uuid.UUID, tokenValidTime *int, urlForSignup *string) error {
	err := s.store.UpdateSettings(ctx, projectID, ownerID, tokenValidTime, urlForSignup)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update project settings: %w", err)
	}
	return nil
}

// ListUsersPage returns one page of project users plus whole-project counters
func (s *Service) ListUsersPage(ctx context.Context, projectID, ownerID uuid.UUID, page int) (*UserPage, error) {
	// Resolve the project first so an unknown or foreign project id reads as
	// not-found rather than an empty page
	if _, err := s.store.GetByIDAndOwner(ctx, projectID, ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	userPage, err := s.store.ListUsersPage(ctx, projectID, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return userPage, nil
}

// DeleteUser removes a project user by email
func (s *Service) DeleteUser(ctx context.Context, projectID, ownerID uuid.UUID, email string) error {
	err := s.store.RemoveUserByEmail(ctx, projectID, ownerID, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// MonthlyStats returns the 12 signup buckets for a year, served from the
// Redis cache when warm. Cache failures fall through to Postgres and are
// only logged.
func (s *Service) MonthlyStats(ctx context.Context, projectID, ownerID uuid.UUID, year int) ([]MonthlyStat, error) {
	// Ownership is verified before the cache is consulted; the cache key
	// carries no owner and must only be reachable for the project's owner
	if _, err := s.store.GetByIDAndOwner(ctx, projectID, ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if cached, err := s.cache.GetMonthlyStats(ctx, projectID, year); err == nil {
		return cached, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("stats cache read failed", "project_id", projectID, "error", err)
	}

	stats, err := s.store.MonthlySignupCounts(ctx, projectID, ownerID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	if err := s.cache.SetMonthlyStats(ctx, projectID, year, stats); err != nil {
		s.logger.Warn("stats cache write failed", "project_id", projectID, "error", err)
	}

	return stats, nil
}
