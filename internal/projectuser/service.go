package projectuser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/logging"
	"github.com/saishdhuri8/Authspark/internal/project"
)

var (
	ErrMissingParams = errors.New("parameters are missing")
	ErrWrongPassword = errors.New("incorrect password")
)

// PublicUser is the end-user shape exposed over the API: never the
// password hash
type PublicUser struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ProjectStore is the slice of project persistence the end-user service needs
type ProjectStore interface {
	GetByIDAndOwner(ctx context.Context, projectID, ownerID uuid.UUID) (*project.Project, error)
	AppendUser(ctx context.Context, projectID uuid.UUID, email, passwordHash string, metadata map[string]any) (*project.ProjectUser, error)
	GetUserByEmail(ctx context.Context, projectID, ownerID uuid.UUID, email string) (*project.ProjectUser, error)
	GetUserByID(ctx context.Context, projectID, ownerID, userID uuid.UUID) (*project.ProjectUser, error)
	SetUserActive(ctx context.Context, projectID, ownerID, userID uuid.UUID, active bool) error
	SetUserMetadata(ctx context.Context, projectID, ownerID, userID uuid.UUID, metadata map[string]any) error
}

// SignupNotifier delivers the fire-and-forget signup webhook
type SignupNotifier interface {
	SendSignupNotification(ctx context.Context, url string, user PublicUser) error
}

// Service handles end-user operations, always scoped by a decoded API key
type Service struct {
	store    ProjectStore
	codec    *auth.TokenCodec
	notifier SignupNotifier
	logger   *logging.Logger
}

func NewService(store ProjectStore, codec *auth.TokenCodec, notifier SignupNotifier, logger *logging.Logger) *Service {
	return &Service{
		store:    store,
		codec:    codec,
		notifier: notifier,
		logger:   logger,
	}
}

// Signup creates an end-user inside the scoped project and returns it with a
// session token whose lifetime is the project's configured validity. If the
// project has a signup webhook configured it is notified asynchronously;
// delivery failure never fails the signup.
func (s *Service) Signup(ctx context.Context, scope auth.Scope, email, password string, metadata map[string]any) (*PublicUser, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingParams
	}

	currentProject, err := s.store.GetByIDAndOwner(ctx, scope.ProjectID, scope.OwnerID)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return nil, "", project.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get project: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	// The UNIQUE(project_id, email) constraint decides duplicates; no
	// pre-check, so concurrent signups race safely
	savedUser, err := s.store.AppendUser(ctx, scope.ProjectID, email, passwordHash, metadata)
	if err != nil {
		if errors.Is(err, project.ErrDuplicateEmail) {
			return nil, "", project.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create project user: %w", err)
	}

	token, err := s.codec.CreateProjectUserToken(savedUser.ID, sessionDuration(currentProject))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	publicUser := toPublicUser(savedUser)

	if currentProject.URLForSignup != "" {
		// Fire-and-forget: detached context, single attempt, failure only logged
		go func() {
			notifyCtx := context.Background()
			if err := s.notifier.SendSignupNotification(notifyCtx, currentProject.URLForSignup, publicUser); err != nil {
				s.logger.Warn("signup webhook delivery failed",
					"project_id", currentProject.ID,
					"url", currentProject.URLForSignup,
					"error", err,
				)
			}
		}()
	}

	return &publicUser, token, nil
}

// Login authenticates an end-user within the scoped project
func (s *Service) Login(ctx context.Context, scope auth.Scope, email, password string) (*PublicUser, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingParams
	}

	currentProject, err := s.store.GetByIDAndOwner(ctx, scope.ProjectID, scope.OwnerID)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return nil, "", project.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get project: %w", err)
	}

	currentUser, err := s.store.GetUserByEmail(ctx, scope.ProjectID, scope.OwnerID, email)
	if err != nil {
		if errors.Is(err, project.ErrUserNotFound) {
			return nil, "", project.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to get project user: %w", err)
	}

	if !auth.VerifyPassword(currentUser.PasswordHash, password) {
		return nil, "", ErrWrongPassword
	}

	token, err := s.codec.CreateProjectUserToken(currentUser.ID, sessionDuration(currentProject))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	publicUser := toPublicUser(currentUser)
	return &publicUser, token, nil
}

// GetInfo returns the authenticated end-user's own public fields
func (s *Service) GetInfo(ctx context.Context, scope auth.Scope, projectUserID uuid.UUID) (*PublicUser, error) {
	currentUser, err := s.store.GetUserByID(ctx, scope.ProjectID, scope.OwnerID, projectUserID)
	if err != nil {
		if errors.Is(err, project.ErrUserNotFound) {
			return nil, project.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get project user: %w", err)
	}

	publicUser := toPublicUser(currentUser)
	return &publicUser, nil
}

// ToggleActive flips an end-user's active flag. Identity comes from the
// token carried in the payload itself, not from the session gate: the
// operation is reachable without a live session so consuming apps can call
// it from lifecycle hooks.
func (s *Service) ToggleActive(ctx context.Context, scope auth.Scope, rawToken string, active bool) error {
	projectUserID, err := s.codec.VerifyProjectUserToken(rawToken)
	if err != nil {
		return auth.ErrInvalidToken
	}

	if err := s.store.SetUserActive(ctx, scope.ProjectID, scope.OwnerID, projectUserID, active); err != nil {
		if errors.Is(err, project.ErrUserNotFound) {
			return project.ErrUserNotFound
		}
		return fmt.Errorf("failed to set active flag: %w", err)
	}

	return nil
}

// UpdateMetadata replaces the end-user's metadata document wholesale
func (s *Service) UpdateMetadata(ctx context.Context, scope auth.Scope, projectUserID uuid.UUID, metadata map[string]any) error {
	if err := s.store.SetUserMetadata(ctx, scope.ProjectID, scope.OwnerID, projectUserID, metadata); err != nil {
		if errors.Is(err, project.ErrUserNotFound) {
			return project.ErrUserNotFound
		}
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}

func sessionDuration(p *project.Project) time.Duration {
	return time.Duration(p.TokenValidTime) * time.Hour
}

func toPublicUser(u *project.ProjectUser) PublicUser {
	metadata := u.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Metadata:  metadata,
		CreatedAt: u.CreatedAt,
	}
}
