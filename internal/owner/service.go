package owner

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/logging"
)

var (
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrWrongPassword      = errors.New("wrong password")
)

// Store is the persistence surface the owner service needs
type Store interface {
	Create(ctx context.Context, name, email, passwordHash string) (*Owner, error)
	GetByEmail(ctx context.Context, email string) (*Owner, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Owner, error)
}

// Service handles owner account business logic
type Service struct {
	store         Store
	codec         *auth.TokenCodec
	logger        *logging.Logger
	tokenDuration time.Duration
}

func NewService(store Store, codec *auth.TokenCodec, logger *logging.Logger, tokenDuration time.Duration) *Service {
	return &Service{
		store:         store,
		codec:         codec,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// Signup creates a new owner account and returns it with a session token
func (s *Service) Signup(ctx context.Context, name, email, password string) (*Owner, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", ErrMissingFields
	}
	if len(email) > 254 {
		return nil, "", ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmailFormat
	}
	if len(password) < 8 {
		return nil, "", ErrPasswordTooShort
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newOwner, err := s.store.Create(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create owner: %w", err)
	}

	token, err := s.codec.CreateOwnerToken(newOwner.ID, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	return newOwner, token, nil
}

// Login authenticates an owner and returns the account with a session token
func (s *Service) Login(ctx context.Context, email, password string) (*Owner, string, error) {
	currentOwner, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get owner: %w", err)
	}

	if !auth.VerifyPassword(currentOwner.PasswordHash, password) {
		return nil, "", ErrWrongPassword
	}

	token, err := s.codec.CreateOwnerToken(currentOwner.ID, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	return currentOwner, token, nil
}

// Profile returns the owner account for an authenticated session
func (s *Service) Profile(ctx context.Context, ownerID uuid.UUID) (*Owner, error) {
	currentOwner, err := s.store.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}

	return currentOwner, nil
}
