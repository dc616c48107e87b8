package owner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/saishdhuri8/Authspark/internal/database"
)

var (
	ErrNotFound       = errors.New("owner not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Repository handles owner account persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new owner account
func (r *Repository) Create(ctx context.Context, name, email, passwordHash string) (*Owner, error) {
	dbOwner := &database.Owner{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	_, err := r.db.NewInsert().
		Model(dbOwner).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}

	return mapDBOwnerToModel(dbOwner), nil
}

// GetByEmail retrieves an owner by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Owner, error) {
	dbOwner := new(database.Owner)
	err := r.db.NewSelect().
		Model(dbOwner).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get owner by email: %w", err)
	}

	return mapDBOwnerToModel(dbOwner), nil
}

// GetByID retrieves an owner by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Owner, error) {
	dbOwner := new(database.Owner)
	err := r.db.NewSelect().
		Model(dbOwner).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get owner by id: %w", err)
	}

	return mapDBOwnerToModel(dbOwner), nil
}

// mapDBOwnerToModel converts database model to domain model
func mapDBOwnerToModel(dbo *database.Owner) *Owner {
	return &Owner{
		ID:           dbo.ID,
		Name:         dbo.Name,
		Email:        dbo.Email,
		PasswordHash: dbo.PasswordHash,
		CreatedAt:    dbo.CreatedAt,
		UpdatedAt:    dbo.UpdatedAt,
	}
}
