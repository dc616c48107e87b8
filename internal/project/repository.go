package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/saishdhuri8/Authspark/internal/database"
)

var (
	ErrNotFound       = errors.New("project not found")
	ErrUserNotFound   = errors.New("project user not found")
	ErrDuplicateEmail = errors.New("email already exists in project")
)

// ownerScopeCond re-validates project ownership inside the same statement as
// the operation it guards. A forged or stale projectId can never reach
// another owner's data, and there is no read-check-then-write window.
const ownerScopeCond = "project_id IN (SELECT id FROM projects WHERE id = ? AND owner_id = ?)"

// Repository handles project and project-user persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new project. The API key is patched in afterwards via
// SetAPIKey once the generated id is known.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, name string, tokenValidTime int, urlForSignup string) (*Project, error) {
	dbProject := &database.Project{
		OwnerID:        ownerID,
		Name:           name,
		TokenValidTime: tokenValidTime,
		URLForSignup:   urlForSignup,
	}

	_, err := r.db.NewInsert().
		Model(dbProject).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return mapDBProjectToModel(dbProject), nil
}

// SetAPIKey stores the minted API key on a freshly created project
func (r *Repository) SetAPIKey(ctx context.Context, projectID, ownerID uuid.UUID, apiKey string) error {
	result, err := r.db.NewUpdate().
		Model((*database.Project)(nil)).
		Set("api_key = ?", apiKey).
		Set("updated_at = now()").
		Where("id = ?", projectID).
		Where("owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set api key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByIDAndOwner retrieves a project scoped by both ids. This is the only
// read shape for project data when an owner context exists.
func (r *Repository) GetByIDAndOwner(ctx context.Context, projectID, ownerID uuid.UUID) (*Project, error) {
	dbProject := new(database.Project)
	err := r.db.NewSelect().
		Model(dbProject).
		Where("id = ?", projectID).
		Where("owner_id = ?", ownerID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return mapDBProjectToModel(dbProject), nil
}

// ListByOwner returns project summaries with user counts, oldest first
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Summary, error) {
	var rows []struct {
		ID         uuid.UUID `bun:"id"`
		Name       string    `bun:"name"`
		CreatedAt  time.Time `bun:"created_at"`
		TotalUsers int       `bun:"total_users"`
	}

	err := r.db.NewSelect().
		Model((*database.Project)(nil)).
		ColumnExpr("p.id, p.name, p.created_at").
		ColumnExpr("count(pu.id) AS total_users").
		Join("LEFT JOIN project_users AS pu ON pu.project_id = p.id").
		Where("p.owner_id = ?", ownerID).
		GroupExpr("p.id").
		OrderExpr("p.created_at ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, Summary{
			ID:         row.ID,
			Name:       row.Name,
			TotalUsers: row.TotalUsers,
			CreatedAt:  row.CreatedAt,
		})
	}

	return summaries, nil
}

// CountUsers returns the total user count of a project
func (r *Repository) CountUsers(ctx context.Context, projectID, ownerID uuid.UUID) (int, error) {
	count, err := r.db.NewSelect().
		Model((*database.ProjectUser)(nil)).
		Where(ownerScopeCond, projectID, ownerID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count project users: %w", err)
	}

	return count, nil
}

// UpdateSettings applies a partial settings update in a single scoped
// statement. Nil fields keep their prior value.
func (r *Repository) UpdateSettings(ctx context.Context, projectID, ownerID uuid.UUID, tokenValidTime *int, urlForSignup *string) error {
	if tokenValidTime == nil && urlForSignup == nil {
		return nil
	}

	query := r.db.NewUpdate().
		Model((*database.Project)(nil)).
		Set("updated_at = now()").
		Where("id = ?", projectID).
		Where("owner_id = ?", ownerID)

	if tokenValidTime != nil {
		query = query.Set("token_valid_time = ?", *tokenValidTime)
	}
	if urlForSignup != nil {
		query = query.Set("url_for_signup = ?", *urlForSignup)
	}

	result, err := query.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update project settings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendUser inserts a new end-user into a project. The caller must have
// resolved the project through GetByIDAndOwner first; the foreign key then
// guarantees the project still exists and ownership is immutable, while the
// UNIQUE(project_id, email) constraint rejects the loser of a concurrent
// duplicate signup.
func (r *Repository) AppendUser(ctx context.Context, projectID uuid.UUID, email, passwordHash string, metadata map[string]any) (*ProjectUser, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}

	dbUser := &database.ProjectUser{
		ProjectID:    projectID,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		Metadata:     metadata,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create project user: %w", err)
	}

	return mapDBProjectUserToModel(dbUser), nil
}

// GetUserByEmail retrieves a project user by email within the scoped project
func (r *Repository) GetUserByEmail(ctx context.Context, projectID, ownerID uuid.UUID, email string) (*ProjectUser, error) {
	dbUser := new(database.ProjectUser)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Where(ownerScopeCond, projectID, ownerID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get project user by email: %w", err)
	}

	return mapDBProjectUserToModel(dbUser), nil
}

// GetUserByID retrieves a project user by internal id within the scoped project
func (r *Repository) GetUserByID(ctx context.Context, projectID, ownerID, userID uuid.UUID) (*ProjectUser, error) {
	dbUser := new(database.ProjectUser)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("pu.id = ?", userID).
		Where(ownerScopeCond, projectID, ownerID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get project user by id: %w", err)
	}

	return mapDBProjectUserToModel(dbUser), nil
}

// ListUsersPage returns one fixed-size page of users in signup order plus
// whole-project totals. Out-of-range pages yield an empty slice, not an error.
func (r *Repository) ListUsersPage(ctx context.Context, projectID, ownerID uuid.UUID, page int) (*UserPage, error) {
	if page < 0 {
		page = 0
	}

	var dbUsers []database.ProjectUser
	err := r.db.NewSelect().
		Model(&dbUsers).
		Where(ownerScopeCond, projectID, ownerID).
		OrderExpr("created_at ASC, id ASC").
		Limit(PageSize).
		Offset(page * PageSize).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list project users: %w", err)
	}

	total, err := r.db.NewSelect().
		Model((*database.ProjectUser)(nil)).
		Where(ownerScopeCond, projectID, ownerID).
		Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count project users: %w", err)
	}

	active, err := r.db.NewSelect().
		Model((*database.ProjectUser)(nil)).
		Where(ownerScopeCond, projectID, ownerID).
		Where("is_active = ?", true).
		Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active project users: %w", err)
	}

	users := make([]ProjectUser, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, *mapDBProjectUserToModel(&dbUsers[i]))
	}

	return &UserPage{
		Users:       users,
		ActiveUsers: active,
		TotalUsers:  total,
	}, nil
}

// SetUserActive flips the active flag in a single scoped statement
func (r *Repository) SetUserActive(ctx context.Context, projectID, ownerID, userID uuid.UUID, active bool) error {
	result, err := r.db.NewUpdate().
		Model((*database.ProjectUser)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = now()").
		Where("id = ?", userID).
		Where(ownerScopeCond, projectID, ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set project user active flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetUserMetadata replaces the metadata document wholesale
func (r *Repository) SetUserMetadata(ctx context.Context, projectID, ownerID, userID uuid.UUID, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}

	result, err := r.db.NewUpdate().
		Model((*database.ProjectUser)(nil)).
		Set("metadata = ?", metadata).
		Set("updated_at = now()").
		Where("id = ?", userID).
		Where(ownerScopeCond, projectID, ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set project user metadata: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// RemoveUserByEmail deletes a project user by email. Removes at most one
// record (per-project email uniqueness); a missing email reports not-found,
// on retries too.
func (r *Repository) RemoveUserByEmail(ctx context.Context, projectID, ownerID uuid.UUID, email string) error {
	result, err := r.db.NewDelete().
		Model((*database.ProjectUser)(nil)).
		Where("email = ?", email).
		Where(ownerScopeCond, projectID, ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove project user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// MonthlySignupCounts buckets a year of signups by calendar month,
// zero-filled January through December
func (r *Repository) MonthlySignupCounts(ctx context.Context, projectID, ownerID uuid.UUID, year int) ([]MonthlyStat, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	var rows []struct {
		Month int `bun:"month"`
		Count int `bun:"count"`
	}

	err := r.db.NewSelect().
		Model((*database.ProjectUser)(nil)).
		ColumnExpr("EXTRACT(MONTH FROM created_at)::int AS month").
		ColumnExpr("count(*) AS count").
		Where(ownerScopeCond, projectID, ownerID).
		Where("created_at >= ?", start).
		Where("created_at < ?", end).
		GroupExpr("EXTRACT(MONTH FROM created_at)").
		OrderExpr("month ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate signup stats: %w", err)
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Month] = row.Count
	}

	return fillMonthlyBuckets(counts), nil
}

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sept", "Oct", "Nov", "Dec",
}

// fillMonthlyBuckets expands a sparse month(1-12)->count mapping into the
// full ordered 12-bucket slice
func fillMonthlyBuckets(counts map[int]int) []MonthlyStat {
	stats := make([]MonthlyStat, 12)
	for i := 0; i < 12; i++ {
		stats[i] = MonthlyStat{Month: monthNames[i], Count: counts[i+1]}
	}
	return stats
}

// mapDBProjectToModel converts database model to domain model
func mapDBProjectToModel(dbp *database.Project) *Project {
	return &Project{
		ID:             dbp.ID,
		OwnerID:        dbp.OwnerID,
		Name:           dbp.Name,
		APIKey:         dbp.APIKey,
		TokenValidTime: dbp.TokenValidTime,
		URLForSignup:   dbp.URLForSignup,
		CreatedAt:      dbp.CreatedAt,
	}
}

// mapDBProjectUserToModel converts database model to domain model
func mapDBProjectUserToModel(dbu *database.ProjectUser) *ProjectUser {
	return &ProjectUser{
		ID:           dbu.ID,
		Email:        dbu.Email,
		PasswordHash: dbu.PasswordHash,
		IsActive:     dbu.IsActive,
		Metadata:     dbu.Metadata,
		CreatedAt:    dbu.CreatedAt,
	}
}
