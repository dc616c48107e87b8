package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Owner is the operator-level account that creates and manages projects
type Owner struct {
	bun.BaseModel `bun:"table:owners,alias:o"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Project is an isolated tenant namespace. The API key is minted once after
// the row exists (it embeds the generated id) and never changes afterwards.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	OwnerID        uuid.UUID `bun:"owner_id,notnull,type:uuid"`
	Name           string    `bun:"name,notnull"`
	APIKey         string    `bun:"api_key,notnull,default:''"`
	TokenValidTime int       `bun:"token_valid_time,notnull,default:1"`
	URLForSignup   string    `bun:"url_for_signup,notnull,default:''"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ProjectUser is an end-user belonging to exactly one project. Email is
// unique per project, not globally; UNIQUE(project_id, email) is the
// authority on duplicate signups.
type ProjectUser struct {
	bun.BaseModel `bun:"table:project_users,alias:pu"`

	ID           uuid.UUID      `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	ProjectID    uuid.UUID      `bun:"project_id,notnull,type:uuid"`
	Email        string         `bun:"email,notnull"`
	PasswordHash string         `bun:"password_hash,notnull"`
	IsActive     bool           `bun:"is_active,notnull,default:true"`
	Metadata     map[string]any `bun:"metadata,type:jsonb,default:'{}'"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
