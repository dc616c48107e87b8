package project

import (
	"time"

	"github.com/google/uuid"
)

// PageSize is the fixed page size for project user listings
const PageSize = 7

// Project is an isolated tenant namespace with its own end-users, API key
// and settings
type Project struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"-"`
	Name           string    `json:"name"`
	APIKey         string    `json:"apiKey"`
	TokenValidTime int       `json:"tokenValidTime"` // session lifetime for end-users, in hours
	URLForSignup   string    `json:"urlForSignup"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Summary is the project shape returned by listings: never embedded users,
// never credentials
type Summary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	TotalUsers int       `json:"totalUsers"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Info is the owner-facing project detail view
type Info struct {
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
	Pages          int       `json:"pages"`
	TotalUsers     int       `json:"totalUsers"`
	APIKey         string    `json:"apiKey"`
	TokenValidTime int       `json:"tokenValidTime"`
	URLForSignup   string    `json:"urlForSignup"`
}

// ProjectUser is an end-user belonging to exactly one project
type ProjectUser struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // Never expose password hash in JSON
	IsActive     bool           `json:"isActive"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// UserPage is one page of project users plus whole-project counters
type UserPage struct {
	Users       []ProjectUser `json:"users"`
	ActiveUsers int           `json:"activeUsers"`
	TotalUsers  int           `json:"totalUsers"`
}

// MonthlyStat is one calendar-month signup bucket
type MonthlyStat struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
