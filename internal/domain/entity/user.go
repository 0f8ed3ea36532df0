package entity

import "time"

// Valid roles for User.
const (
	RoleAdmin  = "admin"  // prep-center staff, full access
	RoleClient = "client" // portal user, scoped to its company
)

// User represents a system user (belongs to a Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, never plaintext in the domain after persisting
	Name         string
	Role         string // admin, client
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
