// Package domain holds the core types for the studio booking server.
package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants slot management and roster access.
	RoleAdmin Role = "admin"
	// RoleUser grants standard booking access.
	RoleUser Role = "user"
)

// User represents an authenticated account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Stored hashed, never serialized
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLoginAt  time.Time `json:"last_login_at,omitzero"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
