package models

import (
	"time"
)

// UserRole represents the role of an operator account on the dashboard/API.
// Leads never authenticate; this guards the human-facing surface only.
type UserRole string

const (
	RoleAgent UserRole = "agent"
	RoleAdmin UserRole = "admin"
)

// User represents an operator account
type User struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

