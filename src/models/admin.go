package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is an administrator's authorization level
type Role string

const (
	// RoleSuperAdmin can manage other administrators
	RoleSuperAdmin Role = "super_admin"
	// RoleAdmin can process RUTs and read administrator data
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// Admin represents an administrator account
type Admin struct {
	ID           uuid.UUID  `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never expose
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// AdminUpdate is a partial update; nil fields are left untouched.
// PasswordHash is set by the service, never bound from a request.
type AdminUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *Role
	IsActive     *bool
}

// IsEmpty reports whether the update changes nothing
func (u AdminUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordHash == nil && u.Role == nil && u.IsActive == nil
}
