package models

import (
	"time"
)

// UserRole values. Admin access is granted to the "admin" role only.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the minimal account record the engine needs: identity for
// bookings and wallet ownership. Registration and authentication flows
// live outside this service; the JWT middleware only resolves an
// already-issued identity.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
