package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of staff/patient roles recognised by the clinic.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RolePatient      Role = "patient"
)

// Roles lists every valid role. The permission table in permissions.go is
// keyed by this set and must stay in sync with it.
var Roles = []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RolePatient}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RolePatient:
		return true
	}
	return false
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// User models a clinic account. Email is unique (case-insensitive); ID is
// assigned by the store and never reused within a process lifetime.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	Phone        string     `json:"phone,omitempty"`
	Department   string     `json:"department,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// NormalizeEmail lowercases and trims an email for case-insensitive
// comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfileUpdate carries the fields a user may change on their own account.
// Nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	Name       *string
	Phone      *string
	Department *string
	Avatar     *string
}

// UserUpdate is the admin-level mutation set. It is a superset of
// ProfileUpdate: role, email and the password hash are only mutable through
// this path.
type UserUpdate struct {
	Email        *string
	Name         *string
	Role         *Role
	Phone        *string
	Department   *string
	Avatar       *string
	PasswordHash *string
}
