package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies one of the three account kinds the API serves.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Principal is the shared identity record behind every account,
// regardless of role. Role-specific data lives in the students and
// staff_profiles tables keyed by PrincipalID.
type Principal struct {
	ID           string     `db:"id" json:"id"`
	Role         Role       `db:"role" json:"role"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// LoginRequest holds credentials for any of the three login endpoints.
// Students and staff authenticate with their date of birth in
// DD/MM/YYYY form; admins use a real password.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and account summary.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	User      UserInfo  `json:"user"`
	IssuedAt  time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated account in responses.
type UserInfo struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}
