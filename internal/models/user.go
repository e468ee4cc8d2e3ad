package models

import "time"

// Role names form a closed set; membership is many-to-many with User.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleHR       Role = "HR"
	RoleEmployee Role = "EMPLOYEE"
	RoleUser     Role = "USER"
)

// roleLevel orders roles from least to most privileged for "X or higher"
// route predicates (e.g. "read: USER+").
var roleLevel = map[Role]int{
	RoleUser:     1,
	RoleEmployee: 2,
	RoleManager:  3,
	RoleHR:       3,
	RoleAdmin:    4,
}

// AtLeast reports whether r carries at least the privilege of min.
func (r Role) AtLeast(min Role) bool {
	return roleLevel[r] >= roleLevel[min]
}

// ValidRole reports whether r is one of the closed-set role names.
func ValidRole(r Role) bool {
	_, ok := roleLevel[r]
	return ok
}

// User is an identity that can authenticate against the service. Usernames
// and emails are globally unique; the password is never stored or logged in
// plaintext.
type User struct {
	Base
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Enabled      bool       `json:"enabled"`
	Roles        []Role     `json:"roles"`
	EmployeeID   string     `json:"employee_id,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HighestRole returns the most privileged role assigned to the user, or
// RoleUser if the user has no roles (which Validate forbids for enabled
// users, but the zero value must still be safe to compare).
func (u *User) HighestRole() Role {
	best := Role("")
	bestLevel := -1
	for _, r := range u.Roles {
		if lvl := roleLevel[r]; lvl > bestLevel {
			bestLevel = lvl
			best = r
		}
	}
	if best == "" {
		return RoleUser
	}
	return best
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Roles    []Role `json:"roles,omitempty"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the payload for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse carries the issued tokens and the authenticated profile.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}
