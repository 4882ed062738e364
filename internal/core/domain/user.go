package domain

import "errors"

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is an account record. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	UserName     string
	Email        string
	Role         Role
	PasswordHash string
}

// Identity returns the projection of u that is safe to put in a token.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, UserName: u.UserName, Email: u.Email, Role: u.Role}
}

// UserPatch carries the fields the current user asked to change.
// Role is not patchable from the API.
type UserPatch struct {
	UserName     *string
	Email        *string
	PasswordHash *string
}

// Identity is the authenticated caller, decoded from the bearer token.
type Identity struct {
	ID       string
	UserName string
	Email    string
	Role     Role
}

// Anonymous reports whether no caller is attached.
func (i Identity) Anonymous() bool {
	return i.ID == ""
}
