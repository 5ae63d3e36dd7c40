// Package auth is the demo sign-in used by the terminal UI. Any non-empty
// credentials are accepted; there is no user database.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredentials is returned when the username or password is blank.
var ErrMissingCredentials = errors.New("please enter both username and password")

// Role selects which dashboard a user lands on.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists the roles in login-form order.
func Roles() []Role { return []Role{RoleUser, RoleAdmin} }

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Label is the role as shown on the login form.
func (r Role) Label() string {
	if r == RoleAdmin {
		return "Admin"
	}
	return "Patient"
}

// User is a signed-in user.
type User struct {
	Username string
	Name     string
	Role     Role
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(username, password string, role Role) (User, error)
}

// DemoAuthenticator accepts every non-empty username and password.
type DemoAuthenticator struct{}

var _ Authenticator = DemoAuthenticator{}

func (DemoAuthenticator) Authenticate(username, password string, role Role) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, ErrMissingCredentials
	}

	u := User{Username: username, Role: role, Name: "Patient User"}
	switch role {
	case RoleAdmin:
		u.Name = "Admin User"
	case RoleUser:
	default:
		return User{}, fmt.Errorf("authenticate %s: unknown role %q", username, role)
	}
	return u, nil
}
