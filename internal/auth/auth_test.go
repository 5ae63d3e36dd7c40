package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoAuthenticator(t *testing.T) {
	var a DemoAuthenticator

	u, err := a.Authenticate("alice", "secret", RoleUser)
	require.NoError(t, err)
	assert.Equal(t, User{Username: "alice", Name: "Patient User", Role: RoleUser}, u)
	assert.False(t, u.IsAdmin())

	u, err = a.Authenticate(" root ", "x", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "root", u.Username)
	assert.Equal(t, "Admin User", u.Name)
	assert.True(t, u.IsAdmin())
}

func TestDemoAuthenticatorMissingCredentials(t *testing.T) {
	var a DemoAuthenticator

	for _, tc := range [][2]string{{"", "pw"}, {"  ", "pw"}, {"bob", ""}, {"", ""}} {
		_, err := a.Authenticate(tc[0], tc[1], RoleUser)
		assert.ErrorIs(t, err, ErrMissingCredentials, "username=%q password=%q", tc[0], tc[1])
	}
}

func TestDemoAuthenticatorUnknownRole(t *testing.T) {
	_, err := DemoAuthenticator{}.Authenticate("bob", "pw", Role("guest"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingCredentials)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("root")
	assert.Error(t, err)

	assert.Equal(t, "Patient", RoleUser.Label())
	assert.Equal(t, []Role{RoleUser, RoleAdmin}, Roles())
}
