package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strokerisk/strokerisk/internal/auth"
)

var (
	patient = auth.User{Username: "pat", Name: "Patient User", Role: auth.RoleUser}
	admin   = auth.User{Username: "root", Name: "Admin User", Role: auth.RoleAdmin}
)

func apply(t *testing.T, s State, events ...Event) State {
	t.Helper()
	for _, ev := range events {
		var err error
		s, err = s.Apply(ev)
		require.NoError(t, err, "applying %T", ev)
	}
	return s
}

func TestHappyPathToUserSession(t *testing.T) {
	s := apply(t, State{}, GetStarted{}, OpenLogin{}, LoggedIn{User: patient})
	assert.Equal(t, PageUserSession, s.Page)
	require.NotNil(t, s.User)
	assert.Equal(t, "Patient User", s.User.Name)
}

func TestAdminLoginLandsOnAdminSession(t *testing.T) {
	s := apply(t, State{}, GetStarted{}, OpenLogin{}, LoggedIn{User: admin})
	assert.Equal(t, PageAdminSession, s.Page)
	assert.True(t, s.User.IsAdmin())
}

func TestLogoutClearsUser(t *testing.T) {
	for _, u := range []auth.User{patient, admin} {
		s := apply(t, State{}, GetStarted{}, OpenLogin{}, LoggedIn{User: u}, Logout{})
		assert.Equal(t, PageLanding, s.Page)
		assert.Nil(t, s.User)
	}
}

func TestBackFromLogin(t *testing.T) {
	s := apply(t, State{}, GetStarted{}, OpenLogin{}, Back{})
	assert.Equal(t, PageHome, s.Page)
}

func TestUndefinedTransitions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{"logout on landing", State{Page: PageLanding}, Logout{}},
		{"login from home", State{Page: PageHome}, LoggedIn{User: patient}},
		{"back on home", State{Page: PageHome}, Back{}},
		{"get started twice", State{Page: PageHome}, GetStarted{}},
		{"open login from session", State{Page: PageUserSession, User: &patient}, OpenLogin{}},
		{"login while signed in", State{Page: PageAdminSession, User: &admin}, LoggedIn{User: patient}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.state.Apply(tt.event)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.state, next)
		})
	}
}

func TestApplyDoesNotAliasUser(t *testing.T) {
	u := patient
	s := apply(t, State{Page: PageLogin}, LoggedIn{User: u})
	u.Name = "changed"
	assert.Equal(t, "Patient User", s.User.Name)
}

func TestPageString(t *testing.T) {
	assert.Equal(t, "admin_session", PageAdminSession.String())
	assert.Equal(t, "page(9)", Page(9).String())
	assert.True(t, PageUserSession.InSession())
	assert.False(t, PageLogin.InSession())
}
