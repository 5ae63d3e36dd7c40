package login

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/strokerisk/strokerisk/internal/auth"
	"github.com/strokerisk/strokerisk/internal/screen"
	"github.com/strokerisk/strokerisk/internal/ui/components"
	"github.com/strokerisk/strokerisk/internal/ui/layout"
	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

const (
	fieldRole = iota
	fieldUsername
	fieldPassword
	fieldCount
)

// LoginScreen collects a role, username and password.
type LoginScreen struct {
	authenticator auth.Authenticator
	onLogin       func(auth.User) tea.Cmd
	onBack        func() tea.Cmd

	role     components.Selector
	username components.TextInput
	password components.TextInput
	focus    int
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen. onLogin runs after successful authentication,
// onBack when the user leaves with Esc.
func New(a auth.Authenticator, onLogin func(auth.User) tea.Cmd, onBack func() tea.Cmd) *LoginScreen {
	roles := auth.Roles()
	labels := make([]string, len(roles))
	for i, r := range roles {
		labels[i] = r.Label()
	}

	s := &LoginScreen{
		authenticator: a,
		onLogin:       onLogin,
		onBack:        onBack,
		role:          components.NewSelector(labels, 0),
		username:      components.NewTextInput("username", false, 64),
		password:      components.NewPasswordInput("password", 64),
		focus:         fieldUsername,
	}
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.setFocus(fieldUsername)
}

func (s *LoginScreen) Title() string {
	return "Sign In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Role"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, s.forward(msg)
	}

	switch kmsg.String() {
	case "esc":
		return s, s.onBack()
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	case "enter":
		return s, s.submit()
	}
	return s, s.forward(msg)
}

func (s *LoginScreen) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldRole:
		s.role, cmd = s.role.Update(msg)
	case fieldUsername:
		s.username, cmd = s.username.Update(msg)
	case fieldPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return cmd
}

func (s *LoginScreen) setFocus(field int) tea.Cmd {
	s.focus = field
	s.role.Blur()
	s.username.Blur()
	s.password.Blur()

	switch field {
	case fieldRole:
		s.role.Focus()
	case fieldUsername:
		return s.username.Focus()
	case fieldPassword:
		return s.password.Focus()
	}
	return nil
}

func (s *LoginScreen) selectedRole() auth.Role {
	return auth.Roles()[s.role.Selected]
}

func (s *LoginScreen) submit() tea.Cmd {
	user, err := s.authenticator.Authenticate(s.username.Value(), s.password.Value(), s.selectedRole())
	if err != nil {
		if errors.Is(err, auth.ErrMissingCredentials) {
			s.errMsg = "Please enter both username and password"
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}
	s.errMsg = ""
	return s.onLogin(user)
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 48 {
		cw = 48
	}

	row := func(label, value string) string {
		return theme.Label.Width(12).Render(label) + value
	}

	lines := []string{
		theme.Title.Width(cw - 6).Render("Login"),
		"",
		row("Role", s.role.View()),
		"",
		row("Username", s.username.View()),
		row("Password", s.password.View()),
	}
	if s.errMsg != "" {
		lines = append(lines, "", theme.ErrorText.Render(s.errMsg))
	}

	card := components.Card(strings.Join(lines, "\n"), cw, nil)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
