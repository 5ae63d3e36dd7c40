package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

// Selector is a horizontal single-choice selector driven by left/right.
type Selector struct {
	Options  []string
	Selected int
	focused  bool
}

// NewSelector creates a selector with the given option selected.
func NewSelector(options []string, selected int) Selector {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return Selector{Options: options, Selected: selected}
}

// Update handles left/right navigation while focused.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if s.Selected > 0 {
			s.Selected--
		}
	case "right", "l", "space":
		if s.Selected < len(s.Options)-1 {
			s.Selected++
		} else if kmsg.String() == "space" {
			s.Selected = 0
		}
	}
	return s, nil
}

// Value returns the selected option.
func (s Selector) Value() string {
	if len(s.Options) == 0 {
		return ""
	}
	return s.Options[s.Selected]
}

// Focus gives the selector keyboard focus.
func (s *Selector) Focus() { s.focused = true }

// Blur removes keyboard focus.
func (s *Selector) Blur() { s.focused = false }

// Focused reports whether the selector has focus.
func (s Selector) Focused() bool { return s.focused }

// View renders the options on one line, highlighting the selection.
func (s Selector) View() string {
	parts := make([]string, len(s.Options))
	for i, opt := range s.Options {
		switch {
		case i == s.Selected && s.focused:
			parts[i] = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Secondary).
				Bold(true).
				Render(" " + opt + " ")
		case i == s.Selected:
			parts[i] = theme.Selected.Render("[" + opt + "]")
		default:
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(" " + opt + " ")
		}
	}
	return strings.Join(parts, " ")
}
