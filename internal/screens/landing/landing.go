package landing

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/strokerisk/strokerisk/internal/screen"
	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const pulseArt = `      ╭────────────────────────╮
      │  ──╮  ╭╮   ╭──────────  │
      │    ╰──╯╰╮ ╭╯            │
      │         ╰─╯             │
      ╰────────────────────────╯`

// heartbeat frames cycle beside the pulse line
var beatFrames = []string{"♥", "♡"}

type tickMsg time.Time

// LandingScreen shows a splash animation until a key is pressed.
type LandingScreen struct {
	onContinue   func() tea.Cmd
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*LandingScreen)(nil)

// New creates a LandingScreen that runs onContinue on the first keypress.
func New(onContinue func() tea.Cmd) *LandingScreen {
	return &LandingScreen{onContinue: onContinue}
}

func (l *LandingScreen) Title() string {
	return ""
}

func (l *LandingScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (l *LandingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if l.elapsed < totalDur {
			l.elapsed += tickInterval
		}
		l.tickCount++
		return l, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyPressMsg:
		return l, l.transition()
	}

	return l, nil
}

func (l *LandingScreen) transition() tea.Cmd {
	if l.transitioned {
		return nil
	}
	l.transitioned = true
	return l.onContinue()
}

func (l *LandingScreen) View(width, height int) string {
	var sections []string

	pulse := lipgloss.NewStyle().Foreground(theme.Secondary).Render(pulseArt)

	// Phase 2+: heartbeat beside the pulse line
	if l.elapsed >= phase1End {
		beat := beatFrames[l.tickCount%len(beatFrames)]
		heart := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(beat)

		lines := strings.Split(pulse, "\n")
		if len(lines) > 2 {
			lines[2] = lines[2] + "  " + heart
		}
		pulse = strings.Join(lines, "\n")
	}
	sections = append(sections, pulse)

	// Phase 3+: banner, tagline and hint
	if l.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Know your stroke risk. Act early.")
		sections = append(sections, tagline, "")

		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to get started")
		sections = append(sections, hint)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
