package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/strokerisk/strokerisk/internal/auth"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/router"
	"github.com/strokerisk/strokerisk/internal/screen"
	"github.com/strokerisk/strokerisk/internal/screens/dashboard"
	"github.com/strokerisk/strokerisk/internal/screens/home"
	"github.com/strokerisk/strokerisk/internal/screens/landing"
	"github.com/strokerisk/strokerisk/internal/screens/login"
	"github.com/strokerisk/strokerisk/internal/store"
	"github.com/strokerisk/strokerisk/internal/submission"
	"github.com/strokerisk/strokerisk/internal/ui/layout"
)

// Deps are the shared dependencies handed to every page.
type Deps struct {
	Store         store.Port
	Flow          *submission.Flow
	Thresholds    risk.Thresholds
	Authenticator auth.Authenticator
	ExportDir     string
	Logger        *zap.Logger
	Now           func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Authenticator == nil {
		d.Authenticator = auth.DemoAuthenticator{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   Deps
	state  State
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel on the landing page.
func newAppModel(deps Deps) AppModel {
	m := AppModel{deps: deps.withDefaults()}
	m.router = router.New(m.screenFor(m.state))
	return m
}

// State returns the current application state.
func (m AppModel) State() State { return m.state }

func emit(ev Event) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return ev }
	}
}

// screenFor builds the root screen of s.Page.
func (m AppModel) screenFor(s State) screen.Screen {
	switch s.Page {
	case PageHome:
		return home.New(emit(OpenLogin{}))
	case PageLogin:
		return login.New(m.deps.Authenticator,
			func(u auth.User) tea.Cmd { return emit(LoggedIn{User: u})() },
			emit(Back{}))
	case PageUserSession, PageAdminSession:
		svc := dashboard.Services{
			Store:      m.deps.Store,
			Flow:       m.deps.Flow,
			Thresholds: m.deps.Thresholds,
			ExportDir:  m.deps.ExportDir,
			Logger:     m.deps.Logger,
			Now:        m.deps.Now,
		}
		return dashboard.New(svc, *s.User, emit(Logout{}))
	default:
		return landing.New(emit(GetStarted{}))
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case Event:
		next, err := m.state.Apply(msg)
		if err != nil {
			m.deps.Logger.Warn("ignored page event", zap.Error(err))
			return m, nil
		}
		m.deps.Logger.Debug("page transition",
			zap.Stringer("from", m.state.Page), zap.Stringer("to", next.Page))
		m.state = next
		return m, m.router.Reset(m.screenFor(next))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := ""
	if m.state.User != nil {
		status = fmt.Sprintf("%s (%s)", m.state.User.Name, m.state.User.Role)
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
