package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/auth"
	"github.com/strokerisk/strokerisk/internal/report"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/router"
	"github.com/strokerisk/strokerisk/internal/screen"
	"github.com/strokerisk/strokerisk/internal/screens/analytics"
	"github.com/strokerisk/strokerisk/internal/screens/assess"
	"github.com/strokerisk/strokerisk/internal/screens/history"
	"github.com/strokerisk/strokerisk/internal/stats"
	"github.com/strokerisk/strokerisk/internal/store"
	"github.com/strokerisk/strokerisk/internal/submission"
	"github.com/strokerisk/strokerisk/internal/ui/components"
	"github.com/strokerisk/strokerisk/internal/ui/layout"
	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

// Services are the dependencies shared by the session screens.
type Services struct {
	Store      store.Port
	Flow       *submission.Flow
	Thresholds risk.Thresholds
	ExportDir  string
	Logger     *zap.Logger
	Now        func() time.Time
}

// severity of a status line.
type severity int

const (
	sevSuccess severity = iota
	sevWarning
	sevInfo
	sevError
)

type statusMsg struct {
	text string
	sev  severity
}

// DashboardScreen is the signed-in landing page for both roles.
type DashboardScreen struct {
	svc      Services
	user     auth.User
	onLogout func() tea.Cmd

	menu       components.Menu
	status     *statusMsg
	confirming bool
	summary    stats.Summary

	// stale is set from the submission goroutine when a record lands.
	stale atomic.Bool
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates the dashboard for user. onLogout runs when the user signs out.
func New(svc Services, user auth.User, onLogout func() tea.Cmd) *DashboardScreen {
	if svc.Now == nil {
		svc.Now = time.Now
	}
	if svc.Logger == nil {
		svc.Logger = zap.NewNop()
	}
	d := &DashboardScreen{svc: svc, user: user, onLogout: onLogout}
	d.menu = components.NewMenu(d.items())
	d.refresh()
	return d
}

func (d *DashboardScreen) items() []components.MenuItem {
	flow := d.sessionFlow()
	assessItem := components.MenuItem{Label: "NEW ASSESSMENT", Action: func() tea.Cmd {
		return push(assess.New(flow, assessment.DefaultProfile()))
	}}
	logout := components.MenuItem{Label: "LOGOUT", Action: d.onLogout}

	if !d.user.IsAdmin() {
		return []components.MenuItem{
			assessItem,
			{Label: "MY HISTORY", Action: func() tea.Cmd {
				return push(history.New(d.svc.Store, d.svc.Thresholds, history.Options{
					Title:     "My History",
					Submitter: d.user.Username,
				}))
			}},
			logout,
		}
	}

	return []components.MenuItem{
		{Label: "ANALYTICS", Action: func() tea.Cmd {
			return push(analytics.New(d.svc.Store, d.svc.Thresholds))
		}},
		{Label: "ALL SUBMISSIONS", Action: func() tea.Cmd {
			return push(history.New(d.svc.Store, d.svc.Thresholds, history.Options{Title: "All Submissions"}))
		}},
		{Label: "HIGH RISK", Action: d.highRisk},
		assessItem,
		{Label: "EXPORT CSV", Action: d.exportCSV},
		{Label: "GENERATE REPORT", Action: d.generateReport},
		{Label: "CLEAR ALL DATA", Action: func() tea.Cmd {
			d.confirming = true
			return nil
		}},
		logout,
	}
}

// sessionFlow tags records with the signed-in user and marks the summary
// stale whenever one is recorded.
func (d *DashboardScreen) sessionFlow() *submission.Flow {
	return d.svc.Flow.With(
		submission.WithSubmitter(d.user.Username),
		submission.OnRecorded(func(assessment.Record) { d.stale.Store(true) }))
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (d *DashboardScreen) refresh() {
	d.summary = stats.Compute(d.svc.Store.All(), d.svc.Thresholds)
}

func (d *DashboardScreen) Init() tea.Cmd { return nil }

func (d *DashboardScreen) Title() string {
	if d.user.IsAdmin() {
		return "Admin Dashboard"
	}
	return "Patient Dashboard"
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	if d.confirming {
		return []layout.KeyHint{
			{Key: "y", Description: "Clear everything"},
			{Key: "n", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		d.status = &msg
		d.refresh()
		return d, nil

	case tea.KeyMsg:
		if d.confirming {
			switch msg.String() {
			case "y", "Y":
				d.confirming = false
				return d, d.clearAll()
			case "n", "N", "esc":
				d.confirming = false
			}
			return d, nil
		}
		// Any navigation dismisses the last status line.
		d.status = nil
		d.refresh()
	}

	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) highRisk() tea.Cmd {
	if len(stats.FilterByTier(d.svc.Store.All(), risk.TierHigh, d.svc.Thresholds)) == 0 {
		return status("No high risk patients found", sevInfo)
	}
	return push(history.New(d.svc.Store, d.svc.Thresholds, history.Options{
		Title: "High Risk Patients",
		Tier:  risk.TierHigh,
	}))
}

func (d *DashboardScreen) exportCSV() tea.Cmd {
	records := d.svc.Store.All()
	if len(records) == 0 {
		return status("No data to export", sevWarning)
	}
	now := d.svc.Now()
	return d.write(report.CSVFilename(now), report.CSV(records, d.svc.Thresholds), "Data exported to CSV")
}

func (d *DashboardScreen) generateReport() tea.Cmd {
	records := d.svc.Store.All()
	if len(records) == 0 {
		return status("No data to generate report", sevWarning)
	}
	now := d.svc.Now()
	return d.write(report.TextFilename(now), report.Text(records, d.svc.Thresholds, now), "Report generated")
}

// write saves content off the update loop and reports back with a status.
func (d *DashboardScreen) write(name, content, done string) tea.Cmd {
	dir, logger := d.svc.ExportDir, d.svc.Logger
	return func() tea.Msg {
		path, err := report.WriteFile(dir, name, content)
		if err != nil {
			logger.Error("export failed", zap.String("file", name), zap.Error(err))
			return statusMsg{text: "Export failed: " + err.Error(), sev: sevError}
		}
		logger.Info("export written", zap.String("path", path))
		return statusMsg{text: fmt.Sprintf("%s: %s", done, path), sev: sevSuccess}
	}
}

func (d *DashboardScreen) clearAll() tea.Cmd {
	st, logger := d.svc.Store, d.svc.Logger
	return func() tea.Msg {
		if err := st.Clear(context.Background()); err != nil {
			logger.Error("clear failed", zap.Error(err))
			return statusMsg{text: "Could not clear data: " + err.Error(), sev: sevError}
		}
		logger.Info("all assessment data cleared")
		return statusMsg{text: "All data cleared successfully", sev: sevSuccess}
	}
}

func status(text string, sev severity) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, sev: sev} }
}

func (d *DashboardScreen) View(width, height int) string {
	if d.stale.Swap(false) {
		d.refresh()
	}
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render("Welcome, "+d.user.Name))

	if d.user.IsAdmin() {
		s := d.summary
		line := fmt.Sprintf("%d assessments   %s   %s   %s",
			s.Total,
			theme.TierStyle(risk.TierHigh).Render(fmt.Sprintf("%d high", s.High)),
			theme.TierStyle(risk.TierMedium).Render(fmt.Sprintf("%d medium", s.Medium)),
			theme.TierStyle(risk.TierLow).Render(fmt.Sprintf("%d low", s.Low)))
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(line))
	} else {
		sections = append(sections, theme.Subtitle.Width(cw).Render("Assess your stroke risk and review past results"))
	}

	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)
	var menu string
	if compact || len(d.menu.Items) > 4 {
		menu = d.menu.View()
	} else {
		menu = d.menu.ButtonView(24)
	}
	sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(menu))

	if d.confirming {
		sections = append(sections, theme.ErrorText.Width(cw).Render(
			"Clear all assessment data? This cannot be undone. (y/n)"))
	} else if d.status != nil {
		sections = append(sections, statusStyle(d.status.sev).Width(cw).Render(d.status.text))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func statusStyle(sev severity) lipgloss.Style {
	switch sev {
	case sevWarning:
		return lipgloss.NewStyle().Foreground(theme.Accent)
	case sevInfo:
		return lipgloss.NewStyle().Foreground(theme.Secondary)
	case sevError:
		return theme.ErrorText
	default:
		return theme.Status
	}
}
