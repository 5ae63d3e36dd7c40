package analytics

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/report"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/screen"
	"github.com/strokerisk/strokerisk/internal/stats"
	"github.com/strokerisk/strokerisk/internal/ui/components"
	"github.com/strokerisk/strokerisk/internal/ui/layout"
	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

// maxHighRiskRows caps the high-risk list.
const maxHighRiskRows = 5

// Source provides the current records, newest first.
type Source interface {
	All() []assessment.Record
}

// AnalyticsScreen shows tier counts, the distribution and the most recent
// high-risk patients.
type AnalyticsScreen struct {
	source     Source
	thresholds risk.Thresholds
	records    []assessment.Record
	summary    stats.Summary
}

var _ screen.Screen = (*AnalyticsScreen)(nil)
var _ screen.KeyHintProvider = (*AnalyticsScreen)(nil)

// New creates an AnalyticsScreen over source.
func New(source Source, th risk.Thresholds) *AnalyticsScreen {
	s := &AnalyticsScreen{source: source, thresholds: th}
	s.refresh()
	return s
}

func (s *AnalyticsScreen) refresh() {
	s.records = s.source.All()
	s.summary = stats.Compute(s.records, s.thresholds)
}

func (s *AnalyticsScreen) Init() tea.Cmd { return nil }

func (s *AnalyticsScreen) Title() string { return "Analytics" }

func (s *AnalyticsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AnalyticsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "r" {
		s.refresh()
	}
	return s, nil
}

func (s *AnalyticsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	sum := s.summary

	counts := []string{
		statBox("Total", sum.Total, theme.Primary),
		statBox("High", sum.High, theme.TierColor(risk.TierHigh)),
		statBox("Medium", sum.Medium, theme.TierColor(risk.TierMedium)),
		statBox("Low", sum.Low, theme.TierColor(risk.TierLow)),
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, counts...))
	b.WriteString("\n\n")
	b.WriteString(theme.Selected.Render("Risk Distribution"))
	b.WriteString("\n")
	for _, t := range risk.AllTiers() {
		label := fmt.Sprintf("%-7s %-7s", strings.TrimSuffix(t.DisplayName(), " Risk"), s.thresholds.Band(t))
		bar := components.NewProgressBar(label, sum.Percent(t)/100, true, cw)
		bar.Color = theme.TierColor(t)
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Selected.Render("High Risk Patients"))
	b.WriteString("\n")
	high := stats.FilterByTier(s.records, risk.TierHigh, s.thresholds)
	if len(high) == 0 {
		b.WriteString(theme.Hint.Render("  None"))
	}
	for i, r := range high {
		if i == maxHighRiskRows {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  … and %d more", len(high)-maxHighRiskRows)))
			break
		}
		b.WriteString(theme.TierStyle(risk.TierHigh).Bold(false).Render(fmt.Sprintf("  %sy %-6s %6s  %s",
			assessment.FormatNumber(r.Profile.Age), r.Profile.Gender, r.PercentString(),
			r.CreatedAt.Local().Format(report.TimestampLayout))))
		b.WriteString("\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, "\n"+b.String())
}

func statBox(label string, n int, c color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Foreground(c).
		Width(14).
		Align(lipgloss.Center).
		Margin(0, 1).
		Render(fmt.Sprintf("%d\n%s", n, label))
}
