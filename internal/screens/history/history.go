package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/report"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/router"
	"github.com/strokerisk/strokerisk/internal/screen"
	"github.com/strokerisk/strokerisk/internal/stats"
	"github.com/strokerisk/strokerisk/internal/ui/layout"
	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

// Source provides the current records, newest first.
type Source interface {
	All() []assessment.Record
}

// Options configure a HistoryScreen.
type Options struct {
	Title string

	// Submitter limits the list to records submitted by this user.
	Submitter string

	// Tier is the initial tier filter; empty shows every tier.
	Tier risk.Tier
}

type historyLoadedMsg struct {
	Records []assessment.Record
}

var sortCycle = []stats.SortKey{stats.SortByCreated, stats.SortByProbability, stats.SortByAge}

var sortLabels = map[stats.SortKey]string{
	stats.SortByCreated:     "newest",
	stats.SortByProbability: "probability",
	stats.SortByAge:         "age",
}

// HistoryScreen lists assessment records colored by risk tier.
type HistoryScreen struct {
	source     Source
	thresholds risk.Thresholds
	opts       Options

	records  []assessment.Record
	tier     risk.Tier
	sortIdx  int
	selected int
	expanded map[string]bool
	loaded   bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source, th risk.Thresholds, opts Options) *HistoryScreen {
	if opts.Title == "" {
		opts.Title = "History"
	}
	return &HistoryScreen{
		source:     source,
		thresholds: th,
		opts:       opts,
		tier:       opts.Tier,
		expanded:   make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		records := s.source.All()
		if s.opts.Submitter != "" {
			mine := make([]assessment.Record, 0, len(records))
			for _, r := range records {
				if r.SubmittedBy == s.opts.Submitter {
					mine = append(mine, r)
				}
			}
			records = mine
		}
		return historyLoadedMsg{Records: records}
	}
}

func (s *HistoryScreen) Title() string {
	return s.opts.Title
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "f", Description: "Filter"},
		{Key: "s", Description: "Sort"},
		{Key: "Esc", Description: "Back"},
	}
}

// visible returns the records after the tier filter and sort.
func (s *HistoryScreen) visible() []assessment.Record {
	records := s.records
	if s.tier != "" {
		records = stats.FilterByTier(records, s.tier, s.thresholds)
	}
	key := sortCycle[s.sortIdx]
	return stats.Sort(records, key, true)
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.records = msg.Records
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.visible())-1 {
				s.selected++
			}
		case "enter":
			if v := s.visible(); s.selected < len(v) {
				id := v[s.selected].ID
				s.expanded[id] = !s.expanded[id]
			}
		case "f":
			s.tier = nextTier(s.tier)
			s.selected = 0
		case "s":
			s.sortIdx = (s.sortIdx + 1) % len(sortCycle)
			s.selected = 0
		}
	}
	return s, nil
}

// nextTier cycles all → HIGH → MEDIUM → LOW → all.
func nextTier(t risk.Tier) risk.Tier {
	tiers := risk.AllTiers()
	if t == "" {
		return tiers[0]
	}
	for i, v := range tiers {
		if v == t && i+1 < len(tiers) {
			return tiers[i+1]
		}
	}
	return ""
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	if !s.loaded {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n  Loading history...")
	}

	filter := "all tiers"
	if s.tier != "" {
		filter = s.tier.DisplayName() + " only"
	}
	status := theme.Hint.Render(fmt.Sprintf("%s · sorted by %s", filter, sortLabels[sortCycle[s.sortIdx]]))

	records := s.visible()
	if len(records) == 0 {
		return "\n" + center(lipgloss.NewStyle(), status) + "\n" +
			center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
				"\n  No assessments yet. Complete a risk assessment to see it here.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle(), status))
	b.WriteString("\n\n")

	for i, r := range records {
		tier := s.thresholds.TierOf(r.Probability)

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %3sy %-6s  %6s  %-6s",
			prefix,
			r.CreatedAt.Local().Format(report.TimestampLayout),
			assessment.FormatNumber(r.Profile.Age),
			r.Profile.Gender,
			r.PercentString(),
			tier)

		style := theme.TierStyle(tier)
		if i != s.selected {
			style = style.Bold(false)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[r.ID] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render(detailLine(r))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func detailLine(r assessment.Record) string {
	p := r.Profile
	return fmt.Sprintf("    glucose %s · BMI %s · hypertension %s · heart disease %s · %s",
		assessment.FormatNumber(p.AvgGlucoseLevel),
		assessment.FormatNumber(p.BMI),
		assessment.YesNo(p.Hypertension),
		assessment.YesNo(p.HeartDisease),
		p.SmokingStatus.Label())
}
