package analytics

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/risk"
)

type mutableSource struct{ records []assessment.Record }

func (m *mutableSource) All() []assessment.Record { return m.records }

func rec(p float64) assessment.Record {
	return assessment.Record{
		ID:          "id",
		Profile:     assessment.DefaultProfile(),
		Probability: p,
		Tier:        risk.DefaultThresholds().TierOf(p),
		CreatedAt:   time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestEmptyStoreShowsZeroes(t *testing.T) {
	s := New(&mutableSource{}, risk.DefaultThresholds())
	view := s.View(120, 40)

	if !strings.Contains(view, "0.0%") {
		t.Error("expected 0.0% distribution for an empty store")
	}
	if !strings.Contains(view, "None") {
		t.Error("expected no high-risk patients")
	}
}

func TestDistributionAndHighRiskList(t *testing.T) {
	src := &mutableSource{records: []assessment.Record{rec(0.82), rec(0.75), rec(0.5), rec(0.1)}}
	s := New(src, risk.DefaultThresholds())

	if s.summary.High != 2 || s.summary.Medium != 1 || s.summary.Low != 1 {
		t.Fatalf("unexpected summary %+v", s.summary)
	}
	view := s.View(120, 40)
	for _, want := range []string{"50.0%", "25.0%", "82.0%", "75.0%", ">70%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHighRiskListIsCapped(t *testing.T) {
	src := &mutableSource{}
	for i := 0; i < maxHighRiskRows+3; i++ {
		src.records = append(src.records, rec(0.9))
	}
	s := New(src, risk.DefaultThresholds())
	if !strings.Contains(s.View(120, 40), "and 3 more") {
		t.Error("expected overflow note")
	}
}

func TestRefreshPicksUpNewRecords(t *testing.T) {
	src := &mutableSource{}
	s := New(src, risk.DefaultThresholds())

	src.records = []assessment.Record{rec(0.9)}
	s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if s.summary.Total != 1 {
		t.Errorf("expected refresh to recount, got %d", s.summary.Total)
	}
}
