// Package stats derives counts, percentages and filtered views from a
// record sequence. Everything is recomputed from the records on each call.
package stats

import (
	"cmp"
	"slices"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/risk"
)

// Summary holds tier counts for a record sequence.
type Summary struct {
	Total  int
	High   int
	Medium int
	Low    int
}

// Compute counts records per tier. Tiers are derived from each record's
// probability with th, not read from the stored tier.
func Compute(records []assessment.Record, th risk.Thresholds) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch th.TierOf(r.Probability) {
		case risk.TierHigh:
			s.High++
		case risk.TierMedium:
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}

// Count returns the count for a tier.
func (s Summary) Count(t risk.Tier) int {
	switch t {
	case risk.TierHigh:
		return s.High
	case risk.TierMedium:
		return s.Medium
	case risk.TierLow:
		return s.Low
	default:
		return 0
	}
}

// Percent returns the share of a tier in [0,100].
func (s Summary) Percent(t risk.Tier) float64 {
	return Percentage(s.Count(t), s.Total)
}

// Percentage returns count / max(total,1) * 100, so an empty set yields 0.
func Percentage(count, total int) float64 {
	if total < 1 {
		total = 1
	}
	return float64(count) / float64(total) * 100
}

// FilterByTier returns the records in tier t, keeping their relative order.
func FilterByTier(records []assessment.Record, t risk.Tier, th risk.Thresholds) []assessment.Record {
	out := make([]assessment.Record, 0)
	for _, r := range records {
		if th.TierOf(r.Probability) == t {
			out = append(out, r)
		}
	}
	return out
}

// SortKey selects the field records are ordered by.
type SortKey string

const (
	SortByCreated     SortKey = "created"
	SortByProbability SortKey = "probability"
	SortByAge         SortKey = "age"
)

// Sort returns a sorted copy of records. Ties keep their input order.
func Sort(records []assessment.Record, key SortKey, descending bool) []assessment.Record {
	out := make([]assessment.Record, len(records))
	copy(out, records)

	compare := func(a, b assessment.Record) int {
		switch key {
		case SortByProbability:
			return cmp.Compare(a.Probability, b.Probability)
		case SortByAge:
			return cmp.Compare(a.Profile.Age, b.Profile.Age)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	slices.SortStableFunc(out, func(a, b assessment.Record) int {
		if descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}
