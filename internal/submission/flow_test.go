package submission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/metrics"
	"github.com/strokerisk/strokerisk/internal/predictor"
	"github.com/strokerisk/strokerisk/internal/report"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/stats"
	"github.com/strokerisk/strokerisk/internal/store"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newStore(t *testing.T) *store.SubmissionStore {
	t.Helper()
	s := store.NewSubmissionStore(store.NewMemorySlots())
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s
}

func highRiskProfile() assessment.HealthProfile {
	p := assessment.DefaultProfile()
	p.Age = 72
	p.AvgGlucoseLevel = 180
	p.BMI = 34
	p.Hypertension = true
	return p
}

func TestSubmitSuccess(t *testing.T) {
	s := newStore(t)
	mock := predictor.NewMockPredictor(predictor.MockResponse{
		Result: &predictor.Result{Probability: 0.82, RiskLevel: "HIGH"},
	})

	var observed []assessment.Record
	flow := NewFlow(mock, s,
		WithClock(func() time.Time { return fixedNow }),
		WithSubmitter("Patient User"),
		OnRecorded(func(r assessment.Record) { observed = append(observed, r) }),
	)

	out, err := flow.Submit(context.Background(), highRiskProfile())
	require.NoError(t, err)
	require.NotNil(t, out.Record)

	assert.Equal(t, []State{StateIdle, StateValidating, StateAwaitingPredictor, StateSucceeded}, out.Transitions)
	assert.Equal(t, StateSucceeded, out.Final())
	assert.Equal(t, risk.TierHigh, out.Classification.Tier)
	assert.Equal(t, risk.ColorHigh, out.Classification.Color)

	rec := *out.Record
	assert.Equal(t, 0.82, rec.Probability)
	assert.Equal(t, risk.TierHigh, rec.Tier)
	assert.Equal(t, fixedNow, rec.CreatedAt)
	assert.Equal(t, "HIGH", rec.PredictorRiskLevel)
	assert.Equal(t, "Patient User", rec.SubmittedBy)
	assert.Len(t, rec.ID, 36)
	assert.Equal(t, highRiskProfile(), rec.Profile)

	require.Len(t, s.All(), 1)
	assert.Equal(t, rec, s.All()[0])
	assert.Equal(t, []assessment.Record{rec}, observed)

	th := flow.Thresholds()
	high := stats.FilterByTier(s.All(), risk.TierHigh, th)
	require.Len(t, high, 1)
	assert.Equal(t, rec.ID, high[0].ID)

	text := report.Text(s.All(), th, fixedNow)
	_, highSection, found := strings.Cut(text, "HIGH RISK PATIENTS")
	require.True(t, found)
	assert.Contains(t, highSection, "• 72y Male - 82.0% risk")
}

func TestSubmitValidationFailure(t *testing.T) {
	s := newStore(t)
	mock := predictor.NewMockPredictor(predictor.Probability(0.5))
	flow := NewFlow(mock, s)

	p := assessment.DefaultProfile()
	p.Age = -5

	out, err := flow.Submit(context.Background(), p)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var ve *assessment.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("age"))

	assert.Equal(t, []State{StateIdle, StateValidating, StateFailed}, out.Transitions)
	assert.Nil(t, out.Record)
	assert.Equal(t, 0, mock.CallCount())
	assert.Empty(t, s.All())
}

func TestSubmitPredictionFailures(t *testing.T) {
	tests := []struct {
		name string
		resp predictor.MockResponse
		kind predictor.Kind
	}{
		{"unreachable", predictor.Failure(predictor.KindUnreachable, "connection refused"), predictor.KindUnreachable},
		{"rejected", predictor.Failure(predictor.KindRejected, "bad input"), predictor.KindRejected},
		{"malformed", predictor.Failure(predictor.KindMalformed, "no probability"), predictor.KindMalformed},
		{"untyped error", predictor.MockResponse{Err: errors.New("boom")}, predictor.KindUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			m := metrics.New()
			mock := predictor.NewMockPredictor(tt.resp)
			flow := NewFlow(mock, s, WithMetrics(m))

			out, err := flow.Submit(context.Background(), assessment.DefaultProfile())
			require.Error(t, err)
			assert.False(t, IsValidation(err))
			assert.Equal(t, tt.kind, predictor.KindOf(err))
			assert.Equal(t, StateFailed, out.Final())
			assert.Contains(t, out.Transitions, StateAwaitingPredictor)
			assert.Equal(t, 1, mock.CallCount())
			assert.Empty(t, s.All())
			assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues(string(tt.kind))))
		})
	}
}

func TestSubmitUnreachableDistinctFromRejected(t *testing.T) {
	s := newStore(t)
	mock := predictor.NewMockPredictor(
		predictor.Failure(predictor.KindUnreachable, "timeout"),
		predictor.Failure(predictor.KindRejected, "bad input"),
	)
	flow := NewFlow(mock, s)

	_, errA := flow.Submit(context.Background(), assessment.DefaultProfile())
	_, errB := flow.Submit(context.Background(), assessment.DefaultProfile())

	assert.True(t, predictor.IsUnreachable(errA))
	assert.False(t, predictor.IsRejected(errA))
	assert.True(t, predictor.IsRejected(errB))
	assert.False(t, predictor.IsUnreachable(errB))
}

func TestSubmitInvalidProbabilityIsDefect(t *testing.T) {
	s := newStore(t)
	mock := predictor.NewMockPredictor(predictor.Probability(1.5))
	flow := NewFlow(mock, s)

	out, err := flow.Submit(context.Background(), assessment.DefaultProfile())
	require.Error(t, err)
	assert.ErrorIs(t, err, risk.ErrInvalidProbability)
	assert.Equal(t, StateFailed, out.Final())
	assert.Empty(t, s.All())
}

type failingPort struct{ store.Port }

func (failingPort) Append(context.Context, assessment.Record) error {
	return errors.New("disk full")
}

func TestSubmitStoreFailure(t *testing.T) {
	s := newStore(t)
	mock := predictor.NewMockPredictor(predictor.Probability(0.2))

	var observed int
	flow := NewFlow(mock, failingPort{s}, OnRecorded(func(assessment.Record) { observed++ }))

	out, err := flow.Submit(context.Background(), assessment.DefaultProfile())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, StateFailed, out.Final())
	assert.Zero(t, observed)
	assert.Empty(t, s.All())
}

func TestSubmitCustomThresholds(t *testing.T) {
	s := newStore(t)
	mock := predictor.NewMockPredictor(predictor.Probability(0.35))
	flow := NewFlow(mock, s, WithThresholds(risk.Thresholds{Medium: 0.2, High: 0.3}))

	out, err := flow.Submit(context.Background(), assessment.DefaultProfile())
	require.NoError(t, err)
	assert.Equal(t, risk.TierHigh, out.Record.Tier)
}

func TestSubmitConcurrent(t *testing.T) {
	const n = 16
	s := newStore(t)
	mock := predictor.NewMockPredictor()
	for i := 0; i < n; i++ {
		mock.AddResponse(predictor.Probability(float64(i) / n))
	}
	m := metrics.New()
	flow := NewFlow(mock, s, WithMetrics(m))

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := flow.Submit(context.Background(), assessment.DefaultProfile())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	records := s.All()
	require.Len(t, records, n)
	ids := make(map[string]bool, n)
	for _, r := range records {
		ids[r.ID] = true
	}
	assert.Len(t, ids, n)
	assert.Equal(t, float64(n), testutil.ToFloat64(m.Submissions.WithLabelValues(outcomeRecorded)))
}

func TestWithUserDoesNotMutateOriginal(t *testing.T) {
	s := newStore(t)
	mock := predictor.NewMockPredictor(predictor.Probability(0.1), predictor.Probability(0.1))
	base := NewFlow(mock, s)
	admin := base.WithUser("Admin User")

	outA, err := admin.Submit(context.Background(), assessment.DefaultProfile())
	require.NoError(t, err)
	outB, err := base.Submit(context.Background(), assessment.DefaultProfile())
	require.NoError(t, err)

	assert.Equal(t, "Admin User", outA.Record.SubmittedBy)
	assert.Empty(t, outB.Record.SubmittedBy)
}

func TestWithAddsObserversToCopyOnly(t *testing.T) {
	s := newStore(t)
	mock := predictor.NewMockPredictor(predictor.Probability(0.2), predictor.Probability(0.8))
	var baseSeen, copySeen []string
	base := NewFlow(mock, s, OnRecorded(func(r assessment.Record) { baseSeen = append(baseSeen, r.ID) }))
	tagged := base.With(WithSubmitter("pat"), OnRecorded(func(r assessment.Record) { copySeen = append(copySeen, r.ID) }))

	outA, err := tagged.Submit(context.Background(), assessment.DefaultProfile())
	require.NoError(t, err)
	outB, err := base.Submit(context.Background(), assessment.DefaultProfile())
	require.NoError(t, err)

	assert.Equal(t, "pat", outA.Record.SubmittedBy)
	assert.Equal(t, []string{outA.Record.ID, outB.Record.ID}, baseSeen)
	assert.Equal(t, []string{outA.Record.ID}, copySeen)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_predictor", StateAwaitingPredictor.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateValidating.Terminal())
}
