package submission

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/metrics"
	"github.com/strokerisk/strokerisk/internal/predictor"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/store"
)

// Outcome labels used for the submissions counter.
const (
	outcomeRecorded         = "recorded"
	outcomeValidationFailed = "validation_failed"
	outcomeStoreFailed      = "store_failed"
	outcomeDefect           = "defect"
)

// Outcome describes one finished submission.
type Outcome struct {
	// Record is the appended record; nil unless the submission succeeded.
	Record *assessment.Record

	// Classification of Record.Probability under the shared thresholds.
	Classification risk.Classification

	// Transitions lists every state the submission passed through,
	// starting with StateIdle.
	Transitions []State

	// Err is the failure cause; nil on success.
	Err error
}

// Final returns the last state reached.
func (o *Outcome) Final() State {
	if len(o.Transitions) == 0 {
		return StateIdle
	}
	return o.Transitions[len(o.Transitions)-1]
}

func (o *Outcome) enter(s State) { o.Transitions = append(o.Transitions, s) }

func (o *Outcome) fail(err error) (*Outcome, error) {
	o.enter(StateFailed)
	o.Err = err
	return o, err
}

// Flow validates a profile, asks the predictor for a probability and
// appends the resulting record to the store. A Flow is safe for concurrent
// use; each Submit is an independent attempt.
type Flow struct {
	predictor  predictor.Predictor
	store      store.Port
	thresholds risk.Thresholds
	logger     *zap.Logger
	metrics    *metrics.Metrics
	clock      func() time.Time
	newID      func() (string, error)
	submitter  string
	observers  []func(assessment.Record)
}

// Option configures a Flow.
type Option func(*Flow)

// WithThresholds sets the tier thresholds applied to new records.
func WithThresholds(th risk.Thresholds) Option {
	return func(f *Flow) { f.thresholds = th }
}

// WithLogger sets the flow logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithMetrics enables submission counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Flow) { f.metrics = m }
}

// WithClock overrides the record timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(f *Flow) { f.clock = clock }
}

// WithSubmitter tags every record with the given user name.
func WithSubmitter(name string) Option {
	return func(f *Flow) { f.submitter = name }
}

// OnRecorded registers fn to run after each successful append.
func OnRecorded(fn func(assessment.Record)) Option {
	return func(f *Flow) { f.observers = append(f.observers, fn) }
}

// NewFlow creates a submission flow.
func NewFlow(p predictor.Predictor, s store.Port, opts ...Option) *Flow {
	f := &Flow{
		predictor:  p,
		store:      s,
		thresholds: risk.DefaultThresholds(),
		logger:     zap.NewNop(),
		clock:      time.Now,
		newID:      newRecordID,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Thresholds returns the thresholds the flow classifies with.
func (f *Flow) Thresholds() risk.Thresholds { return f.thresholds }

// With returns a copy of f with opts applied. Observers registered on f
// carry over; new ones are added to the copy only.
func (f *Flow) With(opts ...Option) *Flow {
	cp := *f
	cp.observers = slices.Clone(f.observers)
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// WithUser returns a copy of f that tags records with the given user name.
func (f *Flow) WithUser(name string) *Flow {
	return f.With(WithSubmitter(name))
}

// Submit runs one submission. On failure the returned error is a
// *assessment.ValidationError, a *predictor.PredictionError, or a storage
// error, and the store is left untouched. The Outcome is always non-nil.
func (f *Flow) Submit(ctx context.Context, profile assessment.HealthProfile) (*Outcome, error) {
	out := &Outcome{Transitions: []State{StateIdle}}

	out.enter(StateValidating)
	if err := profile.Validate(); err != nil {
		f.count(outcomeValidationFailed)
		f.logger.Debug("submission rejected locally", zap.Error(err))
		return out.fail(err)
	}

	out.enter(StateAwaitingPredictor)
	res, err := f.predictor.Predict(ctx, profile)
	if err != nil {
		kind := predictor.KindOf(err)
		if kind == "" {
			// Predictors are expected to return *PredictionError only.
			err = &predictor.PredictionError{Kind: predictor.KindUnreachable, Message: "prediction failed", Err: err}
			kind = predictor.KindUnreachable
		}
		f.count(string(kind))
		return out.fail(err)
	}

	cls, err := f.thresholds.Classify(res.Probability)
	if err != nil {
		f.count(outcomeDefect)
		f.logger.Error("predictor returned an invalid probability",
			zap.Float64("probability", res.Probability), zap.Error(err))
		return out.fail(fmt.Errorf("classify prediction: %w", err))
	}

	id, err := f.newID()
	if err != nil {
		f.count(outcomeDefect)
		return out.fail(fmt.Errorf("generate record id: %w", err))
	}

	rec := assessment.Record{
		ID:                 id,
		Profile:            profile,
		Probability:        res.Probability,
		Tier:               cls.Tier,
		CreatedAt:          f.clock().UTC(),
		PredictorRiskLevel: res.RiskLevel,
		SubmittedBy:        f.submitter,
	}

	if err := f.store.Append(ctx, rec); err != nil {
		f.count(outcomeStoreFailed)
		f.logger.Error("append record failed", zap.String("id", rec.ID), zap.Error(err))
		return out.fail(fmt.Errorf("store record: %w", err))
	}

	out.enter(StateSucceeded)
	out.Record = &rec
	out.Classification = cls

	f.count(outcomeRecorded)
	if f.metrics != nil {
		f.metrics.Tiers.WithLabelValues(string(cls.Tier)).Inc()
	}
	f.logger.Info("assessment recorded",
		zap.String("id", rec.ID),
		zap.String("tier", string(rec.Tier)),
		zap.Float64("probability", rec.Probability))

	for _, fn := range f.observers {
		fn(rec)
	}
	return out, nil
}

func (f *Flow) count(outcome string) {
	if f.metrics != nil {
		f.metrics.Submissions.WithLabelValues(outcome).Inc()
	}
}

// IsValidation reports whether err came from local profile validation.
func IsValidation(err error) bool {
	var ve *assessment.ValidationError
	return errors.As(err, &ve)
}

// newRecordID returns a time-ordered UUID so IDs sort by creation.
func newRecordID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
