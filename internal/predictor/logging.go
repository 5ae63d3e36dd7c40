package predictor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/metrics"
)

// LoggingPredictor is a decorator that logs every prediction call.
type LoggingPredictor struct {
	inner  Predictor
	logger *zap.Logger
}

// WithLogging wraps a Predictor with structured logging.
func WithLogging(p Predictor, logger *zap.Logger) Predictor {
	return &LoggingPredictor{inner: p, logger: logger.Named("predictor")}
}

func (l *LoggingPredictor) Predict(ctx context.Context, profile assessment.HealthProfile) (*Result, error) {
	start := time.Now()
	res, err := l.inner.Predict(ctx, profile)
	latency := time.Since(start)

	if err != nil {
		l.logger.Warn("prediction failed",
			zap.String("kind", string(KindOf(err))),
			zap.Duration("latency", latency),
			zap.Error(err))
		return nil, err
	}

	l.logger.Info("prediction received",
		zap.Float64("probability", res.Probability),
		zap.String("service_risk_level", res.RiskLevel),
		zap.Duration("latency", latency))
	return res, nil
}

// Health forwards to the inner predictor when it supports health checks.
func (l *LoggingPredictor) Health(ctx context.Context) (*Health, error) {
	return health(ctx, l.inner)
}

// MetricsPredictor is a decorator that times prediction calls.
type MetricsPredictor struct {
	inner   Predictor
	metrics *metrics.Metrics
}

// WithMetrics wraps a Predictor with latency and outcome metrics.
func WithMetrics(p Predictor, m *metrics.Metrics) Predictor {
	return &MetricsPredictor{inner: p, metrics: m}
}

func (m *MetricsPredictor) Predict(ctx context.Context, profile assessment.HealthProfile) (*Result, error) {
	start := time.Now()
	res, err := m.inner.Predict(ctx, profile)

	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	m.metrics.PredictorRequests.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return res, err
}

func (m *MetricsPredictor) Health(ctx context.Context) (*Health, error) {
	return health(ctx, m.inner)
}

// CheckHealth probes p if it (or what it wraps) supports health checks.
func CheckHealth(ctx context.Context, p Predictor) (*Health, error) {
	return health(ctx, p)
}

func health(ctx context.Context, p Predictor) (*Health, error) {
	hc, ok := p.(HealthChecker)
	if !ok {
		return nil, &PredictionError{Kind: KindUnreachable, Message: "predictor does not support health checks"}
	}
	return hc.Health(ctx)
}
