package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics groups the application's collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	// Submissions counts finished submissions by outcome
	// (recorded, validation_failed, unreachable, rejected, malformed, store_failed).
	Submissions *prometheus.CounterVec

	// PredictorRequests times predictor calls by outcome.
	PredictorRequests *prometheus.HistogramVec

	// StoredRecords is the number of records in the durable store.
	StoredRecords prometheus.Gauge

	// Tiers counts recorded assessments by risk tier.
	Tiers *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Submissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strokerisk_submissions_total",
				Help: "Total number of assessment submissions by outcome",
			},
			[]string{"outcome"},
		),
		PredictorRequests: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "strokerisk_predictor_request_duration_seconds",
				Help:    "Duration of prediction service calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		StoredRecords: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "strokerisk_stored_records",
				Help: "Number of assessment records in the durable store",
			},
		),
		Tiers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strokerisk_recorded_tiers_total",
				Help: "Total number of recorded assessments by risk tier",
			},
			[]string{"tier"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
