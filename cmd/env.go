package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strokerisk/strokerisk/internal/config"
	"github.com/strokerisk/strokerisk/internal/logger"
	"github.com/strokerisk/strokerisk/internal/metrics"
	"github.com/strokerisk/strokerisk/internal/predictor"
	"github.com/strokerisk/strokerisk/internal/store"
	"github.com/strokerisk/strokerisk/internal/submission"
)

// env is everything a command needs, built from configuration.
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
	store     *store.SubmissionStore
	predictor predictor.Predictor
	flow      *submission.Flow

	closers []func() error
}

// setup loads config and wires the store, predictor and flow. When
// logToFile is set, logs go to the configured file so they never draw over
// the TUI; otherwise they go to stderr.
func setup(cmd *cobra.Command, logToFile bool) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := config.DefaultOptions()
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		opts.ConfigFile = p
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if dbPath != "" {
		cfg.Store.Backend = config.BackendSQLite
		cfg.Store.Path = dbPath
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.Metrics.Addr = addr
	}

	e := &env{cfg: cfg}

	var paths []string
	if logToFile {
		if err := store.EnsureDir(cfg.Log.File); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		paths = []string{cfg.Log.File}
	}
	e.logger, err = logger.New(cfg.Log.Level, cfg.Log.Format, paths...)
	if err != nil {
		return nil, err
	}

	backend, err := e.openBackend(ctx)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.metrics = metrics.New()
	e.store = store.NewSubmissionStore(backend,
		store.WithSlot(cfg.Store.Slot),
		store.WithLogger(e.logger),
		store.OnSizeChange(func(n int) { e.metrics.StoredRecords.Set(float64(n)) }))
	records, err := e.store.Load(ctx)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("load submissions: %w", err)
	}

	hp, err := predictor.NewHTTPPredictor(cfg.Predictor)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.predictor = predictor.WithMetrics(predictor.WithLogging(hp, e.logger), e.metrics)

	e.flow = submission.NewFlow(e.predictor, e.store,
		submission.WithThresholds(cfg.Risk),
		submission.WithLogger(e.logger),
		submission.WithMetrics(e.metrics))

	e.logger.Debug("environment ready",
		zap.String("backend", cfg.Store.Backend),
		zap.String("predictor", cfg.Predictor.BaseURL),
		zap.Int("records", len(records)))
	return e, nil
}

func (e *env) openBackend(ctx context.Context) (store.SlotBackend, error) {
	sc := e.cfg.Store
	switch sc.Backend {
	case config.BackendSQLite:
		if err := store.EnsureDir(sc.Path); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		st, err := store.Open(sc.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		e.closers = append(e.closers, st.Close)
		return st.Slots(), nil
	case config.BackendFile:
		f, err := store.NewFileSlots(sc.Path)
		if err != nil {
			return nil, fmt.Errorf("open slot dir: %w", err)
		}
		return f, nil
	case config.BackendRedis:
		r, err := store.NewRedisSlots(ctx, sc.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		e.closers = append(e.closers, r.Close)
		return r, nil
	case config.BackendMemory:
		return store.NewMemorySlots(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}

// Close releases backends in reverse order and flushes the logger.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && e.logger != nil {
			e.logger.Warn("close failed", zap.Error(err))
		}
	}
	e.closers = nil
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}
