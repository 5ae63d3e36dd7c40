package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strokerisk/strokerisk/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if addr := e.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := e.metrics.Serve(ctx, addr, e.logger); err != nil {
				e.logger.Error("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	return app.Run(app.Deps{
		Store:      e.store,
		Flow:       e.flow,
		Thresholds: e.cfg.Risk,
		ExportDir:  e.cfg.Export.Dir,
		Logger:     e.logger,
	})
}
