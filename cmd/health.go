package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strokerisk/strokerisk/internal/predictor"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the prediction service is up and has a model loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			h, err := predictor.CheckHealth(cmd.Context(), e.predictor)
			if err != nil {
				var perr *predictor.PredictionError
				if errors.As(err, &perr) {
					return errors.New(perr.UserMessage())
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Service:      %s\n", e.cfg.Predictor.BaseURL)
			fmt.Fprintf(cmd.OutOrStdout(), "Status:       %s\n", h.Status)
			fmt.Fprintf(cmd.OutOrStdout(), "Model loaded: %t\n", h.ModelLoaded)
			if !h.ModelLoaded {
				return errors.New("prediction service has no model loaded")
			}
			return nil
		},
	}
}
