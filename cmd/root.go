package cmd

import (
	"github.com/spf13/cobra"

	"github.com/strokerisk/strokerisk/internal/store"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "strokerisk",
		Short: "Stroke risk assessment in the terminal",
		Long: "StrokeRisk collects a patient's health profile, asks a prediction service for a " +
			"stroke probability and keeps a history of classified assessments.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd)
		},
	}

	root.PersistentFlags().String("db", "", "Path to SQLite database file (selects the sqlite backend)")
	root.PersistentFlags().String("config", "", "Path to a config file (default: ./config.yaml)")
	root.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	root.AddCommand(
		newPredictCmd(),
		newHistoryCmd(),
		newStatsCmd(),
		newExportCmd(),
		newResetCmd(),
		newHealthCmd(),
		newVersionCmd(),
	)
	return root
}

func Execute() error {
	return newRootCmd().Execute()
}

// resolveDBPath returns the --db flag when set, creating its parent
// directory.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		return "", nil
	}
	return p, store.EnsureDir(p)
}
