package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/stats"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show assessment statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			th := e.cfg.Risk
			sum := stats.Compute(e.store.All(), th)
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Total assessments: %d\n", sum.Total)
			for _, t := range risk.AllTiers() {
				fmt.Fprintf(w, "%-12s %-9s %4d  %5.1f%%\n",
					t.DisplayName(), th.Band(t), sum.Count(t), sum.Percent(t))
			}
			if c := e.store.Corruption(); c != nil {
				fmt.Fprintf(w, "\nWarning: stored data was unreadable and has been ignored (%v)\n", c)
			}
			return nil
		},
	}
}
