package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/report"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/stats"
	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

// selectRecords applies the optional tier filter and user filter.
func selectRecords(records []assessment.Record, tier, user string, th risk.Thresholds) ([]assessment.Record, error) {
	if tier != "" {
		t, err := risk.ParseTier(tier)
		if err != nil {
			return nil, err
		}
		records = stats.FilterByTier(records, t, th)
	}
	if user != "" {
		var mine []assessment.Record
		for _, r := range records {
			if r.SubmittedBy == user {
				mine = append(mine, r)
			}
		}
		records = mine
	}
	return records, nil
}

func parseSortKey(s string) (stats.SortKey, error) {
	switch k := stats.SortKey(s); k {
	case stats.SortByCreated, stats.SortByProbability, stats.SortByAge:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want created, probability or age)", s)
}

func newHistoryCmd() *cobra.Command {
	var (
		tier, sortBy, user string
		limit              int
		ascending          bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded assessments",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseSortKey(sortBy)
			if err != nil {
				return err
			}

			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			th := e.cfg.Risk
			records, err := selectRecords(e.store.All(), tier, user, th)
			if err != nil {
				return err
			}
			records = stats.Sort(records, key, !ascending)
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}

			w := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(w, "No assessments recorded.")
				return nil
			}
			renderHistory(w, records, th)
			return nil
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "", "Only show HIGH, MEDIUM or LOW records")
	cmd.Flags().StringVar(&sortBy, "sort", string(stats.SortByCreated), "Sort by created, probability or age")
	cmd.Flags().BoolVar(&ascending, "asc", false, "Sort ascending instead of descending")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many records (0 = all)")
	cmd.Flags().StringVar(&user, "user", "", "Only show records submitted by this username")
	return cmd
}

func renderHistory(w io.Writer, records []assessment.Record, th risk.Thresholds) {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.CreatedAt.Local().Format(report.TimestampLayout),
			assessment.FormatNumber(r.Profile.Age),
			string(r.Profile.Gender),
			r.PercentString(),
			string(th.TierOf(r.Probability)),
			r.SubmittedBy,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("DATE", "AGE", "GENDER", "RISK", "TIER", "USER").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if col == 4 {
				return s.Foreground(theme.TierColor(risk.Tier(rows[row][4])))
			}
			return s
		})

	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%d record(s)\n", len(records))
}
