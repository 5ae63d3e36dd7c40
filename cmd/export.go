package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/report"
	"github.com/strokerisk/strokerisk/internal/risk"
)

func newExportCmd() *cobra.Command {
	var (
		outDir, tier string
		now          = time.Now
	)

	export := func(cmd *cobra.Command, name func(time.Time) string, render func([]assessment.Record, risk.Thresholds, time.Time) string, empty string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		records, err := selectRecords(e.store.All(), tier, "", e.cfg.Risk)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), empty)
			return nil
		}

		dir := outDir
		if dir == "" {
			dir = e.cfg.Export.Dir
		}
		t := now()
		path, err := report.WriteFile(dir, name(t), render(records, e.cfg.Risk, t))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d record(s) to %s\n", len(records), path)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export assessments as CSV or a text report",
	}
	cmd.PersistentFlags().StringVar(&outDir, "out", "", "Output directory (default: export.dir from config)")
	cmd.PersistentFlags().StringVar(&tier, "tier", "", "Only export HIGH, MEDIUM or LOW records")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "csv",
			Short: "Write stroke_assessments_<date>.csv",
			RunE: func(cmd *cobra.Command, args []string) error {
				return export(cmd, report.CSVFilename,
					func(r []assessment.Record, th risk.Thresholds, _ time.Time) string { return report.CSV(r, th) },
					"No data to export")
			},
		},
		&cobra.Command{
			Use:   "report",
			Short: "Write stroke_risk_report_<date>.txt",
			RunE: func(cmd *cobra.Command, args []string) error {
				return export(cmd, report.TextFilename, report.Text, "No data to generate report")
			},
		},
	)
	return cmd
}
