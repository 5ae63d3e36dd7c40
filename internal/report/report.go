// Package report renders assessment records as CSV and as a plain-text
// summary. Renderers are pure; WriteFile is the only function touching disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/stats"
	"github.com/strokerisk/strokerisk/internal/store"
)

// TimestampLayout formats record timestamps in exports.
const TimestampLayout = "2006-01-02 15:04:05"

// CSVHeader is the fixed column list of the CSV export.
var CSVHeader = []string{
	"Timestamp", "Age", "Gender", "Hypertension", "Heart Disease",
	"Glucose", "BMI", "Probability", "Risk Level",
}

// CSV renders records as CSV in input order. Every field is quoted and
// lines end with "\n" without a trailing newline, so n records produce
// n+1 lines.
func CSV(records []assessment.Record, th risk.Thresholds) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, csvRow(CSVHeader))
	for _, r := range records {
		lines = append(lines, csvRow([]string{
			formatTime(r.CreatedAt),
			assessment.FormatNumber(r.Profile.Age),
			string(r.Profile.Gender),
			assessment.YesNo(r.Profile.Hypertension),
			assessment.YesNo(r.Profile.HeartDisease),
			assessment.FormatNumber(r.Profile.AvgGlucoseLevel),
			assessment.FormatNumber(r.Profile.BMI),
			assessment.FormatPercent(r.Probability),
			string(th.TierOf(r.Probability)),
		}))
	}
	return strings.Join(lines, "\n")
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// Text renders the summary report: counts, tier distribution and the
// itemized high-risk list in input order.
func Text(records []assessment.Record, th risk.Thresholds, generatedAt time.Time) string {
	sum := stats.Compute(records, th)
	high := stats.FilterByTier(records, risk.TierHigh, th)

	var b strings.Builder
	b.WriteString("STROKE RISK ASSESSMENT REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", formatTime(generatedAt))

	b.WriteString("SUMMARY:\n")
	b.WriteString("========\n")
	fmt.Fprintf(&b, "Total Assessments: %d\n", sum.Total)
	fmt.Fprintf(&b, "High Risk Cases: %d\n", sum.High)
	fmt.Fprintf(&b, "Medium Risk Cases: %d\n", sum.Medium)
	fmt.Fprintf(&b, "Low Risk Cases: %d\n\n", sum.Low)

	b.WriteString("RISK DISTRIBUTION:\n")
	b.WriteString("==================\n")
	fmt.Fprintf(&b, "High Risk (%s): %.1f%%\n", th.Band(risk.TierHigh), sum.Percent(risk.TierHigh))
	fmt.Fprintf(&b, "Medium Risk (%s): %.1f%%\n", th.Band(risk.TierMedium), sum.Percent(risk.TierMedium))
	fmt.Fprintf(&b, "Low Risk (%s): %.1f%%\n\n", th.Band(risk.TierLow), sum.Percent(risk.TierLow))

	b.WriteString("HIGH RISK PATIENTS (Require Immediate Attention):\n")
	b.WriteString("=================================================\n")
	if len(high) == 0 {
		b.WriteString("None\n")
	}
	for _, r := range high {
		fmt.Fprintf(&b, "• %sy %s - %s risk (Assessed: %s)\n",
			assessment.FormatNumber(r.Profile.Age),
			r.Profile.Gender,
			assessment.FormatPercent(r.Probability),
			formatTime(r.CreatedAt))
	}

	b.WriteString("\nThis report was generated automatically by strokerisk.")
	return b.String()
}

func formatTime(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// CSVFilename returns stroke_assessments_<YYYY-MM-DD>.csv.
func CSVFilename(t time.Time) string {
	return "stroke_assessments_" + t.Format(time.DateOnly) + ".csv"
}

// TextFilename returns stroke_risk_report_<YYYY-MM-DD>.txt.
func TextFilename(t time.Time) string {
	return "stroke_risk_report_" + t.Format(time.DateOnly) + ".txt"
}

// WriteFile writes content to dir/name atomically and returns the full path.
func WriteFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := store.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
