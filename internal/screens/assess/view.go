package assess

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/ui/components"
	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

func (s *AssessScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var content string
	switch s.phase {
	case phaseResult:
		content = s.resultView(cw)
	case phaseSubmitting:
		content = s.formView(cw) + "\n\n" + s.spinner.View() + " Analyzing..."
	case phaseFailed:
		content = s.formView(cw) + "\n\n" +
			theme.ErrorText.Width(cw).Render(s.errMsg) + "\n" +
			theme.Hint.Render("press r to retry")
	default:
		content = s.formView(cw)
		if s.errMsg != "" {
			content += "\n\n" + theme.ErrorText.Render(s.errMsg)
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (s *AssessScreen) formView(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Health Information"))
	b.WriteString("\n\n")

	for i := 0; i < fieldSubmit; i++ {
		label := theme.Label.Render(fieldLabels[i])
		if i == s.form.focus && s.phase == phaseEditing {
			label = theme.Selected.Width(22).Render(fieldLabels[i])
		}
		b.WriteString(label + s.form.widgetView(i))
		if reason, ok := s.fieldErrors[fieldKeys[i]]; ok {
			b.WriteString("  " + theme.ErrorText.Render(reason))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	btn := components.NewButton("Predict Stroke Risk", s.form.focus == fieldSubmit && s.phase == phaseEditing)
	b.WriteString(btn.View())
	return b.String()
}

func (s *AssessScreen) resultView(cw int) string {
	rec := s.outcome.Record
	cls := s.outcome.Classification
	tierStyle := theme.TierStyle(cls.Tier)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Prediction Result") + "\n\n")
	b.WriteString(tierStyle.Render(fmt.Sprintf("%s RISK", cls.Tier)) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Probability: %s", rec.PercentString())) + "\n")

	bar := components.NewProgressBar("", rec.Probability, true, cw-8)
	bar.Color = theme.TierColor(cls.Tier)
	b.WriteString(bar.View() + "\n\n")

	guide := risk.Recommendations(cls.Tier)
	b.WriteString(tierStyle.Render(guide.Title) + "\n")
	for _, r := range guide.Recommendations {
		b.WriteString(theme.Body.Render("  • "+r) + "\n")
	}
	b.WriteString(theme.Hint.Render("Sources: "+strings.Join(guide.Sources, ", ")) + "\n\n")

	b.WriteString(theme.Selected.Render("Key Risk Factors") + "\n")
	p := rec.Profile
	for _, f := range risk.Factors(p.Age, p.AvgGlucoseLevel, p.BMI) {
		mark, style := "✓", lipgloss.NewStyle().Foreground(theme.Success)
		if f.Elevated() {
			mark, style = "!", lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString(style.Render(fmt.Sprintf("  %s %-8s %s (ref > %s)", mark, f.Name,
			assessment.FormatNumber(f.Value), assessment.FormatNumber(f.Threshold))) + "\n")
	}
	b.WriteString(theme.Body.Render(fmt.Sprintf("    Hypertension: %s   Heart Disease: %s",
		assessment.YesNo(p.Hypertension), assessment.YesNo(p.HeartDisease))))

	return components.Card(b.String(), cw, theme.TierColor(cls.Tier))
}
