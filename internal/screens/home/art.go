package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/strokerisk/strokerisk/internal/ui/components"
	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

const aboutText = "A stroke occurs when the blood supply to part of the brain is " +
	"interrupted or reduced, preventing brain tissue from getting oxygen and " +
	"nutrients. Early detection and risk assessment are crucial for prevention."

const howText = "Enter a few health indicators and a trained prediction model " +
	"estimates your stroke risk, with recommendations for each risk level."

// features are the short cards shown under the description.
var features = []struct{ title, body string }{
	{"ML-Powered", "Trained prediction model"},
	{"Local & Private", "Records stay on this machine"},
	{"Instant Results", "Real-time risk analysis"},
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render("Stroke Risk Assessment"))
}

func renderAbout(cw int, compact bool) string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw)
	if compact {
		return body.Render(aboutText)
	}
	return body.Render(aboutText) + "\n\n" + body.Foreground(theme.TextDim).Render(howText)
}

func renderFeatures(cw int) string {
	cardWidth := (cw - 2) / len(features)
	cards := make([]string, 0, len(features))
	for _, f := range features {
		cards = append(cards, lipgloss.NewStyle().
			Width(cardWidth).
			Align(lipgloss.Center).
			Render(theme.Selected.Render(f.title)+"\n"+theme.Hint.Render(f.body)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderMenu(labels []string, selected, cw int, compact bool) string {
	var block string
	if compact {
		lines := make([]string, len(labels))
		for i, l := range labels {
			if i == selected {
				lines[i] = theme.Selected.Render("▸ " + l)
			} else {
				lines[i] = theme.Unselected.Render("  " + l)
			}
		}
		block = strings.Join(lines, "\n")
	} else {
		buttons := make([]string, len(labels))
		for i, l := range labels {
			buttons[i] = components.MenuButton(l, i == selected, buttonWidth)
		}
		block = strings.Join(buttons, "\n")
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}
