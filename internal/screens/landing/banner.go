package landing

import (
	"charm.land/lipgloss/v2"

	"github.com/strokerisk/strokerisk/internal/ui/theme"
)

const bannerArt = `
 ███████╗████████╗██████╗  ██████╗ ██╗  ██╗███████╗
 ██╔════╝╚══██╔══╝██╔══██╗██╔═══██╗██║ ██╔╝██╔════╝
 ███████╗   ██║   ██████╔╝██║   ██║█████╔╝ █████╗
 ╚════██║   ██║   ██╔══██╗██║   ██║██╔═██╗ ██╔══╝
 ███████║   ██║   ██║  ██║╚██████╔╝██║  ██╗███████╗
 ╚══════╝   ╚═╝   ╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝╚══════╝
             R I S K   A S S E S S M E N T`

const bannerCompact = "S T R O K E R I S K"

// RenderBanner returns the banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 56 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 56 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
