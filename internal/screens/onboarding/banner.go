package onboarding

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learneye/internal/ui/theme"
)

const bannerArt = `
 ██╗     ███████╗ █████╗ ██████╗ ███╗   ██╗███████╗██╗   ██╗███████╗
 ██║     ██╔════╝██╔══██╗██╔══██╗████╗  ██║██╔════╝╚██╗ ██╔╝██╔════╝
 ██║     █████╗  ███████║██████╔╝██╔██╗ ██║█████╗   ╚████╔╝ █████╗
 ██║     ██╔══╝  ██╔══██║██╔══██╗██║╚██╗██║██╔══╝    ╚██╔╝  ██╔══╝
 ███████╗███████╗██║  ██║██║  ██║██║ ╚████║███████╗   ██║   ███████╗
 ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝╚══════╝   ╚═╝   ╚══════╝`

const bannerCompact = "L E A R N E Y E"

// bannerMinWidth is the narrowest card that fits bannerArt.
const bannerMinWidth = 70

// renderBanner returns the wordmark, or the spaced-out fallback when the
// card is too narrow for the block letters.
func renderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
