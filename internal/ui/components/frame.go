package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learneye/internal/ui/theme"
)

// ContentWidth returns the inner width used for centred cards.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 96)
}

// Card wraps content in a rounded-border box of the given width.
func Card(content string, width int, active bool) string {
	style := theme.Card
	if active {
		style = theme.ActiveCard
	}
	return style.Width(width).Render(content)
}

// Section renders a small uppercase heading over body text.
func Section(heading, body string) string {
	return theme.Eyebrow.Render(heading) + "\n" + theme.Body.Render(body)
}

// ActionButton renders a call-to-action label.
func ActionButton(label string, width int) string {
	return theme.ButtonActive.
		Width(width).
		Align(lipgloss.Center).
		Render("▸ " + label)
}
