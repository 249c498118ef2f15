package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/samber/lo"

	"github.com/abhisek/learneye/internal/ui/theme"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// SparkPoint is one labelled value on a sparkline.
type SparkPoint struct {
	Label string
	Value int
}

// Sparkline renders values as a row of block glyphs scaled between the
// smallest and largest value, with the labels underneath.
func Sparkline(points []SparkPoint) string {
	if len(points) == 0 {
		return ""
	}
	values := lo.Map(points, func(p SparkPoint, _ int) int { return p.Value })
	lowest, highest := lo.Min(values), lo.Max(values)

	cells := make([]string, len(points))
	labels := make([]string, len(points))
	for i, p := range points {
		idx := len(sparkBlocks) - 1
		if highest > lowest {
			idx = (p.Value - lowest) * (len(sparkBlocks) - 1) / (highest - lowest)
		}
		w := max(lipgloss.Width(p.Label), 3)
		cells[i] = fmt.Sprintf("%-*s", w, strings.Repeat(string(sparkBlocks[idx]), 3))
		labels[i] = fmt.Sprintf("%-*s", w, p.Label)
	}

	line := lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Join(cells, " "))
	axis := lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Join(labels, " "))
	return line + "\n" + axis
}
