package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/learneye/internal/ui/theme"
)

// Choices renders a multiple-choice question. Before verification the
// selected option is highlighted; after it the correct option turns green
// and a wrong pick turns red.
type Choices struct {
	Options  []string
	Selected int // -1 for none
	Correct  int
	Verified bool
}

// View renders the options, one per line, labelled A, B, C...
func (c Choices) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.Verified {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+rune(i%26), opt)

		switch {
		case c.Verified && i == c.Correct:
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		case c.Verified && i == c.Selected:
			b.WriteString(theme.Incorrect.Render(line + "  ✗"))
		case c.Verified:
			b.WriteString(theme.Locked.Render(line))
		case i == c.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// OptionForKey maps "a"-"z" or "1"-"9" to an option index. It returns -1
// for any other key.
func OptionForKey(key string) int {
	if len(key) != 1 {
		return -1
	}
	switch k := key[0]; {
	case k >= 'a' && k <= 'z':
		return int(k - 'a')
	case k >= '1' && k <= '9':
		return int(k - '1')
	}
	return -1
}
