// Package switcher lists stored learners so one can sign back in, or start
// onboarding for a new one.
package switcher

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/learner"
	"github.com/abhisek/learneye/internal/router"
	"github.com/abhisek/learneye/internal/screen"
	"github.com/abhisek/learneye/internal/screens/shared"
	"github.com/abhisek/learneye/internal/ui/components"
	"github.com/abhisek/learneye/internal/ui/layout"
	"github.com/abhisek/learneye/internal/ui/theme"
)

type signedInMsg struct {
	name string
	err  error
}

// SwitcherScreen is the sign-in menu.
type SwitcherScreen struct {
	deps shared.Deps
	menu components.Menu
	err  error
}

var _ screen.Screen = (*SwitcherScreen)(nil)
var _ screen.KeyHintProvider = (*SwitcherScreen)(nil)

// New creates a SwitcherScreen listing the stored learners.
func New(deps shared.Deps) *SwitcherScreen {
	s := &SwitcherScreen{deps: deps}

	items := lo.Map(deps.Ctrl.Learners(), func(name string, _ int) components.MenuItem {
		return components.MenuItem{Label: name, Action: s.signIn(name)}
	})
	items = append(items, components.MenuItem{
		Label:       "+ New learner",
		Description: "Start a fresh learning path",
		Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: deps.Nav.Onboarding("")}
			}
		},
	})
	s.menu = components.NewMenu(items)
	return s
}

func (s *SwitcherScreen) signIn(name string) func() tea.Cmd {
	return func() tea.Cmd {
		ctrl := s.deps.Ctrl
		ctx := s.deps.Context()
		return func() tea.Msg {
			_, _, err := ctrl.SelectUser(ctx, learner.Profile{Name: name})
			return signedInMsg{name: name, err: err}
		}
	}
}

func (s *SwitcherScreen) Init() tea.Cmd { return nil }

func (s *SwitcherScreen) Title() string { return "Who's learning?" }

func (s *SwitcherScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SwitcherScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		if msg.err != nil {
			s.deps.Logger().Error("sign in failed", zap.String("name", msg.name), zap.Error(msg.err))
			s.err = fmt.Errorf("could not sign in as %s: %w", msg.name, msg.err)
			return s, nil
		}
		dash := s.deps.Nav.Dashboard()
		return s, func() tea.Msg { return router.ResetScreenMsg{Screen: dash} }
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SwitcherScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Welcome back to LearnEye"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("The eye that sees your learning potential."))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	if s.err != nil {
		b.WriteString("\n" + theme.Incorrect.Render(s.err.Error()))
	}

	card := components.Card(b.String(), min(components.ContentWidth(width), 60), true)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
