// Package app wires the screens into a Bubble Tea program.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/router"
	"github.com/abhisek/learneye/internal/screen"
	"github.com/abhisek/learneye/internal/screens/dashboard"
	"github.com/abhisek/learneye/internal/screens/onboarding"
	"github.com/abhisek/learneye/internal/screens/shared"
	"github.com/abhisek/learneye/internal/screens/switcher"
	"github.com/abhisek/learneye/internal/screens/tutor"
	"github.com/abhisek/learneye/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   shared.Deps
	router *router.Router
	width  int
	height int
}

// WithNav fills in deps.Nav with the real screen constructors.
func WithNav(deps shared.Deps) shared.Deps {
	d := &deps
	d.Nav = shared.Nav{
		Switcher:   func() screen.Screen { return switcher.New(*d) },
		Onboarding: func(name string) screen.Screen { return onboarding.New(*d, name) },
		Dashboard:  func() screen.Screen { return dashboard.New(*d) },
		Tutor:      func() screen.Screen { return tutor.New(*d) },
	}
	return *d
}

// New creates the root model. Returning learners start at the switcher,
// a fresh install starts at onboarding.
func New(deps shared.Deps) AppModel {
	deps = WithNav(deps)

	var first screen.Screen
	if len(deps.Ctrl.Learners()) > 0 {
		first = deps.Nav.Switcher()
	} else {
		first = deps.Nav.Onboarding("")
	}
	return AppModel{deps: deps, router: router.New(first)}
}

// Router exposes the screen stack for tests.
func (m AppModel) Router() *router.Router { return m.router }

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.deps.Ctrl.ClearUser()
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var who *layout.Learner
	if p, ok := m.deps.Ctrl.Profile(); ok {
		who = &layout.Learner{Name: p.Name, Level: p.Level, XP: p.XP, Progress: p.LevelProgress()}
	}
	header := layout.RenderHeader(title, who, m.width)

	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, deps shared.Deps) error {
	deps.Ctx = ctx
	p := tea.NewProgram(New(deps), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		deps.Logger().Error("program exited with error", zap.Error(err))
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
