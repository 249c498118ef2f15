// Package dashboard is the signed-in learner's home: roadmap, lessons,
// quizzes and the post-quiz analysis, all driven by flow.Machine.
package dashboard

import (
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/flow"
	"github.com/abhisek/learneye/internal/router"
	"github.com/abhisek/learneye/internal/screen"
	"github.com/abhisek/learneye/internal/screens/shared"
	"github.com/abhisek/learneye/internal/session"
	"github.com/abhisek/learneye/internal/ui/components"
	"github.com/abhisek/learneye/internal/ui/layout"
	"github.com/abhisek/learneye/internal/ui/theme"
)

const statusInterval = 3 * time.Second

var loadingStatuses = []string{
	"Analyzing your unique goals...",
	"Architecting your modular roadmap...",
	"Synthesizing practical examples...",
	"Drafting adaptive challenges...",
	"Polishing your workspace...",
}

// DashboardScreen renders whichever view the flow machine is in.
type DashboardScreen struct {
	deps    shared.Deps
	machine *flow.Machine

	cursor    int
	statusIdx int
	spinner   spinner.Model
	lesson    viewport.Model
	lessonFor int
	err       error

	// tutor is reused so the chat survives closing and reopening.
	tutor screen.Screen
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.BackHandler = (*DashboardScreen)(nil)

// New creates a DashboardScreen for the signed-in learner.
func New(deps shared.Deps) *DashboardScreen {
	ctrl := deps.Ctrl
	d := &DashboardScreen{
		deps:      deps,
		machine:   flow.New(ctrl.Course(), ctrl.Policy(), ctrl),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
		lesson:    viewport.New(),
		lessonFor: -1,
	}
	d.resetCursor()
	return d
}

// Machine exposes the flow state for tests.
func (d *DashboardScreen) Machine() *flow.Machine { return d.machine }

func (d *DashboardScreen) Init() tea.Cmd {
	if d.machine.View() == flow.ViewLoading {
		return d.startLoading()
	}
	return nil
}

func (d *DashboardScreen) startLoading() tea.Cmd {
	ctrl := d.deps.Ctrl
	ctx := d.deps.Context()
	load := func() tea.Msg {
		c, err := ctrl.EnsureCourse(ctx)
		return courseMsg{course: c, err: err}
	}
	return tea.Batch(load, d.spinner.Tick, statusTick())
}

func statusTick() tea.Cmd {
	return tea.Tick(statusInterval, func(t time.Time) tea.Msg { return statusTickMsg(t) })
}

func (d *DashboardScreen) Title() string {
	switch d.machine.View() {
	case flow.ViewLesson, flow.ViewQuiz, flow.ViewAnalysis:
		if m := d.machine.ActiveModule(); m != nil {
			return m.Title
		}
	case flow.ViewRoadmap:
		if c := d.machine.Course(); c != nil {
			return c.Topic
		}
	}
	return "Learning path"
}

// HandlesBack is always true: Esc moves between flow views.
func (d *DashboardScreen) HandlesBack() bool { return true }

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	switch d.machine.View() {
	case flow.ViewLoading:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case flow.ViewFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "S", Description: "Switch learner"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case flow.ViewRoadmap:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose module"},
			{Key: "Enter", Description: "Open"},
			{Key: "T", Description: "Ask tutor"},
			{Key: "S", Description: "Switch learner"},
		}
	case flow.ViewLesson:
		hints := []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
		if m := d.machine.ActiveModule(); m != nil && m.HasQuiz() {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Knowledge check"})
		}
		return append(hints,
			layout.KeyHint{Key: "T", Description: "Ask tutor"},
			layout.KeyHint{Key: "Esc", Description: "Back to path"})
	case flow.ViewQuiz:
		if q := d.machine.Quiz(); q != nil && q.Verified() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Next"},
				{Key: "Esc", Description: "Leave quiz"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓/A-D", Description: "Choose"},
			{Key: "Enter", Description: "Check"},
			{Key: "Esc", Description: "Leave quiz"},
		}
	case flow.ViewAnalysis:
		label := "Recalibrate & retry"
		if d.machine.Passed() {
			label = "Proceed to next module"
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: label},
			{Key: "↑↓", Description: "Scroll"},
			{Key: "T", Description: "Ask tutor"},
		}
	}
	return nil
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case courseMsg:
		return d, d.onCourse(msg)

	case statusTickMsg:
		if d.machine.View() != flow.ViewLoading {
			return d, nil
		}
		d.statusIdx = (d.statusIdx + 1) % len(loadingStatuses)
		return d, statusTick()

	case spinner.TickMsg:
		if d.machine.View() != flow.ViewLoading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyPressMsg:
		return d, d.handleKey(msg)
	}

	// A tutor reply can land after the chat was closed.
	if d.tutor != nil {
		var cmd tea.Cmd
		d.tutor, cmd = d.tutor.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *DashboardScreen) onCourse(msg courseMsg) tea.Cmd {
	if errors.Is(msg.err, session.ErrStaleCourse) || errors.Is(msg.err, session.ErrNoActiveUser) {
		return nil
	}
	var err error
	if msg.err != nil {
		d.deps.Logger().Warn("course unavailable", zap.Error(msg.err))
		err = d.machine.Fire(flow.ContentFailed{Err: msg.err})
	} else {
		err = d.machine.Fire(flow.CourseReady{Course: msg.course})
		d.resetCursor()
	}
	d.logDenied(err)
	return nil
}

func (d *DashboardScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	d.err = nil

	switch d.machine.View() {
	case flow.ViewFailed:
		switch key {
		case "r":
			if d.fire(flow.Retry{}) {
				return d.startLoading()
			}
		case "s":
			return d.switchLearner()
		}

	case flow.ViewRoadmap:
		return d.roadmapKey(key)

	case flow.ViewLesson:
		switch key {
		case "enter":
			d.fire(flow.StartQuiz{})
		case "esc", "backspace":
			d.fire(flow.Back{})
			d.resetCursor()
		case "t":
			return d.openTutor()
		default:
			var cmd tea.Cmd
			d.lesson, cmd = d.lesson.Update(msg)
			return cmd
		}

	case flow.ViewQuiz:
		d.quizKey(key)

	case flow.ViewAnalysis:
		switch key {
		case "enter":
			if err := d.machine.Fire(flow.Acknowledge{}); err != nil {
				d.deps.Logger().Error("acknowledge analysis", zap.Error(err))
				d.err = err
				return nil
			}
			d.resetCursor()
			d.lessonFor = -1
		case "t":
			return d.openTutor()
		default:
			var cmd tea.Cmd
			d.lesson, cmd = d.lesson.Update(msg)
			return cmd
		}
	}
	return nil
}

func (d *DashboardScreen) roadmapKey(key string) tea.Cmd {
	c := d.machine.Course()
	switch key {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if c != nil && d.cursor < len(c.Modules)-1 {
			d.cursor++
		}
	case "enter":
		if d.fire(flow.SelectModule{Index: d.cursor}) {
			d.lessonFor = -1
		}
	case "t":
		return d.openTutor()
	case "s":
		return d.switchLearner()
	}
	return nil
}

func (d *DashboardScreen) quizKey(key string) {
	q := d.machine.Quiz()
	if q == nil {
		return
	}
	switch key {
	case "esc", "backspace":
		d.fire(flow.Back{})
		return
	case "enter":
		if !q.Verified() {
			if _, err := q.Verify(); err != nil {
				d.err = err
			}
			return
		}
		if _, done, err := q.Advance(); err != nil {
			d.err = err
		} else if done {
			d.fire(flow.FinishQuiz{})
			d.lessonFor = -1
		}
		return
	}

	if q.Verified() {
		return
	}
	options := len(q.Current().Options)
	switch key {
	case "up", "k":
		if sel := q.Selected(); sel > 0 {
			q.Select(sel - 1)
		} else {
			q.Select(0)
		}
	case "down", "j":
		if sel := q.Selected(); sel < options-1 {
			q.Select(sel + 1)
		}
	default:
		if idx := components.OptionForKey(key); idx >= 0 {
			q.Select(idx)
		}
	}
}

func (d *DashboardScreen) fire(ev flow.Event) bool {
	err := d.machine.Fire(ev)
	d.logDenied(err)
	return err == nil
}

func (d *DashboardScreen) logDenied(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flow.ErrTransitionDenied) {
		d.deps.Logger().Debug("transition denied", zap.Error(err))
		return
	}
	d.deps.Logger().Error("flow transition failed", zap.Error(err))
	d.err = err
}

func (d *DashboardScreen) resetCursor() {
	c := d.machine.Course()
	if c == nil {
		d.cursor = 0
		return
	}
	if idx := c.CurrentIndex(); idx >= 0 {
		d.cursor = idx
		return
	}
	d.cursor = max(len(c.Modules)-1, 0)
}

func (d *DashboardScreen) openTutor() tea.Cmd {
	if d.tutor == nil {
		d.tutor = d.deps.Nav.Tutor()
	}
	tutor := d.tutor
	return func() tea.Msg { return router.PushScreenMsg{Screen: tutor} }
}

func (d *DashboardScreen) switchLearner() tea.Cmd {
	d.deps.Ctrl.ClearUser()
	next := d.deps.Nav.Switcher()
	return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
}

// moduleLabel is the roadmap call to action for a module.
func moduleLabel(s course.Status) string {
	switch s {
	case course.StatusCompleted:
		return "Review content"
	case course.StatusCurrent:
		return "Start module"
	}
	return "Locked"
}
