// Package flow implements the navigation state machine behind the learning
// dashboard: which view is showing, which module is active, and when a quiz
// result is committed.
package flow

import (
	"errors"
	"fmt"

	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/quiz"
)

// ErrTransitionDenied is returned when an event is not valid in the current
// view or its guard fails. The machine state is left untouched.
var ErrTransitionDenied = errors.New("transition denied")

// View identifies the screen the dashboard is showing.
type View int

const (
	ViewLoading View = iota
	ViewFailed
	ViewRoadmap
	ViewLesson
	ViewQuiz
	ViewAnalysis
)

func (v View) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewFailed:
		return "failed"
	case ViewRoadmap:
		return "roadmap"
	case ViewLesson:
		return "lesson"
	case ViewQuiz:
		return "quiz"
	case ViewAnalysis:
		return "analysis"
	default:
		return "unknown"
	}
}

// XPPoint is one sample of the session XP history.
type XPPoint struct {
	Label string
	XP    int
}

// Committer persists a passed quiz. The session controller satisfies it.
type Committer interface {
	CommitQuizResult(moduleIndex, score int) (course.QuizOutcome, error)
	TotalXP() int
}

// Machine holds the dashboard state. It is not safe for concurrent use;
// the TUI drives it from its update loop.
type Machine struct {
	view    View
	course  *course.Course
	active  int
	runner  *quiz.Runner
	result  quiz.Result
	policy  course.Policy
	commit  Committer
	history []XPPoint
	failure error
	last    *course.QuizOutcome
}

// New creates a machine. A nil course starts in the loading view.
func New(c *course.Course, policy course.Policy, commit Committer) *Machine {
	m := &Machine{
		view:   ViewLoading,
		active: -1,
		policy: policy,
		commit: commit,
	}
	if c != nil {
		m.course = c
		m.view = ViewRoadmap
	}
	m.history = []XPPoint{{Label: "Start", XP: commit.TotalXP()}}
	return m
}

func (m *Machine) View() View { return m.view }
func (m *Machine) Course() *course.Course { return m.course }
func (m *Machine) ActiveIndex() int { return m.active }
func (m *Machine) Quiz() *quiz.Runner { return m.runner }
func (m *Machine) Result() quiz.Result { return m.result }
func (m *Machine) Policy() course.Policy { return m.policy }
func (m *Machine) Failure() error { return m.failure }

// LastOutcome returns the outcome of the most recent committed pass, if any.
func (m *Machine) LastOutcome() *course.QuizOutcome { return m.last }

// History returns a copy of the session XP history.
func (m *Machine) History() []XPPoint {
	return append([]XPPoint(nil), m.history...)
}

// ActiveModule returns the module being studied, or nil on the roadmap.
func (m *Machine) ActiveModule() *course.Module {
	if m.course == nil || m.active < 0 || m.active >= len(m.course.Modules) {
		return nil
	}
	return &m.course.Modules[m.active]
}

// Passed reports whether the result shown in analysis meets the policy.
func (m *Machine) Passed() bool {
	return m.policy.Passed(m.result.Score)
}

// Fire applies ev to the current view.
func (m *Machine) Fire(ev Event) error {
	switch m.view {
	case ViewLoading:
		return m.onLoading(ev)
	case ViewFailed:
		return m.onFailed(ev)
	case ViewRoadmap:
		return m.onRoadmap(ev)
	case ViewLesson:
		return m.onLesson(ev)
	case ViewQuiz:
		return m.onQuiz(ev)
	case ViewAnalysis:
		return m.onAnalysis(ev)
	}
	return m.deny(ev, "unknown view")
}

func (m *Machine) onLoading(ev Event) error {
	switch e := ev.(type) {
	case CourseReady:
		if e.Course == nil {
			return m.deny(ev, "no course")
		}
		m.course = e.Course
		m.failure = nil
		m.view = ViewRoadmap
		return nil
	case ContentFailed:
		m.failure = e.Err
		m.view = ViewFailed
		return nil
	}
	return m.deny(ev, "")
}

func (m *Machine) onFailed(ev Event) error {
	if _, ok := ev.(Retry); ok {
		m.view = ViewLoading
		return nil
	}
	return m.deny(ev, "")
}

func (m *Machine) onRoadmap(ev Event) error {
	e, ok := ev.(SelectModule)
	if !ok {
		return m.deny(ev, "")
	}

	mod, err := m.course.Module(e.Index)
	if err != nil {
		return m.deny(ev, "no such module")
	}
	if mod.Status == course.StatusLocked {
		return m.deny(ev, "module is locked")
	}
	if mod.Lesson == nil {
		return m.deny(ev, "module has no lesson")
	}

	m.active = e.Index
	m.view = ViewLesson
	return nil
}

func (m *Machine) onLesson(ev Event) error {
	switch ev.(type) {
	case StartQuiz:
		mod := m.ActiveModule()
		if mod == nil || !mod.HasQuiz() {
			return m.deny(ev, "module has no quiz")
		}
		r, err := quiz.NewRunner(mod.Quiz)
		if err != nil {
			return m.deny(ev, err.Error())
		}
		m.runner = r
		m.result = quiz.Result{}
		m.view = ViewQuiz
		return nil
	case Back:
		m.active = -1
		m.view = ViewRoadmap
		return nil
	}
	return m.deny(ev, "")
}

func (m *Machine) onQuiz(ev Event) error {
	switch ev.(type) {
	case FinishQuiz:
		if m.runner == nil || !m.runner.Finished() {
			return m.deny(ev, "quiz still in progress")
		}
		m.result = m.runner.Result()
		m.runner = nil
		m.view = ViewAnalysis
		return nil
	case Back:
		// Abandoned attempts are discarded without penalty.
		m.runner = nil
		m.view = ViewLesson
		return nil
	}
	return m.deny(ev, "")
}

func (m *Machine) onAnalysis(ev Event) error {
	if _, ok := ev.(Acknowledge); !ok {
		return m.deny(ev, "")
	}

	if !m.Passed() {
		m.view = ViewLesson
		return nil
	}

	outcome, err := m.commit.CommitQuizResult(m.active, m.result.Score)
	if err != nil {
		return fmt.Errorf("commit quiz result: %w", err)
	}

	m.course = outcome.Course
	m.last = &outcome
	m.history = append(m.history, XPPoint{
		Label: fmt.Sprintf("M%d", m.active+1),
		XP:    m.commit.TotalXP(),
	})
	m.active = -1
	m.view = ViewRoadmap
	return nil
}

func (m *Machine) deny(ev Event, why string) error {
	if why == "" {
		return fmt.Errorf("%w: %s in %s", ErrTransitionDenied, ev, m.view)
	}
	return fmt.Errorf("%w: %s in %s: %s", ErrTransitionDenied, ev, m.view, why)
}
