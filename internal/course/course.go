package course

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	// ErrNoModules is returned when a course would be built without modules.
	ErrNoModules = errors.New("course has no modules")

	// ErrModuleIndex is returned for an out-of-range module index.
	ErrModuleIndex = errors.New("module index out of range")
)

// New builds a course from generated modules. The first module becomes
// current, the rest are locked and every module starts at zero progress.
func New(topic, visualKeyword string, modules []Module) (*Course, error) {
	if len(modules) == 0 {
		return nil, ErrNoModules
	}

	mods := make([]Module, len(modules))
	for i, m := range modules {
		m = cloneModule(m)
		m.Status = StatusLocked
		if i == 0 {
			m.Status = StatusCurrent
		}
		m.Progress = 0
		mods[i] = m
	}

	return &Course{
		ID:            uuid.New().String(),
		Topic:         topic,
		VisualKeyword: visualKeyword,
		Modules:       mods,
	}, nil
}

// Clone returns a deep copy of the course.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	out.Modules = make([]Module, len(c.Modules))
	for i, m := range c.Modules {
		out.Modules[i] = cloneModule(m)
	}
	return &out
}

func cloneModule(m Module) Module {
	if m.Lesson != nil {
		l := *m.Lesson
		l.KeyConcepts = append([]string(nil), l.KeyConcepts...)
		l.Recap = append([]string(nil), l.Recap...)
		l.InterviewTips.ExpectedQuestions = append([]string(nil), l.InterviewTips.ExpectedQuestions...)
		m.Lesson = &l
	}
	if m.Quiz != nil {
		quiz := make([]QuizQuestion, len(m.Quiz))
		for i, q := range m.Quiz {
			q.Options = append([]string(nil), q.Options...)
			quiz[i] = q
		}
		m.Quiz = quiz
	}
	return m
}

// Module returns the module at idx.
func (c *Course) Module(idx int) (*Module, error) {
	if idx < 0 || idx >= len(c.Modules) {
		return nil, fmt.Errorf("%w: %d of %d", ErrModuleIndex, idx, len(c.Modules))
	}
	return &c.Modules[idx], nil
}

// CompletedCount returns the number of completed modules.
func (c *Course) CompletedCount() int {
	return lo.CountBy(c.Modules, func(m Module) bool {
		return m.Status == StatusCompleted
	})
}

// CurrentIndex returns the index of the current module, or -1 once the
// course is finished.
func (c *Course) CurrentIndex() int {
	_, idx, ok := lo.FindIndexOf(c.Modules, func(m Module) bool {
		return m.Status == StatusCurrent
	})
	if !ok {
		return -1
	}
	return idx
}

// Finished reports whether every module is completed.
func (c *Course) Finished() bool {
	return len(c.Modules) > 0 && c.CompletedCount() == len(c.Modules)
}

// Percent is the share of completed modules (0.0-1.0).
func (c *Course) Percent() float64 {
	if len(c.Modules) == 0 {
		return 0
	}
	return float64(c.CompletedCount()) / float64(len(c.Modules))
}

// CheckInvariants verifies the lock-state ordering rules of the course.
func (c *Course) CheckInvariants() error {
	if len(c.Modules) == 0 {
		return ErrNoModules
	}

	current := 0
	seen := make(map[string]bool, len(c.Modules))
	for i, m := range c.Modules {
		if m.ID != "" {
			if seen[m.ID] {
				return fmt.Errorf("duplicate module id %q", m.ID)
			}
			seen[m.ID] = true
		}
		if m.Progress < 0 || m.Progress > 100 {
			return fmt.Errorf("module %d progress %d out of range", i, m.Progress)
		}
		switch m.Status {
		case StatusCurrent:
			current++
		case StatusCompleted, StatusLocked:
		default:
			return fmt.Errorf("module %d has unknown status %q", i, m.Status)
		}
		if i > 0 && m.Status != StatusLocked && c.Modules[i-1].Status != StatusCompleted {
			return fmt.Errorf("module %d is %s but module %d is %s", i, m.Status, i-1, c.Modules[i-1].Status)
		}
	}

	if current > 1 {
		return fmt.Errorf("%d modules are current", current)
	}
	if current == 0 && !c.Finished() {
		return errors.New("unfinished course has no current module")
	}
	return nil
}
