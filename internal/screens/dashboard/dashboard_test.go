package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/content"
	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/flow"
	"github.com/abhisek/learneye/internal/learner"
	"github.com/abhisek/learneye/internal/router"
	"github.com/abhisek/learneye/internal/screen"
	"github.com/abhisek/learneye/internal/screens/shared"
	"github.com/abhisek/learneye/internal/session"
	"github.com/abhisek/learneye/internal/store"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func newDeps(t *testing.T) shared.Deps {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "learneye.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	repo := s.SaveRecords()
	require.NoError(t, repo.Load(context.Background()))

	provider := content.NewOfflineProvider()
	ctrl := session.NewController(repo, content.NewGenerator(provider, content.DefaultConfig(), nil), course.DefaultPolicy(), nil)
	_, _, err = ctrl.SelectUser(context.Background(), learner.NewProfile("Ada", learner.PersonaStudent, "English", "Rust"))
	require.NoError(t, err)

	return shared.Deps{
		Ctrl:  ctrl,
		Tutor: content.NewTutor(provider, content.DefaultConfig(), nil),
		Nav: shared.Nav{
			Switcher: func() screen.Screen { return &stubScreen{title: "switcher"} },
			Tutor:    func() screen.Screen { return &stubScreen{title: "tutor"} },
		},
	}
}

func withCourse(t *testing.T) (*DashboardScreen, shared.Deps) {
	t.Helper()
	deps := newDeps(t)
	_, err := deps.Ctrl.EnsureCourse(context.Background())
	require.NoError(t, err)
	return New(deps), deps
}

func press(d *DashboardScreen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = d.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	return tea.KeyPressMsg{Code: rune(k[0]), Text: k}
}

// answerAll answers every question with key and confirms each one.
func answerAll(d *DashboardScreen, key string) {
	for d.machine.View() == flow.ViewQuiz {
		press(d, key, "enter", "enter")
	}
}

func TestDashboard_StartsOnRoadmapWithCourse(t *testing.T) {
	d, _ := withCourse(t)
	assert.Equal(t, flow.ViewRoadmap, d.machine.View())
	assert.Nil(t, d.Init())

	out := d.View(120, 40)
	assert.Contains(t, out, "CURATED ROADMAP")
	assert.Contains(t, out, "Foundations")
	assert.Contains(t, out, "Start module")
}

func TestDashboard_PassingQuizUnlocksNextModule(t *testing.T) {
	d, deps := withCourse(t)

	press(d, "enter")
	require.Equal(t, flow.ViewLesson, d.machine.View())
	assert.Contains(t, d.View(120, 40), "THE ANALOGY")

	press(d, "enter")
	require.Equal(t, flow.ViewQuiz, d.machine.View())
	assert.Contains(t, d.View(120, 40), "Step 1 of 5")

	answerAll(d, "a")
	require.Equal(t, flow.ViewAnalysis, d.machine.View())
	assert.True(t, d.machine.Passed())
	assert.Contains(t, d.View(120, 60), "5/5")

	press(d, "enter")
	require.Equal(t, flow.ViewRoadmap, d.machine.View())
	assert.Equal(t, 500, deps.Ctrl.TotalXP())
	assert.Equal(t, 1, d.cursor, "cursor follows the newly unlocked module")

	c := deps.Ctrl.Course()
	assert.Equal(t, course.StatusCompleted, c.Modules[0].Status)
	assert.Equal(t, course.StatusCurrent, c.Modules[1].Status)

	history := d.machine.History()
	require.Len(t, history, 2)
	assert.Equal(t, flow.XPPoint{Label: "M1", XP: 500}, history[1])
}

func TestDashboard_FailingQuizReturnsToLesson(t *testing.T) {
	d, deps := withCourse(t)
	press(d, "enter", "enter")

	answerAll(d, "b")
	require.Equal(t, flow.ViewAnalysis, d.machine.View())
	assert.False(t, d.machine.Passed())
	assert.Contains(t, d.View(120, 60), "Review mandatory")

	press(d, "enter")
	assert.Equal(t, flow.ViewLesson, d.machine.View())
	assert.Equal(t, 0, deps.Ctrl.TotalXP())
}

func TestDashboard_VerifyNeedsSelection(t *testing.T) {
	d, _ := withCourse(t)
	press(d, "enter", "enter")

	press(d, "enter")
	assert.False(t, d.machine.Quiz().Verified())
	assert.Error(t, d.err)

	// First down selects option A, the second moves to B.
	press(d, "down", "down", "enter")
	assert.True(t, d.machine.Quiz().Verified())
	assert.False(t, d.machine.Quiz().LastCorrect())

	// Selection is locked once verified.
	press(d, "a")
	assert.Equal(t, 1, d.machine.Quiz().Selected())
}

func TestDashboard_EscAbandonsQuiz(t *testing.T) {
	d, deps := withCourse(t)
	press(d, "enter", "enter", "a", "enter")

	press(d, "esc")
	assert.Equal(t, flow.ViewLesson, d.machine.View())
	assert.Nil(t, d.machine.Quiz())

	press(d, "esc")
	assert.Equal(t, flow.ViewRoadmap, d.machine.View())
	assert.Equal(t, 0, deps.Ctrl.TotalXP())
}

func TestDashboard_LockedModuleStaysOnRoadmap(t *testing.T) {
	d, _ := withCourse(t)
	press(d, "down", "enter")
	assert.Equal(t, flow.ViewRoadmap, d.machine.View())
	assert.Nil(t, d.err, "denied transitions are not shown as errors")
}

func TestDashboard_LoadingThenFailureThenRetry(t *testing.T) {
	deps := newDeps(t)
	d := New(deps)
	require.Equal(t, flow.ViewLoading, d.machine.View())
	assert.NotNil(t, d.Init())
	assert.Contains(t, d.View(120, 40), "architecting")

	d.Update(courseMsg{err: content.ErrContentUnavailable})
	require.Equal(t, flow.ViewFailed, d.machine.View())
	assert.Contains(t, d.View(120, 40), "Content unavailable")

	cmd := press(d, "r")
	assert.Equal(t, flow.ViewLoading, d.machine.View())
	assert.NotNil(t, cmd)

	c, err := deps.Ctrl.EnsureCourse(context.Background())
	require.NoError(t, err)
	d.Update(courseMsg{course: c})
	assert.Equal(t, flow.ViewRoadmap, d.machine.View())
}

func TestDashboard_StaleCourseIgnored(t *testing.T) {
	d := New(newDeps(t))
	d.Update(courseMsg{err: session.ErrStaleCourse})
	assert.Equal(t, flow.ViewLoading, d.machine.View())
}

func TestDashboard_SwitchLearner(t *testing.T) {
	d, deps := withCourse(t)

	cmd := press(d, "s")
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ResetScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "switcher", msg.Screen.Title())

	_, signedIn := deps.Ctrl.Profile()
	assert.False(t, signedIn)
}

func TestDashboard_TutorIsReused(t *testing.T) {
	d, _ := withCourse(t)

	first := press(d, "t")().(router.PushScreenMsg).Screen
	second := press(d, "t")().(router.PushScreenMsg).Screen
	assert.Same(t, first, second)
}

func TestDashboard_CommitFailureKeepsAnalysis(t *testing.T) {
	d, deps := withCourse(t)
	press(d, "enter", "enter")
	answerAll(d, "a")

	deps.Ctrl.ClearUser()
	press(d, "enter")
	assert.Equal(t, flow.ViewAnalysis, d.machine.View())
	require.Error(t, d.err)
	assert.True(t, errors.Is(d.err, session.ErrNoActiveUser))
}
