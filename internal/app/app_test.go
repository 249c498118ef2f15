package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/content"
	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/learner"
	"github.com/abhisek/learneye/internal/router"
	"github.com/abhisek/learneye/internal/screens/shared"
	"github.com/abhisek/learneye/internal/session"
	"github.com/abhisek/learneye/internal/store"
)

func newDeps(t *testing.T, names ...string) shared.Deps {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "learneye.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	repo := s.SaveRecords()
	require.NoError(t, repo.Load(context.Background()))

	provider := content.NewOfflineProvider()
	ctrl := session.NewController(repo, content.NewGenerator(provider, content.DefaultConfig(), nil), course.DefaultPolicy(), nil)
	for _, n := range names {
		_, _, err := ctrl.SelectUser(context.Background(), learner.NewProfile(n, learner.PersonaStudent, "English", "Music theory"))
		require.NoError(t, err)
	}
	ctrl.ClearUser()

	return shared.Deps{Ctrl: ctrl, Tutor: content.NewTutor(provider, content.DefaultConfig(), nil)}
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

var (
	esc   = tea.KeyPressMsg{Code: tea.KeyEscape}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
)

func TestApp_FreshInstallStartsAtOnboarding(t *testing.T) {
	m := New(newDeps(t))
	assert.True(t, strings.HasPrefix(m.Router().Active().Title(), "Getting started"))
	assert.NotNil(t, m.Init())
}

func TestApp_KnownLearnersStartAtSwitcher(t *testing.T) {
	m := New(newDeps(t, "Ada"))
	assert.Equal(t, "Who's learning?", m.Router().Active().Title())
}

func TestApp_SignInReachesDashboard(t *testing.T) {
	m := New(newDeps(t, "Ada"))

	m, cmd := update(t, m, enter)
	require.NotNil(t, cmd)
	m, cmd = update(t, m, cmd())
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, 1, m.Router().Depth())
	assert.Equal(t, "Learning path", m.Router().Active().Title())
}

func TestApp_EscPopsPushedScreens(t *testing.T) {
	m := New(newDeps(t, "Ada"))
	require.Equal(t, 1, m.Router().Depth())

	_, cmd := update(t, m, esc)
	assert.Nil(t, cmd, "nothing to pop at the root")

	m, _ = update(t, m, router.PushScreenMsg{Screen: m.deps.Nav.Onboarding("")})
	require.Equal(t, 2, m.Router().Depth())

	m, cmd = update(t, m, esc)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, 1, m.Router().Depth())
}

func TestApp_EscGoesToScreensThatHandleBack(t *testing.T) {
	m := New(newDeps(t, "Ada"))
	m, _ = update(t, m, router.PushScreenMsg{Screen: m.deps.Nav.Onboarding("Lin")})
	m, _ = update(t, m, enter)
	require.True(t, strings.HasSuffix(m.Router().Active().Title(), "2/4"))

	m, _ = update(t, m, esc)
	assert.Equal(t, 2, m.Router().Depth())
	assert.True(t, strings.HasSuffix(m.Router().Active().Title(), "1/4"))
}

func TestApp_CtrlCSignsOutAndQuits(t *testing.T) {
	deps := newDeps(t, "Ada")
	_, _, err := deps.Ctrl.SelectUser(context.Background(), learner.Profile{Name: "Ada"})
	require.NoError(t, err)

	m := New(deps)
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, ok := deps.Ctrl.Profile()
	assert.False(t, ok)
}

func TestApp_RenderShowsLearnerInHeader(t *testing.T) {
	deps := newDeps(t, "Ada")
	m := New(deps)
	assert.Empty(t, m.render())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	out := m.render()
	assert.Contains(t, out, "LearnEye")
	assert.NotContains(t, out, "XP")

	_, _, err := deps.Ctrl.SelectUser(context.Background(), learner.Profile{Name: "Ada"})
	require.NoError(t, err)
	require.NoError(t, deps.Ctrl.AwardXP(context.Background(), 1200))

	out = m.render()
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "Lv 2")
	assert.Contains(t, out, "1200 XP")
}

func TestApp_TooSmall(t *testing.T) {
	m := New(newDeps(t))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, m.render(), "Terminal too small!")
}
