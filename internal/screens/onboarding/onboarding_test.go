package onboarding

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/content"
	"github.com/abhisek/learneye/internal/course"
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

	gen := content.NewGenerator(content.NewOfflineProvider(), content.DefaultConfig(), nil)
	return shared.Deps{
		Ctrl: session.NewController(repo, gen, course.DefaultPolicy(), nil),
		Nav: shared.Nav{
			Dashboard: func() screen.Screen { return &stubScreen{title: "dashboard"} },
		},
	}
}

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	esc   = tea.KeyPressMsg{Code: tea.KeyEscape}
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
)

// finish runs the sign-in command and feeds its result back.
func finish(t *testing.T, o *OnboardingScreen, cmd tea.Cmd) router.ResetScreenMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, signedInMsg{}, msg)

	_, next := o.Update(msg)
	require.NotNil(t, next)
	reset, ok := next().(router.ResetScreenMsg)
	require.True(t, ok)
	return reset
}

func TestOnboarding_NewLearnerWalksAllSteps(t *testing.T) {
	deps := newDeps(t)
	o := New(deps, "")
	assert.False(t, o.HandlesBack())

	o.name.Model.SetValue("  Grace  ")
	o.Update(enter)
	require.Equal(t, stepLanguage, o.step)
	assert.True(t, o.HandlesBack())
	assert.Contains(t, o.View(100, 40), "Greetings, Grace!")

	o.Update(down)
	o.Update(enter)
	require.Equal(t, stepPersona, o.step)
	assert.Equal(t, "Español", o.profile.Language)

	o.Update(down)
	o.Update(enter)
	require.Equal(t, stepGoal, o.step)
	assert.Equal(t, learner.PersonaProfessional, o.profile.Persona)

	_, cmd := o.Update(enter)
	assert.Nil(t, cmd, "blank goal is not submitted")

	o.goal.Model.SetValue("Go generics")
	_, cmd = o.Update(enter)
	assert.True(t, o.submitting)

	reset := finish(t, o, cmd)
	assert.Equal(t, "dashboard", reset.Screen.Title())

	p, ok := deps.Ctrl.Profile()
	require.True(t, ok)
	assert.Equal(t, "Grace", p.Name)
	assert.Equal(t, "Español", p.Language)
	assert.Equal(t, learner.PersonaProfessional, p.Persona)
	assert.Equal(t, "Go generics", p.Goal)
	assert.Zero(t, p.XP)
	assert.Equal(t, []string{"Grace"}, deps.Ctrl.Learners())
}

func TestOnboarding_KnownNameSignsInDirectly(t *testing.T) {
	deps := newDeps(t)
	_, _, err := deps.Ctrl.SelectUser(context.Background(), learner.NewProfile("Ada", learner.PersonaCurious, "Deutsch", "Rust"))
	require.NoError(t, err)
	require.NoError(t, deps.Ctrl.AwardXP(context.Background(), 250))
	deps.Ctrl.ClearUser()

	o := New(deps, "Ada")
	_, cmd := o.Update(enter)
	finish(t, o, cmd)

	p, ok := deps.Ctrl.Profile()
	require.True(t, ok)
	assert.Equal(t, 250, p.XP)
	assert.Equal(t, "Rust", p.Goal)
	assert.Equal(t, learner.PersonaCurious, p.Persona)
}

func TestOnboarding_BlankNameIgnored(t *testing.T) {
	o := New(newDeps(t), "")
	o.name.Model.SetValue("   ")
	_, cmd := o.Update(enter)
	assert.Nil(t, cmd)
	assert.Equal(t, stepName, o.step)
}

func TestOnboarding_EscGoesBackAStep(t *testing.T) {
	o := New(newDeps(t), "Lin")
	o.Update(enter)
	o.Update(enter)
	require.Equal(t, stepPersona, o.step)

	o.Update(esc)
	assert.Equal(t, stepLanguage, o.step)
	o.Update(esc)
	assert.Equal(t, stepName, o.step)
	assert.Equal(t, "Lin", o.name.Value())
	assert.False(t, o.HandlesBack())
}

func TestOnboarding_SignInErrorIsShown(t *testing.T) {
	o := New(newDeps(t), "")
	o.Update(signedInMsg{err: learner.ErrInvalidProfile})
	assert.False(t, o.submitting)
	assert.Contains(t, o.View(100, 40), learner.ErrInvalidProfile.Error())
}

func TestRenderBanner(t *testing.T) {
	assert.Contains(t, renderBanner(40), bannerCompact)
	assert.Contains(t, renderBanner(bannerMinWidth), "███████╗")
}

func typeText(o *OnboardingScreen, s string) {
	for _, r := range s {
		o.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestOnboarding_LanguageSearch(t *testing.T) {
	o := New(newDeps(t), "Mia")
	o.Update(enter)
	require.Equal(t, stepLanguage, o.step)

	typeText(o, "deu")
	require.Len(t, o.languages.Items, 1)
	assert.Contains(t, o.languages.Items[0].Label, "Deutsch")

	o.Update(enter)
	assert.Equal(t, stepPersona, o.step)
	assert.Equal(t, "Deutsch", o.profile.Language)
}

func TestOnboarding_CustomLanguage(t *testing.T) {
	o := New(newDeps(t), "Mia")
	o.Update(enter)

	typeText(o, "Svenska")
	require.Empty(t, o.languages.Items)
	assert.Contains(t, o.View(100, 40), `Press Enter to learn in "Svenska".`)

	o.Update(enter)
	assert.Equal(t, stepPersona, o.step)
	assert.Equal(t, "Svenska", o.profile.Language)
}
