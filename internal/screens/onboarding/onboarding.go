// Package onboarding collects a new learner's name, language, persona and
// goal, then signs them in.
package onboarding

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

type step int

const (
	stepName step = iota
	stepLanguage
	stepPersona
	stepGoal
)

const stepCount = 4

type signedInMsg struct {
	profile   learner.Profile
	returning bool
	err       error
}

// OnboardingScreen walks through the four onboarding steps.
type OnboardingScreen struct {
	deps    shared.Deps
	step    step
	profile learner.Profile

	name      components.TextInput
	goal      components.TextInput
	langQuery components.TextInput
	languages components.Menu
	personas  components.Menu

	submitting bool
	err        error
}

var _ screen.Screen = (*OnboardingScreen)(nil)
var _ screen.KeyHintProvider = (*OnboardingScreen)(nil)
var _ screen.BackHandler = (*OnboardingScreen)(nil)

// New creates an OnboardingScreen. A non-empty name prefills the first step.
func New(deps shared.Deps, name string) *OnboardingScreen {
	o := &OnboardingScreen{
		deps:      deps,
		profile:   learner.NewProfile(name, learner.PersonaStudent, learner.DefaultLanguage, ""),
		name:      components.NewTextInput("How should we address you?", 40),
		goal:      components.NewTextInput("e.g. Kubernetes networking, Spanish verbs, Rust ownership", 120),
		langQuery: components.NewTextInput("Search, or type any language", 30),
	}
	o.name.Model.SetValue(name)
	o.goal.Blur()
	o.langQuery.Blur()

	o.filterLanguages()
	o.personas = components.NewMenu(lo.Map(learner.AllPersonas(), func(p learner.Persona, _ int) components.MenuItem {
		return components.MenuItem{Label: string(p), Description: p.Description(), Action: func() tea.Cmd {
			o.profile.Persona = p
			return o.advance()
		}}
	}))
	return o
}

// filterLanguages rebuilds the language menu from the search box.
func (o *OnboardingScreen) filterLanguages() {
	matches := learner.SearchLanguages(o.langQuery.Value())
	o.languages = components.NewMenu(lo.Map(matches, func(l learner.Language, _ int) components.MenuItem {
		return components.MenuItem{Label: l.Flag + "  " + l.Name, Action: func() tea.Cmd {
			o.profile.Language = l.Name
			return o.advance()
		}}
	}))
}

func (o *OnboardingScreen) Init() tea.Cmd {
	return o.name.Init()
}

func (o *OnboardingScreen) Title() string {
	return fmt.Sprintf("Getting started · %d/%d", int(o.step)+1, stepCount)
}

// HandlesBack is true past the first step, where Esc goes back a step.
func (o *OnboardingScreen) HandlesBack() bool {
	return o.step > stepName
}

func (o *OnboardingScreen) KeyHints() []layout.KeyHint {
	switch o.step {
	case stepLanguage, stepPersona:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	case stepGoal:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Build my path"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (o *OnboardingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		o.submitting = false
		if msg.err != nil {
			o.deps.Logger().Error("onboarding sign in failed", zap.Error(msg.err))
			o.err = msg.err
			return o, nil
		}
		dash := o.deps.Nav.Dashboard()
		return o, func() tea.Msg { return router.ResetScreenMsg{Screen: dash} }

	case tea.KeyPressMsg:
		if o.submitting {
			return o, nil
		}
		return o, o.handleKey(msg)
	}

	var cmd tea.Cmd
	switch o.step {
	case stepName:
		o.name, cmd = o.name.Update(msg)
	case stepLanguage:
		o.langQuery, cmd = o.langQuery.Update(msg)
	case stepGoal:
		o.goal, cmd = o.goal.Update(msg)
	}
	return o, cmd
}

func (o *OnboardingScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	o.err = nil
	if msg.String() == "esc" {
		return o.back()
	}

	var cmd tea.Cmd
	switch o.step {
	case stepName:
		if msg.String() == "enter" {
			return o.submitName()
		}
		o.name, cmd = o.name.Update(msg)
	case stepLanguage:
		return o.languageKey(msg)
	case stepPersona:
		o.personas, cmd = o.personas.Update(msg)
	case stepGoal:
		if msg.String() == "enter" {
			return o.submitGoal()
		}
		o.goal, cmd = o.goal.Update(msg)
	}
	return cmd
}

func (o *OnboardingScreen) languageKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up", "down":
		var cmd tea.Cmd
		o.languages, cmd = o.languages.Update(msg)
		return cmd
	case "enter":
		if len(o.languages.Items) > 0 {
			var cmd tea.Cmd
			o.languages, cmd = o.languages.Update(msg)
			return cmd
		}
		custom := strings.TrimSpace(o.langQuery.Value())
		if custom == "" {
			return nil
		}
		o.profile.Language = custom
		return o.advance()
	}

	before := o.langQuery.Value()
	var cmd tea.Cmd
	o.langQuery, cmd = o.langQuery.Update(msg)
	if o.langQuery.Value() != before {
		o.filterLanguages()
	}
	return cmd
}

func (o *OnboardingScreen) submitName() tea.Cmd {
	name := learner.NameKey(o.name.Value())
	if name == "" {
		return nil
	}
	o.profile.Name = name

	// Known learners skip the remaining steps; their stored profile wins.
	if lo.Contains(o.deps.Ctrl.Learners(), name) {
		return o.signIn()
	}
	return o.advance()
}

func (o *OnboardingScreen) submitGoal() tea.Cmd {
	goal := strings.TrimSpace(o.goal.Value())
	if goal == "" {
		return nil
	}
	o.profile.Goal = goal
	return o.signIn()
}

func (o *OnboardingScreen) signIn() tea.Cmd {
	o.submitting = true
	ctrl := o.deps.Ctrl
	ctx := o.deps.Context()
	candidate := o.profile
	return func() tea.Msg {
		p, returning, err := ctrl.SelectUser(ctx, candidate)
		return signedInMsg{profile: p, returning: returning, err: err}
	}
}

func (o *OnboardingScreen) advance() tea.Cmd {
	if o.step < stepGoal {
		o.step++
	}
	return o.focus()
}

func (o *OnboardingScreen) back() tea.Cmd {
	if o.step > stepName {
		o.step--
	}
	return o.focus()
}

func (o *OnboardingScreen) focus() tea.Cmd {
	o.name.Blur()
	o.goal.Blur()
	o.langQuery.Blur()
	switch o.step {
	case stepName:
		return o.name.Focus()
	case stepLanguage:
		return o.langQuery.Focus()
	case stepGoal:
		return o.goal.Focus()
	}
	return nil
}

func (o *OnboardingScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 76)

	var b strings.Builder
	b.WriteString(components.NewProgressBar("", float64(o.step+1)/stepCount, false, cw-6).View())
	b.WriteString("\n\n")

	switch o.step {
	case stepName:
		b.WriteString(renderBanner(cw - 6))
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render("The eye that sees your learning potential."))
		b.WriteString("\n\n")
		o.name.SetWidth(cw - 10)
		b.WriteString(o.name.View())
	case stepLanguage:
		b.WriteString(theme.Title.Render(fmt.Sprintf("Greetings, %s! 👋", o.profile.Name)))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Select your preferred interaction language."))
		b.WriteString("\n\n")
		o.langQuery.SetWidth(cw - 10)
		b.WriteString(o.langQuery.View())
		b.WriteString("\n\n")
		if len(o.languages.Items) == 0 {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("Press Enter to learn in %q.", strings.TrimSpace(o.langQuery.Value()))))
		} else {
			b.WriteString(o.languages.View())
		}
	case stepPersona:
		b.WriteString(theme.Title.Render("Define your persona"))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Your tutor adapts its tone to your needs."))
		b.WriteString("\n\n")
		b.WriteString(o.personas.View())
	case stepGoal:
		b.WriteString(theme.Title.Render("What do you want to master?"))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Name a topic and LearnEye will design a path for you."))
		b.WriteString("\n\n")
		o.goal.SetWidth(cw - 10)
		b.WriteString(o.goal.View())
	}

	if o.submitting {
		b.WriteString("\n\n" + theme.Hint.Render("Signing in..."))
	}
	if o.err != nil {
		b.WriteString("\n\n" + theme.Incorrect.Render(o.err.Error()))
	}

	card := components.Card(b.String(), cw, true)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
