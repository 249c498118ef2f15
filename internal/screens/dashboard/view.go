package dashboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/samber/lo"

	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/flow"
	"github.com/abhisek/learneye/internal/ui/components"
	"github.com/abhisek/learneye/internal/ui/theme"
)

func (d *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch d.machine.View() {
	case flow.ViewLoading:
		body = d.viewLoading()
	case flow.ViewFailed:
		body = d.viewFailed(cw)
	case flow.ViewRoadmap:
		body = d.viewRoadmap(cw)
	case flow.ViewLesson:
		body = d.viewScrollable(d.lessonContent(cw), cw, height)
	case flow.ViewQuiz:
		body = d.viewQuiz(cw)
	case flow.ViewAnalysis:
		body = d.viewScrollable(d.analysisContent(cw), cw, height)
	}

	if d.err != nil {
		body += "\n\n" + theme.Incorrect.Render(d.err.Error())
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, body)
}

func (d *DashboardScreen) viewLoading() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		"",
		theme.Title.Render(d.spinner.View()+" LearnEye is architecting..."),
		"",
		lipgloss.NewStyle().Foreground(theme.Secondary).Italic(true).
			Render(fmt.Sprintf("%q", loadingStatuses[d.statusIdx])),
	)
}

func (d *DashboardScreen) viewFailed(cw int) string {
	msg := "We couldn't build your learning path right now."
	if err := d.machine.Failure(); err != nil {
		msg += "\n\n" + theme.Hint.Render(err.Error())
	}
	return components.Card(
		theme.Incorrect.Render("Content unavailable")+"\n\n"+
			theme.Body.Render(msg)+"\n\n"+
			theme.Subtitle.Render("Press R to try again."),
		min(cw, 70), false)
}

func (d *DashboardScreen) viewRoadmap(cw int) string {
	c := d.machine.Course()
	if c == nil {
		return ""
	}
	name := ""
	if p, ok := d.deps.Ctrl.Profile(); ok {
		name = p.Name
	}

	var b strings.Builder
	b.WriteString(theme.Eyebrow.Render("CURATED ROADMAP"))
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(c.Topic))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s, you have completed %d of %d modules on your mastery path.",
		name, c.CompletedCount(), len(c.Modules))))
	b.WriteString("\n\n")

	for i, m := range c.Modules {
		b.WriteString(d.moduleRow(i, m, cw-6))
		b.WriteString("\n")
	}

	if c.Finished() {
		b.WriteString("\n" + theme.Correct.Render("🎉 Path complete! Every module is mastered."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(components.Section("GROWTH", ""))
	b.WriteString(components.Sparkline(d.growthPoints()))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("Completion", c.Percent(), true, cw-6).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("\"The eye sees what the mind learns.\""))

	return components.Card(b.String(), cw, false)
}

func (d *DashboardScreen) moduleRow(i int, m course.Module, width int) string {
	title := fmt.Sprintf("%s  Module %d · %s", m.Status.Icon(), i+1, m.Title)
	label := moduleLabel(m.Status)
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(label)-2, 1)
	line := title + strings.Repeat(" ", gap) + label

	switch {
	case i == d.cursor && m.Status != course.StatusLocked:
		return theme.Selected.Render("▸ " + line)
	case i == d.cursor:
		return theme.Locked.Render("▸ " + line)
	case m.Status == course.StatusLocked:
		return theme.Locked.Render("  " + line)
	case m.Status == course.StatusCompleted:
		return lipgloss.NewStyle().Foreground(theme.Success).Render("  " + line)
	}
	return theme.Unselected.Render("  " + line)
}

// growthPoints pads a single-point history with a baseline so the chart
// has something to compare against.
func (d *DashboardScreen) growthPoints() []components.SparkPoint {
	history := d.machine.History()
	points := lo.Map(history, func(p flow.XPPoint, _ int) components.SparkPoint {
		return components.SparkPoint{Label: p.Label, Value: p.XP}
	})
	if len(points) < 2 {
		base := max(d.deps.Ctrl.TotalXP()-100, 0)
		points = append([]components.SparkPoint{{Label: "", Value: base}}, points...)
	}
	return points
}

func (d *DashboardScreen) viewScrollable(content string, cw, height int) string {
	idx := d.machine.ActiveIndex()
	key := idx
	if d.machine.View() == flow.ViewAnalysis {
		key = -2 - idx
	}
	d.lesson.SetWidth(cw)
	d.lesson.SetHeight(max(height-1, 3))
	d.lesson.SetContent(content)
	if d.lessonFor != key {
		d.lesson.GotoTop()
		d.lessonFor = key
	}
	return d.lesson.View()
}

func (d *DashboardScreen) lessonContent(cw int) string {
	m := d.machine.ActiveModule()
	if m == nil || m.Lesson == nil {
		return ""
	}
	l := m.Lesson
	wrap := lipgloss.NewStyle().Width(cw - 2)

	sections := []string{
		theme.Title.Render(m.Title),
		theme.Eyebrow.Render(strings.ToUpper(l.Objective)),
		"",
		wrap.Render(components.Section("THE ANALOGY 🧠", theme.Hint.Render(fmt.Sprintf("%q", l.ExplanationELI5)))),
		"",
		wrap.Render(components.Section("KEY CONCEPTS 📌", bullets(l.KeyConcepts, "•"))),
		"",
		wrap.Render(components.Section("DETAILED SYNTHESIS 🔍", l.DetailedExplanation)),
		"",
		wrap.Render(components.Section("IN PRACTICE 🧩", l.RealWorldExample)),
		"",
		wrap.Render(components.Section("RECAP", bullets(l.Recap, "✓"))),
		"",
	}
	if m.HasQuiz() {
		sections = append(sections,
			theme.Title.Render("Verification mode"),
			theme.Subtitle.Render("Pass the challenge to proceed to the next module."),
			components.ActionButton("Begin knowledge check", 30))
	}
	return strings.Join(sections, "\n")
}

func (d *DashboardScreen) viewQuiz(cw int) string {
	q := d.machine.Quiz()
	if q == nil {
		return ""
	}
	cur := q.Current()
	w := min(cw, 80)

	var b strings.Builder
	b.WriteString(theme.Eyebrow.Render("KNOWLEDGE VERIFICATION"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Step %d of %d", q.Index()+1, q.Total())))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", float64(q.Index()+1)/float64(q.Total()), false, w-6).View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(w - 6).Render(theme.Title.Render(cur.Question)))
	b.WriteString("\n\n")
	b.WriteString(components.Choices{
		Options:  cur.Options,
		Selected: q.Selected(),
		Correct:  cur.CorrectIndex,
		Verified: q.Verified(),
	}.View())

	if q.Verified() {
		b.WriteString("\n")
		if q.LastCorrect() {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite."))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(w - 6).Render(theme.Hint.Render(cur.Explanation)))
		b.WriteString("\n\n")
		next := "Next question"
		if q.IsLast() {
			next = "See analysis"
		}
		b.WriteString(components.ActionButton(next, 24))
	}

	return components.Card(b.String(), w, true)
}

func (d *DashboardScreen) analysisContent(cw int) string {
	res := d.machine.Result()
	passed := d.machine.Passed()
	wrap := lipgloss.NewStyle().Width(cw - 2)

	score := fmt.Sprintf(" %d/%d ", res.Score, res.Total)
	var b strings.Builder
	if passed {
		b.WriteString(lipgloss.NewStyle().Bold(true).Background(theme.Success).Foreground(theme.Text).Render(score))
		b.WriteString("  " + theme.Title.Render("Success! Module synchronized."))
	} else {
		b.WriteString(lipgloss.NewStyle().Bold(true).Background(theme.Error).Foreground(theme.Text).Render(score))
		b.WriteString("  " + theme.Title.Render("Review mandatory"))
	}
	b.WriteString("\n\n")

	b.WriteString(theme.Eyebrow.Render("FEEDBACK LOOP"))
	b.WriteString("\n")
	for i, a := range res.Attempts {
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		b.WriteString(wrap.Render(fmt.Sprintf("%s Q%d: %s", mark, i+1, a.Question)))
		b.WriteString("\n")
		b.WriteString(wrap.Render(theme.Hint.Render("   " + a.Explanation)))
		b.WriteString("\n")
	}

	if m := d.machine.ActiveModule(); m != nil && m.Lesson != nil {
		tips := m.Lesson.InterviewTips
		b.WriteString("\n")
		b.WriteString(wrap.Render(components.Section("CAREER INSIGHTS 💼", tips.HowToAnswer)))
		b.WriteString("\n")
		b.WriteString(wrap.Render(bullets(tips.ExpectedQuestions, "?")))
		b.WriteString("\n")
	}

	label := "Recalibrate & retry"
	if passed {
		label = "Proceed to next module"
	}
	b.WriteString("\n")
	b.WriteString(components.ActionButton(label, 30))
	return b.String()
}

func bullets(items []string, mark string) string {
	return strings.Join(lo.Map(items, func(s string, _ int) string {
		return mark + " " + s
	}), "\n")
}
