// Package tutor is the chat with the LearnEye tutor.
package tutor

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/content"
	"github.com/abhisek/learneye/internal/screen"
	"github.com/abhisek/learneye/internal/screens/shared"
	"github.com/abhisek/learneye/internal/ui/components"
	"github.com/abhisek/learneye/internal/ui/layout"
	"github.com/abhisek/learneye/internal/ui/theme"
)

type replyMsg struct {
	text string
	err  error
}

// TutorScreen holds one chat transcript. It starts with a greeting and
// lives until the screen is closed.
type TutorScreen struct {
	deps       shared.Deps
	tc         content.TutorContext
	transcript []content.ChatMessage
	input      components.TextInput
	spinner    spinner.Model
	pending    bool
	now        func() time.Time
}

var _ screen.Screen = (*TutorScreen)(nil)
var _ screen.KeyHintProvider = (*TutorScreen)(nil)

// New creates a TutorScreen for the signed-in learner. The topic is the
// course topic, or the learner's goal before a course exists.
func New(deps shared.Deps) *TutorScreen {
	t := &TutorScreen{
		deps:    deps,
		input:   components.NewTextInput("Ask anything about your path...", 500),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		now:     time.Now,
	}

	name := ""
	if p, ok := deps.Ctrl.Profile(); ok {
		name = p.Name
		t.tc = content.TutorContext{Topic: p.Goal, Persona: p.Persona, Language: p.Language}
	}
	if c := deps.Ctrl.Course(); c != nil {
		t.tc.Topic = c.Topic
	}

	t.transcript = []content.ChatMessage{{
		Role:      content.ChatModel,
		Text:      content.Greeting(name, t.tc.Topic),
		Timestamp: t.now(),
	}}
	return t
}

// Transcript returns a copy of the conversation so far.
func (t *TutorScreen) Transcript() []content.ChatMessage {
	return append([]content.ChatMessage(nil), t.transcript...)
}

// Pending reports whether a reply is outstanding.
func (t *TutorScreen) Pending() bool { return t.pending }

func (t *TutorScreen) Init() tea.Cmd { return t.input.Init() }

func (t *TutorScreen) Title() string { return "LearnEye Buddy" }

func (t *TutorScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Close chat"},
	}
}

func (t *TutorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		t.pending = false
		text := msg.text
		if msg.err != nil {
			t.deps.Logger().Warn("tutor reply failed, using fallback", zap.Error(msg.err))
			text = content.FallbackReply
		}
		t.transcript = append(t.transcript, content.ChatMessage{
			Role: content.ChatModel, Text: text, Timestamp: t.now(),
		})
		return t, t.input.Focus()

	case spinner.TickMsg:
		if !t.pending {
			return t, nil
		}
		var cmd tea.Cmd
		t.spinner, cmd = t.spinner.Update(msg)
		return t, cmd

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return t, t.send()
		}
		if t.pending {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

func (t *TutorScreen) send() tea.Cmd {
	text := strings.TrimSpace(t.input.Value())
	if text == "" || t.pending {
		return nil
	}

	tc := t.tc
	tc.History = t.Transcript()

	t.transcript = append(t.transcript, content.ChatMessage{
		Role: content.ChatUser, Text: text, Timestamp: t.now(),
	})
	t.input.Reset()
	t.input.Blur()
	t.pending = true

	tutor := t.deps.Tutor
	ctx := t.deps.Context()
	ask := func() tea.Msg {
		reply, err := tutor.Reply(ctx, text, tc)
		return replyMsg{text: reply, err: err}
	}
	return tea.Batch(ask, t.spinner.Tick)
}

func (t *TutorScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 90)
	bubbleWidth := cw * 3 / 4

	lines := make([]string, 0, len(t.transcript)+1)
	for _, m := range t.transcript {
		lines = append(lines, renderMessage(m, bubbleWidth, cw))
	}
	if t.pending {
		lines = append(lines, theme.Hint.Render(t.spinner.View()+" thinking..."))
	}

	t.input.SetWidth(cw - 6)
	inputBox := components.Card(t.input.View(), cw, !t.pending)

	// Keep the newest messages visible above the input.
	avail := max(height-lipgloss.Height(inputBox)-1, 1)
	chat := strings.Join(lines, "\n\n")
	if rows := strings.Split(chat, "\n"); len(rows) > avail {
		chat = strings.Join(rows[len(rows)-avail:], "\n")
	}
	chat = lipgloss.NewStyle().Width(cw).Height(avail).AlignVertical(lipgloss.Bottom).Render(chat)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, chat, inputBox))
}

func renderMessage(m content.ChatMessage, bubbleWidth, width int) string {
	text := formatText(m.Text)
	if m.Role == content.ChatUser {
		b := theme.ChatUser.Width(min(lipgloss.Width(text)+2, bubbleWidth)).Render(text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, b)
	}
	return theme.ChatModel.Width(min(lipgloss.Width(text)+2, bubbleWidth)).Render(text)
}

// formatText turns markdown-ish list markers into bullets and drops blank
// runs.
func formatText(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
		case strings.HasPrefix(trimmed, "* "), strings.HasPrefix(trimmed, "- "):
			out = append(out, "• "+strings.TrimSpace(trimmed[2:]))
		default:
			out = append(out, trimmed)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
