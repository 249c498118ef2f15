package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/learner"
	"github.com/abhisek/learneye/internal/llm"
)

// FallbackReply is shown in place of a tutor reply that failed.
const FallbackReply = "Apologies, I hit a brief connection snag. Could you repeat that for me?"

// ChatRole identifies who sent a chat message.
type ChatRole string

const (
	ChatUser  ChatRole = "user"
	ChatModel ChatRole = "model"
)

// ChatMessage is one line of the tutor transcript.
type ChatMessage struct {
	Role      ChatRole
	Text      string
	Timestamp time.Time
}

// TutorContext describes the learner and conversation for a reply.
type TutorContext struct {
	Topic    string
	Persona  learner.Persona
	Language string
	History  []ChatMessage
}

// Tutor answers learner questions through the provider.
type Tutor struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewTutor creates a Tutor.
func NewTutor(provider llm.Provider, cfg Config, log *zap.Logger) *Tutor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tutor{provider: provider, cfg: cfg, log: log}
}

// Reply sends message with the prior history and returns the tutor's text.
// Callers show FallbackReply when it fails.
func (t *Tutor) Reply(ctx context.Context, message string, tc TutorContext) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("empty message")
	}

	msgs := make([]llm.Message, 0, len(tc.History)+1)
	for _, h := range tc.History {
		role := llm.RoleUser
		if h.Role == ChatModel {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: h.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := t.provider.Generate(llm.WithPurpose(ctx, llm.PurposeTutor), llm.Request{
		System:      tutorSystemPrompt(tc),
		Messages:    msgs,
		MaxTokens:   t.cfg.TutorMaxTokens,
		Temperature: t.cfg.Temperature,
	})
	if err != nil {
		t.log.Warn("tutor reply failed", zap.Error(err))
		return "", fmt.Errorf("tutor reply: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("tutor reply: empty response")
	}
	return text, nil
}
