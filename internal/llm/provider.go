// Package llm wraps the hosted model APIs behind a single Provider
// interface with schema-constrained JSON output.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates a completion for a Request.
type Provider interface {
	// Generate sends req to the model. When req.Schema is set the returned
	// Content is JSON that validated against it; otherwise Content holds
	// the raw reply text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider targets.
	ModelID() string
}

// Request describes one model call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation so far. Course generation sends a single
	// user turn; the tutor sends the whole chat history.
	Messages []Message

	// Schema constrains the reply to JSON. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in 0.0-1.0. Zero leaves the provider default.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// chatTurns prepares a conversation for APIs that want strict user and
// assistant alternation. Blank turns are dropped and consecutive turns
// from the same role are joined. With userFirst, leading assistant turns
// such as the tutor's greeting are removed.
func chatTurns(msgs []Message, userFirst bool) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		if userFirst && len(out) == 0 && m.Role == RoleAssistant {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == m.Role {
			out[n-1].Content += "\n\n" + text
			continue
		}
		out = append(out, Message{Role: m.Role, Content: text})
	}
	return out
}

// Schema is a named JSON Schema for structured replies.
type Schema struct {
	// Name is kebab-case, e.g. "learning-path". It doubles as the tool or
	// schema name on providers that need one and as the compile cache key.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model's reply.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end", "max_tokens" or "error"
}

// Text returns the reply as a string. Use it for free-text requests.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage is the token consumption of a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
