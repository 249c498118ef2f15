package llm

import "context"

type contextKey struct{}

// Purposes used for event logging.
const (
	PurposeCourse = "course"
	PurposeTutor  = "tutor"
)

// WithPurpose labels the calls made with ctx, e.g. "course" or "tutor".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, contextKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return "unknown"
}
