// Package shared holds what every screen needs: the session controller,
// the tutor and the constructors for other screens.
package shared

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/content"
	"github.com/abhisek/learneye/internal/screen"
	"github.com/abhisek/learneye/internal/session"
)

// Deps is passed to every screen constructor.
type Deps struct {
	Ctrl  *session.Controller
	Tutor *content.Tutor
	Log   *zap.Logger

	// Ctx is the app lifetime context for commands that call the model.
	Ctx context.Context

	Nav Nav
}

// Nav builds screens on demand. It is filled in by the app so screen
// packages do not import each other.
type Nav struct {
	Switcher   func() screen.Screen
	Onboarding func(name string) screen.Screen
	Dashboard  func() screen.Screen
	Tutor      func() screen.Screen
}

// Logger returns d.Log or a no-op logger.
func (d Deps) Logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// Context returns d.Ctx or context.Background.
func (d Deps) Context() context.Context {
	if d.Ctx == nil {
		return context.Background()
	}
	return d.Ctx
}
