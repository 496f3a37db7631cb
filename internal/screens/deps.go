// Package screens holds what every EduQuest screen shares.
package screens

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/tutor"
)

// LoadTimeout bounds every store call made from a screen command.
const LoadTimeout = 5 * time.Second

// Deps are the services the screens drive.
type Deps struct {
	Service *progression.Service
	UserID  string

	// NewTutor starts a QuestBot conversation about lesson, which may be
	// nil. It is nil when no LLM provider is configured.
	NewTutor func(lesson *course.Lesson) *tutor.Bot

	Logger *zap.Logger
}

// Log returns the logger, or a no-op logger when none was set.
func (d Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Context returns a context bounded by LoadTimeout.
func Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), LoadTimeout)
}

// ProgressLoadedMsg carries a freshly loaded progression.
type ProgressLoadedMsg struct {
	Progress *progression.Progression
	Err      error
}

// LoadProgress returns a command that loads the learner's progression.
func (d Deps) LoadProgress() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := Context()
		defer cancel()
		p, err := d.Service.Load(ctx, d.UserID)
		return ProgressLoadedMsg{Progress: p, Err: err}
	}
}
