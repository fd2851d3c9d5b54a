// Package tasks implements scheduled tasks for laporbot.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"context"
	"log/slog"
)

// SessionRefresher re-establishes the spreadsheet session.
type SessionRefresher interface {
	Refresh(ctx context.Context) error
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Sheets SessionRefresher
}
