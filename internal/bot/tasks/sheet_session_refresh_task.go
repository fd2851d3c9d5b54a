package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSheetSessionRefreshTask creates the task that reconnects to the
// spreadsheet so a stale session is replaced before the next report arrives.
func newSheetSessionRefreshTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sheet_session_refresh")

	return func(ctx context.Context) error {
		log.DebugContext(ctx, "Refreshing spreadsheet session...")
		startTime := time.Now()

		err := deps.Sheets.Refresh(ctx)

		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Spreadsheet session refresh failed", "error", err, "duration", duration)
			return fmt.Errorf("sheet session refresh failed: %w", err)
		}

		log.InfoContext(ctx, "Spreadsheet session refreshed", "duration", duration)
		return nil
	}
}
