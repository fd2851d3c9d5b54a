// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ReportableOnly creates a middleware that passes on only messages carrying
// text, a photo or a video. Everything else (stickers, documents, edits,
// callback queries, membership changes) stops here without a reply.
func ReportableOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || !isReportable(update.Message) {
				deps.Logger.DebugContext(ctx, "Ignoring unsupported update",
					"middleware", "ReportableOnly", "update_id", update.ID)
				return
			}
			next(ctx, bot, update)
		}
	}
}

func isReportable(msg *models.Message) bool {
	return msg.Text != "" || len(msg.Photo) > 0 || msg.Video != nil
}
