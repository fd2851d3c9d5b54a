package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/laporbot/internal/relay"
	"github.com/edgard/laporbot/internal/report"
)

// NewReportHandler returns the default handler: every message that is not a
// registered command is treated as a possible report. The handler is
// wrapped with ReportableOnly.
func NewReportHandler(deps HandlerDeps) bot.HandlerFunc {
	return ReportableOnly(deps)(reportHandler{deps}.Handle)
}

// reportHandler hands messages to the relay and replies through Telegram.
type reportHandler struct {
	deps HandlerDeps
}

func (h reportHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	log := h.deps.Logger.With("handler", "report", "chat_id", msg.Chat.ID, "message_id", msg.ID)

	in := relay.Inbound{
		Content: messageContent(msg),
	}
	if msg.From != nil {
		in.Sender = relay.Sender{ID: msg.From.ID, Handle: msg.From.Username}
	}

	replier := relay.ReplierFunc(func(ctx context.Context, text string) error {
		return replyTo(ctx, b, msg, text)
	})

	summary := h.deps.Relay.Handle(ctx, in, replier)
	if summary.Lines > 0 {
		log.InfoContext(ctx, "Report processed",
			"lines", summary.Lines,
			"stored", summary.Stored,
			"failed", summary.Failed,
			"skipped", summary.Skipped)
	}
}

// messageContent classifies msg. Media messages contribute their caption.
func messageContent(msg *models.Message) report.Content {
	if len(msg.Photo) > 0 || msg.Video != nil {
		return report.MediaContent(msg.Caption)
	}
	return report.TextContent(msg.Text)
}

// replyTo sends text to the chat of msg. Outside private chats the reply
// quotes msg so it is clear which message it answers.
func replyTo(ctx context.Context, b *bot.Bot, msg *models.Message, text string) error {
	params := &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   text,
	}
	if msg.Chat.Type != models.ChatTypePrivate {
		params.ReplyParameters = &models.ReplyParameters{
			MessageID:                msg.ID,
			AllowSendingWithoutReply: true,
		}
	}
	_, err := b.SendMessage(ctx, params)
	return err
}

func senderID(msg *models.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}
