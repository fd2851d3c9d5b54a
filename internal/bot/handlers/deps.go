package handlers

import (
	"log/slog"

	"github.com/edgard/laporbot/internal/config"
	"github.com/edgard/laporbot/internal/relay"
)

// HandlerDeps provides dependencies for Telegram command and message handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Relay  *relay.Relay
	// BotUsername is the bot's own username without "@", used to accept
	// /command@BotUsername.
	BotUsername string
}
