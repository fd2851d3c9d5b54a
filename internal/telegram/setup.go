// Package telegram handles the setup and registration of Telegram bot handlers.
package telegram

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/edgard/laporbot/internal/bot/handlers"
)

// ErrEmptyToken is returned when no bot token is configured.
var ErrEmptyToken = errors.New("telegram bot token cannot be empty")

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully", "token", MaskToken(token))
	return b, nil
}

// MaskToken keeps the bot id part of a token and hides the secret.
func MaskToken(token string) string {
	const visible = 8
	if len(token) <= visible {
		return "***"
	}
	return token[:visible] + "..."
}

// RegisterHandlers registers command handlers with the Telegram bot instance.
// Each handler is routed by its own match function.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registeredHandlers map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(registeredHandlers) == 0 {
		log.Warn("No handlers provided for registration.")
		return nil
	}

	for name, regHandler := range registeredHandlers {
		if regHandler.Handler == nil || regHandler.Match == nil {
			log.Warn("Skipping registration for incomplete handler", "command", name)
			continue
		}

		b.RegisterHandlerMatchFunc(regHandler.Match, regHandler.Handler)
		log.Debug("Registered handler", "command", name)
	}

	log.Info("Registered Telegram handlers", "count", len(registeredHandlers))
	return nil
}
