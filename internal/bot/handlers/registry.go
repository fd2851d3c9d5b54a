package handlers

import (
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler represents a command handler and the match that routes
// updates to it.
type RegisteredHandler struct {
	Command string
	Match   tgbot.MatchFunc
	Handler tgbot.HandlerFunc
}

// RegisterAllCommands returns every bot command keyed by its slash form.
// Reports are not commands; they reach NewReportHandler as the default handler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		Command: "start",
		Match:   CommandMatch("start", deps.BotUsername),
		Handler: NewStartHandler(deps),
	}
	handlers["/help"] = RegisteredHandler{
		Command: "help",
		Match:   CommandMatch("help", deps.BotUsername),
		Handler: NewHelpHandler(deps),
	}

	return handlers
}

// CommandMatch matches messages whose first word is /command, optionally
// addressed as /command@botUsername the way clients write commands in
// groups. Commands addressed to another bot do not match.
func CommandMatch(command, botUsername string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		name, target, ok := ParseCommand(update.Message.Text)
		if !ok || !strings.EqualFold(name, command) {
			return false
		}
		return target == "" || strings.EqualFold(target, botUsername)
	}
}

// ParseCommand splits the leading "/name@target" word of text. target is
// empty when the command is not addressed to a specific bot.
func ParseCommand(text string) (name, target string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", "", false
	}
	name, target, _ = strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	if name == "" {
		return "", "", false
	}
	return name, target, true
}
