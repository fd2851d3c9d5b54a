// Package main contains the entrypoint for laporbot, a Telegram bot that
// appends field reports to a Google Sheets worksheet.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/edgard/laporbot/internal/bot"
	"github.com/edgard/laporbot/internal/bot/handlers"
	"github.com/edgard/laporbot/internal/bot/tasks"
	"github.com/edgard/laporbot/internal/config"
	"github.com/edgard/laporbot/internal/logger"
	"github.com/edgard/laporbot/internal/relay"
	"github.com/edgard/laporbot/internal/sheets"
	"github.com/edgard/laporbot/internal/telegram"
)

const defaultConfigPath = "./config.yaml"

// errRunFailed is returned by commands that already logged their failure.
var errRunFailed = errors.New("laporbot exited with failure")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop() // Ensure context cancellation is signaled before exit

	if err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "laporbot",
		Short:         "Telegram bot that stores field reports in Google Sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to an optional YAML configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Start the bot (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCommand(cmd.Context(), configPath)
			},
		},
		newCheckCmd(&configPath),
		newParseCmd(),
	)
	return root
}

func runCommand(ctx context.Context, configPath string) error {
	if code := run(ctx, configPath); code != 0 {
		return errRunFailed
	}
	return nil
}

// run initializes and starts all application components (config, logger,
// sheets client, relay, telegram bot, scheduler), handles graceful shutdown,
// and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context, configPath string) int {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	sheetClient, err := sheets.NewClient(ctx, cfg.Sheets, log)
	if err != nil {
		log.Error("Failed to initialize Google Sheets client", "error", err)
		return 1
	}
	// Establish the session early so credential problems show up in the
	// startup log. Reports still reconnect on their own if this fails.
	if err := sheetClient.Refresh(ctx); err != nil {
		log.Warn("Spreadsheet not reachable at startup, will retry on first report", "error", err)
	}

	reportRelay, err := relay.New(sheetClient, cfg, relay.WithLogger(log))
	if err != nil {
		log.Error("Failed to initialize report relay", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Relay:  reportRelay,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Sheets: sheetClient,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewReportHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)
	hDeps.BotUsername = me.Username

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
