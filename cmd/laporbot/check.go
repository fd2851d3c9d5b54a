package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/edgard/laporbot/internal/config"
	"github.com/edgard/laporbot/internal/sheets"
	"github.com/edgard/laporbot/internal/telegram"
)

func newCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration, Telegram token and spreadsheet access",
		Long: `Loads the configuration, asks Telegram who the bot is and opens the
target worksheet. Reports pass/fail for each check and exits non-zero when
any check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
			if failed := runChecks(cmd.Context(), cmd.OutOrStdout(), *configPath, quiet); failed > 0 {
				return errRunFailed
			}
			return nil
		},
	}
}

// runChecks prints one line per check and returns the number of failures.
func runChecks(ctx context.Context, w io.Writer, configPath string, log *slog.Logger) int {
	failed := 0

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		printFail(w, "Configuration", err.Error())
		return 1
	}
	printPass(w, "Configuration", configSource(cfg))

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, tgbot.WithSkipGetMe())
	if err == nil {
		me, meErr := tg.GetMe(ctx)
		if meErr == nil {
			printPass(w, "Telegram", "@"+me.Username)
		}
		err = meErr
	}
	if err != nil {
		printFail(w, "Telegram", err.Error())
		failed++
	}

	client, err := sheets.NewClient(ctx, cfg.Sheets, log)
	if err == nil {
		ws, connErr := client.Connect(ctx)
		if connErr == nil {
			printPass(w, "Spreadsheet", fmt.Sprintf("%s / %s", ws.Spreadsheet, ws.Title))
		}
		err = connErr
	}
	if err != nil {
		printFail(w, "Spreadsheet", err.Error())
		failed++
	}

	fmt.Fprintf(w, "\n%d check(s) failed\n", failed)
	return failed
}

func configSource(cfg *config.Config) string {
	if cfg.Sheets.SpreadsheetID != "" {
		return "spreadsheet id " + cfg.Sheets.SpreadsheetID
	}
	return "spreadsheet " + cfg.Sheets.SpreadsheetName
}

func printPass(w io.Writer, name, detail string) {
	fmt.Fprintf(w, "  [PASS] %-14s %s\n", name, detail)
}

func printFail(w io.Writer, name, detail string) {
	fmt.Fprintf(w, "  [FAIL] %-14s %s\n", name, detail)
}
