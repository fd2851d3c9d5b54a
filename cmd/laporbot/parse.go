package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgard/laporbot/internal/report"
)

func newParseCmd() *cobra.Command {
	var (
		handle    string
		senderID  int64
		skipEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "parse [report]",
		Short: "Show the rows a report would append, without contacting any service",
		Long: `Parses a report given as an argument, or read from stdin when no
argument is given, and prints one line per row that would be appended.
Cells are separated by " | ".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read report from stdin: %w", err)
				}
				text = strings.TrimRight(string(b), "\n")
			}
			return printRows(cmd.OutOrStdout(), text, time.Now(), handle, senderID, skipEmpty)
		},
	}

	cmd.Flags().StringVar(&handle, "handle", "preview", "sender handle to put in the second column")
	cmd.Flags().Int64Var(&senderID, "id", 0, "sender id to put in the third column")
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "drop lines that have no fields")
	return cmd
}

func printRows(w io.Writer, text string, now time.Time, handle string, senderID int64, skipEmpty bool) error {
	lines, ok := report.Parse(text)
	if !ok {
		return fmt.Errorf("not a report: text must start with %q", report.Marker)
	}

	rows := 0
	for _, fields := range lines {
		if len(fields) == 0 && skipEmpty {
			continue
		}
		row := report.NewRow(now, handle, senderID, fields)
		if _, err := fmt.Fprintln(w, strings.Join(row.Cells(), " | ")); err != nil {
			return err
		}
		rows++
	}

	_, err := fmt.Fprintf(w, "%d row(s)\n", rows)
	return err
}
