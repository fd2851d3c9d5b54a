// Package relay turns inbound chat messages into spreadsheet rows and tells
// the sender how each report line fared.
package relay

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/edgard/laporbot/internal/config"
	"github.com/edgard/laporbot/internal/report"
)

// DetailPlaceholder is replaced by the failure detail in the save error message.
const DetailPlaceholder = "{detail}"

// Sender identifies who sent a message.
type Sender struct {
	ID     int64
	Handle string
}

// Inbound is a chat message reduced to what the relay needs.
type Inbound struct {
	Sender  Sender
	Content report.Content
}

// Appender stores one row at the end of the report sheet.
type Appender interface {
	Append(ctx context.Context, cells []string) error
}

// Replier sends a text reply to the sender of the message being handled.
type Replier interface {
	Reply(ctx context.Context, text string) error
}

// ReplierFunc adapts a function to Replier.
type ReplierFunc func(ctx context.Context, text string) error

// Reply calls f.
func (f ReplierFunc) Reply(ctx context.Context, text string) error { return f(ctx, text) }

// Summary describes what Handle did with a message.
type Summary struct {
	Ignored  bool // no usable text or caption
	Rejected bool // text did not start with the marker
	Lines    int  // report lines parsed
	Skipped  int  // lines dropped because they had no fields
	Stored   int
	Failed   int
}

// Relay parses reports and appends them through an Appender.
type Relay struct {
	appender  Appender
	messages  config.MessagesConfig
	location  *time.Location
	skipEmpty bool
	now       func() time.Time
	log       *slog.Logger
}

// Option customizes a Relay.
type Option func(*Relay)

// WithClock sets the time source used for row timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.log = logger.With("component", "relay") }
}

// New creates a Relay. Timestamps are rendered in cfg.Reports.Timezone.
func New(appender Appender, cfg *config.Config, opts ...Option) (*Relay, error) {
	loc, err := cfg.Reports.Location()
	if err != nil {
		return nil, err
	}

	r := &Relay{
		appender:  appender,
		messages:  cfg.Messages,
		location:  loc,
		skipEmpty: cfg.Reports.SkipEmptyLines,
		now:       time.Now,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Handle processes one inbound message. Messages without text are ignored,
// non-reports get a single rejection reply, and every report line gets its
// own append attempt and reply, in line order. A failing line never stops
// the lines after it.
func (r *Relay) Handle(ctx context.Context, in Inbound, replier Replier) Summary {
	var summary Summary
	log := r.log.With("user_id", in.Sender.ID, "content_kind", in.Content.Kind.String())

	text, ok := in.Content.ReportText()
	if !ok {
		log.DebugContext(ctx, "Message has no text or caption, ignoring")
		summary.Ignored = true
		return summary
	}

	lines, ok := report.Parse(text)
	if !ok {
		log.InfoContext(ctx, "Message is not a report")
		summary.Rejected = true
		r.reply(ctx, replier, r.messages.NotReport)
		return summary
	}
	summary.Lines = len(lines)

	for i, fields := range lines {
		if len(fields) == 0 && r.skipEmpty {
			log.InfoContext(ctx, "Skipping report line without fields", "line", i+1)
			summary.Skipped++
			continue
		}

		row := report.NewRow(r.now().In(r.location), in.Sender.Handle, in.Sender.ID, fields)
		if err := r.appender.Append(ctx, row.Cells()); err != nil {
			log.ErrorContext(ctx, "Failed to store report line", "line", i+1, "fields", len(fields), "error", err)
			summary.Failed++
			r.reply(ctx, replier, strings.ReplaceAll(r.messages.SaveError, DetailPlaceholder, err.Error()))
			continue
		}

		log.InfoContext(ctx, "Stored report line", "line", i+1, "fields", len(fields))
		summary.Stored++
		r.reply(ctx, replier, r.messages.Saved)
	}

	return summary
}

func (r *Relay) reply(ctx context.Context, replier Replier, text string) {
	if err := replier.Reply(ctx, text); err != nil {
		r.log.ErrorContext(ctx, "Failed to send reply", "error", err)
	}
}
