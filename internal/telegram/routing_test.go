package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/go-cmp/cmp"

	"github.com/edgard/laporbot/internal/bot/handlers"
	"github.com/edgard/laporbot/internal/config"
	"github.com/edgard/laporbot/internal/relay"
)

const botUsername = "laporbot"

// recordingAPI answers sendMessage and remembers the texts sent.
type recordingAPI struct {
	mu    sync.Mutex
	texts []string
}

func (a *recordingAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.texts = append(a.texts, r.FormValue("text"))
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":-100,"type":"group"}}}`)
}

func (a *recordingAPI) sent() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.texts...)
}

type memoryAppender struct {
	mu   sync.Mutex
	rows [][]string
}

func (m *memoryAppender) Append(_ context.Context, cells []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, cells)
	return nil
}

func (m *memoryAppender) stored() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.rows...)
}

type routedBot struct {
	bot      *bot.Bot
	api      *recordingAPI
	appender *memoryAppender
}

// newRoutedBot wires the bot the way run does: the report handler as the
// default handler plus every registered command.
func newRoutedBot(t *testing.T) *routedBot {
	t.Helper()

	api := &recordingAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Reports: config.ReportsConfig{Timezone: "UTC"},
		Messages: config.MessagesConfig{
			Welcome:   config.DefaultWelcomeMsg,
			Help:      config.DefaultHelpMsg,
			Saved:     config.DefaultSavedMsg,
			SaveError: config.DefaultSaveErrorMsg,
			NotReport: config.DefaultNotReportMsg,
		},
	}
	appender := &memoryAppender{}
	r, err := relay.New(appender, cfg)
	if err != nil {
		t.Fatalf("relay.New() error = %v", err)
	}
	deps := handlers.HandlerDeps{Logger: quietLogger(), Config: cfg, Relay: r, BotUsername: botUsername}

	b, err := NewTelegramBot("123456:test-token", quietLogger(),
		bot.WithServerURL(srv.URL),
		bot.WithSkipGetMe(),
		bot.WithDefaultHandler(handlers.NewReportHandler(deps)))
	if err != nil {
		t.Fatalf("NewTelegramBot() error = %v", err)
	}
	if err := RegisterHandlers(b, quietLogger(), handlers.RegisterAllCommands(deps)); err != nil {
		t.Fatalf("RegisterHandlers() error = %v", err)
	}
	return &routedBot{bot: b, api: api, appender: appender}
}

func groupCommand(text string) *models.Update {
	length := len(strings.Fields(text)[0])
	return &models.Update{
		ID: 10,
		Message: &models.Message{
			ID:   77,
			Chat: models.Chat{ID: -100, Type: models.ChatTypeGroup},
			From: &models.User{ID: 42, Username: "joni"},
			Text: text,
			Entities: []models.MessageEntity{
				{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: length},
			},
		},
	}
}

// waitForReplies waits until n replies were sent and returns them.
func waitForReplies(t *testing.T, api *recordingAPI, n int) []string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		got := api.sent()
		if len(got) >= n || time.Now().After(deadline) {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRouting_CommandsAddressedToThisBot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain help", "/help", config.DefaultHelpMsg},
		{"help addressed to bot", "/help@laporbot", config.DefaultHelpMsg},
		{"start addressed to bot", "/start@laporbot", config.DefaultWelcomeMsg},
		{"username case differs", "/help@LaporBot", config.DefaultHelpMsg},
		{"trailing arguments", "/start@laporbot now", config.DefaultWelcomeMsg},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rb := newRoutedBot(t)

			rb.bot.ProcessUpdate(context.Background(), groupCommand(tc.text))

			got := waitForReplies(t, rb.api, 1)
			if diff := cmp.Diff([]string{tc.want}, got); diff != "" {
				t.Errorf("replies mismatch (-want +got):\n%s", diff)
			}
			if rows := rb.appender.stored(); len(rows) != 0 {
				t.Errorf("command stored rows: %v", rows)
			}
		})
	}
}

func TestRouting_ReportsStillReachDefaultHandler(t *testing.T) {
	t.Parallel()
	rb := newRoutedBot(t)

	rb.bot.ProcessUpdate(context.Background(), &models.Update{
		ID: 11,
		Message: &models.Message{
			ID:   78,
			Chat: models.Chat{ID: -100, Type: models.ChatTypeGroup},
			From: &models.User{ID: 42, Username: "joni"},
			Text: "/UPDATE/USULAN/RELOK/JONI",
		},
	})

	got := waitForReplies(t, rb.api, 1)
	if diff := cmp.Diff([]string{config.DefaultSavedMsg}, got); diff != "" {
		t.Errorf("replies mismatch (-want +got):\n%s", diff)
	}
	rows := rb.appender.stored()
	if len(rows) != 1 || rows[0][3] != "UPDATE" {
		t.Errorf("stored rows = %v", rows)
	}
}
