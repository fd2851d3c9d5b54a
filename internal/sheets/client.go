// Package sheets appends report rows to a Google Sheets worksheet. It
// resolves the spreadsheet by name through Google Drive and keeps one
// session for the life of the process, reconnecting after a failure.
package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/edgard/laporbot/internal/config"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Scopes are the OAuth2 scopes requested for the service account.
var Scopes = []string{
	gsheets.SpreadsheetsScope,
	drive.DriveReadonlyScope,
}

// Worksheet identifies the tab rows are appended to.
type Worksheet struct {
	SpreadsheetID string
	Spreadsheet   string
	SheetID       int64
	Title         string
}

// A1Range returns the worksheet title quoted for A1 notation.
func (w *Worksheet) A1Range() string {
	return "'" + strings.ReplaceAll(w.Title, "'", "''") + "'"
}

// Client is a Google Sheets session holder. It is safe for concurrent use.
type Client struct {
	sheets *gsheets.Service
	drive  *drive.Service
	cfg    config.SheetsConfig
	log    *slog.Logger

	connect singleflight.Group
	mu      sync.RWMutex
	session *Worksheet
}

// NewClient builds a Client authenticated with the service account key in
// cfg.CredentialsFile. No request is made until the first Connect or Append.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*Client, error) {
	key, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(key, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	httpClient := jwtCfg.Client(ctx)

	sheetsSvc, err := gsheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return NewClientWithServices(sheetsSvc, driveSvc, cfg, logger), nil
}

// NewClientWithServices builds a Client on top of existing API services.
func NewClientWithServices(sheetsSvc *gsheets.Service, driveSvc *drive.Service, cfg config.SheetsConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		sheets: sheetsSvc,
		drive:  driveSvc,
		cfg:    cfg,
		log:    logger.With("component", "sheets"),
	}
}

// Connect resolves the configured spreadsheet and worksheet. Every failure is
// returned as a *ConnectionError.
func (c *Client) Connect(ctx context.Context) (*Worksheet, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	target := c.cfg.SpreadsheetName
	if target == "" {
		target = c.cfg.SpreadsheetID
	}

	id := c.cfg.SpreadsheetID
	if id == "" {
		var err error
		id, err = c.findSpreadsheet(ctx, c.cfg.SpreadsheetName)
		if err != nil {
			return nil, &ConnectionError{Spreadsheet: target, Err: err}
		}
	}

	doc, err := c.sheets.Spreadsheets.Get(id).
		Fields("spreadsheetId", "properties.title", "sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &ConnectionError{Spreadsheet: target, Err: err}
	}

	ws, err := pickWorksheet(doc, c.cfg.Worksheet)
	if err != nil {
		return nil, &ConnectionError{Spreadsheet: target, Err: err}
	}

	c.log.InfoContext(ctx, "Connected to worksheet",
		"spreadsheet_id", ws.SpreadsheetID,
		"spreadsheet", ws.Spreadsheet,
		"worksheet", ws.Title)
	return ws, nil
}

// AppendRow appends cells as one new row after the last row of ws. Every
// failure is returned as a *WriteError.
func (c *Client) AppendRow(ctx context.Context, ws *Worksheet, cells []string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	values := make([]any, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}

	resp, err := c.sheets.Spreadsheets.Values.Append(ws.SpreadsheetID, ws.A1Range(), &gsheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]any{values},
	}).
		ValueInputOption(c.cfg.ValueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return &WriteError{Range: ws.A1Range(), Err: err}
	}

	if resp.Updates != nil {
		c.log.DebugContext(ctx, "Appended row",
			"updated_range", resp.Updates.UpdatedRange,
			"updated_cells", resp.Updates.UpdatedCells)
	}
	return nil
}

// Append writes one row using the cached session, connecting first when no
// session exists. A failed append drops the session so the next call
// reconnects.
func (c *Client) Append(ctx context.Context, cells []string) error {
	ws, err := c.worksheet(ctx)
	if err != nil {
		return err
	}

	if err := c.AppendRow(ctx, ws, cells); err != nil {
		c.invalidate(ws)
		c.log.WarnContext(ctx, "Append failed, session dropped", "error", err, "status", StatusCode(err))
		return err
	}
	return nil
}

// Refresh replaces the cached session with a freshly established one. On
// failure the session is dropped and the error returned.
func (c *Client) Refresh(ctx context.Context) error {
	ws, err := c.Connect(ctx)

	c.mu.Lock()
	c.session = ws
	c.mu.Unlock()

	return err
}

func (c *Client) worksheet(ctx context.Context) (*Worksheet, error) {
	c.mu.RLock()
	ws := c.session
	c.mu.RUnlock()
	if ws != nil {
		return ws, nil
	}

	// The connect is shared by every waiting caller, so it must not die with
	// the first caller's context. Connect still applies the request timeout.
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.connect.Do("connect", func() (any, error) {
		ws, err := c.Connect(shared)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.session = ws
		c.mu.Unlock()
		return ws, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Worksheet), nil
}

func (c *Client) invalidate(ws *Worksheet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == ws {
		c.session = nil
	}
}

func (c *Client) findSpreadsheet(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(name), spreadsheetMimeType)

	list, err := c.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(10).
		IncludeItemsFromAllDrives(true).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", ErrSpreadsheetNotFound
	}
	if len(list.Files) > 1 {
		c.log.WarnContext(ctx, "Several spreadsheets share the configured name, using the first",
			"name", name, "count", len(list.Files))
	}
	return list.Files[0].Id, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.RequestTimeout)
}

func pickWorksheet(doc *gsheets.Spreadsheet, title string) (*Worksheet, error) {
	var name string
	if doc.Properties != nil {
		name = doc.Properties.Title
	}

	for _, sheet := range doc.Sheets {
		if sheet.Properties == nil {
			continue
		}
		if title == "" || sheet.Properties.Title == title {
			return &Worksheet{
				SpreadsheetID: doc.SpreadsheetId,
				Spreadsheet:   name,
				SheetID:       sheet.Properties.SheetId,
				Title:         sheet.Properties.Title,
			}, nil
		}
	}

	if title == "" {
		return nil, fmt.Errorf("%w: spreadsheet has no worksheets", ErrWorksheetNotFound)
	}
	return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, title)
}

// escapeQuery escapes a value for a single-quoted Drive query string.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

