// Package google writes period reports to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cuzdan/internal/report"
	ports "cuzdan/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Options configures the Sheets client. One of CredentialsJSON or
// CredentialsFile is required unless GOOGLE_APPLICATION_CREDENTIALS is set.
type Options struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ ports.ReportWriter = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	credentials, err := readCredentials(ctx, opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", spreadsheetID)
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func readCredentials(ctx context.Context, opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.DebugContext(ctx, "Read service account credentials", "path", file, "size", len(data))
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// WriteReport writes data to the tab "<profile> <period>", creating the tab
// when it is missing and clearing it otherwise.
func (c *Client) WriteReport(ctx context.Context, data report.ExportData) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	tab := ports.TabName(data)
	if tab == "" {
		return "", errors.New("empty tab name")
	}

	if err := c.ensureTab(ctx, tab); err != nil {
		return "", err
	}

	all := quoteRange(tab, "A:Z")
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, all, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", all, err)
	}

	rows := ports.ReportRows(data)
	rng := quoteRange(tab, fmt.Sprintf("A1:G%d", len(rows)))
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("update %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Report written to Google Sheets",
		"tab", tab,
		"rows", len(rows),
		"transactions", len(data.Transactions))
	return rng, nil
}

func (c *Client) ensureTab(ctx context.Context, tab string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	if hasTab(ss, tab) {
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: tab},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %q: %w", tab, err)
	}
	slog.InfoContext(ctx, "Created report tab", "tab", tab)
	return nil
}

func hasTab(ss *gsheet.Spreadsheet, tab string) bool {
	if ss == nil {
		return false
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == tab {
			return true
		}
	}
	return false
}

// quoteRange builds an A1 range for a tab title that may contain spaces.
func quoteRange(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(tab, "'", "''"), cells)
}
