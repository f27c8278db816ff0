package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gestor/internal/core"
	ports "gestor/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client appends billing audit rows to a Google spreadsheet. One sheet
// holds the full audit trail, one row per event, newest last.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var (
	_ ports.AdjustmentWriter = (*Client)(nil)
	_ ports.RenewalWriter    = (*Client)(nil)
	_ ports.AuditWriter      = (*Client)(nil)
)

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Auditoria"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials, inline JSON first, then a credentials file.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte

	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

func (c *Client) AppendAdjustment(ctx context.Context, contract core.Contract, adj core.Adjustment) (string, error) {
	row := []any{
		adj.EffectiveDate.Format("02/01/2006"),
		"reajuste",
		contract.ClientName,
		string(contract.Plan),
		adj.PreviousValue.Reais(),
		adj.NewValue.Reais(),
		adj.Difference.Reais(),
		adj.Note,
	}
	return c.appendRow(ctx, row)
}

func (c *Client) AppendRenewal(ctx context.Context, contract core.Contract) (string, error) {
	row := []any{
		contract.RenewalDate.Format("02/01/2006"),
		"renovacao",
		contract.ClientName,
		string(contract.Plan),
		contract.MonthlyValue.Reais(),
		contract.MonthlyValue.Reais(),
		0.0,
		"",
	}
	return c.appendRow(ctx, row)
}

func (c *Client) appendRow(ctx context.Context, row []any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row from the sheet dimensions first
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.sheetName, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:H%d", c.sheetName, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write row to sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Appended audit row",
		"sheet", c.sheetName,
		"row", nextRow,
		"written_at", time.Now().Format(time.RFC3339))

	return dataRange, nil
}
