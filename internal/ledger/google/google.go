package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"kasrt/internal/core"
	ports "kasrt/internal/ledger"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client talks to the Google Sheets workbook that backs the treasury:
// one sheet for the transaction ledger, one for the unit roster.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	rosterSheet   string
}

// Ensure interface conformance
var (
	_ ports.TransactionLister   = (*Client)(nil)
	_ ports.TransactionAppender = (*Client)(nil)
	_ ports.TransactionDeleter  = (*Client)(nil)
	_ ports.RosterReader        = (*Client)(nil)
	_ ports.HeaderInitializer   = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional sheet names: LEDGER_SHEET_NAME (default "Kas"),
// ROSTER_SHEET_NAME (default "Data Warga").
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	ledgerSheet := strings.TrimSpace(os.Getenv("LEDGER_SHEET_NAME"))
	if ledgerSheet == "" {
		ledgerSheet = "Kas"
	}
	rosterSheet := strings.TrimSpace(os.Getenv("ROSTER_SHEET_NAME"))
	if rosterSheet == "" {
		rosterSheet = "Data Warga"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
		rosterSheet:   rosterSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ListTransactions reads the whole ledger sheet. The first row is the
// header; data rows become RawRecords keyed by header name and are
// normalized, so malformed cells degrade instead of failing the read.
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rng := fmt.Sprintf("%s!A:J", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	records := rowsToRecords(resp.Values)
	return core.Normalize(records), nil
}

// ListUnits reads the roster sheet (Blok, No, Status, Nama Penghuni).
func (c *Client) ListUnits(ctx context.Context) ([]core.Unit, error) {
	rng := fmt.Sprintf("%s!A:D", c.rosterSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	var units []core.Unit
	for i, row := range resp.Values {
		cols := toStrings(row)
		if i == 0 || len(cols) == 0 || strings.TrimSpace(safeGet(cols, 0)) == "" {
			continue
		}
		units = append(units, core.Unit{
			Block:    safeGet(cols, 0),
			Lot:      safeGet(cols, 1),
			Status:   safeGet(cols, 2),
			Resident: safeGet(cols, 3),
		})
	}
	return units, nil
}

// Append writes one ledger row after the existing data.
func (c *Client) Append(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	rng := fmt.Sprintf("%s!A:J", c.ledgerSheet)
	vr := &gsheet.ValueRange{Values: [][]any{{
		strconv.FormatInt(t.ID, 10), t.Date.String(), t.Payer, t.UnitRef,
		t.StatusSnapshot, t.Category, t.Month, int64(t.Amount), t.Note, t.ProofFile,
	}}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", c.ledgerSheet, err)
	}
	slog.InfoContext(ctx, "Transaction appended to sheet",
		"id", t.ID, "sheet", c.ledgerSheet, "amount", int64(t.Amount))
	return nil
}

// Delete locates the row whose ID column matches and removes it with a
// DeleteDimension batch update. Returns ledger.ErrNotFound when no row
// carries the ID.
func (c *Client) Delete(ctx context.Context, id int64) error {
	rng := fmt.Sprintf("%s!A:A", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}
	target := strconv.FormatInt(id, 10)
	rowIndex := -1
	for i, row := range resp.Values {
		if i == 0 {
			continue // header
		}
		if len(row) > 0 && strings.TrimSpace(fmt.Sprint(row[0])) == target {
			rowIndex = i
			break
		}
	}
	if rowIndex < 0 {
		return ports.ErrNotFound
	}

	sheetID, err := c.sheetID(ctx, c.ledgerSheet)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex),
					EndIndex:   int64(rowIndex + 1),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d: %w", rowIndex, err)
	}
	slog.InfoContext(ctx, "Transaction deleted from sheet", "id", id, "row", rowIndex)
	return nil
}

// InitHeaders clears the ledger sheet and writes the header row. Used
// once when the workbook is empty or being reset.
func (c *Client) InitHeaders(ctx context.Context) error {
	rng := fmt.Sprintf("%s!A:J", c.ledgerSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", c.ledgerSheet, err)
	}
	header := make([]any, len(ports.Header))
	for i, h := range ports.Header {
		header[i] = h
	}
	vr := &gsheet.ValueRange{Values: [][]any{header}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// sheetID resolves a sheet title to its numeric ID for batch updates.
func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", title)
}

// rowsToRecords maps data rows onto the header row of a values matrix.
func rowsToRecords(values [][]any) []core.RawRecord {
	if len(values) < 2 {
		return nil
	}
	headers := toStrings(values[0])
	records := make([]core.RawRecord, 0, len(values)-1)
	for _, row := range values[1:] {
		cols := toStrings(row)
		if len(cols) == 0 {
			continue
		}
		rec := make(core.RawRecord, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			rec[h] = safeGet(cols, i)
		}
		records = append(records, rec)
	}
	return records
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
