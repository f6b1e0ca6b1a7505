package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"relief-bknd/internal/config"
	"relief-bknd/internal/models"
)

const (
	worksheetName = "requests"
	dataRange     = worksheetName + "!A2:L"
	headerRange   = worksheetName + "!A1:L1"
	appendRange   = worksheetName + "!A:L"
)

// SheetsStore persists requests as rows of a Google Sheets worksheet,
// one column per field in the Header order. Every call carries a
// bounded timeout so no operation can hang on the remote API.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
}

// NewSheetsStore builds the cloud backend from the configured
// service-account credential (a JSON blob or a path to one) and sheet
// key, and verifies the worksheet header, creating it when absent. Any
// error here makes Open fall back to the local file store.
func NewSheetsStore(ctx context.Context, cfg *config.Config) (*SheetsStore, error) {
	creds, err := credentialBytes(cfg.ServiceAccountJSON)
	if err != nil {
		return nil, err
	}

	initCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	svc, err := sheets.NewService(initCtx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	s := &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SheetKey,
		timeout:       cfg.StoreTimeout,
	}
	if err := s.ensureHeader(initCtx); err != nil {
		return nil, err
	}
	return s, nil
}

func credentialBytes(value string) ([]byte, error) {
	// A raw JSON blob (Streamlit-style secret) or a path to one.
	if strings.HasPrefix(strings.TrimSpace(value), "{") {
		return []byte(value), nil
	}
	b, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("reading credential file: %w", err)
	}
	return b, nil
}

func (s *SheetsStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *SheetsStore) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading header row: %w", err)
	}

	if len(resp.Values) > 0 && len(resp.Values[0]) == len(Header) {
		match := true
		for i, cell := range resp.Values[0] {
			if fmt.Sprint(cell) != Header[i] {
				match = false
				break
			}
		}
		if match {
			return nil
		}
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, headerRange,
		&sheets.ValueRange{Values: [][]interface{}{toCells(Header)}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	return nil
}

func (s *SheetsStore) Append(ctx context.Context, req *models.Request) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, appendRange,
		&sheets.ValueRange{Values: [][]interface{}{toCells(EncodeRow(req))}}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to sheet: %w", err)
	}
	return nil
}

func (s *SheetsStore) Update(ctx context.Context, id string, patch Patch) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.readRows(ctx)
	if err != nil {
		return err
	}

	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		applyPatch(&rows[i], patch)

		// Worksheet rows are 1-based and the header occupies row 1.
		rowRange := fmt.Sprintf("%s!A%d:L%d", worksheetName, i+2, i+2)
		_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rowRange,
			&sheets.ValueRange{Values: [][]interface{}{toCells(EncodeRow(&rows[i]))}}).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("updating sheet row: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", models.ErrNotFound, id)
}

func (s *SheetsStore) List(ctx context.Context, filter Filter) ([]models.Request, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.readRows(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Request, 0, len(rows))
	for i := range rows {
		if filter.matches(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func (s *SheetsStore) readRows(ctx context.Context) ([]models.Request, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, dataRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	requests := make([]models.Request, 0, len(resp.Values))
	for _, cells := range resp.Values {
		row := make([]string, len(Header))
		for i := range row {
			if i < len(cells) {
				row[i] = fmt.Sprint(cells[i])
			}
		}
		req, err := DecodeRow(row)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
