// Package sheets reads the ledger worksheet from Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/ledger-bot/internal/config"
	"github.com/dvloznov/ledger-bot/internal/ledger"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// ErrSpreadsheetNotFound is returned when no spreadsheet carries the configured name.
var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

// Source fetches every row of one worksheet. The first row is the header.
type Source struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

// NewSource connects to Google Sheets with the configured service account, or Application
// Default Credentials when none is set. A spreadsheet given only by name is resolved
// through Drive once, here.
func NewSource(ctx context.Context, cfg config.SheetsConfig, extra ...option.ClientOption) (*Source, error) {
	opts := []option.ClientOption{
		option.WithScopes(sheets.SpreadsheetsReadonlyScope, drive.DriveMetadataReadonlyScope),
	}
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	opts = append(opts, extra...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewSource: creating sheets service: %w", err)
	}

	spreadsheetID := cfg.SpreadsheetID
	if spreadsheetID == "" {
		drv, err := drive.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("NewSource: creating drive service: %w", err)
		}
		spreadsheetID, err = FindSpreadsheetID(ctx, drv, cfg.SpreadsheetName)
		if err != nil {
			return nil, fmt.Errorf("NewSource: %w", err)
		}
	}

	return newSource(svc, spreadsheetID, cfg.WorksheetName), nil
}

func newSource(svc *sheets.Service, spreadsheetID, worksheet string) *Source {
	return &Source{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}
}

// Fetch reads the whole worksheet with formatted cell values.
func (s *Source) Fetch(ctx context.Context) ([]ledger.Record, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, worksheetRange(s.worksheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading worksheet %q: %w", s.worksheet, err)
	}

	return ledger.RecordsFromTable(tableFromValues(resp.Values)), nil
}

// Close is a no-op; the Sheets client holds no resources of its own.
func (s *Source) Close() error {
	return nil
}

// FindSpreadsheetID returns the id of the first spreadsheet named name visible to the caller.
func FindSpreadsheetID(ctx context.Context, drv *drive.Service, name string) (string, error) {
	list, err := drv.Files.List().
		Q(spreadsheetQuery(name)).
		Fields("files(id, name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("FindSpreadsheetID: listing files: %w", err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("FindSpreadsheetID: %q: %w", name, ErrSpreadsheetNotFound)
	}
	return list.Files[0].Id, nil
}

// worksheetRange addresses a whole worksheet in A1 notation.
func worksheetRange(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func spreadsheetQuery(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escaped, spreadsheetMimeType)
}

func tableFromValues(values [][]interface{}) [][]string {
	table := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch val := v.(type) {
			case nil:
				cells[j] = ""
			case string:
				cells[j] = val
			default:
				cells[j] = fmt.Sprint(val)
			}
		}
		table[i] = cells
	}
	return table
}
