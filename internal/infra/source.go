// Package infra opens the ledger record source selected by configuration.
package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/ledger-bot/internal/config"
	"github.com/dvloznov/ledger-bot/internal/infra/bigquery"
	"github.com/dvloznov/ledger-bot/internal/infra/gcs"
	"github.com/dvloznov/ledger-bot/internal/infra/notion"
	"github.com/dvloznov/ledger-bot/internal/infra/sheets"
	"github.com/dvloznov/ledger-bot/internal/ledger"
)

// ErrUnknownBackend is returned for a LEDGER_BACKEND value with no implementation.
var ErrUnknownBackend = errors.New("unknown ledger backend")

// Source is a ledger record source holding client connections until closed.
type Source interface {
	Fetch(ctx context.Context) ([]ledger.Record, error)
	Close() error
}

// OpenSource connects to the backend named by cfg.LedgerBackend.
func OpenSource(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.LedgerBackend {
	case config.BackendSheets, "":
		src, err := sheets.NewSource(ctx, cfg.Sheets)
		if err != nil {
			return nil, fmt.Errorf("OpenSource: %w", err)
		}
		return src, nil

	case config.BackendBigQuery:
		repo, err := bigquery.NewLedgerRepository(ctx, cfg.BigQuery)
		if err != nil {
			return nil, fmt.Errorf("OpenSource: %w", err)
		}
		return repo, nil

	case config.BackendNotion:
		if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
			return nil, fmt.Errorf("OpenSource: NOTION_TOKEN and NOTION_DATABASE_ID are required")
		}
		return notion.NewSource(notion.NewNotionClient(cfg.Notion.Token), cfg.Notion.DatabaseID), nil

	case config.BackendGCS:
		if cfg.LedgerCSVURI == "" {
			return nil, fmt.Errorf("OpenSource: LEDGER_CSV_URI is required")
		}
		src, err := gcs.NewSource(ctx, cfg.LedgerCSVURI)
		if err != nil {
			return nil, fmt.Errorf("OpenSource: %w", err)
		}
		return src, nil

	default:
		return nil, fmt.Errorf("OpenSource: %w: %q", ErrUnknownBackend, cfg.LedgerBackend)
	}
}
