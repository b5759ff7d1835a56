package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/ledger-bot/internal/config"
	"github.com/dvloznov/ledger-bot/internal/ledger"
	"google.golang.org/api/option"
)

// LedgerRepository reads a BigQuery mirror of the ledger worksheet. It holds a shared
// BigQuery client to avoid creating a new connection for each query.
type LedgerRepository struct {
	client    *bigquery.Client
	datasetID string
	tableID   string
}

// NewLedgerRepository creates a LedgerRepository for the configured table.
func NewLedgerRepository(ctx context.Context, cfg config.BigQueryConfig, opts ...option.ClientOption) (*LedgerRepository, error) {
	if cfg.DatasetID == "" || cfg.TableID == "" {
		return nil, fmt.Errorf("NewLedgerRepository: dataset and table are required")
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = bigquery.DetectProjectID
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewLedgerRepository: creating client: %w", err)
	}
	return &LedgerRepository{
		client:    client,
		datasetID: cfg.DatasetID,
		tableID:   cfg.TableID,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *LedgerRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Fetch delegates to ReadLedgerWithClient with the shared client.
func (r *LedgerRepository) Fetch(ctx context.Context) ([]ledger.Record, error) {
	return ReadLedgerWithClient(ctx, r.client, r.datasetID, r.tableID)
}
