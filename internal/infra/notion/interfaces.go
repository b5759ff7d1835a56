package notion

import (
	"context"

	"github.com/jomei/notionapi"
)

// NotionService defines the Notion API calls the ledger source needs.
// This interface enables mocking and testing of Notion operations.
type NotionService interface {
	// QueryDatabase queries a Notion database with the given filter.
	QueryDatabase(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}
