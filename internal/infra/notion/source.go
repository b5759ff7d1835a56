package notion

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/ledger-bot/internal/ledger"
	"github.com/jomei/notionapi"
)

// pageSize is the largest page the Notion API returns.
const pageSize = 100

// Source reads every page of a Notion database, one ledger row per page.
// Property names must match the ledger headers.
type Source struct {
	client     NotionService
	databaseID string
}

// NewSource creates a Source over databaseID.
func NewSource(client NotionService, databaseID string) *Source {
	return &Source{client: client, databaseID: databaseID}
}

// Fetch pages through the database and converts each page to a record.
func (s *Source) Fetch(ctx context.Context) ([]ledger.Record, error) {
	pages, err := queryAllPages(ctx, s.client, s.databaseID)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	records := make([]ledger.Record, 0, len(pages))
	for _, page := range pages {
		records = append(records, ledger.NewRecord(pageColumns(page)))
	}
	return records, nil
}

// Close is a no-op; the Notion client is stateless.
func (s *Source) Close() error {
	return nil
}

func queryAllPages(ctx context.Context, client NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: pageSize,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := client.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}

func pageColumns(page notionapi.Page) map[string]string {
	columns := make(map[string]string, len(page.Properties))
	for name, prop := range page.Properties {
		if s, ok := propertyText(prop); ok {
			columns[name] = s
		}
	}
	return columns
}

// propertyText renders a property as the worksheet text it mirrors.
// Unsupported property types are left out of the row.
func propertyText(prop notionapi.Property) (string, bool) {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return plainText(p.Title), true
	case *notionapi.RichTextProperty:
		return plainText(p.RichText), true
	case *notionapi.SelectProperty:
		return p.Select.Name, true
	case *notionapi.StatusProperty:
		return p.Status.Name, true
	case *notionapi.NumberProperty:
		return strconv.FormatFloat(p.Number, 'f', -1, 64), true
	case *notionapi.CheckboxProperty:
		return strconv.FormatBool(p.Checkbox), true
	case *notionapi.DateProperty:
		return dateText(p.Date), true
	case *notionapi.URLProperty:
		return p.URL, true
	case *notionapi.FormulaProperty:
		switch string(p.Formula.Type) {
		case "string":
			return p.Formula.String, true
		case "number":
			return strconv.FormatFloat(p.Formula.Number, 'f', -1, 64), true
		case "boolean":
			return strconv.FormatBool(p.Formula.Boolean), true
		case "date":
			return dateText(p.Formula.Date), true
		}
	}
	return "", false
}

func plainText(parts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range parts {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}

func dateText(d *notionapi.DateObject) string {
	if d == nil || d.Start == nil {
		return ""
	}
	return time.Time(*d.Start).Format("2006-01-02")
}
