package bigquery

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/ledger-bot/internal/ledger"
	"google.golang.org/api/iterator"
)

// ReadLedgerWithClient reads every row of dataset.table using the provided client.
// Column names are the ledger headers; NULL cells are treated as missing columns.
func ReadLedgerWithClient(ctx context.Context, client *bigquery.Client, datasetID, tableID string) ([]ledger.Record, error) {
	it := client.Dataset(datasetID).Table(tableID).Read(ctx)

	var records []ledger.Record
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadLedger: iter next: %w", err)
		}
		records = append(records, ledger.NewRecord(rowColumns(row)))
	}

	return records, nil
}

func rowColumns(row map[string]bigquery.Value) map[string]string {
	columns := make(map[string]string, len(row))
	for name, v := range row {
		if s, ok := formatValue(v); ok {
			columns[name] = s
		}
	}
	return columns
}

// formatValue renders a BigQuery cell the way the worksheet would display it.
func formatValue(v bigquery.Value) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case *big.Rat:
		if val == nil {
			return "", false
		}
		return formatRat(val), true
	case civil.Date:
		return val.String(), true
	case civil.DateTime:
		return val.String(), true
	case civil.Time:
		return val.String(), true
	case time.Time:
		return val.Format(time.RFC3339), true
	case []bigquery.Value:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := formatValue(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), true
	default:
		return fmt.Sprint(val), true
	}
}

// formatRat prints NUMERIC values without trailing zeros.
func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	s := strings.TrimRight(r.FloatString(9), "0")
	return strings.TrimSuffix(s, ".")
}
