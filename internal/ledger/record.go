// Package ledger models rows of the customer transaction ledger.
package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Column headers of the ledger worksheet.
const (
	ColumnDate            = "日期"
	ColumnTransactionID   = "交易編號"
	ColumnCustomerName    = "客戶姓名"
	ColumnCustomerID      = "客戶uuid"
	ColumnItem            = "細項"
	ColumnProduct         = "產品"
	ColumnListPrice       = "標價"
	ColumnCustomerAmount  = "客戶收支"
	ColumnMerchantReceipt = "店家實收"
	ColumnBalance         = "餘額"
	ColumnSettled         = "是否結清"
)

// Placeholder is rendered for columns the row does not carry.
const Placeholder = "N/A"

// Cell is a single ledger value. Valid is false when the column is absent from the row.
type Cell struct {
	Value string
	Valid bool
}

// Display returns the cell value, or Placeholder when the column is missing.
func (c Cell) Display() string {
	if !c.Valid {
		return Placeholder
	}
	return c.Value
}

// Record is one ledger row. The named fields are the columns the bot understands;
// the full column snapshot is kept for identity comparison.
type Record struct {
	Date            Cell
	TransactionID   Cell
	CustomerName    Cell
	CustomerID      Cell
	Item            Cell
	Product         Cell
	ListPrice       Cell
	CustomerAmount  Cell
	MerchantReceipt Cell
	Balance         Cell
	Settled         Cell

	columns map[string]string
}

// NewRecord builds a Record from a column → value mapping. The mapping is copied.
func NewRecord(row map[string]string) Record {
	columns := make(map[string]string, len(row))
	for k, v := range row {
		columns[k] = v
	}

	cell := func(name string) Cell {
		v, ok := columns[name]
		return Cell{Value: v, Valid: ok}
	}

	return Record{
		Date:            cell(ColumnDate),
		TransactionID:   cell(ColumnTransactionID),
		CustomerName:    cell(ColumnCustomerName),
		CustomerID:      cell(ColumnCustomerID),
		Item:            cell(ColumnItem),
		Product:         cell(ColumnProduct),
		ListPrice:       cell(ColumnListPrice),
		CustomerAmount:  cell(ColumnCustomerAmount),
		MerchantReceipt: cell(ColumnMerchantReceipt),
		Balance:         cell(ColumnBalance),
		Settled:         cell(ColumnSettled),
		columns:         columns,
	}
}

// MatchesCustomer reports whether the row belongs to the given customer.
// Both cells must be non-empty; comparison is exact after trimming whitespace.
func (r Record) MatchesCustomer(name, id string) bool {
	if r.CustomerName.Value == "" || r.CustomerID.Value == "" {
		return false
	}
	return strings.TrimSpace(r.CustomerName.Value) == strings.TrimSpace(name) &&
		strings.TrimSpace(r.CustomerID.Value) == strings.TrimSpace(id)
}

// IsUnsettled reports whether the settled flag marks the transaction as open.
// Only "false" and "否" (case-insensitive, trimmed) count; anything else is settled.
func IsUnsettled(flag string) bool {
	v := strings.ToLower(strings.TrimSpace(flag))
	return v == "false" || v == "否"
}

// IsUnsettled reports whether the record's settled flag marks it as open.
func (r Record) IsUnsettled() bool {
	return IsUnsettled(r.Settled.Value)
}

// Key returns the full-content identity of the row: its columns serialised with sorted keys.
// Two rows with identical content share a key even if they are distinct transactions.
func (r Record) Key() (string, error) {
	b, err := json.Marshal(r.columns)
	if err != nil {
		return "", fmt.Errorf("Key: marshal columns: %w", err)
	}
	return string(b), nil
}
