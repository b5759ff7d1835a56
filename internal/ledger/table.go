package ledger

// RecordsFromTable converts a header-first grid of cells into records.
// Short rows are padded with empty cells and cells beyond the header are dropped.
// Blank header cells are skipped and a repeated header keeps its first column.
func RecordsFromTable(table [][]string) []Record {
	if len(table) == 0 {
		return nil
	}

	header := table[0]
	seen := make(map[string]bool, len(header))
	keep := make([]bool, len(header))
	for i, name := range header {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		keep[i] = true
	}

	records := make([]Record, 0, len(table)-1)
	for _, cells := range table[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if !keep[i] {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			row[name] = value
		}
		records = append(records, NewRecord(row))
	}

	return records
}
