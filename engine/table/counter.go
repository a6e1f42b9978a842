package table

import "github.com/notecraft/notecraft/engine/core"

// CountByColumn streams one column of data rows and counts occurrences per
// non-empty value. Grouping values are compared exactly, without key
// normalization.
func CountByColumn(rows [][]core.CellValue, col int) map[string]int {
	counts := make(map[string]int)
	if col < 0 {
		return counts
	}
	for _, row := range rows {
		if col >= len(row) || row[col].IsEmpty() {
			continue
		}
		counts[row[col].String()]++
	}
	return counts
}
