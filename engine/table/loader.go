// Package table turns raw tabular sources into per-ID records. Loading is
// fuzzy on headers (normalized keys tolerate spelling drift) and strict on
// nothing else: values are stored raw and coerced only at formatting time.
package table

import (
	"fmt"
	"strings"

	"github.com/notecraft/notecraft/engine/core"
	"github.com/notecraft/notecraft/pkg/keynorm"
)

// Table is one loaded source: records keyed by trimmed ID, plus the first-seen
// row order of those IDs.
type Table struct {
	ByID  map[string]core.Record
	Order []string
}

// Get returns the record for a trimmed ID, or nil when absent.
func (t *Table) Get(id string) core.Record {
	if t == nil {
		return nil
	}
	return t.ByID[strings.TrimSpace(id)]
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ByID)
}

// Load reads one header row at headerRow, normalizes every header cell, and
// builds a record per data row below it. The ID lives at idCol.
//
//   - blank headers are skipped and never stored as fields
//   - rows with a blank (or zero) ID cell are skipped silently
//   - IDs are stringified and trimmed; duplicate IDs collapse last-write-wins
func Load(rows [][]core.CellValue, headerRow, idCol int) (*Table, error) {
	if headerRow < 0 || headerRow >= len(rows) {
		return nil, core.NewError(
			fmt.Errorf("header row %d out of range for %d rows", headerRow, len(rows)),
			core.ErrCodeMissingSource,
			map[string]any{"header_row": headerRow, "rows": len(rows)},
		)
	}
	if idCol < 0 {
		return nil, core.NewError(
			fmt.Errorf("id column %d out of range", idCol),
			core.ErrCodeInvalidInput,
			map[string]any{"id_col": idCol},
		)
	}

	keys := make([]string, len(rows[headerRow]))
	for i, cell := range rows[headerRow] {
		keys[i] = keynorm.Normalize(cell.String())
	}

	out := &Table{ByID: make(map[string]core.Record)}
	for _, row := range rows[headerRow+1:] {
		if idCol >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idCol].String())
		if id == "" || id == "0" {
			continue
		}
		rec := make(core.Record, len(keys))
		for i, cell := range row {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			rec[keys[i]] = cell
		}
		if _, seen := out.ByID[id]; !seen {
			out.Order = append(out.Order, id)
		}
		out.ByID[id] = rec
	}
	return out, nil
}
