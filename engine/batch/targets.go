package batch

import (
	"strings"

	"github.com/notecraft/notecraft/engine/core"
)

// UngroupedName collects target rows whose group cell is blank.
const UngroupedName = "ungrouped"

// GroupsFromRows builds the ordered target collection from a tabular source:
// one row per RID, grouped by the value at groupCol. Rows below headerRow with
// a blank RID cell are skipped. Group order and RID order within a group
// follow first appearance.
func GroupsFromRows(rows [][]core.CellValue, headerRow, groupCol, ridCol int) []Group {
	var order []string
	byName := make(map[string]*Group)
	start := headerRow + 1
	if start < 0 {
		start = 0
	}
	if start > len(rows) {
		start = len(rows)
	}
	for _, row := range rows[start:] {
		if ridCol < 0 || ridCol >= len(row) {
			continue
		}
		rid := strings.TrimSpace(row[ridCol].String())
		if rid == "" {
			continue
		}
		name := UngroupedName
		if groupCol >= 0 && groupCol < len(row) && !row[groupCol].IsEmpty() {
			name = strings.TrimSpace(row[groupCol].String())
		}
		g, ok := byName[name]
		if !ok {
			g = &Group{Name: name}
			byName[name] = g
			order = append(order, name)
		}
		g.RIDs = append(g.RIDs, rid)
	}
	groups := make([]Group, 0, len(order))
	for _, name := range order {
		groups = append(groups, *byName[name])
	}
	return groups
}
