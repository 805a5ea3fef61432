package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"

	"geomap/internal/edit"
)

// attrFeatures is the selection, or every feature when nothing is selected.
func (m *Model) attrFeatures() []string {
	if len(m.selected) > 0 {
		return m.selected
	}
	ids := make([]string, 0, m.reg.Len())
	for _, f := range m.reg.Features() {
		ids = append(ids, f.ID.String())
	}
	return ids
}

// buildAttributes returns the columns and rows for ids: identifier and
// geometry type first, then the union of property keys.
func (m *Model) buildAttributes(ids []string) ([]string, [][]string) {
	var keys []string
	seen := map[string]bool{}
	for _, id := range ids {
		var fk []string
		for k := range m.props[id] {
			if !seen[k] {
				seen[k] = true
				fk = append(fk, k)
			}
		}
		sort.Strings(fk)
		keys = append(keys, fk...)
	}
	cols := append([]string{"id", "type"}, keys...)
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		g, ok := m.reg.Lookup(edit.ID(id))
		if !ok {
			continue
		}
		row := []string{id, g.Type().String()}
		for _, k := range keys {
			row = append(row, formatValue(m.props[id][k]))
		}
		rows = append(rows, row)
	}
	return cols, rows
}

// refreshAttrs rebuilds the table from the current selection.
func (m *Model) refreshAttrs() {
	cols, rows := m.buildAttributes(m.attrFeatures())
	// no rows: leave the table alone to avoid rendering an empty grid
	if len(rows) == 0 {
		m.showAttrs = false
		m.status = "no features for attributes"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	const maxColW = 24
	for i, c := range cols {
		w := len(c) + 2
		for _, r := range rows {
			w = max(w, len(r[i])+2)
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		trows = append(trows, table.Row(append([]string{fmt.Sprintf("%d", i+1)}, r...)))
	}
	// clear rows first so columns and rows never disagree
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
