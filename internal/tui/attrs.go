package tui

import (
	"math"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"

	"routemap/internal/dataset"
)

// attrColumns are the route table headers with their widths.
var attrColumns = []table.Column{
	{Title: "#", Width: 4},
	{Title: "key", Width: 8},
	{Title: "origin", Width: 14},
	{Title: "destination", Width: 14},
	{Title: "category", Width: 12},
	{Title: "magnitude", Width: 10},
	{Title: "display", Width: 10},
}

// refreshAttrs rebuilds the route table from the current frame.
func (m *Model) refreshAttrs() {
	if len(m.frame.Routes) == 0 {
		m.showAttrs = false
		m.status = "no routes to list"
		return
	}
	lines := m.frame.Lines()
	rows := make([]table.Row, 0, len(m.frame.Routes))
	for i, r := range m.frame.Routes {
		display := ""
		if i < len(lines) {
			display = lines[i].Display.String()
		}
		rows = append(rows, table.Row{
			strconv.Itoa(r.Row + 1),
			string(r.Key),
			truncate(r.Origin, 14),
			truncate(r.Destination, 14),
			truncate(r.Category, 12),
			magnitude(r.Magnitude),
			display,
		})
	}
	// clear rows first so the table never sees rows wider than its columns
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(attrColumns)
	m.tbl.SetRows(rows)
}

// attrKey returns the key of the highlighted table row.
func (m Model) attrKey() (dataset.Key, bool) {
	row := m.tbl.SelectedRow()
	if len(row) < 2 {
		return "", false
	}
	k, err := dataset.ParseKey(row[1])
	return k, err == nil
}

func magnitude(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
