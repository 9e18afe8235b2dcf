package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoHeader is returned for CSV input without a header row.
var ErrNoHeader = errors.New("csv: missing header row")

// Binding maps roles to CSV header names. Matching is case-insensitive and
// empty names leave the role unbound.
type Binding struct {
	Origin      string
	OriginLat   string
	OriginLng   string
	Destination string
	DestLat     string
	DestLng     string
	Legend      string
	Magnitude   string
	Tooltips    []string
	// Highlight names a flag column; truthy rows become host highlights.
	Highlight string
	// Color names a column of "#rrggbb" overrides stored on the legend column.
	Color string
}

// labelRoles are bound as category columns; everything else becomes a value column.
var labelRoles = map[Role]bool{RoleOrigin: true, RoleDestination: true, RoleLegend: true}

// LoadCSV reads a CSV file into a DataView.
func LoadCSV(path string, b Binding) (DataView, error) {
	f, err := os.Open(path)
	if err != nil {
		return DataView{}, err
	}
	defer f.Close()
	return ReadCSV(f, b)
}

// ReadCSV reads CSV rows into a DataView. Ragged rows are accepted; missing
// cells read as nil. Headers that match no role are ignored.
func ReadCSV(r io.Reader, b Binding) (DataView, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return DataView{}, fmt.Errorf("reading csv: %w", err)
	}
	if len(recs) == 0 {
		return DataView{}, ErrNoHeader
	}
	return fromTable(recs[0], recs[1:], b), nil
}

// fromTable binds header names to roles and builds the DataView.
func fromTable(header []string, rows [][]string, b Binding) DataView {
	index := map[string]int{}
	for i, h := range header {
		k := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}
	lookup := func(name string) (int, bool) {
		if strings.TrimSpace(name) == "" {
			return -1, false
		}
		i, ok := index[strings.ToLower(strings.TrimSpace(name))]
		return i, ok
	}

	// one column per header index; a header bound to several roles carries all of them
	byIndex := map[int]*Column{}
	var order []int
	bind := func(name string, role Role) {
		i, ok := lookup(name)
		if !ok {
			return
		}
		col, seen := byIndex[i]
		if !seen {
			col = &Column{Source: Source{DisplayName: strings.TrimSpace(header[i]), Roles: map[Role]bool{}}}
			col.Values = make([]any, len(rows))
			for r, row := range rows {
				if i < len(row) {
					col.Values[r] = row[i]
				}
			}
			byIndex[i] = col
			order = append(order, i)
		}
		col.Source.Roles[role] = true
	}
	bind(b.Origin, RoleOrigin)
	bind(b.OriginLat, RoleOriginLat)
	bind(b.OriginLng, RoleOriginLng)
	bind(b.Destination, RoleDestination)
	bind(b.DestLat, RoleDestLat)
	bind(b.DestLng, RoleDestLng)
	bind(b.Legend, RoleLegend)
	bind(b.Magnitude, RoleMagnitude)
	for _, t := range b.Tooltips {
		bind(t, RoleTooltips)
	}

	var dv DataView
	for _, i := range order {
		col := byIndex[i]
		isLabel := false
		for role := range col.Source.Roles {
			if labelRoles[role] {
				isLabel = true
			}
		}
		if isLabel {
			dv.Categorical.Categories = append(dv.Categorical.Categories, col)
		} else {
			dv.Categorical.Values = append(dv.Categorical.Values, col)
		}
	}

	if i, ok := lookup(b.Highlight); ok {
		applyHighlights(dv.Categorical.Values, rows, i)
	}
	if i, ok := lookup(b.Color); ok {
		if legend := dv.Categorical.ColumnByRole(RoleLegend); legend != nil {
			legend.Objects = make([]Object, len(rows))
			for r, row := range rows {
				if i < len(row) {
					legend.Objects[r] = Object{Fill: strings.TrimSpace(row[i])}
				}
			}
		}
	}
	return dv
}

// applyHighlights marks truthy rows of the flag column on every value column.
// Nothing is marked when no row is truthy, which keeps highlight mode off.
func applyHighlights(values []*Column, rows [][]string, flag int) {
	flagged := make([]bool, len(rows))
	found := false
	for r, row := range rows {
		if flag < len(row) && truthy(row[flag]) {
			flagged[r] = true
			found = true
		}
	}
	if !found {
		return
	}
	for _, col := range values {
		col.Highlights = make([]any, len(rows))
		for r := range rows {
			if flagged[r] {
				col.Highlights[r] = true
			}
		}
	}
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "x":
		return true
	}
	return false
}
