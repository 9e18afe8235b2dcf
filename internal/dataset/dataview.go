// Package dataset turns a role-tagged tabular input into typed route records.
//
// A DataView mirrors what a reporting host hands to a visual: category columns
// and value columns, each tagged with zero or more semantic roles, plus
// per-row highlight flags and per-row formatting overrides. Resolve binds the
// columns to the closed set of roles once per refresh; Columns.Records then
// zips them row by row and drops rows whose coordinates are unusable.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Role is a semantic tag a column can be bound to.
type Role string

const (
	RoleOrigin      Role = "origin"
	RoleOriginLat   Role = "originLat"
	RoleOriginLng   Role = "originLng"
	RoleDestination Role = "destination"
	RoleDestLat     Role = "destLat"
	RoleDestLng     Role = "destLng"
	RoleLegend      Role = "legend"
	RoleMagnitude   Role = "lineWidth"
	RoleTooltips    Role = "tooltips"
)

// Source describes where a column came from.
type Source struct {
	DisplayName string
	Roles       map[Role]bool
}

// Has reports whether the column is bound to r.
func (s Source) Has(r Role) bool { return s.Roles[r] }

// Object holds per-row formatting stored by the host.
type Object struct {
	// Fill is a user-assigned "#rrggbb" color, empty when unset.
	Fill string
}

// Column is one column of the input. Values, Highlights and Objects are
// indexed by row and may be shorter than the row count.
type Column struct {
	Source     Source
	Values     []any
	Highlights []any
	Objects    []Object
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Values)
}

// Value returns the raw value at row i, or nil when out of range.
func (c *Column) Value(i int) any {
	if c == nil || i < 0 || i >= len(c.Values) {
		return nil
	}
	return c.Values[i]
}

// Highlighted reports whether the host flagged row i.
func (c *Column) Highlighted(i int) bool {
	if c == nil || i < 0 || i >= len(c.Highlights) {
		return false
	}
	return c.Highlights[i] != nil
}

// HasHighlights reports whether any row of the column is flagged.
func (c *Column) HasHighlights() bool {
	if c == nil {
		return false
	}
	for _, h := range c.Highlights {
		if h != nil {
			return true
		}
	}
	return false
}

// Fill returns the override color stored for row i.
func (c *Column) Fill(i int) string {
	if c == nil || i < 0 || i >= len(c.Objects) {
		return ""
	}
	return c.Objects[i].Fill
}

// Categorical is the categorical shape of a DataView.
type Categorical struct {
	Categories []*Column
	Values     []*Column
}

// ColumnByRole returns the first column bound to r, searching category columns
// before value columns. It returns nil if nothing is bound.
func (c Categorical) ColumnByRole(r Role) *Column {
	for _, col := range c.Categories {
		if col != nil && col.Source.Has(r) {
			return col
		}
	}
	for _, col := range c.Values {
		if col != nil && col.Source.Has(r) {
			return col
		}
	}
	return nil
}

// ColumnsByRole returns every column bound to r, value columns first.
func (c Categorical) ColumnsByRole(r Role) []*Column {
	var out []*Column
	for _, col := range c.Values {
		if col != nil && col.Source.Has(r) {
			out = append(out, col)
		}
	}
	for _, col := range c.Categories {
		if col != nil && col.Source.Has(r) {
			out = append(out, col)
		}
	}
	return out
}

// HighlightColumn returns the first value column carrying at least one
// highlight flag, or nil when highlight mode is off.
func (c Categorical) HighlightColumn() *Column {
	for _, col := range c.Values {
		if col.HasHighlights() {
			return col
		}
	}
	return nil
}

// Viewport is the drawing area in device-independent pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// DataView is one refresh worth of input.
type DataView struct {
	Categorical Categorical
	Viewport    Viewport
}

// toFloat coerces a loosely typed cell to a float, NaN when it has no numeric reading.
func toFloat(v any) float64 {
	switch t := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		return math.NaN()
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(t)), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
}

// toString renders a cell as text, "" for missing values.
func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
