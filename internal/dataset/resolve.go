package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"routemap/internal/geom"
)

// Key identifies a row for selection purposes.
type Key string

// KeyFor returns the selection key of row i.
func KeyFor(row int) Key { return Key("row/" + strconv.Itoa(row)) }

// ParseKey is the inverse of KeyFor.
func ParseKey(s string) (Key, error) {
	rest, ok := strings.CutPrefix(s, "row/")
	if !ok {
		return "", fmt.Errorf("selection key %q: missing row/ prefix", s)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return "", fmt.Errorf("selection key %q: bad row index", s)
	}
	return KeyFor(n), nil
}

// Route is one row of input.
type Route struct {
	Row         int
	Origin      string
	Destination string
	OriginLat   float64
	OriginLng   float64
	DestLat     float64
	DestLng     float64
	// Magnitude drives line width; NaN when absent.
	Magnitude float64
	// Category is the legend grouping key.
	Category string
	Key      Key
}

// OriginPoint returns the origin coordinate.
func (r Route) OriginPoint() geom.LatLng { return geom.LatLng{Lat: r.OriginLat, Lng: r.OriginLng} }

// DestPoint returns the destination coordinate.
func (r Route) DestPoint() geom.LatLng { return geom.LatLng{Lat: r.DestLat, Lng: r.DestLng} }

// Valid reports whether both endpoints are usable coordinates.
func (r Route) Valid() bool { return r.OriginPoint().Valid() && r.DestPoint().Valid() }

// Field is one tooltip line.
type Field struct {
	Name  string
	Value string
}

// Columns is the typed binding of roles to columns for one refresh.
// Any handle may be nil.
type Columns struct {
	Origin      *Column
	OriginLat   *Column
	OriginLng   *Column
	Destination *Column
	DestLat     *Column
	DestLng     *Column
	Legend      *Column
	Magnitude   *Column
	Tooltips    []*Column
	// Highlight is the first value column with host highlights; nil when highlight mode is off.
	Highlight *Column
	// Overrides stores per-row fill colors: the legend column, else the first category column.
	Overrides *Column
}

// Resolve binds every role of c.
func Resolve(c Categorical) Columns {
	cols := Columns{
		Origin:      c.ColumnByRole(RoleOrigin),
		OriginLat:   c.ColumnByRole(RoleOriginLat),
		OriginLng:   c.ColumnByRole(RoleOriginLng),
		Destination: c.ColumnByRole(RoleDestination),
		DestLat:     c.ColumnByRole(RoleDestLat),
		DestLng:     c.ColumnByRole(RoleDestLng),
		Legend:      c.ColumnByRole(RoleLegend),
		Magnitude:   c.ColumnByRole(RoleMagnitude),
		Tooltips:    c.ColumnsByRole(RoleTooltips),
		Highlight:   c.HighlightColumn(),
	}
	cols.Overrides = cols.Legend
	if cols.Overrides == nil && len(c.Categories) > 0 {
		cols.Overrides = c.Categories[0]
	}
	return cols
}

// Rows returns the number of input rows, driven by the origin latitude column.
func (c Columns) Rows() int { return c.OriginLat.Len() }

// Record builds the route of row i without validating it.
func (c Columns) Record(i int) Route {
	return Route{
		Row:         i,
		Origin:      toString(c.Origin.Value(i)),
		Destination: toString(c.Destination.Value(i)),
		OriginLat:   toFloat(c.OriginLat.Value(i)),
		OriginLng:   toFloat(c.OriginLng.Value(i)),
		DestLat:     toFloat(c.DestLat.Value(i)),
		DestLng:     toFloat(c.DestLng.Value(i)),
		Magnitude:   toFloat(c.Magnitude.Value(i)),
		Category:    toString(c.Legend.Value(i)),
		Key:         KeyFor(i),
	}
}

// Records returns one route per row, keeping only rows whose endpoints are
// both valid. Order follows the input.
func (c Columns) Records() []Route {
	n := c.Rows()
	out := make([]Route, 0, n)
	for i := 0; i < n; i++ {
		r := c.Record(i)
		if !r.Valid() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// HighlightActive reports whether the host is highlighting any row.
func (c Columns) HighlightActive() bool { return c.Highlight != nil }

// Highlighted reports whether row i is highlighted by the host.
func (c Columns) Highlighted(row int) bool { return c.Highlight.Highlighted(row) }

// Override returns the user-assigned color of the first row whose override
// column value equals category.
func (c Columns) Override(category string) (string, bool) {
	col := c.Overrides
	for i := 0; i < col.Len(); i++ {
		if toString(col.Value(i)) != category {
			continue
		}
		fill := col.Fill(i)
		return fill, fill != ""
	}
	return "", false
}

// OverrideValue returns the override column's label at row.
func (c Columns) OverrideValue(row int) string { return toString(c.Overrides.Value(row)) }

// OverrideCategories returns the distinct values of the override column in
// order of first appearance.
func (c Columns) OverrideCategories() []string {
	col := c.Overrides
	seen := map[string]bool{}
	var out []string
	for i := 0; i < col.Len(); i++ {
		v := toString(col.Value(i))
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// TooltipFields returns the bound tooltip columns' values for row i.
func (c Columns) TooltipFields(row int) []Field {
	out := make([]Field, 0, len(c.Tooltips))
	for _, col := range c.Tooltips {
		out = append(out, Field{Name: col.Source.DisplayName, Value: toString(col.Value(row))})
	}
	return out
}

// LegendName returns the display name of the legend column, "" when unbound.
func (c Columns) LegendName() string {
	if c.Legend == nil {
		return ""
	}
	return c.Legend.Source.DisplayName
}
