package dataset

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrNoRoutes is returned for GeoJSON input without any line feature.
var ErrNoRoutes = errors.New("geojson: no line features")

// LoadGeoJSON reads a GeoJSON file into a DataView.
func LoadGeoJSON(path string, b Binding) (DataView, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DataView{}, err
	}
	return ReadGeoJSON(data, b)
}

// ReadGeoJSON turns every LineString feature into a row: the first vertex is
// the origin and the last the destination. Feature properties become columns
// named by their keys, so the binding's label and value names refer to
// properties. MultiLineStrings use their first line; other geometries are skipped.
func ReadGeoJSON(data []byte, b Binding) (DataView, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return DataView{}, fmt.Errorf("parsing geojson: %w", err)
	}

	coords := []string{
		or(b.OriginLat, "origin_lat"), or(b.OriginLng, "origin_lng"),
		or(b.DestLat, "dest_lat"), or(b.DestLng, "dest_lng"),
	}
	b.OriginLat, b.OriginLng, b.DestLat, b.DestLng = coords[0], coords[1], coords[2], coords[3]

	var props []string
	seen := map[string]bool{}
	for _, name := range coords {
		seen[strings.ToLower(name)] = true
	}
	for _, f := range fc.Features {
		for k := range f.Properties {
			if !seen[strings.ToLower(k)] {
				seen[strings.ToLower(k)] = true
				props = append(props, k)
			}
		}
	}
	slices.Sort(props)
	header := append(slices.Clone(coords), props...)

	var rows [][]string
	for _, f := range fc.Features {
		ls, ok := lineOf(f.Geometry)
		if !ok {
			continue
		}
		o, d := ls[0], ls[len(ls)-1]
		row := []string{ftoa(o.Lat()), ftoa(o.Lon()), ftoa(d.Lat()), ftoa(d.Lon())}
		for _, k := range props {
			row = append(row, propString(f.Properties[k]))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return DataView{}, ErrNoRoutes
	}
	return fromTable(header, rows, b), nil
}

func lineOf(g orb.Geometry) (orb.LineString, bool) {
	switch t := g.(type) {
	case orb.LineString:
		return t, len(t) >= 2
	case orb.MultiLineString:
		if len(t) > 0 && len(t[0]) >= 2 {
			return t[0], true
		}
	}
	return nil, false
}

func or(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func propString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return ftoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
