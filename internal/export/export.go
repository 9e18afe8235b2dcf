// Package export writes a rendered frame in machine-readable formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
	"gopkg.in/yaml.v3"

	"routemap/internal/dataset"
	"routemap/internal/geom"
	"routemap/internal/render"
)

// Format is an output encoding.
type Format string

const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	GeoJSON Format = "geojson"
	WKT     Format = "wkt"
)

// Formats lists every supported format.
var Formats = []Format{JSON, YAML, GeoJSON, WKT}

// ParseFormat parses a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want json, yaml, geojson or wkt)", s)
}

// Options tune the output.
type Options struct {
	// Simplify, when positive, runs Douglas-Peucker over route paths with
	// this tolerance in degrees.
	Simplify float64
}

// Write encodes frame to w.
func Write(w io.Writer, frame render.Frame, format Format, opts Options) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(frame, opts))
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(frame, opts)); err != nil {
			return err
		}
		return enc.Close()
	case GeoJSON:
		data, err := FeatureCollection(frame, opts).MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case WKT:
		return writeWKT(w, frame, opts)
	}
	return fmt.Errorf("unknown format %q", format)
}

// Document is the JSON and YAML shape of a frame.
type Document struct {
	Rows          int        `json:"rows" yaml:"rows"`
	HighlightMode bool       `json:"highlightMode" yaml:"highlightMode"`
	Bounds        *Bounds    `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Legend        LegendDoc  `json:"legend" yaml:"legend"`
	Routes        []RouteDoc `json:"routes" yaml:"routes"`
}

// Bounds is a lon/lat box.
type Bounds struct {
	MinLng float64 `json:"minLng" yaml:"minLng"`
	MinLat float64 `json:"minLat" yaml:"minLat"`
	MaxLng float64 `json:"maxLng" yaml:"maxLng"`
	MaxLat float64 `json:"maxLat" yaml:"maxLat"`
}

type LegendDoc struct {
	Visible  bool       `json:"visible" yaml:"visible"`
	Title    string     `json:"title" yaml:"title"`
	Position string     `json:"position" yaml:"position"`
	FontSize float64    `json:"fontSize" yaml:"fontSize"`
	Entries  []EntryDoc `json:"entries" yaml:"entries"`
}

type EntryDoc struct {
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
}

type MarkerDoc struct {
	Lat         float64 `json:"lat" yaml:"lat"`
	Lng         float64 `json:"lng" yaml:"lng"`
	Radius      float64 `json:"radius" yaml:"radius"`
	Stroke      string  `json:"stroke" yaml:"stroke"`
	Fill        string  `json:"fill" yaml:"fill"`
	FillOpacity float64 `json:"fillOpacity" yaml:"fillOpacity"`
}

type FieldDoc struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// RouteDoc is one route with its line and markers.
type RouteDoc struct {
	Index       int          `json:"index" yaml:"index"`
	Key         string       `json:"key" yaml:"key"`
	Origin      string       `json:"origin" yaml:"origin"`
	Destination string       `json:"destination" yaml:"destination"`
	Category    string       `json:"category" yaml:"category"`
	Display     string       `json:"display" yaml:"display"`
	Color       string       `json:"color" yaml:"color"`
	Width       float64      `json:"width" yaml:"width"`
	Opacity     float64      `json:"opacity" yaml:"opacity"`
	Path        [][2]float64 `json:"path" yaml:"path,flow"`
	OriginMark  MarkerDoc    `json:"originMarker" yaml:"originMarker"`
	DestMark    MarkerDoc    `json:"destinationMarker" yaml:"destinationMarker"`
	Tooltip     []FieldDoc   `json:"tooltip" yaml:"tooltip"`
}

// NewDocument flattens frame into its document form.
func NewDocument(frame render.Frame, opts Options) Document {
	doc := Document{
		Rows:          frame.Rows,
		HighlightMode: frame.HighlightMode,
		Legend: LegendDoc{
			Visible:  frame.Legend.Visible,
			Title:    frame.Legend.Title,
			Position: frame.Legend.Position.String(),
			FontSize: frame.Legend.FontSize,
			Entries:  []EntryDoc{},
		},
		Routes: []RouteDoc{},
	}
	if frame.Fit() {
		doc.Bounds = &Bounds{
			MinLng: frame.Bounds.MinX(), MinLat: frame.Bounds.MinY(),
			MaxLng: frame.Bounds.MaxX(), MaxLat: frame.Bounds.MaxY(),
		}
	}
	for _, e := range frame.Legend.Entries {
		doc.Legend.Entries = append(doc.Legend.Entries, EntryDoc{Label: e.Label, Color: e.Color.Hex()})
	}
	for i, route := range frame.Routes {
		line, _ := frame.Find(render.KindLine, i)
		o, _ := frame.Find(render.KindOrigin, i)
		d, _ := frame.Find(render.KindDestination, i)
		rd := RouteDoc{
			Index:       route.Row,
			Key:         string(route.Key),
			Origin:      route.Origin,
			Destination: route.Destination,
			Category:    route.Category,
			Display:     line.Display.String(),
			Color:       line.Stroke.Hex(),
			Width:       line.Width,
			Opacity:     line.Opacity,
			OriginMark:  marker(o),
			DestMark:    marker(d),
			Tooltip:     fields(line.Tooltip()),
		}
		for _, p := range path(line, opts) {
			rd.Path = append(rd.Path, [2]float64{p[0], p[1]})
		}
		doc.Routes = append(doc.Routes, rd)
	}
	return doc
}

func marker(p render.Primitive) MarkerDoc {
	return MarkerDoc{
		Lat:         p.Center.Lat,
		Lng:         p.Center.Lng,
		Radius:      p.Radius,
		Stroke:      p.Stroke.Hex(),
		Fill:        p.Fill.Hex(),
		FillOpacity: p.FillOpacity,
	}
}

func fields(fs []dataset.Field) []FieldDoc {
	out := make([]FieldDoc, 0, len(fs))
	for _, f := range fs {
		out = append(out, FieldDoc{Name: f.Name, Value: f.Value})
	}
	return out
}

// path returns the line's path in lon/lat order, simplified if asked.
func path(line render.Primitive, opts Options) orb.LineString {
	ls := geom.LineString(line.Path)
	if opts.Simplify > 0 && len(ls) > 2 {
		ls = simplify.DouglasPeucker(opts.Simplify).LineString(ls.Clone())
	}
	return ls
}

// FeatureCollection converts frame to GeoJSON: a LineString per route
// followed by its two marker Points, with styling in the properties.
func FeatureCollection(frame render.Frame, opts Options) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range frame.Primitives {
		var f *geojson.Feature
		if p.Kind == render.KindLine {
			f = geojson.NewFeature(path(p, opts))
			f.Properties["stroke-width"] = p.Width
		} else {
			f = geojson.NewFeature(p.Center.Point())
			f.Properties["radius"] = p.Radius
			f.Properties["fill"] = p.Fill.Hex()
			f.Properties["fill-opacity"] = p.FillOpacity
			f.Properties["group"] = len(p.Group)
		}
		route := frame.Routes[p.Route]
		f.Properties["kind"] = p.Kind.String()
		f.Properties["key"] = string(p.Key)
		f.Properties["category"] = route.Category
		f.Properties["stroke"] = p.Stroke.Hex()
		f.Properties["stroke-opacity"] = p.Opacity
		f.Properties["display"] = p.Display.String()
		fc.Append(f)
	}
	return fc
}

func writeWKT(w io.Writer, frame render.Frame, opts Options) error {
	for _, p := range frame.Primitives {
		var g orb.Geometry = p.Center.Point()
		if p.Kind == render.KindLine {
			g = path(p, opts)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", p.Key, p.Kind, wkt.MarshalString(g)); err != nil {
			return err
		}
	}
	return nil
}
