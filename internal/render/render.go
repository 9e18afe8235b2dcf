// Package render turns one data refresh into a frame of draw requests.
//
// Render is a pure function of its inputs plus the renderer's palette, which
// remembers category colors for the lifetime of the Renderer. Every call
// rebuilds the frame from scratch; the caller keeps the previous frame until
// a new one is returned without error.
package render

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"routemap/internal/config"
	"routemap/internal/dataset"
	"routemap/internal/geom"
	"routemap/internal/legend"
	"routemap/internal/palette"
	"routemap/internal/scale"
	"routemap/internal/selection"
)

// Update is one data refresh.
type Update struct {
	View     dataset.DataView
	Settings config.Settings
}

// Renderer computes frames.
type Renderer struct {
	palette *palette.Palette
	events  Events
	logger  *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEvents sets the lifecycle listener.
func WithEvents(e Events) Option { return func(r *Renderer) { r.events = e } }

// WithLogger sets the logger and, unless WithEvents is also given, logs lifecycle events to it.
func WithLogger(l *log.Logger) Option { return func(r *Renderer) { r.logger = l } }

// WithPalette replaces the palette built from settings.
func WithPalette(p *palette.Palette) Option { return func(r *Renderer) { r.palette = p } }

// NewRenderer builds a renderer whose palette comes from s.
func NewRenderer(s config.Settings, opts ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, o := range opts {
		o(r)
	}
	if r.palette == nil {
		p, err := palette.New(s.Palette.Colors)
		if err != nil {
			return nil, err
		}
		r.palette = p
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.events == nil {
		r.events = LogEvents{Logger: r.logger}
	}
	return r, nil
}

// Palette returns the renderer's category palette.
func (r *Renderer) Palette() *palette.Palette { return r.palette }

// Render computes the frame for u under selection state sel. It never panics.
func (r *Renderer) Render(u Update, sel *selection.State) (f Frame, err error) {
	r.events.RenderingStarted(u)
	defer func() {
		if v := recover(); v != nil {
			rerr := &Error{Panic: v}
			if e, ok := v.(error); ok {
				rerr.Err = e
			}
			f, err = Frame{}, rerr
		}
		if err != nil {
			r.events.RenderingFailed(u, err)
			return
		}
		r.events.RenderingFinished(u, f)
	}()

	f, err = r.render(u, sel)
	if err != nil {
		var rerr *Error
		if !errors.As(err, &rerr) {
			err = &Error{Err: err}
		}
	}
	return f, err
}

func (r *Renderer) render(u Update, sel *selection.State) (Frame, error) {
	s := u.Settings
	enc, err := r.encoder(u)
	if err != nil {
		return Frame{}, err
	}

	cols := dataset.Resolve(u.View.Categorical)
	routes := cols.Records()
	f := Frame{
		Rows:          cols.Rows(),
		Routes:        routes,
		HighlightMode: cols.HighlightActive(),
		Primitives:    make([]Primitive, 0, 3*len(routes)),
	}

	counts := scale.Aggregate(routes)
	widths := scale.NewWidthScale(scale.Magnitudes(routes), s.Route.LineWidth)
	contrast := enc.Contrast
	tips := cols.Tooltips

	for i, route := range routes {
		display := selection.Evaluate(sel, route.Key, f.HighlightMode, cols.Highlighted(route.Row))
		color := enc.ColorOf(route.Category)

		stroke, fill := color, color
		opacity := display.Opacity()
		fillOpacity := opacity
		if contrast.Enabled {
			stroke, fill = contrast.Foreground, contrast.Background
			if display.Shown() {
				stroke, fill = contrast.ForegroundSelected, contrast.ForegroundSelected
			}
			opacity, fillOpacity = 1, 1
		}

		p0, p1 := route.OriginPoint(), route.DestPoint()
		path := geom.Curve(p0, p1)
		if s.Route.UseStraightLines {
			path = geom.Straight(p0, p1)
		}

		line := Primitive{
			Kind:        KindLine,
			Route:       i,
			Key:         route.Key,
			Path:        path,
			Stroke:      stroke,
			Fill:        stroke,
			Width:       widths.Width(route.Magnitude),
			Opacity:     opacity,
			FillOpacity: opacity,
			Display:     display,
			tooltip:     lineTooltip(cols, tips, route),
		}
		origin := Primitive{
			Kind:        KindOrigin,
			Route:       i,
			Key:         route.Key,
			Center:      p0,
			Radius:      counts.OriginRadius(route, s.Route.BubbleSize),
			Stroke:      stroke,
			Fill:        fill,
			Width:       markerWeight,
			Opacity:     opacity,
			FillOpacity: fillOpacity,
			Display:     display,
			Group:       counts.Group(p0),
			tooltip:     endpointTooltip(cols, tips, route, "Origin", route.Origin, p0),
		}
		dest := origin
		dest.Kind = KindDestination
		dest.Center = p1
		dest.Radius = counts.DestRadius(route, s.Route.BubbleSize)
		dest.Group = counts.Group(p1)
		dest.tooltip = endpointTooltip(cols, tips, route, "Destination", route.Destination, p1)

		f.Primitives = append(f.Primitives, line, origin, dest)
		f.Bounds.Extend(p0)
		f.Bounds.Extend(p1)
	}

	categories := make([]string, len(routes))
	for i, route := range routes {
		categories[i] = route.Category
	}
	f.Legend = legend.Build(categories, cols.Legend != nil, cols.LegendName(), s.LegendOptions(), enc.ColorOf)
	return f, nil
}

func (r *Renderer) encoder(u Update) (palette.Encoder, error) {
	hc, err := u.Settings.HighContrast()
	if err != nil {
		return palette.Encoder{}, err
	}
	cols := dataset.Resolve(u.View.Categorical)
	return palette.Encoder{
		Palette:   r.palette,
		Contrast:  hc,
		Overrides: cols,
		Default:   u.Settings.LineColor(),
		Grouped:   cols.Legend != nil,
	}, nil
}

func lineTooltip(cols dataset.Columns, tips []*dataset.Column, route dataset.Route) func() []dataset.Field {
	return func() []dataset.Field {
		if len(tips) > 0 {
			return cols.TooltipFields(route.Row)
		}
		return []dataset.Field{
			{Name: "Origin", Value: labelOr(route.Origin, route.OriginPoint())},
			{Name: "Destination", Value: labelOr(route.Destination, route.DestPoint())},
		}
	}
}

func endpointTooltip(cols dataset.Columns, tips []*dataset.Column, route dataset.Route, name, label string, p geom.LatLng) func() []dataset.Field {
	return func() []dataset.Field {
		if len(tips) > 0 {
			return cols.TooltipFields(route.Row)
		}
		return []dataset.Field{{Name: name, Value: labelOr(label, p)}}
	}
}

func labelOr(label string, p geom.LatLng) string {
	if label != "" {
		return label
	}
	return strconv.FormatFloat(p.Lat, 'g', -1, 64) + ", " + strconv.FormatFloat(p.Lng, 'g', -1, 64)
}

// DataPoint is one entry of the per-category color list.
type DataPoint struct {
	Category string
	Color    colorful.Color
}

// DataPointColors lists one color per distinct value of the override column,
// in order of first appearance. Unless dataPoint.showAll is set, only
// categories of routes that survive filtering are listed.
func (r *Renderer) DataPointColors(u Update) ([]DataPoint, error) {
	enc, err := r.encoder(u)
	if err != nil {
		return nil, err
	}
	cols := dataset.Resolve(u.View.Categorical)
	var present map[string]bool
	if !u.Settings.DataPoint.ShowAll {
		present = map[string]bool{}
		for _, route := range cols.Records() {
			present[cols.OverrideValue(route.Row)] = true
		}
	}
	var out []DataPoint
	for _, c := range cols.OverrideCategories() {
		if present != nil && !present[c] {
			continue
		}
		out = append(out, DataPoint{Category: c, Color: enc.ColorOf(c)})
	}
	return out, nil
}
