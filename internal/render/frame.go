package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"routemap/internal/dataset"
	"routemap/internal/geom"
	"routemap/internal/legend"
	"routemap/internal/selection"
)

// Kind is the type of a drawn primitive.
type Kind int

const (
	KindLine Kind = iota
	KindOrigin
	KindDestination
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindOrigin:
		return "origin"
	case KindDestination:
		return "destination"
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{KindLine, KindOrigin, KindDestination} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// markerWeight is the stroke width of endpoint markers.
const markerWeight = 2

// Primitive is one draw request: a route path or an endpoint marker.
type Primitive struct {
	Kind Kind
	// Route is the index into Frame.Routes.
	Route int
	Key   dataset.Key

	// Path is set for lines.
	Path []geom.LatLng
	// Center and Radius are set for markers.
	Center geom.LatLng
	Radius float64

	Stroke      colorful.Color
	Fill        colorful.Color
	Width       float64
	Opacity     float64
	FillOpacity float64
	Display     selection.Display

	// Group lists the routes sharing a marker's location.
	Group []dataset.Key

	tooltip func() []dataset.Field
}

// Tooltip produces the hover fields. It is evaluated on demand.
func (p Primitive) Tooltip() []dataset.Field {
	if p.tooltip == nil {
		return nil
	}
	return p.tooltip()
}

// Selector returns the key that correlates a tooltip with its route.
func (p Primitive) Selector() dataset.Key { return p.Key }

// Click returns the selection request for a click on p.
func (p Primitive) Click(s *selection.State, additive bool) selection.Request {
	if p.Kind == KindLine {
		return selection.ClickRoute(p.Key, additive)
	}
	return selection.ClickMarker(s, p.Group, additive)
}

// Frame is the full output of one render pass.
type Frame struct {
	// Rows is the number of input rows before filtering.
	Rows   int
	Routes []dataset.Route
	// Primitives are in draw order: for each route its line, origin marker
	// and destination marker.
	Primitives    []Primitive
	Bounds        geom.BBox
	Legend        legend.Legend
	HighlightMode bool
}

// Fit reports whether the view should be fitted to Bounds.
func (f Frame) Fit() bool { return !f.Bounds.IsEmpty() }

// Lines returns the line primitives in route order.
func (f Frame) Lines() []Primitive {
	out := make([]Primitive, 0, len(f.Routes))
	for _, p := range f.Primitives {
		if p.Kind == KindLine {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the primitive of the given kind drawn for route i.
func (f Frame) Find(kind Kind, route int) (Primitive, bool) {
	i := route*3 + int(kind)
	if route < 0 || i >= len(f.Primitives) {
		return Primitive{}, false
	}
	p := f.Primitives[i]
	return p, p.Kind == kind && p.Route == route
}

// Known reports whether k belongs to a route in the frame.
func (f Frame) Known(k dataset.Key) bool {
	for _, r := range f.Routes {
		if r.Key == k {
			return true
		}
	}
	return false
}
