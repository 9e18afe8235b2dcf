// Package scale aggregates endpoints and maps counts and magnitudes to
// marker radii and line widths.
package scale

import (
	"math"

	"routemap/internal/dataset"
	"routemap/internal/geom"
)

const (
	// radiusSpread is maxR / minR.
	radiusSpread = 2.5
	// widthSpread is maxWidth / minWidth.
	widthSpread = 3.0
	// rangeFloor keeps the magnitude range away from zero.
	rangeFloor = 1e-6
)

// Counts holds per-location endpoint counts for one frame.
type Counts struct {
	Origin    map[string]int
	Dest      map[string]int
	MaxOrigin int
	MaxDest   int
	// Groups lists, per location, every route touching it at either end, in route order.
	Groups map[string][]dataset.Key
}

// Aggregate counts origins and destinations by LocationKey.
func Aggregate(routes []dataset.Route) Counts {
	c := Counts{
		Origin: map[string]int{},
		Dest:   map[string]int{},
		Groups: map[string][]dataset.Key{},
	}
	for _, r := range routes {
		ok := geom.LocationKey(r.OriginPoint())
		dk := geom.LocationKey(r.DestPoint())
		c.Origin[ok]++
		c.Dest[dk]++
		c.MaxOrigin = max(c.MaxOrigin, c.Origin[ok])
		c.MaxDest = max(c.MaxDest, c.Dest[dk])
		c.Groups[ok] = append(c.Groups[ok], r.Key)
		if dk != ok {
			c.Groups[dk] = append(c.Groups[dk], r.Key)
		}
	}
	return c
}

// OriginRadius returns the marker radius of r's origin.
func (c Counts) OriginRadius(r dataset.Route, bubbleSize float64) float64 {
	return Radius(c.Origin[geom.LocationKey(r.OriginPoint())], c.MaxOrigin, bubbleSize)
}

// DestRadius returns the marker radius of r's destination.
func (c Counts) DestRadius(r dataset.Route, bubbleSize float64) float64 {
	return Radius(c.Dest[geom.LocationKey(r.DestPoint())], c.MaxDest, bubbleSize)
}

// Group returns the keys of every route touching p.
func (c Counts) Group(p geom.LatLng) []dataset.Key {
	return c.Groups[geom.LocationKey(p)]
}

// Radius maps count to [bubbleSize, 2.5*bubbleSize] with square-root easing,
// so marker area grows roughly linearly with count.
func Radius(count, maxCount int, bubbleSize float64) float64 {
	minR := bubbleSize
	maxR := bubbleSize * radiusSpread
	if maxCount <= 0 || count <= 0 {
		return minR
	}
	frac := math.Min(float64(count)/float64(maxCount), 1)
	return minR + math.Sqrt(frac)*(maxR-minR)
}

// WidthScale maps magnitudes to line widths.
type WidthScale struct {
	base     float64
	min, max float64
	valid    bool
}

// NewWidthScale fits the scale to every non-NaN magnitude. base is the
// configured line width and doubles as the minimum width.
func NewWidthScale(magnitudes []float64, base float64) WidthScale {
	s := WidthScale{base: base, min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range magnitudes {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		s.valid = true
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	return s
}

// Magnitudes collects the magnitude of every route.
func Magnitudes(routes []dataset.Route) []float64 {
	out := make([]float64, len(routes))
	for i, r := range routes {
		out[i] = r.Magnitude
	}
	return out
}

// Valid reports whether at least one magnitude was usable.
func (s WidthScale) Valid() bool { return s.valid }

// Width returns the stroke width for v. Without any usable magnitude every
// route gets the base width; a NaN magnitude among valid ones gets the minimum.
func (s WidthScale) Width(v float64) float64 {
	if !s.valid {
		return s.base
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s.base
	}
	minW, maxW := s.base, s.base*widthSpread
	norm := (v - s.min) / math.Max(s.max-s.min, rangeFloor)
	norm = math.Max(0, math.Min(norm, 1))
	return minW + math.Sqrt(norm)*(maxW-minW)
}
