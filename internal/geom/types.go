package geom

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Point returns p as an orb point (x = longitude, y = latitude).
func (p LatLng) Point() orb.Point { return orb.Point{p.Lng, p.Lat} }

// ValidLat reports whether lat is a usable latitude.
func ValidLat(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

// ValidLng reports whether lng is a usable longitude.
func ValidLng(lng float64) bool {
	return !math.IsNaN(lng) && lng >= -180 && lng <= 180
}

// Valid reports whether both components of the pair are usable.
func Valid(lat, lng float64) bool { return ValidLat(lat) && ValidLng(lng) }

// Valid reports whether p is a usable coordinate.
func (p LatLng) Valid() bool { return Valid(p.Lat, p.Lng) }

// LocationKey groups endpoints by exact coordinate text, so 10 and 10.000001
// land in different groups.
func LocationKey(p LatLng) string {
	return strconv.FormatFloat(p.Lat, 'g', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'g', -1, 64)
}

// BBox accumulates the extent of every coordinate passed to Extend.
type BBox struct {
	Bound  orb.Bound
	points int
}

// Extend grows the box to include p.
func (b *BBox) Extend(p LatLng) {
	if b.points == 0 {
		b.Bound = p.Point().Bound()
	} else {
		b.Bound = b.Bound.Extend(p.Point())
	}
	b.points++
}

// IsEmpty reports whether no coordinate has been added yet.
func (b BBox) IsEmpty() bool { return b.points == 0 }

// MinX, MinY, MaxX and MaxY expose the box in lon/lat order for screen projection.
func (b BBox) MinX() float64 { return b.Bound.Min[0] }
func (b BBox) MinY() float64 { return b.Bound.Min[1] }
func (b BBox) MaxX() float64 { return b.Bound.Max[0] }
func (b BBox) MaxY() float64 { return b.Bound.Max[1] }

// Padded returns the bound grown by frac of its size on every side. Degenerate
// axes (a single point, or a route along one meridian) grow by at least minPad
// degrees so the result always has a positive area.
func (b BBox) Padded(frac, minPad float64) orb.Bound {
	out := b.Bound
	dx := math.Max((out.Max[0]-out.Min[0])*frac, minPad)
	dy := math.Max((out.Max[1]-out.Min[1])*frac, minPad)
	out.Min = orb.Point{out.Min[0] - dx, out.Min[1] - dy}
	out.Max = orb.Point{out.Max[0] + dx, out.Max[1] + dy}
	return out
}
