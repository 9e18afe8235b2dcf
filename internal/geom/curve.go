package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// CurveSteps is the number of segments in a curved path; Curve returns CurveSteps+1 points.
	CurveSteps = 100

	// curveElevation is the control point offset as a fraction of the chord length.
	curveElevation = 0.15
)

// Curve approximates a decorative arc from p0 to p1 as a quadratic Bezier.
// The control point sits north of the chord midpoint by 0.15 times the chord
// length measured in raw degrees, so the arc is not a geodesic.
func Curve(p0, p1 LatLng) []LatLng {
	mid := LatLng{Lat: (p0.Lat + p1.Lat) / 2, Lng: (p0.Lng + p1.Lng) / 2}
	dist := planar.Distance(p0.Point(), p1.Point())
	ctrl := LatLng{Lat: mid.Lat + dist*curveElevation, Lng: mid.Lng}

	out := make([]LatLng, 0, CurveSteps+1)
	for i := 0; i <= CurveSteps; i++ {
		t := float64(i) / CurveSteps
		a := (1 - t) * (1 - t)
		b := 2 * (1 - t) * t
		c := t * t
		out = append(out, LatLng{
			Lat: a*p0.Lat + b*ctrl.Lat + c*p1.Lat,
			Lng: a*p0.Lng + b*ctrl.Lng + c*p1.Lng,
		})
	}
	// pin the endpoints exactly; the blend above can be off by one ulp
	out[0], out[CurveSteps] = p0, p1
	return out
}

// Straight returns the direct segment from p0 to p1.
func Straight(p0, p1 LatLng) []LatLng {
	return []LatLng{p0, p1}
}

// LineString converts a path to an orb line string.
func LineString(path []LatLng) orb.LineString {
	ls := make(orb.LineString, len(path))
	for i, p := range path {
		ls[i] = p.Point()
	}
	return ls
}
