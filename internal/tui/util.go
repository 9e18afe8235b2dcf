package tui

import (
	"math"

	"github.com/paulmach/orb"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// segmentDist2 is the squared distance from (px, py) to the segment a-b in micro-pixels.
func segmentDist2(px, py int, a, b [2]int) float64 {
	ax, ay := float64(a[0]), float64(a[1])
	bx, by := float64(b[0]), float64(b[1])
	x, y := float64(px), float64(py)
	dx, dy := bx-ax, by-ay
	t := 0.0
	if l := dx*dx + dy*dy; l > 0 {
		t = math.Max(0, math.Min(1, ((x-ax)*dx+(y-ay)*dy)/l))
	}
	ex, ey := ax+t*dx-x, ay+t*dy-y
	return ex*ex + ey*ey
}

// hasArea reports whether b can be projected.
func hasArea(b orb.Bound) bool {
	return b.Max[0] > b.Min[0] && b.Max[1] > b.Min[1]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
