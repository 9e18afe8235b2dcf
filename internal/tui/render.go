package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"routemap/internal/geom"
	"routemap/internal/render"
)

// hitSlop widens hit targets by this many micro-pixels.
const hitSlop = 2

// cellToLatLng converts a map cell coordinate back to a coordinate using bound, zoom, and pan.
func (m Model) cellToLatLng(cx, cy, w, h int) (geom.LatLng, bool) {
	if !hasArea(m.bound) || w <= 1 || h <= 1 {
		return geom.LatLng{}, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	return geom.LatLng{
		Lng: m.bound.Min[0] + nx*(m.bound.Max[0]-m.bound.Min[0]),
		Lat: m.bound.Min[1] + ny*(m.bound.Max[1]-m.bound.Min[1]),
	}, true
}

// project maps a coordinate into a 2x4 microgrid per cell for braille rendering.
func (m Model) project(p geom.LatLng, w, h int) (int, int, bool) {
	if !hasArea(m.bound) {
		return 0, 0, false
	}
	nx := (p.Lng - m.bound.Min[0]) / (m.bound.Max[0] - m.bound.Min[0])
	ny := (p.Lat - m.bound.Min[1]) / (m.bound.Max[1] - m.bound.Min[1])
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(math.Round(zx*float64(w*2-1))) + m.offsetX*2
	sy := int(math.Round((1.0-zy)*float64(h*4-1))) + m.offsetY*4
	return sx, sy, true
}

// projected is a primitive mapped onto the microgrid.
type projected struct {
	prim render.Primitive
	pts  [][2]int
	size int
}

// lineSize maps a stroke width in pixels to a pen size in micro-pixels.
func lineSize(width float64) int { return max(1, int(math.Round(width/3))) }

// markerSize maps a marker radius in pixels to micro-pixels.
func markerSize(radius float64) int { return max(1, int(math.Round(radius/2))) }

// projectFrame projects every primitive of the current frame in draw order.
func (m Model) projectFrame(w, h int) []projected {
	out := make([]projected, 0, len(m.frame.Primitives))
	for _, p := range m.frame.Primitives {
		pr := projected{prim: p}
		if p.Kind == render.KindLine {
			pr.size = lineSize(p.Width)
			for _, ll := range p.Path {
				if x, y, ok := m.project(ll, w, h); ok {
					pr.pts = append(pr.pts, [2]int{x, y})
				}
			}
		} else {
			pr.size = markerSize(p.Radius)
			if x, y, ok := m.project(p.Center, w, h); ok {
				pr.pts = [][2]int{{x, y}}
			}
		}
		if len(pr.pts) > 0 {
			out = append(out, pr)
		}
	}
	return out
}

// background is the color dimmed routes fade toward.
func (m Model) background() colorful.Color {
	hc := m.settings.Palette.HighContrast
	if hc.Enabled {
		if c, err := colorful.Hex(hc.Background); err == nil {
			return c
		}
	}
	c, _ := colorful.Hex(string(subtleBg))
	return c
}

func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)
	bg := m.background()
	for _, pr := range m.projectFrame(w, h) {
		col := fade(pr.prim.Stroke, bg, pr.prim.Opacity)
		if pr.prim.Kind != render.KindLine {
			drawMarker(br, pr, bg, col)
			continue
		}
		if len(pr.pts) == 1 {
			br.stamp(pr.pts[0][0], pr.pts[0][1], pr.size, col)
		}
		for i := 1; i < len(pr.pts); i++ {
			a, b := pr.pts[i-1], pr.pts[i]
			br.drawLineMicro(a[0], a[1], b[0], b[1], pr.size, col)
		}
	}
	return strings.Join(br.toLines(), "\n")
}

// drawMarker fills the disc and draws its rim in the stroke color. A fill
// that matches the background leaves the marker hollow.
func drawMarker(br *brailleBuf, pr projected, bg colorful.Color, rim string) {
	x, y := pr.pts[0][0], pr.pts[0][1]
	if fill := fade(pr.prim.Fill, bg, pr.prim.FillOpacity); fill != bg.Clamped().Hex() {
		br.drawDisc(x, y, pr.size, fill)
	}
	br.drawRing(x, y, pr.size, rim)
}

// hitTest returns the topmost primitive under map cell (cx, cy). Later
// primitives are drawn over earlier ones, so they are tested first.
func (m Model) hitTest(cx, cy, w, h int) (render.Primitive, bool) {
	px, py := cx*2+1, cy*4+2
	prs := m.projectFrame(w, h)
	for i := len(prs) - 1; i >= 0; i-- {
		pr := prs[i]
		tol := float64(pr.size + hitSlop)
		if pr.prim.Kind != render.KindLine || len(pr.pts) == 1 {
			if segmentDist2(px, py, pr.pts[0], pr.pts[0]) <= tol*tol {
				return pr.prim, true
			}
			continue
		}
		for j := 1; j < len(pr.pts); j++ {
			if segmentDist2(px, py, pr.pts[j-1], pr.pts[j]) <= tol*tol {
				return pr.prim, true
			}
		}
	}
	return render.Primitive{}, false
}

func (m Model) renderLegend(w, h int) string {
	l := m.frame.Legend
	var parts []string
	if l.Title != "" {
		parts = append(parts, titleStyle.Render(truncate(l.Title, w)))
	}
	for _, e := range l.Entries {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color.Clamped().Hex())).Render("●")
		parts = append(parts, swatch+" "+truncate(e.Label, w-2))
	}
	sep := "  "
	if l.Position.Vertical() {
		sep = "\n"
	}
	return lipgloss.NewStyle().Width(w).Height(h).MaxWidth(w).MaxHeight(h).Render(strings.Join(parts, sep))
}
