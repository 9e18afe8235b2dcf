// Package palette assigns colors to legend categories.
package palette

import (
	"fmt"
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColors is the built-in categorical palette.
var DefaultColors = []string{
	"#118DFF", "#12239E", "#E66C37", "#6B007B",
	"#E044A7", "#744EC2", "#D9B300", "#D64550",
	"#197278", "#1AAB40", "#15C6F4", "#4092FF",
}

// goldenAngle spreads generated hues once the base colors run out.
const goldenAngle = 137.50776405

// Palette hands out one color per key and remembers it for its lifetime.
// Assignment is append-only: introducing a key never changes an earlier one.
type Palette struct {
	mu       sync.Mutex
	base     []colorful.Color
	assigned map[string]colorful.Color
	order    []string
}

// New builds a palette from hex colors; an empty list uses DefaultColors.
func New(hexes []string) (*Palette, error) {
	if len(hexes) == 0 {
		hexes = DefaultColors
	}
	p := &Palette{assigned: map[string]colorful.Color{}}
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette color %q: %w", h, err)
		}
		p.base = append(p.base, c)
	}
	return p, nil
}

// MustNew is New for known-good input.
func MustNew(hexes []string) *Palette {
	p, err := New(hexes)
	if err != nil {
		panic(err)
	}
	return p
}

// Color returns the color assigned to key, assigning the next free one on first use.
func (p *Palette) Color(key string) colorful.Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.assigned[key]; ok {
		return c
	}
	n := len(p.order)
	var c colorful.Color
	if n < len(p.base) {
		c = p.base[n]
	} else {
		c = generated(n - len(p.base))
	}
	p.assigned[key] = c
	p.order = append(p.order, key)
	return c
}

// Keys returns every key assigned so far, in assignment order.
func (p *Palette) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.order...)
}

func generated(i int) colorful.Color {
	hue := math.Mod(float64(i)*goldenAngle+15, 360)
	return colorful.Hcl(hue, 0.6, 0.6).Clamped()
}

// HighContrast is the accessibility color scheme.
type HighContrast struct {
	Enabled            bool
	Foreground         colorful.Color
	Background         colorful.Color
	ForegroundSelected colorful.Color
}

// ParseHighContrast builds a HighContrast from hex colors.
func ParseHighContrast(enabled bool, fg, bg, sel string) (HighContrast, error) {
	hc := HighContrast{Enabled: enabled}
	var err error
	if hc.Foreground, err = colorful.Hex(fg); err != nil {
		return hc, fmt.Errorf("high contrast foreground %q: %w", fg, err)
	}
	if hc.Background, err = colorful.Hex(bg); err != nil {
		return hc, fmt.Errorf("high contrast background %q: %w", bg, err)
	}
	if hc.ForegroundSelected, err = colorful.Hex(sel); err != nil {
		return hc, fmt.Errorf("high contrast selected foreground %q: %w", sel, err)
	}
	return hc, nil
}

// Overrides looks up a user-assigned color by category.
type Overrides interface {
	Override(category string) (string, bool)
}

// Encoder resolves category colors for one frame.
type Encoder struct {
	Palette   *Palette
	Contrast  HighContrast
	Overrides Overrides
	// Default colors every route when Grouped is false.
	Default colorful.Color
	// Grouped is true when a legend column is bound.
	Grouped bool
}

// ColorOf resolves the color of category: high contrast foreground, then a
// user override, then the default color for ungrouped data, then the palette.
func (e Encoder) ColorOf(category string) colorful.Color {
	if e.Contrast.Enabled {
		return e.Contrast.Foreground
	}
	if e.Overrides != nil {
		if hex, ok := e.Overrides.Override(category); ok {
			if c, err := colorful.Hex(hex); err == nil {
				return c
			}
		}
	}
	if !e.Grouped {
		return e.Default
	}
	return e.Palette.Color(category)
}
