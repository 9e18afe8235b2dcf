package palette

import (
	"fmt"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedOverrides map[string]string

func (f fixedOverrides) Override(c string) (string, bool) {
	v, ok := f[c]
	return v, ok
}

func TestPaletteStable(t *testing.T) {
	p := MustNew(nil)
	x := p.Color("X")
	for i := 0; i < 40; i++ {
		p.Color(fmt.Sprintf("cat-%d", i))
	}
	assert.Equal(t, x, p.Color("X"), "earlier assignments survive new categories")
	assert.Equal(t, "#118dff", x.Hex())
	assert.Equal(t, "X", p.Keys()[0])
	assert.Len(t, p.Keys(), 41)
}

func TestPaletteOrderIndependentPerSession(t *testing.T) {
	p := MustNew(nil)
	a := p.Color("A")
	b := p.Color("B")
	assert.NotEqual(t, a, b)
	assert.Equal(t, b, p.Color("B"))
	assert.Equal(t, a, p.Color("A"))
}

func TestPaletteExtends(t *testing.T) {
	p := MustNew([]string{"#000000"})
	first := p.Color("a")
	second := p.Color("b")
	third := p.Color("c")
	assert.Equal(t, "#000000", first.Hex())
	assert.True(t, second.IsValid())
	assert.NotEqual(t, second, third)
}

func TestNewRejectsBadHex(t *testing.T) {
	_, err := New([]string{"#118DFF", "blue"})
	assert.Error(t, err)
}

func TestParseHighContrast(t *testing.T) {
	hc, err := ParseHighContrast(true, "#ffffff", "#000000", "#ffff00")
	require.NoError(t, err)
	assert.True(t, hc.Enabled)
	assert.Equal(t, "#ffff00", hc.ForegroundSelected.Hex())

	_, err = ParseHighContrast(true, "#ffffff", "nope", "#ffff00")
	assert.Error(t, err)
}

func TestEncoder(t *testing.T) {
	def, _ := colorful.Hex("#007acc")
	hc, _ := ParseHighContrast(false, "#ffffff", "#000000", "#ffff00")

	t.Run("palette for grouped data", func(t *testing.T) {
		e := Encoder{Palette: MustNew(nil), Contrast: hc, Default: def, Grouped: true}
		assert.Equal(t, "#118dff", e.ColorOf("X").Hex())
		assert.Equal(t, "#12239e", e.ColorOf("Y").Hex())
		assert.Equal(t, "#118dff", e.ColorOf("X").Hex())
	})

	t.Run("override wins over palette", func(t *testing.T) {
		e := Encoder{Palette: MustNew(nil), Contrast: hc, Default: def, Grouped: true,
			Overrides: fixedOverrides{"Y": "#ff0000"}}
		assert.Equal(t, "#ff0000", e.ColorOf("Y").Hex())
		assert.Equal(t, "#118dff", e.ColorOf("X").Hex())
	})

	t.Run("malformed override is ignored", func(t *testing.T) {
		e := Encoder{Palette: MustNew(nil), Contrast: hc, Default: def, Grouped: true,
			Overrides: fixedOverrides{"X": "red"}}
		assert.Equal(t, "#118dff", e.ColorOf("X").Hex())
	})

	t.Run("high contrast ignores overrides", func(t *testing.T) {
		on := hc
		on.Enabled = true
		e := Encoder{Palette: MustNew(nil), Contrast: on, Default: def, Grouped: true,
			Overrides: fixedOverrides{"X": "#ff0000"}}
		assert.Equal(t, "#ffffff", e.ColorOf("X").Hex())
		assert.Equal(t, "#ffffff", e.ColorOf("Y").Hex())
	})

	t.Run("ungrouped data uses the default color", func(t *testing.T) {
		e := Encoder{Palette: MustNew(nil), Contrast: hc, Default: def}
		assert.Equal(t, "#007acc", e.ColorOf("").Hex())
	})
}
