package legend

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

func constant(string) colorful.Color { return white }

func defaults() Options {
	return Options{Show: true, ShowTitle: true, Position: Top, FontSize: 8}
}

func TestParsePosition(t *testing.T) {
	for _, s := range []string{"Top", "bottom", " LEFT ", "Right"} {
		_, err := ParsePosition(s)
		assert.NoError(t, err, s)
	}
	p, err := ParsePosition("right")
	require.NoError(t, err)
	assert.Equal(t, Right, p)
	assert.Equal(t, "Right", p.String())

	_, err = ParsePosition("center")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestNext(t *testing.T) {
	assert.Equal(t, Bottom, Top.Next())
	assert.Equal(t, Top, Right.Next())
	assert.True(t, Left.Vertical())
	assert.False(t, Bottom.Vertical())
}

func TestBuild(t *testing.T) {
	t.Run("sorted distinct entries", func(t *testing.T) {
		l := Build([]string{"Y", "X", "Y", ""}, true, "Mode", defaults(), constant)
		require.True(t, l.Visible)
		labels := make([]string, len(l.Entries))
		for i, e := range l.Entries {
			labels[i] = e.Label
		}
		assert.Equal(t, []string{"", "X", "Y"}, labels)
		assert.Equal(t, "Mode", l.Title)
		assert.Equal(t, 8.0, l.FontSize)
	})

	t.Run("custom title wins when not blank", func(t *testing.T) {
		o := defaults()
		o.TitleText = "  Modes  "
		assert.Equal(t, "Modes", Build(nil, true, "Mode", o, constant).Title)
		o.TitleText = "   "
		assert.Equal(t, "Mode", Build(nil, true, "Mode", o, constant).Title)
	})

	t.Run("title falls back to Legend", func(t *testing.T) {
		assert.Equal(t, "Legend", Build(nil, true, "", defaults(), constant).Title)
	})

	t.Run("title toggle off", func(t *testing.T) {
		o := defaults()
		o.ShowTitle = false
		o.TitleText = "Modes"
		assert.Empty(t, Build([]string{"X"}, true, "Mode", o, constant).Title)
	})

	t.Run("hidden legend has no entries", func(t *testing.T) {
		o := defaults()
		o.Show = false
		l := Build([]string{"X"}, true, "Mode", o, constant)
		assert.False(t, l.Visible)
		assert.Empty(t, l.Entries)
	})

	t.Run("no legend column suppresses the legend", func(t *testing.T) {
		l := Build([]string{"X"}, false, "", defaults(), constant)
		assert.False(t, l.Visible)
		assert.Empty(t, l.Entries)
	})

	t.Run("colors come from the encoder", func(t *testing.T) {
		calls := 0
		colorOf := func(string) colorful.Color { calls++; return white }
		l := Build([]string{"X", "Y"}, true, "Mode", defaults(), colorOf)
		assert.Equal(t, 2, calls)
		for _, e := range l.Entries {
			assert.Equal(t, white, e.Color)
		}
	})
}

func TestLayout(t *testing.T) {
	visible := Legend{Visible: true}

	t.Run("hidden legend leaves everything to the map", func(t *testing.T) {
		p := Layout(Legend{}, 800, 600, 150, 50)
		assert.Equal(t, Rect{W: 800, H: 600}, p.Map)
		assert.Equal(t, Rect{}, p.Legend)
	})

	t.Run("top band", func(t *testing.T) {
		l := visible
		l.Position = Top
		p := Layout(l, 800, 600, 150, 50)
		assert.Equal(t, Rect{W: 800, H: 50}, p.Legend)
		assert.Equal(t, Rect{Y: 50, W: 800, H: 550}, p.Map)
	})

	t.Run("bottom band", func(t *testing.T) {
		l := visible
		l.Position = Bottom
		p := Layout(l, 800, 600, 150, 50)
		assert.Equal(t, Rect{Y: 550, W: 800, H: 50}, p.Legend)
		assert.Equal(t, Rect{W: 800, H: 550}, p.Map)
	})

	t.Run("left column", func(t *testing.T) {
		l := visible
		l.Position = Left
		p := Layout(l, 800, 600, 150, 50)
		assert.Equal(t, Rect{W: 150, H: 600}, p.Legend)
		assert.Equal(t, Rect{X: 150, W: 650, H: 600}, p.Map)
	})

	t.Run("right column", func(t *testing.T) {
		l := visible
		l.Position = Right
		p := Layout(l, 800, 600, 150, 50)
		assert.Equal(t, Rect{X: 650, W: 150, H: 600}, p.Legend)
		assert.Equal(t, Rect{W: 650, H: 600}, p.Map)
	})
}
