package tui

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"

	"routemap/internal/render"
)

func dot(b *brailleBuf, mx, my int) bool {
	return b.m[my/4][mx/2]&dotBits[mx%2][my%4] != 0
}

func TestDrawRing(t *testing.T) {
	b := newBrailleBuf(8, 4)
	b.drawRing(7, 7, 3, "#ffffff")
	assert.True(t, dot(b, 10, 7))
	assert.True(t, dot(b, 7, 4))
	assert.False(t, dot(b, 7, 7), "the center stays empty")
	assert.False(t, dot(b, 11, 7))
}

func TestDrawMarker(t *testing.T) {
	bg, _ := colorful.Hex("#000000")
	white, _ := colorful.Hex("#ffffff")
	yellow, _ := colorful.Hex("#ffff00")
	marker := func(fill colorful.Color) projected {
		return projected{
			prim: render.Primitive{Kind: render.KindOrigin, Stroke: white, Fill: fill, Opacity: 1, FillOpacity: 1},
			pts:  [][2]int{{7, 7}},
			size: 3,
		}
	}

	t.Run("filled", func(t *testing.T) {
		b := newBrailleBuf(8, 4)
		drawMarker(b, marker(yellow), bg, "#ffffff")
		assert.True(t, dot(b, 7, 7))
		assert.True(t, dot(b, 10, 7))
	})

	t.Run("background fill is hollow", func(t *testing.T) {
		b := newBrailleBuf(8, 4)
		drawMarker(b, marker(bg), bg, "#ffffff")
		assert.False(t, dot(b, 7, 7))
		assert.True(t, dot(b, 10, 7))
		assert.Equal(t, "#ffffff", b.c[7/4][10/2])
	})
}
