package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routemap/internal/config"
	"routemap/internal/dataset"
	"routemap/internal/geom"
	"routemap/internal/legend"
	"routemap/internal/render"
)

const routesCSV = `origin,origin_lat,origin_lng,destination,dest_lat,dest_lng,category,magnitude
A,10,10,B,-20,10,X,5
A,10,10,C,30,40,Y,50
`

type failingManager struct{}

func (failingManager) Select(context.Context, []dataset.Key, bool) ([]dataset.Key, error) {
	return nil, errors.New("host unavailable")
}

func (failingManager) Clear(context.Context) error { return errors.New("host unavailable") }

func newModel(t *testing.T, c Config) Model {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.csv")
	require.NoError(t, os.WriteFile(path, []byte(routesCSV), 0o644))
	c.Settings = config.Default()
	c.Logger = log.New(io.Discard)
	c.Dir = dir
	m := NewWithPath(c, path)
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// send feeds msg to m and runs the resulting command, feeding its message back.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			m = update(t, m, out)
		}
	}
	return m
}

func key(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// cellOf returns the absolute screen cell where p is drawn.
func cellOf(t *testing.T, m Model, p geom.LatLng) (int, int) {
	t.Helper()
	x, y, ok := m.project(p, m.mapW, m.mapH)
	require.True(t, ok)
	return m.mapX + x/2, m.mapY + y/4
}

func click(t *testing.T, m Model, p geom.LatLng, ctrl bool) Model {
	t.Helper()
	x, y := cellOf(t, m, p)
	return send(t, m, tea.MouseMsg{X: x, Y: y, Ctrl: ctrl, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func TestLoad(t *testing.T) {
	m := newModel(t, Config{})
	assert.Len(t, m.Frame().Routes, 2)
	assert.Equal(t, "loaded routes.csv: 2 routes of 2 rows", m.Status())
	assert.True(t, hasArea(m.bound))
	assert.Len(t, m.items, 1, "the sidebar lists the route file")
}

func TestLoadError(t *testing.T) {
	m := newModel(t, Config{})
	m.loadPath(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Contains(t, m.Status(), "load error")
	assert.Len(t, m.Frame().Routes, 2, "previous data stays")
}

func TestClickMarkerSelectsGroup(t *testing.T) {
	m := newModel(t, Config{})
	m = click(t, m, geom.LatLng{Lat: 10, Lng: 10}, false)
	assert.Equal(t, []dataset.Key{"row/0", "row/1"}, m.Selected())
	assert.Equal(t, 0, m.pending)
	for _, p := range m.Frame().Lines() {
		assert.Equal(t, "emphasized", p.Display.String())
	}

	m = click(t, m, geom.LatLng{Lat: 10, Lng: 10}, false)
	assert.Empty(t, m.Selected(), "clicking a fully selected group clears")
}

func TestClickDestination(t *testing.T) {
	m := newModel(t, Config{})
	m = click(t, m, geom.LatLng{Lat: 30, Lng: 40}, false)
	assert.Equal(t, []dataset.Key{"row/1"}, m.Selected())

	m = click(t, m, geom.LatLng{Lat: -20, Lng: 10}, true)
	assert.Equal(t, []dataset.Key{"row/0", "row/1"}, m.Selected(), "ctrl adds")
	assert.Equal(t, "selected: 2 route(s)", m.Status())
}

func TestClickEmptySpace(t *testing.T) {
	m := newModel(t, Config{})
	next, cmd := m.Update(tea.MouseMsg{X: m.mapX + m.mapW - 1, Y: m.mapY + m.mapH - 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd)
	assert.Empty(t, next.(Model).Selected())
}

func TestCommitFailureKeepsSelection(t *testing.T) {
	m := newModel(t, Config{Manager: failingManager{}})
	m = click(t, m, geom.LatLng{Lat: 30, Lng: 40}, false)
	assert.Empty(t, m.Selected())
	assert.Equal(t, "selection failed: host unavailable", m.Status())
	assert.Equal(t, "normal", m.Frame().Lines()[1].Display.String())
}

func TestClearKey(t *testing.T) {
	m := newModel(t, Config{})
	m = click(t, m, geom.LatLng{Lat: 30, Lng: 40}, false)
	require.Len(t, m.Selected(), 1)
	m = send(t, m, key("c"))
	assert.Empty(t, m.Selected())
}

func TestHoverTooltip(t *testing.T) {
	m := newModel(t, Config{})
	x, y := cellOf(t, m, geom.LatLng{Lat: 30, Lng: 40})
	m = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	require.NotEmpty(t, m.hoverTip)
	assert.Equal(t, dataset.Field{Name: "Destination", Value: "C"}, m.hoverTip[0])
	assert.True(t, m.hoverHasGeo)
	assert.Contains(t, m.View(), "Destination: C")
	assert.Empty(t, m.Selected(), "hover does not select")
}

func TestToggles(t *testing.T) {
	m := newModel(t, Config{})
	fullH := m.mapH

	m = update(t, m, key("s"))
	assert.Len(t, m.Frame().Lines()[0].Path, 2)

	m = update(t, m, key("x"))
	assert.Equal(t, "#ffff00", m.Frame().Lines()[0].Stroke.Hex(), "nothing selected shows every route")

	m = update(t, m, key("L"))
	assert.Equal(t, legend.Bottom, m.Frame().Legend.Position)
	assert.Equal(t, fullH, m.mapH)
	m = update(t, m, key("L"))
	assert.Equal(t, legend.Left, m.Frame().Legend.Position)
	assert.Equal(t, fullH+legendBand, m.mapH, "a side legend leaves the full height to the map")

	m = update(t, m, key("g"))
	assert.False(t, m.Frame().Legend.Visible)
}

func TestRenderErrorKeepsFrame(t *testing.T) {
	m := newModel(t, Config{})
	before := m.Frame()
	m.settings.Palette.HighContrast.Foreground = "not-a-color"
	m = update(t, m, key("x"))
	assert.Contains(t, m.Status(), "render")
	assert.Equal(t, before.Lines()[0].Stroke, m.Frame().Lines()[0].Stroke)
}

func TestPaste(t *testing.T) {
	m := newModel(t, Config{})
	m = update(t, m, key("p"))
	require.True(t, m.pasteMode)
	m.ta.SetValue("origin_lat,origin_lng,dest_lat,dest_lng\n1,1,2,2\n")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, m.pasteMode)
	assert.Len(t, m.Frame().Routes, 1)
	assert.Equal(t, "loaded pasted csv: 1 routes of 1 rows", m.Status())
}

func TestAttrsTable(t *testing.T) {
	m := newModel(t, Config{})
	m = update(t, m, key("a"))
	require.True(t, m.showAttrs)
	require.Len(t, m.tbl.Rows(), 2)
	assert.Equal(t, "row/0", m.tbl.Rows()[0][1])

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []dataset.Key{"row/0"}, m.Selected())
	assert.Equal(t, "emphasized", m.tbl.Rows()[0][6])
}

func TestView(t *testing.T) {
	m := newModel(t, Config{})
	v := m.View()
	assert.Contains(t, v, "routemap")
	assert.Contains(t, v, "category")
	assert.Contains(t, v, "loaded routes.csv")
}

func TestHitTestPrefersLaterPrimitives(t *testing.T) {
	m := newModel(t, Config{})
	x, y := cellOf(t, m, geom.LatLng{Lat: 10, Lng: 10})
	p, ok := m.hitTest(x-m.mapX, y-m.mapY, m.mapW, m.mapH)
	require.True(t, ok)
	assert.Equal(t, render.KindOrigin, p.Kind)
	assert.Equal(t, 1, p.Route)
}

func TestSelectionSurvivesRefresh(t *testing.T) {
	m := newModel(t, Config{})
	m = click(t, m, geom.LatLng{Lat: 30, Lng: 40}, false)
	require.Equal(t, []dataset.Key{"row/1"}, m.Selected())

	m.loadPath(m.items[0].(fileItem).path)
	assert.Equal(t, []dataset.Key{"row/1"}, m.Selected())
	assert.Equal(t, "dimmed", m.Frame().Lines()[0].Display.String())
}
