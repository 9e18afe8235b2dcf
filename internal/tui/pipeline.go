package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"routemap/internal/dataset"
	"routemap/internal/render"
	"routemap/internal/selection"
)

// fitPad pads the fitted view by this share of the data extent.
const fitPad = 0.05

// commitMsg carries the outcome of an asynchronous selection commit.
type commitMsg struct {
	keys []dataset.Key
	err  error
}

// setData replaces the dataset and resets the view. The selection carries
// over until it is explicitly cleared.
func (m *Model) setData(dv dataset.DataView, source string) {
	m.data = dv
	m.loaded = true
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	if m.rerender() {
		m.status = fmt.Sprintf("loaded %s: %d routes of %d rows", source, len(m.frame.Routes), m.frame.Rows)
	}
}

// rerender draws the current data under the current selection. A failed
// render keeps the previous frame on screen.
func (m *Model) rerender() bool {
	if !m.loaded {
		return false
	}
	m.data.Viewport = dataset.Viewport{Width: float64(m.mapW), Height: float64(m.mapH)}
	f, err := m.renderer.Render(render.Update{View: m.data, Settings: m.settings}, m.state)
	if err != nil {
		m.status = err.Error()
		return false
	}
	m.frame = f
	m.layout()
	if m.local != nil {
		m.local.SetKnown(f.Known)
	}
	if f.Fit() {
		m.bound = f.Bounds.Padded(fitPad, 0.5)
	}
	if m.showAttrs {
		m.refreshAttrs()
	}
	return true
}

// commit sends r to the manager off the event loop. The local state only
// changes when the commitMsg reports success.
func (m *Model) commit(r selection.Request) tea.Cmd {
	m.pending++
	ctx, mgr := m.ctx, m.manager
	return func() tea.Msg {
		keys, err := selection.Commit(ctx, mgr, r)
		return commitMsg{keys: keys, err: err}
	}
}

func (m *Model) applyCommit(msg commitMsg) {
	m.pending--
	if msg.err != nil {
		m.logger.Warn("selection commit failed", "err", msg.err)
		m.status = "selection failed: " + msg.err.Error()
		return
	}
	m.state.Replace(msg.keys)
	if m.rerender() {
		m.status = fmt.Sprintf("selected: %d route(s)", m.state.Len())
	}
}
