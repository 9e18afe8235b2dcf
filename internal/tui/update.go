package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"routemap/internal/legend"
	"routemap/internal/selection"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
	case commitMsg:
		m.applyCommit(msg)
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "ctrl+s":
				if m.loadPasted(m.ta.Value()) {
					m.pasteMode = false
					m.ta.Blur()
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		if m.showAttrs {
			switch msg.String() {
			case "esc", "a":
				m.showAttrs = false
				return m, nil
			case "enter":
				if k, ok := m.attrKey(); ok {
					return m, m.commit(selection.ClickRoute(k, false))
				}
				return m, nil
			case "up", "down", "pgup", "pgdown", "home", "end", "j", "k":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "f":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "fit"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
			}
			m.layout()
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrs()
			}
		case "c":
			if m.loaded {
				return m, m.commit(selection.Request{Op: selection.OpClear})
			}
		case "x":
			m.settings.Palette.HighContrast.Enabled = !m.settings.Palette.HighContrast.Enabled
			if m.rerender() {
				m.status = fmt.Sprintf("high contrast: %v", m.settings.Palette.HighContrast.Enabled)
			}
		case "s":
			m.settings.Route.UseStraightLines = !m.settings.Route.UseStraightLines
			if m.rerender() {
				m.status = fmt.Sprintf("straight lines: %v", m.settings.Route.UseStraightLines)
			}
		case "g":
			m.settings.Legend.Show = !m.settings.Legend.Show
			if m.rerender() {
				m.status = fmt.Sprintf("legend: %v", m.settings.Legend.Show)
			}
		case "L":
			pos, err := legend.ParsePosition(m.settings.Legend.Position)
			if err != nil {
				pos = legend.Top
			}
			m.settings.Legend.Position = pos.Next().String()
			if m.rerender() {
				m.status = "legend: " + m.settings.Legend.Position
			}
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		if cmd, handled := m.mouse(msg); handled {
			return m, cmd
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// layout recomputes the map pane after a resize, a sidebar toggle or a new frame.
func (m *Model) layout() {
	s := m.screen()
	m.mapX, m.mapY, m.mapW, m.mapH = s.mapRect()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, s.contentH-2)
	}
}

// mouse tracks hover and turns left clicks on the map into selection commits.
func (m *Model) mouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	cx, cy := msg.X-m.mapX, msg.Y-m.mapY
	if m.showAttrs || m.pasteMode || cx < 0 || cy < 0 || cx >= m.mapW || cy >= m.mapH {
		m.hovering = false
		m.hoverHasGeo = false
		m.hoverTip = nil
		return nil, false
	}
	m.hovering = true
	if ll, ok := m.cellToLatLng(cx, cy, m.mapW, m.mapH); ok {
		m.hoverHasGeo = true
		m.hoverLat, m.hoverLng = ll.Lat, ll.Lng
	} else {
		m.hoverHasGeo = false
	}

	p, hit := m.hitTest(cx, cy, m.mapW, m.mapH)
	m.hoverTip = nil
	if hit {
		m.hoverTip = p.Tooltip()
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil, true
	}
	if !hit {
		return nil, true
	}
	return m.commit(p.Click(m.state, msg.Ctrl || msg.Alt)), true
}
