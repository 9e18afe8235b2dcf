package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"routemap/internal/legend"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2

	// legendSide is the legend column width in cells for Left/Right, and
	// legendBand the band height in rows for Top/Bottom.
	legendSide = 22
	legendBand = 2
)

// screen is the layout of one frame of the UI. Update and View share it so
// that mouse coordinates line up with what is drawn.
type screen struct {
	contentW int
	contentH int
	// areaX is the left edge of the map and legend area.
	areaX int
	panes legend.Panes
}

func (m Model) screen() screen {
	s := screen{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
	}
	if m.showSidebar {
		s.areaX = sidebarWidth + 1
	}
	areaW := max(10, s.contentW-s.areaX)
	s.panes = legend.Layout(m.frame.Legend, float64(areaW), float64(s.contentH), legendSide, legendBand)
	return s
}

// mapRect returns the map pane in absolute cells.
func (s screen) mapRect() (x, y, w, h int) {
	r := s.panes.Map
	return s.areaX + int(r.X), headerHeight + int(r.Y), max(8, int(r.W)), max(2, int(r.H))
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	s := m.screen()
	_, _, mapW, mapH := s.mapRect()

	header := titleStyle.Render(" routemap ─ origin-destination routes ")
	header = lipgloss.NewStyle().Width(s.contentW).Padding(0).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var area string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		areaW := s.contentW - s.areaX
		maxW := min(areaW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(s.contentH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		area = lipgloss.Place(areaW, s.contentH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(mapW)
		m.ta.SetHeight(min(mapH, 12))
		area = lipgloss.NewStyle().Width(s.contentW - s.areaX).Height(s.contentH).Render(m.ta.View())
	default:
		mapView := lipgloss.NewStyle().Width(mapW).Height(mapH).Render(m.renderMap(mapW, mapH))
		area = m.withLegend(s, mapView)
	}

	body := area
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", area)
	}

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter(s.contentW))
	return appStyle.Width(s.contentW).Height(m.height).Render(ui)
}

// withLegend places the legend pane next to the map as the layout dictates.
func (m Model) withLegend(s screen, mapView string) string {
	if !m.frame.Legend.Visible {
		return mapView
	}
	r := s.panes.Legend
	leg := m.renderLegend(int(r.W), int(r.H))
	switch m.frame.Legend.Position {
	case legend.Left:
		return lipgloss.JoinHorizontal(lipgloss.Top, leg, mapView)
	case legend.Right:
		return lipgloss.JoinHorizontal(lipgloss.Top, mapView, leg)
	case legend.Bottom:
		return lipgloss.JoinVertical(lipgloss.Left, mapView, leg)
	default:
		return lipgloss.JoinVertical(lipgloss.Left, leg, mapView)
	}
}

func (m Model) renderFooter(width int) string {
	status := m.status
	if m.pending > 0 {
		status += " (committing)"
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, dimStyle.Render(" "+status+" "), m.renderHelp())
	coords := ""
	if m.hovering && m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lat=%.5f lng=%.5f  ", m.hoverLat, m.hoverLng))
	}
	spacerW := max(0, width-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	line := lipgloss.NewStyle().Width(width).MaxHeight(1).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))
	return lipgloss.JoinVertical(lipgloss.Left, line, m.renderTooltip(width))
}

// renderTooltip shows the fields of the primitive under the pointer.
func (m Model) renderTooltip(width int) string {
	if len(m.hoverTip) == 0 {
		return ""
	}
	parts := make([]string, len(m.hoverTip))
	for i, f := range m.hoverTip {
		parts[i] = f.Name + ": " + f.Value
	}
	return tipStyle.MaxWidth(width).Render(" " + truncate(strings.Join(parts, "  │  "), width-2) + " ")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"click select",
		"c clear",
		"x contrast",
		"s straight",
		"g legend",
		"L position",
		"Tab files",
		"p paste",
		"a routes",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
