package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	// Header
	title := " geomap ─ terminal geospatial viewer "
	if m.reg.Len() > 0 {
		title += fmt.Sprintf("─ %d features ─ srid %d ", m.reg.Len(), m.reg.SRID())
	}
	header := lipgloss.NewStyle().Width(l.contentW).Render(titleStyle.Render(title))

	// Sidebar
	var sidebar string
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, l.contentH-2)
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, l.contentW-6)
		}
		maxW := min(l.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(l.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(l.mapW, l.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(l.mapW)
		m.ta.SetHeight(min(l.mapH, 12))
		mapView = lipgloss.NewStyle().Width(l.mapW).Height(l.mapH).Render(m.ta.View())
	case m.inspectPopup != "":
		box := boxStyle.MaxWidth(max(20, min(48, l.contentW/2))).Render(m.inspectPopup)
		mapView = lipgloss.Place(l.mapW, l.mapH, lipgloss.Left, lipgloss.Center, box)
	default:
		drawn, err := m.renderMap(l.mapW, l.mapH)
		if err != nil {
			m.status = "render error: " + err.Error()
		}
		mapView = lipgloss.NewStyle().Width(l.mapW).Height(l.mapH).Render(drawn)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = fmt.Sprintf("  x=%.5f y=%.5f  ", m.hoverX, m.hoverY)
		if m.hoverID != "" {
			coords = hoverStyle.Render(m.hoverID) + coords
		}
		coords = dimStyle.Render(coords)
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, l.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(l.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(l.contentW).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab files",
		"i inspect",
		"s select",
		"a attrs",
		"x remove",
		"p paste",
		"r srid",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
