package tui

import (
	"fmt"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"geomap/internal/edit"
	"geomap/internal/geom"
	"geomap/internal/loader"
	"geomap/internal/logger"
	"geomap/internal/proj"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case tea.KeyMsg:
		// while the list filters, keys belong to it
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.showAttrs {
			switch msg.String() {
			case "up", "down", "pgup", "pgdown", "home", "end":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.showPoints = !m.showPoints
			m.status = fmt.Sprintf("points: %v", m.showPoints)
		case "2":
			m.showLines = !m.showLines
			m.status = fmt.Sprintf("lines: %v", m.showLines)
		case "3":
			m.showPolys = !m.showPolys
			m.status = fmt.Sprintf("polys: %v", m.showPolys)
		case "l":
			all := m.showPoints && m.showLines && m.showPolys
			m.showPoints, m.showLines, m.showPolys = !all, !all, !all
			m.status = fmt.Sprintf("layers: pts=%v ls=%v poly=%v", m.showPoints, m.showLines, m.showPolys)
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
		case "0":
			m.resetView()
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.ta.Focus()
			m.status = "paste mode"
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrs()
			}
		case "s":
			m.selectViewport()
		case "i":
			m.inspect()
		case "x":
			m.removeHovered()
		case "r":
			m.toggleProjection()
		case "esc":
			m.inspectPopup = ""
			m.selected = nil
			m.status = "selection cleared"
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.offsetY--
		case "down":
			m.offsetY++
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m.hover(msg.X, msg.Y)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		m.addWKT(m.ta.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// addWKT adds a pasted geometry as a new feature. Pasted geometries without
// an SRID are taken to be in the registry's current SRID.
func (m *Model) addWKT(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		m.status = "paste: empty"
		return
	}
	g, err := loader.ParseWKT(text)
	if err != nil {
		m.status = "wkt error: " + err.Error()
		return
	}
	first := m.reg.Len() == 0
	m.pasted++
	id := fmt.Sprintf("wkt%d", m.pasted)
	if err := m.reg.Add(edit.ID(id), g); err != nil {
		m.status = "add error: " + err.Error()
		return
	}
	if first {
		m.resetView()
	}
	m.pasteMode = false
	m.ta.Blur()
	m.status = fmt.Sprintf("added %s (%s)", id, g.Type())
	logger.L().WithFields(logrus.Fields{"id": id, "type": g.Type().String()}).Info("pasted")
}

// hover tracks the mouse over the map and identifies the feature under it.
func (m *Model) hover(x, y int) {
	l := m.layout()
	cx, cy := x-l.mapX, y-l.mapY
	if cx < 0 || cx >= l.mapW || cy < 0 || cy >= l.mapH {
		m.hovering = false
		m.hoverHasGeo = false
		m.hoverID = ""
		return
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx, cy
	m.hoverX, m.hoverY, m.hoverHasGeo = m.cellToWorld(cx, cy, l.mapW, l.mapH)
	id, err := m.identifyCell(cx, cy, l.mapW, l.mapH)
	if err != nil {
		m.status = "identify error: " + err.Error()
		return
	}
	m.hoverID = id
}

// identifyCell returns the identifier of the feature under a map cell, or
// "" when there is none.
func (m Model) identifyCell(cx, cy, w, h int) (string, error) {
	x, y, ok := m.cellToWorld(cx, cy, w, h)
	if !ok {
		return "", nil
	}
	dx, dy := m.cellSize(w, h)
	tol := float64(m.tolerance) / 2
	env := geom.NewEnvelope(x-dx*tol, y-dy*tol, x+dx*tol, y+dy*tol)
	f, found, err := m.reg.GetGeometry(env, m.viewSRID)
	if err != nil || !found {
		return "", err
	}
	return f.ID.String(), nil
}

// target is the hovered feature, else the one under the map centre.
func (m Model) target() string {
	if m.hoverID != "" {
		return m.hoverID
	}
	l := m.layout()
	id, _ := m.identifyCell(l.mapW/2, l.mapH/2, l.mapW, l.mapH)
	return id
}

func (m *Model) inspect() {
	if m.inspectPopup != "" {
		m.inspectPopup = ""
		return
	}
	id := m.target()
	if id == "" {
		m.inspectPopup = "no feature here"
		m.status = m.inspectPopup
		return
	}
	g, ok := m.reg.Lookup(edit.ID(id))
	if !ok {
		m.inspectPopup = ""
		return
	}
	meta := []string{
		"id: " + id,
		"type: " + g.Type().String(),
		fmt.Sprintf("srid: %d", g.SRID()),
		fmt.Sprintf("points: %d", g.NumPoints()),
		"mbr: " + g.MBR().String(),
	}
	alg := m.reg.Algorithms()
	if a, err := geom.Area(alg, g); err == nil && a > 0 {
		meta = append(meta, fmt.Sprintf("area: %.6g", a))
	}
	if c, err := geom.Centroid(alg, g); err == nil {
		meta = append(meta, fmt.Sprintf("centroid: %.6f %.6f", c.X(), c.Y()))
	}
	props := m.props[id]
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		meta = append(meta, k+": "+formatValue(props[k]))
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect " + id
}

// selectViewport selects every feature whose MBR meets the visible map.
func (m *Model) selectViewport() {
	l := m.layout()
	features, err := m.reg.GetGeometries(m.viewport(l.mapW, l.mapH), m.viewSRID)
	if err != nil {
		m.status = "select error: " + err.Error()
		return
	}
	m.selected = m.selected[:0]
	for _, f := range features {
		m.selected = append(m.selected, f.ID.String())
	}
	m.status = fmt.Sprintf("selected %d of %d", len(m.selected), m.reg.Len())
	if m.showAttrs {
		m.refreshAttrs()
	}
}

func (m *Model) removeHovered() {
	id := m.target()
	if id == "" {
		m.status = "nothing to remove"
		return
	}
	if err := m.reg.Remove(edit.ID(id)); err != nil {
		m.status = "remove error: " + err.Error()
		return
	}
	delete(m.props, id)
	for i, s := range m.selected {
		if s == id {
			m.selected = append(m.selected[:i], m.selected[i+1:]...)
			break
		}
	}
	if m.hoverID == id {
		m.hoverID = ""
	}
	m.inspectPopup = ""
	m.status = "removed " + id
	logger.L().WithField("id", id).Info("removed")
	if m.showAttrs {
		m.refreshAttrs()
	}
}

// toggleProjection moves the registry between its home SRID and Web
// Mercator, carrying the view extent along.
func (m *Model) toggleProjection() {
	if m.conv == nil {
		m.status = "no coordinate converter"
		return
	}
	from := m.reg.SRID()
	to := proj.WebMercator
	if from == proj.WebMercator {
		to = m.homeSRID
	}
	if from == to {
		m.status = fmt.Sprintf("already in srid %d", to)
		return
	}
	if err := m.reg.Reproject(to); err != nil {
		m.status = "reproject error: " + err.Error()
		logger.L().WithError(err).WithField("srid", to).Warn("reproject failed")
		return
	}
	m.viewSRID = to
	ext := m.extent
	if ext.IsValid() {
		if err := ext.Transform(m.conv, from, to); err != nil {
			m.resetView()
		} else {
			m.extent = fitExtent(ext)
		}
	}
	m.hoverID = ""
	m.inspectPopup = ""
	m.status = fmt.Sprintf("srid %d -> %d", from, to)
	logger.L().WithFields(logrus.Fields{"from": from, "to": to}).Info("reprojected")
}
