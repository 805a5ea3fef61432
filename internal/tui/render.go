package tui

import (
	"strings"

	"geomap/internal/geom"
)

// normalized maps a world position to [0,1] screen space after zoom
// around the centre.
func (m Model) normalized(x, y float64) (float64, float64, bool) {
	e := m.extent
	if !(e.URX > e.LLX && e.URY > e.LLY) {
		return 0, 0, false
	}
	nx := (x - e.LLX) / (e.URX - e.LLX)
	ny := (y - e.LLY) / (e.URY - e.LLY)
	return 0.5 + (nx-0.5)*m.zoom, 0.5 + (ny-0.5)*m.zoom, true
}

// screenXYMicro maps a world position into a 2x4 microgrid per cell for
// braille rendering.
func (m Model) screenXYMicro(x, y float64, w, h int) (int, int, bool) {
	zx, zy, ok := m.normalized(x, y)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy, true
}

// screenXY maps a world position to a cell considering zoom and pan.
func (m Model) screenXY(x, y float64, w, h int) (int, int, bool) {
	zx, zy, ok := m.normalized(x, y)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

// cellToWorld converts a map cell back to a world position.
func (m Model) cellToWorld(cx, cy, w, h int) (float64, float64, bool) {
	e := m.extent
	if !(e.URX > e.LLX && e.URY > e.LLY) || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	return e.LLX + nx*(e.URX-e.LLX), e.LLY + ny*(e.URY-e.LLY), true
}

// cellSize is the world size of one cell.
func (m Model) cellSize(w, h int) (float64, float64) {
	if w <= 1 || h <= 1 {
		return 0, 0
	}
	return m.extent.Width() / (float64(w-1) * m.zoom), m.extent.Height() / (float64(h-1) * m.zoom)
}

// viewport is the world rectangle visible in a w x h map.
func (m Model) viewport(w, h int) geom.Envelope {
	v := geom.EmptyEnvelope()
	x0, y0, ok0 := m.cellToWorld(0, 0, w, h)
	x1, y1, ok1 := m.cellToWorld(w-1, h-1, w, h)
	if ok0 && ok1 {
		v.ExpandToInclude(x0, y0)
		v.ExpandToInclude(x1, y1)
	}
	return v
}

// drawing is a geometry broken into screen primitives; curves are
// linearized.
type drawing struct {
	points []geom.Coord2D
	lines  [][]geom.Coord2D
	polys  [][][]geom.Coord2D
}

func (d *drawing) add(g geom.Geometry) {
	switch v := g.(type) {
	case *geom.Point:
		d.points = append(d.points, v.Coord())
	case geom.Curve:
		if ls, err := geom.Linearize(v, 0); err == nil {
			d.lines = append(d.lines, ls.Coords())
		}
	case *geom.Polygon:
		var rings [][]geom.Coord2D
		for i := 0; i < v.NumRings(); i++ {
			r, err := v.RingN(i)
			if err != nil {
				continue
			}
			if ls, err := geom.Linearize(r, 0); err == nil {
				rings = append(rings, ls.Coords())
			}
		}
		d.polys = append(d.polys, rings)
	case *geom.Collection:
		for i := 0; i < v.NumGeometries(); i++ {
			if c, err := v.GeometryN(i); err == nil {
				d.add(c)
			}
		}
	}
}

func (m Model) micro(cs []geom.Coord2D, w, h int) [][2]int {
	out := make([][2]int, 0, len(cs))
	for _, c := range cs {
		if mx, my, ok := m.screenXYMicro(c.X, c.Y, w, h); ok {
			out = append(out, [2]int{mx, my})
		}
	}
	return out
}

// renderMap draws the features intersecting the viewport. On a query error
// the map is left blank.
func (m Model) renderMap(w, h int) (string, error) {
	br := newBrailleBuf(w, h)
	features, err := m.reg.GetGeometries(m.viewport(w, h), m.viewSRID)
	if err != nil {
		return strings.Join(br.toLines(), "\n"), err
	}
	var d drawing
	for _, f := range features {
		d.add(f.Geometry)
	}

	if m.showPolys {
		for _, poly := range d.polys {
			var rings [][][2]int
			for _, r := range poly {
				if pts := m.micro(r, w, h); len(pts) >= 3 {
					rings = append(rings, pts)
				}
			}
			br.fillRings(rings)
			for _, r := range rings {
				br.polyline(r, true)
			}
		}
	}
	if m.showLines {
		for _, l := range d.lines {
			br.polyline(m.micro(l, w, h), false)
		}
	}
	if m.showPoints {
		for _, p := range d.points {
			if mx, my, ok := m.screenXYMicro(p.X, p.Y, w, h); ok {
				br.setPixel(mx, my)
			}
		}
	}

	lines := br.toLines()
	// mark the hovered cell when something is identified under it
	if m.hovering && m.hoverID != "" && m.hoverCellY >= 0 && m.hoverCellY < len(lines) {
		r := []rune(lines[m.hoverCellY])
		if cx := m.hoverCellX; cx >= 0 && cx < len(r) {
			lines[m.hoverCellY] = string(r[:cx]) + hoverStyle.Render("◯") + string(r[cx+1:])
		}
	}
	return strings.Join(lines, "\n"), nil
}
