// Package planar implements geom.Algorithms on the plane. Measures come from
// ctessum/geom; segment intersection comes from go-geom's lineintersector.
// Circular arcs are linearized before any computation.
package planar

import (
	ctgeom "github.com/ctessum/geom"
	"github.com/pkg/errors"

	"geomap/internal/geom"
)

// shape is a geometry flattened into planar parts grouped by dimension.
type shape struct {
	points   []ctgeom.Point
	lines    []ctgeom.LineString
	polygons []ctgeom.Polygon
}

// dim is the highest topological dimension present, or -1 when empty.
func (s *shape) dim() int {
	switch {
	case len(s.polygons) > 0:
		return 2
	case len(s.lines) > 0:
		return 1
	case len(s.points) > 0:
		return 0
	}
	return -1
}

// vertices lists every position of the shape.
func (s *shape) vertices() []ctgeom.Point {
	out := append([]ctgeom.Point(nil), s.points...)
	for _, l := range s.lines {
		out = append(out, l...)
	}
	for _, p := range s.polygons {
		for _, r := range p {
			out = append(out, r...)
		}
	}
	return out
}

// endpoints lists the boundary points of the shape's open lines.
func (s *shape) endpoints() []ctgeom.Point {
	var out []ctgeom.Point
	for _, l := range s.lines {
		if len(l) > 1 && l[0] != l[len(l)-1] {
			out = append(out, l[0], l[len(l)-1])
		}
	}
	return out
}

// segments lists every edge of the shape's lines and polygon rings.
func (s *shape) segments() [][2]ctgeom.Point {
	var out [][2]ctgeom.Point
	add := func(pts []ctgeom.Point) {
		for i := 1; i < len(pts); i++ {
			out = append(out, [2]ctgeom.Point{pts[i-1], pts[i]})
		}
	}
	for _, l := range s.lines {
		add(l)
	}
	for _, p := range s.polygons {
		for _, r := range p {
			add(r)
		}
	}
	return out
}

func flatten(g geom.Geometry, segmentsPerQuadrant int) (*shape, error) {
	s := &shape{}
	if err := s.add(g, segmentsPerQuadrant); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *shape) add(g geom.Geometry, spq int) error {
	switch v := g.(type) {
	case *geom.Point:
		s.points = append(s.points, ctgeom.Point{X: v.X(), Y: v.Y()})
	case geom.Curve:
		ls, err := geom.Linearize(v, spq)
		if err != nil {
			return err
		}
		if ls.NumPoints() > 0 {
			s.lines = append(s.lines, toLineString(ls))
		}
	case *geom.Polygon:
		var poly ctgeom.Polygon
		for i := 0; i < v.NumRings(); i++ {
			ring, err := v.RingN(i)
			if err != nil {
				return err
			}
			ls, err := geom.Linearize(ring, spq)
			if err != nil {
				return err
			}
			if ls.NumPoints() > 0 {
				poly = append(poly, []ctgeom.Point(toLineString(ls)))
			}
		}
		if len(poly) > 0 {
			s.polygons = append(s.polygons, poly)
		}
	case *geom.Collection:
		for i := 0; i < v.NumGeometries(); i++ {
			m, err := v.GeometryN(i)
			if err != nil {
				return err
			}
			if err := s.add(m, spq); err != nil {
				return err
			}
		}
	default:
		return errors.Wrapf(geom.ErrUnsupportedOperation, "planar: %T", g)
	}
	return nil
}

func toLineString(ls *geom.LineString) ctgeom.LineString {
	coords := ls.Coords()
	out := make(ctgeom.LineString, len(coords))
	for i, c := range coords {
		out[i] = ctgeom.Point{X: c.X, Y: c.Y}
	}
	return out
}

func errInvalid(msg string) error {
	return errors.Wrap(geom.ErrInvalidGeometry, "planar: "+msg)
}
