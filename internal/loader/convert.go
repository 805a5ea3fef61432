package loader

import (
	"github.com/pkg/errors"
	gogeom "github.com/twpayne/go-geom"

	"geomap/internal/geom"
)

func dimOf(l gogeom.Layout) geom.Dim {
	return geom.MakeDim(l.ZIndex() >= 0, l.MIndex() >= 0)
}

// FromT converts a go-geom geometry into a kernel geometry carrying the
// same SRID. Empty points have no kernel representation and are rejected.
func FromT(t gogeom.T) (geom.Geometry, error) {
	g, err := fromT(t)
	if err != nil {
		return nil, err
	}
	g.SetSRID(t.SRID())
	g.ComputeMBR(true)
	return g, nil
}

func fromT(t gogeom.T) (geom.Geometry, error) {
	switch v := t.(type) {
	case *gogeom.Point:
		return point(v)
	case *gogeom.LineString:
		return lineString(v.Layout(), v.FlatCoords())
	case *gogeom.LinearRing:
		return lineString(v.Layout(), v.FlatCoords())
	case *gogeom.Polygon:
		return polygon(v)
	case *gogeom.MultiPoint:
		c, err := geom.NewCollection(geom.KindMultiPoint, dimOf(v.Layout()))
		if err != nil {
			return nil, err
		}
		for i := 0; i < v.NumPoints(); i++ {
			p := v.Point(i)
			if len(p.FlatCoords()) == 0 {
				continue
			}
			m, err := point(p)
			if err != nil {
				return nil, err
			}
			if err := c.Add(m); err != nil {
				return nil, err
			}
		}
		return c, nil
	case *gogeom.MultiLineString:
		c, err := geom.NewCollection(geom.KindMultiLineString, dimOf(v.Layout()))
		if err != nil {
			return nil, err
		}
		for i := 0; i < v.NumLineStrings(); i++ {
			l := v.LineString(i)
			m, err := lineString(l.Layout(), l.FlatCoords())
			if err != nil {
				return nil, err
			}
			if err := c.Add(m); err != nil {
				return nil, err
			}
		}
		return c, nil
	case *gogeom.MultiPolygon:
		c, err := geom.NewCollection(geom.KindMultiPolygon, dimOf(v.Layout()))
		if err != nil {
			return nil, err
		}
		for i := 0; i < v.NumPolygons(); i++ {
			m, err := polygon(v.Polygon(i))
			if err != nil {
				return nil, err
			}
			if err := c.Add(m); err != nil {
				return nil, err
			}
		}
		return c, nil
	case *gogeom.GeometryCollection:
		members := make([]geom.Geometry, 0, v.NumGeoms())
		for i := 0; i < v.NumGeoms(); i++ {
			m, err := fromT(v.Geom(i))
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		dim := geom.XY
		if len(members) > 0 {
			dim = members[0].Type().Dim
		}
		c, err := geom.NewCollection(geom.KindGeometryCollection, dim)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if err := c.Add(m); err != nil {
				return nil, err
			}
		}
		return c, nil
	}
	return nil, errors.Wrapf(geom.ErrUnsupportedOperation, "convert %T", t)
}

func point(p *gogeom.Point) (*geom.Point, error) {
	c := p.FlatCoords()
	if len(c) < 2 {
		return nil, errors.Wrap(geom.ErrInvalidGeometry, "empty point")
	}
	l := p.Layout()
	zi, mi := l.ZIndex(), l.MIndex()
	switch {
	case zi >= 0 && mi >= 0:
		return geom.NewPointZM(c[0], c[1], c[zi], c[mi]), nil
	case zi >= 0:
		return geom.NewPointZ(c[0], c[1], c[zi]), nil
	case mi >= 0:
		return geom.NewPointM(c[0], c[1], c[mi]), nil
	}
	return geom.NewPoint(c[0], c[1]), nil
}

func lineString(l gogeom.Layout, flat []float64) (*geom.LineString, error) {
	stride := l.Stride()
	n := len(flat) / stride
	zi, mi := l.ZIndex(), l.MIndex()
	ls := geom.NewLineString(dimOf(l), n)
	for i := 0; i < n; i++ {
		c := flat[i*stride : (i+1)*stride]
		if err := ls.SetCoord(i, geom.Coord2D{X: c[0], Y: c[1]}); err != nil {
			return nil, err
		}
		if zi >= 0 {
			if err := ls.SetZ(i, c[zi]); err != nil {
				return nil, err
			}
		}
		if mi >= 0 {
			if err := ls.SetM(i, c[mi]); err != nil {
				return nil, err
			}
		}
	}
	ls.ComputeMBR(false)
	return ls, nil
}

func polygon(p *gogeom.Polygon) (*geom.Polygon, error) {
	out := geom.NewPolygon(dimOf(p.Layout()))
	for i := 0; i < p.NumLinearRings(); i++ {
		r := p.LinearRing(i)
		ring, err := lineString(r.Layout(), r.FlatCoords())
		if err != nil {
			return nil, err
		}
		if err := out.AddRing(ring); err != nil {
			return nil, err
		}
	}
	return out, nil
}
