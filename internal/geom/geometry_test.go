package geom

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestPointOrdinates(t *testing.T) {
	p := NewPoint(1, 2)
	require.Equal(t, "Point", p.Type().String())
	_, err := p.Z()
	require.True(t, errors.Is(err, ErrPreconditionViolation))
	require.True(t, errors.Is(p.SetM(3), ErrPreconditionViolation))

	zm := NewPointZM(1, 2, 3, 4)
	require.Equal(t, "PointZM", zm.Type().String())
	z, err := zm.Z()
	require.NoError(t, err)
	require.Equal(t, 3.0, z)
	require.NoError(t, zm.SetM(7))
	m, err := zm.M()
	require.NoError(t, err)
	require.Equal(t, 7.0, m)
	require.Equal(t, NewEnvelope(1, 2, 1, 2), zm.MBR())
}

func TestLineStringMBRAndClosure(t *testing.T) {
	ls := NewLineString(XY, 3)
	require.NoError(t, ls.SetPointN(0, NewPoint(0, 0)))
	require.NoError(t, ls.SetPointN(1, NewPoint(5, 0)))
	require.NoError(t, ls.SetPointN(2, NewPoint(5, 5)))
	require.False(t, ls.MBR().IsValid())

	ls.ComputeMBR(false)
	require.Equal(t, NewEnvelope(0, 0, 5, 5), ls.MBR())
	require.Equal(t, 3, ls.NumPoints())
	closed, err := ls.IsClosed()
	require.NoError(t, err)
	require.False(t, closed)
	require.Equal(t, 10.0, ls.Length())

	ls.MakeEmpty()
	ls.ComputeMBR(false)
	require.True(t, ls.IsEmpty())
	require.False(t, ls.MBR().IsValid())
	_, err = ls.IsClosed()
	require.True(t, errors.Is(err, ErrInvalidGeometry))
}

func TestLineStringResize(t *testing.T) {
	ls := NewLineString(XYZ, 4)
	for i := 0; i < 4; i++ {
		require.NoError(t, ls.SetCoord(i, Coord2D{X: float64(i), Y: float64(i)}))
		require.NoError(t, ls.SetZ(i, float64(10*i)))
	}
	require.NoError(t, ls.SetNumCoordinates(2))
	require.Equal(t, 2, ls.NumCoordinates())
	_, err := ls.Coord(2)
	require.True(t, errors.Is(err, ErrPreconditionViolation))

	require.NoError(t, ls.SetNumCoordinates(8))
	require.Equal(t, 8, ls.NumCoordinates())
	c, err := ls.Coord(1)
	require.NoError(t, err)
	require.Equal(t, Coord2D{X: 1, Y: 1}, c)
	z, err := ls.Z(1)
	require.NoError(t, err)
	require.Equal(t, 10.0, z)

	require.True(t, errors.Is(ls.SetNumCoordinates(-1), ErrPreconditionViolation))
	_, err = ls.M(0)
	require.True(t, errors.Is(err, ErrPreconditionViolation))
}

func TestSetPointN(t *testing.T) {
	ls := NewLineString(XYZ, 2)
	require.NoError(t, ls.SetPointN(0, NewPointZ(1, 2, 3)))
	require.NoError(t, ls.SetPointN(1, NewPoint(4, 5)))

	p, err := ls.PointN(0)
	require.NoError(t, err)
	require.True(t, p.Equal(NewPointZ(1, 2, 3)))
	z, err := ls.Z(1)
	require.NoError(t, err)
	require.Equal(t, 0.0, z)
	require.True(t, errors.Is(ls.SetPointN(2, NewPoint(0, 0)), ErrPreconditionViolation))
}

// countingRing records how often its owner releases it.
type countingRing struct {
	*LineString
	releases int
}

func (r *countingRing) release() {
	r.releases++
	r.LineString.release()
}

func square(x0, y0, size float64) *LineString {
	return NewLineStringFromCoords(
		Coord2D{X: x0, Y: y0},
		Coord2D{X: x0 + size, Y: y0},
		Coord2D{X: x0 + size, Y: y0 + size},
		Coord2D{X: x0, Y: y0 + size},
		Coord2D{X: x0, Y: y0},
	)
}

func TestPolygonRingOwnership(t *testing.T) {
	poly := NewPolygon(XY)
	old := &countingRing{LineString: square(0, 0, 10)}
	require.NoError(t, poly.AddRing(old))
	require.True(t, IsOwned(old))

	other := NewPolygon(XY)
	require.True(t, errors.Is(other.AddRing(old), ErrPreconditionViolation))

	repl := square(0, 0, 20)
	require.NoError(t, poly.SetRingN(0, repl))
	require.Equal(t, 1, old.releases)
	require.False(t, IsOwned(old))
	require.True(t, IsOwned(repl))

	got, err := poly.RingN(0)
	require.NoError(t, err)
	require.Same(t, repl, got)

	// old is free again and may be adopted elsewhere
	require.NoError(t, other.AddRing(old))
	require.Equal(t, 1, old.releases)

	require.True(t, errors.Is(poly.SetRingN(3, square(0, 0, 1)), ErrPreconditionViolation))
	require.NoError(t, other.RemoveRingN(0))
	require.Equal(t, 2, old.releases)
	require.Equal(t, 0, other.NumRings())
}

func TestPolygonRejectsCurvedRing(t *testing.T) {
	arc := NewCircularStringFromCoords(Coord2D{X: 0, Y: 0}, Coord2D{X: 1, Y: 1}, Coord2D{X: 0, Y: 0})
	require.True(t, errors.Is(NewPolygon(XY).AddRing(arc), ErrPreconditionViolation))
	require.NoError(t, NewCurvePolygon(XY).AddRing(arc))
	require.True(t, errors.Is(NewPolygon(XY).AddRing(NewLineString(XYZ, 0)), ErrPreconditionViolation))
}

func TestPolygonMBRCascade(t *testing.T) {
	poly, err := NewPolygonFromCoords([]Coord2D{{0, 0}, {4, 0}, {4, 4}, {0, 0}})
	require.NoError(t, err)
	require.Equal(t, NewEnvelope(0, 0, 4, 4), poly.MBR())

	ring, err := poly.ExteriorRing()
	require.NoError(t, err)
	ls := ring.(*LineString)
	require.NoError(t, ls.SetCoord(1, Coord2D{X: 9, Y: -1}))

	// without cascade the ring's stale envelope is reused
	poly.ComputeMBR(false)
	require.Equal(t, NewEnvelope(0, 0, 4, 4), poly.MBR())

	poly.ComputeMBR(true)
	require.Equal(t, NewEnvelope(0, -1, 9, 4), poly.MBR())
	require.Equal(t, NewEnvelope(0, -1, 9, 4), ls.MBR())
}

func TestEnvelopePolygon(t *testing.T) {
	p := EnvelopePolygon(NewEnvelope(1, 2, 3, 4))
	require.Equal(t, 1, p.NumRings())
	require.Equal(t, 5, p.NumPoints())
	require.Equal(t, NewEnvelope(1, 2, 3, 4), p.MBR())
	ring, err := p.ExteriorRing()
	require.NoError(t, err)
	closed, err := ring.IsClosed()
	require.NoError(t, err)
	require.True(t, closed)
}

func TestCollectionMembers(t *testing.T) {
	_, err := NewCollection(KindPoint, XY)
	require.True(t, errors.Is(err, ErrPreconditionViolation))

	mp, err := NewCollection(KindMultiPoint, XY)
	require.NoError(t, err)
	require.NoError(t, mp.Add(NewPoint(1, 1)))
	require.NoError(t, mp.Add(NewPoint(-1, 3)))
	require.True(t, errors.Is(mp.Add(square(0, 0, 1)), ErrPreconditionViolation))
	require.True(t, errors.Is(mp.Add(NewPointZ(0, 0, 0)), ErrPreconditionViolation))

	mp.ComputeMBR(false)
	require.Equal(t, NewEnvelope(-1, 1, 1, 3), mp.MBR())
	require.Equal(t, "MultiPoint", mp.Type().String())

	gc, err := NewCollection(KindGeometryCollection, XY)
	require.NoError(t, err)
	require.NoError(t, gc.Add(mp))
	require.NoError(t, gc.Add(square(5, 5, 1)))
	require.Equal(t, 7, gc.NumPoints())

	p := NewPoint(0, 0)
	require.NoError(t, mp.SetGeometryN(0, p))
	require.NoError(t, mp.RemoveGeometryN(0))
	require.False(t, IsOwned(p))
	require.Equal(t, 1, mp.NumGeometries())
}

func TestSRIDPropagates(t *testing.T) {
	poly := NewPolygon(XY)
	ring := square(0, 0, 1)
	poly.SetSRID(4326)
	require.NoError(t, poly.AddRing(ring))
	require.Equal(t, 4326, ring.SRID())
	poly.SetSRID(3857)
	require.Equal(t, 3857, ring.SRID())
}

func TestTransform(t *testing.T) {
	conv := &shiftConverter{dx: 100, dy: 0}
	poly, err := NewPolygonFromCoords([]Coord2D{{0, 0}, {1, 0}, {1, 1}, {0, 0}})
	require.NoError(t, err)

	require.True(t, errors.Is(poly.Transform(conv, 3857), ErrPreconditionViolation))

	poly.SetSRID(4326)
	require.NoError(t, poly.Transform(conv, 3857))
	require.Equal(t, 3857, poly.SRID())
	require.Equal(t, NewEnvelope(100, 0, 101, 1), poly.MBR())

	require.True(t, errors.Is(poly.Transform(nil, 4326), ErrCoordinateTransform))

	pt := NewPointZ(1, 1, 9)
	pt.SetSRID(4326)
	require.NoError(t, pt.Transform(conv, 3857))
	z, err := pt.Z()
	require.NoError(t, err)
	require.Equal(t, 9.0, z)
	require.Equal(t, 101.0, pt.X())
}

func TestCloneIsDeepAndUnowned(t *testing.T) {
	poly, err := NewPolygonFromCoords([]Coord2D{{0, 0}, {1, 0}, {1, 1}, {0, 0}})
	require.NoError(t, err)
	holder := mustCollection(t, KindMultiPolygon)
	require.NoError(t, holder.Add(poly))

	cl := poly.Clone().(*Polygon)
	require.False(t, IsOwned(cl))
	r0, _ := cl.RingN(0)
	require.True(t, IsOwned(r0))
	require.NoError(t, r0.(*LineString).SetCoord(0, Coord2D{X: -5, Y: -5}))

	orig, _ := poly.RingN(0)
	c, _ := orig.(*LineString).Coord(0)
	require.Equal(t, Coord2D{}, c)
}

func mustCollection(t *testing.T, k Kind) *Collection {
	t.Helper()
	c, err := NewCollection(k, XY)
	require.NoError(t, err)
	return c
}

func TestCircularStringLinearize(t *testing.T) {
	cs := NewCircularStringFromCoords(Coord2D{X: -1, Y: 0}, Coord2D{X: 0, Y: 1}, Coord2D{X: 1, Y: 0})
	require.True(t, cs.IsValid())

	ls, err := cs.Linearize(4)
	require.NoError(t, err)
	require.Equal(t, 9, ls.NumPoints())
	for _, c := range ls.Coords() {
		require.InDelta(t, 1.0, math.Hypot(c.X, c.Y), 1e-9)
		require.GreaterOrEqual(t, c.Y, -1e-9)
	}
	end, err := ls.EndPoint()
	require.NoError(t, err)
	require.Equal(t, Coord2D{X: 1, Y: 0}, end.Coord())

	bad := NewCircularString(XY, 4)
	_, err = bad.Linearize(4)
	require.True(t, errors.Is(err, ErrInvalidGeometry))
}

func TestCompoundCurve(t *testing.T) {
	cc := NewCompoundCurve(XY)
	require.NoError(t, cc.AddSegment(NewLineStringFromCoords(Coord2D{X: 1, Y: 0}, Coord2D{X: 0, Y: 0})))
	require.NoError(t, cc.AddSegment(NewCircularStringFromCoords(
		Coord2D{X: 0, Y: 0}, Coord2D{X: 0.5, Y: 0.5}, Coord2D{X: 1, Y: 0})))
	require.True(t, errors.Is(cc.AddSegment(NewCompoundCurve(XY)), ErrPreconditionViolation))

	closed, err := cc.IsClosed()
	require.NoError(t, err)
	require.True(t, closed)

	cc.ComputeMBR(true)
	require.Equal(t, NewEnvelope(0, 0, 1, 0.5), cc.MBR())

	ls, err := cc.Linearize(2)
	require.NoError(t, err)
	first, _ := ls.Coord(0)
	last, _ := ls.Coord(ls.NumCoordinates() - 1)
	require.Equal(t, first, last)
}

func TestMeasuresNeedAlgorithms(t *testing.T) {
	poly, err := NewPolygonFromCoords([]Coord2D{{0, 0}, {1, 0}, {1, 1}, {0, 0}})
	require.NoError(t, err)
	_, err = poly.Area(nil)
	require.True(t, errors.Is(err, ErrUnsupportedOperation))
	_, err = poly.Centroid(nil)
	require.True(t, errors.Is(err, ErrUnsupportedOperation))
	_, err = Crosses(nil, poly, poly)
	require.True(t, errors.Is(err, ErrUnsupportedOperation))
}
