package planar

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geomap/internal/edit"
	"geomap/internal/geom"
)

func polygon(t *testing.T, coords ...geom.Coord2D) *geom.Polygon {
	t.Helper()
	p, err := geom.NewPolygonFromCoords(coords)
	require.NoError(t, err)
	return p
}

func square(t *testing.T, x0, y0, size float64) *geom.Polygon {
	return polygon(t,
		geom.Coord2D{X: x0, Y: y0},
		geom.Coord2D{X: x0 + size, Y: y0},
		geom.Coord2D{X: x0 + size, Y: y0 + size},
		geom.Coord2D{X: x0, Y: y0 + size},
		geom.Coord2D{X: x0, Y: y0},
	)
}

func line(coords ...geom.Coord2D) *geom.LineString {
	return geom.NewLineStringFromCoords(coords...)
}

func TestAreaAndCentroid(t *testing.T) {
	alg := New()
	sq := square(t, 0, 0, 10)

	area, err := sq.Area(alg)
	require.NoError(t, err)
	assert.InDelta(t, 100, area, 1e-9)

	c, err := sq.Centroid(alg)
	require.NoError(t, err)
	assert.InDelta(t, 5, c.X(), 1e-9)
	assert.InDelta(t, 5, c.Y(), 1e-9)

	area, err = alg.Area(line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 4, Y: 0}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, area)

	c, err = alg.Centroid(line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 4, Y: 0}))
	require.NoError(t, err)
	assert.Equal(t, geom.Coord2D{X: 2, Y: 0}, c.Coord())
}

func TestCentroidOfMultiPoint(t *testing.T) {
	mp, err := geom.NewCollection(geom.KindMultiPoint, geom.XY)
	require.NoError(t, err)
	require.NoError(t, mp.Add(geom.NewPoint(0, 0)))
	require.NoError(t, mp.Add(geom.NewPoint(4, 2)))
	mp.SetSRID(3857)

	c, err := mp.Centroid(New())
	require.NoError(t, err)
	assert.Equal(t, geom.Coord2D{X: 2, Y: 1}, c.Coord())
	assert.Equal(t, 3857, c.SRID())
}

func TestPointOnSurfaceConcave(t *testing.T) {
	u := polygon(t,
		geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 10, Y: 0}, geom.Coord2D{X: 10, Y: 10},
		geom.Coord2D{X: 7, Y: 10}, geom.Coord2D{X: 7, Y: 3}, geom.Coord2D{X: 3, Y: 3},
		geom.Coord2D{X: 3, Y: 10}, geom.Coord2D{X: 0, Y: 10}, geom.Coord2D{X: 0, Y: 0},
	)
	alg := New()

	area, err := u.Area(alg)
	require.NoError(t, err)
	assert.InDelta(t, 72, area, 1e-9)

	c, err := u.Centroid(alg)
	require.NoError(t, err)
	inside, err := alg.Contains(u, c)
	require.NoError(t, err)
	assert.False(t, inside)

	p, err := u.PointOnSurface(alg)
	require.NoError(t, err)
	assert.Equal(t, geom.Coord2D{X: 1.5, Y: 5}, p.Coord())
	inside, err = alg.Contains(u, p)
	require.NoError(t, err)
	assert.True(t, inside)
}

func TestContains(t *testing.T) {
	alg := New()
	sq := square(t, 0, 0, 10)

	cases := []struct {
		name string
		g    geom.Geometry
		want bool
	}{
		{"interior point", geom.NewPoint(5, 5), true},
		{"exterior point", geom.NewPoint(15, 5), false},
		{"inner line", line(geom.Coord2D{X: 1, Y: 1}, geom.Coord2D{X: 9, Y: 2}), true},
		{"line leaving", line(geom.Coord2D{X: 1, Y: 1}, geom.Coord2D{X: 19, Y: 2}), false},
		{"inner square", square(t, 2, 2, 3), true},
		{"overlapping square", square(t, 5, 5, 10), false},
		{"line on edge", line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 10, Y: 0}), false},
		{"line along edge then inside", line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 10, Y: 0}, geom.Coord2D{X: 5, Y: 5}), true},
		{"same square", square(t, 0, 0, 10), true},
		{"point on edge", geom.NewPoint(10, 5), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := alg.Contains(sq, tc.g)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	got, err := alg.Contains(geom.NewPoint(1, 1), sq)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = alg.Contains(line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 10, Y: 10}), geom.NewPoint(5, 5))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestContainsConcaveLine(t *testing.T) {
	u := polygon(t,
		geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 10, Y: 0}, geom.Coord2D{X: 10, Y: 10},
		geom.Coord2D{X: 7, Y: 10}, geom.Coord2D{X: 7, Y: 3}, geom.Coord2D{X: 3, Y: 3},
		geom.Coord2D{X: 3, Y: 10}, geom.Coord2D{X: 0, Y: 10}, geom.Coord2D{X: 0, Y: 0},
	)
	// both ends inside the arms, but the line passes through the notch
	got, err := New().Contains(u, line(geom.Coord2D{X: 1, Y: 8}, geom.Coord2D{X: 9, Y: 8}))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCrosses(t *testing.T) {
	alg := New()
	sq := square(t, 0, 0, 10)

	cases := []struct {
		name string
		a, b geom.Geometry
		want bool
	}{
		{"line through edge", line(geom.Coord2D{X: -5, Y: 5}, geom.Coord2D{X: 5, Y: 5}), sq, true},
		{"surface then line", sq, line(geom.Coord2D{X: -5, Y: 5}, geom.Coord2D{X: 5, Y: 5}), true},
		{"line inside", line(geom.Coord2D{X: 2, Y: 2}, geom.Coord2D{X: 8, Y: 8}), sq, false},
		{"line outside", line(geom.Coord2D{X: 20, Y: 2}, geom.Coord2D{X: 28, Y: 8}), sq, false},
		{"two surfaces", square(t, 5, 5, 10), sq, false},
		{"point", geom.NewPoint(5, 5), sq, false},
		{"crossing lines",
			line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 10, Y: 10}),
			line(geom.Coord2D{X: 0, Y: 10}, geom.Coord2D{X: 10, Y: 0}), true},
		{"touching at endpoints",
			line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 5, Y: 5}),
			line(geom.Coord2D{X: 5, Y: 5}, geom.Coord2D{X: 10, Y: 0}), false},
		{"endpoint on interior",
			line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 10, Y: 0}),
			line(geom.Coord2D{X: 5, Y: 0}, geom.Coord2D{X: 5, Y: 5}), false},
		{"crossing at a vertex",
			line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 5, Y: 5}, geom.Coord2D{X: 10, Y: 10}),
			line(geom.Coord2D{X: 0, Y: 10}, geom.Coord2D{X: 10, Y: 0}), true},
		{"line along edge", line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 10, Y: 0}), sq, false},
		{"parallel lines",
			line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 10, Y: 0}),
			line(geom.Coord2D{X: 0, Y: 1}, geom.Coord2D{X: 10, Y: 1}), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := alg.Crosses(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestContainsWithHole(t *testing.T) {
	ring, err := geom.NewPolygonFromCoords([]geom.Coord2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
	}, []geom.Coord2D{
		{X: 4, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 6}, {X: 4, Y: 6}, {X: 4, Y: 4},
	})
	require.NoError(t, err)
	alg := New()

	got, err := alg.Contains(ring, square(t, 1, 1, 2))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = alg.Contains(ring, square(t, 3, 3, 4))
	require.NoError(t, err)
	assert.False(t, got)

	got, err = alg.Contains(ring, geom.NewPoint(5, 5))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestIdentifySkipsLineOnWindowEdge(t *testing.T) {
	r, err := edit.NewRegistry(edit.Options{SRID: 4326, Algorithms: New()})
	require.NoError(t, err)
	require.NoError(t, r.Add(edit.ID("fence"), line(geom.Coord2D{X: 0, Y: 0}, geom.Coord2D{X: 1, Y: 0})))

	_, ok, err := r.GetGeometry(geom.NewEnvelope(0, 0, 1, 1), 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCircularStringIsLinearized(t *testing.T) {
	arc := geom.NewCircularStringFromCoords(
		geom.Coord2D{X: -1, Y: 5}, geom.Coord2D{X: 5, Y: 11}, geom.Coord2D{X: 11, Y: 5})
	got, err := New().Crosses(arc, square(t, 0, 0, 10))
	require.NoError(t, err)
	assert.True(t, got)

	bad := geom.NewCircularString(geom.XY, 2)
	_, err = New().Area(bad)
	assert.True(t, errors.Is(err, geom.ErrInvalidGeometry))
}

func TestEmptyCentroid(t *testing.T) {
	_, err := New().Centroid(geom.NewLineString(geom.XY, 0))
	assert.True(t, errors.Is(err, geom.ErrInvalidGeometry))
}

func TestIdentifyWithRegistry(t *testing.T) {
	r, err := edit.NewRegistry(edit.Options{SRID: 4326, Algorithms: New()})
	require.NoError(t, err)
	require.NoError(t, r.Add(edit.ID("field"), square(t, 0, 0, 10)))
	require.NoError(t, r.Add(edit.ID("road"), line(geom.Coord2D{X: -5, Y: 20}, geom.Coord2D{X: 25, Y: 20})))
	require.NoError(t, r.Add(edit.ID("well"), geom.NewPoint(30, 30)))

	f, ok, err := r.GetGeometry(geom.EnvelopeAround(geom.Coord2D{X: 5, Y: 5}, 0.5), 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "field", f.ID.String())

	f, ok, err = r.GetGeometry(geom.EnvelopeAround(geom.Coord2D{X: 10, Y: 20}, 0.5), 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "road", f.ID.String())

	f, ok, err = r.GetGeometry(geom.EnvelopeAround(geom.Coord2D{X: 30, Y: 30}, 0.5), 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "well", f.ID.String())

	_, ok, err = r.GetGeometry(geom.EnvelopeAround(geom.Coord2D{X: 50, Y: 50}, 0.5), 0)
	require.NoError(t, err)
	assert.False(t, ok)
}
