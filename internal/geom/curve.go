package geom

import (
	"github.com/pkg/errors"
)

// curve is the coordinate buffer shared by LineString and CircularString.
// z and m are present iff dim says so, and always have len(coords) entries.
type curve struct {
	header
	dim    Dim
	coords []Coord2D
	z, m   []float64
}

func newCurve(dim Dim, n int) curve {
	c := curve{dim: dim, coords: make([]Coord2D, n)}
	if dim.HasZ() {
		c.z = make([]float64, n)
	}
	if dim.HasM() {
		c.m = make([]float64, n)
	}
	return c
}

func (c *curve) cloneCurve() curve {
	out := curve{header: c.cloneHeader(), dim: c.dim}
	out.coords = append([]Coord2D(nil), c.coords...)
	if c.z != nil {
		out.z = append([]float64(nil), c.z...)
	}
	if c.m != nil {
		out.m = append([]float64(nil), c.m...)
	}
	return out
}

// Dim returns the curve's dimensionality.
func (c *curve) Dim() Dim { return c.dim }

// NumCoordinates is the number of stored positions.
func (c *curve) NumCoordinates() int { return len(c.coords) }

func (c *curve) NumPoints() int { return len(c.coords) }

func (c *curve) IsEmpty() bool { return len(c.coords) == 0 }

// SetNumCoordinates resizes the buffer to exactly n positions, keeping the
// first min(old, n). Z and M follow in lock step. New slots are not
// guaranteed to be zero: growing back into previously used capacity exposes
// the old values, so callers must write every new position before reading
// it.
func (c *curve) SetNumCoordinates(n int) error {
	if n < 0 {
		return errors.Wrapf(ErrPreconditionViolation, "negative coordinate count %d", n)
	}
	c.coords = resizeCoords(c.coords, n)
	if c.dim.HasZ() {
		c.z = resizeFloats(c.z, n)
	}
	if c.dim.HasM() {
		c.m = resizeFloats(c.m, n)
	}
	return nil
}

func resizeCoords(s []Coord2D, n int) []Coord2D {
	if n <= cap(s) {
		return s[:n]
	}
	out := make([]Coord2D, n)
	copy(out, s)
	return out
}

func resizeFloats(s []float64, n int) []float64 {
	if n <= cap(s) {
		return s[:n]
	}
	out := make([]float64, n)
	copy(out, s)
	return out
}

// MakeEmpty drops every position and releases the storage.
func (c *curve) MakeEmpty() {
	c.coords = nil
	c.z = nil
	c.m = nil
}

func (c *curve) check(i int) error {
	if i < 0 || i >= len(c.coords) {
		return indexError("point", i, len(c.coords))
	}
	return nil
}

// PointN returns a new point holding position i, with the curve's
// dimensionality and SRID.
func (c *curve) PointN(i int) (*Point, error) {
	if err := c.check(i); err != nil {
		return nil, err
	}
	p := &Point{dim: c.dim, x: c.coords[i].X, y: c.coords[i].Y}
	if c.dim.HasZ() {
		p.z = c.z[i]
	}
	if c.dim.HasM() {
		p.m = c.m[i]
	}
	p.srid = c.srid
	p.ComputeMBR(false)
	return p, nil
}

// SetPointN writes p into position i. Z and M are copied when both the
// curve and p carry them; an ordinate the curve carries but p lacks is
// written as 0.
func (c *curve) SetPointN(i int, p *Point) error {
	if p == nil {
		return errors.Wrap(ErrPreconditionViolation, "nil point")
	}
	if err := c.check(i); err != nil {
		return err
	}
	c.coords[i] = Coord2D{X: p.x, Y: p.y}
	if c.dim.HasZ() {
		c.z[i] = 0
		if p.dim.HasZ() {
			c.z[i] = p.z
		}
	}
	if c.dim.HasM() {
		c.m[i] = 0
		if p.dim.HasM() {
			c.m[i] = p.m
		}
	}
	return nil
}

func (c *curve) Coord(i int) (Coord2D, error) {
	if err := c.check(i); err != nil {
		return Coord2D{}, err
	}
	return c.coords[i], nil
}

func (c *curve) SetCoord(i int, v Coord2D) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.coords[i] = v
	return nil
}

// Coords returns a copy of the X/Y buffer.
func (c *curve) Coords() []Coord2D {
	return append([]Coord2D(nil), c.coords...)
}

func (c *curve) X(i int) (float64, error) {
	if err := c.check(i); err != nil {
		return 0, err
	}
	return c.coords[i].X, nil
}

func (c *curve) Y(i int) (float64, error) {
	if err := c.check(i); err != nil {
		return 0, err
	}
	return c.coords[i].Y, nil
}

func (c *curve) SetX(i int, v float64) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.coords[i].X = v
	return nil
}

func (c *curve) SetY(i int, v float64) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.coords[i].Y = v
	return nil
}

// Z returns the elevation at i. It fails if the curve has no Z ordinate.
func (c *curve) Z(i int) (float64, error) {
	if !c.dim.HasZ() {
		return 0, errors.Wrapf(ErrPreconditionViolation, "%s curve has no Z ordinate", c.dim)
	}
	if err := c.check(i); err != nil {
		return 0, err
	}
	return c.z[i], nil
}

// M returns the measure at i. It fails if the curve has no M ordinate.
func (c *curve) M(i int) (float64, error) {
	if !c.dim.HasM() {
		return 0, errors.Wrapf(ErrPreconditionViolation, "%s curve has no M ordinate", c.dim)
	}
	if err := c.check(i); err != nil {
		return 0, err
	}
	return c.m[i], nil
}

func (c *curve) SetZ(i int, v float64) error {
	if !c.dim.HasZ() {
		return errors.Wrapf(ErrPreconditionViolation, "%s curve has no Z ordinate", c.dim)
	}
	if err := c.check(i); err != nil {
		return err
	}
	c.z[i] = v
	return nil
}

func (c *curve) SetM(i int, v float64) error {
	if !c.dim.HasM() {
		return errors.Wrapf(ErrPreconditionViolation, "%s curve has no M ordinate", c.dim)
	}
	if err := c.check(i); err != nil {
		return err
	}
	c.m[i] = v
	return nil
}

// ComputeMBR scans every stored position. An empty curve keeps an invalid
// envelope.
func (c *curve) ComputeMBR(bool) {
	e := EmptyEnvelope()
	for _, p := range c.coords {
		e.ExpandToInclude(p.X, p.Y)
	}
	c.setMBR(e)
}

// Transform converts X/Y through conv; Z and M are left untouched.
func (c *curve) Transform(conv Converter, srid int) error {
	skip, err := c.beginTransform(conv, srid)
	if skip || err != nil {
		return err
	}
	xy := make([]float64, 2*len(c.coords))
	for i, p := range c.coords {
		xy[2*i], xy[2*i+1] = p.X, p.Y
	}
	if err := convert(conv, c.srid, srid, xy, len(c.coords)); err != nil {
		return err
	}
	for i := range c.coords {
		c.coords[i] = Coord2D{X: xy[2*i], Y: xy[2*i+1]}
	}
	c.srid = srid
	if c.mbrSet {
		c.ComputeMBR(false)
	}
	return nil
}

// IsClosed reports whether the first and last positions are equal.
func (c *curve) IsClosed() (bool, error) {
	if len(c.coords) < 2 {
		return false, errors.Wrapf(ErrInvalidGeometry, "closure needs at least 2 points, have %d", len(c.coords))
	}
	return c.coords[0].Equal(c.coords[len(c.coords)-1]), nil
}

func (c *curve) StartPoint() (*Point, error) {
	if len(c.coords) == 0 {
		return nil, errors.Wrap(ErrInvalidGeometry, "empty curve has no start point")
	}
	return c.PointN(0)
}

func (c *curve) EndPoint() (*Point, error) {
	if len(c.coords) == 0 {
		return nil, errors.Wrap(ErrInvalidGeometry, "empty curve has no end point")
	}
	return c.PointN(len(c.coords) - 1)
}

// Reverse flips the order of the positions in place.
func (c *curve) Reverse() {
	for i, j := 0, len(c.coords)-1; i < j; i, j = i+1, j-1 {
		c.coords[i], c.coords[j] = c.coords[j], c.coords[i]
		if c.z != nil {
			c.z[i], c.z[j] = c.z[j], c.z[i]
		}
		if c.m != nil {
			c.m[i], c.m[j] = c.m[j], c.m[i]
		}
	}
}
