package geom

import (
	"fmt"

	"github.com/pkg/errors"
)

// Point is a single position. Its Dim decides whether Z and M are present,
// giving the Point, PointZ, PointM and PointZM types.
type Point struct {
	header
	dim        Dim
	x, y, z, m float64
}

// NewPoint returns a 2D point.
func NewPoint(x, y float64) *Point {
	return newPoint(XY, x, y, 0, 0)
}

// NewPointZ returns a point with elevation.
func NewPointZ(x, y, z float64) *Point {
	return newPoint(XYZ, x, y, z, 0)
}

// NewPointM returns a point with a measure.
func NewPointM(x, y, m float64) *Point {
	return newPoint(XYM, x, y, 0, m)
}

// NewPointZM returns a point with elevation and measure.
func NewPointZM(x, y, z, m float64) *Point {
	return newPoint(XYZM, x, y, z, m)
}

func newPoint(dim Dim, x, y, z, m float64) *Point {
	p := &Point{dim: dim, x: x, y: y, z: z, m: m}
	p.ComputeMBR(false)
	return p
}

func (p *Point) Type() Type { return Type{Kind: KindPoint, Dim: p.dim} }

// Dim returns the point's dimensionality.
func (p *Point) Dim() Dim { return p.dim }

func (p *Point) X() float64 { return p.x }

func (p *Point) Y() float64 { return p.y }

func (p *Point) SetX(v float64) { p.x = v }

func (p *Point) SetY(v float64) { p.y = v }

// Coord returns the X/Y pair.
func (p *Point) Coord() Coord2D { return Coord2D{X: p.x, Y: p.y} }

// SetCoord replaces X and Y.
func (p *Point) SetCoord(c Coord2D) { p.x, p.y = c.X, c.Y }

// Z returns the elevation; it fails for points without Z.
func (p *Point) Z() (float64, error) {
	if !p.dim.HasZ() {
		return 0, errors.Wrapf(ErrPreconditionViolation, "%s has no Z ordinate", p.Type())
	}
	return p.z, nil
}

// M returns the measure; it fails for points without M.
func (p *Point) M() (float64, error) {
	if !p.dim.HasM() {
		return 0, errors.Wrapf(ErrPreconditionViolation, "%s has no M ordinate", p.Type())
	}
	return p.m, nil
}

func (p *Point) SetZ(v float64) error {
	if !p.dim.HasZ() {
		return errors.Wrapf(ErrPreconditionViolation, "%s has no Z ordinate", p.Type())
	}
	p.z = v
	return nil
}

func (p *Point) SetM(v float64) error {
	if !p.dim.HasM() {
		return errors.Wrapf(ErrPreconditionViolation, "%s has no M ordinate", p.Type())
	}
	p.m = v
	return nil
}

func (p *Point) ComputeMBR(bool) {
	p.setMBR(Envelope{LLX: p.x, LLY: p.y, URX: p.x, URY: p.y})
}

func (p *Point) Transform(conv Converter, srid int) error {
	skip, err := p.beginTransform(conv, srid)
	if skip || err != nil {
		return err
	}
	xy := []float64{p.x, p.y}
	if err := convert(conv, p.srid, srid, xy, 1); err != nil {
		return err
	}
	p.x, p.y = xy[0], xy[1]
	p.srid = srid
	if p.mbrSet {
		p.ComputeMBR(false)
	}
	return nil
}

func (p *Point) Clone() Geometry {
	c := *p
	c.header = p.cloneHeader()
	return &c
}

func (p *Point) NumPoints() int { return 1 }

func (p *Point) IsEmpty() bool { return false }

// Equal reports whether both points have the same dimensionality and
// identical ordinates.
func (p *Point) Equal(o *Point) bool {
	if o == nil || p.dim != o.dim || p.x != o.x || p.y != o.y {
		return false
	}
	return (!p.dim.HasZ() || p.z == o.z) && (!p.dim.HasM() || p.m == o.m)
}

func (p *Point) String() string {
	switch p.dim {
	case XYZ:
		return fmt.Sprintf("POINT Z (%g %g %g)", p.x, p.y, p.z)
	case XYM:
		return fmt.Sprintf("POINT M (%g %g %g)", p.x, p.y, p.m)
	case XYZM:
		return fmt.Sprintf("POINT ZM (%g %g %g %g)", p.x, p.y, p.z, p.m)
	}
	return fmt.Sprintf("POINT (%g %g)", p.x, p.y)
}
