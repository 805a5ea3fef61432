package geom

import (
	"math"

	"github.com/pkg/errors"
)

// DefaultSegmentsPerQuadrant is the arc resolution used by Linearize when
// the caller passes a non-positive value.
const DefaultSegmentsPerQuadrant = 8

// CircularString is a curve made of circular arcs. Each arc runs through
// three positions and consecutive arcs share their end points, so a valid
// string has 0 or an odd number (≥3) of positions.
type CircularString struct {
	curve
}

// NewCircularString allocates a circular string with n positions.
func NewCircularString(dim Dim, n int) *CircularString {
	return &CircularString{curve: newCurve(dim, n)}
}

// NewCircularStringFromCoords builds a 2D circular string and computes its
// MBR. The MBR covers the control points only, not the arc bulge.
func NewCircularStringFromCoords(coords ...Coord2D) *CircularString {
	cs := &CircularString{curve: curve{dim: XY, coords: append([]Coord2D(nil), coords...)}}
	cs.ComputeMBR(false)
	return cs
}

func (cs *CircularString) Type() Type { return Type{Kind: KindCircularString, Dim: cs.dim} }

func (cs *CircularString) Clone() Geometry {
	return &CircularString{curve: cs.cloneCurve()}
}

// IsValid reports whether the position count forms whole arcs.
func (cs *CircularString) IsValid() bool {
	n := len(cs.coords)
	return n == 0 || (n >= 3 && n%2 == 1)
}

// Linearize approximates the arcs with a 2D line string. Collinear arcs
// degrade to their straight segments.
func (cs *CircularString) Linearize(segmentsPerQuadrant int) (*LineString, error) {
	if !cs.IsValid() {
		return nil, errors.Wrapf(ErrInvalidGeometry, "circular string with %d points", len(cs.coords))
	}
	if segmentsPerQuadrant <= 0 {
		segmentsPerQuadrant = DefaultSegmentsPerQuadrant
	}
	out := &LineString{curve: curve{dim: XY}}
	out.srid = cs.srid
	if len(cs.coords) > 0 {
		out.coords = append(out.coords, cs.coords[0])
	}
	for i := 0; i+2 < len(cs.coords); i += 2 {
		out.coords = appendArc(out.coords, cs.coords[i], cs.coords[i+1], cs.coords[i+2], segmentsPerQuadrant)
	}
	out.ComputeMBR(false)
	return out, nil
}

// appendArc appends the arc p0-p1-p2 to dst, excluding p0.
func appendArc(dst []Coord2D, p0, p1, p2 Coord2D, perQuadrant int) []Coord2D {
	var (
		center Coord2D
		radius float64
		sweep  float64
	)
	if p0.Equal(p2) {
		// full circle with p0-p1 as its diameter
		center = Coord2D{X: (p0.X + p1.X) / 2, Y: (p0.Y + p1.Y) / 2}
		radius = math.Hypot(p0.X-center.X, p0.Y-center.Y)
		sweep = 2 * math.Pi
	} else {
		var ok bool
		center, radius, ok = circumcircle(p0, p1, p2)
		if !ok {
			return append(dst, p1, p2)
		}
		a0 := math.Atan2(p0.Y-center.Y, p0.X-center.X)
		a2 := math.Atan2(p2.Y-center.Y, p2.X-center.X)
		sweep = a2 - a0
		cross := (p1.X-p0.X)*(p2.Y-p1.Y) - (p1.Y-p0.Y)*(p2.X-p1.X)
		if cross > 0 {
			if sweep <= 0 {
				sweep += 2 * math.Pi
			}
		} else if sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	}
	if radius == 0 {
		return append(dst, p2)
	}
	start := math.Atan2(p0.Y-center.Y, p0.X-center.X)
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2) * float64(perQuadrant)))
	if n < 1 {
		n = 1
	}
	for k := 1; k < n; k++ {
		a := start + sweep*float64(k)/float64(n)
		dst = append(dst, Coord2D{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)})
	}
	return append(dst, p2)
}

// circumcircle returns the circle through three points; ok is false when
// they are collinear.
func circumcircle(a, b, c Coord2D) (center Coord2D, radius float64, ok bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if d == 0 {
		return Coord2D{}, 0, false
	}
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	center = Coord2D{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
	return center, math.Hypot(a.X-center.X, a.Y-center.Y), true
}
