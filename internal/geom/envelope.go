package geom

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Envelope is an axis-aligned minimum bounding rectangle. An envelope with
// LLX > URX or LLY > URY is invalid and stands for "no coordinates yet".
type Envelope struct {
	LLX, LLY, URX, URY float64
}

// EmptyEnvelope returns the invalid sentinel envelope.
func EmptyEnvelope() Envelope {
	return Envelope{
		LLX: math.Inf(1),
		LLY: math.Inf(1),
		URX: math.Inf(-1),
		URY: math.Inf(-1),
	}
}

// NewEnvelope builds an envelope from explicit bounds. The bounds are taken
// as given, so swapped corners produce an invalid envelope.
func NewEnvelope(llx, lly, urx, ury float64) Envelope {
	return Envelope{LLX: llx, LLY: lly, URX: urx, URY: ury}
}

// EnvelopeAround returns the envelope of size 2*r centred on c.
func EnvelopeAround(c Coord2D, r float64) Envelope {
	return Envelope{LLX: c.X - r, LLY: c.Y - r, URX: c.X + r, URY: c.Y + r}
}

// IsValid reports whether the envelope covers at least one point.
func (e Envelope) IsValid() bool {
	return e.LLX <= e.URX && e.LLY <= e.URY
}

// MakeInvalid resets e to the empty sentinel.
func (e *Envelope) MakeInvalid() {
	*e = EmptyEnvelope()
}

// ExpandToInclude grows e to contain (x, y). An invalid envelope becomes the
// degenerate envelope at that point.
func (e *Envelope) ExpandToInclude(x, y float64) {
	if !e.IsValid() {
		*e = Envelope{LLX: x, LLY: y, URX: x, URY: y}
		return
	}
	e.LLX = math.Min(e.LLX, x)
	e.LLY = math.Min(e.LLY, y)
	e.URX = math.Max(e.URX, x)
	e.URY = math.Max(e.URY, y)
}

// ExpandToEnvelope grows e to contain o. An invalid o leaves e unchanged and
// an invalid e becomes o.
func (e *Envelope) ExpandToEnvelope(o Envelope) {
	if !o.IsValid() {
		return
	}
	if !e.IsValid() {
		*e = o
		return
	}
	e.LLX = math.Min(e.LLX, o.LLX)
	e.LLY = math.Min(e.LLY, o.LLY)
	e.URX = math.Max(e.URX, o.URX)
	e.URY = math.Max(e.URY, o.URY)
}

// Union returns the smallest envelope containing e and o. Invalid operands
// act as the identity.
func (e Envelope) Union(o Envelope) Envelope {
	e.ExpandToEnvelope(o)
	return e
}

// Intersects reports whether the closed rectangles overlap; touching edges
// count.
func (e Envelope) Intersects(o Envelope) bool {
	if !e.IsValid() || !o.IsValid() {
		return false
	}
	return e.LLX <= o.URX && e.URX >= o.LLX && e.LLY <= o.URY && e.URY >= o.LLY
}

// Contains reports whether o lies inside e or on its boundary.
func (e Envelope) Contains(o Envelope) bool {
	if !e.IsValid() || !o.IsValid() {
		return false
	}
	return o.LLX >= e.LLX && o.URX <= e.URX && o.LLY >= e.LLY && o.URY <= e.URY
}

// ContainsPoint reports whether c lies inside e or on its boundary.
func (e Envelope) ContainsPoint(c Coord2D) bool {
	return e.IsValid() && c.X >= e.LLX && c.X <= e.URX && c.Y >= e.LLY && c.Y <= e.URY
}

// Distance returns the distance between the nearest edges of e and o, or 0
// when they intersect.
func (e Envelope) Distance(o Envelope) float64 {
	if e.Intersects(o) {
		return 0
	}
	var dx, dy float64
	if e.URX < o.LLX {
		dx = o.LLX - e.URX
	} else if e.LLX > o.URX {
		dx = e.LLX - o.URX
	}
	if e.URY < o.LLY {
		dy = o.LLY - e.URY
	} else if e.LLY > o.URY {
		dy = e.LLY - o.URY
	}
	if dx == 0 {
		return dy
	}
	if dy == 0 {
		return dx
	}
	return math.Sqrt(dx*dx + dy*dy)
}

// Center returns the midpoint of the envelope.
func (e Envelope) Center() Coord2D {
	return Coord2D{X: (e.LLX + e.URX) / 2, Y: (e.LLY + e.URY) / 2}
}

// Width is URX-LLX, or 0 for an invalid envelope.
func (e Envelope) Width() float64 {
	if !e.IsValid() {
		return 0
	}
	return e.URX - e.LLX
}

// Height is URY-LLY, or 0 for an invalid envelope.
func (e Envelope) Height() float64 {
	if !e.IsValid() {
		return 0
	}
	return e.URY - e.LLY
}

// Area of the rectangle.
func (e Envelope) Area() float64 {
	return e.Width() * e.Height()
}

// Equal compares bounds exactly. All invalid envelopes are equal.
func (e Envelope) Equal(o Envelope) bool {
	if !e.IsValid() || !o.IsValid() {
		return e.IsValid() == o.IsValid()
	}
	return e == o
}

// Transform reprojects the lower-left and upper-right corners from oldSRID
// to newSRID. Only the two corners are converted, so for projections that
// curve or rotate the axes the result can be smaller than the true
// envelope of the reprojected area.
func (e *Envelope) Transform(conv Converter, oldSRID, newSRID int) error {
	if oldSRID == newSRID || !e.IsValid() {
		return nil
	}
	if conv == nil {
		return errors.Wrap(ErrCoordinateTransform, "no converter configured")
	}
	xy := []float64{e.LLX, e.LLY, e.URX, e.URY}
	if err := convert(conv, oldSRID, newSRID, xy, 2); err != nil {
		return err
	}
	e.LLX, e.LLY, e.URX, e.URY = xy[0], xy[1], xy[2], xy[3]
	return nil
}

func (e Envelope) String() string {
	if !e.IsValid() {
		return "ENVELOPE(EMPTY)"
	}
	return fmt.Sprintf("ENVELOPE(%g %g, %g %g)", e.LLX, e.LLY, e.URX, e.URY)
}
