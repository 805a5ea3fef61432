package geom

import "github.com/pkg/errors"

// CompoundCurve is an ordered chain of LineString and CircularString
// segments. It owns its segments.
type CompoundCurve struct {
	header
	dim      Dim
	segments []Curve
}

// NewCompoundCurve returns an empty compound curve.
func NewCompoundCurve(dim Dim) *CompoundCurve {
	return &CompoundCurve{dim: dim}
}

func (cc *CompoundCurve) Type() Type { return Type{Kind: KindCompoundCurve, Dim: cc.dim} }

// Dim returns the curve's dimensionality.
func (cc *CompoundCurve) Dim() Dim { return cc.dim }

func (cc *CompoundCurve) checkSegment(seg Curve) error {
	if seg == nil {
		return errors.Wrap(ErrPreconditionViolation, "nil segment")
	}
	t := seg.Type()
	if t.Kind != KindLineString && t.Kind != KindCircularString {
		return errors.Wrapf(ErrPreconditionViolation, "%s cannot be a compound curve segment", t)
	}
	if t.Dim != cc.dim {
		return errors.Wrapf(ErrPreconditionViolation, "segment %s in %s compound curve", t, cc.dim)
	}
	return nil
}

// AddSegment appends seg and takes ownership of it.
func (cc *CompoundCurve) AddSegment(seg Curve) error {
	if err := cc.checkSegment(seg); err != nil {
		return err
	}
	if err := Adopt(seg); err != nil {
		return err
	}
	seg.SetSRID(cc.srid)
	cc.segments = append(cc.segments, seg)
	return nil
}

// NumSegments returns the number of segments.
func (cc *CompoundCurve) NumSegments() int { return len(cc.segments) }

// SegmentN returns segment i. The compound curve keeps ownership.
func (cc *CompoundCurve) SegmentN(i int) (Curve, error) {
	if i < 0 || i >= len(cc.segments) {
		return nil, indexError("segment", i, len(cc.segments))
	}
	return cc.segments[i], nil
}

// SetSegmentN replaces segment i with seg, releasing the previous one.
func (cc *CompoundCurve) SetSegmentN(i int, seg Curve) error {
	if i < 0 || i >= len(cc.segments) {
		return indexError("segment", i, len(cc.segments))
	}
	if err := cc.checkSegment(seg); err != nil {
		return err
	}
	if seg == cc.segments[i] {
		return nil
	}
	if err := Adopt(seg); err != nil {
		return err
	}
	cc.segments[i].release()
	seg.SetSRID(cc.srid)
	cc.segments[i] = seg
	return nil
}

// RemoveSegmentN drops segment i and releases it.
func (cc *CompoundCurve) RemoveSegmentN(i int) error {
	if i < 0 || i >= len(cc.segments) {
		return indexError("segment", i, len(cc.segments))
	}
	cc.segments[i].release()
	cc.segments = append(cc.segments[:i], cc.segments[i+1:]...)
	return nil
}

func (cc *CompoundCurve) SetSRID(srid int) {
	cc.srid = srid
	for _, s := range cc.segments {
		s.SetSRID(srid)
	}
}

func (cc *CompoundCurve) ComputeMBR(cascade bool) {
	cc.setMBR(unionMBR(cc.segments, cascade))
}

func (cc *CompoundCurve) Transform(conv Converter, srid int) error {
	skip, err := cc.beginTransform(conv, srid)
	if skip || err != nil {
		return err
	}
	for _, s := range cc.segments {
		if err := s.Transform(conv, srid); err != nil {
			return err
		}
	}
	cc.srid = srid
	if cc.mbrSet {
		cc.ComputeMBR(false)
	}
	return nil
}

func (cc *CompoundCurve) Clone() Geometry {
	out := &CompoundCurve{header: cc.cloneHeader(), dim: cc.dim}
	out.segments = cloneOwned(cc.segments)
	return out
}

func (cc *CompoundCurve) NumPoints() int { return sumPoints(cc.segments) }

func (cc *CompoundCurve) IsEmpty() bool { return cc.NumPoints() == 0 }

// IsClosed compares the first position of the first segment with the last
// position of the last segment.
func (cc *CompoundCurve) IsClosed() (bool, error) {
	if cc.NumPoints() < 2 {
		return false, errors.Wrap(ErrInvalidGeometry, "closure needs at least 2 points")
	}
	start, err := cc.StartPoint()
	if err != nil {
		return false, err
	}
	end, err := cc.EndPoint()
	if err != nil {
		return false, err
	}
	return start.Coord().Equal(end.Coord()), nil
}

func (cc *CompoundCurve) StartPoint() (*Point, error) {
	if len(cc.segments) == 0 {
		return nil, errors.Wrap(ErrInvalidGeometry, "empty compound curve has no start point")
	}
	return cc.segments[0].StartPoint()
}

func (cc *CompoundCurve) EndPoint() (*Point, error) {
	if len(cc.segments) == 0 {
		return nil, errors.Wrap(ErrInvalidGeometry, "empty compound curve has no end point")
	}
	return cc.segments[len(cc.segments)-1].EndPoint()
}

// Linearize flattens every segment into one 2D line string, dropping the
// shared position between consecutive segments.
func (cc *CompoundCurve) Linearize(segmentsPerQuadrant int) (*LineString, error) {
	out := &LineString{curve: curve{dim: XY}}
	out.srid = cc.srid
	for _, s := range cc.segments {
		ls, err := Linearize(s, segmentsPerQuadrant)
		if err != nil {
			return nil, err
		}
		pts := ls.coords
		if n := len(out.coords); n > 0 && len(pts) > 0 && out.coords[n-1].Equal(pts[0]) {
			pts = pts[1:]
		}
		out.coords = append(out.coords, pts...)
	}
	out.ComputeMBR(false)
	return out, nil
}

// Area delegates to the planar-geometry collaborator.
func (cc *CompoundCurve) Area(alg Algorithms) (float64, error) { return Area(alg, cc) }

// Centroid delegates to the planar-geometry collaborator.
func (cc *CompoundCurve) Centroid(alg Algorithms) (*Point, error) { return Centroid(alg, cc) }

// PointOnSurface delegates to the planar-geometry collaborator.
func (cc *CompoundCurve) PointOnSurface(alg Algorithms) (*Point, error) {
	return PointOnSurface(alg, cc)
}

// Linearize returns a 2D line string approximating any curve. Line strings
// are copied to 2D as they are.
func Linearize(c Curve, segmentsPerQuadrant int) (*LineString, error) {
	switch v := c.(type) {
	case *LineString:
		out := &LineString{curve: curve{dim: XY, coords: v.Coords()}}
		out.srid = v.srid
		out.ComputeMBR(false)
		return out, nil
	case *CircularString:
		return v.Linearize(segmentsPerQuadrant)
	case *CompoundCurve:
		return v.Linearize(segmentsPerQuadrant)
	}
	return nil, errors.Wrapf(ErrPreconditionViolation, "cannot linearize %T", c)
}

func unionMBR[T Geometry](children []T, cascade bool) Envelope {
	e := EmptyEnvelope()
	for _, c := range children {
		if cascade {
			c.ComputeMBR(true)
		}
		e.ExpandToEnvelope(c.MBR())
	}
	return e
}

func sumPoints[T Geometry](children []T) int {
	n := 0
	for _, c := range children {
		n += c.NumPoints()
	}
	return n
}

// cloneOwned deep copies children and marks the copies as owned.
func cloneOwned[T Geometry](children []T) []T {
	if children == nil {
		return nil
	}
	out := make([]T, len(children))
	for i, c := range children {
		cl := c.Clone().(T)
		cl.hdr().owned = true
		out[i] = cl
	}
	return out
}
