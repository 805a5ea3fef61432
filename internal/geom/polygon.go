package geom

import "github.com/pkg/errors"

// Polygon is a surface bounded by rings: ring 0 is the exterior, the rest
// are holes. A plain Polygon only takes LineString rings; a CurvePolygon
// takes any closed Curve. The polygon owns its rings.
type Polygon struct {
	header
	kind  Kind
	dim   Dim
	rings []Curve
}

// NewPolygon returns an empty polygon with linear rings.
func NewPolygon(dim Dim) *Polygon {
	return &Polygon{kind: KindPolygon, dim: dim}
}

// NewCurvePolygon returns an empty polygon accepting curved rings.
func NewCurvePolygon(dim Dim) *Polygon {
	return &Polygon{kind: KindCurvePolygon, dim: dim}
}

// NewPolygonFromCoords builds a 2D polygon with one ring per coordinate
// slice and computes its MBR.
func NewPolygonFromCoords(rings ...[]Coord2D) (*Polygon, error) {
	p := NewPolygon(XY)
	for _, r := range rings {
		if err := p.AddRing(NewLineStringFromCoords(r...)); err != nil {
			return nil, err
		}
	}
	p.ComputeMBR(false)
	return p, nil
}

// EnvelopePolygon returns the closed rectangle covering e, counterclockwise
// from the lower-left corner.
func EnvelopePolygon(e Envelope) *Polygon {
	ring := NewLineStringFromCoords(
		Coord2D{X: e.LLX, Y: e.LLY},
		Coord2D{X: e.URX, Y: e.LLY},
		Coord2D{X: e.URX, Y: e.URY},
		Coord2D{X: e.LLX, Y: e.URY},
		Coord2D{X: e.LLX, Y: e.LLY},
	)
	p := NewPolygon(XY)
	ring.owned = true
	p.rings = []Curve{ring}
	p.ComputeMBR(false)
	return p
}

func (p *Polygon) Type() Type { return Type{Kind: p.kind, Dim: p.dim} }

// Dim returns the polygon's dimensionality.
func (p *Polygon) Dim() Dim { return p.dim }

func (p *Polygon) checkRing(r Curve) error {
	if r == nil {
		return errors.Wrap(ErrPreconditionViolation, "nil ring")
	}
	t := r.Type()
	if p.kind == KindPolygon && t.Kind != KindLineString {
		return errors.Wrapf(ErrPreconditionViolation, "%s ring in Polygon", t)
	}
	if !t.Kind.IsCurve() {
		return errors.Wrapf(ErrPreconditionViolation, "%s cannot be a ring", t)
	}
	if t.Dim != p.dim {
		return errors.Wrapf(ErrPreconditionViolation, "ring %s in %s polygon", t, p.dim)
	}
	return nil
}

// AddRing appends r and takes ownership of it. The first ring added is the
// exterior.
func (p *Polygon) AddRing(r Curve) error {
	if err := p.checkRing(r); err != nil {
		return err
	}
	if err := Adopt(r); err != nil {
		return err
	}
	r.SetSRID(p.srid)
	p.rings = append(p.rings, r)
	return nil
}

// NumRings returns the ring count including the exterior.
func (p *Polygon) NumRings() int { return len(p.rings) }

// RingN returns ring i. The polygon keeps ownership.
func (p *Polygon) RingN(i int) (Curve, error) {
	if i < 0 || i >= len(p.rings) {
		return nil, indexError("ring", i, len(p.rings))
	}
	return p.rings[i], nil
}

// ExteriorRing returns ring 0.
func (p *Polygon) ExteriorRing() (Curve, error) {
	if len(p.rings) == 0 {
		return nil, errors.Wrap(ErrInvalidGeometry, "polygon has no exterior ring")
	}
	return p.rings[0], nil
}

// SetRingN replaces ring i with r. The previous ring is released exactly
// once.
func (p *Polygon) SetRingN(i int, r Curve) error {
	if i < 0 || i >= len(p.rings) {
		return indexError("ring", i, len(p.rings))
	}
	if err := p.checkRing(r); err != nil {
		return err
	}
	if r == p.rings[i] {
		return nil
	}
	if err := Adopt(r); err != nil {
		return err
	}
	p.rings[i].release()
	r.SetSRID(p.srid)
	p.rings[i] = r
	return nil
}

// RemoveRingN drops ring i and releases it.
func (p *Polygon) RemoveRingN(i int) error {
	if i < 0 || i >= len(p.rings) {
		return indexError("ring", i, len(p.rings))
	}
	p.rings[i].release()
	p.rings = append(p.rings[:i], p.rings[i+1:]...)
	return nil
}

func (p *Polygon) SetSRID(srid int) {
	p.srid = srid
	for _, r := range p.rings {
		r.SetSRID(srid)
	}
}

func (p *Polygon) ComputeMBR(cascade bool) {
	p.setMBR(unionMBR(p.rings, cascade))
}

func (p *Polygon) Transform(conv Converter, srid int) error {
	skip, err := p.beginTransform(conv, srid)
	if skip || err != nil {
		return err
	}
	for _, r := range p.rings {
		if err := r.Transform(conv, srid); err != nil {
			return err
		}
	}
	p.srid = srid
	if p.mbrSet {
		p.ComputeMBR(false)
	}
	return nil
}

func (p *Polygon) Clone() Geometry {
	out := &Polygon{header: p.cloneHeader(), kind: p.kind, dim: p.dim}
	out.rings = cloneOwned(p.rings)
	return out
}

func (p *Polygon) NumPoints() int { return sumPoints(p.rings) }

func (p *Polygon) IsEmpty() bool { return p.NumPoints() == 0 }

// Area delegates to the planar-geometry collaborator.
func (p *Polygon) Area(alg Algorithms) (float64, error) { return Area(alg, p) }

// Centroid delegates to the planar-geometry collaborator.
func (p *Polygon) Centroid(alg Algorithms) (*Point, error) { return Centroid(alg, p) }

// PointOnSurface delegates to the planar-geometry collaborator.
func (p *Polygon) PointOnSurface(alg Algorithms) (*Point, error) { return PointOnSurface(alg, p) }
