package geom

import "github.com/pkg/errors"

// Collection is the aggregate behind MultiPoint, MultiLineString,
// MultiCurve, MultiPolygon, MultiSurface and GeometryCollection. The kind
// restricts which members are accepted. The collection owns its members.
type Collection struct {
	header
	kind    Kind
	dim     Dim
	members []Geometry
}

// NewCollection returns an empty collection of the given kind.
func NewCollection(kind Kind, dim Dim) (*Collection, error) {
	if !kind.IsCollection() {
		return nil, errors.Wrapf(ErrPreconditionViolation, "%s is not a collection kind", kind)
	}
	return &Collection{kind: kind, dim: dim}, nil
}

func (c *Collection) Type() Type { return Type{Kind: c.kind, Dim: c.dim} }

// Dim returns the collection's dimensionality.
func (c *Collection) Dim() Dim { return c.dim }

func (c *Collection) accepts(k Kind) bool {
	switch c.kind {
	case KindMultiPoint:
		return k == KindPoint
	case KindMultiLineString:
		return k == KindLineString
	case KindMultiCurve:
		return k.IsCurve()
	case KindMultiPolygon:
		return k == KindPolygon
	case KindMultiSurface:
		return k.IsSurface()
	}
	return true
}

func (c *Collection) checkMember(g Geometry) error {
	if g == nil {
		return errors.Wrap(ErrPreconditionViolation, "nil member")
	}
	t := g.Type()
	if !c.accepts(t.Kind) {
		return errors.Wrapf(ErrPreconditionViolation, "%s cannot hold %s", c.kind, t)
	}
	if t.Dim != c.dim {
		return errors.Wrapf(ErrPreconditionViolation, "member %s in %s collection", t, c.dim)
	}
	return nil
}

// Add appends g and takes ownership of it.
func (c *Collection) Add(g Geometry) error {
	if err := c.checkMember(g); err != nil {
		return err
	}
	if err := Adopt(g); err != nil {
		return err
	}
	g.SetSRID(c.srid)
	c.members = append(c.members, g)
	return nil
}

func (c *Collection) NumGeometries() int { return len(c.members) }

// GeometryN returns member i. The collection keeps ownership.
func (c *Collection) GeometryN(i int) (Geometry, error) {
	if i < 0 || i >= len(c.members) {
		return nil, indexError("member", i, len(c.members))
	}
	return c.members[i], nil
}

// SetGeometryN replaces member i, releasing the previous one.
func (c *Collection) SetGeometryN(i int, g Geometry) error {
	if i < 0 || i >= len(c.members) {
		return indexError("member", i, len(c.members))
	}
	if err := c.checkMember(g); err != nil {
		return err
	}
	if g == c.members[i] {
		return nil
	}
	if err := Adopt(g); err != nil {
		return err
	}
	c.members[i].release()
	g.SetSRID(c.srid)
	c.members[i] = g
	return nil
}

// RemoveGeometryN drops member i and releases it.
func (c *Collection) RemoveGeometryN(i int) error {
	if i < 0 || i >= len(c.members) {
		return indexError("member", i, len(c.members))
	}
	c.members[i].release()
	c.members = append(c.members[:i], c.members[i+1:]...)
	return nil
}

func (c *Collection) SetSRID(srid int) {
	c.srid = srid
	for _, m := range c.members {
		m.SetSRID(srid)
	}
}

func (c *Collection) ComputeMBR(cascade bool) {
	c.setMBR(unionMBR(c.members, cascade))
}

func (c *Collection) Transform(conv Converter, srid int) error {
	skip, err := c.beginTransform(conv, srid)
	if skip || err != nil {
		return err
	}
	for _, m := range c.members {
		if err := m.Transform(conv, srid); err != nil {
			return err
		}
	}
	c.srid = srid
	if c.mbrSet {
		c.ComputeMBR(false)
	}
	return nil
}

func (c *Collection) Clone() Geometry {
	out := &Collection{header: c.cloneHeader(), kind: c.kind, dim: c.dim}
	out.members = cloneOwned(c.members)
	return out
}

func (c *Collection) NumPoints() int { return sumPoints(c.members) }

func (c *Collection) IsEmpty() bool { return c.NumPoints() == 0 }

// Area delegates to the planar-geometry collaborator.
func (c *Collection) Area(alg Algorithms) (float64, error) { return Area(alg, c) }

// Centroid delegates to the planar-geometry collaborator.
func (c *Collection) Centroid(alg Algorithms) (*Point, error) { return Centroid(alg, c) }

// PointOnSurface delegates to the planar-geometry collaborator.
func (c *Collection) PointOnSurface(alg Algorithms) (*Point, error) {
	return PointOnSurface(alg, c)
}
