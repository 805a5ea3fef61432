// Package geom is the in-memory vector geometry kernel: coordinates,
// envelopes, points, curves, polygons and collections.
//
// Aggregates exclusively own their children. A child added to a polygon,
// compound curve or collection must not already belong to another owner;
// replacing or removing a child releases it. Geometries are not safe for
// concurrent use: callers serialize access per instance.
package geom

import "github.com/pkg/errors"

// Geometry is the capability set shared by every geometry variant. The set of
// implementations is closed to this package.
type Geometry interface {
	Type() Type
	SRID() int
	SetSRID(srid int)
	// MBR returns the envelope computed by the last ComputeMBR call, or an
	// invalid envelope if none was computed.
	MBR() Envelope
	// ComputeMBR recomputes the envelope from the coordinates. For
	// aggregates, cascade also recomputes every child first; otherwise the
	// children's cached envelopes are reused.
	ComputeMBR(cascade bool)
	// Transform reprojects X/Y in place from the current SRID to srid.
	Transform(conv Converter, srid int) error
	Clone() Geometry
	NumPoints() int
	IsEmpty() bool

	hdr() *header
	release()
}

// Curve is a one-dimensional geometry: LineString, CircularString or
// CompoundCurve.
type Curve interface {
	Geometry
	IsClosed() (bool, error)
	StartPoint() (*Point, error)
	EndPoint() (*Point, error)
}

// Converter reprojects coordinates between spatial reference systems. xy is
// an interleaved X/Y buffer holding count pairs, transformed in place.
type Converter interface {
	Convert(srcSRID, dstSRID int, xy []float64, count int) error
}

type header struct {
	srid   int
	mbr    Envelope
	mbrSet bool
	owned  bool
}

func (h *header) SRID() int { return h.srid }

func (h *header) SetSRID(srid int) { h.srid = srid }

func (h *header) MBR() Envelope {
	if !h.mbrSet {
		return EmptyEnvelope()
	}
	return h.mbr
}

func (h *header) setMBR(e Envelope) {
	h.mbr = e
	h.mbrSet = true
}

func (h *header) hdr() *header { return h }

func (h *header) release() { h.owned = false }

// cloneHeader copies SRID and MBR; the clone starts unowned.
func (h *header) cloneHeader() header {
	return header{srid: h.srid, mbr: h.mbr, mbrSet: h.mbrSet}
}

// Adopt records that g now has an owner. It fails if g is nil or already
// owned.
func Adopt(g Geometry) error {
	if g == nil {
		return errors.Wrap(ErrPreconditionViolation, "nil geometry")
	}
	h := g.hdr()
	if h.owned {
		return errors.Wrapf(ErrPreconditionViolation, "%s already has an owner", g.Type())
	}
	h.owned = true
	return nil
}

// Release gives up ownership of g. It is a no-op for nil.
func Release(g Geometry) {
	if g != nil {
		g.release()
	}
}

// IsOwned reports whether g currently belongs to an aggregate or registry.
func IsOwned(g Geometry) bool {
	return g != nil && g.hdr().owned
}

// beginTransform validates a transform request. skip is true when the
// geometry is already in srid.
func (h *header) beginTransform(conv Converter, srid int) (skip bool, err error) {
	if h.srid == srid {
		return true, nil
	}
	if h.srid == 0 || srid == 0 {
		return false, errors.Wrapf(ErrPreconditionViolation, "cannot transform between srid %d and %d", h.srid, srid)
	}
	if conv == nil {
		return false, errors.Wrap(ErrCoordinateTransform, "no converter configured")
	}
	return false, nil
}

func convert(conv Converter, src, dst int, xy []float64, count int) error {
	if err := conv.Convert(src, dst, xy, count); err != nil {
		if errors.Is(err, ErrCoordinateTransform) {
			return err
		}
		return errors.Wrapf(ErrCoordinateTransform, "srid %d to %d: %v", src, dst, err)
	}
	return nil
}
