package geom

import "github.com/pkg/errors"

// Algorithms is the planar-geometry collaborator the kernel delegates
// derived measures and spatial predicates to. The kernel's own invariants
// never depend on it.
type Algorithms interface {
	Area(g Geometry) (float64, error)
	Centroid(g Geometry) (*Point, error)
	PointOnSurface(g Geometry) (*Point, error)
	// Contains reports whether b lies inside a.
	Contains(a, b Geometry) (bool, error)
	// Crosses reports whether a and b share some but not all interior
	// points and the intersection has lower dimension than the inputs.
	Crosses(a, b Geometry) (bool, error)
}

func unsupported(op string) error {
	return errors.Wrapf(ErrUnsupportedOperation, "%s: no planar-geometry algorithms available", op)
}

// Area returns the area of g through alg.
func Area(alg Algorithms, g Geometry) (float64, error) {
	if alg == nil {
		return 0, unsupported("area")
	}
	return alg.Area(g)
}

// Centroid returns the centroid of g through alg.
func Centroid(alg Algorithms, g Geometry) (*Point, error) {
	if alg == nil {
		return nil, unsupported("centroid")
	}
	return alg.Centroid(g)
}

// PointOnSurface returns a point guaranteed to lie on g through alg.
func PointOnSurface(alg Algorithms, g Geometry) (*Point, error) {
	if alg == nil {
		return nil, unsupported("point on surface")
	}
	return alg.PointOnSurface(g)
}

// Contains evaluates a contains b through alg.
func Contains(alg Algorithms, a, b Geometry) (bool, error) {
	if alg == nil {
		return false, unsupported("contains")
	}
	return alg.Contains(a, b)
}

// Crosses evaluates a crosses b through alg.
func Crosses(alg Algorithms, a, b Geometry) (bool, error) {
	if alg == nil {
		return false, unsupported("crosses")
	}
	return alg.Crosses(a, b)
}
