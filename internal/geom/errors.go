package geom

import "github.com/pkg/errors"

// Error taxonomy shared by the kernel. Callers test with errors.Is; every
// returned error wraps exactly one of these.
var (
	// ErrPreconditionViolation reports an out-of-range index, a missing
	// ordinate or a child that is already owned elsewhere.
	ErrPreconditionViolation = errors.New("precondition violation")
	// ErrInvalidGeometry reports a structural problem found at a boundary,
	// such as IsClosed on a curve with fewer than two points.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrUnsupportedOperation reports a derived measure requested without a
	// planar-geometry collaborator.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrCoordinateTransform reports a failure of the CRS converter.
	ErrCoordinateTransform = errors.New("coordinate transform failed")
)

func indexError(what string, i, n int) error {
	return errors.Wrapf(ErrPreconditionViolation, "%s index %d out of range [0,%d)", what, i, n)
}
