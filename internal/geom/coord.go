package geom

import "fmt"

// Coord2D is a planar coordinate pair.
type Coord2D struct {
	X, Y float64
}

// Equal reports exact equality; no tolerance is applied.
func (c Coord2D) Equal(o Coord2D) bool {
	return c.X == o.X && c.Y == o.Y
}

// Less orders coordinates by X, then Y.
func (c Coord2D) Less(o Coord2D) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

// Compare returns -1, 0 or +1 following the Less ordering.
func (c Coord2D) Compare(o Coord2D) int {
	switch {
	case c.Less(o):
		return -1
	case o.Less(c):
		return 1
	}
	return 0
}

func (c Coord2D) String() string {
	return fmt.Sprintf("(%g %g)", c.X, c.Y)
}
