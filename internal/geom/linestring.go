package geom

import "math"

// LineString is a curve with linear interpolation between positions.
type LineString struct {
	curve
}

// NewLineString allocates a line string with n positions.
func NewLineString(dim Dim, n int) *LineString {
	return &LineString{curve: newCurve(dim, n)}
}

// NewLineStringFromCoords builds a 2D line string and computes its MBR.
func NewLineStringFromCoords(coords ...Coord2D) *LineString {
	ls := &LineString{curve: curve{dim: XY, coords: append([]Coord2D(nil), coords...)}}
	ls.ComputeMBR(false)
	return ls
}

func (ls *LineString) Type() Type { return Type{Kind: KindLineString, Dim: ls.dim} }

func (ls *LineString) Clone() Geometry {
	return &LineString{curve: ls.cloneCurve()}
}

// Length is the planar length of the line.
func (ls *LineString) Length() float64 {
	var l float64
	for i := 1; i < len(ls.coords); i++ {
		a, b := ls.coords[i-1], ls.coords[i]
		l += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return l
}
