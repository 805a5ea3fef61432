package geom

import "fmt"

// Kind is the base geometry type without dimensionality.
type Kind uint8

// Geometry kinds.
const (
	KindUnknown Kind = iota
	KindPoint
	KindLineString
	KindCircularString
	KindCompoundCurve
	KindPolygon
	KindCurvePolygon
	KindMultiPoint
	KindMultiCurve
	KindMultiLineString
	KindMultiSurface
	KindMultiPolygon
	KindGeometryCollection
)

var kindNames = [...]string{
	KindUnknown:            "Unknown",
	KindPoint:              "Point",
	KindLineString:         "LineString",
	KindCircularString:     "CircularString",
	KindCompoundCurve:      "CompoundCurve",
	KindPolygon:            "Polygon",
	KindCurvePolygon:       "CurvePolygon",
	KindMultiPoint:         "MultiPoint",
	KindMultiCurve:         "MultiCurve",
	KindMultiLineString:    "MultiLineString",
	KindMultiSurface:       "MultiSurface",
	KindMultiPolygon:       "MultiPolygon",
	KindGeometryCollection: "GeometryCollection",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsCurve reports whether k is a one-dimensional kind.
func (k Kind) IsCurve() bool {
	return k == KindLineString || k == KindCircularString || k == KindCompoundCurve
}

// IsSurface reports whether k is a two-dimensional kind.
func (k Kind) IsSurface() bool {
	return k == KindPolygon || k == KindCurvePolygon
}

// IsCollection reports whether k is one of the collection kinds.
func (k Kind) IsCollection() bool {
	return k >= KindMultiPoint && k <= KindGeometryCollection
}

// Dim says which ordinates a geometry carries beyond X and Y.
type Dim uint8

// Dimensionalities.
const (
	XY Dim = iota
	XYZ
	XYM
	XYZM
)

// HasZ reports whether an elevation ordinate is present.
func (d Dim) HasZ() bool { return d == XYZ || d == XYZM }

// HasM reports whether a measure ordinate is present.
func (d Dim) HasM() bool { return d == XYM || d == XYZM }

// Stride is the number of ordinates per coordinate.
func (d Dim) Stride() int {
	switch d {
	case XYZ, XYM:
		return 3
	case XYZM:
		return 4
	}
	return 2
}

// MakeDim builds a Dim from ordinate flags.
func MakeDim(hasZ, hasM bool) Dim {
	switch {
	case hasZ && hasM:
		return XYZM
	case hasZ:
		return XYZ
	case hasM:
		return XYM
	}
	return XY
}

func (d Dim) String() string {
	switch d {
	case XY:
		return "XY"
	case XYZ:
		return "XYZ"
	case XYM:
		return "XYM"
	case XYZM:
		return "XYZM"
	}
	return fmt.Sprintf("Dim(%d)", uint8(d))
}

func (d Dim) suffix() string {
	switch d {
	case XYZ:
		return "Z"
	case XYM:
		return "M"
	case XYZM:
		return "ZM"
	}
	return ""
}

// Type is the full geometry type tag: a kind plus its dimensionality.
type Type struct {
	Kind Kind
	Dim  Dim
}

// String renders e.g. "PointZ" or "LineStringZM".
func (t Type) String() string {
	return t.Kind.String() + t.Dim.suffix()
}
