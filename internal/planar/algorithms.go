package planar

import (
	"math"
	"sort"

	ctgeom "github.com/ctessum/geom"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy/lineintersection"
	"github.com/twpayne/go-geom/xy/lineintersector"

	"geomap/internal/geom"
)

// Algorithms is the planar geom.Algorithms implementation.
type Algorithms struct {
	// SegmentsPerQuadrant controls arc linearization; zero uses
	// geom.DefaultSegmentsPerQuadrant.
	SegmentsPerQuadrant int
}

var _ geom.Algorithms = Algorithms{}

// New returns Algorithms with the default arc resolution.
func New() Algorithms { return Algorithms{} }

func (a Algorithms) flatten(g geom.Geometry) (*shape, error) {
	return flatten(g, a.SegmentsPerQuadrant)
}

func newPoint(p ctgeom.Point, srid int) *geom.Point {
	out := geom.NewPoint(p.X, p.Y)
	out.SetSRID(srid)
	return out
}

// Area sums the areas of the polygonal parts of g. Points and curves have
// no area.
func (a Algorithms) Area(g geom.Geometry) (float64, error) {
	s, err := a.flatten(g)
	if err != nil {
		return 0, err
	}
	var area float64
	for _, p := range s.polygons {
		area += p.Area()
	}
	return area, nil
}

// Centroid returns the centre of mass of the highest-dimensional parts of g:
// area weighted for surfaces, length weighted for curves, the mean for
// points.
func (a Algorithms) Centroid(g geom.Geometry) (*geom.Point, error) {
	s, err := a.flatten(g)
	if err != nil {
		return nil, err
	}
	switch s.dim() {
	case 2:
		var cx, cy, total float64
		for _, p := range s.polygons {
			w := p.Area()
			if w == 0 {
				continue
			}
			c := p.Centroid()
			cx += c.X * w
			cy += c.Y * w
			total += w
		}
		if total > 0 {
			return newPoint(ctgeom.Point{X: cx / total, Y: cy / total}, g.SRID()), nil
		}
	case 1:
		var cx, cy, total float64
		for _, l := range s.lines {
			for i := 1; i < len(l); i++ {
				w := math.Hypot(l[i].X-l[i-1].X, l[i].Y-l[i-1].Y)
				cx += (l[i].X + l[i-1].X) / 2 * w
				cy += (l[i].Y + l[i-1].Y) / 2 * w
				total += w
			}
		}
		if total > 0 {
			return newPoint(ctgeom.Point{X: cx / total, Y: cy / total}, g.SRID()), nil
		}
	case -1:
		return nil, errInvalid("centroid of empty geometry")
	}
	// zero length or area: fall back to the vertex mean
	vs := s.vertices()
	var cx, cy float64
	for _, v := range vs {
		cx += v.X
		cy += v.Y
	}
	n := float64(len(vs))
	return newPoint(ctgeom.Point{X: cx / n, Y: cy / n}, g.SRID()), nil
}

// PointOnSurface returns a point guaranteed to lie on g. For surfaces it is
// the centroid when that falls inside, otherwise the middle of the widest
// interior span on the horizontal through the middle of the first polygon.
func (a Algorithms) PointOnSurface(g geom.Geometry) (*geom.Point, error) {
	s, err := a.flatten(g)
	if err != nil {
		return nil, err
	}
	switch s.dim() {
	case 2:
		for _, p := range s.polygons {
			if pt, ok := interiorPoint(p); ok {
				return newPoint(pt, g.SRID()), nil
			}
		}
		return newPoint(s.polygons[0][0][0], g.SRID()), nil
	case 1:
		l := s.lines[0]
		if len(l)%2 == 1 {
			return newPoint(l[len(l)/2], g.SRID()), nil
		}
		m := len(l) / 2
		return newPoint(ctgeom.Point{X: (l[m-1].X + l[m].X) / 2, Y: (l[m-1].Y + l[m].Y) / 2}, g.SRID()), nil
	case 0:
		return newPoint(s.points[0], g.SRID()), nil
	}
	return nil, errInvalid("point on surface of empty geometry")
}

// interiorPoint returns a point strictly inside p: its centroid when that
// falls inside, otherwise the middle of the widest interior span.
func interiorPoint(p ctgeom.Polygon) (ctgeom.Point, bool) {
	if p.Area() > 0 {
		if c := p.Centroid(); c.Within(p) == ctgeom.Inside {
			return c, true
		}
	}
	return interiorSpanMidpoint(p)
}

// interiorSpanMidpoint scans the horizontal through the middle of p's
// bounds and returns the middle of the widest span lying inside p.
func interiorSpanMidpoint(p ctgeom.Polygon) (ctgeom.Point, bool) {
	b := p.Bounds()
	y := (b.Min.Y + b.Max.Y) / 2
	var xs []float64
	for _, r := range p {
		for i := 1; i < len(r); i++ {
			p0, p1 := r[i-1], r[i]
			if (p0.Y <= y) == (p1.Y <= y) {
				continue
			}
			xs = append(xs, p0.X+(y-p0.Y)*(p1.X-p0.X)/(p1.Y-p0.Y))
		}
	}
	sort.Float64s(xs)
	best, found := ctgeom.Point{}, false
	width := -1.0
	for i := 1; i < len(xs); i++ {
		mid := ctgeom.Point{X: (xs[i-1] + xs[i]) / 2, Y: y}
		if w := xs[i] - xs[i-1]; w > width && mid.Within(p) == ctgeom.Inside {
			best, width, found = mid, w, true
		}
	}
	return best, found
}

// Contains reports whether b lies inside a. A surface contains b when no
// part of b falls outside it and some part of b's interior is strictly
// inside it; a curve running along the boundary alone is not contained. A
// curve contains the points lying on it. A point contains an equal point.
func (a Algorithms) Contains(ga, gb geom.Geometry) (bool, error) {
	sa, err := a.flatten(ga)
	if err != nil {
		return false, err
	}
	sb, err := a.flatten(gb)
	if err != nil {
		return false, err
	}
	if sb.dim() < 0 || sa.dim() < sb.dim() {
		return false, nil
	}
	switch sa.dim() {
	case 2:
		interior := false
		for _, p := range sb.points {
			if within(p, sa.polygons) != ctgeom.Inside {
				return false, nil
			}
			interior = true
		}
		for _, v := range sb.vertices() {
			if within(v, sa.polygons) == ctgeom.Outside {
				return false, nil
			}
		}
		boundary := sa.segments()
		for _, seg := range sb.segments() {
			for _, m := range pieceMidpoints(seg, boundary) {
				switch within(m, sa.polygons) {
				case ctgeom.Outside:
					return false, nil
				case ctgeom.Inside:
					interior = true
				}
			}
		}
		if len(sb.polygons) > 0 {
			// a hole of a lying inside b
			for _, v := range sa.vertices() {
				if within(v, sb.polygons) == ctgeom.Inside {
					return false, nil
				}
			}
			for _, p := range sb.polygons {
				if pt, ok := interiorPoint(p); ok && within(pt, sa.polygons) == ctgeom.Inside {
					interior = true
				}
			}
		}
		return interior, nil
	case 1:
		if sb.dim() != 0 {
			return false, nil
		}
		segs := sa.segments()
		for _, p := range sb.points {
			if !onAny(p, segs) {
				return false, nil
			}
		}
		return true, nil
	case 0:
		for _, p := range sb.points {
			found := false
			for _, q := range sa.points {
				if p == q {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		}
		return true, nil
	}
	return false, nil
}

// Crosses reports whether a curve passes both through the interior and the
// exterior of a surface, or whether the interiors of two curves meet in a
// point. Curves touching only at an endpoint do not cross. Point inputs and
// two surfaces never cross.
func (a Algorithms) Crosses(ga, gb geom.Geometry) (bool, error) {
	sa, err := a.flatten(ga)
	if err != nil {
		return false, err
	}
	sb, err := a.flatten(gb)
	if err != nil {
		return false, err
	}
	da, db := sa.dim(), sb.dim()
	switch {
	case da == 1 && db == 2:
		return lineCrossesSurface(sa, sb), nil
	case da == 2 && db == 1:
		return lineCrossesSurface(sb, sa), nil
	case da == 1 && db == 1:
		ends := append(sa.endpoints(), sb.endpoints()...)
		for _, s1 := range sa.segments() {
			for _, s2 := range sb.segments() {
				r := intersect(s1, s2)
				if !r.HasIntersection() || len(r.Intersection()) != 1 {
					continue
				}
				c := r.Intersection()[0]
				if !isEndpoint(ctgeom.Point{X: c[0], Y: c[1]}, ends) {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

func lineCrossesSurface(line, surface *shape) bool {
	boundary := surface.segments()
	var inside, outside bool
	for _, seg := range line.segments() {
		for _, m := range pieceMidpoints(seg, boundary) {
			switch within(m, surface.polygons) {
			case ctgeom.Inside:
				inside = true
			case ctgeom.Outside:
				outside = true
			}
			if inside && outside {
				return true
			}
		}
	}
	return false
}

func isEndpoint(p ctgeom.Point, ends []ctgeom.Point) bool {
	for _, e := range ends {
		tol := onSegmentTolerance * math.Max(1, math.Max(math.Abs(e.X), math.Abs(e.Y)))
		if math.Abs(p.X-e.X) <= tol && math.Abs(p.Y-e.Y) <= tol {
			return true
		}
	}
	return false
}

// within classifies p against a set of polygons.
func within(p ctgeom.Point, polys []ctgeom.Polygon) ctgeom.WithinStatus {
	status := ctgeom.Outside
	for _, poly := range polys {
		switch p.Within(poly) {
		case ctgeom.Inside:
			return ctgeom.Inside
		case ctgeom.OnEdge:
			status = ctgeom.OnEdge
		}
	}
	return status
}

var strategy = &lineintersector.NonRobustLineIntersector{}

func intersect(s1, s2 [2]ctgeom.Point) lineintersection.Result {
	return lineintersector.LineIntersectsLine(strategy,
		coord(s1[0]), coord(s1[1]), coord(s2[0]), coord(s2[1]))
}

func coord(p ctgeom.Point) gogeom.Coord { return gogeom.Coord{p.X, p.Y} }

// pieceMidpoints cuts seg wherever it meets the boundary and returns the
// midpoint of every piece.
func pieceMidpoints(seg [2]ctgeom.Point, boundary [][2]ctgeom.Point) []ctgeom.Point {
	p, q := seg[0], seg[1]
	dx, dy := q.X-p.X, q.Y-p.Y
	length2 := dx*dx + dy*dy
	if length2 == 0 {
		return []ctgeom.Point{p}
	}
	ts := []float64{0, 1}
	for _, e := range boundary {
		r := intersect(seg, e)
		if !r.HasIntersection() {
			continue
		}
		for _, c := range r.Intersection() {
			t := ((c[0]-p.X)*dx + (c[1]-p.Y)*dy) / length2
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	sort.Float64s(ts)
	out := make([]ctgeom.Point, 0, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		if ts[i] == ts[i-1] {
			continue
		}
		t := (ts[i-1] + ts[i]) / 2
		out = append(out, ctgeom.Point{X: p.X + t*dx, Y: p.Y + t*dy})
	}
	return out
}

const onSegmentTolerance = 1e-12

func onAny(p ctgeom.Point, segs [][2]ctgeom.Point) bool {
	for _, s := range segs {
		a, b := s[0], s[1]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		scale := math.Max(1, math.Hypot(b.X-a.X, b.Y-a.Y))
		if math.Abs(cross) > onSegmentTolerance*scale*scale {
			continue
		}
		if p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
			p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y) {
			return true
		}
	}
	return false
}
