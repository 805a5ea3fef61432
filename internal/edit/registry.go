// Package edit keeps identified geometries together with an R-tree over their
// bounding rectangles, and answers window queries for the identify and
// selection tools.
//
// A Registry is not safe for concurrent use. Callers that share one across
// goroutines must serialize every call, including queries.
package edit

import (
	"sort"

	"github.com/pkg/errors"

	"geomap/internal/geom"
	"geomap/internal/rtree"
)

// ErrNotFound is returned when an identifier is not in the registry.
var ErrNotFound = errors.New("identifier not found")

// Identifier names a feature. Identifiers are compared by their string form.
type Identifier interface {
	String() string
}

// ID is the plain string identifier.
type ID string

func (id ID) String() string { return string(id) }

// Feature pairs an identifier with a geometry owned by the registry.
type Feature struct {
	ID       Identifier
	Geometry geom.Geometry
}

// Options configures a Registry.
type Options struct {
	// SRID of the stored geometries. Geometries added without an SRID get
	// this one; geometries in another SRID are transformed to it.
	SRID       int
	Converter  geom.Converter
	Algorithms geom.Algorithms

	// R-tree node bounds; zero selects 2 and 8.
	MinChildren int
	MaxChildren int
}

// Registry holds identifiers and geometries in parallel, position-ordered
// sequences. The spatial index stores each geometry's MBR with its position
// as payload, so any change that shifts positions rebuilds the index.
type Registry struct {
	srid int
	conv geom.Converter
	alg  geom.Algorithms

	ids   []Identifier
	geoms []geom.Geometry
	index *rtree.RTree
	items []rtree.InsertItem
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) (*Registry, error) {
	minC, maxC := opts.MinChildren, opts.MaxChildren
	if minC == 0 && maxC == 0 {
		minC, maxC = 2, 8
	}
	idx, err := rtree.New(minC, maxC)
	if err != nil {
		return nil, errors.Wrapf(geom.ErrPreconditionViolation, "spatial index: %v", err)
	}
	return &Registry{
		srid:  opts.SRID,
		conv:  opts.Converter,
		alg:   opts.Algorithms,
		index: idx,
	}, nil
}

// SRID is the reference system all stored geometries are in.
func (r *Registry) SRID() int { return r.srid }

// Algorithms returns the planar-geometry collaborator, possibly nil.
func (r *Registry) Algorithms() geom.Algorithms { return r.alg }

// Len is the number of features.
func (r *Registry) Len() int { return len(r.ids) }

// At returns the feature at position i.
func (r *Registry) At(i int) (Feature, error) {
	if i < 0 || i >= len(r.ids) {
		return Feature{}, errors.Wrapf(geom.ErrPreconditionViolation, "position %d out of range [0,%d)", i, len(r.ids))
	}
	return Feature{ID: r.ids[i], Geometry: r.geoms[i]}, nil
}

// Features returns every feature in position order. The geometries remain
// owned by the registry.
func (r *Registry) Features() []Feature {
	out := make([]Feature, len(r.ids))
	for i := range r.ids {
		out[i] = Feature{ID: r.ids[i], Geometry: r.geoms[i]}
	}
	return out
}

func (r *Registry) position(id Identifier) int {
	key := id.String()
	for i, have := range r.ids {
		if have.String() == key {
			return i
		}
	}
	return -1
}

// HasIdentifier reports whether id is present.
func (r *Registry) HasIdentifier(id Identifier) bool {
	return id != nil && r.position(id) >= 0
}

// Lookup returns the geometry stored under id.
func (r *Registry) Lookup(id Identifier) (geom.Geometry, bool) {
	if id == nil {
		return nil, false
	}
	i := r.position(id)
	if i < 0 {
		return nil, false
	}
	return r.geoms[i], true
}

// prepare brings g into the registry's SRID and refreshes its MBR.
func (r *Registry) prepare(g geom.Geometry) error {
	if g.SRID() == 0 {
		g.SetSRID(r.srid)
	} else if r.srid != 0 && g.SRID() != r.srid {
		if err := g.Transform(r.conv, r.srid); err != nil {
			return err
		}
	}
	g.ComputeMBR(true)
	return nil
}

func checkArgs(id Identifier, g geom.Geometry) error {
	if id == nil {
		return errors.Wrap(geom.ErrPreconditionViolation, "nil identifier")
	}
	if g == nil {
		return errors.Wrap(geom.ErrPreconditionViolation, "nil geometry")
	}
	if geom.IsOwned(g) {
		return errors.Wrapf(geom.ErrPreconditionViolation, "%s for %q already has an owner", g.Type(), id.String())
	}
	return nil
}

// Add stores g under id and takes ownership of it. If id is already present
// Add behaves like Set.
func (r *Registry) Add(id Identifier, g geom.Geometry) error {
	if id == nil {
		return errors.Wrap(geom.ErrPreconditionViolation, "nil identifier")
	}
	if g == nil {
		return errors.Wrap(geom.ErrPreconditionViolation, "nil geometry")
	}
	if r.position(id) >= 0 {
		return r.Set(id, g)
	}
	if err := checkArgs(id, g); err != nil {
		return err
	}
	if err := r.prepare(g); err != nil {
		return err
	}
	if err := geom.Adopt(g); err != nil {
		return err
	}
	r.ids = append(r.ids, id)
	r.geoms = append(r.geoms, g)
	if mbr := g.MBR(); mbr.IsValid() {
		r.index.Insert(toBBox(mbr), len(r.geoms)-1)
	}
	return nil
}

// Set replaces the geometry stored under id, releasing the previous one,
// and rebuilds the index.
func (r *Registry) Set(id Identifier, g geom.Geometry) error {
	if id == nil {
		return errors.Wrap(geom.ErrPreconditionViolation, "nil identifier")
	}
	i := r.position(id)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "set %q", id.String())
	}
	if g != nil && g == r.geoms[i] {
		return r.Refresh(id)
	}
	if err := checkArgs(id, g); err != nil {
		return err
	}
	if err := r.prepare(g); err != nil {
		return err
	}
	if err := geom.Adopt(g); err != nil {
		return err
	}
	geom.Release(r.geoms[i])
	r.geoms[i] = g
	r.BuildIndex()
	return nil
}

// Remove drops id and its geometry. Later features shift down one position
// and the index is rebuilt.
func (r *Registry) Remove(id Identifier) error {
	if id == nil {
		return errors.Wrap(geom.ErrPreconditionViolation, "nil identifier")
	}
	i := r.position(id)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "remove %q", id.String())
	}
	geom.Release(r.geoms[i])
	last := len(r.ids) - 1
	copy(r.ids[i:], r.ids[i+1:])
	copy(r.geoms[i:], r.geoms[i+1:])
	r.ids[last] = nil
	r.geoms[last] = nil
	r.ids = r.ids[:last]
	r.geoms = r.geoms[:last]
	r.BuildIndex()
	return nil
}

// Refresh recomputes the MBR of the geometry under id after its coordinates
// were edited in place, and rebuilds the index.
func (r *Registry) Refresh(id Identifier) error {
	g, ok := r.Lookup(id)
	if !ok {
		return errors.Wrapf(ErrNotFound, "refresh %v", id)
	}
	g.ComputeMBR(true)
	r.BuildIndex()
	return nil
}

// Reproject transforms every geometry to srid and makes it the registry's
// SRID. The registry is left unchanged if any transform fails.
func (r *Registry) Reproject(srid int) error {
	if srid == r.srid {
		return nil
	}
	if r.srid == 0 || srid == 0 {
		return errors.Wrapf(geom.ErrPreconditionViolation, "cannot reproject between srid %d and %d", r.srid, srid)
	}
	out := make([]geom.Geometry, len(r.geoms))
	for i, g := range r.geoms {
		c := g.Clone()
		if err := c.Transform(r.conv, srid); err != nil {
			return errors.Wrapf(err, "reproject %q", r.ids[i].String())
		}
		c.ComputeMBR(true)
		out[i] = c
	}
	for _, c := range out {
		if err := geom.Adopt(c); err != nil {
			return err
		}
	}
	for i, g := range r.geoms {
		geom.Release(g)
		r.geoms[i] = out[i]
	}
	r.srid = srid
	r.BuildIndex()
	return nil
}

// Clear releases every geometry and empties the registry.
func (r *Registry) Clear() {
	for _, g := range r.geoms {
		geom.Release(g)
	}
	r.ids = r.ids[:0]
	r.geoms = r.geoms[:0]
	r.index.Clear()
}

// BuildIndex rebuilds the spatial index from the current MBR of every
// geometry. Geometries with an empty MBR are not indexed.
func (r *Registry) BuildIndex() {
	r.items = r.items[:0]
	for i, g := range r.geoms {
		if mbr := g.MBR(); mbr.IsValid() {
			r.items = append(r.items, rtree.InsertItem{BBox: toBBox(mbr), DataIndex: i})
		}
	}
	r.index.BulkLoad(r.items)
}

// Bounds is the union of all stored MBRs.
func (r *Registry) Bounds() geom.Envelope {
	bb, ok := r.index.Bounds()
	if !ok {
		return geom.EmptyEnvelope()
	}
	return geom.NewEnvelope(bb.MinX, bb.MinY, bb.MaxX, bb.MaxY)
}

// window expresses env, given in srid, in the registry's SRID. Only the
// corners are transformed.
func (r *Registry) window(env geom.Envelope, srid int) (geom.Envelope, error) {
	if srid == 0 || r.srid == 0 || srid == r.srid {
		return env, nil
	}
	if err := env.Transform(r.conv, srid, r.srid); err != nil {
		return geom.Envelope{}, err
	}
	return env, nil
}

func (r *Registry) search(env geom.Envelope) []Feature {
	if !env.IsValid() {
		return nil
	}
	pos := r.index.SearchAll(toBBox(env))
	sort.Ints(pos)
	out := make([]Feature, 0, len(pos))
	for _, i := range pos {
		out = append(out, Feature{ID: r.ids[i], Geometry: r.geoms[i]})
	}
	return out
}

// GetGeometries returns every feature whose MBR intersects env, in position
// order. env is in srid; 0 means the registry's SRID. No exact geometry test
// is made.
func (r *Registry) GetGeometries(env geom.Envelope, srid int) ([]Feature, error) {
	w, err := r.window(env, srid)
	if err != nil {
		return nil, err
	}
	return r.search(w), nil
}

// GetGeometry picks one feature under env. Candidates come from the MBR
// search in position order; the first one that contains the window centre,
// crosses the window rectangle, or lies inside the window rectangle wins.
func (r *Registry) GetGeometry(env geom.Envelope, srid int) (Feature, bool, error) {
	if r.alg == nil {
		return Feature{}, false, errors.Wrap(geom.ErrUnsupportedOperation, "identify: no planar-geometry algorithms available")
	}
	w, err := r.window(env, srid)
	if err != nil {
		return Feature{}, false, err
	}
	candidates := r.search(w)
	if len(candidates) == 0 {
		return Feature{}, false, nil
	}

	c := w.Center()
	center := geom.NewPoint(c.X, c.Y)
	center.SetSRID(r.srid)
	rect := geom.EnvelopePolygon(w)
	rect.SetSRID(r.srid)

	for _, f := range candidates {
		ok, err := r.alg.Contains(f.Geometry, center)
		if err != nil {
			return Feature{}, false, err
		}
		if !ok {
			if ok, err = r.alg.Crosses(f.Geometry, rect); err != nil {
				return Feature{}, false, err
			}
		}
		if !ok {
			if ok, err = r.alg.Contains(rect, f.Geometry); err != nil {
				return Feature{}, false, err
			}
		}
		if ok {
			return f, true, nil
		}
	}
	return Feature{}, false, nil
}

func toBBox(e geom.Envelope) rtree.BBox {
	return rtree.BBox{MinX: e.LLX, MinY: e.LLY, MaxX: e.URX, MaxY: e.URY}
}
