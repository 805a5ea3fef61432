// Package proj converts coordinates between spatial reference systems
// identified by SRID, using proj4 definitions parsed by ctessum/geom/proj.
package proj

import (
	"fmt"

	geoproj "github.com/ctessum/geom/proj"
	"github.com/pkg/errors"

	"geomap/internal/geom"
)

// Well-known SRIDs.
const (
	WGS84        = 4326
	WebMercator  = 3857
	NAD83        = 4269
	utmNorthBase = 32600
	utmSouthBase = 32700
)

var builtin = map[int]string{
	WGS84:       "+proj=longlat +datum=WGS84 +no_defs",
	NAD83:       "+proj=longlat +datum=NAD83 +no_defs",
	WebMercator: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs",
}

// Definition returns the built-in proj4 definition for srid. UTM zones of
// WGS84 (32601-32660, 32701-32760) are generated on demand.
func Definition(srid int) (string, bool) {
	if def, ok := builtin[srid]; ok {
		return def, true
	}
	switch {
	case srid > utmNorthBase && srid <= utmNorthBase+60:
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", srid-utmNorthBase), true
	case srid > utmSouthBase && srid <= utmSouthBase+60:
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", srid-utmSouthBase), true
	}
	return "", false
}

type pair struct{ src, dst int }

// Converter implements geom.Converter. Parsed reference systems and
// transforms are cached per SRID pair. A Converter is not safe for
// concurrent use.
type Converter struct {
	defs       map[int]string
	srs        map[int]*geoproj.SR
	transforms map[pair]geoproj.Transformer
}

var _ geom.Converter = (*Converter)(nil)

// New creates a converter. defs adds or overrides SRID definitions; every
// entry is parsed up front.
func New(defs map[int]string) (*Converter, error) {
	c := &Converter{
		defs:       make(map[int]string, len(defs)),
		srs:        make(map[int]*geoproj.SR),
		transforms: make(map[pair]geoproj.Transformer),
	}
	for srid, def := range defs {
		c.defs[srid] = def
		if _, err := c.sr(srid); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Known reports whether srid can be converted.
func (c *Converter) Known(srid int) bool {
	if _, ok := c.defs[srid]; ok {
		return true
	}
	_, ok := Definition(srid)
	return ok
}

func (c *Converter) sr(srid int) (*geoproj.SR, error) {
	if sr, ok := c.srs[srid]; ok {
		return sr, nil
	}
	def, ok := c.defs[srid]
	if !ok {
		if def, ok = Definition(srid); !ok {
			return nil, errors.Wrapf(geom.ErrCoordinateTransform, "unknown srid %d", srid)
		}
	}
	sr, err := geoproj.Parse(def)
	if err != nil {
		return nil, errors.Wrapf(geom.ErrCoordinateTransform, "srid %d: parse %q: %v", srid, def, err)
	}
	c.srs[srid] = sr
	return sr, nil
}

func (c *Converter) transform(src, dst int) (geoproj.Transformer, error) {
	key := pair{src, dst}
	if t, ok := c.transforms[key]; ok {
		return t, nil
	}
	from, err := c.sr(src)
	if err != nil {
		return nil, err
	}
	to, err := c.sr(dst)
	if err != nil {
		return nil, err
	}
	t, err := from.NewTransform(to)
	if err != nil {
		return nil, errors.Wrapf(geom.ErrCoordinateTransform, "srid %d to %d: %v", src, dst, err)
	}
	c.transforms[key] = t
	return t, nil
}

// Convert transforms count interleaved X/Y pairs of xy in place. On error
// xy may be partially converted.
func (c *Converter) Convert(src, dst int, xy []float64, count int) error {
	if src == dst {
		return nil
	}
	if len(xy) < 2*count {
		return errors.Wrapf(geom.ErrPreconditionViolation, "buffer holds %d values, need %d", len(xy), 2*count)
	}
	t, err := c.transform(src, dst)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		x, y, err := t(xy[2*i], xy[2*i+1])
		if err != nil {
			return errors.Wrapf(geom.ErrCoordinateTransform, "point %d (%g %g): %v", i, xy[2*i], xy[2*i+1], err)
		}
		xy[2*i], xy[2*i+1] = x, y
	}
	return nil
}
