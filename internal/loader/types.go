// Package loader decodes vector files into kernel geometries. WKT, WKB and
// GeoJSON go through go-geom's encoders; CSV and KML are read directly.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"geomap/internal/geom"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoFeatures        = errors.New("no features found")
)

// Feature is one decoded record. ID may be empty; Dataset assigns one.
type Feature struct {
	ID         string
	Geometry   geom.Geometry
	Properties map[string]any
}

// Dataset is the content of one file. SRID is 0 when the format does not
// say; callers then assume their own reference system.
type Dataset struct {
	Path     string
	SRID     int
	Features []Feature
}

// Extensions lists the file extensions Load understands.
var Extensions = []string{".geojson", ".json", ".csv", ".kml", ".wkt", ".wkb"}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads path, picking the decoder by extension.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	var d *Dataset
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		d, err = DecodeGeoJSON(data)
	case ".csv":
		d, err = DecodeCSV(data)
	case ".kml":
		d, err = DecodeKML(data)
	case ".wkt":
		d, err = DecodeWKT(data)
	case ".wkb":
		d, err = DecodeWKB(data)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	if err != nil {
		return nil, errors.Wrap(err, filepath.Base(path))
	}
	d.Path = path
	return d, nil
}

// finish assigns missing ids and rejects empty results.
func (d *Dataset) finish() (*Dataset, error) {
	if len(d.Features) == 0 {
		return nil, ErrNoFeatures
	}
	seen := make(map[string]bool, len(d.Features))
	for i := range d.Features {
		f := &d.Features[i]
		if f.ID == "" || seen[f.ID] {
			f.ID = fmt.Sprintf("f%d", i+1)
		}
		seen[f.ID] = true
		if f.Geometry.SRID() == 0 && d.SRID != 0 {
			f.Geometry.SetSRID(d.SRID)
		}
		f.Geometry.ComputeMBR(true)
	}
	return d, nil
}

// Bounds is the union of the feature MBRs.
func (d *Dataset) Bounds() geom.Envelope {
	b := geom.EmptyEnvelope()
	for _, f := range d.Features {
		b.ExpandToEnvelope(f.Geometry.MBR())
	}
	return b
}

// Columns returns the property keys of all features, in order of first
// appearance; keys of a single feature are sorted.
func (d *Dataset) Columns() []string {
	var cols []string
	seen := map[string]bool{}
	for _, f := range d.Features {
		keys := make([]string, 0, len(f.Properties))
		for k := range f.Properties {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = true
		}
		cols = append(cols, keys...)
	}
	return cols
}

// nameProperty returns a usable id from common name columns.
func nameProperty(props map[string]any) string {
	for _, k := range []string{"id", "name", "NAME", "Name"} {
		if v, ok := props[k]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				return s
			}
		}
	}
	return ""
}
