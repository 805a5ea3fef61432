package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"geomap/internal/geom"
	"geomap/internal/proj"
)

// rawObject is the envelope shared by Feature and FeatureCollection. The
// geometry is left raw for go-geom; ids may be strings or numbers.
type rawObject struct {
	Type       string          `json:"type"`
	ID         json.RawMessage `json:"id"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
	Features   []rawObject     `json:"features"`
}

// DecodeGeoJSON reads a FeatureCollection, a single Feature or a bare
// geometry. Coordinates are WGS84 longitude/latitude. Features with a null
// geometry are skipped.
func DecodeGeoJSON(data []byte) (*Dataset, error) {
	var raw rawObject
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "geojson")
	}
	d := &Dataset{SRID: proj.WGS84}
	switch raw.Type {
	case "":
		return nil, errors.New("geojson: missing type")
	case "FeatureCollection":
		for i, f := range raw.Features {
			if err := d.addFeature(f); err != nil {
				return nil, errors.Wrapf(err, "feature %d", i)
			}
		}
	case "Feature":
		if err := d.addFeature(raw); err != nil {
			return nil, err
		}
	default:
		g, err := decodeGeometry(data)
		if err != nil {
			return nil, err
		}
		d.Features = append(d.Features, Feature{Geometry: g})
	}
	return d.finish()
}

func (d *Dataset) addFeature(f rawObject) error {
	if len(f.Geometry) == 0 || bytes.Equal(bytes.TrimSpace(f.Geometry), []byte("null")) {
		return nil
	}
	g, err := decodeGeometry(f.Geometry)
	if err != nil {
		return err
	}
	id := featureID(f.ID)
	if id == "" {
		id = nameProperty(f.Properties)
	}
	d.Features = append(d.Features, Feature{ID: id, Geometry: g, Properties: f.Properties})
	return nil
}

func decodeGeometry(data []byte) (geom.Geometry, error) {
	var t gogeom.T
	if err := geojson.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, "geojson geometry")
	}
	return FromT(t)
}

func featureID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
