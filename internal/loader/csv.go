package loader

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"geomap/internal/geom"
)

// DecodeCSV reads a CSV with a header row. Geometry comes from a WKT column
// (wkt|geometry|geom) or from latitude/longitude columns: lat|latitude|y and
// lon|lng|long|longitude|x, case-insensitive. Every other column becomes a
// string property. Rows without a usable geometry are skipped.
func DecodeCSV(data []byte) (*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "csv")
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	header := recs[0]
	idxLat, idxLon, idxWKT := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "wkt", "geometry", "geom":
			if idxWKT == -1 {
				idxWKT = i
			}
		}
	}
	if idxWKT == -1 && (idxLat == -1 || idxLon == -1) {
		return nil, errors.New("csv: no wkt or latitude/longitude columns")
	}
	d := &Dataset{}
	for _, row := range recs[1:] {
		g := rowGeometry(row, idxWKT, idxLon, idxLat)
		if g == nil {
			continue
		}
		props := make(map[string]any, len(header))
		for i, h := range header {
			if i == idxWKT || i == idxLat || i == idxLon || i >= len(row) {
				continue
			}
			props[h] = row[i]
		}
		d.Features = append(d.Features, Feature{ID: nameProperty(props), Geometry: g, Properties: props})
	}
	if len(d.Features) == 0 {
		return nil, errors.New("csv: no valid geometries parsed")
	}
	return d.finish()
}

func rowGeometry(row []string, idxWKT, idxLon, idxLat int) geom.Geometry {
	if idxWKT >= 0 && idxWKT < len(row) && strings.TrimSpace(row[idxWKT]) != "" {
		if g, err := ParseWKT(row[idxWKT]); err == nil {
			return g
		}
	}
	if idxLon < 0 || idxLat < 0 || idxLon >= len(row) || idxLat >= len(row) {
		return nil
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return geom.NewPoint(lon, lat)
}
