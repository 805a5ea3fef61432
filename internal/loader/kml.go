package loader

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"geomap/internal/geom"
	"geomap/internal/proj"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlBoundary struct {
	LinearRing kmlCoords `xml:"LinearRing"`
}

type kmlPolygon struct {
	Outer kmlBoundary   `xml:"outerBoundaryIs"`
	Inner []kmlBoundary `xml:"innerBoundaryIs"`
}

type kmlMulti struct {
	Points      []kmlCoords  `xml:"Point"`
	LineStrings []kmlCoords  `xml:"LineString"`
	Polygons    []kmlPolygon `xml:"Polygon"`
}

type kmlPlacemark struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name"`
	Description string `xml:"description"`
	kmlMulti
	Multi *kmlMulti `xml:"MultiGeometry"`
	Data  []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value"`
	} `xml:"ExtendedData>Data"`
}

// DecodeKML reads every Placemark, at any depth, with Point, LineString,
// Polygon or MultiGeometry content. KML coordinates are "lon,lat[,alt]";
// altitude is ignored.
func DecodeKML(data []byte) (*Dataset, error) {
	d := &Dataset{SRID: proj.WGS84}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "kml")
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return nil, errors.Wrap(err, "kml placemark")
		}
		g, err := pm.geometry()
		if err != nil {
			return nil, errors.Wrapf(err, "placemark %q", pm.Name)
		}
		if g == nil {
			continue
		}
		props := map[string]any{}
		if pm.Name != "" {
			props["name"] = pm.Name
		}
		if pm.Description != "" {
			props["description"] = pm.Description
		}
		for _, kv := range pm.Data {
			props[kv.Name] = kv.Value
		}
		id := pm.ID
		if id == "" {
			id = pm.Name
		}
		d.Features = append(d.Features, Feature{ID: id, Geometry: g, Properties: props})
	}
	return d.finish()
}

func (pm *kmlPlacemark) geometry() (geom.Geometry, error) {
	parts, err := pm.kmlMulti.geometries()
	if err != nil {
		return nil, err
	}
	if pm.Multi != nil {
		members, err := pm.Multi.geometries()
		if err != nil {
			return nil, err
		}
		c, err := geom.NewCollection(geom.KindGeometryCollection, geom.XY)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if err := c.Add(m); err != nil {
				return nil, err
			}
		}
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return parts[0], nil
}

func (m *kmlMulti) geometries() ([]geom.Geometry, error) {
	var out []geom.Geometry
	for _, p := range m.Points {
		cs, err := parseKMLCoords(p.Coordinates)
		if err != nil {
			return nil, err
		}
		if len(cs) == 0 {
			continue
		}
		out = append(out, geom.NewPoint(cs[0].X, cs[0].Y))
	}
	for _, l := range m.LineStrings {
		cs, err := parseKMLCoords(l.Coordinates)
		if err != nil {
			return nil, err
		}
		out = append(out, geom.NewLineStringFromCoords(cs...))
	}
	for _, p := range m.Polygons {
		rings := make([][]geom.Coord2D, 0, 1+len(p.Inner))
		for _, b := range append([]kmlBoundary{p.Outer}, p.Inner...) {
			cs, err := parseKMLCoords(b.LinearRing.Coordinates)
			if err != nil {
				return nil, err
			}
			rings = append(rings, cs)
		}
		poly, err := geom.NewPolygonFromCoords(rings...)
		if err != nil {
			return nil, err
		}
		out = append(out, poly)
	}
	return out, nil
}

// parseKMLCoords splits whitespace separated "lon,lat[,alt]" tuples.
func parseKMLCoords(s string) ([]geom.Coord2D, error) {
	var out []geom.Coord2D
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			return nil, errors.Errorf("kml coordinate %q", tuple)
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			return nil, errors.Errorf("kml coordinate %q", tuple)
		}
		out = append(out, geom.Coord2D{X: lon, Y: lat})
	}
	return out, nil
}
