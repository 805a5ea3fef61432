package loader

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkt"

	"geomap/internal/geom"
)

// ParseWKT parses one WKT geometry. An EWKT "SRID=n;" prefix sets the SRID.
func ParseWKT(s string) (geom.Geometry, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	srid := 0
	if head, rest, ok := strings.Cut(s, ";"); ok && strings.HasPrefix(strings.ToUpper(head), "SRID=") {
		n, err := strconv.Atoi(strings.TrimSpace(head[len("SRID="):]))
		if err != nil {
			return nil, errors.Wrapf(err, "ewkt srid %q", head)
		}
		srid, s = n, strings.TrimSpace(rest)
	}
	t, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "wkt")
	}
	g, err := FromT(t)
	if err != nil {
		return nil, err
	}
	if srid != 0 {
		g.SetSRID(srid)
	}
	return g, nil
}

// DecodeWKT reads either a single geometry spanning the whole input or one
// geometry per line. Blank lines and lines starting with '#' are skipped.
func DecodeWKT(data []byte) (*Dataset, error) {
	d := &Dataset{}
	if g, err := ParseWKT(string(data)); err == nil {
		d.Features = append(d.Features, Feature{Geometry: g})
		return d.finish()
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		g, err := ParseWKT(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		d.Features = append(d.Features, Feature{Geometry: g})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scan")
	}
	return d.finish()
}

// DecodeWKB reads a single WKB or EWKB geometry.
func DecodeWKB(data []byte) (*Dataset, error) {
	t, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "wkb")
	}
	g, err := FromT(t)
	if err != nil {
		return nil, err
	}
	d := &Dataset{SRID: g.SRID(), Features: []Feature{{Geometry: g}}}
	return d.finish()
}
