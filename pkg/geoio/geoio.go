// Package geoio reads segment sets from and writes intersection points to
// the common geometry text formats.
//
// WKT goes through github.com/twpayne/go-geom, GeoJSON through
// github.com/paulmach/orb. Every linear geometry is split into the segments
// between consecutive vertices.
package geoio

import (
	"bufio"
	"io"
	"strings"

	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

type Format string

const (
	WKT     Format = "wkt"
	GeoJSON Format = "geojson"
	Table   Format = "table"
)

var (
	ErrUnknownFormat       = errors.New("geoio: unknown format")
	ErrUnsupportedGeometry = errors.New("geoio: unsupported geometry")
)

// ParseFormat accepts the format names case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case WKT, GeoJSON, Table:
		return f, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// ReadSegments decodes segments from r, normalized for a sweep with
// tolerance eps. WKT input holds one geometry per line; blank lines and lines
// starting with # are skipped. GeoJSON input is a FeatureCollection. Pieces
// whose ends are within eps of each other are dropped.
func ReadSegments(r io.Reader, f Format, eps float64) ([]sweep.Segment, error) {
	switch f {
	case WKT:
		return readWKT(r, eps)
	case GeoJSON:
		return readGeoJSON(r, eps)
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "read %q", f)
}

func readWKT(r io.Reader, eps float64) ([]sweep.Segment, error) {
	var segs []sweep.Segment
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		g, err := wkt.Unmarshal(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if segs, err = appendGeom(segs, g, eps); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read wkt")
	}
	return segs, nil
}

func appendGeom(segs []sweep.Segment, g geom.T, eps float64) ([]sweep.Segment, error) {
	switch g := g.(type) {
	case *geom.LineString:
		return appendCoords(segs, g.Coords(), eps), nil
	case *geom.MultiLineString:
		for i := 0; i < g.NumLineStrings(); i++ {
			segs = appendCoords(segs, g.LineString(i).Coords(), eps)
		}
		return segs, nil
	case *geom.Polygon:
		return appendRings(segs, g, eps), nil
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			segs = appendRings(segs, g.Polygon(i), eps)
		}
		return segs, nil
	}
	return segs, errors.Wrapf(ErrUnsupportedGeometry, "%T", g)
}

func appendRings(segs []sweep.Segment, p *geom.Polygon, eps float64) []sweep.Segment {
	for i := 0; i < p.NumLinearRings(); i++ {
		segs = appendCoords(segs, p.LinearRing(i).Coords(), eps)
	}
	return segs
}

func appendCoords(segs []sweep.Segment, cs []geom.Coord, eps float64) []sweep.Segment {
	for i := 1; i < len(cs); i++ {
		segs = appendSegment(segs,
			sweep.Point{X: cs[i-1].X(), Y: cs[i-1].Y()},
			sweep.Point{X: cs[i].X(), Y: cs[i].Y()}, eps)
	}
	return segs
}

func appendSegment(segs []sweep.Segment, a, b sweep.Point, eps float64) []sweep.Segment {
	if a.Equals(b, eps) {
		return segs
	}
	return append(segs, sweep.Normalize(sweep.Segment{Start: a, End: b}, eps))
}

func readGeoJSON(r io.Reader, eps float64) ([]sweep.Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read geojson")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode feature collection")
	}
	var segs []sweep.Segment
	for i, f := range fc.Features {
		if segs, err = appendOrb(segs, f.Geometry, eps); err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
	}
	return segs, nil
}

func appendOrb(segs []sweep.Segment, g orb.Geometry, eps float64) ([]sweep.Segment, error) {
	switch g := g.(type) {
	case orb.LineString:
		return appendPath(segs, g, eps), nil
	case orb.MultiLineString:
		for _, ls := range g {
			segs = appendPath(segs, ls, eps)
		}
		return segs, nil
	case orb.Polygon:
		for _, ring := range g {
			segs = appendPath(segs, ring, eps)
		}
		return segs, nil
	case orb.MultiPolygon:
		for _, poly := range g {
			for _, ring := range poly {
				segs = appendPath(segs, ring, eps)
			}
		}
		return segs, nil
	}
	return segs, errors.Wrapf(ErrUnsupportedGeometry, "%T", g)
}

func appendPath[P ~[]orb.Point](segs []sweep.Segment, path P, eps float64) []sweep.Segment {
	for i := 1; i < len(path); i++ {
		segs = appendSegment(segs,
			sweep.Point{X: path[i-1].X(), Y: path[i-1].Y()},
			sweep.Point{X: path[i].X(), Y: path[i].Y()}, eps)
	}
	return segs
}
