package geoio

import (
	"io"
	"strconv"

	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// WritePoints encodes pts as a WKT MULTIPOINT, a GeoJSON FeatureCollection
// of points carrying their position in pts as "index", or a text table.
func WritePoints(w io.Writer, pts []sweep.Point, f Format) error {
	switch f {
	case WKT:
		coords := make([]geom.Coord, len(pts))
		for i, p := range pts {
			coords[i] = geom.Coord{p.X, p.Y}
		}
		mp, err := geom.NewMultiPoint(geom.XY).SetCoords(coords)
		if err != nil {
			return errors.Wrap(err, "build multipoint")
		}
		return writeWKT(w, mp)
	case GeoJSON:
		fc := geojson.NewFeatureCollection()
		for i, p := range pts {
			feat := geojson.NewFeature(orb.Point{p.X, p.Y})
			feat.Properties["index"] = i
			fc.Append(feat)
		}
		return writeJSON(w, fc)
	case Table:
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"#", "X", "Y"})
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		for i, p := range pts {
			table.Append([]string{strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y)})
		}
		table.Render()
		return nil
	}
	return errors.Wrapf(ErrUnknownFormat, "write %q", f)
}

// WriteSegments encodes segs as one WKT LINESTRING per line or as a GeoJSON
// FeatureCollection of LineStrings.
func WriteSegments(w io.Writer, segs []sweep.Segment, f Format) error {
	switch f {
	case WKT:
		for i, s := range segs {
			ls, err := geom.NewLineString(geom.XY).SetCoords([]geom.Coord{
				{s.Start.X, s.Start.Y},
				{s.End.X, s.End.Y},
			})
			if err != nil {
				return errors.Wrapf(err, "segment %d", i)
			}
			if err := writeWKT(w, ls); err != nil {
				return err
			}
		}
		return nil
	case GeoJSON:
		fc := geojson.NewFeatureCollection()
		for _, s := range segs {
			fc.Append(geojson.NewFeature(orb.LineString{
				{s.Start.X, s.Start.Y},
				{s.End.X, s.End.Y},
			}))
		}
		return writeJSON(w, fc)
	}
	return errors.Wrapf(ErrUnknownFormat, "write segments as %q", f)
}

func writeWKT(w io.Writer, g geom.T) error {
	s, err := wkt.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "encode wkt")
	}
	_, err = io.WriteString(w, s+"\n")
	return errors.Wrap(err, "write wkt")
}

func writeJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encode geojson")
	}
	_, err = w.Write(append(data, '\n'))
	return errors.Wrap(err, "write geojson")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
