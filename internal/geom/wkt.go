package geom

import (
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// LoadWKT reads a WKT file. See ParseWKT for the supported subset.
func LoadWKT(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, errors.Trace(err)
	}
	d, err := ParseWKT(string(b))
	return d, errors.Annotatef(err, "wkt %s", path)
}

// ParseWKT parses one geometry per non-empty line.
// Supported: POINT(x y), MULTIPOINT(x y, ...), LINESTRING(x y, ...).
func ParseWKT(src string) (Data, error) {
	var d Data
	for _, line := range strings.Split(src, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		i := strings.Index(s, "(")
		j := strings.LastIndex(s, ")")
		if i < 0 || j <= i {
			return Data{}, errors.NotValidf("wkt %q", s)
		}
		kind := strings.ToUpper(strings.TrimSpace(s[:i]))
		body := strings.NewReplacer("(", " ", ")", " ").Replace(s[i+1 : j])
		pts, err := parseTuples(body)
		if err != nil {
			return Data{}, errors.Annotatef(err, "wkt %s", kind)
		}
		switch kind {
		case "POINT", "MULTIPOINT":
			for _, p := range pts {
				d.addPoint(p)
			}
		case "LINESTRING":
			if len(pts) < 2 {
				return Data{}, errors.NotValidf("linestring with %d vertices", len(pts))
			}
			d.addLine(pts)
		default:
			return Data{}, errors.NotSupportedf("wkt type %q", kind)
		}
	}
	if len(d.Points) == 0 && len(d.Lines) == 0 {
		return Data{}, errors.NotValidf("wkt without coordinates")
	}
	return d, nil
}

func parseTuples(block string) ([]Vec, error) {
	var out []Vec
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(tup)
		if len(parts) == 0 {
			continue
		}
		if len(parts) < 2 {
			return nil, errors.NotValidf("coordinate %q", strings.TrimSpace(tup))
		}
		x, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, errors.Trace(err)
		}
		y, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, errors.Trace(err)
		}
		out = append(out, Vec{x, y})
	}
	return out, nil
}
