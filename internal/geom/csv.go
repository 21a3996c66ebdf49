package geom

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Data is an overlay drawn on top of the plotted curves.
type Data struct {
	Points []Vec
	Lines  [][]Vec
	Bounds Rect
}

func (d *Data) extend(p Vec) {
	if d.Empty() {
		d.Bounds = Rect{Min: p, Max: p}
		return
	}
	d.Bounds = d.Bounds.Extend(p)
}

func (d *Data) addPoint(p Vec) {
	d.extend(p)
	d.Points = append(d.Points, p)
}

func (d *Data) addLine(ls []Vec) {
	if len(ls) == 0 {
		return
	}
	d.extend(ls[0])
	d.Lines = append(d.Lines, ls)
	for _, p := range ls[1:] {
		d.Bounds = d.Bounds.Extend(p)
	}
}

// Empty reports whether d holds no geometry.
func (d *Data) Empty() bool { return len(d.Points) == 0 && len(d.Lines) == 0 }

// LoadCSV reads x/y points from a CSV file.
func LoadCSV(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, errors.Trace(err)
	}
	defer f.Close()
	d, err := ReadCSV(f)
	return d, errors.Annotatef(err, "csv %s", path)
}

// ReadCSV reads points from r. Column detection is case-insensitive:
// x|t|lon|lng|longitude for the first coordinate, y|value|lat|latitude for
// the second. Rows that fail to parse are skipped.
func ReadCSV(r io.Reader) (Data, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return Data{}, errors.Trace(err)
	}
	if len(recs) == 0 {
		return Data{}, errors.NotValidf("empty csv")
	}
	idxX, idxY := -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x", "t", "lon", "lng", "longitude":
			if idxX == -1 {
				idxX = i
			}
		case "y", "value", "lat", "latitude":
			if idxY == -1 {
				idxY = i
			}
		}
	}
	if idxX == -1 || idxY == -1 {
		return Data{}, errors.NotFoundf("x/y columns")
	}
	var d Data
	for _, row := range recs[1:] {
		if idxX >= len(row) || idxY >= len(row) {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxX]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxY]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		d.addPoint(Vec{x, y})
	}
	if len(d.Points) == 0 {
		return Data{}, errors.NotValidf("csv without parsable points")
	}
	return d, nil
}
