// Package pane splits a viewport into power-of-two aligned tiles so that
// geometry computed per tile can be reused across small pans.
package pane

import (
	"math"

	"plotview/internal/geom"
	"plotview/internal/logging"
)

// pad is the fraction of a pane added to each end of the visible range
// before rounding out to whole panes.
const pad = 1.0 / 8

// Axis is the tiling of one axis.
type Axis struct {
	// Size is the width of every pane.
	Size float64
	// Panes are contiguous, ordered and each Size wide.
	Panes []geom.Interval
	// Range is the union of Panes.
	Range geom.Interval
}

// Set is the tiling of a viewport.
type Set struct {
	X, Y Axis
}

// Compute tiles the viewport [xMin, xMax] x [yMin, yMax].
func Compute(xMin, xMax, yMin, yMax float64) Set {
	return Set{
		X: ComputeAxis(geom.Interval{Min: xMin, Max: xMax}),
		Y: ComputeAxis(geom.Interval{Min: yMin, Max: yMax}),
	}
}

// ComputeRect tiles r.
func ComputeRect(r geom.Rect) Set {
	return Set{X: ComputeAxis(r.X()), Y: ComputeAxis(r.Y())}
}

// ComputeAxis tiles one axis. The pane size is the power of two nearest to
// half the visible span. An empty or non-finite interval, or one whose
// panes cannot be represented in float64, yields an Axis without panes.
func ComputeAxis(visible geom.Interval) Axis {
	if !visible.IsValid() {
		logging.Logger().Debug("pane: degenerate axis", "min", visible.Min, "max", visible.Max)
		return Axis{}
	}
	size := math.Exp2(roundHalfUp(math.Log2(visible.Span()) - 1))
	lower := size * math.Floor(visible.Min/size-pad)
	upper := size * math.Ceil(visible.Max/size+pad)
	count := roundHalfUp((upper - lower) / size)
	// spans near the float64 limits overflow or underflow the pane size
	if !finite(size) || size == 0 || !finite(lower) || !finite(upper) || !finite(count) || count < 1 {
		logging.Logger().Debug("pane: axis out of range", "min", visible.Min, "max", visible.Max, "size", size)
		return Axis{}
	}
	n := int(count)
	a := Axis{
		Size:  size,
		Panes: make([]geom.Interval, n),
		Range: geom.Interval{Min: lower, Max: upper},
	}
	for k := range a.Panes {
		a.Panes[k] = geom.Interval{
			Min: lower + float64(k)*size,
			Max: lower + float64(k+1)*size,
		}
	}
	return a
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// roundHalfUp rounds ties toward +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Index returns the index of the pane containing v, or -1. A value on a
// shared boundary belongs to the pane it starts.
func (a Axis) Index(v float64) int {
	if len(a.Panes) == 0 || v < a.Range.Min || v > a.Range.Max {
		return -1
	}
	i := int(math.Floor((v - a.Range.Min) / a.Size))
	return min(i, len(a.Panes)-1)
}

// Cell is one 2D tile of a Set.
type Cell struct {
	Col, Row int
	Bounds   geom.Rect
}

// Cells lists every tile, row by row from the lowest y pane.
func (s Set) Cells() []Cell {
	out := make([]Cell, 0, len(s.X.Panes)*len(s.Y.Panes))
	for row, y := range s.Y.Panes {
		for col, x := range s.X.Panes {
			out = append(out, Cell{
				Col:    col,
				Row:    row,
				Bounds: geom.R(x.Min, y.Min, x.Max, y.Max),
			})
		}
	}
	return out
}
