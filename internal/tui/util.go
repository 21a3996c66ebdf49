package tui

import (
	"strconv"

	"plotview/internal/geom"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// fmtNum formats v with 5 significant digits.
func fmtNum(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 5, 64)
}

func fmtVec(v geom.Vec) string {
	return "(" + fmtNum(v.X) + ", " + fmtNum(v.Y) + ")"
}

func fmtInterval(i geom.Interval) string {
	return "[" + fmtNum(i.Min) + ", " + fmtNum(i.Max) + "]"
}
