package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"plotview/internal/geom"
)

// canvas is a braille raster: every cell holds a 2x4 dot mask and the
// highest layer drawn into it, which picks the cell's style.
type canvas struct {
	w, h  int // in cells
	mask  []uint8
	layer []int
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	return &canvas{w: w, h: h, mask: make([]uint8, w*h), layer: make([]int, w*h)}
}

// dotBits maps a dot's position within its cell to the braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// set sets the dot at (px, py); dots are 2x4 per cell.
func (c *canvas) set(px, py, layer int) {
	if px < 0 || py < 0 || px >= 2*c.w || py >= 4*c.h {
		return
	}
	i := (py/4)*c.w + px/2
	c.mask[i] |= dotBits[px%2][py%4]
	c.layer[i] = max(c.layer[i], layer)
}

func (c *canvas) inside(d geom.Vec) bool {
	return d.X >= 0 && d.Y >= 0 && d.X < float64(2*c.w) && d.Y < float64(4*c.h)
}

// clip cuts the segment ab to the dot area with a margin of one dot
// (Liang-Barsky). ok is false when nothing remains.
func (c *canvas) clip(a, b geom.Vec) (geom.Vec, geom.Vec, bool) {
	if !a.IsFinite() || !b.IsFinite() {
		return a, b, false
	}
	x0, y0 := -1.0, -1.0
	x1, y1 := float64(2*c.w)+1, float64(4*c.h)+1
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-d.X, a.X - x0},
		{d.X, x1 - a.X},
		{-d.Y, a.Y - y0},
		{d.Y, y1 - a.Y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return a.Add(d.Scale(t0)), a.Add(d.Scale(t1)), true
}

// line draws the segment ab in dot coordinates using Bresenham.
func (c *canvas) line(a, b geom.Vec, layer int) {
	c.stroke(a, b, layer, 1)
}

// dotted draws every other dot of ab.
func (c *canvas) dotted(a, b geom.Vec, layer int) {
	c.stroke(a, b, layer, 2)
}

func (c *canvas) stroke(a, b geom.Vec, layer, every int) {
	a, b, ok := c.clip(a, b)
	if !ok {
		return
	}
	x0, y0 := int(math.Floor(a.X)), int(math.Floor(a.Y))
	x1, y1 := int(math.Floor(b.X)), int(math.Floor(b.Y))
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for n := 0; ; n++ {
		if n%every == 0 {
			c.set(x0, y0, layer)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// polyline draws consecutive segments through pts.
func (c *canvas) polyline(pts []geom.Vec, layer int) {
	if len(pts) == 1 && c.inside(pts[0]) {
		c.set(int(pts[0].X), int(pts[0].Y), layer)
		return
	}
	for i := 1; i < len(pts); i++ {
		c.line(pts[i-1], pts[i], layer)
	}
}

func (c *canvas) glyph(x, y int) rune {
	mask := c.mask[y*c.w+x]
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

// row renders row y, styling runs of cells by layer. When replaceX is in
// range that cell is replaced by replacement, which is already styled.
func (c *canvas) row(y int, styles []lipgloss.Style, replaceX int, replacement string) string {
	var b strings.Builder
	var run []rune
	runLayer := 0
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runLayer > 0 && runLayer < len(styles) {
			b.WriteString(styles[runLayer].Render(string(run)))
		} else {
			b.WriteString(string(run))
		}
		run = run[:0]
	}
	for x := 0; x < c.w; x++ {
		if x == replaceX {
			flush()
			b.WriteString(replacement)
			continue
		}
		l := c.layer[y*c.w+x]
		if c.mask[y*c.w+x] == 0 {
			l = 0
		}
		if l != runLayer {
			flush()
			runLayer = l
		}
		run = append(run, c.glyph(x, y))
	}
	flush()
	return b.String()
}

func (c *canvas) lines(styles []lipgloss.Style) []string {
	out := make([]string, c.h)
	for y := range out {
		out[y] = c.row(y, styles, -1, "")
	}
	return out
}

// String returns the raster without styles.
func (c *canvas) String() string {
	rows := make([]string, c.h)
	for y := range rows {
		r := make([]rune, c.w)
		for x := range r {
			r[x] = c.glyph(x, y)
		}
		rows[y] = string(r)
	}
	return strings.Join(rows, "\n")
}
