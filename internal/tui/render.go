package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"plotview/internal/affine"
	"plotview/internal/expr"
	"plotview/internal/geom"
	"plotview/internal/pane"
	"plotview/internal/sampler"
)

// viewport relates the plot area to coordinate space. Braille dots are the
// micro-pixels: 2x4 per cell, roughly square on screen.
type viewport struct {
	w, h int     // in cells
	unit float64 // view units per dot

	proj affine.Transform // coordinates -> dots
	inv  affine.Transform // dots -> coordinates

	visible     geom.Rect
	unitsPerDot float64
}

func (m Model) viewport(w, h int) (viewport, bool) {
	vp := viewport{w: w, h: h, unit: m.cfg.View.CellUnits / 2}
	dw, dh := float64(2*w), float64(4*h)

	// view units are centered on the plot with y up
	center := geom.V(dw/2*vp.unit, -dh/2*vp.unit)
	flip := geom.V(1/vp.unit, -1/vp.unit)
	screen := affine.Scope{Translate: &center, Scale: &flip}.Transform(affine.Identity())

	vp.proj = affine.Multiply(screen, m.cam.View())
	inv, ok := vp.proj.Invert()
	if !ok {
		return vp, false
	}
	vp.inv = inv
	vp.visible = inv.ApplyRect(geom.R(0, 0, dw, dh))
	vp.unitsPerDot = m.cam.Matrix().ApplyVector(geom.V(vp.unit, vp.unit)).X
	return vp, true
}

// toView converts a cell position to view units, at the cell's center dot.
func (vp viewport) toView(cx, cy int) geom.Vec {
	dot := geom.V(float64(cx*2+1), float64(cy*4+2))
	return geom.V(
		(dot.X-float64(vp.w))*vp.unit,
		(float64(2*vp.h)-dot.Y)*vp.unit,
	)
}

// cellToMath converts a cell position to coordinates.
func (vp viewport) cellToMath(cx, cy int) geom.Vec {
	return vp.inv.Apply(geom.V(float64(cx*2+1), float64(cy*4+2)))
}

// paneStat counts the samples taken in one pane during the last render.
type paneStat struct {
	axis    string
	index   int
	span    geom.Interval
	samples int
}

// frame caches the rasterized plot between renders. Camera listeners and
// data changes mark it stale.
type frame struct {
	stale bool
	w, h  int
	lines []string
	panes pane.Set
	stats []paneStat
	vp    viewport
	ok    bool

	canvas *canvas
	styles []lipgloss.Style
}

// canvasRow re-renders row y of the cached frame with cell x replaced.
func (f *frame) canvasRow(y, x int, replacement string) string {
	if f.canvas == nil {
		return f.lines[y]
	}
	return f.canvas.row(y, f.styles, x, replacement)
}

const (
	layerGrid = iota + 1
	layerAxes
	layerOverlay
	layerCurve
)

// render returns the plot area as styled lines, reusing the cached frame
// when nothing changed.
func (m Model) render(w, h int) []string {
	f := m.frame
	if !f.stale && f.w == w && f.h == h && f.lines != nil {
		return f.lines
	}
	f.w, f.h, f.stale = w, h, false

	vp, ok := m.viewport(w, h)
	f.vp, f.ok = vp, ok
	c := newCanvas(w, h)
	f.canvas, f.styles = c, m.styles()
	if !ok {
		f.lines = c.lines(f.styles)
		return f.lines
	}
	f.panes = pane.ComputeRect(vp.visible)
	f.stats = f.stats[:0]

	if m.showGrid {
		m.drawGrid(c, vp, f.panes)
	}
	if m.showOverlay {
		m.drawOverlay(c, vp)
	}
	if m.showCurves {
		opts := m.cfg.SamplerOptions(vp.unitsPerDot)
		for i, pc := range m.curves {
			f.stats = m.drawCurve(c, vp, f.panes, opts, pc, layerCurve+i, f.stats)
		}
	}
	f.lines = c.lines(f.styles)
	return f.lines
}

func (m Model) drawGrid(c *canvas, vp viewport, ps pane.Set) {
	dw, dh := float64(2*vp.w), float64(4*vp.h)
	edges := func(a pane.Axis) []float64 {
		out := make([]float64, 0, len(a.Panes)+1)
		for _, p := range a.Panes {
			out = append(out, p.Min)
		}
		if len(a.Panes) > 0 {
			out = append(out, a.Range.Max)
		}
		return out
	}
	for _, x := range edges(ps.X) {
		px := vp.proj.Apply(geom.V(x, 0)).X
		c.dotted(geom.V(px, 0), geom.V(px, dh), layerGrid)
	}
	for _, y := range edges(ps.Y) {
		py := vp.proj.Apply(geom.V(0, y)).Y
		c.dotted(geom.V(0, py), geom.V(dw, py), layerGrid)
	}
	if vp.visible.X().Contains(0) {
		px := vp.proj.Apply(geom.V(0, 0)).X
		c.line(geom.V(px, 0), geom.V(px, dh), layerAxes)
	}
	if vp.visible.Y().Contains(0) {
		py := vp.proj.Apply(geom.V(0, 0)).Y
		c.line(geom.V(0, py), geom.V(dw, py), layerAxes)
	}
}

func (m Model) drawOverlay(c *canvas, vp viewport) {
	for _, ls := range m.overlay.Lines {
		c.polyline(projectAll(vp.proj, ls), layerOverlay)
	}
	for _, p := range m.overlay.Points {
		d := vp.proj.Apply(p)
		if c.inside(d) {
			c.set(int(d.X), int(d.Y), layerOverlay)
		}
	}
}

// drawCurve samples pc per pane (per x pane for y = f(x), per y pane for
// x = f(y), once over its domain when parametric) and draws the result.
func (m Model) drawCurve(c *canvas, vp viewport, ps pane.Set, opts sampler.Options, pc plotCurve, layer int, stats []paneStat) []paneStat {
	var (
		curve sampler.Parametric
		axis  string
		spans []geom.Interval
	)
	switch pc.curve.Kind {
	case expr.OfX:
		curve, axis, spans = sampler.OfX(pc.curve.F), "x", ps.X.Panes
	case expr.OfY:
		curve, axis, spans = sampler.OfY(pc.curve.F), "y", ps.Y.Panes
	default:
		fx, fy := pc.curve.F, pc.curve.G
		curve = func(t float64) geom.Vec { return geom.V(fx(t), fy(t)) }
		axis, spans = "t", []geom.Interval{pc.domain}
	}
	for i, span := range spans {
		n := 0
		counted := func(yield func(sampler.Point[geom.Vec]) bool) {
			for p := range sampler.Sample[geom.Vec](curve, span, opts) {
				n++
				if !yield(p) {
					return
				}
			}
		}
		for _, pl := range sampler.Polylines(counted) {
			c.polyline(projectAll(vp.proj, pl), layer)
		}
		stats = append(stats, paneStat{axis: axis, index: i, span: span, samples: n})
	}
	return stats
}

func projectAll(t affine.Transform, pts []geom.Vec) []geom.Vec {
	out := make([]geom.Vec, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}

// curvePalette colors curves in order of addition.
var curvePalette = []lipgloss.Color{
	"#60A5FA", "#F472B6", "#34D399", "#FBBF24", "#A78BFA", "#F87171",
}

func (m Model) styles() []lipgloss.Style {
	st := make([]lipgloss.Style, layerCurve+len(m.curves))
	st[layerGrid] = gridStyle
	st[layerAxes] = axisStyle
	st[layerOverlay] = overlayStyle
	for i := range m.curves {
		st[layerCurve+i] = lipgloss.NewStyle().Foreground(curvePalette[i%len(curvePalette)])
	}
	return st
}

// renderPlot returns the plot area with the hover marker applied.
func (m Model) renderPlot(w, h int) string {
	lines := m.render(w, h)
	if !m.hoverMarker {
		return strings.Join(lines, "\n")
	}
	out := make([]string, len(lines))
	copy(out, lines)
	cx, cy := m.hoverMicX/2, m.hoverMicY/4
	if cy >= 0 && cy < len(out) {
		out[cy] = m.frame.canvasRow(cy, cx, markerStyle.Render("◯"))
	}
	return strings.Join(out, "\n")
}

// nearestOverlay finds the overlay vertex closest to the dot (px, py),
// within limit dots.
func (m Model) nearestOverlay(vp viewport, px, py int, limit float64) (dot geom.Vec, p geom.Vec, ok bool) {
	best := limit * limit
	at := geom.V(float64(px), float64(py))
	visit := func(v geom.Vec) {
		d := vp.proj.Apply(v)
		if dist := d.SquaredDist(at); dist <= best && !math.IsNaN(dist) {
			best, dot, p, ok = dist, d, v, true
		}
	}
	for _, v := range m.overlay.Points {
		visit(v)
	}
	for _, ls := range m.overlay.Lines {
		for _, v := range ls {
			visit(v)
		}
	}
	return dot, p, ok
}
