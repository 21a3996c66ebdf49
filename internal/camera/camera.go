// Package camera holds the pan/zoom state of an interactive viewport.
//
// A gesture starts with SetBase and continues with Move calls that each
// carry the total pan and zoom since SetBase, not a per-frame delta.
package camera

import (
	"math"

	"plotview/internal/affine"
	"plotview/internal/geom"
	"plotview/internal/logging"
	"plotview/internal/notify"
)

// Default zoom limits.
const (
	DefaultMinZoom = 0.5
	DefaultMaxZoom = 5
)

// State is a pan offset and a zoom scale.
type State struct {
	Offset geom.Vec
	Scale  float64
}

// Options limits the zoom scale.
type Options struct {
	MinZoom float64
	MaxZoom float64
}

// DefaultOptions returns the zoom range [0.5, 5].
func DefaultOptions() Options {
	return Options{MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom}
}

func (o Options) normalize() Options {
	valid := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
	if !valid(o.MinZoom) {
		o.MinZoom = DefaultMinZoom
	}
	if !valid(o.MaxZoom) {
		o.MaxZoom = DefaultMaxZoom
	}
	if o.MinZoom > o.MaxZoom {
		o.MinZoom, o.MaxZoom = o.MaxZoom, o.MinZoom
	}
	return o
}

// Zoom scales by Factor about the focal point At, given in the same space
// as the offset.
type Zoom struct {
	At     geom.Vec
	Factor float64
}

// Move is a cumulative gesture delta relative to the base snapshot.
// A nil Zoom leaves the scale at its base value.
type Move struct {
	Pan  geom.Vec
	Zoom *Zoom
}

// Controller owns the current camera state, the base snapshot the current
// gesture is measured from, and the listeners notified on every change.
// It is not safe for concurrent use.
type Controller struct {
	opts      Options
	cur, base State
	listeners notify.List[State]
}

// New returns a controller at offset 0 and scale 1 (clamped into the zoom
// range). Invalid limits fall back to the defaults; reversed limits are
// swapped.
func New(opts Options) *Controller {
	c := &Controller{opts: opts.normalize()}
	c.cur = State{Scale: c.Clamp(1)}
	c.base = c.cur
	return c
}

func (c *Controller) Options() Options { return c.opts }
func (c *Controller) State() State     { return c.cur }
func (c *Controller) Base() State      { return c.base }

// Clamp limits s to the zoom range. NaN is returned unchanged.
func (c *Controller) Clamp(s float64) float64 {
	return min(max(s, c.opts.MinZoom), c.opts.MaxZoom)
}

// Subscribe registers fn to be called synchronously after every change,
// in subscription order. Listeners must not mutate the controller.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	return c.listeners.Subscribe(fn)
}

// SetBase records the current state as the reference for subsequent Move
// calls. It does not notify.
func (c *Controller) SetBase() {
	c.base = c.cur
}

// Move replaces the current state with the base state moved by m.
func (c *Controller) Move(m Move) {
	next := c.base
	if z := m.Zoom; z != nil {
		scale := c.Clamp(c.base.Scale * z.Factor)
		if math.IsNaN(scale) {
			scale = c.base.Scale
		}
		if scale != c.base.Scale*z.Factor {
			logging.Logger().Debug("camera zoom clamped",
				"requested", c.base.Scale*z.Factor, "scale", scale)
		}
		ratio := scale / c.base.Scale
		next.Scale = scale
		next.Offset = z.At.Add(c.base.Offset.Sub(z.At).Scale(ratio))
	}
	next.Offset = next.Offset.Add(m.Pan)
	c.set(next)
}

// SetOffset moves the camera without a gesture.
func (c *Controller) SetOffset(o geom.Vec) {
	c.set(State{Offset: o, Scale: c.cur.Scale})
}

// SetScale zooms the camera without a gesture. s is clamped.
func (c *Controller) SetScale(s float64) {
	if math.IsNaN(s) {
		s = c.cur.Scale
	}
	c.set(State{Offset: c.cur.Offset, Scale: c.Clamp(s)})
}

// Reset returns to offset 0 and scale 1 and makes that the base.
func (c *Controller) Reset() {
	c.base = State{Scale: c.Clamp(1)}
	c.set(c.base)
}

func (c *Controller) set(s State) {
	c.cur = s
	c.listeners.Notify(s)
}

// Matrix is translate(offset) after scale(1/scale). Its linear part maps a
// span in view units to the visible span in coordinate units, which
// shrinks as the scale grows.
func (c *Controller) Matrix() affine.Transform {
	inv := 1 / c.cur.Scale
	return affine.Multiply(
		affine.Translate(c.cur.Offset.X, c.cur.Offset.Y),
		affine.Scale(inv, inv),
	)
}

// View maps coordinate space into view space: scale(scale), then
// translate(offset). A focal zoom from Move leaves the coordinate point
// under Zoom.At fixed in this space.
func (c *Controller) View() affine.Transform {
	return affine.Multiply(
		affine.Translate(c.cur.Offset.X, c.cur.Offset.Y),
		affine.Scale(c.cur.Scale, c.cur.Scale),
	)
}
