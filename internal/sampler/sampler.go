// Package sampler approximates arbitrary curves with polylines by adaptive,
// error-driven bisection of the parameter domain.
package sampler

import (
	"iter"
	"math"

	"plotview/internal/geom"
)

// Curve is a function of one parameter together with the two operations
// the sampler needs on its values: linear interpolation and a nonnegative
// error between two values.
type Curve[P any] interface {
	Eval(t float64) P
	Lerp(a, b P, t float64) P
	Error(a, b P) float64
}

// Funcs adapts three function values into a Curve.
type Funcs[P any] struct {
	Fn     func(t float64) P
	LerpFn func(a, b P, t float64) P
	ErrFn  func(a, b P) float64
}

func (f Funcs[P]) Eval(t float64) P         { return f.Fn(t) }
func (f Funcs[P]) Lerp(a, b P, t float64) P { return f.LerpFn(a, b, t) }
func (f Funcs[P]) Error(a, b P) float64     { return f.ErrFn(a, b) }

// Point is one sample: a parameter and the curve's value there.
type Point[P any] struct {
	T     float64
	Value P
}

// Options bounds the subdivision.
//
// Every run produces at least 2^MinDepth segments and at most 2^MaxDepth;
// between those depths a segment is split while the curve's true midpoint
// differs from the linear estimate by more than Threshold.
type Options struct {
	MinDepth  int
	MaxDepth  int
	Threshold float64
}

// DefaultOptions suits function plots in math units.
func DefaultOptions() Options {
	return Options{MinDepth: 4, MaxDepth: 14, Threshold: 0.1}
}

func (o Options) normalize() Options {
	o.MaxDepth = max(o.MaxDepth, 0)
	o.MinDepth = min(max(o.MinDepth, 0), o.MaxDepth)
	return o
}

// PixelThreshold converts a tolerance in device pixels into a Threshold for
// curves over geom.Vec, whose error is the squared distance in math units.
func PixelThreshold(unitsPerPixel, pixels float64) float64 {
	d := unitsPerPixel * pixels
	return d * d
}

// Sample returns the samples of c over domain. The first sample is always
// at domain.Min and the last at domain.Max. Values are yielded as computed;
// stopping the range loop stops evaluation.
//
// The domain is not validated and non-finite curve values are passed
// through unchanged. Identical inputs always yield identical sequences.
func Sample[P any](c Curve[P], domain geom.Interval, opts Options) iter.Seq[Point[P]] {
	opts = opts.normalize()
	return func(yield func(Point[P]) bool) {
		lo, hi := domain.Min, domain.Max
		pLo, pHi := c.Eval(lo), c.Eval(hi)
		if !yield(Point[P]{T: lo, Value: pLo}) {
			return
		}
		w := walker[P]{c: c, opts: opts, yield: yield}
		w.bisect(lo, hi, pLo, pHi, 0)
	}
}

type walker[P any] struct {
	c     Curve[P]
	opts  Options
	yield func(Point[P]) bool
}

// bisect emits the samples of (lo, hi]. It returns false once the consumer
// has stopped.
func (w *walker[P]) bisect(lo, hi float64, pLo, pHi P, depth int) bool {
	f := Jitter(lo, hi)
	mid := lo + (hi-lo)*f
	pMid := w.c.Eval(mid)
	if depth < w.opts.MinDepth ||
		(depth < w.opts.MaxDepth && w.c.Error(pMid, w.c.Lerp(pLo, pHi, f)) > w.opts.Threshold) {
		return w.bisect(lo, mid, pLo, pMid, depth+1) &&
			w.bisect(mid, hi, pMid, pHi, depth+1)
	}
	return w.yield(Point[P]{T: hi, Value: pHi})
}

// Jitter returns the split fraction for [lo, hi], a value in [0.4, 0.6].
// It is a pure hash of its inputs: the same interval always splits at the
// same place.
func Jitter(lo, hi float64) float64 {
	h := math.Sin(lo*12.9898+hi*78.233) * 43758.5453
	h -= math.Floor(h)
	if math.IsNaN(h) || h < 0 || h >= 1 {
		return 0.5
	}
	return 0.4 + 0.2*h
}

// Values drops the parameters from a sample sequence.
func Values[P any](seq iter.Seq[Point[P]]) []P {
	var out []P
	for s := range seq {
		out = append(out, s.Value)
	}
	return out
}
