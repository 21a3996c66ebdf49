package sampler

import (
	"iter"

	"plotview/internal/geom"
)

// Parametric is a plane curve t -> (x, y). Its error is the squared
// distance between two points.
type Parametric func(t float64) geom.Vec

func (f Parametric) Eval(t float64) geom.Vec              { return f(t) }
func (Parametric) Lerp(a, b geom.Vec, t float64) geom.Vec { return a.Lerp(b, t) }
func (Parametric) Error(a, b geom.Vec) float64            { return a.SquaredDist(b) }

// OfX plots y = fn(x).
func OfX(fn func(x float64) float64) Parametric {
	return func(x float64) geom.Vec { return geom.Vec{X: x, Y: fn(x)} }
}

// OfY plots x = fn(y).
func OfY(fn func(y float64) float64) Parametric {
	return func(y float64) geom.Vec { return geom.Vec{X: fn(y), Y: y} }
}

// Scalar is a real function sampled on its own values, with squared
// difference as the error.
type Scalar func(t float64) float64

func (f Scalar) Eval(t float64) float64     { return f(t) }
func (Scalar) Lerp(a, b, t float64) float64 { return a + (b-a)*t }
func (Scalar) Error(a, b float64) float64   { return (a - b) * (a - b) }

// Polylines splits sampled plane points into drawable runs. A non-finite
// point ends the current run and is dropped.
func Polylines(seq iter.Seq[Point[geom.Vec]]) [][]geom.Vec {
	var (
		out [][]geom.Vec
		cur []geom.Vec
	)
	for s := range seq {
		if !s.Value.IsFinite() {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, s.Value)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
