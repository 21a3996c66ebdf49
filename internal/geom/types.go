// Package geom holds the plain value types shared by the plotting engine:
// points, intervals and rectangles, plus loaders for overlay data.
package geom

import "math"

// Vec is a point or vector in the plane.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) Add(w Vec) Vec       { return Vec{v.X + w.X, v.Y + w.Y} }
func (v Vec) Sub(w Vec) Vec       { return Vec{v.X - w.X, v.Y - w.Y} }
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(w Vec) float64  { return v.Sub(w).Len() }
func (v Vec) Midpoint(w Vec) Vec  { return v.Lerp(w, 0.5) }
func (v Vec) IsFinite() bool      { return isFinite(v.X) && isFinite(v.Y) }
func (v Vec) SquaredDist(w Vec) float64 {
	dx, dy := v.X-w.X, v.Y-w.Y
	return dx*dx + dy*dy
}

// Lerp returns the point a fraction t of the way from v to w.
func (v Vec) Lerp(w Vec, t float64) Vec {
	return Vec{v.X + (w.X-v.X)*t, v.Y + (w.Y-v.Y)*t}
}

// Interval is a closed range of reals. Ordering is not enforced; callers
// that need Min < Max check IsValid.
type Interval struct {
	Min, Max float64
}

func (i Interval) Span() float64 { return i.Max - i.Min }

// IsValid reports whether the interval is finite and non-empty.
func (i Interval) IsValid() bool {
	return isFinite(i.Min) && isFinite(i.Max) && i.Min < i.Max
}

func (i Interval) Contains(v float64) bool { return v >= i.Min && v <= i.Max }

// Lerp maps t in [0,1] onto the interval.
func (i Interval) Lerp(t float64) float64 { return i.Min + (i.Max-i.Min)*t }

// Intersect returns the overlap of two intervals and whether it is non-empty.
func (i Interval) Intersect(o Interval) (Interval, bool) {
	r := Interval{Min: math.Max(i.Min, o.Min), Max: math.Min(i.Max, o.Max)}
	return r, r.Min < r.Max
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Vec
}

// R builds a Rect from its bounds.
func R(xMin, yMin, xMax, yMax float64) Rect {
	return Rect{Min: Vec{xMin, yMin}, Max: Vec{xMax, yMax}}
}

func (r Rect) X() Interval   { return Interval{r.Min.X, r.Max.X} }
func (r Rect) Y() Interval   { return Interval{r.Min.Y, r.Max.Y} }
func (r Rect) Size() Vec     { return r.Max.Sub(r.Min) }
func (r Rect) Center() Vec   { return r.Min.Midpoint(r.Max) }
func (r Rect) IsValid() bool { return r.X().IsValid() && r.Y().IsValid() }

func (r Rect) Contains(p Vec) bool {
	return r.X().Contains(p.X) && r.Y().Contains(p.Y)
}

// Extend grows r to include p.
func (r Rect) Extend(p Vec) Rect {
	return Rect{
		Min: Vec{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Vec{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Bounds returns the bounding box of pts. ok is false when pts is empty.
func Bounds(pts ...Vec) (r Rect, ok bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	r = Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r = r.Extend(p)
	}
	return r, true
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
