// Package affine implements 2D affine transforms as immutable values.
//
// A Transform with coefficients (A, B, C, D, E, F) maps a point (x, y) to
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
//
// which is the augmented matrix
//
//	| A  C  E |
//	| B  D  F |
//	| 0  0  1 |
package affine

import (
	"fmt"
	"math"

	"plotview/internal/geom"
)

// Epsilon is the determinant magnitude below which a transform is treated
// as singular.
const Epsilon = 1e-10

// Transform is a 2D affine transform. The zero value maps every point to
// the origin; use Identity for the neutral transform.
type Transform struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Translate returns a translation by (dx, dy).
func Translate(dx, dy float64) Transform {
	return Transform{A: 1, D: 1, E: dx, F: dy}
}

// Scale returns a scaling about the origin.
func Scale(sx, sy float64) Transform {
	return Transform{A: sx, D: sy}
}

// Rotate returns a counter-clockwise rotation by theta radians.
func Rotate(theta float64) Transform {
	sin, cos := math.Sincos(theta)
	return Transform{A: cos, B: sin, C: -sin, D: cos}
}

// Shear returns a shear with x' = x + kx*y and y' = ky*x + y.
func Shear(kx, ky float64) Transform {
	return Transform{A: 1, B: ky, C: kx, D: 1}
}

// Multiply returns the transform that applies b, then a.
func Multiply(a, b Transform) Transform {
	return a.Multiply(b)
}

// Multiply returns m*o: o is applied first, then m.
func (m Transform) Multiply(o Transform) Transform {
	return Transform{
		A: m.A*o.A + m.C*o.B,
		B: m.B*o.A + m.D*o.B,
		C: m.A*o.C + m.C*o.D,
		D: m.B*o.C + m.D*o.D,
		E: m.A*o.E + m.C*o.F + m.E,
		F: m.B*o.E + m.D*o.F + m.F,
	}
}

// Then returns the transform that applies m, then o.
func (m Transform) Then(o Transform) Transform {
	return o.Multiply(m)
}

// Apply transforms a point.
func (m Transform) Apply(p geom.Vec) geom.Vec {
	return geom.Vec{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyVector transforms a direction, ignoring the translation part.
func (m Transform) ApplyVector(v geom.Vec) geom.Vec {
	return geom.Vec{
		X: m.A*v.X + m.C*v.Y,
		Y: m.B*v.X + m.D*v.Y,
	}
}

// ApplyRect returns the bounding box of r's transformed corners.
func (m Transform) ApplyRect(r geom.Rect) geom.Rect {
	out, _ := geom.Bounds(
		m.Apply(r.Min),
		m.Apply(geom.Vec{X: r.Max.X, Y: r.Min.Y}),
		m.Apply(r.Max),
		m.Apply(geom.Vec{X: r.Min.X, Y: r.Max.Y}),
	)
	return out
}

// Determinant returns the determinant of the linear part, A·D − B·C.
func (m Transform) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse of m. ok is false when m is singular or
// nearly so, in which case the returned transform is the identity.
func (m Transform) Invert() (inv Transform, ok bool) {
	det := m.Determinant()
	if math.Abs(det) < Epsilon || math.IsNaN(det) {
		return Identity(), false
	}
	id := 1 / det
	return Transform{
		A: m.D * id,
		B: -m.B * id,
		C: -m.C * id,
		D: m.A * id,
		E: (m.C*m.F - m.D*m.E) * id,
		F: (m.B*m.E - m.A*m.F) * id,
	}, true
}

// IsIdentity reports whether m equals Identity() exactly.
func (m Transform) IsIdentity() bool {
	return m == Identity()
}

// String formats m in SVG notation, matrix(a, b, c, d, e, f).
func (m Transform) String() string {
	return fmt.Sprintf("matrix(%g, %g, %g, %g, %g, %g)", m.A, m.B, m.C, m.D, m.E, m.F)
}
