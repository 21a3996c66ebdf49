package affine

import "plotview/internal/geom"

// Builder accumulates elementary transforms. Operations apply to a point in
// the order they were recorded; Build appends the ambient transform last.
// The zero Builder is ready to use.
type Builder struct {
	local Transform
	n     int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) then(m Transform) *Builder {
	if b.n == 0 {
		b.local = m
	} else {
		b.local = b.local.Then(m)
	}
	b.n++
	return b
}

func (b *Builder) Matrix(m Transform) *Builder       { return b.then(m) }
func (b *Builder) Translate(dx, dy float64) *Builder { return b.then(Translate(dx, dy)) }
func (b *Builder) Scale(sx, sy float64) *Builder     { return b.then(Scale(sx, sy)) }
func (b *Builder) Rotate(theta float64) *Builder     { return b.then(Rotate(theta)) }
func (b *Builder) Shear(kx, ky float64) *Builder     { return b.then(Shear(kx, ky)) }

// Local returns the recorded operations without any ambient transform.
func (b *Builder) Local() Transform {
	if b.n == 0 {
		return Identity()
	}
	return b.local
}

// Build composes the recorded operations with ambient so that every local
// operation runs before ambient.
func (b *Builder) Build(ambient Transform) Transform {
	if b.n == 0 {
		return ambient
	}
	return b.local.Then(ambient)
}

// Scope is the declarative form of a Builder: a transform scope whose set
// fields are applied in the fixed order matrix, translate, scale, rotate,
// shear. Nil fields and a zero Rotate are skipped.
type Scope struct {
	Matrix    *Transform
	Translate *geom.Vec
	Scale     *geom.Vec
	Rotate    float64
	Shear     *geom.Vec
}

// Transform resolves the scope against the transform of its enclosing
// scope. For nested scopes, inner.Transform(outer.Transform(root)) applies
// inner's operations first, then outer's, then root.
func (s Scope) Transform(ambient Transform) Transform {
	var b Builder
	if s.Matrix != nil {
		b.Matrix(*s.Matrix)
	}
	if s.Translate != nil {
		b.Translate(s.Translate.X, s.Translate.Y)
	}
	if s.Scale != nil {
		b.Scale(s.Scale.X, s.Scale.Y)
	}
	if s.Rotate != 0 {
		b.Rotate(s.Rotate)
	}
	if s.Shear != nil {
		b.Shear(s.Shear.X, s.Shear.Y)
	}
	return b.Build(ambient)
}
