package pane

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotview/internal/geom"
)

func TestSymmetricViewport(t *testing.T) {
	s := Compute(-5, 5, -5, 5)
	want := []geom.Interval{{Min: -8, Max: -4}, {Min: -4, Max: 0}, {Min: 0, Max: 4}, {Min: 4, Max: 8}}
	for _, a := range []Axis{s.X, s.Y} {
		assert.Equal(t, 4.0, a.Size)
		assert.Equal(t, want, a.Panes)
		assert.Equal(t, geom.Interval{Min: -8, Max: 8}, a.Range)
	}
}

func TestPaneSize(t *testing.T) {
	tests := []struct {
		span float64
		want float64
	}{
		{10, 4},
		{8, 4},
		{6, 4},    // log2(6)-1 = 1.58
		{5.6, 2},  // log2(5.6)-1 = 1.49
		{1, 0.5},  // log2(1)-1 = -1
		{0.3, 0.125},
		{1000, 512},
	}
	for _, tt := range tests {
		a := ComputeAxis(geom.Interval{Min: 0, Max: tt.span})
		assert.Equal(t, tt.want, a.Size, "span %v", tt.span)
	}
}

func TestRoundingTieGoesUp(t *testing.T) {
	// log2(2*sqrt2) - 1 = 0.5 exactly in theory; ties round toward +Inf
	assert.Equal(t, 1.0, roundHalfUp(0.5))
	assert.Equal(t, -1.0, roundHalfUp(-1.5))
	assert.Equal(t, 2.0, roundHalfUp(1.5))
}

func TestCoverageAndContiguity(t *testing.T) {
	views := []geom.Interval{
		{Min: -5, Max: 5},
		{Min: 0.1, Max: 0.2},
		{Min: -1e6, Max: 3},
		{Min: 12.5, Max: 13},
		{Min: -0.001, Max: 0.001},
		{Min: 1234.5, Max: 5678.9},
	}
	for _, v := range views {
		a := ComputeAxis(v)
		require.NotEmpty(t, a.Panes, "%v", v)
		assert.Less(t, a.Range.Min, v.Min, "%v", v)
		assert.Greater(t, a.Range.Max, v.Max, "%v", v)
		assert.Equal(t, a.Range.Min, a.Panes[0].Min)
		assert.Equal(t, a.Range.Max, a.Panes[len(a.Panes)-1].Max)
		for i, p := range a.Panes {
			assert.Equal(t, a.Size, p.Span(), "%v pane %d", v, i)
			assert.Equal(t, 0.0, math.Mod(p.Min, a.Size), "%v pane %d aligned", v, i)
			if i > 0 {
				assert.Equal(t, a.Panes[i-1].Max, p.Min, "%v pane %d", v, i)
			}
		}
	}
}

func TestHysteresis(t *testing.T) {
	base := ComputeAxis(geom.Interval{Min: -5, Max: 5})
	// a pan smaller than the pad keeps every boundary
	for _, d := range []float64{-0.4, -0.1, 0.2, 0.49} {
		moved := ComputeAxis(geom.Interval{Min: -5 + d, Max: 5 + d})
		assert.Equal(t, base, moved, "pan %v", d)
	}
	moved := ComputeAxis(geom.Interval{Min: -5 + 1.6, Max: 5 + 1.6})
	assert.NotEqual(t, base.Range, moved.Range)
}

func TestDegenerate(t *testing.T) {
	for _, v := range []geom.Interval{
		{Min: 1, Max: 1},
		{Min: 2, Max: 1},
		{Min: math.NaN(), Max: 1},
		{Min: math.Inf(-1), Max: 1},
		// the span overflows to +Inf
		{Min: -1e308, Max: 1.7e308},
		// the span is finite but the upper pane edge is not
		{Min: 0, Max: 1.7e308},
		// the pane size underflows to zero
		{Min: 0, Max: 5e-324},
	} {
		assert.Equal(t, Axis{}, ComputeAxis(v), "%v", v)
	}
}

func TestIndex(t *testing.T) {
	a := Compute(-5, 5, 0, 1).X
	assert.Equal(t, 0, a.Index(-8))
	assert.Equal(t, 0, a.Index(-4.5))
	assert.Equal(t, 1, a.Index(-4))
	assert.Equal(t, 2, a.Index(0))
	assert.Equal(t, 3, a.Index(8))
	assert.Equal(t, -1, a.Index(8.1))
	assert.Equal(t, -1, a.Index(-9))
	assert.Equal(t, -1, Axis{}.Index(0))
}

func TestCells(t *testing.T) {
	s := ComputeRect(geom.R(-5, -1, 5, 1))
	cells := s.Cells()
	require.Len(t, cells, len(s.X.Panes)*len(s.Y.Panes))
	assert.Equal(t, Cell{Col: 0, Row: 0, Bounds: geom.R(-8, s.Y.Range.Min, -4, s.Y.Panes[0].Max)}, cells[0])
	last := cells[len(cells)-1]
	assert.Equal(t, len(s.X.Panes)-1, last.Col)
	assert.Equal(t, len(s.Y.Panes)-1, last.Row)
	assert.Equal(t, s.X.Range.Max, last.Bounds.Max.X)
	assert.Equal(t, s.Y.Range.Max, last.Bounds.Max.Y)
}
