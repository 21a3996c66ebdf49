package geom

import (
	"math"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec(t *testing.T) {
	a, b := V(1, 2), V(4, 6)
	assert.Equal(t, V(5, 8), a.Add(b))
	assert.Equal(t, V(3, 4), b.Sub(a))
	assert.Equal(t, 5.0, a.Dist(b))
	assert.Equal(t, 25.0, a.SquaredDist(b))
	assert.Equal(t, V(2.5, 4), a.Midpoint(b))
	assert.Equal(t, V(1.75, 3), a.Lerp(b, 0.25))
	assert.True(t, a.IsFinite())
	assert.False(t, V(math.NaN(), 0).IsFinite())
	assert.False(t, V(0, math.Inf(-1)).IsFinite())
}

func TestInterval(t *testing.T) {
	i := Interval{-2, 6}
	assert.Equal(t, 8.0, i.Span())
	assert.True(t, i.IsValid())
	assert.False(t, Interval{1, 1}.IsValid())
	assert.False(t, Interval{3, 1}.IsValid())
	assert.False(t, Interval{0, math.Inf(1)}.IsValid())
	assert.Equal(t, 2.0, i.Lerp(0.5))

	got, ok := i.Intersect(Interval{4, 10})
	require.True(t, ok)
	assert.Equal(t, Interval{4, 6}, got)
	_, ok = i.Intersect(Interval{7, 10})
	assert.False(t, ok)
}

func TestBounds(t *testing.T) {
	_, ok := Bounds()
	assert.False(t, ok)

	r, ok := Bounds(V(1, 5), V(-2, 3), V(4, -1))
	require.True(t, ok)
	assert.Equal(t, R(-2, -1, 4, 5), r)
	assert.True(t, r.Contains(V(0, 0)))
	assert.Equal(t, V(1, 2), r.Center())
}

func TestReadCSV(t *testing.T) {
	src := "name,X,Y\na,1,2\nb,oops,3\nc,-1,4\n"
	d, err := ReadCSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []Vec{V(1, 2), V(-1, 4)}, d.Points)
	assert.Equal(t, R(-1, 2, 1, 4), d.Bounds)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2\n"))
	assert.True(t, errors.IsNotFound(err), "%v", err)

	_, err = ReadCSV(strings.NewReader("x,y\nfoo,bar\n"))
	assert.True(t, errors.IsNotValid(err), "%v", err)
}

func TestParseWKT(t *testing.T) {
	d, err := ParseWKT("POINT (1 2)\nLINESTRING(0 0, 3 4, 5 -1)\nMULTIPOINT((7 7), (8 9))")
	require.NoError(t, err)
	assert.Equal(t, []Vec{V(1, 2), V(7, 7), V(8, 9)}, d.Points)
	require.Len(t, d.Lines, 1)
	assert.Equal(t, []Vec{V(0, 0), V(3, 4), V(5, -1)}, d.Lines[0])
	assert.Equal(t, R(0, -1, 8, 9), d.Bounds)

	d, err = ParseWKT("LINESTRING(0 0, 3 4, -2 1)")
	require.NoError(t, err)
	assert.Equal(t, R(-2, 0, 3, 4), d.Bounds)
	assert.False(t, d.Empty())
	assert.True(t, (&Data{}).Empty())

	for _, bad := range []string{"", "POLYGON((0 0, 1 1, 1 0, 0 0))", "LINESTRING(1 1)", "POINT(1)", "POINT 1 2"} {
		_, err := ParseWKT(bad)
		assert.Error(t, err, bad)
	}
}
