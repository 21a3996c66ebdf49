package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotview/internal/camera"
	"plotview/internal/config"
	"plotview/internal/geom"
)

// newSized returns a model laid out on an 80x24 terminal: the plot area is
// 79x21 cells starting at row 1.
func newSized(t *testing.T, cfg *config.Config) Model {
	t.Helper()
	return send(t, New(cfg), tea.WindowSizeMsg{Width: 80, Height: 24})
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func assertVecNear(t *testing.T, want, got geom.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, delta, "y of %v", got)
}

func TestLayout(t *testing.T) {
	m := newSized(t, nil)
	lay := m.layout()
	assert.Equal(t, layout{contentW: 80, contentH: 21, plotY: 1, plotW: 79, plotH: 21}, lay)

	_, _, ok := lay.plotCell(0, 0)
	assert.False(t, ok)
	cx, cy, ok := lay.plotCell(10, 5)
	require.True(t, ok)
	assert.Equal(t, [2]int{10, 4}, [2]int{cx, cy})
}

func TestViewport(t *testing.T) {
	m := newSized(t, nil)
	vp, ok := m.viewport(79, 21)
	require.True(t, ok)

	// the origin sits in the middle of the dot grid at scale 1
	assertVecNear(t, geom.V(79, 42), vp.proj.Apply(geom.V(0, 0)), 1e-12)
	assertVecNear(t, geom.V(79+8, 42-8), vp.proj.Apply(geom.V(1, 1)), 1e-12)
	assert.InDelta(t, -9.875, vp.visible.Min.X, 1e-12)
	assert.InDelta(t, 9.875, vp.visible.Max.X, 1e-12)
	assert.InDelta(t, -5.25, vp.visible.Min.Y, 1e-12)
	assert.InDelta(t, 0.125, vp.unitsPerDot, 1e-12)

	m.cam.SetScale(2)
	vp, ok = m.viewport(79, 21)
	require.True(t, ok)
	assert.InDelta(t, 0.0625, vp.unitsPerDot, 1e-12)
	assert.InDelta(t, 9.875/2, vp.visible.Max.X, 1e-12)

	for _, c := range [][2]int{{0, 0}, {40, 10}, {78, 20}} {
		p := vp.cellToMath(c[0], c[1])
		assertVecNear(t, geom.V(float64(c[0]*2+1), float64(c[1]*4+2)), vp.proj.Apply(p), 1e-9)
	}
}

func TestKeys(t *testing.T) {
	m := newSized(t, nil)

	m = send(t, m, key("+"))
	assert.InDelta(t, 1.2, m.cam.State().Scale, 1e-12)
	assert.Equal(t, geom.Vec{}, m.cam.State().Offset)

	m = send(t, m, key("0"), key("right"))
	assertVecNear(t, geom.V(0.1*158*0.125, 0), m.cam.State().Offset, 1e-12)
	m = send(t, m, key("up"))
	assertVecNear(t, geom.V(0.1*158*0.125, 0.1*84*0.125), m.cam.State().Offset, 1e-12)

	for range 20 {
		m = send(t, m, key("+"))
	}
	assert.Equal(t, float64(camera.DefaultMaxZoom), m.cam.State().Scale)

	m = send(t, m, key("0"))
	assert.Equal(t, camera.State{Scale: 1}, m.cam.State())
}

func TestMouseDrag(t *testing.T) {
	m := newSized(t, nil)
	m = send(t, m,
		tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 45, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
	)
	// the total drag of 10 cells is 20 dots, not the sum of both moves
	assertVecNear(t, geom.V(20*0.125, 0), m.cam.State().Offset, 1e-12)

	m = send(t, m,
		tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionRelease},
		tea.MouseMsg{X: 60, Y: 12, Action: tea.MouseActionMotion},
	)
	assertVecNear(t, geom.V(20*0.125, 0), m.cam.State().Offset, 1e-12)
	assert.True(t, m.hoverHasPos)
}

func TestWheelZoomDuringDrag(t *testing.T) {
	m := newSized(t, nil)
	m = send(t, m,
		tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp},
	)
	require.True(t, m.dragging)
	zoomed := m.cam.State()
	assert.InDelta(t, 1.2, zoomed.Scale, 1e-12)

	// no jump when the pointer has not moved since the zoom
	m = send(t, m, tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assertVecNear(t, zoomed.Offset, m.cam.State().Offset, 1e-12)

	m = send(t, m, tea.MouseMsg{X: 52, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assertVecNear(t, zoomed.Offset.Add(geom.V(4*0.125, 0)), m.cam.State().Offset, 1e-12)
	assert.InDelta(t, 1.2, m.cam.State().Scale, 1e-12)
}

func TestWheelZoomKeepsCursorPoint(t *testing.T) {
	m := newSized(t, nil)
	m.cam.SetOffset(geom.V(1.5, -0.5))

	vp, ok := m.viewport(79, 21)
	require.True(t, ok)
	before := vp.cellToMath(20, 4)

	for _, b := range []tea.MouseButton{tea.MouseButtonWheelUp, tea.MouseButtonWheelUp, tea.MouseButtonWheelDown} {
		m = send(t, m, tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionPress, Button: b})
		vp, ok = m.viewport(79, 21)
		require.True(t, ok)
		assertVecNear(t, before, vp.cellToMath(20, 4), 1e-9)
	}
	assert.InDelta(t, 1.2, m.cam.State().Scale, 1e-12)
	assertVecNear(t, before, m.hoverMath, 1e-9)
}

func TestRenderCurve(t *testing.T) {
	cfg := config.Default()
	cfg.Curves = []config.CurveConfig{{Expr: "y = x"}}
	m := newSized(t, cfg)
	m = send(t, m, key("3"))
	require.False(t, m.showGrid)

	lines := m.render(79, 21)
	require.Len(t, lines, 21)
	c := m.frame.canvas
	assert.NotEqual(t, ' ', c.glyph(39, 10))
	assert.Equal(t, ' ', c.glyph(0, 0))
	assert.Equal(t, ' ', c.glyph(2, 2))

	require.NotEmpty(t, m.frame.stats)
	for _, s := range m.frame.stats {
		assert.Equal(t, "x", s.axis)
		assert.Greater(t, s.samples, 16)
	}

	// cached until something changes
	assert.False(t, m.frame.stale)
	m.cam.SetScale(2)
	assert.True(t, m.frame.stale)
}

func TestRenderGrid(t *testing.T) {
	m := newSized(t, nil)
	m.render(79, 21)
	c := m.frame.canvas
	// axes through the origin
	assert.NotEqual(t, ' ', c.glyph(39, 0))
	assert.NotEqual(t, ' ', c.glyph(0, 10))
	assert.Equal(t, layerAxes, c.layer[10*79])
}

func TestExpressionEntry(t *testing.T) {
	m := newSized(t, nil)
	m = send(t, m, key("p"))
	require.True(t, m.exprMode)

	m = send(t, m, key("y = foo(x)"), key("enter"))
	assert.True(t, m.exprMode)
	assert.Contains(t, m.status, "expr error")
	assert.Empty(t, m.curves)

	m = send(t, m, key("esc"), key("p"), key("p = cos(t), sin(t)"), key("enter"))
	assert.False(t, m.exprMode)
	require.Len(t, m.curves, 1)
	assert.Equal(t, "p = cos(t), sin(t)", m.curves[0].label)

	m.render(79, 21)
	require.Len(t, m.frame.stats, 1)
	assert.Equal(t, "t", m.frame.stats[0].axis)

	m = send(t, m, key("x"))
	assert.Empty(t, m.curves)
}

func TestPanesTable(t *testing.T) {
	cfg := config.Default()
	cfg.Curves = []config.CurveConfig{{Expr: "y = sin(x)"}}
	m := newSized(t, cfg)
	m = send(t, m, key("a"))
	require.True(t, m.showPanes)

	rows := m.tbl.Rows()
	require.Len(t, rows, 8)
	assert.Equal(t, "x", rows[0][0])
	assert.Equal(t, "-16", rows[0][2])
	assert.NotEqual(t, "-", rows[0][5])
	assert.Equal(t, "y", rows[4][0])
	assert.Equal(t, "-", rows[4][5])

	m = send(t, m, key("a"))
	assert.False(t, m.showPanes)
}

func TestInspect(t *testing.T) {
	m := newSized(t, nil)
	m = send(t, m, key("i"))
	assert.Contains(t, m.inspectPopup, "scale: 1")
	assert.Contains(t, m.inspectPopup, "matrix(1, 0, 0, 1, 0, 0)")
	assert.Greater(t, m.layout().popupH, 0)

	m = send(t, m, key("i"))
	assert.Empty(t, m.inspectPopup)
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pts.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n10,10\n12,14\n"), 0o644))

	m := newSized(t, nil)
	t.Cleanup(func() { _ = m.Close() })
	m.loadPath(path)
	require.Len(t, m.overlay.Points, 2)
	assert.Contains(t, m.status, "pts.csv")

	vp, ok := m.viewport(79, 21)
	require.True(t, ok)
	assertVecNear(t, geom.V(79, 42), vp.proj.Apply(geom.V(11, 12)), 1e-9)
	assert.InDelta(t, 0.9*10.5/4, m.cam.State().Scale, 1e-12)

	m.loadPath(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Contains(t, m.status, "unsupported")
}

func TestLoadOverlayBeforeResize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.wkt")
	require.NoError(t, os.WriteFile(path, []byte("LINESTRING(-1 -1, 3 1)\n"), 0o644))

	m := NewWithPath(nil, path)
	t.Cleanup(func() { _ = m.Close() })
	require.True(t, m.fitPending)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.False(t, m.fitPending)

	vp, ok := m.viewport(79, 21)
	require.True(t, ok)
	assertVecNear(t, geom.V(79, 42), vp.proj.Apply(geom.V(1, 0)), 1e-9)
}

func TestOverlayReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pts.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n10,10\n12,14\n"), 0o644))

	m := newSized(t, nil)
	t.Cleanup(func() { _ = m.Close() })
	m.loadPath(path)
	require.NotNil(t, m.watch.w)
	assert.Equal(t, dir, m.watch.dir)
	assert.NotNil(t, m.Init())
	assert.Nil(t, m.waitOverlay(), "one waiting command at a time")
	before := m.cam.State()

	require.NoError(t, os.WriteFile(path, []byte("x,y\n0,0\n1,1\n5,5\n"), 0o644))
	m = send(t, m, overlayEventMsg{event: fsnotify.Event{Name: filepath.Join(dir, "other.csv"), Op: fsnotify.Write}})
	assert.Len(t, m.overlay.Points, 2)
	m = send(t, m, overlayEventMsg{event: fsnotify.Event{Name: path, Op: fsnotify.Chmod}})
	assert.Len(t, m.overlay.Points, 2)

	m = send(t, m, overlayEventMsg{event: fsnotify.Event{Name: path, Op: fsnotify.Write}})
	assert.Len(t, m.overlay.Points, 3)
	assert.Equal(t, before, m.cam.State())
	assert.Contains(t, m.status, "reloaded: pts.csv")

	require.NoError(t, m.Close())
	assert.Nil(t, m.watch.w)
	assert.NoError(t, m.Close())
}

func TestCanvas(t *testing.T) {
	c := newCanvas(2, 1)
	c.set(0, 0, 1)
	c.set(3, 3, 1)
	c.set(-1, 0, 1)
	c.set(4, 0, 1)
	assert.Equal(t, "⠁⢀", c.String())

	// far away endpoints are clipped instead of walked
	c = newCanvas(4, 2)
	c.line(geom.V(-1e12, 0.5), geom.V(1e12, 0.5), 1)
	assert.Equal(t, strings.Repeat("⠉", 4)+"\n"+strings.Repeat(" ", 4), c.String())

	c = newCanvas(4, 2)
	c.line(geom.V(-5, -5), geom.V(-1, 20), 1)
	assert.Equal(t, "    \n    ", c.String())
}

func TestFmtNum(t *testing.T) {
	assert.Equal(t, "0", fmtNum(0))
	assert.Equal(t, "1.2", fmtNum(1.2))
	assert.Equal(t, "3.1416", fmtNum(3.14159265))
	assert.Equal(t, "(1, -2)", fmtVec(geom.V(1, -2)))
	assert.Equal(t, "[-8, 8]", fmtInterval(geom.Interval{Min: -8, Max: 8}))
}
