package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"plotview/internal/camera"
	"plotview/internal/geom"
	"plotview/internal/logging"
)

const (
	zoomStep = 1.2
	// panStep is the fraction of the plot moved by an arrow key.
	panStep = 0.1
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
		if m.fitPending && !m.overlay.Empty() {
			m.fitPending = false
			m.fit(m.overlay.Bounds)
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.exprMode {
			return m.updateExpr(msg)
		}
		if m.showPanes {
			switch msg.String() {
			case "a", "esc":
				m.showPanes = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.showCurves = !m.showCurves
			m.frame.stale = true
			m.status = fmt.Sprintf("curves: %v", m.showCurves)
		case "2":
			m.showOverlay = !m.showOverlay
			m.frame.stale = true
			m.status = fmt.Sprintf("overlay: %v", m.showOverlay)
		case "3":
			m.showGrid = !m.showGrid
			m.frame.stale = true
			m.status = fmt.Sprintf("grid: %v", m.showGrid)
		case "l":
			// toggle all layers
			all := m.showCurves && m.showOverlay && m.showGrid
			m.showCurves = !all
			m.showOverlay = !all
			m.showGrid = !all
			m.frame.stale = true
			m.status = fmt.Sprintf("layers: curves=%v overlay=%v grid=%v", m.showCurves, m.showOverlay, m.showGrid)
		case "+", "=":
			m.zoomAt(geom.Vec{}, zoomStep)
		case "-", "_":
			m.zoomAt(geom.Vec{}, 1/zoomStep)
		case "0":
			m.cam.Reset()
			m.status = "view reset"
		case "up", "down", "left", "right":
			m.panKey(msg.String())
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
			}
		case "p":
			m.exprMode = true
			m.ta.SetValue("")
			m.ta.Focus()
			m.status = "enter a curve"
		case "x":
			if n := len(m.curves); n > 0 {
				m.status = "dropped: " + m.curves[n-1].label
				m.curves = m.curves[:n-1]
				m.frame.stale = true
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showPanes = !m.showPanes
			if m.showPanes {
				m.refreshPanes()
			}
		case "i":
			if m.inspectPopup != "" {
				m.inspectPopup = ""
				m.status = "view mode"
			} else {
				m.inspectPopup = m.inspect()
				m.status = "inspect popup"
			}
		case "esc":
			m.inspectPopup = ""
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
					return m, m.waitOverlay()
				}
			}
		}
	case tea.MouseMsg:
		m.updateMouse(msg)
	case overlayEventMsg:
		m.watch.waiting = false
		if m.isOverlayChange(msg.event) {
			m.reloadOverlay()
		}
		return m, m.waitOverlay()
	case watchErrMsg:
		m.watch.waiting = false
		logging.Logger().Warn("overlay watch error", "err", msg.err)
		return m, m.waitOverlay()
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateExpr(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.exprMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		src := strings.TrimSpace(m.ta.Value())
		if src == "" {
			m.status = "plot: empty"
			return m, nil
		}
		if err := m.addCurve(src); err != nil {
			m.status = "expr error: " + err.Error()
			logging.Logger().Debug("curve rejected", "src", src, "err", err)
			return m, nil
		}
		m.status = fmt.Sprintf("plotted %s  curves=%d", src, len(m.curves))
		m.exprMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// zoomAt zooms about the view-space point at as a one-step gesture.
func (m *Model) zoomAt(at geom.Vec, factor float64) {
	m.cam.SetBase()
	m.cam.Move(camera.Move{Zoom: &camera.Zoom{At: at, Factor: factor}})
	m.status = fmt.Sprintf("zoom: %sx", fmtNum(m.cam.State().Scale))
}

// wheelZoom zooms at the cursor. zoomAt rebases the camera, so a drag in
// progress continues from the cursor.
func (m *Model) wheelZoom(at geom.Vec, factor float64) {
	m.zoomAt(at, factor)
	if m.dragging {
		m.dragStart = at
	}
}

func (m *Model) panKey(key string) {
	lay := m.layout()
	vp, ok := m.viewport(lay.plotW, lay.plotH)
	if !ok {
		return
	}
	dx := panStep * float64(2*lay.plotW) * vp.unit
	dy := panStep * float64(4*lay.plotH) * vp.unit
	var d geom.Vec
	switch key {
	case "up":
		d.Y = dy
	case "down":
		d.Y = -dy
	case "left":
		d.X = -dx
	case "right":
		d.X = dx
	}
	m.cam.SetBase()
	m.cam.Move(camera.Move{Pan: d})
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	lay := m.layout()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lay.contentH-2)
	}
	vp, ok := m.viewport(lay.plotW, lay.plotH)
	if !ok {
		logging.Logger().Debug("singular view transform", "state", m.cam.State())
		return
	}
	cx, cy, inside := lay.plotCell(msg.X, msg.Y)
	at := vp.toView(cx, cy)

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		m.cam.SetBase()
		m.dragging = true
		m.dragStart = at
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.cam.Move(camera.Move{Pan: at.Sub(m.dragStart)})
		vp, _ = m.viewport(lay.plotW, lay.plotH)
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp && inside:
		m.wheelZoom(at, zoomStep)
		vp, _ = m.viewport(lay.plotW, lay.plotH)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown && inside:
		m.wheelZoom(at, 1/zoomStep)
		vp, _ = m.viewport(lay.plotW, lay.plotH)
	}

	m.hoverHasPos = inside
	m.hoverMarker = false
	if !inside {
		return
	}
	m.hoverMath = vp.cellToMath(cx, cy)
	if !m.showOverlay {
		return
	}
	// snap the marker to a nearby overlay vertex
	if dot, p, ok := m.nearestOverlay(vp, cx*2+1, cy*4+2, 6); ok {
		m.hoverMarker = true
		m.hoverMicX, m.hoverMicY = int(dot.X), int(dot.Y)
		m.hoverMath = p
	}
}
