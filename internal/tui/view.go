package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen geometry shared by View and the mouse handling.
type layout struct {
	contentW, contentH int
	sidebarW           int
	plotX, plotY       int
	plotW, plotH       int
	popupH             int
}

func (m Model) layout() layout {
	var lay layout
	if m.showSidebar {
		lay.sidebarW = sidebarWidth
	}
	lay.contentH = max(4, m.height-headerHeight-footerHeight)
	lay.contentW = max(10, m.width)
	lay.plotW = max(10, lay.contentW-lay.sidebarW-1)
	lay.plotX = lay.sidebarW
	if m.showSidebar {
		lay.plotX++
	}
	lay.plotY = headerHeight
	if m.inspectPopup != "" && !m.showPanes {
		// popup rows plus its border
		lay.popupH = strings.Count(m.inspectPopup, "\n") + 3
	}
	lay.plotY += lay.popupH
	lay.plotH = max(4, lay.contentH-lay.popupH)
	return lay
}

// plotCell returns the plot cell under the screen position (x, y).
func (lay layout) plotCell(x, y int) (cx, cy int, ok bool) {
	cx, cy = x-lay.plotX, y-lay.plotY
	return cx, cy, cx >= 0 && cx < lay.plotW && cy >= 0 && cy < lay.plotH
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	// Update list size with accurate content height when sidebar visible
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lay.contentH-2)
	}

	// Header
	header := titleStyle.Render(" plotview ─ terminal function plotter ")
	header = lipgloss.NewStyle().Width(lay.contentW).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var plotView string
	switch {
	case m.showPanes:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, lay.contentW-6)
		}
		maxW := min(lay.plotW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.plotH-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		plotView = lipgloss.Place(lay.plotW, lay.plotH, lipgloss.Center, lipgloss.Center, box)
	case m.exprMode:
		m.ta.SetWidth(lay.plotW - 4)
		prompt := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("new curve"), m.ta.View(), m.renderCurveList())
		plotView = lipgloss.Place(lay.plotW, lay.plotH, lipgloss.Left, lipgloss.Top, boxStyle.Render(prompt))
	default:
		plotView = lipgloss.NewStyle().Width(lay.plotW).Height(lay.plotH).Render(m.renderPlot(lay.plotW, lay.plotH))
	}

	// Build inspect popup box (center-left overlay, not in plot column)
	popup := ""
	if m.inspectPopup != "" && !m.showPanes {
		maxPopupW := max(20, min(56, lay.contentW/2))
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(lay.contentW, lay.popupH, lipgloss.Left, lipgloss.Top, box)
	}

	// Body row
	var body string
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", plotView)
	} else {
		body = plotView
	}

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasPos {
		coords = dimStyle.Render(fmt.Sprintf("  x=%s y=%s  zoom=%sx  ", fmtNum(m.hoverMath.X), fmtNum(m.hoverMath.Y), fmtNum(m.cam.State().Scale)))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

func (m Model) renderCurveList() string {
	if len(m.curves) == 0 {
		return dimStyle.Render("no curves")
	}
	rows := make([]string, len(m.curves))
	for i, c := range m.curves {
		swatch := lipgloss.NewStyle().Foreground(curvePalette[i%len(curvePalette)]).Render("━━")
		rows[i] = fmt.Sprintf("%s %d  %s  %s", swatch, i+1, c.curve.Kind, c.label)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→/drag pan",
		"+/-/wheel zoom",
		"0 reset",
		"Tab sidebar",
		"Enter open",
		"p plot",
		"x drop",
		"a panes",
		"i inspect",
		"l layers",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

// inspect describes the camera, the current view and the cursor position.
func (m Model) inspect() string {
	lay := m.layout()
	s := m.cam.State()
	lines := []string{
		fmt.Sprintf("offset: %s  scale: %s", fmtVec(s.Offset), fmtNum(s.Scale)),
		fmt.Sprintf("zoom range: [%s, %s]", fmtNum(m.cam.Options().MinZoom), fmtNum(m.cam.Options().MaxZoom)),
		"matrix: " + m.cam.Matrix().String(),
		"view:   " + m.cam.View().String(),
	}
	vp, ok := m.viewport(lay.plotW, lay.plotH)
	if !ok {
		return strings.Join(append(lines, "view transform is singular"), "\n")
	}
	lines = append(lines,
		fmt.Sprintf("visible: x %s  y %s", fmtInterval(vp.visible.X()), fmtInterval(vp.visible.Y())),
		fmt.Sprintf("units/dot: %s", fmtNum(vp.unitsPerDot)),
	)
	if f := m.frame; f.ok {
		lines = append(lines, fmt.Sprintf("panes: %dx%d of %s x %s",
			len(f.panes.X.Panes), len(f.panes.Y.Panes), fmtNum(f.panes.X.Size), fmtNum(f.panes.Y.Size)))
	}
	if m.hoverHasPos {
		lines = append(lines, "cursor: "+fmtVec(m.hoverMath))
	}
	if !m.overlay.Empty() {
		b := m.overlay.Bounds
		lines = append(lines, fmt.Sprintf("overlay: pts=%d ls=%d bounds %s-%s",
			len(m.overlay.Points), len(m.overlay.Lines), fmtVec(b.Min), fmtVec(b.Max)))
	}
	lines = append(lines, fmt.Sprintf("curves: %d", len(m.curves)))
	return strings.Join(lines, "\n")
}
