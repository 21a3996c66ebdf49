package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"

	"plotview/internal/pane"
)

// refreshPanes rebuilds the pane table from the last rendered frame: one
// row per pane with the samples every curve took in it.
func (m *Model) refreshPanes() {
	f := m.frame
	if f.lines == nil || f.stale {
		lay := m.layout()
		m.render(lay.plotW, lay.plotH)
	}
	if len(f.panes.X.Panes) == 0 && len(f.panes.Y.Panes) == 0 {
		m.showPanes = false
		m.status = "no panes for current view"
		return
	}

	samples := map[string][]int{}
	for _, s := range f.stats {
		n := samples[s.axis]
		for len(n) <= s.index {
			n = append(n, 0)
		}
		n[s.index] += s.samples
		samples[s.axis] = n
	}
	count := func(axis string, i int) string {
		if n := samples[axis]; i < len(n) {
			return humanize.Comma(int64(n[i]))
		}
		return "-"
	}

	cols := []table.Column{
		{Title: "axis", Width: 4},
		{Title: "#", Width: 3},
		{Title: "min", Width: 11},
		{Title: "max", Width: 11},
		{Title: "size", Width: 9},
		{Title: "samples", Width: 8},
	}
	var rows []table.Row
	for _, ax := range []struct {
		name string
		axis pane.Axis
	}{
		{"x", f.panes.X},
		{"y", f.panes.Y},
	} {
		for i, p := range ax.axis.Panes {
			rows = append(rows, table.Row{
				ax.name, strconv.Itoa(i), fmtNum(p.Min), fmtNum(p.Max), fmtNum(ax.axis.Size), count(ax.name, i),
			})
		}
	}
	for _, s := range f.stats {
		if s.axis == "t" {
			rows = append(rows, table.Row{"t", "-", fmtNum(s.span.Min), fmtNum(s.span.Max), fmtNum(s.span.Span()), humanize.Comma(int64(s.samples))})
		}
	}
	// clear rows before swapping columns so the table never sees a mismatch
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
