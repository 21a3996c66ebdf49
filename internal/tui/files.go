package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/dustin/go-humanize"
	"github.com/juju/errors"

	"plotview/internal/geom"
	"plotview/internal/logging"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".csv" && ext != ".wkt" {
			continue
		}
		desc := ext
		if info, err := e.Info(); err == nil {
			desc += " " + humanize.Bytes(uint64(info.Size()))
		}
		items = append(items, fileItem{title: name, desc: desc, path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no overlay files in current directory"
	}
}

// readOverlay loads a CSV or WKT overlay file.
func readOverlay(p string) (geom.Data, error) {
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".csv":
		return geom.LoadCSV(p)
	case ".wkt", ".txt":
		return geom.LoadWKT(p)
	default:
		return geom.Data{}, errors.NotSupportedf("overlay format %q", ext)
	}
}

// loadPath loads an overlay, frames it and watches it for changes.
func (m *Model) loadPath(p string) {
	d, err := readOverlay(p)
	if errors.IsNotSupported(err) {
		m.status = "unsupported file: " + filepath.Ext(p)
		return
	}
	if err != nil {
		m.status = "load error: " + err.Error()
		logging.Logger().Warn("overlay load failed", "path", p, "err", err)
		return
	}
	m.selPath = p
	m.setOverlay(d)
	m.watchOverlay(p)
	m.status = "loaded: " + filepath.Base(p)
	if info, err := os.Stat(p); err == nil {
		m.status += " (" + humanize.Bytes(uint64(info.Size())) + ")"
	}
	m.status += fmt.Sprintf("  counts: pts=%d ls=%d", len(d.Points), len(d.Lines))
}

func (m *Model) setOverlay(d geom.Data) {
	m.overlay = d
	m.showOverlay = true
	m.frame.stale = true
	// the plot size is unknown until the first WindowSizeMsg
	m.fitPending = m.width == 0
	m.fit(d.Bounds)
}

// fit centers the camera on r and zooms, within the camera's limits, so
// that r fills most of the plot area.
func (m *Model) fit(r geom.Rect) {
	lay := m.layout()
	vp, ok := m.viewport(lay.plotW, lay.plotH)
	if !ok {
		return
	}
	// plot size in view units
	size := geom.V(float64(2*lay.plotW)*vp.unit, float64(4*lay.plotH)*vp.unit)
	scale := 1.0
	if s := r.Size(); s.X > 0 || s.Y > 0 {
		scale = 0.9 * min(size.X/s.X, size.Y/s.Y)
	}
	m.cam.Reset()
	m.cam.SetScale(scale)
	m.cam.SetOffset(r.Center().Scale(-m.cam.State().Scale))
	m.cam.SetBase()
}
