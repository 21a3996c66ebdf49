package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/juju/errors"

	"plotview/internal/logging"
)

// overlayWatch follows the directory of the loaded overlay file. It is
// shared by every copy of the model; at most one command waits on it.
type overlayWatch struct {
	w       *fsnotify.Watcher
	dir     string
	waiting bool
}

type overlayEventMsg struct{ event fsnotify.Event }

type watchErrMsg struct{ err error }

func (m Model) configWatcher() error {
	if m.watch.w != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Trace(err)
	}
	m.watch.w = w
	return nil
}

// watchOverlay moves the watch to the directory holding path.
func (m Model) watchOverlay(path string) {
	if err := m.configWatcher(); err != nil {
		logging.Logger().Warn("overlay watch unavailable", "err", err)
		return
	}
	dir := filepath.Dir(path)
	if m.watch.dir == dir {
		return
	}
	if m.watch.dir != "" {
		_ = m.watch.w.Remove(m.watch.dir)
	}
	m.watch.dir = ""
	if err := m.watch.w.Add(dir); err != nil {
		logging.Logger().Warn("overlay watch failed", "dir", dir, "err", err)
		return
	}
	m.watch.dir = dir
	logging.Logger().Debug("watching overlay", "dir", dir)
}

// waitOverlay returns a command delivering the next watcher event, or nil
// when there is no watcher or a command is already waiting.
func (m Model) waitOverlay() tea.Cmd {
	ow := m.watch
	if ow.w == nil || ow.waiting {
		return nil
	}
	ow.waiting = true
	w := ow.w
	return func() tea.Msg {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			return overlayEventMsg{event: ev}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}

// isOverlayChange reports whether ev rewrote the loaded overlay file.
func (m Model) isOverlayChange(ev fsnotify.Event) bool {
	if m.selPath == "" || filepath.Clean(ev.Name) != filepath.Clean(m.selPath) {
		return false
	}
	return ev.Op&fsnotify.Write == fsnotify.Write || ev.Op&fsnotify.Create == fsnotify.Create
}

// reloadOverlay re-reads the loaded overlay file, keeping the camera.
func (m *Model) reloadOverlay() {
	d, err := readOverlay(m.selPath)
	if err != nil {
		m.status = "reload error: " + err.Error()
		logging.Logger().Warn("overlay reload failed", "path", m.selPath, "err", err)
		return
	}
	m.overlay = d
	m.frame.stale = true
	m.status = "reloaded: " + filepath.Base(m.selPath)
}

// Close stops watching overlay files.
func (m Model) Close() error {
	if m.watch.w == nil {
		return nil
	}
	err := m.watch.w.Close()
	m.watch.w, m.watch.dir = nil, ""
	return errors.Trace(err)
}
