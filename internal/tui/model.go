package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"plotview/internal/camera"
	"plotview/internal/config"
	"plotview/internal/expr"
	"plotview/internal/geom"
	"plotview/internal/logging"
)

// plotCurve is a compiled curve with its display label and, for
// parametric curves, its t domain.
type plotCurve struct {
	label  string
	curve  expr.Curve
	domain geom.Interval
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	cfg *config.Config
	cam *camera.Controller

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	curves     []plotCurve
	overlay    geom.Data
	fitPending bool

	// last rendered frame, shared by every copy of the model
	frame *frame
	watch *overlayWatch

	// expression entry
	exprMode bool
	ta       textarea.Model

	// layer visibility
	showCurves  bool
	showOverlay bool
	showGrid    bool

	// inspect popup
	inspectPopup string

	// drag gesture, start position in view units
	dragging  bool
	dragStart geom.Vec

	// hover state
	hoverMath   geom.Vec
	hoverHasPos bool
	hoverMarker bool
	hoverMicX   int
	hoverMicY   int

	// pane table
	showPanes bool
	tbl       table.Model
}

// New builds a model from cfg, compiling its curves. A nil cfg uses
// config.Default().
func New(cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	m := Model{
		showSidebar: false,
		helpVisible: true,
		cfg:         cfg,
		cam:         camera.New(cfg.CameraOptions()),
		status:      "plotview ready",
		frame:       &frame{},
		watch:       &overlayWatch{},
		showCurves:  true,
		showOverlay: true,
		showGrid:    true,
	}
	f := m.frame
	m.cam.Subscribe(func(s camera.State) {
		f.stale = true
		logging.Logger().Debug("camera moved", "offset", s.Offset, "scale", s.Scale)
	})
	for _, cc := range cfg.Curves {
		c, err := expr.ParseCurve(cc.Expr)
		if err != nil {
			// config.Validate already compiled it
			m.status = "curve error: " + err.Error()
			continue
		}
		m.curves = append(m.curves, plotCurve{label: cc.Label(), curve: c, domain: cc.Domain()})
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Overlays"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "y = sin(x)/x   x = y^2   p = cos(3t), sin(2t)   Enter to plot, Esc to cancel."
	m.ta.CharLimit = 256
	m.ta.ShowLineNumbers = false
	m.ta.SetWidth(50)
	m.ta.SetHeight(3)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads an overlay file at launch.
func NewWithPath(cfg *config.Config, path string) Model {
	m := New(cfg)
	m.loadPath(path)
	return m
}

// Camera exposes the model's camera controller.
func (m Model) Camera() *camera.Controller { return m.cam }

func (m Model) Init() tea.Cmd { return m.waitOverlay() }

// addCurve compiles src and appends it to the plotted curves.
func (m *Model) addCurve(src string) error {
	c, err := expr.ParseCurve(src)
	if err != nil {
		return err
	}
	dom := config.CurveConfig{}.Domain()
	m.curves = append(m.curves, plotCurve{label: c.Source, curve: c, domain: dom})
	m.frame.stale = true
	return nil
}
