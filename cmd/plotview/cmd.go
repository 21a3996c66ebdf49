package main

import (
	"fmt"
	"log/slog"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"plotview/internal/config"
	"plotview/internal/expr"
	"plotview/internal/geom"
	"plotview/internal/logging"
	"plotview/internal/pane"
	"plotview/internal/sampler"
	"plotview/internal/tui"
)

type options struct {
	configFile string
	logFile    string
	curves     []string

	minZoom, maxZoom   float64
	minDepth, maxDepth int
	pixelError         float64
	cellUnits          float64
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "plotview [overlay-file]",
		Short: "Interactive function plotter for the terminal",
		Long: `plotview plots y = f(x), x = f(y) and parametric curves in the terminal
with braille dots. Drag or use the arrow keys to pan, scroll or +/- to zoom.
An optional CSV or WKT file is drawn as an overlay.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd.Flags())
			if err != nil {
				return err
			}
			if o.logFile != "" {
				f, err := tea.LogToFile(o.logFile, "plotview")
				if err != nil {
					return errors.Annotate(err, "log file")
				}
				defer f.Close()
				logging.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
				defer logging.SetLogger(nil)
			}

			var m tui.Model
			if len(args) > 0 {
				m = tui.NewWithPath(cfg, args[0])
			} else {
				m = tui.New(cfg)
			}
			defer m.Close()
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
			return errors.Trace(err)
		},
	}
	fs := cmd.PersistentFlags()
	fs.StringVar(&o.configFile, "config", "", "Configuration file (TOML)")
	fs.Float64Var(&o.minZoom, "min-zoom", 0, "Minimum zoom scale (default from config)")
	fs.Float64Var(&o.maxZoom, "max-zoom", 0, "Maximum zoom scale (default from config)")
	fs.IntVar(&o.minDepth, "min-depth", 0, "Minimum sampler recursion depth (default from config)")
	fs.IntVar(&o.maxDepth, "max-depth", 0, "Maximum sampler recursion depth (default from config)")
	fs.Float64Var(&o.pixelError, "pixel-error", 0, "Tolerated curve deviation in braille dots (default from config)")
	fs.Float64Var(&o.cellUnits, "cell-units", 0, "Coordinate width of one terminal cell at zoom 1 (default from config)")
	cmd.Flags().StringVar(&o.logFile, "log-file", "", "Write debug log messages to this file")
	cmd.Flags().StringArrayVar(&o.curves, "curve", nil, "Curve to plot, e.g. 'y = sin(x)' (repeatable)")

	cmd.AddCommand(newPanesCmd(), newSampleCmd(&o))
	return cmd
}

// load reads the config file, if any, and applies the flags that were set
// on the command line over it.
func (o *options) load(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		c, err := config.NewConfigWithFile(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if fs.Changed("min-zoom") {
		cfg.Camera.MinZoom = o.minZoom
	}
	if fs.Changed("max-zoom") {
		cfg.Camera.MaxZoom = o.maxZoom
	}
	if fs.Changed("min-depth") {
		cfg.Sampler.MinDepth = o.minDepth
	}
	if fs.Changed("max-depth") {
		cfg.Sampler.MaxDepth = o.maxDepth
	}
	if fs.Changed("pixel-error") {
		cfg.Sampler.PixelError = o.pixelError
	}
	if fs.Changed("cell-units") {
		cfg.View.CellUnits = o.cellUnits
	}
	for _, c := range o.curves {
		cfg.Curves = append(cfg.Curves, config.CurveConfig{Expr: c})
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Annotate(err, "flags")
	}
	return cfg, nil
}

func newPanesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panes XMIN XMAX YMIN YMAX",
		Short: "Print the pane tiling of a viewport",
		Args:  cobra.ExactArgs(4),

		// bounds are often negative
		DisableFlagParsing: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			var v [4]float64
			for i, a := range args {
				f, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return errors.NotValidf("bound %q", a)
				}
				v[i] = f
			}
			s := pane.Compute(v[0], v[1], v[2], v[3])
			out := cmd.OutOrStdout()
			for _, ax := range []struct {
				name string
				axis pane.Axis
			}{{"x", s.X}, {"y", s.Y}} {
				if len(ax.axis.Panes) == 0 {
					fmt.Fprintf(out, "%s: degenerate\n", ax.name)
					continue
				}
				fmt.Fprintf(out, "%s: size=%g range=[%g, %g] panes=%d\n",
					ax.name, ax.axis.Size, ax.axis.Range.Min, ax.axis.Range.Max, len(ax.axis.Panes))
				for i, p := range ax.axis.Panes {
					fmt.Fprintf(out, "  %d\t[%g, %g)\n", i, p.Min, p.Max)
				}
			}
			return nil
		},
	}
}

func newSampleCmd(o *options) *cobra.Command {
	var (
		from, to float64
		width    int
	)
	cmd := &cobra.Command{
		Use:   "sample EXPR",
		Short: "Print the adaptive samples of a curve as t, x, y rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd.Flags())
			if err != nil {
				return err
			}
			c, err := expr.ParseCurve(args[0])
			if err != nil {
				return err
			}
			dom := geom.Interval{Min: from, Max: to}
			if !cmd.Flags().Changed("from") && !cmd.Flags().Changed("to") {
				dom = config.CurveConfig{}.Domain()
				if c.Kind != expr.Parametric {
					dom = geom.Interval{Min: -5, Max: 5}
				}
			}
			if !dom.IsValid() {
				return errors.NotValidf("domain [%g, %g]", dom.Min, dom.Max)
			}
			if width <= 0 {
				return errors.NotValidf("width %d", width)
			}

			var curve sampler.Parametric
			switch c.Kind {
			case expr.OfX:
				curve = sampler.OfX(c.F)
			case expr.OfY:
				curve = sampler.OfY(c.F)
			default:
				fx, fy := c.F, c.G
				curve = func(t float64) geom.Vec { return geom.V(fx(t), fy(t)) }
			}
			opts := cfg.SamplerOptions(dom.Span() / float64(width))
			out := cmd.OutOrStdout()
			n := 0
			for p := range sampler.Sample[geom.Vec](curve, dom, opts) {
				fmt.Fprintf(out, "%s\t%s\t%s\n", num(p.T), num(p.Value.X), num(p.Value.Y))
				n++
			}
			logging.Logger().Debug("sampled", "expr", c.Source, "samples", n)
			return nil
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "Start of the domain (default -5, or 0 for parametric curves)")
	cmd.Flags().Float64Var(&to, "to", 0, "End of the domain (default 5, or 2π for parametric curves)")
	cmd.Flags().IntVar(&width, "width", 160, "Output resolution in dots across the domain")
	return cmd
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
