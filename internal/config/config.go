// Package config loads plotview settings from a TOML file.
package config

import (
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/juju/errors"

	"plotview/internal/camera"
	"plotview/internal/expr"
	"plotview/internal/geom"
	"plotview/internal/logging"
	"plotview/internal/sampler"
)

// maxDepth bounds sampler.max_depth; 2^maxDepth samples per pane is
// already far beyond what a terminal can show.
const maxDepth = 24

type CameraConfig struct {
	MinZoom float64 `toml:"min_zoom"`
	MaxZoom float64 `toml:"max_zoom"`
}

type SamplerConfig struct {
	MinDepth int `toml:"min_depth"`
	MaxDepth int `toml:"max_depth"`
	// PixelError is the tolerated deviation of a straight segment from the
	// curve, in braille dots.
	PixelError float64 `toml:"pixel_error"`
}

type ViewConfig struct {
	// CellUnits is the coordinate width of one terminal cell at scale 1.
	CellUnits float64 `toml:"cell_units"`
}

// CurveConfig is a curve plotted at startup. From and To bound t for
// parametric curves and are ignored otherwise.
type CurveConfig struct {
	Name string  `toml:"name"`
	Expr string  `toml:"expr"`
	From float64 `toml:"from"`
	To   float64 `toml:"to"`
}

// Domain returns [From, To], or [0, 2π] when neither is set.
func (c CurveConfig) Domain() geom.Interval {
	if c.From == 0 && c.To == 0 {
		return geom.Interval{Min: 0, Max: 2 * math.Pi}
	}
	return geom.Interval{Min: c.From, Max: c.To}
}

// Label is the curve's name, falling back to its expression.
func (c CurveConfig) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimSpace(c.Expr)
}

type Config struct {
	Camera  CameraConfig  `toml:"camera"`
	Sampler SamplerConfig `toml:"sampler"`
	View    ViewConfig    `toml:"view"`
	Curves  []CurveConfig `toml:"curve"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			MinZoom: camera.DefaultMinZoom,
			MaxZoom: camera.DefaultMaxZoom,
		},
		Sampler: SamplerConfig{
			MinDepth:   sampler.DefaultOptions().MinDepth,
			MaxDepth:   sampler.DefaultOptions().MaxDepth,
			PixelError: 0.5,
		},
		View: ViewConfig{CellUnits: 0.25},
	}
}

func NewConfigWithFile(name string) (*Config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Trace(err)
	}

	c, err := NewConfig(string(data))
	return c, errors.Annotatef(err, "config %s", name)
}

// NewConfig decodes data over the defaults, so absent keys keep their
// default values. The result is validated.
func NewConfig(data string) (*Config, error) {
	c := Default()

	md, err := toml.Decode(data, c)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for _, key := range md.Undecoded() {
		logging.Logger().Warn("config: unknown key", "key", key.String())
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return c, nil
}

// Validate checks bounds and compiles every curve expression.
func (c *Config) Validate() error {
	if !(c.Camera.MinZoom > 0) || math.IsInf(c.Camera.MaxZoom, 0) {
		return errors.NotValidf("camera zoom range [%g, %g]", c.Camera.MinZoom, c.Camera.MaxZoom)
	}
	if c.Camera.MinZoom > c.Camera.MaxZoom {
		return errors.NotValidf("camera min_zoom %g above max_zoom %g", c.Camera.MinZoom, c.Camera.MaxZoom)
	}
	if c.Sampler.MinDepth < 0 || c.Sampler.MaxDepth > maxDepth {
		return errors.NotValidf("sampler depth range [%d, %d]", c.Sampler.MinDepth, c.Sampler.MaxDepth)
	}
	if c.Sampler.MinDepth > c.Sampler.MaxDepth {
		return errors.NotValidf("sampler min_depth %d above max_depth %d", c.Sampler.MinDepth, c.Sampler.MaxDepth)
	}
	if !(c.Sampler.PixelError > 0) {
		return errors.NotValidf("sampler pixel_error %g", c.Sampler.PixelError)
	}
	if !(c.View.CellUnits > 0) || math.IsInf(c.View.CellUnits, 0) {
		return errors.NotValidf("view cell_units %g", c.View.CellUnits)
	}
	for i, cc := range c.Curves {
		if _, err := expr.ParseCurve(cc.Expr); err != nil {
			return errors.Annotatef(err, "curve %d (%s)", i, cc.Label())
		}
		if !cc.Domain().IsValid() {
			return errors.NotValidf("curve %d (%s) domain [%g, %g]", i, cc.Label(), cc.From, cc.To)
		}
	}
	return nil
}

// CameraOptions returns the zoom limits.
func (c *Config) CameraOptions() camera.Options {
	return camera.Options{MinZoom: c.Camera.MinZoom, MaxZoom: c.Camera.MaxZoom}
}

// SamplerOptions returns the depth limits and the error threshold for a
// view showing unitsPerPixel coordinate units per braille dot.
func (c *Config) SamplerOptions(unitsPerPixel float64) sampler.Options {
	return sampler.Options{
		MinDepth:  c.Sampler.MinDepth,
		MaxDepth:  c.Sampler.MaxDepth,
		Threshold: sampler.PixelThreshold(unitsPerPixel, c.Sampler.PixelError),
	}
}
