package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/host"
	"github.com/lithoprep/maskforge/pkg/pipeline"
)

// Config holds run-command settings loaded from a TOML file. Command-line
// flags override file values, which in turn override the built-in defaults.
//
// Example:
//
//	[buffer]
//	distance = 70.0
//	quad_segs = 30
//
//	[cheese]
//	hole_width = 2.0
//	hole_height = 2.0
//	gap_x = 8.0
//	gap_y = 8.0
//	edge_margin = 200.0
//
//	[layers]
//	ground = 1
//	no_cheese = 2
//	cheese = 0
type Config struct {
	Buffer BufferConfig `toml:"buffer"`
	Cheese CheeseConfig `toml:"cheese"`
	Layers LayerConfig  `toml:"layers"`
}

// BufferConfig controls the exclusion stage. Pointer fields distinguish
// a key left out of the file from one explicitly set to zero.
type BufferConfig struct {
	Distance *float64 `toml:"distance"`
	QuadSegs *int     `toml:"quad_segs"`
}

// CheeseConfig controls the perforation lattice.
type CheeseConfig struct {
	HoleWidth  *float64 `toml:"hole_width"`
	HoleHeight *float64 `toml:"hole_height"`
	GapX       *float64 `toml:"gap_x"`
	GapY       *float64 `toml:"gap_y"`
	EdgeMargin *float64 `toml:"edge_margin"`
}

// LayerConfig maps the three pipeline layers to document layer numbers.
type LayerConfig struct {
	Ground   int `toml:"ground"`
	NoCheese int `toml:"no_cheese"`
	Cheese   int `toml:"cheese"`
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %v", path, undecoded)
	}
	return &cfg, nil
}

// apply copies set config values into opts. Keys absent from the file are
// left alone so that the pipeline defaults still apply; an explicit zero in
// the file is honored.
func (c *Config) apply(opts *pipeline.Options) {
	if c.Buffer.Distance != nil {
		opts.BufferDistance = c.Buffer.Distance
	}
	if c.Buffer.QuadSegs != nil {
		opts.QuadSegs = *c.Buffer.QuadSegs
	}
	if c.Cheese.HoleWidth != nil {
		opts.Tiling.HoleWidth = *c.Cheese.HoleWidth
	}
	if c.Cheese.HoleHeight != nil {
		opts.Tiling.HoleHeight = *c.Cheese.HoleHeight
	}
	if c.Cheese.GapX != nil {
		opts.Tiling.GapX = *c.Cheese.GapX
	}
	if c.Cheese.GapY != nil {
		opts.Tiling.GapY = *c.Cheese.GapY
	}
	if c.Cheese.EdgeMargin != nil {
		opts.Tiling.EdgeMargin = *c.Cheese.EdgeMargin
	}
	if c.Layers != (LayerConfig{}) {
		opts.GroundLayer = host.Layer(c.Layers.Ground)
		opts.NoCheeseLayer = host.Layer(c.Layers.NoCheese)
		opts.CheeseLayer = host.Layer(c.Layers.Cheese)
	}
}
