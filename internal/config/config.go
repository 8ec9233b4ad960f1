// Package config holds the settings for one cone-lines run.
//
// Defaults select red cones: pixels filtered in L*a*b* with
// bounds {50,160,0}..{90,255,255}, a 5x5 opening and dilation, a 50 px
// minimum neighbor distance, and a 5 px red line. Values can be overridden
// from a TOML file and then from command-line flags.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults for a run.
const (
	DefaultOutputPath     = "my_answer.png"
	DefaultKernelRadius   = 2
	DefaultMinAllowedDist = 50
	DefaultLineColor      = "#FF0000"
	DefaultLineThickness  = 5.0
)

// Bounds is an inclusive per-channel range in 8-bit L*a*b* units.
type Bounds [3]int

// String formats the bounds the way ParseBounds reads them.
func (b Bounds) String() string {
	return fmt.Sprintf("%d,%d,%d", b[0], b[1], b[2])
}

// ParseBounds reads "L,A,B" into a Bounds value.
func ParseBounds(s string) (Bounds, error) {
	var b Bounds
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return b, fmt.Errorf("bounds %q must have 3 comma-separated values", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return b, fmt.Errorf("bounds %q: %w", s, err)
		}
		b[i] = v
	}
	return b, nil
}

// Config is the full set of knobs for a run.
type Config struct {
	InputPath  string `toml:"input"`
	OutputPath string `toml:"output"`

	// Optional debug artifacts; empty disables them.
	MaskOutputPath string `toml:"mask_output"`
	ApexOutputPath string `toml:"apex_output"`

	LoBounds     Bounds `toml:"lo_bounds"`
	HiBounds     Bounds `toml:"hi_bounds"`
	KernelRadius int    `toml:"kernel_radius"`

	// SwapRedBlue converts with red and blue exchanged. The default bounds
	// assume it is set.
	SwapRedBlue bool `toml:"swap_red_blue"`

	MinAllowedDist int  `toml:"min_allowed_dist"`
	SkipUnpaired   bool `toml:"skip_unpaired"`

	LineColor     string  `toml:"line_color"`
	LineThickness float64 `toml:"line_thickness"`
}

// Default returns the configuration tuned for red traffic cones.
func Default() *Config {
	return &Config{
		OutputPath:     DefaultOutputPath,
		LoBounds:       Bounds{50, 160, 0},
		HiBounds:       Bounds{90, 255, 255},
		KernelRadius:   DefaultKernelRadius,
		SwapRedBlue:    true,
		MinAllowedDist: DefaultMinAllowedDist,
		LineColor:      DefaultLineColor,
		LineThickness:  DefaultLineThickness,
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input: path is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output: path is required")
	}
	for i := 0; i < 3; i++ {
		if c.LoBounds[i] < 0 || c.LoBounds[i] > 255 {
			return fmt.Errorf("lo_bounds: channel %d value %d outside 0-255", i, c.LoBounds[i])
		}
		if c.HiBounds[i] < 0 || c.HiBounds[i] > 255 {
			return fmt.Errorf("hi_bounds: channel %d value %d outside 0-255", i, c.HiBounds[i])
		}
		if c.LoBounds[i] > c.HiBounds[i] {
			return fmt.Errorf("lo_bounds: channel %d low %d above high %d", i, c.LoBounds[i], c.HiBounds[i])
		}
	}
	if c.KernelRadius < 0 {
		return fmt.Errorf("kernel_radius: %d is negative", c.KernelRadius)
	}
	if c.MinAllowedDist < 0 {
		return fmt.Errorf("min_allowed_dist: %d is negative", c.MinAllowedDist)
	}
	if c.MinAllowedDist > math.MaxInt32 {
		return fmt.Errorf("min_allowed_dist: %d exceeds %d", c.MinAllowedDist, math.MaxInt32)
	}
	if !(c.LineThickness > 0) || math.IsInf(c.LineThickness, 1) {
		return fmt.Errorf("line_thickness: %v must be positive", c.LineThickness)
	}
	return nil
}
