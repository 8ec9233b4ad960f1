package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ironsheep/cone-lines/internal/config"
)

// cliFlags holds raw flag values. Only flags the user actually set are
// applied over the config file.
type cliFlags struct {
	configPath   string
	output       string
	lo, hi       string
	minDist      int
	kernelRadius int
	maskOut      string
	apexOut      string
	skipUnpaired bool
	noSwap       bool
	lineColor    string
	thickness    float64
	debug        bool
}

func newFlagSet(w io.Writer, cf *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("cone-lines", flag.ContinueOnError)
	fs.SetOutput(w)

	fs.StringVar(&cf.configPath, "config", "", "TOML config file")
	fs.StringVar(&cf.output, "o", config.DefaultOutputPath, "Output image path")
	fs.StringVar(&cf.output, "out", config.DefaultOutputPath, "Output image path (same as -o)")
	fs.StringVar(&cf.lo, "lo", "50,160,0", "Lower L,A,B mask bound")
	fs.StringVar(&cf.hi, "hi", "90,255,255", "Upper L,A,B mask bound")
	fs.IntVar(&cf.minDist, "min-dist", config.DefaultMinAllowedDist, "Minimum neighbor distance in pixels")
	fs.IntVar(&cf.kernelRadius, "kernel-radius", config.DefaultKernelRadius, "Morphology kernel radius, 0 disables cleanup")
	fs.StringVar(&cf.maskOut, "mask-out", "", "Write the cleaned mask to this path")
	fs.StringVar(&cf.apexOut, "apex-out", "", "Write the apex overlay to this path")
	fs.BoolVar(&cf.skipUnpaired, "skip-unpaired", false, "Drop apexes without an eligible neighbor instead of failing")
	fs.BoolVar(&cf.noSwap, "no-swap", false, "Convert to L*a*b* without exchanging red and blue")
	fs.StringVar(&cf.lineColor, "color", config.DefaultLineColor, "Line color as #RRGGBB")
	fs.Float64Var(&cf.thickness, "thickness", config.DefaultLineThickness, "Line thickness in pixels")
	fs.BoolVar(&cf.debug, "debug", false, "Enable debug logging")

	return fs
}

// resolve layers defaults, the config file, explicit flags and the
// positional input path, in that order.
func (cf *cliFlags) resolve(fs *flag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if cf.configPath != "" {
		loaded, err := config.Load(cf.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "o", "out":
			cfg.OutputPath = cf.output
		case "lo":
			cfg.LoBounds, err = config.ParseBounds(cf.lo)
		case "hi":
			cfg.HiBounds, err = config.ParseBounds(cf.hi)
		case "min-dist":
			cfg.MinAllowedDist = cf.minDist
		case "kernel-radius":
			cfg.KernelRadius = cf.kernelRadius
		case "mask-out":
			cfg.MaskOutputPath = cf.maskOut
		case "apex-out":
			cfg.ApexOutputPath = cf.apexOut
		case "skip-unpaired":
			cfg.SkipUnpaired = cf.skipUnpaired
		case "no-swap":
			cfg.SwapRedBlue = !cf.noSwap
		case "color":
			cfg.LineColor = cf.lineColor
		case "thickness":
			cfg.LineThickness = cf.thickness
		}
	})
	if err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
		if cfg.InputPath == "" {
			return nil, fmt.Errorf("missing input image")
		}
	case 1:
		cfg.InputPath = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected one input image, got %d arguments", fs.NArg())
	}

	return cfg, nil
}
