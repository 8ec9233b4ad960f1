// Package pipeline runs the full cone-lines transform: load an image, build
// the cone mask, detect the two boundary lines, draw them and save the
// result.
package pipeline

import (
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/cone-lines/internal/config"
	"github.com/ironsheep/cone-lines/internal/detection"
	"github.com/ironsheep/cone-lines/internal/imaging"
)

// Report summarizes a completed run.
type Report struct {
	InputPath  string                    `json:"input_path"`
	OutputPath string                    `json:"output_path"`
	Width      int                       `json:"width"`
	Height     int                       `json:"height"`
	MaskPixels int                       `json:"mask_pixels"`
	Apexes     []detection.Point         `json:"apexes"`
	Skipped    []int                     `json:"skipped,omitempty"`
	Lines      [2]detection.BoundaryLine `json:"lines"`
}

// Analysis is the in-memory result of masking and detection.
type Analysis struct {
	Mask   *detection.Mask
	Result *detection.Result
}

// MaskOptions maps the color settings of cfg onto imaging.MaskOptions.
func MaskOptions(cfg *config.Config) imaging.MaskOptions {
	return imaging.MaskOptions{
		LoBounds:     cfg.LoBounds,
		HiBounds:     cfg.HiBounds,
		KernelRadius: cfg.KernelRadius,
		SwapRedBlue:  cfg.SwapRedBlue,
	}
}

// PairOptions maps the pairing settings of cfg onto detection.PairOptions.
func PairOptions(cfg *config.Config) detection.PairOptions {
	return detection.PairOptions{
		MinAllowedDist: cfg.MinAllowedDist,
		SkipUnpaired:   cfg.SkipUnpaired,
	}
}

// Analyze builds the mask for img and runs detection on it.
//
// The mask is returned even when detection fails so callers can inspect or
// save it.
func Analyze(img image.Image, cfg *config.Config, log logrus.FieldLogger) (*Analysis, error) {
	start := time.Now()
	mask, err := imaging.BuildMask(img, MaskOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to build mask: %w", err)
	}
	log.WithFields(logrus.Fields{
		"pixels":   mask.Count(),
		"lo":       cfg.LoBounds.String(),
		"hi":       cfg.HiBounds.String(),
		"duration": time.Since(start),
	}).Info("Built cone mask")

	start = time.Now()
	result, err := detection.Detect(mask, PairOptions(cfg))
	if err != nil {
		return &Analysis{Mask: mask}, err
	}

	fields := logrus.Fields{
		"apexes":   len(result.Apexes),
		"duration": time.Since(start),
	}
	if n := len(result.Pairing.Skipped); n > 0 {
		fields["skipped"] = n
	}
	log.WithFields(fields).Info("Detected boundary lines")
	for _, line := range result.Lines {
		log.WithFields(logrus.Fields{
			"cluster": line.Cluster.Name,
			"members": len(line.Cluster.Members),
			"mean_x":  line.MeanX,
			"mean_y":  line.MeanY,
			"theta":   line.MeanTheta,
			"start":   line.Segment.Start,
			"end":     line.Segment.End,
		}).Debug("Fitted line")
	}

	return &Analysis{Mask: mask, Result: result}, nil
}

// Render draws the fitted lines of result onto a copy of img.
func Render(img image.Image, result *detection.Result, cfg *config.Config) (*image.NRGBA, error) {
	c, err := imaging.ParseHexColor(cfg.LineColor)
	if err != nil {
		return nil, fmt.Errorf("invalid line color %q: %w", cfg.LineColor, err)
	}
	return imaging.DrawSegments(img, result.Segments(), c, cfg.LineThickness), nil
}

// Run executes the whole transform described by cfg.
//
// Optional debug artifacts (mask and apex overlay) are written as soon as
// they are available, even if a later stage fails. The annotated output
// image is written only when both lines were fitted.
func Run(cfg *config.Config, log logrus.FieldLogger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := imaging.ParseHexColor(cfg.LineColor); err != nil {
		return nil, fmt.Errorf("invalid configuration: line_color %q: %w", cfg.LineColor, err)
	}

	start := time.Now()
	img, err := imaging.OpenImage(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	log.WithFields(logrus.Fields{
		"path":     cfg.InputPath,
		"width":    bounds.Dx(),
		"height":   bounds.Dy(),
		"duration": time.Since(start),
	}).Info("Loaded image")

	analysis, err := Analyze(img, cfg, log)
	if analysis != nil && analysis.Mask != nil {
		if werr := writeDebugArtifacts(img, analysis, cfg, log); werr != nil {
			return nil, werr
		}
	}
	if err != nil {
		return nil, err
	}

	out, err := Render(img, analysis.Result, cfg)
	if err != nil {
		return nil, err
	}
	if err := imaging.SaveImage(out, cfg.OutputPath); err != nil {
		return nil, err
	}
	log.WithField("path", cfg.OutputPath).Info("Saved annotated image")

	return &Report{
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		MaskPixels: analysis.Mask.Count(),
		Apexes:     analysis.Result.Apexes,
		Skipped:    analysis.Result.Pairing.Skipped,
		Lines:      analysis.Result.Lines,
	}, nil
}

func writeDebugArtifacts(img image.Image, a *Analysis, cfg *config.Config, log logrus.FieldLogger) error {
	if cfg.MaskOutputPath != "" {
		if err := imaging.SaveImage(imaging.MaskImage(a.Mask), cfg.MaskOutputPath); err != nil {
			return err
		}
		log.WithField("path", cfg.MaskOutputPath).Debug("Saved mask image")
	}

	if cfg.ApexOutputPath != "" {
		// Apexes are recomputed so the overlay exists even when pairing failed.
		apexes := detection.ScanApexes(a.Mask)
		c, _ := imaging.ParseHexColor(cfg.LineColor)
		if err := imaging.SaveImage(imaging.DrawApexes(img, apexes, c), cfg.ApexOutputPath); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"path":   cfg.ApexOutputPath,
			"apexes": len(apexes),
		}).Debug("Saved apex overlay")
	}

	return nil
}
