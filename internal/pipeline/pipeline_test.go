package pipeline

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ironsheep/cone-lines/internal/config"
	"github.com/ironsheep/cone-lines/internal/detection"
	"github.com/ironsheep/cone-lines/internal/imaging"
)

// writeConeScene saves a white PNG with a 5x5 red square under each apex
// (the apex is one column past the square's right edge).
func writeConeScene(t *testing.T, width, height int, apexes ...detection.Point) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for _, a := range apexes {
		for y := a.Y; y < a.Y+5; y++ {
			for x := a.X - 5; x < a.X; x++ {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			}
		}
	}

	path := filepath.Join(t.TempDir(), "scene.png")
	if err := imaging.SaveImage(img, path); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
	return path
}

func testConfig(t *testing.T, input string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.InputPath = input
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.png")
	cfg.KernelRadius = 0
	return cfg
}

func hasMessage(hook *test.Hook, msg string) bool {
	for _, e := range hook.AllEntries() {
		if e.Message == msg {
			return true
		}
	}
	return false
}

func TestRun_TwoBoundaries(t *testing.T) {
	input := writeConeScene(t, 700, 400,
		detection.Point{X: 100, Y: 300}, detection.Point{X: 150, Y: 200},
		detection.Point{X: 550, Y: 300}, detection.Point{X: 500, Y: 200},
	)
	cfg := testConfig(t, input)
	log, hook := test.NewNullLogger()

	report, err := Run(cfg, log)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Width != 700 || report.Height != 400 {
		t.Errorf("size: got %dx%d, want 700x400", report.Width, report.Height)
	}
	if report.MaskPixels != 4*25 {
		t.Errorf("MaskPixels: got %d, want 100", report.MaskPixels)
	}
	if len(report.Apexes) != 4 {
		t.Fatalf("Apexes: got %v, want 4 points", report.Apexes)
	}

	slopes := []float64{report.Lines[0].Slope, report.Lines[1].Slope}
	for _, want := range []float64{-2, 2} {
		found := false
		for _, s := range slopes {
			if math.Abs(s-want) < 1e-9 {
				found = true
			}
		}
		if !found {
			t.Errorf("no line with slope %v, got %v", want, slopes)
		}
	}

	out, err := imaging.OpenImage(cfg.OutputPath)
	if err != nil {
		t.Fatalf("output not readable: %v", err)
	}
	if out.Bounds().Dx() != 700 || out.Bounds().Dy() != 400 {
		t.Errorf("output bounds: got %v", out.Bounds())
	}
	// Midpoint of the left pair lies on its fitted line.
	r, g, b, _ := out.At(125, 250).RGBA()
	if r>>8 < 200 || g>>8 > 60 || b>>8 > 60 {
		t.Errorf("pixel on the left line should be red, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	for _, msg := range []string{"Loaded image", "Built cone mask", "Detected boundary lines", "Saved annotated image"} {
		if !hasMessage(hook, msg) {
			t.Errorf("missing log entry %q", msg)
		}
	}
}

func TestRun_DebugArtifacts(t *testing.T) {
	input := writeConeScene(t, 700, 400,
		detection.Point{X: 100, Y: 300}, detection.Point{X: 150, Y: 200},
		detection.Point{X: 550, Y: 300}, detection.Point{X: 500, Y: 200},
	)
	cfg := testConfig(t, input)
	dir := t.TempDir()
	cfg.MaskOutputPath = filepath.Join(dir, "mask.png")
	cfg.ApexOutputPath = filepath.Join(dir, "apexes.png")
	log, _ := test.NewNullLogger()

	if _, err := Run(cfg, log); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	mask, err := imaging.OpenImage(cfg.MaskOutputPath)
	if err != nil {
		t.Fatalf("mask output not readable: %v", err)
	}
	if r, _, _, _ := mask.At(97, 302).RGBA(); r>>8 != 255 {
		t.Error("mask should be white inside a square")
	}
	if r, _, _, _ := mask.At(10, 10).RGBA(); r>>8 != 0 {
		t.Error("mask should be black on the background")
	}

	if _, err := os.Stat(cfg.ApexOutputPath); err != nil {
		t.Errorf("apex overlay not written: %v", err)
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name   string
		apexes []detection.Point
		want   error
	}{
		{"blank image", nil, detection.ErrNoBlobsDetected},
		{"single blob", []detection.Point{{X: 40, Y: 40}}, detection.ErrInsufficientNeighbors},
		{"one cluster only", []detection.Point{{X: 40, Y: 10}, {X: 160, Y: 70}}, detection.ErrEmptyCluster},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeConeScene(t, 200, 100, tt.apexes...)
			cfg := testConfig(t, input)
			cfg.MaskOutputPath = filepath.Join(t.TempDir(), "mask.png")
			log, _ := test.NewNullLogger()

			report, err := Run(cfg, log)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if report != nil {
				t.Error("report should be nil on failure")
			}
			if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
				t.Error("output image must not be written on failure")
			}
			if _, err := os.Stat(cfg.MaskOutputPath); err != nil {
				t.Errorf("mask should still be written on failure: %v", err)
			}
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	log, _ := test.NewNullLogger()

	cfg := config.Default()
	if _, err := Run(cfg, log); err == nil {
		t.Error("expected error for missing input path")
	}

	cfg = testConfig(t, "unused.png")
	cfg.LineColor = "red"
	if _, err := Run(cfg, log); err == nil {
		t.Error("expected error for bad line color")
	}

	cfg = testConfig(t, filepath.Join(t.TempDir(), "missing.png"))
	if _, err := Run(cfg, log); err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestAnalyze_LogsFittedLines(t *testing.T) {
	input := writeConeScene(t, 700, 400,
		detection.Point{X: 100, Y: 300}, detection.Point{X: 150, Y: 200},
		detection.Point{X: 550, Y: 300}, detection.Point{X: 500, Y: 200},
	)
	img, err := imaging.OpenImage(input)
	if err != nil {
		t.Fatalf("OpenImage failed: %v", err)
	}
	cfg := testConfig(t, input)
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	a, err := Analyze(img, cfg, log)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.Mask == nil || a.Result == nil {
		t.Fatal("Analyze should return both mask and result")
	}

	fitted := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "Fitted line" {
			fitted++
		}
	}
	if fitted != 2 {
		t.Errorf("expected 2 fitted line entries, got %d", fitted)
	}
}
