package main

import (
	"bytes"
	"flag"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/cone-lines/internal/config"
	"github.com/ironsheep/cone-lines/internal/imaging"
)

// writeScene saves a 700x400 white PNG with four red 5x5 squares whose
// apexes describe two boundaries of slope -2 and 2.
func writeScene(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 700, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 700; x++ {
			img.Set(x, y, color.White)
		}
	}
	for _, a := range [][2]int{{100, 300}, {150, 200}, {550, 300}, {500, 200}} {
		for y := a[1]; y < a[1]+5; y++ {
			for x := a[0] - 5; x < a[0]; x++ {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			}
		}
	}

	path := filepath.Join(dir, "track.png")
	if err := imaging.SaveImage(img, path); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	if code := run([]string{"version"}, &stdout, io.Discard); code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	if !strings.HasPrefix(stdout.String(), "cone-lines "+Version) {
		t.Errorf("unexpected version output: %q", stdout.String())
	}
}

func TestRun_Help(t *testing.T) {
	var stdout bytes.Buffer
	if code := run([]string{"--help"}, &stdout, io.Discard); code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	for _, want := range []string{"Usage:", "-min-dist", "-skip-unpaired", logLevelEnv} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("help should mention %q", want)
		}
	}
}

func TestRun_DrawsLines(t *testing.T) {
	dir := t.TempDir()
	input := writeScene(t, dir)
	output := filepath.Join(dir, "answer.png")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-kernel-radius", "0", "-o", output, input}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0\nstderr: %s", code, stderr.String())
	}

	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if !strings.Contains(stdout.String(), "line A:") || !strings.Contains(stdout.String(), "line B:") {
		t.Errorf("stdout should report both lines, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Saved annotated image") {
		t.Errorf("stderr should carry the run log, got %q", stderr.String())
	}
}

func TestRun_ConfigFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	input := writeScene(t, dir)
	output := filepath.Join(dir, "from-flag.png")
	cfgPath := filepath.Join(dir, "cone-lines.toml")

	toml := "input = \"" + filepath.ToSlash(input) + "\"\n" +
		"output = \"" + filepath.ToSlash(filepath.Join(dir, "from-config.png")) + "\"\n" +
		"kernel_radius = 0\n"
	if err := os.WriteFile(cfgPath, []byte(toml), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	code := run([]string{"-config", cfgPath, "-out", output}, io.Discard, io.Discard)
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}

	if _, err := os.Stat(output); err != nil {
		t.Errorf("flag output path should win: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "from-config.png")); !os.IsNotExist(err) {
		t.Error("config output path should have been overridden")
	}
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	blank := filepath.Join(dir, "blank.png")
	if err := imaging.SaveImage(image.NewRGBA(image.Rect(0, 0, 20, 20)), blank); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no input", nil, 1},
		{"two inputs", []string{"a.png", "b.png"}, 1},
		{"bad bounds", []string{"-lo", "1,2", blank}, 1},
		{"missing file", []string{filepath.Join(dir, "missing.png")}, 1},
		{"no blobs", []string{"-o", filepath.Join(dir, "out.png"), blank}, 1},
		{"unknown flag", []string{"-bogus", blank}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := run(tt.args, io.Discard, io.Discard); code != tt.want {
				t.Errorf("exit code: got %d, want %d", code, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "out.png")); !os.IsNotExist(err) {
		t.Error("no output should be written when detection fails")
	}
}

func TestCLIFlags_Config(t *testing.T) {
	var cf cliFlags
	fs := newFlagSet(io.Discard, &cf)
	err := fs.Parse([]string{
		"-lo", "10,20,30", "-hi", "40,50,60",
		"-min-dist", "7", "-skip-unpaired", "-no-swap",
		"-color", "#00FF00", "-thickness", "2.5",
		"-mask-out", "m.png", "-apex-out", "a.png",
		"in.png",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := cf.resolve(fs)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if cfg.InputPath != "in.png" || cfg.OutputPath != config.DefaultOutputPath {
		t.Errorf("paths: got %q -> %q", cfg.InputPath, cfg.OutputPath)
	}
	if cfg.LoBounds != (config.Bounds{10, 20, 30}) || cfg.HiBounds != (config.Bounds{40, 50, 60}) {
		t.Errorf("bounds: got %v..%v", cfg.LoBounds, cfg.HiBounds)
	}
	if cfg.MinAllowedDist != 7 || !cfg.SkipUnpaired || cfg.SwapRedBlue {
		t.Errorf("pairing/color flags not applied: %+v", cfg)
	}
	if cfg.LineColor != "#00FF00" || cfg.LineThickness != 2.5 {
		t.Errorf("line flags not applied: %+v", cfg)
	}
	if cfg.MaskOutputPath != "m.png" || cfg.ApexOutputPath != "a.png" {
		t.Errorf("debug outputs not applied: %+v", cfg)
	}
	if cfg.KernelRadius != config.DefaultKernelRadius {
		t.Errorf("unset flag should keep the default, got %d", cfg.KernelRadius)
	}
}

func TestCLIFlags_HelpFlag(t *testing.T) {
	var cf cliFlags
	fs := newFlagSet(io.Discard, &cf)
	if err := fs.Parse([]string{"-h"}); err != flag.ErrHelp {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		debug bool
		want  logrus.Level
	}{
		{"default", "", false, logrus.InfoLevel},
		{"debug flag", "", true, logrus.DebugLevel},
		{"env level", "warn", false, logrus.WarnLevel},
		{"flag beats env", "error", true, logrus.DebugLevel},
		{"bad env ignored", "loud", false, logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(logLevelEnv, tt.env)
			logger := initLogger(io.Discard, tt.debug)
			if logger.GetLevel() != tt.want {
				t.Errorf("level: got %v, want %v", logger.GetLevel(), tt.want)
			}
		})
	}
}
