package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/cone-lines/internal/pipeline"
	"github.com/ironsheep/cone-lines/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const logLevelEnv = "CONE_LINES_LOG_LEVEL"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "cone-lines %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printUsage(stdout, newFlagSet(io.Discard, &cliFlags{}))
			return 0
		case "serve":
			return runServe(args[1:], stderr)
		}
	}

	var cf cliFlags
	fs := newFlagSet(stderr, &cf)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger := initLogger(stderr, cf.debug)

	cfg, err := cf.resolve(fs)
	if err != nil {
		logger.WithError(err).Error("Invalid arguments")
		return 1
	}

	logger.WithFields(logrus.Fields{
		"version": Version,
		"input":   cfg.InputPath,
		"output":  cfg.OutputPath,
	}).Debug("Starting cone-lines")

	report, err := pipeline.Run(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to draw cone boundaries")
		return 1
	}

	for _, line := range report.Lines {
		fmt.Fprintf(stdout, "line %s: slope %.4f through (%.1f, %.1f), %d apexes\n",
			line.Cluster.Name, line.Slope, line.MeanX, line.MeanY, len(line.Cluster.Members))
	}
	fmt.Fprintf(stdout, "wrote %s\n", report.OutputPath)
	return 0
}

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("debug", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// stdout carries the protocol; logs go to stderr.
	logger := initLogger(stderr, *debug)
	logger.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("Starting MCP server")

	srv := server.New(server.WithLogger(logger), server.WithVersion(Version))
	if err := srv.Run(); err != nil {
		logger.WithError(err).Error("Server error")
		return 1
	}
	return 0
}

// initLogger builds the run logger. The level comes from CONE_LINES_LOG_LEVEL
// unless -debug is set. Debug output is human-readable text, everything else
// is JSON.
func initLogger(w io.Writer, debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.InfoLevel)

	var badEnv string
	if env := os.Getenv(logLevelEnv); env != "" {
		if level, err := logrus.ParseLevel(env); err == nil {
			logger.SetLevel(level)
		} else {
			badEnv = env
		}
	}
	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	if badEnv != "" {
		logger.WithField(logLevelEnv, badEnv).Warn("Ignoring unknown log level")
	}

	return logger
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "cone-lines - draw the two boundary lines of a cone-marked track")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cone-lines [flags] <input>")
	fmt.Fprintln(w, "  cone-lines serve [-debug]    Run as an MCP server on stdin/stdout")
	fmt.Fprintln(w, "  cone-lines version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug    Set the log level\n", logLevelEnv)
}
