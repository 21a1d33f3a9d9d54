package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mAKEkr/blog-advance/internal/config"
)

// EnvLogLevel overrides the configured log level.
const EnvLogLevel = "BLOGADVANCE_LOG_LEVEL"

// Global is passed to every command's Run method.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command line.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blogadvance.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site once"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild whenever source files change"`
	Schedule ScheduleCmd `cmd:"" help:"Rebuild on a cron schedule"`
	Inspect  InspectCmd  `cmd:"" help:"Print how every page is classified, without writing"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply sets up logging once flags are parsed.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = newLogger(os.Stderr, c.logLevel(""), "text")
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig loads the configuration and reapplies logging settings from it.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = newLogger(os.Stderr, c.logLevel(cfg.Logging.Level), cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	g.Logger.Debug("Loaded configuration", slog.String("file", c.Config), slog.String("config", cfg.String()))
	return cfg, nil
}

// logLevel resolves the level: --verbose, then the environment, then the
// configured level.
func (c *CLI) logLevel(configured string) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		configured = env
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(configured))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
