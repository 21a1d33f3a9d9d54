package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mAKEkr/blog-advance/internal/config"
	"github.com/mAKEkr/blog-advance/internal/logfields"
	"github.com/mAKEkr/blog-advance/internal/metrics"
	"github.com/mAKEkr/blog-advance/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides output_dir)" type:"path"`
	Production  bool   `help:"Build for production (drafts get the NotFound layout)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the build" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	b.apply(cfg)

	rec := metrics.NewPrometheusRecorder(nil)
	report, err := site.NewBuilder(cfg, site.WithLogger(g.Logger), site.WithRecorder(rec)).Build(ctx)
	if werr := writeMetrics(g, rec, cfg.MetricsFile); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	return nil
}

func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Output != "" {
		cfg.OutputDir = b.Output
	}
	if b.Production {
		cfg.Production = true
	}
	if b.MetricsFile != "" {
		cfg.MetricsFile = b.MetricsFile
	}
}

func writeMetrics(g *Global, rec *metrics.PrometheusRecorder, path string) error {
	if path == "" {
		return nil
	}
	if err := rec.WriteTextfile(path); err != nil {
		return err
	}
	g.Logger.Debug("Wrote metrics textfile", logfields.File(path))
	return nil
}
