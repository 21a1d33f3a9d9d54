package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/logfields"
	"github.com/mAKEkr/blog-advance/internal/metrics"
	"github.com/mAKEkr/blog-advance/internal/site"
)

// ScheduleCmd implements the 'schedule' command.
type ScheduleCmd struct {
	Cron        string `help:"Cron expression (overrides schedule)"`
	Now         bool   `help:"Run one build immediately"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address, e.g. :9090"`
}

func (s *ScheduleCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Cron != "" {
		cfg.Schedule = s.Cron
	}

	rec := metrics.NewPrometheusRecorder(nil)
	builder := site.NewBuilder(cfg, site.WithLogger(g.Logger), site.WithRecorder(rec))
	task := func() {
		report, err := builder.Build(ctx)
		if err != nil {
			g.Logger.Error("Scheduled build failed", logfields.Error(err))
		} else {
			g.Logger.Info("Scheduled build finished", slog.String("summary", report.Summary()))
		}
		if err := writeMetrics(g, rec, cfg.MetricsFile); err != nil {
			g.Logger.Warn("Failed to write metrics", logfields.Error(err))
		}
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to create scheduler").Build()
	}
	jobOpts := []gocron.JobOption{
		gocron.WithName("site-build"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if s.Now {
		jobOpts = append(jobOpts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	if _, err := scheduler.NewJob(gocron.CronJob(cfg.Schedule, false), gocron.NewTask(task), jobOpts...); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid schedule").
			WithContext("schedule", cfg.Schedule).
			Build()
	}

	var srv *http.Server
	if s.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", rec.HTTPHandler())
		srv = &http.Server{Addr: s.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				g.Logger.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		g.Logger.Info("Serving metrics", slog.String("addr", s.MetricsAddr))
	}

	g.Logger.Info("Starting scheduler", slog.String("schedule", cfg.Schedule))
	scheduler.Start()
	<-ctx.Done()

	g.Logger.Info("Stopping scheduler")
	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return scheduler.Shutdown()
}
