package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mAKEkr/blog-advance/internal/config"
	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/logfields"
	"github.com/mAKEkr/blog-advance/internal/metrics"
	"github.com/mAKEkr/blog-advance/internal/site"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output   string        `short:"o" help:"Output directory (overrides output_dir)" type:"path"`
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if w.Output != "" {
		cfg.OutputDir = w.Output
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to create file watcher").Build()
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range watchRoots(cfg) {
		addDirsRecursive(g.Logger, watcher, dir)
	}

	builder := site.NewBuilder(cfg, site.WithLogger(g.Logger), site.WithRecorder(metrics.NewPrometheusRecorder(nil)))
	rebuild := func() {
		if report, err := builder.Build(ctx); err != nil {
			g.Logger.Warn("Rebuild failed", logfields.Error(err))
		} else {
			g.Logger.Info("Rebuilt site", slog.String("summary", report.Summary()))
		}
	}

	rebuildReq, trigger := newDebouncer(w.Debounce)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rebuildWorker(ctx, rebuildReq, rebuild)
	}()

	trigger()
	g.Logger.Info("Watching for changes", logfields.Path(cfg.SourceDir))
	err = watchLoop(ctx, g.Logger, watcher, cfg.OutputDir, trigger)
	cancel()
	wg.Wait()
	return err
}

// watchRoots lists the directories whose changes trigger a rebuild.
func watchRoots(cfg *config.Config) []string {
	roots := []string{cfg.SourceDir}
	if cfg.LayoutsDir != "" {
		if info, err := os.Stat(cfg.LayoutsDir); err == nil && info.IsDir() {
			roots = append(roots, cfg.LayoutsDir)
		}
	}
	return roots
}

// newDebouncer returns a request channel and a trigger that sends on it once
// no further trigger arrived for delay.
func newDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

// rebuildWorker runs one rebuild at a time. Requests arriving mid-build
// collapse into a single follow-up build.
func rebuildWorker(ctx context.Context, req chan struct{}, rebuild func()) {
	running, pending := false, false
	done := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if running {
				<-done
			}
			return
		case <-req:
			if running {
				pending = true
				continue
			}
			running = true
			go func() {
				rebuild()
				done <- struct{}{}
			}()
		case <-done:
			running = false
			if pending {
				pending = false
				running = true
				go func() {
					rebuild()
					done <- struct{}{}
				}()
			}
		}
	}
}

func watchLoop(ctx context.Context, logger *slog.Logger, watcher *fsnotify.Watcher, outputDir string, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name, outputDir) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(logger, watcher, ev.Name)
				}
			}
			logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func addDirsRecursive(logger *slog.Logger, w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if err := w.Add(p); err != nil {
			logger.Warn("Failed to watch directory", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent filters editor temp files and writes into the output
// directory.
func shouldIgnoreEvent(name, outputDir string) bool {
	if outputDir != "" {
		if rel, err := filepath.Rel(outputDir, name); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	base := filepath.Base(name)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, ".#")
}
