// Package watch re-runs a callback when any of a set of files changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce collapses bursts of events from a single save.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches files and calls OnChange after they settle.
type Watcher struct {
	Paths    []string
	Debounce time.Duration
	Logger   *slog.Logger

	// OnChange runs on the watch goroutine; events arriving meanwhile are
	// coalesced into the next call.
	OnChange func(ctx context.Context)
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
// Parent directories are watched so files replaced by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.Paths) == 0 {
		return fmt.Errorf("watch: no paths")
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	targets := make(map[string]struct{}, len(w.Paths))
	dirs := make(map[string]struct{})
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	logger.Info("watching for changes", "paths", w.Paths)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return fsw.Close()
	})
	g.Go(func() error {
		return w.loop(gctx, fsw, targets, debounce, logger)
	})
	return g.Wait()
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, targets map[string]struct{}, debounce time.Duration, logger *slog.Logger) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if _, watched := targets[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Debug("file changed", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if w.OnChange != nil {
				w.OnChange(ctx)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
