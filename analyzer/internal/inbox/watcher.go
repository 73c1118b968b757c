package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vibetrack/vibetrack/analyzer/internal/config"
)

// Handler processes one completed file.
type Handler func(ctx context.Context, path string) error

// Watcher dispatches settled files from one directory to a Handler.
type Watcher struct {
	dir     string
	pattern string
	settle  time.Duration
	workers int
	handle  Handler

	newWatcher func() (*fsnotify.Watcher, error)
}

// New returns a Watcher for cfg. cfg.Dir must be set and cfg.Pattern must
// be a valid filepath.Match pattern.
func New(cfg config.InboxConfig, h Handler) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("inbox: empty directory")
	}
	if h == nil {
		return nil, fmt.Errorf("inbox: nil handler")
	}
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = config.DefaultInboxPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("inbox: pattern %q: %w", pattern, err)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = config.DefaultInboxWorkers
	}

	return &Watcher{
		dir:     cfg.Dir,
		pattern: pattern,
		settle:  cfg.Settle,
		workers: workers,
		handle:  h,

		newWatcher: fsnotify.NewWatcher,
	}, nil
}

// Match reports whether name is a file the watcher handles.
func (w *Watcher) Match(name string) bool {
	ok, _ := filepath.Match(w.pattern, filepath.Base(name))
	return ok
}

// Run watches the directory until ctx is cancelled, then waits for running
// handlers to return. It also returns, with nil, if the underlying watcher
// shuts down. Files already present when Run starts are ignored.
func (w *Watcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fw, err := w.newWatcher()
	if err != nil {
		return fmt.Errorf("inbox: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("inbox: watch %s: %w", w.dir, err)
	}
	slog.Info("inbox: watching", "dir", w.dir, "pattern", w.pattern,
		"settle", w.settle, "workers", w.workers)

	ready := make(chan string, 64)
	done := make(chan struct{})

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
	)
	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[path]; ok {
			t.Reset(w.settle)
			return
		}
		pending[path] = time.AfterFunc(w.settle, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			select {
			case ready <- path:
			case <-done:
			}
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers + 1)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case path := <-ready:
				g.Go(func() error {
					w.dispatch(gctx, path)
					return nil
				})
			}
		}
	})

	defer func() {
		cancel()
		close(done)
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
		_ = g.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.Match(event.Name) {
				continue
			}
			schedule(event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("inbox: watcher error", "dir", w.dir, "err", err)
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, path string) {
	runID := uuid.NewString()
	start := time.Now()
	slog.Info("inbox: processing", "path", path, "run_id", runID)

	if err := w.handle(ctx, path); err != nil {
		slog.Error("inbox: handler failed", "path", path, "run_id", runID, "err", err)
		return
	}
	slog.Info("inbox: done", "path", path, "run_id", runID,
		"elapsed", time.Since(start).Round(time.Millisecond))
}
