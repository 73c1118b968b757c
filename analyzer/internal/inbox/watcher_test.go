package inbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vibetrack/vibetrack/analyzer/internal/config"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	ch    chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 16)}
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.ch <- path
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

// startWatcher runs w in the background and returns a stop function that
// cancels it and waits for Run to return.
func startWatcher(t *testing.T, w *Watcher) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	// Give fsnotify time to register the directory.
	time.Sleep(100 * time.Millisecond)

	return func() {
		cancel()
		select {
		case err := <-errc:
			if err != nil {
				t.Errorf("Run returned %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel")
		}
	}
}

func inboxConfig(dir string) config.InboxConfig {
	return config.InboxConfig{Dir: dir, Pattern: "*.csv", Workers: 2, Settle: 50 * time.Millisecond}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcher_HandlesMatchingFile(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	w, err := New(inboxConfig(dir), rec.handle)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stop := startWatcher(t, w)
	defer stop()

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	target := filepath.Join(dir, "run1.csv")
	writeFile(t, target, "Timestamp,AccelX,AccelY,AccelZ\n")

	select {
	case got := <-rec.ch:
		if got != target {
			t.Errorf("handled %q, want %q", got, target)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("handler was not called")
	}

	time.Sleep(200 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("handler called %d times, want 1", n)
	}
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	cfg := inboxConfig(dir)
	cfg.Settle = 150 * time.Millisecond
	w, err := New(cfg, rec.handle)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stop := startWatcher(t, w)
	defer stop()

	target := filepath.Join(dir, "growing.csv")
	f, err := os.Create(target)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, err := f.WriteString("0,0,0,9.8\n"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	f.Close()

	select {
	case <-rec.ch:
	case <-time.After(3 * time.Second):
		t.Fatal("handler was not called")
	}
	time.Sleep(400 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("handler called %d times for one burst of writes, want 1", n)
	}
}

func TestWatcher_HandlerErrorDoesNotStop(t *testing.T) {
	dir := t.TempDir()
	calls := make(chan string, 4)
	w, err := New(inboxConfig(dir), func(_ context.Context, path string) error {
		calls <- path
		return errors.New("bad file")
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stop := startWatcher(t, w)
	defer stop()

	for _, name := range []string{"a.csv", "b.csv"} {
		writeFile(t, filepath.Join(dir, name), "x")
		select {
		case <-calls:
		case <-time.After(3 * time.Second):
			t.Fatalf("handler not called for %s", name)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	h := func(context.Context, string) error { return nil }
	if _, err := New(config.InboxConfig{}, h); err == nil {
		t.Error("expected error for empty dir")
	}
	if _, err := New(config.InboxConfig{Dir: t.TempDir(), Pattern: "[", Workers: 1}, h); err == nil {
		t.Error("expected error for malformed pattern")
	}
	if _, err := New(config.InboxConfig{Dir: t.TempDir()}, nil); err == nil {
		t.Error("expected error for nil handler")
	}

	w, err := New(config.InboxConfig{Dir: t.TempDir()}, h)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.pattern != config.DefaultInboxPattern || w.workers != config.DefaultInboxWorkers {
		t.Errorf("defaults not applied: pattern=%q workers=%d", w.pattern, w.workers)
	}
}

func TestMatch(t *testing.T) {
	w, err := New(config.InboxConfig{Dir: "/in", Pattern: "*.csv"}, func(context.Context, string) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"/in/run.csv":          true,
		"run.csv":              true,
		"/in/run_analysis.txt": false,
		"/in/run.csv.tmp":      false,
	}
	for name, want := range cases {
		if got := w.Match(name); got != want {
			t.Errorf("Match(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRun_MissingDir(t *testing.T) {
	w, err := New(config.InboxConfig{Dir: filepath.Join(t.TempDir(), "nope")}, func(context.Context, string) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestRun_ReturnsWhenWatcherCloses(t *testing.T) {
	dir := t.TempDir()
	w, err := New(inboxConfig(dir), func(context.Context, string) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	opened := make(chan *fsnotify.Watcher, 1)
	w.newWatcher = func() (*fsnotify.Watcher, error) {
		fw, err := fsnotify.NewWatcher()
		if err == nil {
			opened <- fw
		}
		return fw, err
	}

	errc := make(chan error, 1)
	go func() { errc <- w.Run(context.Background()) }()

	var fw *fsnotify.Watcher
	select {
	case fw = <-opened:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher was not opened")
	}
	time.Sleep(50 * time.Millisecond)
	fw.Close()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the watcher closed")
	}
}
