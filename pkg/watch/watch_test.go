package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_RunsOnStartAndChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, []byte("A"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	calls := make(chan string, 16)
	w := New(path, func(ctx context.Context, p string) {
		calls <- p
	}, Config{DebounceDelay: 10 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Shutdown(context.Background())

	select {
	case got := <-calls:
		if got != path {
			t.Fatalf("handler path = %q, want %q", got, path)
		}
	default:
		t.Fatalf("handler should run once before Start returns")
	}

	if err := os.WriteFile(path, []byte("AB"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-calls:
	case <-time.After(3 * time.Second):
		t.Fatalf("handler not called after change")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, []byte("A"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	calls := make(chan string, 16)
	w := New(path, func(ctx context.Context, p string) {
		calls <- p
	}, Config{DebounceDelay: 10 * time.Millisecond, SkipInitial: true}, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Shutdown(context.Background())

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case p := <-calls:
		t.Fatalf("unexpected handler call for %q", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	w := New(path, func(context.Context, string) {}, Config{SkipInitial: true}, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Shutdown(context.Background())

	if err := w.Start(context.Background()); err != ErrStarted {
		t.Fatalf("second Start = %v, want ErrStarted", err)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "input.txt")
	w := New(path, func(context.Context, string) {}, Config{}, nil)

	if err := w.Start(context.Background()); err == nil {
		w.Shutdown(context.Background())
		t.Fatalf("expected error for missing directory")
	}
}

func TestWatcher_ShutdownWithoutStart(t *testing.T) {
	w := New("x", func(context.Context, string) {}, Config{}, nil)
	if err := w.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if w.delay != DefaultDebounce {
		t.Fatalf("delay = %v, want default", w.delay)
	}
}
