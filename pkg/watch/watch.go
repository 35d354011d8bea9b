// Package watch re-runs a handler whenever a file changes.
//
// The watcher observes the file's directory rather than the file itself so
// that editors which save by writing a new file and renaming it over the
// old one are still seen. Bursts of events are collapsed by a debounce
// timer; the handler runs once per quiet period.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/framelab/pkg/log"
)

// DefaultDebounce is the quiet period used when Config.DebounceDelay is unset.
const DefaultDebounce = 100 * time.Millisecond

// ErrStarted is returned by Start when the watcher is already running.
var ErrStarted = errors.New("watch: already started")

// Handler is called with the watched path after each change.
type Handler func(ctx context.Context, path string)

// Config holds watcher options.
type Config struct {
	// DebounceDelay is the delay to wait after a change before running the handler.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// SkipInitial disables the handler run performed by Start.
	SkipInitial bool
}

// Watcher runs a Handler when one file changes.
type Watcher struct {
	mu sync.Mutex

	path    string
	handler Handler
	delay   time.Duration
	initial bool
	logger  log.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
	runMu    sync.Mutex
}

// New creates a watcher for path. A nil logger is replaced by a no-op logger.
func New(path string, handler Handler, cfg Config, logger log.Logger) *Watcher {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultDebounce
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		path:    filepath.Clean(path),
		handler: handler,
		delay:   cfg.DebounceDelay,
		initial: !cfg.SkipInitial,
		logger:  logger,
	}
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. Unless SkipInitial is set the handler runs once
// before Start returns.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return ErrStarted
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		w.mu.Unlock()
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	w.logger.Info("watching file",
		log.String("path", w.path),
		log.Duration("debounce", w.delay),
	)

	if w.initial {
		w.run(watchCtx)
	}

	w.wg.Add(1)
	go w.loop(watchCtx, fw)
	return nil
}

// Shutdown stops the watcher and waits for the event loop to exit.
// A handler already running is allowed to finish.
func (w *Watcher) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	cancel := w.cancel
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		w.runMu.Lock()
		w.runMu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fw.Close()

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, func() {
		if ctx.Err() != nil {
			return
		}
		w.run(ctx)
	})
}

// run serializes handler invocations.
func (w *Watcher) run(ctx context.Context) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	w.logger.Debug("file changed", log.String("path", w.path))
	w.handler(ctx, w.path)
}
