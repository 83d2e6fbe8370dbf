// Package watcher observes the real manifest directory and keeps the
// shadow manifest in sync after edits.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"sws/internal/logging"
)

// SyncFunc re-derives the shadow manifest from the real one. A failing
// pass is logged and does not stop observation.
type SyncFunc func() error

// ManifestWatcher watches a single directory, non-recursively, and runs
// a sync pass once a burst of filesystem events has settled. Editors
// commonly save through a temp-then-rename dance; the debounce window
// collapses that burst into one pass.
type ManifestWatcher struct {
	dir      string
	debounce time.Duration
	syncFn   SyncFunc
	logger   *logging.Logger

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	deb      *Debouncer
	done     chan struct{}
	watching bool
}

// DefaultDebounce is the quiet period collapsing event bursts into one pass
const DefaultDebounce = 500 * time.Millisecond

// New creates a watcher for the given directory. A non-positive debounce
// falls back to DefaultDebounce.
func New(dir string, debounce time.Duration, syncFn SyncFunc, logger *logging.Logger) *ManifestWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &ManifestWatcher{
		dir:      dir,
		debounce: debounce,
		syncFn:   syncFn,
		logger:   logger,
	}
}

// Start runs one sync pass immediately, so the shadow manifest is correct
// before any edit occurs, then begins watching. Calling Start on a watcher
// that is already running is a no-op.
func (w *ManifestWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watching {
		return nil
	}

	w.runPass()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Only direct children matter; the manifest lives at the top of the
	// watched directory.
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.deb = NewDebouncer(w.debounce)
	w.done = make(chan struct{})
	w.watching = true

	go w.loop(ctx)

	w.logger.Info("Watching manifest directory", map[string]interface{}{
		"dir":        w.dir,
		"debounceMs": w.debounce.Milliseconds(),
	})
	return nil
}

// Stop cancels the watch and releases the filesystem handle. Idempotent
// and safe to call on a watcher that never started.
func (w *ManifestWatcher) Stop() {
	w.mu.Lock()
	if !w.watching {
		w.mu.Unlock()
		return
	}
	w.watching = false
	fsw := w.fsw
	deb := w.deb
	done := w.done
	w.mu.Unlock()

	_ = fsw.Close()
	<-done
	// Cancel last: the loop can still arm the debouncer for events that
	// were in flight before the close.
	deb.Cancel()

	w.logger.Info("Stopped watching manifest directory", map[string]interface{}{
		"dir": w.dir,
	})
}

// IsWatching returns true while the watch goroutine is active
func (w *ManifestWatcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watching
}

func (w *ManifestWatcher) loop(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Chmod-only events carry no content change worth a pass.
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.deb.Trigger(w.runPass)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Manifest watch error", map[string]interface{}{
				"dir":   w.dir,
				"error": err.Error(),
			})
		}
	}
}

func (w *ManifestWatcher) runPass() {
	if err := w.syncFn(); err != nil {
		w.logger.Error("Failed to sync shadow manifest", map[string]interface{}{
			"dir":   w.dir,
			"error": err.Error(),
		})
	}
}
