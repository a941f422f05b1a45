// Package watcher reloads the meeting registry when the snapshot file is
// edited outside the running process.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/autojoin/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor or an atomic
// rename produces.
const DefaultDebounce = 250 * time.Millisecond

// Reloader is the part of the meeting service the watcher drives.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher watches one file and calls Reload after it settles.
type Watcher struct {
	path     string
	target   Reloader
	debounce time.Duration
	log      *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher for path. The parent directory must exist.
func New(path string, target Reloader) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		target:   target,
		debounce: DefaultDebounce,
		log:      logger.Component("watcher"),
	}
}

// Run watches until ctx is cancelled. The directory is watched rather than
// the file so replacements by rename are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Debug("watching snapshot", slog.String("path", w.path))

	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				w.schedule(ctx)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", logger.Err(err))
		}
	}
}

// relevant reports whether ev may have changed the snapshot contents.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.target.Reload(ctx); err != nil {
			w.log.Error("reload failed", logger.Err(err))
			return
		}
		w.log.Info("snapshot reloaded")
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
