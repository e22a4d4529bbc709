package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

// DefaultDebounce groups the burst of events produced by one save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the engine when the storage file is edited by hand or by
// another process. It watches the parent directory because saves replace
// the file through a rename.
type Watcher struct {
	engine   *Engine
	logger   logger.Logger
	debounce time.Duration

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewWatcher(engine *Engine, log logger.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		engine:   engine,
		logger:   log.Named("storage-watcher"),
		debounce: debounce,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins watching. It returns once the watch is registered.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(w.engine.Path())
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.watcher = fsw

	w.logger.Info("watching storage file for external changes",
		logger.String("path", w.engine.Path()))

	go w.loop(ctx)
	return nil
}

// Stop ends the watch and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	if w.watcher != nil {
		<-w.done
	}
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()

	target := filepath.Clean(w.engine.Path())
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			reloaded, err := w.engine.ReloadIfChanged()
			if err != nil {
				w.logger.Error("failed to reload storage after external change", logger.Error(err))
				continue
			}
			if reloaded {
				w.logger.Debug("storage reloaded by watcher")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", logger.Error(err))

		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
