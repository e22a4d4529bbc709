package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

// Reloadable is a store that can pick up changes made to its backing file.
type Reloadable interface {
	// ReloadIfChanged reports whether anything was reloaded.
	ReloadIfChanged() (bool, error)
	// Reload re-reads unconditionally.
	Reload() error
}

// StorageReloader polls the storage file for outside edits and reloads on
// demand. A zero interval disables polling; manual triggers still work.
type StorageReloader struct {
	store         Reloadable
	logger        logger.Logger
	interval      time.Duration
	manualTrigger <-chan struct{}
	stopCh        chan struct{}
	done          chan struct{}
	stopOnce      sync.Once
}

func NewStorageReloader(store Reloadable, log logger.Logger, interval time.Duration, manualTrigger <-chan struct{}) *StorageReloader {
	return &StorageReloader{
		store:         store,
		logger:        log.Named("storage-reloader"),
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

func (r *StorageReloader) Start(ctx context.Context) {
	go func() {
		defer close(r.done)

		var tick <-chan time.Time
		if r.interval > 0 {
			ticker := time.NewTicker(r.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				reloaded, err := r.store.ReloadIfChanged()
				if err != nil {
					r.logger.Error("failed to reload storage", logger.Error(err))
					continue
				}
				if reloaded {
					r.logger.Info("storage file changed on disk, reloaded")
				}
			case <-r.manualTrigger:
				r.logger.Info("manual storage reload triggered")
				if err := r.store.Reload(); err != nil {
					r.logger.Error("failed to reload storage", logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (r *StorageReloader) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.done
}
