package scheduler

import (
	"context"
	"time"

	"github.com/spinshelf/spinshelf/internal/catalog"
	"github.com/spinshelf/spinshelf/internal/index"
	"github.com/spinshelf/spinshelf/internal/logger"
)

const (
	// DefaultPurgeRetention is how long soft-deleted items are kept
	DefaultPurgeRetention = 30 * 24 * time.Hour // 30 days
)

// Purger hard-deletes items that have been soft-deleted for longer than
// the retention threshold. This is the only path besides the admin
// endpoint that physically removes records.
type Purger struct {
	store     catalog.Persister
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
}

// NewPurger creates a new purger
func NewPurger(
	store catalog.Persister,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *Purger {
	if retention == 0 {
		retention = DefaultPurgeRetention
	}

	return &Purger{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic purge process
func (p *Purger) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := p.Collect(ctx); err != nil {
		p.logger.Warn("initial purge failed", logger.Error(err))
	}

	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := p.Collect(ctx); err != nil {
					p.logger.Error("purge failed", logger.Error(err))
				}
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the purger
func (p *Purger) Stop() {
	close(p.stopCh)
}

// Collect removes items that have been soft-deleted for longer than the
// retention threshold. Returns how many items were purged.
func (p *Purger) Collect(ctx context.Context) (int, error) {
	now := time.Now()
	purged := 0

	for _, it := range p.index.All() {
		if !it.Deleted {
			continue
		}
		if it.UpdatedAt.IsZero() {
			continue
		}

		deletedFor := now.Sub(it.UpdatedAt)
		if deletedFor < p.retention {
			continue
		}

		// Remove from the durable store first, then the index.
		if err := p.store.HardDeleteItem(ctx, it.ID); err != nil {
			p.logger.Warn("failed to purge item from redis",
				logger.String("id", it.ID),
				logger.Error(err))
			continue
		}
		p.index.Delete(it.ID)

		p.logger.Info("purged soft-deleted item",
			logger.String("id", it.ID),
			logger.String("title", it.Title),
			logger.String("deleted_for", deletedFor.String()))

		purged++
	}

	if purged > 0 {
		p.logger.Info("purge completed", logger.Int("items_purged", purged))
	} else {
		p.logger.Debug("no items to purge")
	}

	return purged, nil
}
