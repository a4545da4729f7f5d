package scheduler

import (
	"context"

	"github.com/spinshelf/spinshelf/internal/catalog"
	"github.com/spinshelf/spinshelf/internal/index"
	"github.com/spinshelf/spinshelf/internal/logger"
)

// RedisSyncer rebuilds the memory index from the durable store on startup,
// so the catalog survives restarts without replaying anything.
type RedisSyncer struct {
	store  catalog.Persister
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(store catalog.Persister, idx *index.MemoryIndex, log logger.Logger) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads all items from Redis and replaces the memory index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing items from redis to memory")

	items, err := rs.store.GetAllItems(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		rs.logger.Info("no items found in redis")
		return nil
	}

	rs.index.ReplaceAll(items)

	rs.logger.Info("synced items from redis",
		logger.Int("count", len(items)))

	return nil
}
