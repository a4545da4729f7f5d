package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinshelf/spinshelf/internal/domain"
	"github.com/spinshelf/spinshelf/internal/index"
	"github.com/spinshelf/spinshelf/internal/logger"
)

type fakeStore struct {
	items   map[string]*domain.Item
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]*domain.Item)}
}

func (f *fakeStore) SaveItem(_ context.Context, it *domain.Item) error {
	f.items[it.ID] = it.Clone()
	return nil
}

func (f *fakeStore) GetAllItems(_ context.Context) ([]*domain.Item, error) {
	out := make([]*domain.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it.Clone())
	}
	return out, nil
}

func (f *fakeStore) HardDeleteItem(_ context.Context, id string) error {
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func TestPurger_Collect(t *testing.T) {
	store := newFakeStore()
	idx := index.NewMemoryIndex()
	log := logger.New("error", false)

	now := time.Now()
	old := &domain.Item{ID: "old", Title: "Old", Deleted: true, UpdatedAt: now.Add(-48 * time.Hour)}
	fresh := &domain.Item{ID: "fresh", Deleted: true, UpdatedAt: now.Add(-1 * time.Hour)}
	alive := &domain.Item{ID: "alive", UpdatedAt: now.Add(-300 * time.Hour)}
	for _, it := range []*domain.Item{old, fresh, alive} {
		idx.Put(it)
		require.NoError(t, store.SaveItem(context.Background(), it))
	}

	p := NewPurger(store, idx, log, time.Hour, 24*time.Hour)
	purged, err := p.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, purged)
	assert.Equal(t, []string{"old"}, store.deleted)
	assert.False(t, idx.Has("old"))
	assert.True(t, idx.Has("fresh"))
	assert.True(t, idx.Has("alive"))
}

func TestRedisSyncer_Sync(t *testing.T) {
	store := newFakeStore()
	idx := index.NewMemoryIndex()
	log := logger.New("error", false)

	require.NoError(t, store.SaveItem(context.Background(), &domain.Item{ID: "a", Seq: 2}))
	require.NoError(t, store.SaveItem(context.Background(), &domain.Item{ID: "b", Seq: 5, Deleted: true}))

	s := NewRedisSyncer(store, idx, log)
	require.NoError(t, s.Sync(context.Background()))

	assert.Equal(t, 1, idx.Count())
	assert.True(t, idx.Has("b"))
	assert.Equal(t, uint64(6), idx.NextSeq())
}
