package index

import (
	"sync"
	"time"

	"github.com/spinshelf/spinshelf/internal/domain"
)

// MemoryIndex holds the live catalog in memory. Every read path queries it;
// writes go through it and are mirrored to the durable store by the caller.
// All accessors copy items in and out so readers always see a consistent
// snapshot and never share state with writers.
type MemoryIndex struct {
	mu       sync.RWMutex
	items    map[string]*domain.Item // ID -> Item
	revs     map[string]uint64       // ID -> commit revision, bumped on every write
	seq      uint64
	lastSync time.Time
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		items: make(map[string]*domain.Item),
		revs:  make(map[string]uint64),
	}
}

// NextSeq hands out the next insertion sequence number.
func (idx *MemoryIndex) NextSeq() uint64 {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.seq++
	return idx.seq
}

// Put stores or unconditionally overwrites an item.
func (idx *MemoryIndex) Put(it *domain.Item) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.items[it.ID] = it.Clone()
	idx.revs[it.ID]++
	if it.Seq > idx.seq {
		idx.seq = it.Seq
	}
}

// Get returns a copy of the item if it exists and is not soft-deleted.
func (idx *MemoryIndex) Get(id string) (*domain.Item, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	it, ok := idx.items[id]
	if !ok || it.Deleted {
		return nil, false
	}
	return it.Clone(), true
}

// Has reports whether an item exists at all, soft-deleted included.
func (idx *MemoryIndex) Has(id string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	_, ok := idx.items[id]
	return ok
}

// Mutate applies fn to a copy of the item under the write lock and commits
// the result if fn succeeds. This makes read-modify-write cycles atomic
// per item: two concurrent updates serialize, last committed wins, and no
// reader ever observes a half-merged item. fn must not block.
// Returns the committed item, the previous version and the revision of the
// commit, for use with RestoreIfCurrent when persisting fails.
func (idx *MemoryIndex) Mutate(id string, fn func(it *domain.Item) error) (updated, prev *domain.Item, rev uint64, err error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	cur, ok := idx.items[id]
	if !ok || cur.Deleted {
		return nil, nil, 0, &domain.NotFoundError{ID: id}
	}

	next := cur.Clone()
	if err := fn(next); err != nil {
		return nil, nil, 0, err
	}
	idx.items[id] = next
	idx.revs[id]++
	return next.Clone(), cur.Clone(), idx.revs[id], nil
}

// RestoreIfCurrent rolls back to prev only if the entry is still at the
// revision the caller committed. A later write supersedes the rollback;
// restoring over it would lose a committed update. Reports whether the
// restore happened.
func (idx *MemoryIndex) RestoreIfCurrent(prev *domain.Item, rev uint64) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.revs[prev.ID] != rev {
		return false
	}
	idx.items[prev.ID] = prev.Clone()
	idx.revs[prev.ID]++
	return true
}

// Delete physically removes an item from the index.
func (idx *MemoryIndex) Delete(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.items, id)
	delete(idx.revs, id)
}

// List returns copies of all non-deleted items, newest first.
func (idx *MemoryIndex) List() []*domain.Item {
	idx.mu.RLock()
	items := make([]*domain.Item, 0, len(idx.items))
	for _, it := range idx.items {
		if it.Deleted {
			continue
		}
		items = append(items, it.Clone())
	}
	idx.mu.RUnlock()

	domain.SortItems(items)
	return items
}

// All returns copies of every item, soft-deleted included. Used by the
// purge job and the statistics of deleted rows.
func (idx *MemoryIndex) All() []*domain.Item {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	items := make([]*domain.Item, 0, len(idx.items))
	for _, it := range idx.items {
		items = append(items, it.Clone())
	}
	return items
}

// Count returns the number of non-deleted items.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := 0
	for _, it := range idx.items {
		if !it.Deleted {
			n++
		}
	}
	return n
}

// ReplaceAll rebuilds the index from the durable store, typically at
// startup. The sequence counter resumes past the highest seen value.
func (idx *MemoryIndex) ReplaceAll(items []*domain.Item) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.items = make(map[string]*domain.Item, len(items))
	idx.revs = make(map[string]uint64, len(items))
	for _, it := range items {
		idx.items[it.ID] = it.Clone()
		idx.revs[it.ID] = 1
		if it.Seq > idx.seq {
			idx.seq = it.Seq
		}
	}
	idx.lastSync = time.Now()
}

// LastSync returns when the index was last rebuilt from the store.
func (idx *MemoryIndex) LastSync() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastSync
}
