package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/spinshelf/spinshelf/internal/domain"
)

// Store persists catalog items in Redis: one JSON value per item plus a
// set of all ids. Items never expire; soft-deleted rows stay until the
// purge job hard-deletes them.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// record is the wire form of an item. Deleted and Seq are internal fields
// excluded from API JSON, so they are carried explicitly here.
type record struct {
	domain.Item
	Seq     uint64 `json:"seq"`
	Deleted bool   `json:"deleted"`
}

func toRecord(it *domain.Item) record {
	return record{Item: *it, Seq: it.Seq, Deleted: it.Deleted}
}

func (r record) toItem() *domain.Item {
	it := r.Item
	it.Seq = r.Seq
	it.Deleted = r.Deleted
	return &it
}

// SaveItem stores an item, creating or overwriting it in one round trip.
func (s *Store) SaveItem(ctx context.Context, it *domain.Item) error {
	data, err := json.Marshal(toRecord(it))
	if err != nil {
		return &domain.StoreError{Op: "save", Err: err}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, ItemKey(it.ID), data, 0)
	pipe.SAdd(ctx, AllItemsKey(), it.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return &domain.StoreError{Op: "save", Err: err}
	}
	return nil
}

// GetItem retrieves an item by ID, soft-deleted rows included.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	data, err := s.client.Get(ctx, ItemKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, &domain.StoreError{Op: "get", Err: err}
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &domain.StoreError{Op: "get", Err: err}
	}
	return rec.toItem(), nil
}

// GetAllItems retrieves every stored item in one pipeline.
func (s *Store) GetAllItems(ctx context.Context) ([]*domain.Item, error) {
	ids, err := s.client.SMembers(ctx, AllItemsKey()).Result()
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	if len(ids) == 0 {
		return []*domain.Item{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, ItemKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}

	items := make([]*domain.Item, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			// Dangling set member, skip it.
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, &domain.StoreError{Op: "list", Err: err}
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, &domain.StoreError{Op: "list", Err: err}
		}
		items = append(items, rec.toItem())
	}
	return items, nil
}

// HardDeleteItem physically removes an item.
func (s *Store) HardDeleteItem(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, ItemKey(id))
	pipe.SRem(ctx, AllItemsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return &domain.StoreError{Op: "delete", Err: err}
	}
	return nil
}
