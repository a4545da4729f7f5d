package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinshelf/spinshelf/internal/catalog"
	"github.com/spinshelf/spinshelf/internal/domain"
	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
	"github.com/spinshelf/spinshelf/internal/httpserver/routes"
	"github.com/spinshelf/spinshelf/internal/index"
	"github.com/spinshelf/spinshelf/internal/logger"
	"github.com/spinshelf/spinshelf/internal/scheduler"
)

// fakePersister keeps items in memory so the full HTTP stack can run
// without Redis.
type fakePersister struct {
	mu    sync.Mutex
	items map[string]*domain.Item
}

func newFakePersister() *fakePersister {
	return &fakePersister{items: make(map[string]*domain.Item)}
}

func (f *fakePersister) SaveItem(_ context.Context, it *domain.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[it.ID] = it.Clone()
	return nil
}

func (f *fakePersister) GetAllItems(_ context.Context) ([]*domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it.Clone())
	}
	return out, nil
}

func (f *fakePersister) HardDeleteItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type testEnv struct {
	server    *httptest.Server
	persister *fakePersister
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New("error", false)
	persister := newFakePersister()
	idx := index.NewMemoryIndex()
	svc := catalog.New(persister, idx, domain.NewValidator(domain.Limits{}), domain.NewSpinner(), log)
	purger := scheduler.NewPurger(persister, idx, log, time.Hour, time.Nanosecond)

	d := deps.Deps{
		Logger:    log,
		StartTime: time.Now(),
		Catalog:   svc,
		Purger:    purger,
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, persister: persister}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func (e *testEnv) createItem(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	resp, raw := e.do(t, http.MethodPost, "/api/items", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created map[string]any
	require.NoError(t, json.Unmarshal(raw, &created))
	return created
}

func TestItemLifecycle(t *testing.T) {
	env := newTestEnv(t)

	created := env.createItem(t, map[string]any{
		"type":     "game",
		"title":    "  Hades  ",
		"platform": "PC",
		"tags":     []string{"Roguelike", "roguelike", "indie"},
	})
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Hades", created["title"])
	assert.Equal(t, "active", created["status"])
	assert.ElementsMatch(t, []any{"roguelike", "indie"}, created["tags"])

	resp, raw := env.do(t, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Total)

	resp, raw = env.do(t, http.MethodPatch, "/api/items/"+id, map[string]any{"status": "done"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated map[string]any
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "done", updated["status"])
	assert.Equal(t, "Hades", updated["title"])

	resp, _ = env.do(t, http.MethodDelete, "/api/items/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/items/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/items/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{
			name:    "empty title",
			payload: map[string]any{"type": "game", "title": "   "},
			field:   "title",
		},
		{
			name:    "unknown type",
			payload: map[string]any{"type": "book", "title": "Dune"},
			field:   "type",
		},
		{
			name:    "platform wrong for type",
			payload: map[string]any{"type": "movie", "title": "Dune", "platform": "PC"},
			field:   "platform",
		},
		{
			name:    "bad cover url",
			payload: map[string]any{"type": "game", "title": "Dune", "coverUrl": "ftp://nope"},
			field:   "coverUrl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := env.do(t, http.MethodPost, "/api/items", tt.payload)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(raw))

			var body struct {
				Field string `json:"field"`
			}
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.field, body.Field)
		})
	}
}

func TestListFiltering(t *testing.T) {
	env := newTestEnv(t)

	env.createItem(t, map[string]any{"type": "game", "title": "Hades", "tags": []string{"roguelike"}})
	env.createItem(t, map[string]any{"type": "game", "title": "Celeste", "tags": []string{"platformer"}})
	env.createItem(t, map[string]any{"type": "movie", "title": "Heat", "platform": "Netflix"})

	var list struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}

	resp, raw := env.do(t, http.MethodGet, "/api/items?type=movie", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Heat", list.Items[0]["title"])

	resp, raw = env.do(t, http.MethodGet, "/api/items?tags=roguelike", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Hades", list.Items[0]["title"])

	resp, raw = env.do(t, http.MethodGet, "/api/items?search=hea", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Heat", list.Items[0]["title"])

	resp, _ = env.do(t, http.MethodGet, "/api/items?limit=0", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/items?status=later", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestArchivedHiddenByDefault(t *testing.T) {
	env := newTestEnv(t)

	created := env.createItem(t, map[string]any{"type": "game", "title": "Old Gem"})
	id := created["id"].(string)
	resp, raw := env.do(t, http.MethodPatch, "/api/items/"+id, map[string]any{"status": "archived"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var list struct {
		Items []map[string]any `json:"items"`
	}

	resp, raw = env.do(t, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Empty(t, list.Items)

	resp, raw = env.do(t, http.MethodGet, "/api/items?include_archived=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list.Items, 1)
}

func TestSpin(t *testing.T) {
	env := newTestEnv(t)

	var spin struct {
		Winner        *map[string]any  `json:"winner"`
		Pool          []map[string]any `json:"pool"`
		TotalPoolSize int              `json:"total_pool_size"`
	}

	resp, raw := env.do(t, http.MethodGet, "/api/spin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &spin))
	assert.Nil(t, spin.Winner)
	assert.NotNil(t, spin.Pool)
	assert.Empty(t, spin.Pool)

	ids := make(map[string]struct{})
	for i := 0; i < 3; i++ {
		created := env.createItem(t, map[string]any{
			"type":  "game",
			"title": fmt.Sprintf("Game %d", i),
		})
		ids[created["id"].(string)] = struct{}{}
	}

	// One finished game must never win a spin.
	done := env.createItem(t, map[string]any{"type": "game", "title": "Finished"})
	doneID := done["id"].(string)
	resp, raw = env.do(t, http.MethodPatch, "/api/items/"+doneID, map[string]any{"status": "done"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	for i := 0; i < 20; i++ {
		resp, raw = env.do(t, http.MethodGet, "/api/spin", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(raw, &spin))
		require.NotNil(t, spin.Winner)
		assert.Equal(t, 3, spin.TotalPoolSize)

		winnerID := (*spin.Winner)["id"].(string)
		assert.NotEqual(t, doneID, winnerID)
		_, ok := ids[winnerID]
		assert.True(t, ok, "winner must come from the active pool")
	}
}

func TestStatistics(t *testing.T) {
	env := newTestEnv(t)

	env.createItem(t, map[string]any{"type": "game", "title": "A"})
	env.createItem(t, map[string]any{"type": "movie", "title": "B", "platform": "Netflix"})
	created := env.createItem(t, map[string]any{"type": "game", "title": "C"})
	resp, raw := env.do(t, http.MethodPatch, "/api/items/"+created["id"].(string),
		map[string]any{"status": "done"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodGet, "/api/statistics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats catalog.Stats
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, catalog.Stats{Total: 3, Active: 2, Done: 1, Games: 2, Movies: 1}, stats)
}

func TestAdminPurgeAndHardDelete(t *testing.T) {
	env := newTestEnv(t)

	created := env.createItem(t, map[string]any{"type": "game", "title": "Short Lived"})
	id := created["id"].(string)

	resp, _ := env.do(t, http.MethodDelete, "/api/items/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The test purger retains soft-deleted items for a nanosecond only.
	resp, raw := env.do(t, http.MethodPost, "/admin/purge", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var purge struct {
		Purged int `json:"purged"`
	}
	require.NoError(t, json.Unmarshal(raw, &purge))
	assert.Equal(t, 1, purge.Purged)
	env.persister.mu.Lock()
	assert.Empty(t, env.persister.items)
	env.persister.mu.Unlock()

	// Hard delete reaches soft-deleted items directly.
	other := env.createItem(t, map[string]any{"type": "game", "title": "Condemned"})
	otherID := other["id"].(string)
	resp, _ = env.do(t, http.MethodDelete, "/api/items/"+otherID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/admin/items/"+otherID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/admin/items/"+otherID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminReloadWithoutSeedFile(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/admin/reload", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, "ok", health.Status)
}
