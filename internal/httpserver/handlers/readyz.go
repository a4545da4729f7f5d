package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/spinshelf/spinshelf/internal/domain"
	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Redis string `json:"redis"`
	Items int    `json:"items"`
}

// Readyz reports whether the service can take traffic. The catalog is
// served from memory, so a Redis outage degrades writes but readiness
// still reflects it.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redisStatus := "ok"
		ready := true
		if err := pingRedis(d); err != nil {
			redisStatus = "unreachable"
			ready = false
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{
			Ready: ready,
			Redis: redisStatus,
			Items: d.Catalog.Count(domain.Filter{IncludeArchived: true}),
		})
	}
}

func pingRedis(d deps.Deps) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return d.RedisClient.Ping(ctx).Err()
}
