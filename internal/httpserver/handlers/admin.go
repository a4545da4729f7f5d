package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
	"github.com/spinshelf/spinshelf/internal/logger"
)

// Reload triggers a manual reimport of the seed catalog.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SeedReloadTrigger == nil {
			writeJSON(w, http.StatusServiceUnavailable,
				errorResponse{Error: "no seed file configured"})
			return
		}

		select {
		case d.SeedReloadTrigger <- struct{}{}:
			d.Logger.Info("manual seed reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "reload triggered"})
		default:
			d.Logger.Warn("seed reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "reload already in progress"})
		}
	}
}

type purgeResponse struct {
	Purged int `json:"purged"`
}

// Purge runs one garbage collection pass over soft-deleted items,
// outside the regular schedule.
func Purge(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := d.Purger.Collect(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, purgeResponse{Purged: n})
	}
}

// HardDeleteItem removes an item physically, bypassing the soft-delete
// retention window.
func HardDeleteItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Catalog.HardDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
