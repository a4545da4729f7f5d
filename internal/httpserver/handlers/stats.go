package handlers

import (
	"net/http"

	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
)

// Statistics handles GET /api/statistics.
func Statistics(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Catalog.Statistics())
	}
}
