package handlers

import (
	"net/http"

	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
)

// Spin handles GET /api/spin: one uniformly random active item from the
// filtered pool. Filters narrow the pool; status and pagination parameters
// are ignored because a spin is always over the full active set.
func Spin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Catalog.Spin(f))
	}
}
