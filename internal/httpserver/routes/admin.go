package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
	"github.com/spinshelf/spinshelf/internal/httpserver/handlers"
	"github.com/spinshelf/spinshelf/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

// Admin routes are never exposed publicly; they sit behind the CIDR and
// Host allow-lists.
func registerAdmin(r chi.Router, d deps.Deps) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(
			mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
			mw.EnforceHost(d.AllowedHosts, d.Logger),
		)
		r.Post("/reload", handlers.Reload(d))
		r.Post("/purge", handlers.Purge(d))
		r.Delete("/items/{id}", handlers.HardDeleteItem(d))
	})
}
