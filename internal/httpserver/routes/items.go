package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
	"github.com/spinshelf/spinshelf/internal/httpserver/handlers"
)

func init() { Register(registerItems) }

func registerItems(r chi.Router, d deps.Deps) {
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", handlers.ListItems(d))
		r.Get("/{id}", handlers.GetItem(d))

		// Writes share a per-IP rate limit; reads stay unthrottled.
		r.Group(func(r chi.Router) {
			if d.WriteRateLimit > 0 {
				r.Use(httprate.LimitByIP(d.WriteRateLimit, time.Minute))
			}
			r.Post("/", handlers.CreateItem(d))
			r.Patch("/{id}", handlers.UpdateItem(d))
			r.Delete("/", handlers.DeleteItemByQuery(d))
			r.Delete("/{id}", handlers.DeleteItem(d))
		})
	})
}
