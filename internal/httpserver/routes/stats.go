package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
	"github.com/spinshelf/spinshelf/internal/httpserver/handlers"
)

func init() { Register(registerStats) }

func registerStats(r chi.Router, d deps.Deps) {
	r.Get("/api/statistics", handlers.Statistics(d))
}
