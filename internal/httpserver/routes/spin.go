package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
	"github.com/spinshelf/spinshelf/internal/httpserver/handlers"
)

func init() { Register(registerSpin) }

func registerSpin(r chi.Router, d deps.Deps) {
	r.Get("/api/spin", handlers.Spin(d))
}
