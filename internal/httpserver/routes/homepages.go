package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/mw"
)

func init() { Register(registerHomepages) }

func registerHomepages(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))

	api.Get("/api/homepages", handlers.ListHomepages(d))
	api.Post("/api/homepages", handlers.CreateHomepage(d))
	api.Get("/api/homepages/{id}", handlers.GetHomepage(d))
	api.Put("/api/homepages/{id}", handlers.RenameHomepage(d))
	api.Patch("/api/homepages/{id}/default", handlers.SetDefaultHomepage(d))
	api.Delete("/api/homepages/{id}", handlers.DeleteHomepage(d))
}
