package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/mw"
)

func init() { Register(registerWidgets) }

func registerWidgets(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))

	api.Get("/api/widgets", handlers.ListWidgets(d))
	api.Post("/api/widgets", handlers.CreateWidget(d))
	// Static segment wins over {id} in chi.
	api.Post("/api/widgets/reorder", handlers.ReorderWidgets(d))
	api.Get("/api/widgets/{id}", handlers.GetWidget(d))
	api.Put("/api/widgets/{id}", handlers.UpdateWidget(d))
	api.Patch("/api/widgets/{id}/position", handlers.UpdateWidgetPosition(d))
	api.Delete("/api/widgets/{id}", handlers.DeleteWidget(d))
}
