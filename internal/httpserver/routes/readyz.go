package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

// registerInfra wires the probes and the metrics endpoint. /readyz and
// /metrics are restricted to GN_ALLOWED_CIDRS.
func registerInfra(r chi.Router, d deps.Deps) {
	r.Get("/api/health", handlers.Health(d))

	internal := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	internal.Get("/readyz", handlers.Readyz(d))
	if d.Metrics != nil {
		internal.Method("GET", "/metrics", d.Metrics.Handler())
	}
}
