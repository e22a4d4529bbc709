package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/mw"
)

func init() { Register(registerFavicon) }

// registerFavicon rate-limits lookups only: they trigger outbound requests.
func registerFavicon(r chi.Router, d deps.Deps) {
	if d.Favicons == nil {
		return
	}
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))

	limited := api.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.FaviconRateBurst,
		RefillPerIPPerMin: d.FaviconRatePerMin,
		TrustProxy:        d.TrustProxy,
		Logger:            d.Logger,
	}))
	limited.Get("/api/favicon", handlers.Favicon(d))

	api.Delete("/api/favicon/cache", handlers.ClearFaviconCache(d))
	api.Get("/api/favicon/stats", handlers.FaviconStats(d))
}
