package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/favicon"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

type clearedResponse struct {
	Status string `json:"status"`
	Domain string `json:"domain"`
}

// Favicon looks up the icon of ?url=. Discovery failures are reported in
// the body with 200; only unusable input is an error status.
func Favicon(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("url"))
		if raw == "" {
			writeError(w, d.Logger, effect.ValidationError("url parameter is required", map[string]string{"url": "is required"}))
			return
		}

		resp, err := d.Favicons.Lookup(r.Context(), raw)
		if err != nil {
			if errors.Is(err, favicon.ErrInvalidURL) {
				writeError(w, d.Logger, effect.ValidationError("invalid url", map[string]string{"url": err.Error()}))
				return
			}
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ClearFaviconCache drops ?domain= from the cache, or everything without it.
func ClearFaviconCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("domain"))

		domain, err := d.Favicons.Clear(r.Context(), raw)
		if err != nil {
			if errors.Is(err, favicon.ErrInvalidURL) {
				writeError(w, d.Logger, effect.ValidationError("invalid domain", map[string]string{"domain": err.Error()}))
				return
			}
			writeError(w, d.Logger, err)
			return
		}

		if domain == "" {
			domain = "all"
		}
		d.Logger.Info("favicon cache cleared", logger.String("domain", domain))
		writeJSON(w, http.StatusOK, clearedResponse{Status: "cleared", Domain: domain})
	}
}

func FaviconStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Favicons.Stats(r.Context()))
	}
}
