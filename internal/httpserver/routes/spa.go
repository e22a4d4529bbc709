package routes

import (
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

func init() { Register(registerSPA) }

func registerSPA(r chi.Router, d deps.Deps) {
	r.NotFound(handlers.NotFound(d))

	if d.StaticDir == "" {
		return
	}
	if st, err := os.Stat(d.StaticDir); err != nil || !st.IsDir() {
		d.Logger.Warn("static directory not found, SPA serving disabled",
			logger.String("dir", d.StaticDir))
		return
	}

	d.Logger.Info("serving SPA", logger.String("dir", d.StaticDir))
	r.Get("/*", handlers.SPA(d))
}
