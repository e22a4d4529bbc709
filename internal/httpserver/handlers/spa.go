package handlers

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
)

// SPA serves files from the built frontend and falls back to index.html so
// client-side routes survive a reload. Unknown /api paths stay JSON 404s.
func SPA(d deps.Deps) http.HandlerFunc {
	root := http.Dir(d.StaticDir)
	files := http.FileServer(root)
	index := filepath.Join(d.StaticDir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			writeError(w, d.Logger, effect.NotFound("route not found", map[string]string{"path": r.URL.Path}))
			return
		}

		if p != "/" {
			if f, err := root.Open(p); err == nil {
				st, err := f.Stat()
				_ = f.Close()
				if err == nil && !st.IsDir() {
					files.ServeHTTP(w, r)
					return
				}
			}
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}
}

// NotFound answers unmatched routes when no SPA is served.
func NotFound(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, d.Logger, effect.NotFound("route not found", map[string]string{"path": r.URL.Path}))
	}
}
