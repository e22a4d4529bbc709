package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
)

type componentStatus struct {
	OK        bool   `json:"ok"`
	Users     *int   `json:"users,omitempty"`
	Homepages *int   `json:"homepages,omitempty"`
	Widgets   *int   `json:"widgets,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Error     string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports 503 until the storage file is loaded. Redis only degrades
// the favicon cache, so it never makes the instance unready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storage := checkStorage(d)
		resp := readyzResponse{
			Ready: storage.OK,
			Components: map[string]componentStatus{
				"storage": storage,
				"redis":   checkRedis(r.Context(), d),
			},
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func checkStorage(d deps.Deps) componentStatus {
	if d.Storage == nil || !d.Storage.Loaded() {
		return componentStatus{OK: false, Error: "not loaded"}
	}
	stats, err := d.Storage.Stats()
	if err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	return componentStatus{
		OK:        true,
		Users:     &stats.Users,
		Homepages: &stats.Homepages,
		Widgets:   &stats.Widgets,
	}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Mode: "memory-only", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "tiered"}
}
