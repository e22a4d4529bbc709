package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/favicon"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/metrics"
	"github.com/MrSnakeDoc/goodneighbor/internal/repository"
	"github.com/MrSnakeDoc/goodneighbor/internal/service"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
	"github.com/MrSnakeDoc/goodneighbor/internal/validation"
)

var pngIcon = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type testServer struct {
	handler http.Handler
	deps    deps.Deps
}

func newTestServer(t *testing.T, opts ...func(*deps.Deps)) *testServer {
	t.Helper()

	engine := storage.New(filepath.Join(t.TempDir(), "storage.yaml"), logger.Nop())
	require.NoError(t, engine.Load())

	m := metrics.New()
	discoverer := favicon.NewDiscoverer(logger.Nop(),
		favicon.WithGoogleEndpoint(""),
		favicon.WithTimeout(2*time.Second))

	d := deps.Deps{
		Logger:            logger.Nop(),
		StartTime:         time.Now(),
		Version:           "test",
		CORSOrigins:       []string{"http://localhost:5173"},
		Storage:           engine,
		Services:          service.New(repository.NewRepositories(engine)),
		Favicons:          favicon.NewService(discoverer, favicon.NewMemoryCache(10, time.Hour), logger.Nop(), m),
		Validator:         validation.New(),
		Metrics:           m,
		FaviconRateBurst:  100,
		FaviconRatePerMin: 60,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return &testServer{handler: NewRouter(d), deps: d}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type apiError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type homepageJSON struct {
	HomepageID string `json:"homepage_id"`
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	IsDefault  bool   `json:"is_default"`
}

type widgetJSON struct {
	ID         string         `json:"id"`
	HomepageID string         `json:"homepage_id"`
	Type       string         `json:"type"`
	Position   int            `json:"position"`
	Properties map[string]any `json:"properties"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeAs[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "good-neighbor", body["service"])
	assert.Equal(t, "test", body["version"])
}

func TestReadyz(t *testing.T) {
	t.Run("ready once storage is loaded", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodGet, "/readyz", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeAs[map[string]any](t, rec)
		assert.Equal(t, true, body["ready"])
	})

	t.Run("unready before load", func(t *testing.T) {
		s := newTestServer(t, func(d *deps.Deps) {
			d.Storage = storage.New(filepath.Join(t.TempDir(), "storage.yaml"), logger.Nop())
		})
		rec := s.do(t, http.MethodGet, "/readyz", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("restricted to allowed CIDRs", func(t *testing.T) {
		s := newTestServer(t, func(d *deps.Deps) { d.AllowedCIDRS = []string{"10.0.0.0/8"} })
		// httptest requests come from 192.0.2.1
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/readyz", nil).Code)
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/metrics", nil).Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/health", nil)

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `goodneighbor_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}

func TestHomepagesAPI(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/homepages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeAs[[]homepageJSON](t, rec))

	rec = s.do(t, http.MethodPost, "/api/homepages", map[string]any{"name": "Home", "is_default": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	home := decodeAs[homepageJSON](t, rec)
	assert.True(t, home.IsDefault)

	rec = s.do(t, http.MethodGet, "/api/homepages/"+home.HomepageID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Home", decodeAs[homepageJSON](t, rec).Name)

	rec = s.do(t, http.MethodPut, "/api/homepages/"+home.HomepageID, map[string]any{"name": "Start"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Start", decodeAs[homepageJSON](t, rec).Name)

	// The last homepage cannot go.
	rec = s.do(t, http.MethodDelete, "/api/homepages/"+home.HomepageID, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BUSINESS_RULE_VIOLATION", decodeAs[apiError](t, rec).Error.Code)

	rec = s.do(t, http.MethodPost, "/api/homepages/", map[string]any{"name": "Work"})
	require.Equal(t, http.StatusCreated, rec.Code)
	work := decodeAs[homepageJSON](t, rec)
	assert.False(t, work.IsDefault)

	rec = s.do(t, http.MethodPatch, "/api/homepages/"+work.HomepageID+"/default", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeAs[homepageJSON](t, rec).IsDefault)

	rec = s.do(t, http.MethodGet, "/api/homepages/"+home.HomepageID, nil)
	assert.False(t, decodeAs[homepageJSON](t, rec).IsDefault)

	rec = s.do(t, http.MethodDelete, "/api/homepages/"+home.HomepageID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "deleted", "id": home.HomepageID}, decodeAs[map[string]any](t, rec))

	rec = s.do(t, http.MethodGet, "/api/homepages", nil)
	assert.Len(t, decodeAs[[]homepageJSON](t, rec), 1)
}

func TestHomepagesAPI_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
		code   string
		field  string
	}{
		{"missing name", http.MethodPost, "/api/homepages", map[string]any{"is_default": true}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name"},
		{"blank name", http.MethodPost, "/api/homepages", map[string]any{"name": "   "}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", ""},
		{"malformed json", http.MethodPost, "/api/homepages", `{"name":`, http.StatusUnprocessableEntity, "VALIDATION_ERROR", ""},
		{"wrong field type", http.MethodPost, "/api/homepages", `{"name": 3}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name"},
		{"empty body", http.MethodPost, "/api/homepages", nil, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "payload"},
		{"unknown homepage", http.MethodGet, "/api/homepages/nope", nil, http.StatusNotFound, "NOT_FOUND", ""},
		{"rename unknown", http.MethodPut, "/api/homepages/nope", map[string]any{"name": "x"}, http.StatusNotFound, "NOT_FOUND", ""},
		{"default unknown", http.MethodPatch, "/api/homepages/nope/default", nil, http.StatusNotFound, "NOT_FOUND", ""},
		{"delete unknown", http.MethodDelete, "/api/homepages/nope", nil, http.StatusNotFound, "NOT_FOUND", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.target, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			e := decodeAs[apiError](t, rec)
			assert.Equal(t, tt.code, e.Error.Code)
			if tt.field != "" {
				assert.Contains(t, e.Error.Details, tt.field)
			}
		})
	}
}

func TestWidgetsAPI(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/widgets", map[string]any{
		"type":       "shortcut",
		"properties": map[string]any{"url": "https://git.lan", "title": "Git"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	git := decodeAs[widgetJSON](t, rec)
	assert.Equal(t, 1, git.Position, "first widget goes after max position 0")
	assert.Equal(t, "🔗", git.Properties["icon"])

	// The widget API created the default homepage on the way.
	homepages := decodeAs[[]homepageJSON](t, s.do(t, http.MethodGet, "/api/homepages", nil))
	require.Len(t, homepages, 1)
	assert.Equal(t, "Home", homepages[0].Name)
	assert.Equal(t, homepages[0].HomepageID, git.HomepageID)

	rec = s.do(t, http.MethodPost, "/api/widgets", map[string]any{
		"type":       "weather",
		"properties": map[string]any{"city": "Lyon"},
		"position":   5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	weather := decodeAs[widgetJSON](t, rec)
	assert.Equal(t, map[string]any{"city": "Lyon"}, weather.Properties)

	rec = s.do(t, http.MethodGet, "/api/widgets", nil)
	listed := decodeAs[[]widgetJSON](t, rec)
	require.Len(t, listed, 2)
	assert.Equal(t, []string{git.ID, weather.ID}, []string{listed[0].ID, listed[1].ID})

	rec = s.do(t, http.MethodPost, "/api/widgets/reorder", map[string]any{"widget_ids": []string{weather.ID, git.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reordered := decodeAs[[]widgetJSON](t, rec)
	require.Len(t, reordered, 2)
	assert.Equal(t, weather.ID, reordered[0].ID)
	assert.Equal(t, 0, reordered[0].Position)
	assert.Equal(t, 1, reordered[1].Position)

	rec = s.do(t, http.MethodPatch, "/api/widgets/"+git.ID+"/position", map[string]any{"position": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, decodeAs[widgetJSON](t, rec).Position)

	rec = s.do(t, http.MethodPut, "/api/widgets/"+git.ID, map[string]any{
		"properties": map[string]any{"url": "https://forge.lan", "title": "Forge", "icon": "🛠"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Forge", decodeAs[widgetJSON](t, rec).Properties["title"])

	rec = s.do(t, http.MethodGet, "/api/widgets/"+git.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://forge.lan", decodeAs[widgetJSON](t, rec).Properties["url"])

	rec = s.do(t, http.MethodDelete, "/api/widgets/"+git.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/widgets/"+git.ID, nil).Code)
}

func TestWidgetsAPI_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/widgets", map[string]any{
		"type":       "iframe",
		"properties": map[string]any{"url": "https://grafana.lan", "title": "Grafana"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	frame := decodeAs[widgetJSON](t, rec)
	assert.EqualValues(t, 400, frame.Properties["width"])

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
		code   string
		field  string
	}{
		{"missing type", http.MethodPost, "/api/widgets", map[string]any{"properties": map[string]any{}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "type"},
		{"missing properties", http.MethodPost, "/api/widgets", map[string]any{"type": "shortcut"}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "properties"},
		{"invalid iframe", http.MethodPost, "/api/widgets", map[string]any{"type": "iframe", "properties": map[string]any{"title": "x"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "properties.url"},
		{"negative position", http.MethodPost, "/api/widgets", map[string]any{"type": "weather", "properties": map[string]any{}, "position": -1}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "position"},
		{"update keeps stored type", http.MethodPut, "/api/widgets/" + frame.ID, map[string]any{"properties": map[string]any{"url": "https://a.lan", "title": "a", "height": 5000}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "properties.height"},
		{"update unknown", http.MethodPut, "/api/widgets/nope", map[string]any{"properties": map[string]any{}}, http.StatusNotFound, "NOT_FOUND", ""},
		{"position required", http.MethodPatch, "/api/widgets/" + frame.ID + "/position", map[string]any{}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "position"},
		{"position negative", http.MethodPatch, "/api/widgets/" + frame.ID + "/position", map[string]any{"position": -3}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "position"},
		{"position unknown", http.MethodPatch, "/api/widgets/nope/position", map[string]any{"position": 1}, http.StatusNotFound, "NOT_FOUND", ""},
		{"reorder unknown id", http.MethodPost, "/api/widgets/reorder", map[string]any{"widget_ids": []string{frame.ID, "nope"}}, http.StatusNotFound, "NOT_FOUND", ""},
		{"reorder duplicates", http.MethodPost, "/api/widgets/reorder", map[string]any{"widget_ids": []string{frame.ID, frame.ID}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", ""},
		{"reorder blank id", http.MethodPost, "/api/widgets/reorder", map[string]any{"widget_ids": []string{""}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "widget_ids[0]"},
		{"delete unknown", http.MethodDelete, "/api/widgets/nope", nil, http.StatusNotFound, "NOT_FOUND", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.target, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			e := decodeAs[apiError](t, rec)
			assert.Equal(t, tt.code, e.Error.Code)
			if tt.field != "" {
				assert.Contains(t, e.Error.Details, tt.field)
			}
		})
	}
}

func TestWidgetsAPI_ForeignWidget(t *testing.T) {
	s := newTestServer(t)

	// A widget on a homepage that is not the default one.
	rec := s.do(t, http.MethodPost, "/api/homepages", map[string]any{"name": "Home", "is_default": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/homepages", map[string]any{"name": "Other"})
	other := decodeAs[homepageJSON](t, rec)

	w, ed, ok := s.deps.Services.Widgets.Create(domain.HomepageID(other.HomepageID), "weather", map[string]any{}, nil).Run().Get()
	require.True(t, ok, ed.Message)

	rec = s.do(t, http.MethodDelete, "/api/widgets/"+w.ID.String(), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeAs[apiError](t, rec).Error.Code)
}

func TestFaviconAPI(t *testing.T) {
	var iconHits atomic.Int32
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, `<html><head><link rel="icon" href="/icon.png"></head></html>`)
		case "/icon.png":
			iconHits.Add(1)
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngIcon)
		default:
			http.NotFound(w, r)
		}
	}))
	defer site.Close()

	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/favicon?url="+site.URL, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decodeAs[favicon.Response](t, rec)
	require.True(t, first.Success)
	assert.Equal(t, "png", *first.Format)
	assert.True(t, strings.HasPrefix(*first.Favicon, "data:image/png;base64,"))

	rec = s.do(t, http.MethodGet, "/api/favicon?url="+site.URL+"/some/page", nil)
	second := decodeAs[favicon.Response](t, rec)
	require.True(t, second.Success)
	assert.True(t, strings.HasSuffix(*second.Source, "(cached)"))
	assert.EqualValues(t, 1, iconHits.Load())

	rec = s.do(t, http.MethodGet, "/api/favicon/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeAs[favicon.Stats](t, rec)
	assert.Equal(t, 1, stats.Size)
	assert.EqualValues(t, 1, stats.Hits)

	rec = s.do(t, http.MethodDelete, "/api/favicon/cache?domain="+site.URL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, site.URL, decodeAs[map[string]string](t, rec)["domain"])

	rec = s.do(t, http.MethodDelete, "/api/favicon/cache", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "all", decodeAs[map[string]string](t, rec)["domain"])

	rec = s.do(t, http.MethodGet, "/api/favicon", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeAs[apiError](t, rec).Error.Code)

	rec = s.do(t, http.MethodGet, "/api/favicon?url=ftp://files.example", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFaviconAPI_RateLimited(t *testing.T) {
	s := newTestServer(t, func(d *deps.Deps) {
		d.FaviconRateBurst = 2
		d.FaviconRatePerMin = 1
	})

	// Invalid input still consumes a token: the limit sits in front of the handler.
	for range 2 {
		assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodGet, "/api/favicon?url=", nil).Code)
	}
	rec := s.do(t, http.MethodGet, "/api/favicon?url=", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeAs[apiError](t, rec).Error.Code)

	// Stats are not limited.
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/favicon/stats", nil).Code)
}

func TestSPA(t *testing.T) {
	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dist, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	s := newTestServer(t, func(d *deps.Deps) { d.StaticDir = dist })

	rec := s.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app")

	rec = s.do(t, http.MethodGet, "/settings/widgets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html>app</html>")

	rec = s.do(t, http.MethodGet, "/assets/app.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeAs[apiError](t, rec).Error.Code)
}

func TestNotFoundWithoutSPA(t *testing.T) {
	s := newTestServer(t, func(d *deps.Deps) { d.StaticDir = filepath.Join(t.TempDir(), "missing") })

	rec := s.do(t, http.MethodGet, "/anything", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeAs[apiError](t, rec).Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/widgets", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/widgets", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestEnforceHost(t *testing.T) {
	s := newTestServer(t, func(d *deps.Deps) { d.AllowedHosts = []string{"home.lan"} })

	req := httptest.NewRequest(http.MethodGet, "/api/homepages", nil)
	req.Host = "home.lan:8000"
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/homepages", nil)
	req.Host = "attacker.example"
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMisdirectedRequest, rec.Code)
}
