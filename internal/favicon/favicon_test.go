package favicon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x10")

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://example.com/path?q=1", want: "https://example.com"},
		{in: "http://example.com:8080/x", want: "http://example.com:8080"},
		{in: "example.com/foo", want: "https://example.com"},
		{in: "  sub.example.org  ", want: "https://sub.example.org"},
		{in: "", wantErr: true},
		{in: "https://", wantErr: true},
		{in: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExtractDomain(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSizes(t *testing.T) {
	tests := map[string]int{
		"":            0,
		"any":         0,
		"32x32":       32,
		"16x16 64x64": 64,
		"axb":         0,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseSizes(in), in)
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"image/x-icon":             "ico",
		"image/vnd.microsoft.icon": "ico",
		"image/svg+xml":            "svg",
		"image/png":                "png",
		"image/jpeg":               "jpeg",
		"image/webp":               "webp",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatOf(in), in)
	}
}

// site serves a page and a set of icon paths and counts requests per path.
type site struct {
	mu    sync.Mutex
	hits  map[string]int
	page  string
	icons map[string]string // path -> content type
}

func (s *site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.mu.Unlock()

	if r.URL.Path == "/" && s.page != "" {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, s.page)
		return
	}
	if ct, ok := s.icons[r.URL.Path]; ok {
		w.Header().Set("Content-Type", ct)
		_, _ = w.Write(pngBytes)
		return
	}
	http.NotFound(w, r)
}

func (s *site) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func newSite(page string, icons map[string]string) (*site, *httptest.Server) {
	s := &site{hits: map[string]int{}, page: page, icons: icons}
	return s, httptest.NewServer(s)
}

func TestDiscover_PrefersLargestDeclaredIcon(t *testing.T) {
	page := `<html><head>
		<link rel="stylesheet" href="/style.css">
		<link rel="icon" sizes="16x16" href="/small.png">
		<link rel="icon" sizes="64x64" href="big.png">
		<link rel="apple-touch-icon" href="/apple.png">
	</head></html>`
	_, srv := newSite(page, map[string]string{
		"/small.png": "image/png",
		"/big.png":   "image/png",
		"/apple.png": "image/png",
	})
	defer srv.Close()

	d := NewDiscoverer(logger.Nop(), WithGoogleEndpoint(""))
	res, err := d.Discover(context.Background(), srv.URL+"/", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/big.png", res.Source)
	assert.Equal(t, "png", res.Format)
	assert.True(t, strings.HasPrefix(res.DataURL, "data:image/png;base64,"))
}

func TestDiscover_FallsBackToDefaultPaths(t *testing.T) {
	page := `<html><head><link rel="icon" href="/missing.ico"></head></html>`
	s, srv := newSite(page, map[string]string{
		// Wrong header, but the body sniffs as an image.
		"/favicon.png": "application/octet-stream",
	})
	defer srv.Close()

	d := NewDiscoverer(logger.Nop(), WithGoogleEndpoint(""))
	res, err := d.Discover(context.Background(), srv.URL, srv.URL)

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/favicon.png", res.Source)
	assert.Equal(t, 1, s.count("/missing.ico"))
	assert.Equal(t, 1, s.count("/favicon.ico"))
}

func TestDiscover_GoogleFallback(t *testing.T) {
	_, srv := newSite("", nil)
	defer srv.Close()

	var gotDomain string
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDomain = r.URL.Query().Get("domain")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	}))
	defer google.Close()

	d := NewDiscoverer(logger.Nop(), WithGoogleEndpoint(google.URL))
	res, err := d.Discover(context.Background(), srv.URL, srv.URL)

	require.NoError(t, err)
	assert.Equal(t, GoogleSource, res.Source)
	assert.Equal(t, "127.0.0.1", gotDomain)
}

func TestDiscover_RejectsOversizedAndNonImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/favicon.ico":
			w.Header().Set("Content-Type", "image/x-icon")
			_, _ = w.Write(make([]byte, MaxIconSize+1))
		case "/favicon.png":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html>soft 404</html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := NewDiscoverer(logger.Nop(), WithGoogleEndpoint(""))
	_, err := d.Discover(context.Background(), srv.URL, srv.URL)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiscover_BreakerOpensOnGoogleFailures(t *testing.T) {
	_, srv := newSite("", nil)
	defer srv.Close()

	var calls atomic.Int32
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer google.Close()

	d := NewDiscoverer(logger.Nop(), WithGoogleEndpoint(google.URL))
	for range 8 {
		_, err := d.Discover(context.Background(), srv.URL, srv.URL)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	assert.Equal(t, int32(5), calls.Load())
}

func TestMemoryCache_LRUAndTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(2, time.Hour)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "a", Result{Source: "a"}))
	require.NoError(t, c.Set(ctx, "b", Result{Source: "b"}))

	// Touch a so b becomes the eviction candidate.
	got, _ := c.Get(ctx, "a")
	require.NotNil(t, got)
	require.NoError(t, c.Set(ctx, "c", Result{Source: "c"}))

	miss, _ := c.Get(ctx, "b")
	assert.Nil(t, miss)
	hit, _ := c.Get(ctx, "c")
	assert.NotNil(t, hit)

	now = now.Add(2 * time.Hour)
	expired, _ := c.Get(ctx, "a")
	assert.Nil(t, expired)

	st := c.Stats(ctx)
	assert.Equal(t, 1, st.Size)
	assert.Equal(t, 2, st.MaxSize)
	assert.Equal(t, int64(3600), st.TTLSeconds)
	assert.Equal(t, int64(2), st.Hits)
	assert.Equal(t, int64(2), st.Misses)
}

func TestMemoryCache_SweepAndClear(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(10, time.Minute)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "old1", Result{})
	_ = c.Set(ctx, "old2", Result{})
	now = now.Add(30 * time.Second)
	_ = c.Set(ctx, "fresh", Result{})
	now = now.Add(45 * time.Second)

	assert.Equal(t, 2, c.Sweep())
	assert.Equal(t, 1, c.Stats(ctx).Size)

	_ = c.Set(ctx, "other", Result{})
	require.NoError(t, c.Clear(ctx, "fresh"))
	assert.Equal(t, 1, c.Stats(ctx).Size)
	require.NoError(t, c.Clear(ctx, ""))
	assert.Equal(t, 0, c.Stats(ctx).Size)
}

func TestRedisCacheKey(t *testing.T) {
	assert.Equal(t, "goodneighbor:favicon:https://example.com", cacheKey("https://example.com"))
}

func TestTieredCache_RedisDownStillServesMemory(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewTieredCache(NewMemoryCache(10, time.Hour), NewRedisCache(client, time.Hour), logger.Nop())

	miss, err := c.Get(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, c.Set(ctx, "https://example.com", Result{Source: "x"}))
	hit, err := c.Get(ctx, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "x", hit.Source)
	assert.True(t, c.Stats(ctx).Redis)
}

func TestService_LookupCachesAndCollapses(t *testing.T) {
	s, srv := newSite("", map[string]string{"/favicon.ico": "image/x-icon"})
	defer srv.Close()

	svc := NewService(
		NewDiscoverer(logger.Nop(), WithGoogleEndpoint("")),
		NewMemoryCache(10, time.Hour),
		logger.Nop(),
		nil,
	)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Lookup(context.Background(), srv.URL+"/some/page")
			assert.NoError(t, err)
			assert.True(t, resp.Success)
		}()
	}
	wg.Wait()

	resp, err := svc.Lookup(context.Background(), srv.URL)
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "ico", *resp.Format)
	assert.Equal(t, srv.URL+"/favicon.ico (cached)", *resp.Source)
	assert.LessOrEqual(t, s.count("/favicon.ico"), 5)
	assert.GreaterOrEqual(t, s.count("/favicon.ico"), 1)

	domain, err := svc.Clear(context.Background(), srv.URL+"/x")
	require.NoError(t, err)
	assert.Equal(t, srv.URL, domain)
	assert.Equal(t, 0, svc.Stats(context.Background()).Size)
}

func TestService_LookupNotFoundAndInvalid(t *testing.T) {
	_, srv := newSite("", nil)
	defer srv.Close()

	svc := NewService(NewDiscoverer(logger.Nop(), WithGoogleEndpoint("")), NewMemoryCache(0, 0), logger.Nop(), nil)

	resp, err := svc.Lookup(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "No favicon found", *resp.Error)

	_, err = svc.Lookup(context.Background(), "   ")
	assert.True(t, errors.Is(err, ErrInvalidURL))
}
