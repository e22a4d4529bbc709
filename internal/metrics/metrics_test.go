package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveHTTP("GET", "/", 200, time.Millisecond)
		c.ObserveStorage("save", time.Millisecond, nil)
		c.StorageReloaded()
		c.FaviconDiscovered("html")
		c.FaviconCache(true)
		c.FaviconExpired(3)
	})
}

func TestCollector_Counts(t *testing.T) {
	c := New()
	c.ObserveStorage("save", time.Millisecond, nil)
	c.ObserveStorage("save", time.Millisecond, errors.New("disk"))
	c.FaviconCache(true)
	c.FaviconCache(false)
	c.FaviconCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.storageOps.WithLabelValues("save", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.storageOps.WithLabelValues("save", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.faviconCache.WithLabelValues("miss")))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.ObserveHTTP("GET", "/api/health", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "goodneighbor_http_requests_total"))
}
