package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "goodneighbor"

// Collector owns a private registry so tests can build as many as they like.
// All methods are safe on a nil receiver.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	storageOps      *prometheus.CounterVec
	storageDuration *prometheus.HistogramVec
	storageReloads  prometheus.Counter

	faviconLookups *prometheus.CounterVec
	faviconCache   *prometheus.CounterVec
	faviconEvicted prometheus.Counter
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Storage file loads and saves",
		}, []string{"operation", "status"}),
		storageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storage_operation_duration_seconds",
			Help:      "Storage file load and save duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		storageReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_external_reloads_total",
			Help:      "Reloads triggered by changes made outside the process",
		}),
		faviconLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favicon_lookups_total",
			Help:      "Favicon discoveries by source",
		}, []string{"source"}),
		faviconCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favicon_cache_requests_total",
			Help:      "Favicon cache lookups by result",
		}, []string{"result"}),
		faviconEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favicon_cache_expired_total",
			Help:      "Favicon cache entries removed by the sweeper",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests, c.httpDuration,
		c.storageOps, c.storageDuration, c.storageReloads,
		c.faviconLookups, c.faviconCache, c.faviconEvicted,
	)
	return c
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry is exposed for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) ObserveStorage(op string, d time.Duration, err error) {
	if c == nil {
		return
	}
	c.storageOps.WithLabelValues(op, status(err)).Inc()
	c.storageDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (c *Collector) StorageReloaded() {
	if c == nil {
		return
	}
	c.storageReloads.Inc()
}

func (c *Collector) FaviconDiscovered(source string) {
	if c == nil {
		return
	}
	c.faviconLookups.WithLabelValues(source).Inc()
}

func (c *Collector) FaviconCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.faviconCache.WithLabelValues("hit").Inc()
		return
	}
	c.faviconCache.WithLabelValues("miss").Inc()
}

func (c *Collector) FaviconExpired(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.faviconEvicted.Add(float64(n))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
