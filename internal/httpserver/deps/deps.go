package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/goodneighbor/internal/favicon"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/metrics"
	"github.com/MrSnakeDoc/goodneighbor/internal/service"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
	"github.com/MrSnakeDoc/goodneighbor/internal/validation"
)

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Version           string
	Commit            string
	BuildDate         string
	GoVersion         string
	AllowedHosts      []string              // Host headers allowed to reach the API (empty = any)
	AllowedCIDRS      []string              // IPs allowed to reach /readyz and /metrics
	TrustProxy        bool                  // true if running behind a trusted reverse proxy
	CORSOrigins       []string              // browser origins allowed by CORS
	StaticDir         string                // built SPA; empty or missing disables it
	RequestTimeout    time.Duration         // per-request handler timeout
	Storage           *storage.Engine       // storage file engine
	Services          *service.Services     // users, homepages, widgets
	Favicons          *favicon.Service      // favicon lookup and cache
	Validator         *validation.Validator // request and widget property validation
	Metrics           *metrics.Collector    // nil disables instrumentation
	RedisClient       *redis.Client         // nil when the redis favicon tier is disabled
	FaviconRateBurst  int                   // favicon lookups allowed in a burst, per client IP
	FaviconRatePerMin int                   // favicon lookup refill rate, per client IP
}
