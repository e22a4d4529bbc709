package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "GN_"

type Config struct {
	ListenAddr      string        // ex: ":8000"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request handler timeout

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	StoragePath           string        // YAML document path
	WatchStorage          bool          // reload on external edits (fsnotify)
	StorageReloadInterval time.Duration // polling fallback, 0 = off

	// HTTP surface
	StaticDir    string   // built SPA, served when the directory exists
	CORSOrigins  []string // allowed browser origins
	AllowedHosts []string // optional, restrict Host headers
	AllowedCIDRS []string // optional, restrict /metrics and /readyz
	TrustProxy   bool     // true => trust X-Forwarded-For / X-Real-IP

	// Favicon
	FaviconTimeout        time.Duration // per outbound request
	FaviconCacheTTL       time.Duration
	FaviconCacheSize      int
	FaviconSweepInterval  time.Duration
	FaviconGoogleFallback bool
	FaviconRateBurst      int // token bucket size per client IP
	FaviconRatePerMin     int // refill rate per client IP

	// Redis (optional favicon cache tier, disabled when RedisAddr is empty)
	RedisAddr             string
	RedisUser             string
	RedisPassword         string
	RedisPasswordRequired bool
	RedisDB               int
	RedisDT               time.Duration // dial timeout
	RedisRT               time.Duration // read timeout
	RedisWT               time.Duration // write timeout
	RedisPoolSize         int
	RedisConnectTimeout   time.Duration // total time to retry connecting
	RedisRetryInterval    time.Duration // first wait between retries, doubles
	RedisMaxWait          time.Duration // cap between retries
	RedisPingTimeout      time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("❌ FATAL: invalid .env file: %v", err))
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("LISTEN_ADDR", ":8000"),
		ShutdownTimeout: mustDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("LOG_LEVEL", "info"),
		PrettyLog: mustBool("PRETTY_LOG", true),

		// Storage
		StoragePath:           getenv("STORAGE_PATH", "storage.yaml"),
		WatchStorage:          mustBool("WATCH_STORAGE", true),
		StorageReloadInterval: mustDuration("STORAGE_RELOAD_INTERVAL", 0),

		// HTTP surface
		StaticDir:    getenv("STATIC_DIR", "dist"),
		CORSOrigins:  splitAndTrim(getenv("CORS_ORIGINS", "http://localhost:5173")),
		AllowedHosts: splitAndTrim(getenv("ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TRUST_PROXY", false),

		// Favicon
		FaviconTimeout:        mustDuration("FAVICON_TIMEOUT", 5*time.Second),
		FaviconCacheTTL:       mustDuration("FAVICON_CACHE_TTL", 24*time.Hour),
		FaviconCacheSize:      getenvInt("FAVICON_CACHE_SIZE", 1000),
		FaviconSweepInterval:  mustDuration("FAVICON_SWEEP_INTERVAL", 10*time.Minute),
		FaviconGoogleFallback: mustBool("FAVICON_GOOGLE_FALLBACK", true),
		FaviconRateBurst:      getenvInt("FAVICON_RATE_BURST", 30),
		FaviconRatePerMin:     getenvInt("FAVICON_RATE_PER_MIN", 60),

		// Redis settings
		RedisAddr:             getenv("REDIS_ADDR", ""),
		RedisUser:             getenv("REDIS_USERNAME", ""),
		RedisPasswordRequired: mustBool("REDIS_PASSWORD_REQUIRED", false),
		RedisDB:               getenvInt("REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 2*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 15*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 500*time.Millisecond),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 4*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 2*time.Second),
	}

	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired {
		cfg.RedisPassword = requireEnv("REDIS_PASSWORD")
	} else {
		cfg.RedisPassword = getenv("REDIS_PASSWORD", "")
	}

	return cfg
}

// RedisEnabled reports whether the redis favicon tier is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	out := *c
	if out.RedisPassword != "" {
		out.RedisPassword = "***REDACTED***"
	}
	if out.RedisUser != "" {
		out.RedisUser = "***REDACTED***"
	}
	return out
}

// helpers; keys are given without the GN_ prefix
func getenv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s%s is not set", envPrefix, key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(envPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
