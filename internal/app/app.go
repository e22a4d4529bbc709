package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/goodneighbor/internal/config"
	"github.com/MrSnakeDoc/goodneighbor/internal/favicon"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/metrics"
	"github.com/MrSnakeDoc/goodneighbor/internal/redis"
	"github.com/MrSnakeDoc/goodneighbor/internal/repository"
	"github.com/MrSnakeDoc/goodneighbor/internal/scheduler"
	"github.com/MrSnakeDoc/goodneighbor/internal/service"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
	"github.com/MrSnakeDoc/goodneighbor/internal/validation"
	"github.com/MrSnakeDoc/goodneighbor/internal/version"
)

type App struct {
	cfg           *config.Config
	logger        logger.Logger
	engine        *storage.Engine
	watcher       *storage.Watcher // nil when GN_WATCH_STORAGE is off
	reloader      *scheduler.StorageReloader
	reloadTrigger chan struct{}
	sweeper       *scheduler.CacheSweeper
	redisClient   *goredis.Client // nil when the redis tier is off
	server        *httpserver.Server
}

// New wires every component. It refuses to start when the storage file
// cannot be loaded, so a corrupt file is never overwritten.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	loggerClient.Debugf("configuration: %+v", cfg.Redacted())

	m := metrics.New()

	// Storage
	engine := storage.New(cfg.StoragePath, loggerClient, storage.WithMetrics(m))
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("failed to load storage file %s: %w", cfg.StoragePath, err)
	}
	stats, err := engine.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to read storage stats: %w", err)
	}
	loggerClient.Info("storage loaded",
		logger.String("path", engine.Path()),
		logger.Int("users", stats.Users),
		logger.Int("homepages", stats.Homepages),
		logger.Int("widgets", stats.Widgets))

	var watcher *storage.Watcher
	if cfg.WatchStorage {
		watcher = storage.NewWatcher(engine, loggerClient, storage.DefaultDebounce)
	}
	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewStorageReloader(engine, loggerClient, cfg.StorageReloadInterval, reloadTrigger)

	services := service.New(repository.NewRepositories(engine))

	// Favicons: memory cache, plus redis behind it when configured.
	redisClient := connectRedis(ctx, cfg, loggerClient)
	memory := favicon.NewMemoryCache(cfg.FaviconCacheSize, cfg.FaviconCacheTTL)
	var cache favicon.Cache = memory
	if redisClient != nil {
		cache = favicon.NewTieredCache(memory, favicon.NewRedisCache(redisClient, cfg.FaviconCacheTTL), loggerClient)
	}

	discovererOpts := []favicon.DiscovererOption{
		favicon.WithTimeout(cfg.FaviconTimeout),
		favicon.WithMetrics(m),
	}
	if !cfg.FaviconGoogleFallback {
		discovererOpts = append(discovererOpts, favicon.WithGoogleEndpoint(""))
	}
	favicons := favicon.NewService(favicon.NewDiscoverer(loggerClient, discovererOpts...), cache, loggerClient, m)
	sweeper := scheduler.NewCacheSweeper(favicons, loggerClient, cfg.FaviconSweepInterval)

	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		CORSOrigins:       cfg.CORSOrigins,
		StaticDir:         cfg.StaticDir,
		RequestTimeout:    cfg.RequestTimeout,
		Storage:           engine,
		Services:          services,
		Favicons:          favicons,
		Validator:         validation.Default(),
		Metrics:           m,
		RedisClient:       redisClient,
		FaviconRateBurst:  cfg.FaviconRateBurst,
		FaviconRatePerMin: cfg.FaviconRatePerMin,
	}

	return &App{
		cfg:           cfg,
		logger:        loggerClient,
		engine:        engine,
		watcher:       watcher,
		reloader:      reloader,
		reloadTrigger: reloadTrigger,
		sweeper:       sweeper,
		redisClient:   redisClient,
		server:        httpserver.New(cfg.ListenAddr, d),
	}, nil
}

// connectRedis returns nil when redis is disabled or unreachable. The
// favicon cache then stays memory-only.
func connectRedis(ctx context.Context, cfg *config.Config, log logger.Logger) *goredis.Client {
	if !cfg.RedisEnabled() {
		log.Info("redis not configured, favicon cache is memory-only")
		return nil
	}

	log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	client, err := redis.Connect(ctx, redis.Options{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
	}, log)
	if err != nil {
		log.Warn("redis unavailable, favicon cache is memory-only", logger.Error(err))
		return nil
	}
	log.Info("Redis initialized successfully")
	return client
}

// Run serves until SIGINT or SIGTERM. SIGHUP reloads the storage file.
func (a *App) Run() error {
	a.logger.Infof("🚀 Starting goodneighbor %s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go a.forwardReloads(ctx, hup)

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			// Polling and SIGHUP still work without the watcher.
			a.logger.Warn("failed to start storage watcher", logger.Error(err))
			a.watcher = nil
		}
	}
	a.reloader.Start(ctx)
	a.sweeper.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.shutdown()
	if runErr == nil {
		a.logger.Info("✅ goodneighbor stopped cleanly")
	}
	return runErr
}

// forwardReloads turns SIGHUP into a manual storage reload. A reload
// already queued absorbs the signal.
func (a *App) forwardReloads(ctx context.Context, hup <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			select {
			case a.reloadTrigger <- struct{}{}:
				a.logger.Info("storage reload requested by SIGHUP")
			default:
			}
		}
	}
}

// shutdown stops background work, then flushes storage.
func (a *App) shutdown() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.reloader.Stop()
	a.sweeper.Stop()

	if err := a.engine.Close(); err != nil {
		a.logger.Error("failed to flush storage", logger.Error(err))
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
}
