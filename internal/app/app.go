package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/spinshelf/spinshelf/internal/catalog"
	"github.com/spinshelf/spinshelf/internal/config"
	"github.com/spinshelf/spinshelf/internal/domain"
	"github.com/spinshelf/spinshelf/internal/httpserver"
	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
	"github.com/spinshelf/spinshelf/internal/index"
	"github.com/spinshelf/spinshelf/internal/logger"
	"github.com/spinshelf/spinshelf/internal/redis"
	"github.com/spinshelf/spinshelf/internal/scheduler"
	redisstore "github.com/spinshelf/spinshelf/internal/store/redis"
	"github.com/spinshelf/spinshelf/internal/version"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	redisClient  *goredis.Client
	purger       *scheduler.Purger
	seedReloader *scheduler.SeedReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	memIndex := index.NewMemoryIndex()
	store := redisstore.NewStore(redisClient)

	// Rehydrate the memory index from Redis before serving anything.
	syncer := scheduler.NewRedisSyncer(store, memIndex, loggerClient)
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Errorf("Failed to sync catalog from Redis: %v", err)
		os.Exit(1)
	}

	validator := domain.NewValidator(domain.Limits{
		MaxTags:           cfg.MaxTags,
		MaxTagLength:      cfg.MaxTagLength,
		MaxTitleLength:    cfg.MaxTitleLength,
		MaxPlatformLength: cfg.MaxPlatformLength,
	})

	svc := catalog.New(store, memIndex, validator, domain.NewSpinner(), loggerClient)

	purger := scheduler.NewPurger(store, memIndex, loggerClient, cfg.PurgeInterval, cfg.PurgeRetention)

	// Seed importer (if a seed file is configured)
	var seedReloader *scheduler.SeedReloader
	var seedReloadTrigger chan struct{}
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing seed importer",
			logger.String("file", cfg.SeedFile))
		seedReloadTrigger = make(chan struct{}, 1)
		seedReloader = scheduler.NewSeedReloader(cfg.SeedFile, svc, loggerClient, seedReloadTrigger)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		Catalog:           svc,
		Purger:            purger,
		RedisClient:       redisClient,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		WriteRateLimit:    cfg.WriteRateLimit,
		SeedReloadTrigger: seedReloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       server,
		redisClient:  redisClient,
		purger:       purger,
		seedReloader: seedReloader,
	}
}

func (a *App) Run() error {
	a.logger.Infof("Starting Spinshelf v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Spinshelf %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.seedReloader != nil {
		if err := a.seedReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed importer: %w", err)
		}
		a.logger.Info("seed importer started")
	}

	if err := a.purger.Start(ctx); err != nil {
		return fmt.Errorf("failed to start purge scheduler: %w", err)
	}
	a.logger.Info("purge scheduler started",
		logger.Duration("interval", a.cfg.PurgeInterval),
		logger.Duration("retention", a.cfg.PurgeRetention))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.seedReloader != nil {
		a.seedReloader.Stop()
	}
	a.purger.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("Redis closed cleanly")
		}
	}

	a.logger.Info("Spinshelf stopped cleanly")
	return nil
}
