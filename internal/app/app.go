// Package app wires the navdesk server together.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/navdesk/internal/config"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdesk/internal/index"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/redis"
	"github.com/MrSnakeDoc/navdesk/internal/scheduler"
	"github.com/MrSnakeDoc/navdesk/internal/security"
	"github.com/MrSnakeDoc/navdesk/internal/storage"
	redisstore "github.com/MrSnakeDoc/navdesk/internal/store/redis"
	"github.com/MrSnakeDoc/navdesk/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client // nil when Redis is disabled
	reloader    *scheduler.ConfigReloader
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	password, err := security.NewPassword(cfg.PasswordHash, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("password: %w", err)
	}

	memIndex := index.NewMemoryIndex()
	files := storage.NewFileStore(cfg.ConfigFile, cfg.FallbackConfigFile, loggerClient.Named("storage"))

	// Redis is optional; when configured it must be reachable at startup.
	var (
		redisClient *goredis.Client
		mirror      *redisstore.Store
		syncer      *scheduler.RedisSyncer
	)
	if cfg.RedisEnabled() {
		redisClient, err = redis.Connect(context.Background(), redis.OptionsFromConfig(cfg), loggerClient.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		mirror = redisstore.NewStore(redisClient)
		syncer = scheduler.NewRedisSyncer(mirror, memIndex, loggerClient.Named("sync"))
	} else {
		loggerClient.Info("redis not configured, mirror and search cache disabled")
	}

	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewConfigReloader(
		files,
		syncer,
		memIndex,
		loggerClient.Named("reloader"),
		cfg.ReloadInterval,
		cfg.WatchConfig,
		reloadTrigger,
	)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Build:         version.Get(),
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Index:         memIndex,
		Writer:        reloader,
		Tokens:        security.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Password:      password,
		LoginBurst:    cfg.LoginBurst,
		LoginRefill:   cfg.LoginRefill,
		HomepageURL:   "/",
		ReloadTrigger: reloadTrigger,
	}
	if mirror != nil {
		d.Mirror = mirror
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient.Named("http"), d),
		redisClient: redisClient,
		reloader:    reloader,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting navdesk %s on %s", version.Get(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start config reloader: %w", err)
	}
	a.logger.Info("config reloader started",
		logger.String("file", a.cfg.ConfigFile),
		logger.Duration("interval", a.cfg.ReloadInterval),
		logger.Bool("watch", a.cfg.WatchConfig))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")
		a.reloader.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if a.redisClient != nil {
		if cerr := a.redisClient.Close(); cerr != nil {
			a.logger.Warnf("failed to close redis: %v", cerr)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
	_ = a.logger.Sync()

	if err != nil {
		return err
	}
	a.logger.Info("✅ navdesk stopped cleanly")
	return nil
}
