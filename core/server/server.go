package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotpoll/core/cache"
	"slotpoll/core/config"
	"slotpoll/core/constants"
	"slotpoll/core/database"
	"slotpoll/core/logger"
	"slotpoll/core/middleware"
	"slotpoll/modules/overlay"
	"slotpoll/modules/poll"
	pollrepo "slotpoll/modules/poll/repository"
	"slotpoll/modules/poll/tasks"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run boots the HTTP server and blocks until shutdown
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	mw := middleware.NewMiddleware(cfg.Identity.JWTSecret)
	e.Use(echomw.Recover())
	e.Use(mw.RequestLogger())

	repo, closeDB, err := buildEventRepository(cfg)
	if err != nil {
		return err
	}
	if closeDB != nil {
		defer closeDB()
	}

	stateCache, err := buildStateCache(cfg)
	if err != nil {
		return err
	}
	defer stateCache.Close()

	pollSvc := poll.Init(e, repo, mw, cfg.Location(), cfg.App.BestSlotsLimit)
	overlay.Init(e, pollSvc, stateCache)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Retention.Days > 0 {
		if cfg.Redis.Addr == "" {
			logger.Warn("Server:Run:RetentionDisabled", "reason", "RETENTION_DAYS set but REDIS_ADDR is empty")
		} else {
			worker := tasks.NewRetentionWorker(asynq.RedisClientOpt{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			}, pollSvc, cfg.Retention.Days)

			if err := worker.Start(); err != nil {
				return fmt.Errorf("start retention worker: %w", err)
			}
			defer worker.Shutdown()
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Run:Listening", "addr", addr, "storage", cfg.Storage.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Server:Run:Shutdown", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

func buildEventRepository(cfg *config.Config) (pollrepo.EventRepositoryInterface, func() error, error) {
	switch cfg.Storage.Driver {
	case constants.StorageDriverPostgres:
		db, err := database.InitDB(database.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
		})
		if err != nil {
			return nil, nil, err
		}

		repo := pollrepo.NewPostgresEventRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, db.Close, nil

	default:
		return pollrepo.NewMemoryEventRepository(), nil, nil
	}
}

func buildStateCache(cfg *config.Config) (cache.Cache, error) {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryCache(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()
	return cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
}
