package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filmbot/internal/bot"
	"filmbot/internal/infra/external/kinopoisk"
	"filmbot/internal/infra/handler"
	infraPostgres "filmbot/internal/infra/postgres"
	infraRedis "filmbot/internal/infra/redis"
	"filmbot/internal/infra/telegram"
	"filmbot/internal/platform/cache"
	"filmbot/internal/platform/config"
	"filmbot/internal/platform/database"
	"filmbot/internal/platform/logger"
	"filmbot/internal/platform/metrics"
	"filmbot/internal/platform/server"
	"filmbot/internal/usecase/listing"
	"filmbot/internal/usecase/search"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  logger.Level(cfg.App.LogLevel),
		Format: logger.Format(cfg.App.LogFormat),
	})
	logger.SetDefault(log)

	db, err := database.New(ctx, database.Config{
		ConnectionString: cfg.Database.ConnectionString(),
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		ConnectTimeout:   cfg.Database.ConnectTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := infraPostgres.EnsureSchema(ctx, db.Pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	var (
		limiter     bot.RateLimiter
		redisClient *cache.Client
	)
	if cfg.App.RateLimitEnabled {
		redisClient, err = cache.New(cache.Config{
			Address:      cfg.Redis.Address(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, log)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("failed to close redis", "error", err)
			}
		}()
		limiter = infraRedis.NewSearchRateLimiter(
			redisClient, cfg.App.RateLimitWindow, cfg.App.RateLimitMaxRequests)
	}

	botMetrics := metrics.NewBotMetrics()

	provider := kinopoisk.NewClient(kinopoisk.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.Provider.Timeout},
		BaseURL:    cfg.Provider.BaseURL,
		APIKey:     cfg.Provider.APIKey,
		Observer:   botMetrics,
	})

	searchSvc := search.NewService(provider, infraPostgres.NewSearchLogRepository(db.Pool), log)
	listingSvc := listing.NewService(
		infraPostgres.NewHistoryRepository(db.Pool),
		infraPostgres.NewStatRepository(db.Pool),
	)

	transport, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: cfg.Telegram.PollTimeout,
		Debug:       cfg.Telegram.Debug,
	}, log)
	if err != nil {
		return fmt.Errorf("connect telegram: %w", err)
	}

	router := bot.NewRouter(transport, searchSvc, listingSvc, limiter, botMetrics, log)

	var ops *server.Server
	if cfg.Ops.Enabled {
		healthHandler := &handler.HealthHandler{DB: db}
		if redisClient != nil {
			healthHandler.Cache = redisClient
		}
		ops = server.New(server.Config{
			Address:      cfg.Ops.Address(),
			ReadTimeout:  cfg.Ops.ReadTimeout,
			WriteTimeout: cfg.Ops.WriteTimeout,
			IdleTimeout:  cfg.Ops.IdleTimeout,
		}, handler.NewRouter(healthHandler, botMetrics.Handler()), log)

		go func() {
			if err := ops.Start(); err != nil {
				log.Error("ops server failed", "error", err)
				stop()
			}
		}()
	}

	err = transport.Run(ctx, router)

	if ops != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownErr := ops.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error("failed to shut down ops server", "error", shutdownErr)
		}
	}

	return err
}
