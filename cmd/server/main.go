package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/arcadecalculator/internal/config"
	"anoa.com/arcadecalculator/internal/server"
	"anoa.com/arcadecalculator/pkg/cache"
	"anoa.com/arcadecalculator/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		// Rate limiting is optional; keep serving without it.
		appLogger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv, err := server.NewServer(cfg, redisClient, appLogger)
	if err != nil {
		appLogger.Fatal("failed to build server", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		appLogger.Fatal("server exited with error", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
