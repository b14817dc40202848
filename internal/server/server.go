package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/arcadecalculator/internal/config"
	"anoa.com/arcadecalculator/internal/middleware"
	arcadeHttp "anoa.com/arcadecalculator/internal/modules/arcade/delivery/http"
	"anoa.com/arcadecalculator/internal/modules/arcade/provider"
	arcadeService "anoa.com/arcadecalculator/internal/modules/arcade/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthPath = "/api/health"

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (*Server, error) {
	rules, err := arcadeService.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}

	calculator, err := arcadeService.NewCalculator(rules)
	if err != nil {
		return nil, err
	}

	scraper := provider.NewProfileScraper(provider.ScraperConfig{
		UserAgent:  cfg.ScraperUserAgent,
		Timeout:    cfg.ScraperTimeout,
		MaxRetries: cfg.ScraperMaxRetries,
	})

	arcadeSvc := arcadeService.NewArcadeService(calculator, scraper, arcadeService.NewRedisRateLimiter(redisClient, cfg.RateLimitWindow), logger)
	arcadeHandler := arcadeHttp.NewArcadeHandler(arcadeSvc, logger)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := NewRouter(arcadeHandler, cfg.AllowedOrigins, logger)

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// NewRouter wires middleware and routes around an arcade handler.
func NewRouter(arcadeHandler *arcadeHttp.ArcadeHandler, allowedOrigins string, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	setupCORS(router, allowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger, healthPath))

	router.GET(healthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/calculate-points", arcadeHandler.CalculatePoints)
		api.POST("/calculate-points", arcadeHandler.CalculatePointsFromBadges)
		api.GET("/badge-type", arcadeHandler.GetBadgeType)
		api.GET("/rules", arcadeHandler.GetRules)
	}

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if allowedOrigins == "" || allowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
			}
		}
		corsConfig.AllowCredentials = true
	}

	router.Use(cors.New(corsConfig))
}
