package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/zakat_nisab_service/internal/adapters/metalsfeed"
	"github.com/SscSPs/zakat_nisab_service/internal/adapters/ratesfeed"
	"github.com/SscSPs/zakat_nisab_service/internal/core/services"
	"github.com/SscSPs/zakat_nisab_service/internal/handlers"
	"github.com/SscSPs/zakat_nisab_service/internal/handlers/ws"
	"github.com/SscSPs/zakat_nisab_service/internal/middleware"
	"github.com/SscSPs/zakat_nisab_service/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Zakat Nisab Service API
// @version 1.0
// @description Nisab threshold resolution and Zakat eligibility checks across currencies.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// External feed adapters
	metalsClient := metalsfeed.NewClient(cfg.MetalsFeedURL, cfg.MetalsFeedAPIKey, cfg.FeedTimeout, logger)
	ratesClient := ratesfeed.NewClient(cfg.RatesFeedURLs, cfg.FeedTimeout, logger)

	serviceContainer := services.NewServiceContainer(cfg, metalsClient, ratesClient, logger)

	// Rate limiter backed by an in-memory store
	rateLimitRate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	rateLimiter := limiter.New(memory.NewStore(), rateLimitRate)

	// WebSocket hub streaming threshold updates
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(serviceContainer.Orchestrator, logger)
	go func() {
		if err := hub.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("WebSocket hub stopped", slog.String("error", err.Error()))
		}
	}()

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "x-api-key")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter, hub)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
