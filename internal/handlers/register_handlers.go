package handlers

import (
	portssvc "github.com/SscSPs/zakat_nisab_service/internal/core/ports/services"
	"github.com/SscSPs/zakat_nisab_service/internal/handlers/ws"
	"github.com/SscSPs/zakat_nisab_service/internal/middleware"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/SscSPs/zakat_nisab_service/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
)

// registerCustomValidators wires the currencycode binding tag used by request
// DTOs into gin's validator engine. Idempotent.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			_, err := models.ParseCurrencyCode(fl.Field().String())
			return err == nil
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
	hub *ws.Hub,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	r.GET("/", getHome)

	// Threshold update stream (public, not rate limited)
	r.GET("/ws", hub.ServeWS)

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, cfg, services, rateLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	// Apply rate limiting to the entire v1 group
	v1 := r.Group("/api/v1", middleware.RateLimit(rateLimiter))

	// Delegate route registration to specific handlers, passing required services
	registerCurrencyRoutes(v1, service.Currency)
	registerNisabRoutes(v1, service.Orchestrator, cfg.RefreshAPIKey)
	registerZakatRoutes(v1, service.Orchestrator)
}
