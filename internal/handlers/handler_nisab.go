package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/zakat_nisab_service/internal/core/ports/services"
	"github.com/SscSPs/zakat_nisab_service/internal/dto"
	"github.com/SscSPs/zakat_nisab_service/internal/middleware"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/gin-gonic/gin"
)

// nisabHandler handles HTTP requests related to Nisab thresholds.
type nisabHandler struct {
	orchestrator portssvc.NisabOrchestratorSvc
}

// newNisabHandler creates a new nisabHandler.
func newNisabHandler(orchestrator portssvc.NisabOrchestratorSvc) *nisabHandler {
	return &nisabHandler{orchestrator: orchestrator}
}

// registerNisabRoutes registers routes related to Nisab thresholds.
func registerNisabRoutes(rg *gin.RouterGroup, orchestrator portssvc.NisabOrchestratorSvc, refreshAPIKey string) {
	h := newNisabHandler(orchestrator)

	nisab := rg.Group("/nisab")
	{
		nisab.GET("/:currency", h.getNisabStatus)
		nisab.POST("/:currency/refresh", middleware.APIKeyAuth(refreshAPIKey), h.refreshNisab)
	}
}

// getNisabStatus godoc
// @Summary Get the Nisab threshold for a currency
// @Description Returns the best currently-available Nisab threshold. Always answers; stale data carries an error message instead of failing.
// @Tags nisab
// @Produce json
// @Param currency path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.NisabStatusResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Router /nisab/{currency} [get]
func (h *nisabHandler) getNisabStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currency, err := models.ParseCurrencyCode(c.Param("currency"))
	if err != nil {
		logger.Warn("Invalid currency code for nisab status", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := h.orchestrator.GetStatus(c.Request.Context(), currency)
	c.JSON(http.StatusOK, dto.ToNisabStatusResponse(status))
}

// refreshNisab godoc
// @Summary Force a Nisab refresh
// @Description Fetches fresh metal prices and recomputes the threshold for the currency. Concurrent refreshes for one currency share a single fetch.
// @Tags nisab
// @Produce json
// @Param currency path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.NisabResultResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 502 {object} map[string]string "Refresh failed"
// @Router /nisab/{currency}/refresh [post]
func (h *nisabHandler) refreshNisab(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currency, err := models.ParseCurrencyCode(c.Param("currency"))
	if err != nil {
		logger.Warn("Invalid currency code for nisab refresh", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Received request to refresh nisab threshold", slog.String("currency", currency.String()))

	result, err := h.orchestrator.Refresh(c.Request.Context(), currency, true)
	if err != nil {
		logger.Error("Failed to refresh nisab threshold", slog.String("currency", currency.String()), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to refresh nisab threshold: " + err.Error()})
		return
	}

	logger.Info("Nisab threshold refreshed", slog.String("currency", currency.String()), slog.Float64("nisab_value", result.NisabValue))
	c.JSON(http.StatusOK, dto.ToNisabResultResponse(result))
}
