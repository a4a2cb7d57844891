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

// zakatHandler handles HTTP requests for Zakat eligibility checks.
type zakatHandler struct {
	orchestrator portssvc.NisabOrchestratorSvc
}

// newZakatHandler creates a new zakatHandler.
func newZakatHandler(orchestrator portssvc.NisabOrchestratorSvc) *zakatHandler {
	return &zakatHandler{orchestrator: orchestrator}
}

// registerZakatRoutes registers routes related to Zakat eligibility.
func registerZakatRoutes(rg *gin.RouterGroup, orchestrator portssvc.NisabOrchestratorSvc) {
	h := newZakatHandler(orchestrator)

	zakat := rg.Group("/zakat")
	{
		zakat.POST("/check", h.checkZakat)
	}
}

// checkZakat godoc
// @Summary Check whether a wealth total meets Nisab
// @Description Compares the given total zakatable wealth against the current Nisab threshold for the currency.
// @Tags zakat
// @Accept json
// @Produce json
// @Param check body dto.ZakatCheckRequest true "Wealth total and currency"
// @Success 200 {object} dto.ZakatCheckResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 502 {object} map[string]string "No threshold available"
// @Router /zakat/check [post]
func (h *zakatHandler) checkZakat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ZakatCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for checkZakat", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	currency, err := models.ParseCurrencyCode(req.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TotalValue.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "totalValue cannot be negative"})
		return
	}

	eligibility, err := h.orchestrator.CheckZakat(c.Request.Context(), req.TotalValue, currency)
	if err != nil {
		logger.Error("Failed to check zakat eligibility", slog.String("currency", currency.String()), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "No Nisab threshold available: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ToZakatCheckResponse(eligibility))
}
