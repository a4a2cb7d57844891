package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/zakat_nisab_service/internal/apperrors"
	portssvc "github.com/SscSPs/zakat_nisab_service/internal/core/ports/services"
	"github.com/SscSPs/zakat_nisab_service/internal/dto"
	"github.com/SscSPs/zakat_nisab_service/internal/middleware"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencySvc portssvc.CurrencyReaderSvc
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(currencySvc portssvc.CurrencyReaderSvc) *currencyHandler {
	return &currencyHandler{currencySvc: currencySvc}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencySvc portssvc.CurrencyReaderSvc) {
	h := newCurrencyHandler(currencySvc)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:currencyCode", h.getCurrencyByCode)
	}
}

// listCurrencies godoc
// @Summary List all supported currencies
// @Description Retrieves a list of all currencies the service can resolve thresholds for
// @Tags currencies
// @Produce json
// @Success 200 {array} dto.CurrencyResponse
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.currencySvc.ListCurrencies(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list currencies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currencies"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getCurrencyByCode godoc
// @Summary Get currency details by code
// @Description Retrieves details for a specific currency
// @Tags currencies
// @Produce json
// @Param currencyCode path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 404 {object} map[string]string "Currency not found"
// @Router /currencies/{currencyCode} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	code, err := models.ParseCurrencyCode(c.Param("currencyCode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currency, err := h.currencySvc.GetCurrencyByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
			return
		}
		logger.Error("Failed to get currency", slog.String("code", code.String()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}
