package dto

import (
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/shopspring/decimal"
)

// ZakatCheckRequest defines the data needed to compare a wealth total
// against the Nisab threshold.
type ZakatCheckRequest struct {
	TotalValue decimal.Decimal `json:"totalValue" binding:"required"`
	Currency   string          `json:"currency" binding:"required,currencycode"`
}

// ThresholdsDTO carries both metal thresholds side by side.
type ThresholdsDTO struct {
	Gold   float64 `json:"gold"`
	Silver float64 `json:"silver"`
}

// ZakatCheckResponse defines the eligibility answer.
type ZakatCheckResponse struct {
	MeetsNisab bool            `json:"meetsNisab"`
	TotalValue decimal.Decimal `json:"totalValue"`
	NisabValue float64         `json:"nisabValue"`
	Thresholds ThresholdsDTO   `json:"thresholds"`
	Currency   string          `json:"currency"`
}

// ToZakatCheckResponse converts a models.ZakatEligibility to its DTO.
func ToZakatCheckResponse(e *models.ZakatEligibility) ZakatCheckResponse {
	return ZakatCheckResponse{
		MeetsNisab: e.MeetsNisab,
		TotalValue: e.TotalValue,
		NisabValue: e.NisabValue,
		Thresholds: ThresholdsDTO{Gold: e.GoldThreshold, Silver: e.SilverThreshold},
		Currency:   e.Currency.String(),
	}
}
