package dto

import (
	"time"

	"github.com/SscSPs/zakat_nisab_service/internal/models"
)

// NisabResultResponse defines the data returned for one computed threshold.
type NisabResultResponse struct {
	GoldThreshold   float64   `json:"goldThreshold"`
	SilverThreshold float64   `json:"silverThreshold"`
	NisabValue      float64   `json:"nisabValue"`
	MetalUsed       string    `json:"metalUsed"`
	Currency        string    `json:"currency"`
	ComputedAt      time.Time `json:"computedAt"`
	Source          string    `json:"source"`
}

// NisabStatusResponse wraps the best-available threshold with freshness and
// the side-channel error from the last failed refresh, if any.
type NisabStatusResponse struct {
	State        string               `json:"state"`
	Stale        bool                 `json:"stale"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
	Result       *NisabResultResponse `json:"result,omitempty"`
}

// ToNisabResultResponse converts a models.NisabThresholdResult to its DTO.
func ToNisabResultResponse(result *models.NisabThresholdResult) *NisabResultResponse {
	if result == nil {
		return nil
	}
	return &NisabResultResponse{
		GoldThreshold:   result.GoldThreshold,
		SilverThreshold: result.SilverThreshold,
		NisabValue:      result.NisabValue,
		MetalUsed:       string(result.MetalUsed),
		Currency:        result.Currency.String(),
		ComputedAt:      result.ComputedAt,
		Source:          result.Source,
	}
}

// ToNisabStatusResponse converts a models.NisabStatus to its DTO.
func ToNisabStatusResponse(status models.NisabStatus) NisabStatusResponse {
	return NisabStatusResponse{
		State:        string(status.State),
		Stale:        status.Stale,
		ErrorMessage: status.ErrorMessage,
		Result:       ToNisabResultResponse(status.Result),
	}
}
