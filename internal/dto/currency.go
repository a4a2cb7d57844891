package dto

import "github.com/SscSPs/zakat_nisab_service/internal/models"

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
}

// ToCurrencyResponse converts a models.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *models.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: curr.Code.String(),
		Symbol:       curr.Symbol,
		Name:         curr.Name,
	}
}

// ToListCurrencyResponse converts a slice of models.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []models.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(&curr)
	}
	return res
}
