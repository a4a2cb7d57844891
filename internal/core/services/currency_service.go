package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/zakat_nisab_service/internal/apperrors"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
)

// CurrencyService serves the static currency metadata table. Read-only;
// the tabulated set is compiled in, there is no persistence behind it.
type CurrencyService struct{}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService() *CurrencyService {
	return &CurrencyService{}
}

// GetCurrencyByCode retrieves a specific currency by its code.
func (s *CurrencyService) GetCurrencyByCode(_ context.Context, currencyCode models.CurrencyCode) (*models.Currency, error) {
	for _, c := range models.KnownCurrencies() {
		if c.Code == currencyCode {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: currency %q is not tabulated", apperrors.ErrNotFound, currencyCode)
}

// ListCurrencies retrieves all tabulated currencies.
func (s *CurrencyService) ListCurrencies(_ context.Context) ([]models.Currency, error) {
	return models.KnownCurrencies(), nil
}
