package ports

import (
	"context"

	"github.com/SscSPs/zakat_nisab_service/internal/models"
)

// MetalPriceSource fetches raw gold/silver quotes from an external feed.
// Implementations may answer with data already flagged IsCache when the
// upstream served a stale snapshot.
type MetalPriceSource interface {
	FetchMetalPrices(ctx context.Context, currency models.CurrencyCode) (*models.MetalPriceQuote, error)
}

// ExchangeRateSource fetches a full rate table for a base currency from an
// external feed. Implementations own their provider ordering; the static
// last-resort table lives in the conversion service, not here.
type ExchangeRateSource interface {
	FetchRates(ctx context.Context, base models.CurrencyCode) (*models.RateTable, error)
}
