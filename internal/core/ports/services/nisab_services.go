package services

import (
	"context"

	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/shopspring/decimal"
)

// PlausibilityValidatorSvc classifies prices and computed thresholds as
// valid or suspicious against static expected ranges per currency.
type PlausibilityValidatorSvc interface {
	// ValidateThresholds checks a gold/silver threshold pair against the
	// tabulated expected range for the currency. Untabulated currencies are
	// always accepted.
	ValidateThresholds(goldThreshold, silverThreshold float64, currency models.CurrencyCode) models.ValidationVerdict

	// IsValidPrice reports whether v is a finite, strictly positive number.
	// Used as a universal guard before any price arithmetic.
	IsValidPrice(v float64) bool
}

// CurrencyConversionSvc converts amounts between currencies, cascading
// through cached rates, the live feed, a static approximate table, and
// identity before returning the amount unconverted as a last resort.
type CurrencyConversionSvc interface {
	// Convert returns the converted amount and the cascade tier that
	// produced it. It only errors on invalid input, never on feed failure.
	Convert(ctx context.Context, amount float64, from, to models.CurrencyCode) (float64, models.ConversionTier, error)

	// ClearCache drops all cached rates. Intended for tests.
	ClearCache()
}

// PriceNormalizerSvc resolves a raw metal price quote into strictly
// positive per-gram prices in the target currency.
type PriceNormalizerSvc interface {
	Normalize(ctx context.Context, quote models.MetalPriceQuote, target models.CurrencyCode) (models.NormalizedPricePair, error)
}

// NisabCalculatorSvc turns normalized prices into a Nisab threshold result,
// walking the fallback escalation ladder when validation rejects a tier.
type NisabCalculatorSvc interface {
	// Compute runs the full ladder starting from a raw quote.
	Compute(ctx context.Context, quote models.MetalPriceQuote, target models.CurrencyCode) (*models.NisabThresholdResult, error)

	// ComputeFromPair is the pure arithmetic step: thresholds from an
	// already-normalized pair, with no validation or fallback.
	ComputeFromPair(pair models.NormalizedPricePair, currency models.CurrencyCode) *models.NisabThresholdResult
}

// NisabOrchestratorSvc owns the per-currency threshold cache and refresh
// lifecycle. GetStatus always answers synchronously; refreshes run in the
// background, deduplicated per currency.
type NisabOrchestratorSvc interface {
	// GetStatus returns the best currently-available threshold for the
	// currency and schedules a background refresh when the data is missing
	// or stale (subject to the debounce interval).
	GetStatus(ctx context.Context, currency models.CurrencyCode) models.NisabStatus

	// Refresh forces a synchronous refresh. Concurrent calls for the same
	// currency share one underlying fetch.
	Refresh(ctx context.Context, currency models.CurrencyCode, force bool) (*models.NisabThresholdResult, error)

	// CheckZakat compares a total zakatable wealth figure against the
	// current Nisab threshold for the currency.
	CheckZakat(ctx context.Context, total decimal.Decimal, currency models.CurrencyCode) (*models.ZakatEligibility, error)

	// Subscribe registers an observer for threshold updates. The returned
	// cancel func must be called to release the subscription.
	Subscribe() (<-chan models.ThresholdUpdate, func())

	// ClearCache drops all cached thresholds. Intended for tests.
	ClearCache()
}

// CurrencyReaderSvc defines read operations for currency metadata.
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode models.CurrencyCode) (*models.Currency, error)

	// ListCurrencies retrieves all tabulated currencies.
	ListCurrencies(ctx context.Context) ([]models.Currency, error)
}
