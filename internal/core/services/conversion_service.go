package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SscSPs/zakat_nisab_service/internal/apperrors"
	"github.com/SscSPs/zakat_nisab_service/internal/core/ports"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
)

// CurrencyConversionService converts amounts between currencies. It never
// fails on feed outages: the cascade always bottoms out at the static table
// or, as a loudly logged last resort, the unconverted amount. Downstream
// Nisab arithmetic must never stall merely because a currency API is down.
type CurrencyConversionService struct {
	source  ports.ExchangeRateSource
	cache   *RateCache
	rateTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewCurrencyConversionService creates a new CurrencyConversionService.
func NewCurrencyConversionService(source ports.ExchangeRateSource, cache *RateCache, rateTTL time.Duration, logger *slog.Logger) *CurrencyConversionService {
	return &CurrencyConversionService{
		source:  source,
		cache:   cache,
		rateTTL: rateTTL,
		logger:  logger,
		now:     time.Now,
	}
}

// Convert converts amount from one currency to another, reporting which
// cascade tier produced the answer. Errors only on invalid input.
func (s *CurrencyConversionService) Convert(ctx context.Context, amount float64, from, to models.CurrencyCode) (float64, models.ConversionTier, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, "", fmt.Errorf("%w: amount must be finite, got %v", apperrors.ErrValidation, amount)
	}
	if from == to {
		return amount, models.ConversionTierIdentity, nil
	}

	now := s.now()

	// Tier 1: fresh cached rate, direct or inverted from the reverse pair.
	if rate, ok := s.cache.Get(from, to, now); ok {
		return amount * rate.Rate, models.ConversionTierCached, nil
	}
	if rev, ok := s.cache.Get(to, from, now); ok && rev.Rate != 0 {
		return amount / rev.Rate, models.ConversionTierCached, nil
	}

	// Tier 2: live feed. One table fetch caches every pair against `from`.
	if rate, err := s.fetchLiveRate(ctx, from, to, now); err == nil {
		return amount * rate, models.ConversionTierLive, nil
	} else {
		s.logger.Warn("live rate fetch failed, degrading to static table",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
			slog.String("error", err.Error()),
		)
	}

	// Tier 3: static approximate table, crossed through USD.
	if rate, ok := staticCrossRate(from, to); ok {
		s.logger.Warn("using static fallback rate",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
			slog.Float64("rate", rate),
		)
		return amount * rate, models.ConversionTierStatic, nil
	}

	// Last resort: return the amount unconverted. This is explicit,
	// documented degradation; the tier return lets callers detect it.
	s.logger.Error("no conversion path available, returning amount unconverted",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.Float64("amount", amount),
	)
	return amount, models.ConversionTierUnconverted, nil
}

// ClearCache drops all cached rates.
func (s *CurrencyConversionService) ClearCache() {
	s.cache.Clear()
}

// fetchLiveRate pulls a full rate table for `from` and caches every usable
// pair in it, then answers the requested pair.
func (s *CurrencyConversionService) fetchLiveRate(ctx context.Context, from, to models.CurrencyCode, now time.Time) (float64, error) {
	table, err := s.source.FetchRates(ctx, from)
	if err != nil {
		return 0, err
	}

	for code, rate := range table.Rates {
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			s.logger.Warn("discarding invalid rate from feed",
				slog.String("pair", rateKey(from, code)),
				slog.Float64("rate", rate),
			)
			continue
		}
		s.cache.Set(models.ExchangeRate{
			FromCurrency: from,
			ToCurrency:   code,
			Rate:         rate,
			FetchedAt:    now,
			Source:       table.Source,
			ExpiresAt:    now.Add(s.rateTTL),
		})
	}

	rate, ok := table.Rates[to]
	if !ok || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("%w: no usable %s rate in %s table", apperrors.ErrRateUnavailable, to, from)
	}
	return rate, nil
}

// staticCrossRate derives from→to through the USD-based static table.
func staticCrossRate(from, to models.CurrencyCode) (float64, bool) {
	perUSDFrom, okFrom := staticUSDRates[from]
	perUSDTo, okTo := staticUSDRates[to]
	if !okFrom || !okTo || perUSDFrom == 0 {
		return 0, false
	}
	return perUSDTo / perUSDFrom, true
}
