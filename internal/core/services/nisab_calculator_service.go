package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/zakat_nisab_service/internal/core/ports/services"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/google/uuid"
)

// NisabCalculatorService computes Nisab thresholds from normalized prices
// and is the last line of defense against a user seeing a threshold that is
// off by an order of magnitude. When a computed pair fails plausibility
// validation it walks a bounded escalation ladder instead of recursing:
//
//	TierPrimary → TierPriceFallback → TierThresholdFallback → TierHardcodedFallback
//
// A technically valid price pair can still yield an implausible threshold
// through compounding per-hop conversion errors, which is why both a
// price-level and a threshold-level fallback exist.
type NisabCalculatorService struct {
	normalizer services.PriceNormalizerSvc
	validator  services.PlausibilityValidatorSvc
	logger     *slog.Logger
	now        func() time.Time
}

// NewNisabCalculatorService creates a new NisabCalculatorService.
func NewNisabCalculatorService(normalizer services.PriceNormalizerSvc, validator services.PlausibilityValidatorSvc, logger *slog.Logger) *NisabCalculatorService {
	return &NisabCalculatorService{
		normalizer: normalizer,
		validator:  validator,
		logger:     logger,
		now:        time.Now,
	}
}

// ComputeFromPair is the pure arithmetic step: 85 g of gold, 595 g of
// silver, Nisab is whichever is lower.
func (s *NisabCalculatorService) ComputeFromPair(pair models.NormalizedPricePair, currency models.CurrencyCode) *models.NisabThresholdResult {
	goldThreshold := pair.GoldPriceInTarget * models.GoldNisabGrams
	silverThreshold := pair.SilverPriceInTarget * models.SilverNisabGrams

	nisabValue := goldThreshold
	metal := models.MetalGold
	if silverThreshold < goldThreshold {
		nisabValue = silverThreshold
		metal = models.MetalSilver
	}

	source := string(models.TierPrimary)
	if pair.UsedFallback {
		source = string(models.TierPriceFallback)
	}

	return &models.NisabThresholdResult{
		ResultID:        uuid.NewString(),
		GoldThreshold:   goldThreshold,
		SilverThreshold: silverThreshold,
		NisabValue:      nisabValue,
		MetalUsed:       metal,
		Currency:        currency,
		ComputedAt:      s.now(),
		Source:          source,
	}
}

// Compute runs the full escalation ladder starting from a raw quote.
func (s *NisabCalculatorService) Compute(ctx context.Context, quote models.MetalPriceQuote, target models.CurrencyCode) (*models.NisabThresholdResult, error) {
	var lastResult *models.NisabThresholdResult
	var lastErr error

	// Tier: primary.
	pair, err := s.normalizer.Normalize(ctx, quote, target)
	if err == nil {
		result := s.ComputeFromPair(pair, target)
		verdict := s.validator.ValidateThresholds(result.GoldThreshold, result.SilverThreshold, target)
		if verdict.IsValid {
			return result, nil
		}
		lastResult = result
		s.logger.Warn("computed thresholds failed validation",
			slog.String("currency", target.String()),
			slog.String("tier", string(models.TierPrimary)),
			slog.String("reason", verdict.Reason),
		)

		// Tier: price fallback. Re-normalize with the quote marked as
		// cached, which forces the normalizer's cross-check and
		// substitution paths. Skipped when the pair already fell back.
		if !pair.UsedFallback {
			retryQuote := quote
			retryQuote.IsCache = true
			if retryPair, retryErr := s.normalizer.Normalize(ctx, retryQuote, target); retryErr == nil {
				result = s.ComputeFromPair(retryPair, target)
				result.Source = string(models.TierPriceFallback)
				verdict = s.validator.ValidateThresholds(result.GoldThreshold, result.SilverThreshold, target)
				if verdict.IsValid {
					return result, nil
				}
				lastResult = result
				s.logger.Warn("price-fallback thresholds failed validation",
					slog.String("currency", target.String()),
					slog.String("reason", verdict.Reason),
				)
			}
		}
	} else {
		lastErr = err
		s.logger.Warn("normalization failed",
			slog.String("currency", target.String()),
			slog.String("error", err.Error()),
		)
	}

	// Tier: threshold fallback. The hardcoded Nisab-level table is the
	// fastest safe exit for tabulated currencies.
	if fb, ok := nisabFallbacks[target]; ok {
		s.logger.Warn("using hardcoded Nisab-level fallback",
			slog.String("currency", target.String()),
		)
		return s.resultFromThresholds(fb.goldThreshold, fb.silverThreshold, target, models.TierThresholdFallback), nil
	}

	// Tier: hardcoded gram prices.
	if fp, ok := fallbackGramPrices[target]; ok {
		s.logger.Warn("using hardcoded gram-price fallback",
			slog.String("currency", target.String()),
		)
		return s.resultFromThresholds(
			fp.gold*models.GoldNisabGrams,
			fp.silver*models.SilverNisabGrams,
			target, models.TierHardcodedFallback), nil
	}

	// Untabulated currency whose computed result failed only the universal
	// positive-finite guard, or whose normalization errored with no
	// fallback available.
	if lastResult != nil {
		s.logger.Error("returning unvalidated thresholds, no fallback table entry",
			slog.String("currency", target.String()),
		)
		return lastResult, nil
	}
	return nil, lastErr
}

func (s *NisabCalculatorService) resultFromThresholds(goldThreshold, silverThreshold float64, currency models.CurrencyCode, tier models.ComputationTier) *models.NisabThresholdResult {
	nisabValue := goldThreshold
	metal := models.MetalGold
	if silverThreshold < goldThreshold {
		nisabValue = silverThreshold
		metal = models.MetalSilver
	}
	return &models.NisabThresholdResult{
		ResultID:        uuid.NewString(),
		GoldThreshold:   goldThreshold,
		SilverThreshold: silverThreshold,
		NisabValue:      nisabValue,
		MetalUsed:       metal,
		Currency:        currency,
		ComputedAt:      s.now(),
		Source:          string(tier),
	}
}
