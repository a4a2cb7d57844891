package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/zakat_nisab_service/internal/apperrors"
	"github.com/SscSPs/zakat_nisab_service/internal/core/ports/services"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
)

// PriceNormalizerService resolves a raw metal price quote into strictly
// positive per-gram prices in the target currency, choosing among four
// strategies in priority order:
//
//  1. target is USD and USD values exist: use them as-is, zero conversion error
//  2. a USD mirror exists: one conversion hop USD→target
//  3. quote currency equals target: passthrough, cross-checked against a
//     USD-reference band for currencies prone to unit errors
//  4. otherwise: two hops source→USD→target, because direct cross-rate
//     tables are unreliable for minor-currency pairs
//
// The post-condition is that both outputs pass IsValidPrice; fallback
// prices are substituted rather than ever emitting zero or negative values.
type PriceNormalizerService struct {
	conversion services.CurrencyConversionSvc
	validator  services.PlausibilityValidatorSvc
	logger     *slog.Logger
}

// NewPriceNormalizerService creates a new PriceNormalizerService.
func NewPriceNormalizerService(conversion services.CurrencyConversionSvc, validator services.PlausibilityValidatorSvc, logger *slog.Logger) *PriceNormalizerService {
	return &PriceNormalizerService{
		conversion: conversion,
		validator:  validator,
		logger:     logger,
	}
}

// Normalize implements the strategy selection described on the service type.
func (s *PriceNormalizerService) Normalize(ctx context.Context, quote models.MetalPriceQuote, target models.CurrencyCode) (models.NormalizedPricePair, error) {
	var pair models.NormalizedPricePair

	switch {
	case target == models.USD && quote.Currency == models.USD:
		pair = models.NormalizedPricePair{
			GoldPriceInTarget:   quote.Gold,
			SilverPriceInTarget: quote.Silver,
			IsDirectGold:        true,
			IsDirectSilver:      true,
		}

	case target == models.USD && quote.HasUSDMirror():
		pair = models.NormalizedPricePair{
			GoldPriceInTarget:   quote.GoldUSD,
			SilverPriceInTarget: quote.SilverUSD,
			IsDirectGold:        true,
			IsDirectSilver:      true,
		}

	case quote.HasUSDMirror():
		gold, goldTier, err := s.conversion.Convert(ctx, quote.GoldUSD, models.USD, target)
		if err != nil {
			return pair, err
		}
		silver, silverTier, err := s.conversion.Convert(ctx, quote.SilverUSD, models.USD, target)
		if err != nil {
			return pair, err
		}
		pair = models.NormalizedPricePair{
			GoldPriceInTarget:   gold,
			SilverPriceInTarget: silver,
			UsedFallback:        goldTier == models.ConversionTierUnconverted || silverTier == models.ConversionTierUnconverted,
		}

	case quote.Currency == target:
		pair = models.NormalizedPricePair{
			GoldPriceInTarget:   quote.Gold,
			SilverPriceInTarget: quote.Silver,
			IsDirectGold:        true,
			IsDirectSilver:      true,
		}
		// Quotes for error-prone currencies (and anything already flagged
		// as cached/stale) get cross-checked against a USD-reference band
		// before being trusted.
		if errorProneCurrencies[target] || quote.IsCache {
			var err error
			pair, err = s.crossCheck(ctx, pair, target)
			if err != nil {
				return pair, err
			}
		}

	default:
		// Two hops through USD.
		goldUSD, _, err := s.conversion.Convert(ctx, quote.Gold, quote.Currency, models.USD)
		if err != nil {
			return pair, err
		}
		silverUSD, _, err := s.conversion.Convert(ctx, quote.Silver, quote.Currency, models.USD)
		if err != nil {
			return pair, err
		}
		gold, goldTier, err := s.conversion.Convert(ctx, goldUSD, models.USD, target)
		if err != nil {
			return pair, err
		}
		silver, silverTier, err := s.conversion.Convert(ctx, silverUSD, models.USD, target)
		if err != nil {
			return pair, err
		}
		pair = models.NormalizedPricePair{
			GoldPriceInTarget:   gold,
			SilverPriceInTarget: silver,
			UsedFallback:        goldTier == models.ConversionTierUnconverted || silverTier == models.ConversionTierUnconverted,
		}
	}

	return s.enforcePositive(ctx, pair, target)
}

// crossCheck compares same-currency quote values against the expected band
// derived from the USD reference floors. A ratio outside
// [crossCheckRatioMin, crossCheckRatioMax] means the quote is implausible
// (wrong unit, wrong currency, decimal slip) and the band values are
// substituted instead.
func (s *PriceNormalizerService) crossCheck(ctx context.Context, pair models.NormalizedPricePair, target models.CurrencyCode) (models.NormalizedPricePair, error) {
	expectedGold, _, err := s.conversion.Convert(ctx, usdGoldFloorPerGram, models.USD, target)
	if err != nil {
		return pair, err
	}
	expectedSilver, _, err := s.conversion.Convert(ctx, usdSilverFloorPerGram, models.USD, target)
	if err != nil {
		return pair, err
	}
	if !s.validator.IsValidPrice(expectedGold) || !s.validator.IsValidPrice(expectedSilver) {
		return pair, nil
	}

	goldRatio := pair.GoldPriceInTarget / expectedGold
	silverRatio := pair.SilverPriceInTarget / expectedSilver
	if goldRatio < crossCheckRatioMin || goldRatio > crossCheckRatioMax ||
		silverRatio < crossCheckRatioMin || silverRatio > crossCheckRatioMax {
		s.logger.Warn("same-currency quote failed cross-check, substituting expected band",
			slog.String("currency", target.String()),
			slog.Float64("gold_ratio", goldRatio),
			slog.Float64("silver_ratio", silverRatio),
		)
		return models.NormalizedPricePair{
			GoldPriceInTarget:   expectedGold,
			SilverPriceInTarget: expectedSilver,
			UsedFallback:        true,
		}, nil
	}
	return pair, nil
}

// enforcePositive is the normalizer post-condition: any non-positive or
// non-finite output is replaced from the hardcoded per-gram table for
// specially handled currencies. Only when that table has no entry does the
// normalizer fail loudly, because a silent zero price would corrupt the
// eligibility decision downstream.
func (s *PriceNormalizerService) enforcePositive(_ context.Context, pair models.NormalizedPricePair, target models.CurrencyCode) (models.NormalizedPricePair, error) {
	goldOK := s.validator.IsValidPrice(pair.GoldPriceInTarget)
	silverOK := s.validator.IsValidPrice(pair.SilverPriceInTarget)
	if goldOK && silverOK {
		return pair, nil
	}

	fallback, known := fallbackGramPrices[target]
	if !known {
		if !goldOK {
			return pair, &apperrors.InvalidPriceError{Field: "gold", Value: pair.GoldPriceInTarget}
		}
		return pair, &apperrors.InvalidPriceError{Field: "silver", Value: pair.SilverPriceInTarget}
	}

	if !goldOK {
		s.logger.Warn("substituting fallback gold price",
			slog.String("currency", target.String()),
			slog.Float64("invalid_value", pair.GoldPriceInTarget),
		)
		pair.GoldPriceInTarget = fallback.gold
		pair.IsDirectGold = false
	}
	if !silverOK {
		s.logger.Warn("substituting fallback silver price",
			slog.String("currency", target.String()),
			slog.Float64("invalid_value", pair.SilverPriceInTarget),
		)
		pair.SilverPriceInTarget = fallback.silver
		pair.IsDirectSilver = false
	}
	pair.UsedFallback = true
	return pair, nil
}
