package services

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/SscSPs/zakat_nisab_service/internal/models"
)

// Margins applied around the tabulated expected ranges. Currencies on the
// noisy list get the wide margin because their conversion rates are
// empirically prone to unit and quotation errors upstream.
const (
	defaultRangeMargin = 0.15
	wideRangeMargin    = 0.40
)

// thresholdBand is the historically plausible value band for 85 g of gold
// and 595 g of silver in one currency. Manually curated snapshots; there is
// no dynamic update mechanism, so the table carries a known staleness risk.
type thresholdBand struct {
	goldLower   float64
	goldUpper   float64
	silverLower float64
	silverUpper float64
}

var expectedThresholdBands = map[models.CurrencyCode]thresholdBand{
	models.USD: {4500, 10000, 250, 1200},
	models.EUR: {4200, 9500, 230, 1100},
	models.GBP: {3600, 8200, 200, 950},
	models.INR: {550000, 850000, 25000, 95000},
	models.PKR: {1300000, 2600000, 60000, 280000},
	models.BDT: {550000, 1100000, 25000, 120000},
	models.IDR: {75000000, 160000000, 3500000, 18000000},
	models.MYR: {21000, 45000, 1000, 5200},
	models.SAR: {17000, 37000, 900, 4400},
	models.AED: {16500, 36500, 900, 4300},
	models.TRY: {150000, 330000, 7500, 38000},
	models.EGP: {220000, 480000, 11000, 55000},
	models.NGN: {7000000, 15500000, 350000, 1800000},
	models.CAD: {6200, 13500, 330, 1600},
	models.AUD: {7000, 15000, 370, 1800},
}

// noisyCurrencies get the wide validation margin.
var noisyCurrencies = map[models.CurrencyCode]bool{
	models.PKR: true,
	models.BDT: true,
	models.IDR: true,
	models.TRY: true,
	models.EGP: true,
	models.NGN: true,
}

// PlausibilityValidatorService classifies prices and thresholds against the
// static expected-range tables. Pure; logs are diagnostic only.
type PlausibilityValidatorService struct {
	logger *slog.Logger
}

// NewPlausibilityValidatorService creates a new PlausibilityValidatorService.
func NewPlausibilityValidatorService(logger *slog.Logger) *PlausibilityValidatorService {
	return &PlausibilityValidatorService{logger: logger}
}

// IsValidPrice reports whether v is a finite, strictly positive number.
func (s *PlausibilityValidatorService) IsValidPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// ValidateThresholds checks a computed gold/silver threshold pair against
// the tabulated band for the currency, with the per-currency margin.
// Currencies outside the known set are always accepted: no false negatives
// for untabulated currencies, by an availability-over-precision trade-off.
func (s *PlausibilityValidatorService) ValidateThresholds(goldThreshold, silverThreshold float64, currency models.CurrencyCode) models.ValidationVerdict {
	if !s.IsValidPrice(goldThreshold) {
		return models.ValidationVerdict{IsValid: false, Reason: fmt.Sprintf("gold threshold is not a positive finite number: %v", goldThreshold)}
	}
	if !s.IsValidPrice(silverThreshold) {
		return models.ValidationVerdict{IsValid: false, Reason: fmt.Sprintf("silver threshold is not a positive finite number: %v", silverThreshold)}
	}

	band, known := expectedThresholdBands[currency]
	if !known {
		return models.ValidationVerdict{IsValid: true}
	}

	margin := defaultRangeMargin
	if noisyCurrencies[currency] {
		margin = wideRangeMargin
	}

	if goldThreshold < band.goldLower*(1-margin) || goldThreshold > band.goldUpper*(1+margin) {
		s.logger.Debug("gold threshold outside expected band",
			slog.String("currency", currency.String()),
			slog.Float64("threshold", goldThreshold),
		)
		return models.ValidationVerdict{
			IsValid: false,
			Reason: fmt.Sprintf("gold threshold %.2f outside expected range [%.2f, %.2f] for %s",
				goldThreshold, band.goldLower*(1-margin), band.goldUpper*(1+margin), currency),
		}
	}
	if silverThreshold < band.silverLower*(1-margin) || silverThreshold > band.silverUpper*(1+margin) {
		s.logger.Debug("silver threshold outside expected band",
			slog.String("currency", currency.String()),
			slog.Float64("threshold", silverThreshold),
		)
		return models.ValidationVerdict{
			IsValid: false,
			Reason: fmt.Sprintf("silver threshold %.2f outside expected range [%.2f, %.2f] for %s",
				silverThreshold, band.silverLower*(1-margin), band.silverUpper*(1+margin), currency),
		}
	}

	return models.ValidationVerdict{IsValid: true}
}
