package services

import (
	"log/slog"

	"github.com/SscSPs/zakat_nisab_service/internal/core/ports"
	portssvc "github.com/SscSPs/zakat_nisab_service/internal/core/ports/services"
	"github.com/SscSPs/zakat_nisab_service/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. The caches are constructed here and injected so
// callers (and tests) control their lifecycle explicitly.
func NewServiceContainer(cfg *config.Config, metals ports.MetalPriceSource, rates ports.ExchangeRateSource, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Plausibility = NewPlausibilityValidatorService(logger)

	rateCache := NewRateCache()
	container.Conversion = NewCurrencyConversionService(rates, rateCache, cfg.RateCacheTTL, logger)

	container.Normalizer = NewPriceNormalizerService(container.Conversion, container.Plausibility, logger)
	container.Calculator = NewNisabCalculatorService(container.Normalizer, container.Plausibility, logger)

	thresholdCache := NewThresholdCache()
	container.Orchestrator = NewNisabOrchestratorService(metals, container.Calculator, thresholdCache, OrchestratorConfig{
		NisabTTL:    cfg.NisabCacheTTL,
		Debounce:    cfg.RefreshDebounce,
		MaxRetries:  cfg.MaxRefreshRetries,
		BaseBackoff: cfg.RetryBaseBackoff,
		FeedTimeout: cfg.FeedTimeout,
	}, logger)

	container.Currency = NewCurrencyService()

	return container
}
