package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/zakat_nisab_service/internal/apperrors"
	"github.com/SscSPs/zakat_nisab_service/internal/core/ports"
	portssvc "github.com/SscSPs/zakat_nisab_service/internal/core/ports/services"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// OrchestratorConfig bundles the tunables of the refresh lifecycle.
type OrchestratorConfig struct {
	NisabTTL    time.Duration // cached result freshness
	Debounce    time.Duration // minimum gap between scheduled refreshes
	MaxRetries  int           // bounded fetch attempts per refresh
	BaseBackoff time.Duration // first retry delay, doubled per attempt
	FeedTimeout time.Duration // per network call
}

// NisabOrchestratorService owns the last-known-good Nisab result per
// currency. Status queries are always answered synchronously from cache or
// a local fallback computation; network refreshes run in the background,
// deduplicated per currency so concurrent callers share one fetch. A failed
// refresh never clears a good cache entry: staleness beats blankness.
type NisabOrchestratorService struct {
	priceSource ports.MetalPriceSource
	calculator  portssvc.NisabCalculatorSvc
	cache       *ThresholdCache
	cfg         OrchestratorConfig
	logger      *slog.Logger

	group singleflight.Group

	mu          sync.Mutex
	states      map[models.CurrencyCode]models.CurrencyState
	lastAttempt map[models.CurrencyCode]time.Time
	lastErr     map[models.CurrencyCode]string
	lastQuote   map[models.CurrencyCode]models.MetalPriceQuote

	subMu     sync.Mutex
	subs      map[int]chan models.ThresholdUpdate
	nextSubID int

	now func() time.Time
}

// NewNisabOrchestratorService creates a new NisabOrchestratorService.
func NewNisabOrchestratorService(priceSource ports.MetalPriceSource, calculator portssvc.NisabCalculatorSvc, cache *ThresholdCache, cfg OrchestratorConfig, logger *slog.Logger) *NisabOrchestratorService {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	if cfg.FeedTimeout <= 0 {
		cfg.FeedTimeout = 8 * time.Second
	}
	return &NisabOrchestratorService{
		priceSource: priceSource,
		calculator:  calculator,
		cache:       cache,
		cfg:         cfg,
		logger:      logger,
		states:      make(map[models.CurrencyCode]models.CurrencyState),
		lastAttempt: make(map[models.CurrencyCode]time.Time),
		lastErr:     make(map[models.CurrencyCode]string),
		lastQuote:   make(map[models.CurrencyCode]models.MetalPriceQuote),
		subs:        make(map[int]chan models.ThresholdUpdate),
		now:         time.Now,
	}
}

// GetStatus returns the best currently-available threshold synchronously.
// Fresh cache entries are served as-is; stale or missing data additionally
// schedules a debounced background refresh. The caller is never blocked on
// the network.
func (s *NisabOrchestratorService) GetStatus(ctx context.Context, currency models.CurrencyCode) models.NisabStatus {
	now := s.now()
	entry, cached := s.cache.Get(currency)

	s.mu.Lock()
	errMsg := s.lastErr[currency]
	state := s.states[currency]
	s.mu.Unlock()

	if cached && !entry.Expired(now, s.cfg.NisabTTL) {
		return models.NisabStatus{Result: entry.Value, State: models.StateReady, ErrorMessage: errMsg}
	}

	s.maybeScheduleRefresh(currency)

	if cached {
		return models.NisabStatus{Result: entry.Value, State: models.StateStale, Stale: true, ErrorMessage: errMsg}
	}

	// Nothing cached: best effort synchronous computation from whatever
	// prices are already in memory, marked as cache-derived.
	s.mu.Lock()
	quote, hasQuote := s.lastQuote[currency]
	s.mu.Unlock()
	if hasQuote {
		quote.IsCache = true
		if result, err := s.calculator.Compute(ctx, quote, currency); err == nil {
			return models.NisabStatus{Result: result, State: models.StateStale, Stale: true, ErrorMessage: errMsg}
		}
	}

	if state == "" {
		state = models.StateEmpty
	}
	return models.NisabStatus{State: state, ErrorMessage: errMsg}
}

// maybeScheduleRefresh kicks off a fire-and-forget refresh unless one is
// already in flight or the last attempt was within the debounce interval.
func (s *NisabOrchestratorService) maybeScheduleRefresh(currency models.CurrencyCode) {
	now := s.now()

	s.mu.Lock()
	if s.states[currency] == models.StateFetching || now.Sub(s.lastAttempt[currency]) < s.cfg.Debounce {
		s.mu.Unlock()
		return
	}
	s.lastAttempt[currency] = now
	s.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in background refresh",
					slog.String("currency", currency.String()),
					slog.Any("panic", r),
				)
			}
		}()
		budget := s.cfg.FeedTimeout * time.Duration(s.cfg.MaxRetries+1)
		ctx, cancel := context.WithTimeout(context.Background(), budget)
		defer cancel()
		if _, err := s.Refresh(ctx, currency, false); err != nil {
			s.logger.Warn("background refresh failed",
				slog.String("currency", currency.String()),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Refresh fetches fresh prices and recomputes the threshold for a currency.
// Concurrent calls for the same currency are collapsed into one underlying
// refresh; every caller observes the same resulting entry.
func (s *NisabOrchestratorService) Refresh(ctx context.Context, currency models.CurrencyCode, force bool) (*models.NisabThresholdResult, error) {
	v, err, _ := s.group.Do(currency.String(), func() (any, error) {
		return s.doRefresh(ctx, currency, force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.NisabThresholdResult), nil
}

func (s *NisabOrchestratorService) doRefresh(ctx context.Context, currency models.CurrencyCode, force bool) (*models.NisabThresholdResult, error) {
	now := s.now()
	if !force {
		if entry, ok := s.cache.Get(currency); ok && !entry.Expired(now, s.cfg.NisabTTL) {
			return entry.Value, nil
		}
	}

	s.mu.Lock()
	s.states[currency] = models.StateFetching
	s.lastAttempt[currency] = now
	s.mu.Unlock()

	quote, fetchErr := s.fetchWithRetry(ctx, currency)
	if fetchErr == nil {
		s.mu.Lock()
		s.lastQuote[currency] = *quote
		s.mu.Unlock()

		result, err := s.calculator.Compute(ctx, *quote, currency)
		if err == nil {
			s.commit(result, "")
			return result, nil
		}
		// The calculator only errors when every mitigation tier is
		// exhausted; treat it like a failed fetch from here on.
		fetchErr = err
	}

	// Retries exhausted: run the pipeline entirely off locally-known
	// prices before giving up.
	s.mu.Lock()
	lastQuote, hasQuote := s.lastQuote[currency]
	s.mu.Unlock()
	if hasQuote {
		lastQuote.IsCache = true
		if result, err := s.calculator.Compute(ctx, lastQuote, currency); err == nil {
			s.commit(result, fmt.Sprintf("refresh failed, serving locally computed fallback: %v", fetchErr))
			return result, nil
		}
	}

	// Leave any existing good entry in place; only record the error.
	s.mu.Lock()
	s.lastErr[currency] = fetchErr.Error()
	if _, ok := s.cache.Get(currency); ok {
		s.states[currency] = models.StateStale
	} else {
		s.states[currency] = models.StateFailed
	}
	s.mu.Unlock()

	return nil, fmt.Errorf("fetch error for %s: %w", currency, fetchErr)
}

// fetchWithRetry attempts the price fetch up to MaxRetries times with
// exponential backoff. Not-found answers back off longer because the
// backing API may not have warmed the requested currency yet.
func (s *NisabOrchestratorService) fetchWithRetry(ctx context.Context, currency models.CurrencyCode) (*models.MetalPriceQuote, error) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.FeedTimeout)
		quote, err := s.priceSource.FetchMetalPrices(attemptCtx, currency)
		cancel()
		if err == nil {
			return quote, nil
		}
		lastErr = err
		s.logger.Warn("metal price fetch failed",
			slog.String("currency", currency.String()),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)

		if attempt == s.cfg.MaxRetries-1 {
			break
		}
		backoff := s.cfg.BaseBackoff << attempt
		if errors.Is(err, apperrors.ErrNotFound) {
			backoff *= 4
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, ctx.Err())
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}

// commit replaces the cache entry, updates state, and notifies subscribers.
// errMsg non-empty marks a fallback update that still carries a usable
// value.
func (s *NisabOrchestratorService) commit(result *models.NisabThresholdResult, errMsg string) {
	s.cache.Set(result, s.now())

	s.mu.Lock()
	s.states[result.Currency] = models.StateReady
	if errMsg == "" {
		delete(s.lastErr, result.Currency)
	} else {
		s.lastErr[result.Currency] = errMsg
	}
	s.mu.Unlock()

	s.notify(models.ThresholdUpdate{
		Currency:  result.Currency,
		Source:    result.Source,
		Threshold: result.NisabValue,
	})
}

// CheckZakat compares a wealth total against the current Nisab threshold,
// refreshing synchronously only when nothing is available at all.
func (s *NisabOrchestratorService) CheckZakat(ctx context.Context, total decimal.Decimal, currency models.CurrencyCode) (*models.ZakatEligibility, error) {
	status := s.GetStatus(ctx, currency)
	result := status.Result
	if result == nil {
		var err error
		result, err = s.Refresh(ctx, currency, false)
		if err != nil {
			return nil, err
		}
	}

	return &models.ZakatEligibility{
		MeetsNisab:      total.GreaterThanOrEqual(decimal.NewFromFloat(result.NisabValue)),
		TotalValue:      total,
		NisabValue:      result.NisabValue,
		GoldThreshold:   result.GoldThreshold,
		SilverThreshold: result.SilverThreshold,
		Currency:        currency,
	}, nil
}

// Subscribe registers an observer for threshold updates. Slow subscribers
// drop updates rather than block the refresh path.
func (s *NisabOrchestratorService) Subscribe() (<-chan models.ThresholdUpdate, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan models.ThresholdUpdate, 8)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *NisabOrchestratorService) notify(update models.ThresholdUpdate) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- update:
		default:
		}
	}
}

// ClearCache drops all cached thresholds and refresh bookkeeping.
func (s *NisabOrchestratorService) ClearCache() {
	s.cache.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[models.CurrencyCode]models.CurrencyState)
	s.lastAttempt = make(map[models.CurrencyCode]time.Time)
	s.lastErr = make(map[models.CurrencyCode]string)
	s.lastQuote = make(map[models.CurrencyCode]models.MetalPriceQuote)
}
