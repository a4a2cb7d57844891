package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/zakat_nisab_service/internal/models"
)

// RateCache holds resolved conversion rates keyed by "FROM:TO". It is an
// explicit object with a defined lifecycle (constructed at startup,
// injected, clearable) rather than ambient package state, so tests can
// isolate it. Whole-entry replace only.
type RateCache struct {
	mu      sync.RWMutex
	entries map[string]models.ExchangeRate
}

// NewRateCache creates an empty RateCache.
func NewRateCache() *RateCache {
	return &RateCache{entries: make(map[string]models.ExchangeRate)}
}

func rateKey(from, to models.CurrencyCode) string {
	return fmt.Sprintf("%s:%s", from, to)
}

// Get returns the cached rate for a pair, if present and not expired.
func (c *RateCache) Get(from, to models.CurrencyCode, now time.Time) (models.ExchangeRate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.entries[rateKey(from, to)]
	if !ok || now.After(rate.ExpiresAt) {
		return models.ExchangeRate{}, false
	}
	return rate, true
}

// Set stores a rate, superseding any previous entry for the pair.
func (c *RateCache) Set(rate models.ExchangeRate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[rateKey(rate.FromCurrency, rate.ToCurrency)] = rate
}

// Clear drops all entries.
func (c *RateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]models.ExchangeRate)
}

// ThresholdCache holds the last-known-good Nisab result per currency.
// Entries are immutable value objects; writes are last-writer-wins at the
// granularity of a whole-entry replace.
type ThresholdCache struct {
	mu      sync.RWMutex
	entries map[models.CurrencyCode]models.CacheEntry[*models.NisabThresholdResult]
}

// NewThresholdCache creates an empty ThresholdCache.
func NewThresholdCache() *ThresholdCache {
	return &ThresholdCache{entries: make(map[models.CurrencyCode]models.CacheEntry[*models.NisabThresholdResult])}
}

// Get returns the cached entry for a currency, if any.
func (c *ThresholdCache) Get(currency models.CurrencyCode) (models.CacheEntry[*models.NisabThresholdResult], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[currency]
	return e, ok
}

// Set replaces the entry for the result's currency.
func (c *ThresholdCache) Set(result *models.NisabThresholdResult, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[result.Currency] = models.CacheEntry[*models.NisabThresholdResult]{
		Value:     result,
		Currency:  result.Currency,
		Timestamp: now,
	}
}

// Clear drops all entries.
func (c *ThresholdCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[models.CurrencyCode]models.CacheEntry[*models.NisabThresholdResult])
}
