package models

import "time"

// MetalPriceQuote is a raw gold/silver quote as returned by the price feed.
// Gold and Silver are price-per-gram in Currency. GoldUSD/SilverUSD, when
// positive, are authoritative USD-denominated mirrors of the same quantities
// and are preferred over a conversion hop when the target differs from the
// quote currency. Read-only to the engine.
type MetalPriceQuote struct {
	Gold      float64      `json:"gold"`
	Silver    float64      `json:"silver"`
	Currency  CurrencyCode `json:"currency"`
	GoldUSD   float64      `json:"goldUSD,omitempty"`
	SilverUSD float64      `json:"silverUSD,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	IsCache   bool         `json:"isCache"`
	Source    string       `json:"source,omitempty"`
}

// HasUSDMirror reports whether the quote carries usable USD-denominated
// values for both metals.
func (q MetalPriceQuote) HasUSDMirror() bool {
	return q.GoldUSD > 0 && q.SilverUSD > 0
}
