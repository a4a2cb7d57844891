package models

import "time"

// Nisab metal weights, per the classical definition: the value of 85 grams
// of gold or 595 grams of silver, whichever is lower.
const (
	GoldNisabGrams   = 85.0
	SilverNisabGrams = 595.0
)

// MetalKind identifies which metal produced the operative Nisab value.
type MetalKind string

const (
	MetalGold   MetalKind = "gold"
	MetalSilver MetalKind = "silver"
)

// NormalizedPricePair holds per-gram metal prices resolved into the target
// currency. Both prices are strictly positive finite numbers; the normalizer
// substitutes fallback values and sets UsedFallback rather than ever emitting
// zero, negative, NaN or infinite prices.
type NormalizedPricePair struct {
	GoldPriceInTarget   float64 `json:"goldPriceInTarget"`
	SilverPriceInTarget float64 `json:"silverPriceInTarget"`
	IsDirectGold        bool    `json:"isDirectGold"`
	IsDirectSilver      bool    `json:"isDirectSilver"`
	UsedFallback        bool    `json:"usedFallback"`
}

// NisabThresholdResult is one computed Nisab threshold for one currency.
// NisabValue is always min(GoldThreshold, SilverThreshold) and MetalUsed
// identifies which. Results are immutable; a recomputation supersedes the
// previous result wholesale.
type NisabThresholdResult struct {
	ResultID        string       `json:"resultID"`
	GoldThreshold   float64      `json:"goldThreshold"`
	SilverThreshold float64      `json:"silverThreshold"`
	NisabValue      float64      `json:"nisabValue"`
	MetalUsed       MetalKind    `json:"metalUsed"`
	Currency        CurrencyCode `json:"currency"`
	ComputedAt      time.Time    `json:"computedAt"`
	Source          string       `json:"source"`
}

// ValidationVerdict is the plausibility validator's answer for a computed
// threshold pair. Consumed synchronously, never persisted.
type ValidationVerdict struct {
	IsValid bool   `json:"isValid"`
	Reason  string `json:"reason,omitempty"`
}
