package models

// ConversionTier records which tier of the conversion cascade produced a
// result, so callers can detect degraded (non-live) conversions.
type ConversionTier string

const (
	ConversionTierCached      ConversionTier = "cached"
	ConversionTierLive        ConversionTier = "live"
	ConversionTierStatic      ConversionTier = "static"
	ConversionTierIdentity    ConversionTier = "identity"
	ConversionTierUnconverted ConversionTier = "unconverted"
)

// Degraded reports whether the tier is an approximation fallback rather
// than a fresh or exact conversion.
func (t ConversionTier) Degraded() bool {
	return t == ConversionTierStatic || t == ConversionTierUnconverted
}

// ComputationTier is the escalation ladder the Nisab calculator walks when
// a computed threshold fails plausibility validation. Each tier is a
// strictly safer, less precise answer than the previous one.
type ComputationTier string

const (
	TierPrimary           ComputationTier = "primary"
	TierPriceFallback     ComputationTier = "price_fallback"
	TierThresholdFallback ComputationTier = "threshold_fallback"
	TierHardcodedFallback ComputationTier = "hardcoded_fallback"
)

// CurrencyState is the refresh state machine position for one currency.
type CurrencyState string

const (
	StateEmpty    CurrencyState = "empty"
	StateFetching CurrencyState = "fetching"
	StateReady    CurrencyState = "ready"
	StateStale    CurrencyState = "stale"
	StateFailed   CurrencyState = "failed"
)

// NisabStatus is what the orchestrator answers synchronously on every
// status query: the best currently-available result plus freshness and a
// side-channel error message from the last failed refresh, if any.
type NisabStatus struct {
	Result       *NisabThresholdResult `json:"result,omitempty"`
	State        CurrencyState         `json:"state"`
	Stale        bool                  `json:"stale"`
	ErrorMessage string                `json:"errorMessage,omitempty"`
}

// ThresholdUpdate is the notification payload emitted to subscribers on
// every successful or fallback threshold update.
type ThresholdUpdate struct {
	Currency  CurrencyCode `json:"currency"`
	Source    string       `json:"source"`
	Threshold float64      `json:"threshold"`
}
