package models

import "time"

// ExchangeRate is a single resolved conversion rate between two currencies.
// Rates are market approximations, kept as float64; precise decimal
// arithmetic only matters at the user-facing wealth comparison, not here.
type ExchangeRate struct {
	FromCurrency CurrencyCode `json:"fromCurrency"`
	ToCurrency   CurrencyCode `json:"toCurrency"`
	Rate         float64      `json:"rate"`
	FetchedAt    time.Time    `json:"fetchedAt"`
	Source       string       `json:"source"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

// RateTable is the raw answer of a currency rate source: all known rates
// against one base currency.
type RateTable struct {
	Base   CurrencyCode             `json:"base"`
	Date   time.Time                `json:"date"`
	Rates  map[CurrencyCode]float64 `json:"rates"`
	Source string                   `json:"source"`
}
