package models

import "github.com/shopspring/decimal"

// ZakatEligibility is the answer to "does this wealth total meet Nisab?".
// TotalValue stays decimal end to end; the threshold side is a market
// approximation and is compared at float precision.
type ZakatEligibility struct {
	MeetsNisab      bool            `json:"meetsNisab"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	NisabValue      float64         `json:"nisabValue"`
	GoldThreshold   float64         `json:"goldThreshold"`
	SilverThreshold float64         `json:"silverThreshold"`
	Currency        CurrencyCode    `json:"currency"`
}
