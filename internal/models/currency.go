package models

import (
	"fmt"
	"strings"
)

// CurrencyCode is a 3-letter ISO-4217 style currency code (e.g. "USD").
// All entry points normalize through ParseCurrencyCode so the rest of the
// code can assume uppercase 3-letter codes.
type CurrencyCode string

const (
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
	GBP CurrencyCode = "GBP"
	INR CurrencyCode = "INR"
	PKR CurrencyCode = "PKR"
	BDT CurrencyCode = "BDT"
	IDR CurrencyCode = "IDR"
	MYR CurrencyCode = "MYR"
	SAR CurrencyCode = "SAR"
	AED CurrencyCode = "AED"
	TRY CurrencyCode = "TRY"
	EGP CurrencyCode = "EGP"
	NGN CurrencyCode = "NGN"
	CAD CurrencyCode = "CAD"
	AUD CurrencyCode = "AUD"
)

// ParseCurrencyCode validates and normalizes a raw currency code string.
func ParseCurrencyCode(raw string) (CurrencyCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 3 {
		return "", fmt.Errorf("currency code must be 3 letters, got %q", raw)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("currency code must be alphabetic, got %q", raw)
		}
	}
	return CurrencyCode(code), nil
}

// String implements fmt.Stringer.
func (c CurrencyCode) String() string {
	return string(c)
}

// Currency represents a supported currency.
type Currency struct {
	Code   CurrencyCode `json:"currencyCode"` // e.g. "USD"
	Symbol string       `json:"symbol"`       // e.g. "$"
	Name   string       `json:"name"`         // e.g. "US Dollar"
}

// KnownCurrencies returns the static metadata table for the currencies the
// service tabulates expected Nisab ranges for. The list is display metadata
// only; untabulated codes are still accepted everywhere.
func KnownCurrencies() []Currency {
	return []Currency{
		{Code: USD, Symbol: "$", Name: "US Dollar"},
		{Code: EUR, Symbol: "€", Name: "Euro"},
		{Code: GBP, Symbol: "£", Name: "British Pound"},
		{Code: INR, Symbol: "₹", Name: "Indian Rupee"},
		{Code: PKR, Symbol: "₨", Name: "Pakistani Rupee"},
		{Code: BDT, Symbol: "৳", Name: "Bangladeshi Taka"},
		{Code: IDR, Symbol: "Rp", Name: "Indonesian Rupiah"},
		{Code: MYR, Symbol: "RM", Name: "Malaysian Ringgit"},
		{Code: SAR, Symbol: "﷼", Name: "Saudi Riyal"},
		{Code: AED, Symbol: "د.إ", Name: "UAE Dirham"},
		{Code: TRY, Symbol: "₺", Name: "Turkish Lira"},
		{Code: EGP, Symbol: "E£", Name: "Egyptian Pound"},
		{Code: NGN, Symbol: "₦", Name: "Nigerian Naira"},
		{Code: CAD, Symbol: "C$", Name: "Canadian Dollar"},
		{Code: AUD, Symbol: "A$", Name: "Australian Dollar"},
	}
}
