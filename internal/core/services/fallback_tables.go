package services

import "github.com/SscSPs/zakat_nisab_service/internal/models"

// USD reference floors used for the same-currency cross-check: a gram of
// gold is never plausibly worth less than this many USD, nor silver.
const (
	usdGoldFloorPerGram   = 50.0
	usdSilverFloorPerGram = 0.5
)

// crossCheckRatioMin/Max bound the actual-to-expected price ratio in the
// same-currency cross-check; outside the band the quote is discarded.
const (
	crossCheckRatioMin = 0.1
	crossCheckRatioMax = 10.0
)

// errorProneCurrencies get the USD-reference cross-check even on fresh
// same-currency quotes, because upstream feeds have historically confused
// units or quoted per-ounce values for them.
var errorProneCurrencies = map[models.CurrencyCode]bool{
	models.INR: true,
	models.PKR: true,
	models.BDT: true,
	models.IDR: true,
	models.NGN: true,
	models.EGP: true,
}

// gramPriceFallback holds approximate per-gram prices substituted when a
// quote yields nothing usable for a currency.
type gramPriceFallback struct {
	gold   float64
	silver float64
}

// fallbackGramPrices are last-known plausible per-gram prices for the
// specially handled currencies. Manually curated snapshots.
var fallbackGramPrices = map[models.CurrencyCode]gramPriceFallback{
	models.USD: {85, 0.95},
	models.EUR: {78, 0.88},
	models.GBP: {67, 0.75},
	models.INR: {7100, 85},
	models.PKR: {24500, 270},
	models.BDT: {9800, 110},
	models.IDR: {1350000, 15500},
	models.MYR: {380, 4.3},
	models.SAR: {320, 3.6},
	models.AED: {315, 3.5},
	models.TRY: {2800, 31},
	models.EGP: {4100, 46},
	models.NGN: {128000, 1450},
	models.CAD: {116, 1.3},
	models.AUD: {130, 1.45},
}

// nisabFallback is a hardcoded Nisab-level answer used as the fastest safe
// exit when computed thresholds keep failing validation.
type nisabFallback struct {
	goldThreshold   float64
	silverThreshold float64
}

var nisabFallbacks = map[models.CurrencyCode]nisabFallback{
	models.USD: {7225, 714},
	models.EUR: {6650, 660},
	models.GBP: {5700, 565},
	models.INR: {722500, 53550},
	models.PKR: {2100000, 160000},
	models.BDT: {850000, 65000},
	models.IDR: {120000000, 9000000},
	models.MYR: {32000, 2500},
	models.SAR: {27000, 2100},
	models.AED: {26500, 2000},
	models.TRY: {240000, 19000},
	models.EGP: {350000, 27500},
	models.NGN: {11000000, 850000},
	models.CAD: {9900, 980},
	models.AUD: {11000, 1080},
}

// staticUSDRates is the last-resort conversion table: approximate units of
// each currency per 1 USD. Cross rates are derived through USD.
var staticUSDRates = map[models.CurrencyCode]float64{
	models.USD: 1,
	models.EUR: 0.92,
	models.GBP: 0.79,
	models.INR: 83.5,
	models.PKR: 278,
	models.BDT: 110,
	models.IDR: 15600,
	models.MYR: 4.7,
	models.SAR: 3.75,
	models.AED: 3.67,
	models.TRY: 32.5,
	models.EGP: 48,
	models.NGN: 1500,
	models.CAD: 1.36,
	models.AUD: 1.52,
	"JPY":      150,
	"CHF":      0.88,
	"CNY":      7.2,
	"SGD":      1.34,
	"ZAR":      18.5,
}
