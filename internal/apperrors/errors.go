package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrRateUnavailable indicates that no conversion rate could be resolved
// from any tier (cache, live feed, static table).
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrFetchFailed indicates a transient failure talking to an external feed
// (timeout, connection failure, non-2xx status). Retried with backoff.
var ErrFetchFailed = errors.New("external fetch failed")

// ErrMalformedResponse indicates a feed answered but the payload did not
// have the expected shape. Retried like ErrFetchFailed, logged distinctly.
var ErrMalformedResponse = errors.New("malformed feed response")

// InvalidPriceError is the one error class the pricing pipeline is allowed
// to surface: a non-finite or non-positive price reached the calculator and
// every fallback tier was exhausted. Proceeding would produce a meaningless
// eligibility result.
type InvalidPriceError struct {
	Field string  // which price was invalid, e.g. "gold"
	Value float64 // the offending value
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid %s price after all fallbacks: %v", e.Field, e.Value)
}

// IsInvalidPrice reports whether err is an InvalidPriceError.
func IsInvalidPrice(err error) bool {
	var ipe *InvalidPriceError
	return errors.As(err, &ipe)
}
