package models

import "time"

// CacheEntry wraps one cached value for one currency. Entries are immutable;
// a refresh replaces the whole entry, never individual fields.
type CacheEntry[T any] struct {
	Value     T
	Currency  CurrencyCode
	Timestamp time.Time
}

// Age returns how old the entry is at the given instant.
func (e CacheEntry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Expired reports whether the entry is older than ttl at the given instant.
func (e CacheEntry[T]) Expired(now time.Time, ttl time.Duration) bool {
	return e.Age(now) > ttl
}
