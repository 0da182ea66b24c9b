// Package pantry holds the pure rules of the pantry domain: expiry
// evaluation, stats aggregation and rating averages. Nothing here touches
// storage or the clock; callers pass "now" in.
package pantry

import (
	"math"
	"time"
)

// DefaultExpiryThreshold is the number of days ahead a product counts as expiring soon
const DefaultExpiryThreshold = 3

const day = 24 * time.Hour

// StartOfDay returns local midnight of t in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the number of calendar days from now's date to expiry's date,
// both taken in now's location. Negative when the expiry date is in the past.
func DaysUntil(expiry, now time.Time) int {
	from := StartOfDay(now)
	to := StartOfDay(expiry.In(now.Location()))
	// DST days are 23 or 25 hours long
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// DaysUntilPtr is DaysUntil for an optional expiry; nil stays nil
func DaysUntilPtr(expiry *time.Time, now time.Time) *int {
	if expiry == nil {
		return nil
	}
	d := DaysUntil(*expiry, now)
	return &d
}

// IsExpiringSoon reports whether expiry falls within [today, today+threshold]
func IsExpiringSoon(expiry *time.Time, now time.Time, threshold int) bool {
	if expiry == nil {
		return false
	}
	d := DaysUntil(*expiry, now)
	return d >= 0 && d <= threshold
}

// IsExpired reports whether expiry's date is before today
func IsExpired(expiry *time.Time, now time.Time) bool {
	if expiry == nil {
		return false
	}
	return DaysUntil(*expiry, now) < 0
}

// ExpiringWindow returns the half-open instant range [from, to) matching IsExpiringSoon,
// for use in store queries.
func ExpiringWindow(now time.Time, threshold int) (from, to time.Time) {
	from = StartOfDay(now)
	to = from.AddDate(0, 0, threshold+1)
	return from, to
}

// ExpiredBefore returns the instant before which an expiry counts as expired
func ExpiredBefore(now time.Time) time.Time {
	return StartOfDay(now)
}

// Evaluation is the derived expiry state of a single product
type Evaluation struct {
	DaysUntilExpiry *int `json:"days_until_expiry"`
	IsExpiringSoon  bool `json:"is_expiring_soon"`
	IsExpired       bool `json:"is_expired"`
}

// Evaluate computes every derived expiry field at once
func Evaluate(expiry *time.Time, now time.Time, threshold int) Evaluation {
	return Evaluation{
		DaysUntilExpiry: DaysUntilPtr(expiry, now),
		IsExpiringSoon:  IsExpiringSoon(expiry, now, threshold),
		IsExpired:       IsExpired(expiry, now),
	}
}
