package model

import "time"

// IsExpired reports whether a plan expiry has passed relative to now.
// The boundary is inclusive of the expiry instant: a member whose expiry
// equals now is still valid. All comparisons happen in UTC; timestamps are
// normalized to time.Time at the storage boundary so every caller (seat
// display, member filtering, allocation precondition) uses this one rule.
func IsExpired(expiry, now time.Time) bool {
	return expiry.UTC().Before(now.UTC())
}
