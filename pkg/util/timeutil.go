package util

import "time"

// NextMidnight returns the first instant of the following calendar day in
// the given location.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
}

// UntilMidnight returns how long a per-day cache entry stays valid: the
// duration from now to the next local midnight.
func UntilMidnight(now time.Time, loc *time.Location) time.Duration {
	return NextMidnight(now, loc).Sub(now)
}
