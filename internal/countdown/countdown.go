// Package countdown decomposes the time left until a fixed instant.
package countdown

import (
	"fmt"
	"time"
)

// Remaining is a truncated decomposition of a duration.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	// Arrived is set once the target has been reached; all fields are zero.
	Arrived bool
}

// Compute returns target-now split into days, hours within the day, minutes
// within the hour and seconds within the minute. Sub-second remainders are
// dropped. It never goes negative.
func Compute(target, now time.Time) Remaining {
	ms := target.Sub(now).Milliseconds()
	if ms <= 0 {
		return Remaining{Arrived: true}
	}
	const (
		second = 1000
		minute = 60 * second
		hour   = 60 * minute
		day    = 24 * hour
	)
	return Remaining{
		Days:    int(ms / day),
		Hours:   int(ms % day / hour),
		Minutes: int(ms % hour / minute),
		Seconds: int(ms % minute / second),
	}
}

// Format renders r compactly, e.g. "1d 02h 03m 04s".
func (r Remaining) Format() string {
	if r.Arrived {
		return "today!"
	}
	return fmt.Sprintf("%dd %02dh %02dm %02ds", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// NextAnnual returns the next local midnight of month/day at or after now.
func NextAnnual(now time.Time, month time.Month, day int) time.Time {
	t := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if t.Before(now) {
		t = t.AddDate(1, 0, 0)
	}
	return t
}
