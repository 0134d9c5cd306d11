package core

import "time"

// Clock supplies the current time. Everything that does age math or stamps
// rows takes one so tests can pin the wall clock.
type Clock func() time.Time

// SystemClock is the production clock. All stored timestamps are UTC so
// that their textual ordering in SQLite matches chronological order.
func SystemClock() time.Time {
	return time.Now().UTC()
}
