package engine

import (
	"fmt"
	"time"
)

// InWindow reports whether now falls inside the [start, end) wall-clock
// window. Only the time-of-day component of each argument matters. When the
// window crosses midnight (start > end) membership is now >= start OR
// now < end.
func InWindow(now, start, end time.Time) bool {
	n := secondOfDay(now)
	s := secondOfDay(start)
	e := secondOfDay(end)
	if s <= e {
		return s <= n && n < e
	}
	return n >= s || n < e
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// ParseTimeOfDay parses an "HH:MM" string into hour and minute components.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	t, perr := time.Parse("15:04", s)
	if perr != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, perr)
	}
	return t.Hour(), t.Minute(), nil
}

// timeOfDayOn anchors an HH:MM pair on the calendar date of ref, in ref's
// location.
func timeOfDayOn(ref time.Time, hour, minute int) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
}
