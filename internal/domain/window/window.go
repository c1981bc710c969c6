// Package window resolves a window selector plus an explicit "now" into the
// current interval and the immediately preceding comparison interval.
//
// Resolution is pure: callers always pass now, so the rest of the pipeline
// stays deterministic and testable. Both interval ends are inclusive.
package window

import (
	"fmt"
	"time"
)

// Kind selects how the current window relates to now.
type Kind string

// Supported window selectors.
const (
	Last30    Kind = "last30"     // rolling 30 days ending at now
	ThisMonth Kind = "this_month" // calendar month containing now, up to now
	PrevMonth Kind = "prev_month" // full previous calendar month
)

// ParseKind validates a selector coming from the API layer.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Last30, ThisMonth, PrevMonth:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown window kind %q", s)
}

// Window is a derived, never-persisted interval. Start <= End always holds
// for windows produced by Resolve.
type Window struct {
	Start time.Time
	End   time.Time
	Kind  Kind
}

// Contains reports whether t falls inside the window, inclusive on both ends.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

const rollingDays = 30

// Resolve computes the current window for kind at now, plus the comparison
// window immediately preceding it. Total over its inputs; there are no error
// cases. Month arithmetic happens in now's location.
func Resolve(kind Kind, now time.Time) (current, comparison Window) {
	switch kind {
	case ThisMonth:
		monthStart := startOfMonth(now)
		current = Window{Start: monthStart, End: now, Kind: kind}
		comparison = fullMonth(monthStart.AddDate(0, -1, 0), kind)
	case PrevMonth:
		monthStart := startOfMonth(now)
		current = fullMonth(monthStart.AddDate(0, -1, 0), kind)
		comparison = fullMonth(monthStart.AddDate(0, -2, 0), kind)
	default: // Last30
		start := now.AddDate(0, 0, -rollingDays)
		current = Window{Start: start, End: now, Kind: Last30}
		comparison = Window{
			Start: start.AddDate(0, 0, -rollingDays),
			End:   start.Add(-time.Nanosecond),
			Kind:  Last30,
		}
	}
	return current, comparison
}

// startOfMonth truncates t to the first instant of its calendar month.
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// fullMonth covers the whole calendar month beginning at monthStart, ending
// the instant before the next month begins.
func fullMonth(monthStart time.Time, kind Kind) Window {
	return Window{
		Start: monthStart,
		End:   monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond),
		Kind:  kind,
	}
}
