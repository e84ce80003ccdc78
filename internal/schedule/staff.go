package schedule

import (
	"sort"
	"time"
)

// WeeklyWindow is one recurring availability window for a staff member,
// wall-clock in the location's timezone. A staff member may have several
// windows on one weekday (split shifts); windows on the same day must not
// overlap.
type WeeklyWindow struct {
	ID          string
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
}

func (w WeeklyWindow) Valid() bool {
	return w.StartMinute >= 0 && w.StartMinute < w.EndMinute && w.EndMinute <= minutesPerDay
}

// WorkingIntervals resolves a staff member's candidate working intervals for a
// date: each weekly window matching the weekday is clipped to the location's
// open interval, then time-off blocks are subtracted. Windows that clip to
// nothing are dropped; adjacent-but-distinct windows are not merged, preserving
// the staff member's break structure. No windows for the weekday means no
// availability.
func WorkingIntervals(dayLocal time.Time, loc *time.Location, open Interval, windows []WeeklyWindow, timeOff []Interval) []Interval {
	if !open.Valid() {
		return nil
	}

	weekday := dayLocal.Weekday()
	var out []Interval
	for _, w := range windows {
		if w.Weekday != weekday || !w.Valid() {
			continue
		}
		iv := Interval{
			Start: atMinute(dayLocal, w.StartMinute, loc),
			End:   atMinute(dayLocal, w.EndMinute, loc),
		}
		clipped, ok := iv.Clip(open)
		if !ok {
			continue
		}
		out = append(out, Subtract(clipped, timeOff)...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Span returns the smallest interval covering all of the given intervals.
func Span(intervals []Interval) (Interval, bool) {
	var span Interval
	for _, iv := range intervals {
		if !iv.Valid() {
			continue
		}
		if span.Start.IsZero() || iv.Start.Before(span.Start) {
			span.Start = iv.Start
		}
		if span.End.IsZero() || iv.End.After(span.End) {
			span.End = iv.End
		}
	}
	return span, span.Valid()
}
