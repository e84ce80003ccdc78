package schedule

import (
	"testing"
	"time"
)

func TestWorkingIntervals_SplitShiftClippedToLocationHours(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-09-07", loc) // Monday
	open := Interval{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 17, 0, 0, 0, loc),
	}

	windows := []WeeklyWindow{
		{Weekday: time.Monday, StartMinute: 8 * 60, EndMinute: 12 * 60},  // starts before open
		{Weekday: time.Monday, StartMinute: 13 * 60, EndMinute: 18 * 60}, // ends after close
		{Weekday: time.Tuesday, StartMinute: 9 * 60, EndMinute: 17 * 60}, // wrong weekday
	}

	got := WorkingIntervals(day, loc, open, windows, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 working intervals, got %d", len(got))
	}
	if !got[0].Start.Equal(open.Start) || !got[0].End.Equal(time.Date(2026, 9, 7, 12, 0, 0, 0, loc)) {
		t.Fatalf("morning interval = [%s, %s)", got[0].Start, got[0].End)
	}
	if !got[1].Start.Equal(time.Date(2026, 9, 7, 13, 0, 0, 0, loc)) || !got[1].End.Equal(open.End) {
		t.Fatalf("afternoon interval = [%s, %s)", got[1].Start, got[1].End)
	}
}

func TestWorkingIntervals_NoWindowsMeansUnavailable(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-09-07", loc)
	open := Interval{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 17, 0, 0, 0, loc),
	}

	if got := WorkingIntervals(day, loc, open, nil, nil); len(got) != 0 {
		t.Fatalf("staff with no windows must have no availability, got %v", got)
	}

	tuesdayOnly := []WeeklyWindow{{Weekday: time.Tuesday, StartMinute: 9 * 60, EndMinute: 17 * 60}}
	if got := WorkingIntervals(day, loc, open, tuesdayOnly, nil); len(got) != 0 {
		t.Fatalf("no windows for the weekday must mean no availability, got %v", got)
	}
}

func TestWorkingIntervals_AdjacentWindowsStayDistinct(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-09-07", loc)
	open := Interval{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 17, 0, 0, 0, loc),
	}

	windows := []WeeklyWindow{
		{Weekday: time.Monday, StartMinute: 9 * 60, EndMinute: 12 * 60},
		{Weekday: time.Monday, StartMinute: 12 * 60, EndMinute: 15 * 60},
	}
	got := WorkingIntervals(day, loc, open, windows, nil)
	if len(got) != 2 {
		t.Fatalf("adjacent windows must not be merged, got %d intervals", len(got))
	}
}

func TestWorkingIntervals_TimeOffSubtracted(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-09-07", loc)
	open := Interval{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 17, 0, 0, 0, loc),
	}
	windows := []WeeklyWindow{{Weekday: time.Monday, StartMinute: 9 * 60, EndMinute: 17 * 60}}
	timeOff := []Interval{{
		Start: time.Date(2026, 9, 7, 14, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 15, 0, 0, 0, loc),
	}}

	got := WorkingIntervals(day, loc, open, windows, timeOff)
	if len(got) != 2 {
		t.Fatalf("expected 2 intervals around the time off, got %d", len(got))
	}
	if !got[0].End.Equal(timeOff[0].Start) || !got[1].Start.Equal(timeOff[0].End) {
		t.Fatalf("time off not subtracted correctly: %v", got)
	}
}

func TestSpan(t *testing.T) {
	loc := newYork(t)
	a := Interval{Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc), End: time.Date(2026, 9, 7, 12, 0, 0, 0, loc)}
	b := Interval{Start: time.Date(2026, 9, 7, 13, 0, 0, 0, loc), End: time.Date(2026, 9, 7, 17, 0, 0, 0, loc)}

	span, ok := Span([]Interval{a, b})
	if !ok {
		t.Fatal("expected a valid span")
	}
	if !span.Start.Equal(a.Start) || !span.End.Equal(b.End) {
		t.Fatalf("span = [%s, %s)", span.Start, span.End)
	}

	if _, ok := Span(nil); ok {
		t.Fatal("empty input should produce no span")
	}
}
