package schedule

import (
	"testing"
	"time"
)

// Location open Mon 09:00-17:00 America/New_York, staff available 09:00-12:00
// and 13:00-17:00, 60-minute service, no bookings: slots at 09,10,11,13,14,15,16.
func TestGenerateSlots_LunchBreakDay(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-09-07", loc)
	open := Interval{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 17, 0, 0, 0, loc),
	}
	windows := []WeeklyWindow{
		{Weekday: time.Monday, StartMinute: 9 * 60, EndMinute: 12 * 60},
		{Weekday: time.Monday, StartMinute: 13 * 60, EndMinute: 17 * 60},
	}
	working := WorkingIntervals(day, loc, open, windows, nil)

	slots := GenerateSlots(working, nil, time.Hour, 0, time.Time{})
	if len(slots) != 7 {
		t.Fatalf("expected 7 slots, got %d", len(slots))
	}
	wantHours := []int{9, 10, 11, 13, 14, 15, 16}
	for i, s := range slots {
		want := time.Date(2026, 9, 7, wantHours[i], 0, 0, 0, loc)
		if !s.Start.Equal(want) {
			t.Fatalf("slot %d starts %s, want %s", i, s.Start, want)
		}
		if !s.End.Equal(s.Start.Add(time.Hour)) {
			t.Fatalf("slot %d end %s does not equal start+duration", i, s.End)
		}
		if !s.Available {
			t.Fatalf("slot %d should be available", i)
		}
	}
}

func TestGenerateSlots_BusyIntervalBlocksOnlyItsSlot(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-09-07", loc)
	open := Interval{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 17, 0, 0, 0, loc),
	}
	windows := []WeeklyWindow{
		{Weekday: time.Monday, StartMinute: 9 * 60, EndMinute: 12 * 60},
		{Weekday: time.Monday, StartMinute: 13 * 60, EndMinute: 17 * 60},
	}
	working := WorkingIntervals(day, loc, open, windows, nil)

	busy := []Interval{{
		Start: time.Date(2026, 9, 7, 10, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 11, 0, 0, 0, loc),
	}}
	slots := GenerateSlots(working, busy, time.Hour, 0, time.Time{})
	if len(slots) != 7 {
		t.Fatalf("expected 7 slots, got %d", len(slots))
	}
	for i, s := range slots {
		wantAvailable := s.Start.Hour() != 10
		if s.Available != wantAvailable {
			t.Fatalf("slot %d (%s) available=%v, want %v", i, s.Start, s.Available, wantAvailable)
		}
	}
}

// A slot starting exactly when a booking ends is free: intervals are half-open.
func TestGenerateSlots_BackToBackBookingAllowed(t *testing.T) {
	loc := newYork(t)
	working := []Interval{{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 12, 0, 0, 0, loc),
	}}
	busy := []Interval{{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 10, 0, 0, 0, loc),
	}}

	slots := GenerateSlots(working, busy, time.Hour, 0, time.Time{})
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if slots[0].Available {
		t.Fatal("09:00 slot should be busy")
	}
	if !slots[1].Available {
		t.Fatal("10:00 slot starting at the booking's end should be available")
	}
}

func TestGenerateSlots_BufferWidensConflictTest(t *testing.T) {
	loc := newYork(t)
	working := []Interval{{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 12, 0, 0, 0, loc),
	}}
	busy := []Interval{{
		Start: time.Date(2026, 9, 7, 10, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 11, 0, 0, 0, loc),
	}}

	slots := GenerateSlots(working, busy, time.Hour, 15*time.Minute, time.Time{})
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	// 09:00 pads to [09:00, 10:15) which now collides with the 10:00 booking.
	if slots[0].Available {
		t.Fatal("09:00 slot should be blocked by the buffer")
	}
	// 11:00 pads to [11:00, 12:15): the buffer extends forward only.
	if !slots[2].Available {
		t.Fatal("11:00 slot should remain available")
	}
}

func TestGenerateSlots_PartialTrailingWindowDiscarded(t *testing.T) {
	loc := newYork(t)
	// 09:00-11:30 window, 60-minute service: slots at 09:00 and 10:00 only.
	working := []Interval{{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 11, 30, 0, 0, loc),
	}}

	slots := GenerateSlots(working, nil, time.Hour, 0, time.Time{})
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
}

func TestGenerateSlots_PastSlotsUnavailable(t *testing.T) {
	loc := newYork(t)
	working := []Interval{{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 12, 0, 0, 0, loc),
	}}
	now := time.Date(2026, 9, 7, 10, 30, 0, 0, loc)

	slots := GenerateSlots(working, nil, time.Hour, 0, now)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if slots[0].Available || slots[1].Available {
		t.Fatal("slots starting before now should be unavailable")
	}
	if !slots[2].Available {
		t.Fatal("the 11:00 slot is still in the future and should be available")
	}
}

func TestGenerateSlots_InvalidDuration(t *testing.T) {
	loc := newYork(t)
	working := []Interval{{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 7, 12, 0, 0, 0, loc),
	}}
	if got := GenerateSlots(working, nil, 0, 0, time.Time{}); got != nil {
		t.Fatalf("zero duration should produce no slots, got %v", got)
	}
}
