package schedule

import (
	"testing"
	"time"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestOpenInterval_RegularDay(t *testing.T) {
	loc := newYork(t)
	day, err := LocalDay("2026-09-07", loc) // a Monday
	if err != nil {
		t.Fatalf("local day: %v", err)
	}

	hours := WeekHours{
		time.Monday: {OpenMinute: 9 * 60, CloseMinute: 17 * 60},
	}

	open, ok := OpenInterval(day, hours, loc)
	if !ok {
		t.Fatal("expected the location to be open")
	}
	wantStart := time.Date(2026, 9, 7, 9, 0, 0, 0, loc)
	wantEnd := time.Date(2026, 9, 7, 17, 0, 0, 0, loc)
	if !open.Start.Equal(wantStart) || !open.End.Equal(wantEnd) {
		t.Fatalf("open = [%s, %s), want [%s, %s)", open.Start, open.End, wantStart, wantEnd)
	}
	if open.End.Sub(open.Start) != 8*time.Hour {
		t.Fatalf("expected 8h open interval, got %s", open.End.Sub(open.Start))
	}
}

func TestOpenInterval_ClosedWeekday(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-09-06", loc) // a Sunday with no entry

	hours := WeekHours{
		time.Monday: {OpenMinute: 9 * 60, CloseMinute: 17 * 60},
	}
	if _, ok := OpenInterval(day, hours, loc); ok {
		t.Fatal("weekday without configured hours must be closed")
	}
}

func TestOpenInterval_NoConfigurationIsClosed(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-09-07", loc)

	if _, ok := OpenInterval(day, WeekHours{}, loc); ok {
		t.Fatal("location without business hours must be treated as closed")
	}
	if _, ok := OpenInterval(day, nil, loc); ok {
		t.Fatal("nil business hours must be treated as closed")
	}
}

func TestOpenInterval_RejectsInvertedHours(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-09-07", loc)

	hours := WeekHours{
		time.Monday: {OpenMinute: 17 * 60, CloseMinute: 9 * 60},
	}
	if _, ok := OpenInterval(day, hours, loc); ok {
		t.Fatal("open >= close must resolve to closed, not an inverted interval")
	}
}

// 2026-03-08 is the US spring-forward day: 02:00-03:00 local does not exist,
// so a 00:00-12:00 wall-clock day spans only 11 elapsed hours.
func TestOpenInterval_SpringForward(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-03-08", loc) // a Sunday

	hours := WeekHours{
		time.Sunday: {OpenMinute: 0, CloseMinute: 12 * 60},
	}
	open, ok := OpenInterval(day, hours, loc)
	if !ok {
		t.Fatal("expected the location to be open")
	}
	if got := open.End.Sub(open.Start); got != 11*time.Hour {
		t.Fatalf("spring-forward day should span 11h, got %s", got)
	}
}

// 2026-11-01 is the US fall-back day: 01:00-02:00 local repeats, so a
// 00:00-12:00 wall-clock day spans 13 elapsed hours.
func TestOpenInterval_FallBack(t *testing.T) {
	loc := newYork(t)
	day, _ := LocalDay("2026-11-01", loc) // a Sunday

	hours := WeekHours{
		time.Sunday: {OpenMinute: 0, CloseMinute: 12 * 60},
	}
	open, ok := OpenInterval(day, hours, loc)
	if !ok {
		t.Fatal("expected the location to be open")
	}
	if got := open.End.Sub(open.Start); got != 13*time.Hour {
		t.Fatalf("fall-back day should span 13h, got %s", got)
	}
}

func TestLocalDay_RejectsGarbage(t *testing.T) {
	loc := newYork(t)
	if _, err := LocalDay("March 8", loc); err == nil {
		t.Fatal("expected an error for a non-ISO date")
	}
}
