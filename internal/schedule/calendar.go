// Package schedule holds the pure scheduling core: business-hours resolution,
// staff availability intersection and slot generation. Everything operates on
// absolute instants; wall-clock configuration is converted exactly once, here,
// in the location's timezone.
package schedule

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// DayHours is one weekday's open/close as minutes past local midnight.
type DayHours struct {
	OpenMinute  int
	CloseMinute int
}

func (h DayHours) Valid() bool {
	return h.OpenMinute >= 0 && h.OpenMinute < h.CloseMinute && h.CloseMinute <= minutesPerDay
}

// WeekHours is a location's weekly business-hours configuration. A missing
// weekday entry means closed that day; an empty map means always closed.
type WeekHours map[time.Weekday]DayHours

// LocalDay parses a YYYY-MM-DD date as midnight in loc.
func LocalDay(date string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return day, nil
}

// OpenInterval resolves the location's open interval for the local day given by
// dayLocal (midnight in loc). Returns false when the location is closed that
// day: no entry for the weekday, or a misconfigured entry. Never synthesizes
// default hours.
//
// Minutes are interpreted as wall-clock times, so on DST transition days the
// interval's elapsed length can differ from CloseMinute-OpenMinute.
func OpenInterval(dayLocal time.Time, hours WeekHours, loc *time.Location) (Interval, bool) {
	dh, ok := hours[dayLocal.Weekday()]
	if !ok || !dh.Valid() {
		return Interval{}, false
	}
	iv := Interval{
		Start: atMinute(dayLocal, dh.OpenMinute, loc),
		End:   atMinute(dayLocal, dh.CloseMinute, loc),
	}
	if !iv.Valid() {
		return Interval{}, false
	}
	return iv, true
}

// atMinute builds the instant for a wall-clock minute offset on dayLocal's date.
func atMinute(dayLocal time.Time, minute int, loc *time.Location) time.Time {
	return time.Date(dayLocal.Year(), dayLocal.Month(), dayLocal.Day(), minute/60, minute%60, 0, 0, loc)
}
