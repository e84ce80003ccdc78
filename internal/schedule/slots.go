package schedule

import "time"

// Slot is a derived, ephemeral candidate booking interval. Never persisted;
// recomputed on every query.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
}

// GenerateSlots discretizes the working intervals into slots of length duration,
// stepping by duration from each interval's start; a trailing remainder shorter
// than duration is discarded. A slot is available unless it starts in the past
// or its padded interval [s, s+duration+buffer) overlaps any busy interval. A
// slot starting exactly where a busy interval ends is available.
//
// Working intervals must be ordered ascending; the output then is too.
func GenerateSlots(working []Interval, busy []Interval, duration, buffer time.Duration, now time.Time) []Slot {
	if duration <= 0 {
		return nil
	}
	if buffer < 0 {
		buffer = 0
	}

	var slots []Slot
	for _, w := range working {
		for s := w.Start; !s.Add(duration).After(w.End); s = s.Add(duration) {
			end := s.Add(duration)
			probe := Interval{Start: s, End: end.Add(buffer)}
			slots = append(slots, Slot{
				Start:     s,
				End:       end,
				Available: !s.Before(now) && !OverlapsAny(probe, busy),
			})
		}
	}
	return slots
}
