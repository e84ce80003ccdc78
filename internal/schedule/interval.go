package schedule

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End). An interval ending at t does
// not overlap one starting at t.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Valid() bool {
	return !iv.Start.IsZero() && iv.End.After(iv.Start)
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether other lies fully within iv.
func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// Clip restricts iv to bound. The second return is false when nothing remains.
func (iv Interval) Clip(bound Interval) (Interval, bool) {
	out := iv
	if out.Start.Before(bound.Start) {
		out.Start = bound.Start
	}
	if out.End.After(bound.End) {
		out.End = bound.End
	}
	if !out.End.After(out.Start) {
		return Interval{}, false
	}
	return out, true
}

func OverlapsAny(iv Interval, busy []Interval) bool {
	for _, b := range busy {
		if iv.Overlaps(b) {
			return true
		}
	}
	return false
}

// Subtract removes blocks from base and returns the remaining disjoint intervals
// in ascending order. Blocks may overlap each other and extend past base.
func Subtract(base Interval, blocks []Interval) []Interval {
	if !base.Valid() {
		return nil
	}

	var clipped []Interval
	for _, b := range blocks {
		c, ok := b.Clip(base)
		if ok {
			clipped = append(clipped, c)
		}
	}
	if len(clipped) == 0 {
		return []Interval{base}
	}

	sort.Slice(clipped, func(i, j int) bool {
		if clipped[i].Start.Equal(clipped[j].Start) {
			return clipped[i].End.Before(clipped[j].End)
		}
		return clipped[i].Start.Before(clipped[j].Start)
	})

	merged := clipped[:1]
	for _, cur := range clipped[1:] {
		last := &merged[len(merged)-1]
		if cur.Start.After(last.End) {
			merged = append(merged, cur)
			continue
		}
		if cur.End.After(last.End) {
			last.End = cur.End
		}
	}

	var out []Interval
	cursor := base.Start
	for _, m := range merged {
		if m.Start.After(cursor) {
			out = append(out, Interval{Start: cursor, End: m.Start})
		}
		if m.End.After(cursor) {
			cursor = m.End
		}
	}
	if base.End.After(cursor) {
		out = append(out, Interval{Start: cursor, End: base.End})
	}
	return out
}
