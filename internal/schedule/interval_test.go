package schedule

import (
	"testing"
	"time"
)

func iv(t *testing.T, day time.Time, startH, startM, endH, endM int) Interval {
	t.Helper()
	return Interval{
		Start: day.Add(time.Duration(startH)*time.Hour + time.Duration(startM)*time.Minute),
		End:   day.Add(time.Duration(endH)*time.Hour + time.Duration(endM)*time.Minute),
	}
}

func TestInterval_Overlaps_HalfOpen(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	a := iv(t, day, 9, 0, 10, 0)
	b := iv(t, day, 10, 0, 11, 0)
	if a.Overlaps(b) {
		t.Fatal("touching intervals must not overlap (half-open)")
	}

	c := iv(t, day, 9, 30, 10, 30)
	if !a.Overlaps(c) || !c.Overlaps(a) {
		t.Fatal("partially overlapping intervals should overlap both ways")
	}

	inner := iv(t, day, 9, 15, 9, 45)
	if !a.Overlaps(inner) {
		t.Fatal("contained interval should overlap")
	}
}

func TestInterval_Clip(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	bound := iv(t, day, 9, 0, 17, 0)

	clipped, ok := iv(t, day, 8, 0, 12, 0).Clip(bound)
	if !ok {
		t.Fatal("expected non-empty clip")
	}
	want := iv(t, day, 9, 0, 12, 0)
	if !clipped.Start.Equal(want.Start) || !clipped.End.Equal(want.End) {
		t.Fatalf("clip = [%s, %s), want [%s, %s)", clipped.Start, clipped.End, want.Start, want.End)
	}

	if _, ok := iv(t, day, 6, 0, 9, 0).Clip(bound); ok {
		t.Fatal("interval entirely before the bound should clip to nothing")
	}
}

func TestSubtract_MergesOverlappingBlocks(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	base := iv(t, day, 9, 0, 17, 0)

	blocks := []Interval{
		iv(t, day, 11, 0, 12, 30),
		iv(t, day, 12, 0, 13, 0), // overlaps the previous block
		iv(t, day, 16, 0, 18, 0), // extends past base
	}

	got := Subtract(base, blocks)
	want := []Interval{
		iv(t, day, 9, 0, 11, 0),
		iv(t, day, 13, 0, 16, 0),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d intervals, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Fatalf("interval %d = [%s, %s), want [%s, %s)", i, got[i].Start, got[i].End, want[i].Start, want[i].End)
		}
	}
}

func TestSubtract_NoBlocksReturnsBase(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	base := iv(t, day, 9, 0, 17, 0)

	got := Subtract(base, nil)
	if len(got) != 1 || !got[0].Start.Equal(base.Start) || !got[0].End.Equal(base.End) {
		t.Fatalf("expected base back, got %v", got)
	}
}

func TestSubtract_BlockCoversBase(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	base := iv(t, day, 9, 0, 17, 0)

	got := Subtract(base, []Interval{iv(t, day, 8, 0, 18, 0)})
	if len(got) != 0 {
		t.Fatalf("expected nothing left, got %v", got)
	}
}
