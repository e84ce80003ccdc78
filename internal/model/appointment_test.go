package model

import "testing"

func TestStatusBlocks(t *testing.T) {
	blocking := []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted}
	for _, s := range blocking {
		if !s.Blocks() {
			t.Errorf("%s should block", s)
		}
	}
	for _, s := range []AppointmentStatus{StatusCanceled, StatusNoShow, StatusCancellationRequested} {
		if s.Blocks() {
			t.Errorf("%s should not block", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCanceled, true},
		{StatusScheduled, StatusCompleted, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusNoShow, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCanceled, StatusScheduled, false},
		{StatusCancellationRequested, StatusCanceled, true},
		{StatusCancellationRequested, StatusConfirmed, true},
		{StatusNoShow, StatusCanceled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusCompleted, StatusCanceled, StatusNoShow} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCancellationRequested} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
