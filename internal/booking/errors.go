package booking

import "errors"

var (
	// ErrSlotConflict means the requested time overlaps a blocking appointment
	// for the same staff member. Retryable from the caller's point of view:
	// pick another time.
	ErrSlotConflict = errors.New("time slot already booked")

	// ErrOutsideAvailability means the requested interval does not fit inside
	// the staff member's availability for that day.
	ErrOutsideAvailability = errors.New("requested time is outside availability")

	// ErrNotFound covers unknown location/staff/service/appointment ids.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput covers malformed caller input, reported before any
	// scheduling logic runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition means the appointment's current status does not
	// allow the requested status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOverlappingWindow means a staff availability window or time-off entry
	// overlaps an existing one.
	ErrOverlappingWindow = errors.New("overlapping interval")
)
