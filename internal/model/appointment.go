package model

import "time"

type AppointmentStatus string

const (
	StatusScheduled             AppointmentStatus = "scheduled"
	StatusConfirmed             AppointmentStatus = "confirmed"
	StatusInProgress            AppointmentStatus = "in_progress"
	StatusCompleted             AppointmentStatus = "completed"
	StatusCanceled              AppointmentStatus = "canceled"
	StatusNoShow                AppointmentStatus = "no_show"
	StatusCancellationRequested AppointmentStatus = "cancellation_requested"
)

// BlockingStatuses are the statuses that occupy staff time. Appointments in any
// other status never block a new booking.
var BlockingStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}

func (s AppointmentStatus) Blocks() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCanceled, StatusNoShow, StatusCancellationRequested:
		return true
	}
	return false
}

// Terminal reports whether an appointment may be archived in this status.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:             {StatusConfirmed, StatusInProgress, StatusCanceled, StatusNoShow, StatusCancellationRequested},
	StatusConfirmed:             {StatusInProgress, StatusCanceled, StatusNoShow, StatusCancellationRequested},
	StatusInProgress:            {StatusCompleted, StatusCanceled},
	StatusCancellationRequested: {StatusCanceled, StatusConfirmed},
}

// CanTransition reports whether moving an appointment from one status to another
// is allowed. Completed, canceled and no_show are terminal.
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID           string
	LocationID   string
	StaffID      string
	ServiceID    string
	ClientID     string
	StartTime    time.Time
	EndTime      time.Time
	Status       AppointmentStatus
	Notes        string
	Archived     bool
	CanceledAt   *time.Time
	CancelReason string
	CreatedAt    time.Time
}

type Location struct {
	ID        string
	Name      string
	Timezone  string
	CreatedAt time.Time
}

type Staff struct {
	ID         string
	LocationID string
	Name       string
	IsActive   bool
	CreatedAt  time.Time
}

// Service is a bookable treatment. Duration sets the slot size for its booking
// flow; Buffer is an explicit pad applied on top of the duration during conflict
// checks only (cleanup time between clients).
type Service struct {
	ID              string
	LocationID      string
	Name            string
	DurationMinutes int
	BufferMinutes   int
	Price           string
	Description     string
	CreatedAt       time.Time
}

type TimeOff struct {
	ID        string
	StaffID   string
	StartTime time.Time
	EndTime   time.Time
	Reason    string
	CreatedAt time.Time
}
