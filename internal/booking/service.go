// Package booking is the scheduling core's entry point: slot queries and the
// conflict-checked appointment commit. Availability is always derived at query
// time from configuration plus the current appointment state; nothing here is
// cached.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/glowdesk/glowdesk/internal/model"
	"github.com/glowdesk/glowdesk/internal/schedule"
)

// ScheduleStore reads scheduling configuration: locations, business hours,
// staff and their recurring windows, services.
type ScheduleStore interface {
	Location(ctx context.Context, id string) (model.Location, error)
	LocationHours(ctx context.Context, locationID string) (schedule.WeekHours, error)
	StaffMember(ctx context.Context, id string) (model.Staff, error)
	StaffWindows(ctx context.Context, staffID string) ([]schedule.WeeklyWindow, error)
	StaffTimeOff(ctx context.Context, staffID string, from, to time.Time) ([]schedule.Interval, error)
	Service(ctx context.Context, id string) (model.Service, error)
}

// AppointmentStore reads and mutates appointments. CreateScheduled must be
// atomic with respect to concurrent creates for the same staff member: of two
// racing inserts for overlapping intervals exactly one succeeds and the other
// returns ErrSlotConflict.
type AppointmentStore interface {
	BlockingIntervals(ctx context.Context, staffID string, from, to time.Time) ([]schedule.Interval, error)
	CreateScheduled(ctx context.Context, appt *model.Appointment) error
	Get(ctx context.Context, locationID, appointmentID string) (model.Appointment, error)
	Transition(ctx context.Context, locationID, appointmentID string, to model.AppointmentStatus, reason string) (model.Appointment, error)
	Archive(ctx context.Context, locationID, appointmentID string) error
	List(ctx context.Context, locationID string, limit int) ([]model.Appointment, error)
}

type Service struct {
	sched ScheduleStore
	appts AppointmentStore
	now   func() time.Time
}

func NewService(sched ScheduleStore, appts AppointmentStore) *Service {
	return &Service{
		sched: sched,
		appts: appts,
		now:   time.Now,
	}
}

// Slot is a candidate booking interval for one staff member.
type Slot struct {
	StaffID   string
	Start     time.Time
	End       time.Time
	Available bool
}

// AvailableSlots computes the bookable slots for a staff member, service and
// date at a location. Misconfiguration (no business hours, no staff windows)
// yields an empty result, never an error: the system fails safe toward
// under-booking. Unknown ids are reported before any slot math runs.
func (s *Service) AvailableSlots(ctx context.Context, locationID, staffID, serviceID, date string) ([]Slot, error) {
	if locationID == "" || staffID == "" || serviceID == "" || date == "" {
		return nil, fmt.Errorf("%w: location_id, staff_id, service_id and date are required", ErrInvalidInput)
	}

	loc, tz, err := s.location(ctx, locationID)
	if err != nil {
		return nil, err
	}
	staff, err := s.sched.StaffMember(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("staff %s: %w", staffID, err)
	}
	if staff.LocationID != loc.ID {
		return nil, fmt.Errorf("%w: staff %s does not work at location %s", ErrNotFound, staffID, locationID)
	}
	svc, err := s.sched.Service(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", serviceID, err)
	}
	if svc.LocationID != loc.ID {
		return nil, fmt.Errorf("%w: service %s is not offered at location %s", ErrNotFound, serviceID, locationID)
	}
	if svc.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service %s has no duration", ErrInvalidInput, serviceID)
	}

	day, err := schedule.LocalDay(date, tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	working, err := s.workingIntervals(ctx, loc, staffID, day, tz)
	if err != nil {
		return nil, err
	}
	if len(working) == 0 {
		return nil, nil
	}

	span, ok := schedule.Span(working)
	if !ok {
		return nil, nil
	}
	busy, err := s.appts.BlockingIntervals(ctx, staffID, span.Start, span.End)
	if err != nil {
		return nil, fmt.Errorf("load blocking intervals: %w", err)
	}

	duration := time.Duration(svc.DurationMinutes) * time.Minute
	buffer := time.Duration(svc.BufferMinutes) * time.Minute
	generated := schedule.GenerateSlots(working, busy, duration, buffer, s.now())

	slots := make([]Slot, 0, len(generated))
	for _, g := range generated {
		slots = append(slots, Slot{
			StaffID:   staffID,
			Start:     g.Start,
			End:       g.End,
			Available: g.Available,
		})
	}
	return slots, nil
}

type CommitRequest struct {
	LocationID string
	StaffID    string
	ServiceID  string
	ClientID   string
	StartTime  time.Time
	EndTime    time.Time
	Notes      string
}

// Commit is the conflict-checked gate before persisting a new appointment. It
// re-validates the requested interval against staff availability and relies on
// the store's atomic create for the overlap guarantee; the slot list shown to
// the user may have gone stale between query and submission.
func (s *Service) Commit(ctx context.Context, req CommitRequest) (model.Appointment, error) {
	if req.LocationID == "" || req.StaffID == "" || req.ServiceID == "" || req.ClientID == "" {
		return model.Appointment{}, fmt.Errorf("%w: location_id, staff_id, service_id and client_id are required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return model.Appointment{}, fmt.Errorf("%w: end_time must be after start_time", ErrInvalidInput)
	}

	loc, tz, err := s.location(ctx, req.LocationID)
	if err != nil {
		return model.Appointment{}, err
	}
	staff, err := s.sched.StaffMember(ctx, req.StaffID)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("staff %s: %w", req.StaffID, err)
	}
	if staff.LocationID != loc.ID {
		return model.Appointment{}, fmt.Errorf("%w: staff %s does not work at location %s", ErrNotFound, req.StaffID, req.LocationID)
	}
	svc, err := s.sched.Service(ctx, req.ServiceID)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("service %s: %w", req.ServiceID, err)
	}
	if svc.LocationID != loc.ID {
		return model.Appointment{}, fmt.Errorf("%w: service %s is not offered at location %s", ErrNotFound, req.ServiceID, req.LocationID)
	}

	day := startOfDay(req.StartTime.In(tz))
	working, err := s.workingIntervals(ctx, loc, req.StaffID, day, tz)
	if err != nil {
		return model.Appointment{}, err
	}
	requested := schedule.Interval{Start: req.StartTime, End: req.EndTime}
	if !containedInAny(requested, working) {
		return model.Appointment{}, ErrOutsideAvailability
	}

	appt := &model.Appointment{
		LocationID: req.LocationID,
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		ClientID:   req.ClientID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     model.StatusScheduled,
		Notes:      req.Notes,
	}
	if err := s.appts.CreateScheduled(ctx, appt); err != nil {
		return model.Appointment{}, err
	}
	return *appt, nil
}

// Transition applies a status change (confirm, start, complete, cancel,
// no-show, request/resolve cancellation) under the model's transition rules.
func (s *Service) Transition(ctx context.Context, locationID, appointmentID string, to model.AppointmentStatus, reason string) (model.Appointment, error) {
	if locationID == "" || appointmentID == "" {
		return model.Appointment{}, fmt.Errorf("%w: location_id and appointment_id are required", ErrInvalidInput)
	}
	if !to.Valid() {
		return model.Appointment{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	if to == model.StatusNoShow {
		appt, err := s.appts.Get(ctx, locationID, appointmentID)
		if err != nil {
			return model.Appointment{}, err
		}
		if s.now().Before(appt.StartTime) {
			return model.Appointment{}, fmt.Errorf("%w: cannot mark no_show before the appointment starts", ErrInvalidTransition)
		}
	}
	return s.appts.Transition(ctx, locationID, appointmentID, to, reason)
}

// Cancel is a convenience wrapper for the canceled transition.
func (s *Service) Cancel(ctx context.Context, locationID, appointmentID, reason string) (model.Appointment, error) {
	return s.Transition(ctx, locationID, appointmentID, model.StatusCanceled, reason)
}

func (s *Service) Archive(ctx context.Context, locationID, appointmentID string) error {
	if locationID == "" || appointmentID == "" {
		return fmt.Errorf("%w: location_id and appointment_id are required", ErrInvalidInput)
	}
	return s.appts.Archive(ctx, locationID, appointmentID)
}

func (s *Service) List(ctx context.Context, locationID string, limit int) ([]model.Appointment, error) {
	if locationID == "" {
		return nil, fmt.Errorf("%w: location_id is required", ErrInvalidInput)
	}
	return s.appts.List(ctx, locationID, limit)
}

func (s *Service) location(ctx context.Context, id string) (model.Location, *time.Location, error) {
	loc, err := s.sched.Location(ctx, id)
	if err != nil {
		return model.Location{}, nil, fmt.Errorf("location %s: %w", id, err)
	}
	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		return model.Location{}, nil, fmt.Errorf("%w: location %s has invalid timezone %q", ErrInvalidInput, id, loc.Timezone)
	}
	return loc, tz, nil
}

func (s *Service) workingIntervals(ctx context.Context, loc model.Location, staffID string, day time.Time, tz *time.Location) ([]schedule.Interval, error) {
	hours, err := s.sched.LocationHours(ctx, loc.ID)
	if err != nil {
		return nil, fmt.Errorf("load business hours: %w", err)
	}
	open, ok := schedule.OpenInterval(day, hours, tz)
	if !ok {
		return nil, nil
	}
	windows, err := s.sched.StaffWindows(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("load staff windows: %w", err)
	}
	timeOff, err := s.sched.StaffTimeOff(ctx, staffID, open.Start, open.End)
	if err != nil {
		return nil, fmt.Errorf("load time off: %w", err)
	}
	return schedule.WorkingIntervals(day, tz, open, windows, timeOff), nil
}

func containedInAny(iv schedule.Interval, working []schedule.Interval) bool {
	for _, w := range working {
		if w.Contains(iv) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
