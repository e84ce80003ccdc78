package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/glowdesk/glowdesk/internal/booking"
	"github.com/glowdesk/glowdesk/internal/model"
	"github.com/glowdesk/glowdesk/internal/outbox"
	"github.com/glowdesk/glowdesk/internal/schedule"
	"github.com/glowdesk/glowdesk/libs/db"
)

// blockingStatuses mirrors the WHERE clause of the appointments no-overlap
// exclusion constraint; keep the two in sync.
var blockingStatuses = []string{
	string(model.StatusScheduled),
	string(model.StatusConfirmed),
	string(model.StatusInProgress),
	string(model.StatusCompleted),
}

type AppointmentRepository struct {
	pool       *db.Pool
	outboxRepo *outbox.Repository
}

func NewAppointmentRepository(pool *db.Pool, outboxRepo *outbox.Repository) *AppointmentRepository {
	return &AppointmentRepository{pool: pool, outboxRepo: outboxRepo}
}

const appointmentColumns = `
	id::text, location_id::text, staff_id::text, service_id::text, client_id,
	start_time, end_time, status, COALESCE(notes, ''), archived,
	canceled_at, COALESCE(cancel_reason, ''), created_at`

// BlockingIntervals is the booking index: ordered busy intervals for a staff
// member in [from, to), considering only statuses that occupy staff time.
// Reads committed state directly; no caching.
func (r *AppointmentRepository) BlockingIntervals(ctx context.Context, staffID string, from, to time.Time) ([]schedule.Interval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_time, end_time
		FROM appointments
		WHERE staff_id = $1
			AND status = ANY($2)
			AND start_time < $4
			AND end_time > $3
		ORDER BY start_time ASC
	`, staffID, blockingStatuses, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var busy []schedule.Interval
	for rows.Next() {
		var iv schedule.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, err
		}
		busy = append(busy, iv)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return busy, nil
}

// CreateScheduled inserts a new appointment with status scheduled. The
// check-then-insert race is settled by the database: the exclusion constraint
// on (staff_id, time range) rejects the loser with SQLSTATE 23P01, which maps
// to booking.ErrSlotConflict.
func (r *AppointmentRepository) CreateScheduled(ctx context.Context, appt *model.Appointment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO appointments
			(location_id, staff_id, service_id, client_id, start_time, end_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at
	`, appt.LocationID, appt.StaffID, appt.ServiceID, appt.ClientID,
		appt.StartTime, appt.EndTime, string(appt.Status), appt.Notes).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return booking.ErrSlotConflict
		}
		return fmt.Errorf("insert appointment: %w", err)
	}

	if err := r.insertEvent(ctx, tx, outbox.EventAppointmentScheduled, *appt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Transition applies a status change under a row lock. Cancelling an already
// canceled appointment is idempotent and returns the current row.
func (r *AppointmentRepository) Transition(ctx context.Context, locationID, appointmentID string, to model.AppointmentStatus, reason string) (model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := r.getForUpdate(ctx, tx, locationID, appointmentID)
	if err != nil {
		return model.Appointment{}, err
	}

	if to == model.StatusCanceled && appt.Status == model.StatusCanceled {
		return appt, nil
	}
	if !model.CanTransition(appt.Status, to) {
		return model.Appointment{}, fmt.Errorf("%w: %s -> %s", booking.ErrInvalidTransition, appt.Status, to)
	}

	if to == model.StatusCanceled {
		var canceledAt time.Time
		err = tx.QueryRow(ctx, `
			UPDATE appointments
			SET status = $3,
				canceled_at = now(),
				cancel_reason = $4
			WHERE id = $1 AND location_id = $2
			RETURNING canceled_at
		`, appointmentID, locationID, string(to), reason).Scan(&canceledAt)
		if err != nil {
			return model.Appointment{}, fmt.Errorf("cancel appointment: %w", err)
		}
		appt.CanceledAt = &canceledAt
		appt.CancelReason = reason
	} else {
		if _, err := tx.Exec(ctx, `
			UPDATE appointments
			SET status = $3
			WHERE id = $1 AND location_id = $2
		`, appointmentID, locationID, string(to)); err != nil {
			// Re-entering a blocking status (cancellation denied) re-qualifies
			// the row for the no-overlap constraint; the slot may have been
			// rebooked while the cancellation was pending.
			if isExclusionViolation(err) {
				return model.Appointment{}, booking.ErrSlotConflict
			}
			return model.Appointment{}, fmt.Errorf("update status: %w", err)
		}
	}
	appt.Status = to

	eventType := outbox.EventAppointmentStatus
	if to == model.StatusCanceled {
		eventType = outbox.EventAppointmentCanceled
	}
	if err := r.insertEvent(ctx, tx, eventType, appt); err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

// Archive soft-hides a terminal appointment. Rows are never deleted.
func (r *AppointmentRepository) Archive(ctx context.Context, locationID, appointmentID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := r.getForUpdate(ctx, tx, locationID, appointmentID)
	if err != nil {
		return err
	}
	if !appt.Status.Terminal() {
		return fmt.Errorf("%w: cannot archive %s appointment", booking.ErrInvalidTransition, appt.Status)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE appointments
		SET archived = TRUE
		WHERE id = $1 AND location_id = $2
	`, appointmentID, locationID); err != nil {
		return fmt.Errorf("archive appointment: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *AppointmentRepository) Get(ctx context.Context, locationID, appointmentID string) (model.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1 AND location_id = $2
	`, appointmentID, locationID)
	appt, err := scanAppointment(row)
	if err != nil {
		if isNoRows(err) {
			return model.Appointment{}, fmt.Errorf("appointment %s: %w", appointmentID, booking.ErrNotFound)
		}
		return model.Appointment{}, err
	}
	return appt, nil
}

func (r *AppointmentRepository) List(ctx context.Context, locationID string, limit int) ([]model.Appointment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE location_id = $1 AND NOT archived
		ORDER BY start_time DESC
		LIMIT $2
	`, locationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

func (r *AppointmentRepository) getForUpdate(ctx context.Context, tx pgx.Tx, locationID, appointmentID string) (model.Appointment, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1 AND location_id = $2
		FOR UPDATE
	`, appointmentID, locationID)
	appt, err := scanAppointment(row)
	if err != nil {
		if isNoRows(err) {
			return model.Appointment{}, fmt.Errorf("appointment %s: %w", appointmentID, booking.ErrNotFound)
		}
		return model.Appointment{}, err
	}
	return appt, nil
}

func (r *AppointmentRepository) insertEvent(ctx context.Context, tx pgx.Tx, eventType string, appt model.Appointment) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"location_id":    appt.LocationID,
		"staff_id":       appt.StaffID,
		"service_id":     appt.ServiceID,
		"client_id":      appt.ClientID,
		"start_time":     appt.StartTime.UTC().Format(time.RFC3339),
		"end_time":       appt.EndTime.UTC().Format(time.RFC3339),
		"status":         string(appt.Status),
	})
	if err != nil {
		return fmt.Errorf("build event payload: %w", err)
	}
	return r.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (model.Appointment, error) {
	var appt model.Appointment
	var status string
	var canceledAt *time.Time
	err := row.Scan(
		&appt.ID,
		&appt.LocationID,
		&appt.StaffID,
		&appt.ServiceID,
		&appt.ClientID,
		&appt.StartTime,
		&appt.EndTime,
		&status,
		&appt.Notes,
		&appt.Archived,
		&canceledAt,
		&appt.CancelReason,
		&appt.CreatedAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	appt.Status = model.AppointmentStatus(status)
	appt.CanceledAt = canceledAt
	return appt, nil
}
