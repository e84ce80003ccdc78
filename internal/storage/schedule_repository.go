package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/glowdesk/internal/booking"
	"github.com/glowdesk/glowdesk/internal/model"
	"github.com/glowdesk/glowdesk/internal/schedule"
	"github.com/glowdesk/glowdesk/libs/db"
)

// ScheduleRepository reads and writes scheduling configuration: locations,
// business hours, staff, recurring availability windows, time off and services.
type ScheduleRepository struct {
	pool *db.Pool
}

func NewScheduleRepository(pool *db.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

func (r *ScheduleRepository) Location(ctx context.Context, id string) (model.Location, error) {
	var loc model.Location
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, timezone, created_at
		FROM locations
		WHERE id = $1
	`, id).Scan(&loc.ID, &loc.Name, &loc.Timezone, &loc.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return model.Location{}, booking.ErrNotFound
		}
		return model.Location{}, err
	}
	return loc, nil
}

func (r *ScheduleRepository) CreateLocation(ctx context.Context, name, timezone string) (model.Location, error) {
	loc := model.Location{ID: uuid.NewString(), Name: name, Timezone: timezone}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO locations (id, name, timezone)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, loc.ID, loc.Name, loc.Timezone).Scan(&loc.CreatedAt)
	if err != nil {
		return model.Location{}, fmt.Errorf("insert location: %w", err)
	}
	return loc, nil
}

func (r *ScheduleRepository) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, timezone, created_at
		FROM locations
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Timezone, &loc.CreatedAt); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// LocationHours loads the weekly business-hours configuration. Weekdays with no
// row are simply absent from the map, which the schedule package reads as
// closed.
func (r *ScheduleRepository) LocationHours(ctx context.Context, locationID string) (schedule.WeekHours, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT weekday, open_minute, close_minute
		FROM location_hours
		WHERE location_id = $1
	`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hours := schedule.WeekHours{}
	for rows.Next() {
		var weekday, openMin, closeMin int
		if err := rows.Scan(&weekday, &openMin, &closeMin); err != nil {
			return nil, err
		}
		hours[time.Weekday(weekday)] = schedule.DayHours{OpenMinute: openMin, CloseMinute: closeMin}
	}
	return hours, rows.Err()
}

// SetLocationHours replaces one weekday's hours for a location.
func (r *ScheduleRepository) SetLocationHours(ctx context.Context, locationID string, weekday time.Weekday, hours schedule.DayHours) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO location_hours (location_id, weekday, open_minute, close_minute)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (location_id, weekday)
		DO UPDATE SET open_minute = EXCLUDED.open_minute, close_minute = EXCLUDED.close_minute
	`, locationID, int(weekday), hours.OpenMinute, hours.CloseMinute)
	if err != nil {
		return fmt.Errorf("upsert location hours: %w", err)
	}
	return nil
}

// ClearLocationHours marks a weekday closed by removing its row.
func (r *ScheduleRepository) ClearLocationHours(ctx context.Context, locationID string, weekday time.Weekday) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM location_hours
		WHERE location_id = $1 AND weekday = $2
	`, locationID, int(weekday))
	return err
}

func (r *ScheduleRepository) StaffMember(ctx context.Context, id string) (model.Staff, error) {
	var st model.Staff
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, location_id::text, name, is_active, created_at
		FROM staff
		WHERE id = $1 AND is_active
	`, id).Scan(&st.ID, &st.LocationID, &st.Name, &st.IsActive, &st.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return model.Staff{}, booking.ErrNotFound
		}
		return model.Staff{}, err
	}
	return st, nil
}

func (r *ScheduleRepository) CreateStaff(ctx context.Context, locationID, name string) (model.Staff, error) {
	st := model.Staff{ID: uuid.NewString(), LocationID: locationID, Name: name, IsActive: true}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO staff (id, location_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, st.ID, st.LocationID, st.Name).Scan(&st.CreatedAt)
	if err != nil {
		return model.Staff{}, fmt.Errorf("insert staff: %w", err)
	}
	return st, nil
}

func (r *ScheduleRepository) ListStaff(ctx context.Context, locationID string) ([]model.Staff, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, location_id::text, name, is_active, created_at
		FROM staff
		WHERE location_id = $1
		ORDER BY name ASC
	`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Staff
	for rows.Next() {
		var st model.Staff
		if err := rows.Scan(&st.ID, &st.LocationID, &st.Name, &st.IsActive, &st.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, st)
	}
	return members, rows.Err()
}

// DeactivateStaff takes a staff member out of the booking flow without touching
// their appointment history.
func (r *ScheduleRepository) DeactivateStaff(ctx context.Context, locationID, staffID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE staff
		SET is_active = FALSE
		WHERE id = $1 AND location_id = $2
	`, staffID, locationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepository) StaffWindows(ctx context.Context, staffID string) ([]schedule.WeeklyWindow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, weekday, start_minute, end_minute
		FROM staff_availability
		WHERE staff_id = $1
		ORDER BY weekday ASC, start_minute ASC
	`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []schedule.WeeklyWindow
	for rows.Next() {
		var w schedule.WeeklyWindow
		var weekday int
		if err := rows.Scan(&w.ID, &weekday, &w.StartMinute, &w.EndMinute); err != nil {
			return nil, err
		}
		w.Weekday = time.Weekday(weekday)
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// AddStaffWindow inserts a recurring availability window. Same-weekday overlap
// for the same staff member is rejected by an exclusion constraint and mapped
// to booking.ErrOverlappingWindow.
func (r *ScheduleRepository) AddStaffWindow(ctx context.Context, staffID string, w schedule.WeeklyWindow) (schedule.WeeklyWindow, error) {
	w.ID = uuid.NewString()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_availability (id, staff_id, weekday, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5)
	`, w.ID, staffID, int(w.Weekday), w.StartMinute, w.EndMinute)
	if err != nil {
		if isExclusionViolation(err) {
			return schedule.WeeklyWindow{}, booking.ErrOverlappingWindow
		}
		return schedule.WeeklyWindow{}, fmt.Errorf("insert staff window: %w", err)
	}
	return w, nil
}

func (r *ScheduleRepository) RemoveStaffWindow(ctx context.Context, staffID, windowID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM staff_availability
		WHERE id = $1 AND staff_id = $2
	`, windowID, staffID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// StaffTimeOff returns time-off intervals overlapping [from, to).
func (r *ScheduleRepository) StaffTimeOff(ctx context.Context, staffID string, from, to time.Time) ([]schedule.Interval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_time, end_time
		FROM staff_time_off
		WHERE staff_id = $1
			AND start_time < $3
			AND end_time > $2
		ORDER BY start_time ASC
	`, staffID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []schedule.Interval
	for rows.Next() {
		var iv schedule.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, err
		}
		blocks = append(blocks, iv)
	}
	return blocks, rows.Err()
}

func (r *ScheduleRepository) CreateTimeOff(ctx context.Context, t *model.TimeOff) error {
	t.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO staff_time_off (id, staff_id, start_time, end_time, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, t.ID, t.StaffID, t.StartTime, t.EndTime, t.Reason).Scan(&t.CreatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return booking.ErrOverlappingWindow
		}
		return fmt.Errorf("insert time off: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) ListTimeOff(ctx context.Context, staffID string) ([]model.TimeOff, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, staff_id::text, start_time, end_time, COALESCE(reason, ''), created_at
		FROM staff_time_off
		WHERE staff_id = $1
		ORDER BY start_time ASC
	`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.TimeOff
	for rows.Next() {
		var t model.TimeOff
		if err := rows.Scan(&t.ID, &t.StaffID, &t.StartTime, &t.EndTime, &t.Reason, &t.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

func (r *ScheduleRepository) DeleteTimeOff(ctx context.Context, staffID, timeOffID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM staff_time_off
		WHERE id = $1 AND staff_id = $2
	`, timeOffID, staffID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepository) Service(ctx context.Context, id string) (model.Service, error) {
	var svc model.Service
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, location_id::text, name, duration_minutes, buffer_minutes,
			COALESCE(price, ''), COALESCE(description, ''), created_at
		FROM services
		WHERE id = $1
	`, id).Scan(&svc.ID, &svc.LocationID, &svc.Name, &svc.DurationMinutes,
		&svc.BufferMinutes, &svc.Price, &svc.Description, &svc.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return model.Service{}, booking.ErrNotFound
		}
		return model.Service{}, err
	}
	return svc, nil
}

func (r *ScheduleRepository) CreateService(ctx context.Context, svc *model.Service) error {
	svc.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, location_id, name, duration_minutes, buffer_minutes, price, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, svc.ID, svc.LocationID, svc.Name, svc.DurationMinutes, svc.BufferMinutes,
		svc.Price, svc.Description).Scan(&svc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) ListServices(ctx context.Context, locationID string) ([]model.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, location_id::text, name, duration_minutes, buffer_minutes,
			COALESCE(price, ''), COALESCE(description, ''), created_at
		FROM services
		WHERE location_id = $1
		ORDER BY name ASC
	`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var svc model.Service
		if err := rows.Scan(&svc.ID, &svc.LocationID, &svc.Name, &svc.DurationMinutes,
			&svc.BufferMinutes, &svc.Price, &svc.Description, &svc.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}
