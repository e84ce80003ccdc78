package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/glowdesk/glowdesk/internal/booking"
	"github.com/glowdesk/glowdesk/internal/model"
	"github.com/glowdesk/glowdesk/internal/schedule"
	"github.com/glowdesk/glowdesk/internal/storage"
)

// AdminHandler serves scheduling configuration: locations, business hours,
// staff, recurring availability, time off and services. Location scope comes
// from the X-Location-Id header.
type AdminHandler struct {
	repo   *storage.ScheduleRepository
	logger *slog.Logger
}

func NewAdminHandler(repo *storage.ScheduleRepository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{repo: repo, logger: logger}
}

func locationIDFromHeader(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Location-Id"))
}

func (h *AdminHandler) Locations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createLocation(w, r)
	case http.MethodGet:
		h.listLocations(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) createLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Timezone string `json:"timezone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Timezone = strings.TrimSpace(req.Timezone)
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		http.Error(w, "invalid timezone", http.StatusBadRequest)
		return
	}

	loc, err := h.repo.CreateLocation(r.Context(), req.Name, req.Timezone)
	if err != nil {
		h.logger.Error("failed to create location", "err", err)
		http.Error(w, "failed to create location", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       loc.ID,
		"name":     loc.Name,
		"timezone": loc.Timezone,
	})
}

func (h *AdminHandler) listLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.repo.ListLocations(r.Context())
	if err != nil {
		h.logger.Error("failed to list locations", "err", err)
		http.Error(w, "failed to list locations", http.StatusInternalServerError)
		return
	}
	items := make([]map[string]any, 0, len(locs))
	for _, loc := range locs {
		items = append(items, map[string]any{
			"id":       loc.ID,
			"name":     loc.Name,
			"timezone": loc.Timezone,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AdminHandler) Hours(w http.ResponseWriter, r *http.Request) {
	locationID := locationIDFromHeader(r)
	if locationID == "" {
		http.Error(w, "missing X-Location-Id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getHours(w, r, locationID)
	case http.MethodPut:
		h.setHours(w, r, locationID)
	case http.MethodDelete:
		h.clearHours(w, r, locationID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type dayHoursItem struct {
	Weekday     int `json:"weekday"`
	OpenMinute  int `json:"open_minute"`
	CloseMinute int `json:"close_minute"`
}

func (h *AdminHandler) getHours(w http.ResponseWriter, r *http.Request, locationID string) {
	hours, err := h.repo.LocationHours(r.Context(), locationID)
	if err != nil {
		h.logger.Error("failed to load hours", "err", err)
		http.Error(w, "failed to load hours", http.StatusInternalServerError)
		return
	}
	items := make([]dayHoursItem, 0, len(hours))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if dh, ok := hours[wd]; ok {
			items = append(items, dayHoursItem{Weekday: int(wd), OpenMinute: dh.OpenMinute, CloseMinute: dh.CloseMinute})
		}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AdminHandler) setHours(w http.ResponseWriter, r *http.Request, locationID string) {
	var req dayHoursItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		http.Error(w, "weekday must be 0 (Sunday) through 6 (Saturday)", http.StatusBadRequest)
		return
	}
	dh := schedule.DayHours{OpenMinute: req.OpenMinute, CloseMinute: req.CloseMinute}
	if !dh.Valid() {
		http.Error(w, "open_minute must be before close_minute, within one day", http.StatusBadRequest)
		return
	}

	if err := h.repo.SetLocationHours(r.Context(), locationID, time.Weekday(req.Weekday), dh); err != nil {
		h.logger.Error("failed to set hours", "err", err)
		http.Error(w, "failed to set hours", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) clearHours(w http.ResponseWriter, r *http.Request, locationID string) {
	var req struct {
		Weekday int `json:"weekday"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		http.Error(w, "weekday must be 0 (Sunday) through 6 (Saturday)", http.StatusBadRequest)
		return
	}
	if err := h.repo.ClearLocationHours(r.Context(), locationID, time.Weekday(req.Weekday)); err != nil {
		h.logger.Error("failed to clear hours", "err", err)
		http.Error(w, "failed to clear hours", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Staff(w http.ResponseWriter, r *http.Request) {
	locationID := locationIDFromHeader(r)
	if locationID == "" {
		http.Error(w, "missing X-Location-Id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.createStaff(w, r, locationID)
	case http.MethodGet:
		h.listStaff(w, r, locationID)
	case http.MethodDelete:
		h.deactivateStaff(w, r, locationID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) createStaff(w http.ResponseWriter, r *http.Request, locationID string) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	st, err := h.repo.CreateStaff(r.Context(), locationID, req.Name)
	if err != nil {
		h.logger.Error("failed to create staff", "err", err)
		http.Error(w, "failed to create staff", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": st.ID, "name": st.Name})
}

func (h *AdminHandler) listStaff(w http.ResponseWriter, r *http.Request, locationID string) {
	members, err := h.repo.ListStaff(r.Context(), locationID)
	if err != nil {
		h.logger.Error("failed to list staff", "err", err)
		http.Error(w, "failed to list staff", http.StatusInternalServerError)
		return
	}
	items := make([]map[string]any, 0, len(members))
	for _, st := range members {
		items = append(items, map[string]any{
			"id":        st.ID,
			"name":      st.Name,
			"is_active": st.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AdminHandler) deactivateStaff(w http.ResponseWriter, r *http.Request, locationID string) {
	var req struct {
		StaffID string `json:"staff_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.StaffID = strings.TrimSpace(req.StaffID)
	if req.StaffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}
	err := h.repo.DeactivateStaff(r.Context(), locationID, req.StaffID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			http.Error(w, "staff not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to deactivate staff", "err", err)
		http.Error(w, "failed to deactivate staff", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Availability(w http.ResponseWriter, r *http.Request) {
	locationID := locationIDFromHeader(r)
	if locationID == "" {
		http.Error(w, "missing X-Location-Id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listWindows(w, r)
	case http.MethodPost:
		h.addWindow(w, r)
	case http.MethodDelete:
		h.removeWindow(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) listWindows(w http.ResponseWriter, r *http.Request) {
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id required", http.StatusBadRequest)
		return
	}
	windows, err := h.repo.StaffWindows(r.Context(), staffID)
	if err != nil {
		h.logger.Error("failed to list windows", "err", err)
		http.Error(w, "failed to list windows", http.StatusInternalServerError)
		return
	}
	items := make([]map[string]any, 0, len(windows))
	for _, win := range windows {
		items = append(items, map[string]any{
			"id":           win.ID,
			"weekday":      int(win.Weekday),
			"start_minute": win.StartMinute,
			"end_minute":   win.EndMinute,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AdminHandler) addWindow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID     string `json:"staff_id"`
		Weekday     int    `json:"weekday"`
		StartMinute int    `json:"start_minute"`
		EndMinute   int    `json:"end_minute"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.StaffID = strings.TrimSpace(req.StaffID)
	if req.StaffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		http.Error(w, "weekday must be 0 (Sunday) through 6 (Saturday)", http.StatusBadRequest)
		return
	}
	win := schedule.WeeklyWindow{
		Weekday:     time.Weekday(req.Weekday),
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
	}
	if !win.Valid() {
		http.Error(w, "start_minute must be before end_minute, within one day", http.StatusBadRequest)
		return
	}

	created, err := h.repo.AddStaffWindow(r.Context(), req.StaffID, win)
	if err != nil {
		if errors.Is(err, booking.ErrOverlappingWindow) {
			http.Error(w, "window overlaps an existing one", http.StatusConflict)
			return
		}
		h.logger.Error("failed to add window", "err", err)
		http.Error(w, "failed to add window", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": created.ID})
}

func (h *AdminHandler) removeWindow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID  string `json:"staff_id"`
		WindowID string `json:"window_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.StaffID = strings.TrimSpace(req.StaffID)
	req.WindowID = strings.TrimSpace(req.WindowID)
	if req.StaffID == "" || req.WindowID == "" {
		http.Error(w, "staff_id and window_id are required", http.StatusBadRequest)
		return
	}
	err := h.repo.RemoveStaffWindow(r.Context(), req.StaffID, req.WindowID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			http.Error(w, "window not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to remove window", "err", err)
		http.Error(w, "failed to remove window", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) TimeOff(w http.ResponseWriter, r *http.Request) {
	locationID := locationIDFromHeader(r)
	if locationID == "" {
		http.Error(w, "missing X-Location-Id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listTimeOff(w, r)
	case http.MethodPost:
		h.createTimeOff(w, r)
	case http.MethodDelete:
		h.deleteTimeOff(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) listTimeOff(w http.ResponseWriter, r *http.Request) {
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id required", http.StatusBadRequest)
		return
	}
	entries, err := h.repo.ListTimeOff(r.Context(), staffID)
	if err != nil {
		h.logger.Error("failed to list time off", "err", err)
		http.Error(w, "failed to list time off", http.StatusInternalServerError)
		return
	}
	items := make([]map[string]any, 0, len(entries))
	for _, t := range entries {
		items = append(items, map[string]any{
			"id":         t.ID,
			"start_time": t.StartTime.UTC().Format(time.RFC3339),
			"end_time":   t.EndTime.UTC().Format(time.RFC3339),
			"reason":     t.Reason,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AdminHandler) createTimeOff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID   string `json:"staff_id"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.StaffID = strings.TrimSpace(req.StaffID)
	if req.StaffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}
	if !endTime.After(startTime) {
		http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
		return
	}

	entry := &model.TimeOff{
		StaffID:   req.StaffID,
		StartTime: startTime,
		EndTime:   endTime,
		Reason:    strings.TrimSpace(req.Reason),
	}
	if err := h.repo.CreateTimeOff(r.Context(), entry); err != nil {
		if errors.Is(err, booking.ErrOverlappingWindow) {
			http.Error(w, "time off overlaps an existing block", http.StatusConflict)
			return
		}
		h.logger.Error("failed to create time off", "err", err)
		http.Error(w, "failed to create time off", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": entry.ID})
}

func (h *AdminHandler) deleteTimeOff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID   string `json:"staff_id"`
		TimeOffID string `json:"time_off_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.StaffID = strings.TrimSpace(req.StaffID)
	req.TimeOffID = strings.TrimSpace(req.TimeOffID)
	if req.StaffID == "" || req.TimeOffID == "" {
		http.Error(w, "staff_id and time_off_id are required", http.StatusBadRequest)
		return
	}
	err := h.repo.DeleteTimeOff(r.Context(), req.StaffID, req.TimeOffID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			http.Error(w, "time off not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete time off", "err", err)
		http.Error(w, "failed to delete time off", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Services(w http.ResponseWriter, r *http.Request) {
	locationID := locationIDFromHeader(r)
	if locationID == "" {
		http.Error(w, "missing X-Location-Id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.createService(w, r, locationID)
	case http.MethodGet:
		h.listServices(w, r, locationID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) createService(w http.ResponseWriter, r *http.Request, locationID string) {
	var req struct {
		Name         string `json:"name"`
		DurationMins int    `json:"duration_minutes"`
		BufferMins   int    `json:"buffer_minutes"`
		Price        string `json:"price"`
		Description  string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.DurationMins <= 0 {
		http.Error(w, "name and duration_minutes required", http.StatusBadRequest)
		return
	}
	if req.BufferMins < 0 {
		http.Error(w, "buffer_minutes must not be negative", http.StatusBadRequest)
		return
	}

	svc := &model.Service{
		LocationID:      locationID,
		Name:            req.Name,
		DurationMinutes: req.DurationMins,
		BufferMinutes:   req.BufferMins,
		Price:           strings.TrimSpace(req.Price),
		Description:     strings.TrimSpace(req.Description),
	}
	if err := h.repo.CreateService(r.Context(), svc); err != nil {
		h.logger.Error("failed to create service", "err", err)
		http.Error(w, "failed to create service", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": svc.ID})
}

func (h *AdminHandler) listServices(w http.ResponseWriter, r *http.Request, locationID string) {
	services, err := h.repo.ListServices(r.Context(), locationID)
	if err != nil {
		h.logger.Error("failed to list services", "err", err)
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}
	items := make([]map[string]any, 0, len(services))
	for _, svc := range services {
		items = append(items, map[string]any{
			"id":               svc.ID,
			"name":             svc.Name,
			"duration_minutes": svc.DurationMinutes,
			"buffer_minutes":   svc.BufferMinutes,
			"price":            svc.Price,
			"description":      svc.Description,
		})
	}
	writeJSON(w, http.StatusOK, items)
}
