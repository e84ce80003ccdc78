package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/glowdesk/glowdesk/internal/booking"
	"github.com/glowdesk/glowdesk/internal/model"
)

// BookingHandler serves the public booking surface: slot queries, appointment
// creation, cancellation and status changes.
type BookingHandler struct {
	svc    *booking.Service
	logger *slog.Logger
}

func NewBookingHandler(svc *booking.Service, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

type slotItem struct {
	StaffID   string `json:"staff_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type createAppointmentRequest struct {
	LocationID string `json:"location_id"`
	StaffID    string `json:"staff_id"`
	ServiceID  string `json:"service_id"`
	ClientID   string `json:"client_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Notes      string `json:"notes"`
}

type appointmentResponse struct {
	AppointmentID string `json:"appointment_id"`
	LocationID    string `json:"location_id"`
	StaffID       string `json:"staff_id"`
	ServiceID     string `json:"service_id"`
	ClientID      string `json:"client_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	CanceledAt    string `json:"canceled_at,omitempty"`
	CancelReason  string `json:"cancel_reason,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type cancelAppointmentRequest struct {
	LocationID    string `json:"location_id"`
	AppointmentID string `json:"appointment_id"`
	Reason        string `json:"reason"`
}

type updateStatusRequest struct {
	LocationID    string `json:"location_id"`
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
}

type archiveAppointmentRequest struct {
	LocationID    string `json:"location_id"`
	AppointmentID string `json:"appointment_id"`
}

func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	locationID := strings.TrimSpace(r.URL.Query().Get("location_id"))
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if locationID == "" || staffID == "" || serviceID == "" || date == "" {
		http.Error(w, "location_id, staff_id, service_id and date are required", http.StatusBadRequest)
		return
	}

	slots, err := h.svc.AvailableSlots(r.Context(), locationID, staffID, serviceID, date)
	if err != nil {
		h.writeError(w, "failed to compute slots", err)
		return
	}

	items := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotItem{
			StaffID:   s.StaffID,
			StartTime: s.Start.UTC().Format(time.RFC3339),
			EndTime:   s.End.UTC().Format(time.RFC3339),
			Available: s.Available,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	req.LocationID = strings.TrimSpace(req.LocationID)
	req.StaffID = strings.TrimSpace(req.StaffID)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.ClientID = strings.TrimSpace(req.ClientID)
	if req.LocationID == "" || req.StaffID == "" || req.ServiceID == "" || req.ClientID == "" {
		http.Error(w, "location_id, staff_id, service_id and client_id are required", http.StatusBadRequest)
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

	appt, err := h.svc.Commit(r.Context(), booking.CommitRequest{
		LocationID: req.LocationID,
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		ClientID:   req.ClientID,
		StartTime:  startTime,
		EndTime:    endTime,
		Notes:      strings.TrimSpace(req.Notes),
	})
	if err != nil {
		h.writeError(w, "failed to create appointment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cancelAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.LocationID = strings.TrimSpace(req.LocationID)
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.LocationID == "" || req.AppointmentID == "" {
		http.Error(w, "location_id and appointment_id are required", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Cancel(r.Context(), req.LocationID, req.AppointmentID, strings.TrimSpace(req.Reason))
	if err != nil {
		h.writeError(w, "failed to cancel appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.LocationID = strings.TrimSpace(req.LocationID)
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	req.Status = strings.TrimSpace(req.Status)
	if req.LocationID == "" || req.AppointmentID == "" || req.Status == "" {
		http.Error(w, "location_id, appointment_id and status are required", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Transition(r.Context(), req.LocationID, req.AppointmentID, model.AppointmentStatus(req.Status), "")
	if err != nil {
		h.writeError(w, "failed to update status", err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *BookingHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req archiveAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.LocationID = strings.TrimSpace(req.LocationID)
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.LocationID == "" || req.AppointmentID == "" {
		http.Error(w, "location_id and appointment_id are required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Archive(r.Context(), req.LocationID, req.AppointmentID); err != nil {
		h.writeError(w, "failed to archive appointment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	locationID := strings.TrimSpace(r.URL.Query().Get("location_id"))
	if locationID == "" {
		http.Error(w, "location_id required", http.StatusBadRequest)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	appts, err := h.svc.List(r.Context(), locationID, limit)
	if err != nil {
		h.writeError(w, "failed to list appointments", err)
		return
	}

	items := make([]appointmentResponse, 0, len(appts))
	for _, appt := range appts {
		items = append(items, toAppointmentResponse(appt))
	}
	writeJSON(w, http.StatusOK, items)
}

// writeError maps domain sentinels to HTTP statuses. Anything unmapped is an
// internal error whose detail stays in the log, not the response.
func (h *BookingHandler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, booking.ErrSlotConflict):
		http.Error(w, "time slot already booked", http.StatusConflict)
	case errors.Is(err, booking.ErrOutsideAvailability):
		http.Error(w, "requested time is outside staff availability", http.StatusUnprocessableEntity)
	case errors.Is(err, booking.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, booking.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, booking.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(msg, "err", err)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

func toAppointmentResponse(appt model.Appointment) appointmentResponse {
	resp := appointmentResponse{
		AppointmentID: appt.ID,
		LocationID:    appt.LocationID,
		StaffID:       appt.StaffID,
		ServiceID:     appt.ServiceID,
		ClientID:      appt.ClientID,
		StartTime:     appt.StartTime.UTC().Format(time.RFC3339),
		EndTime:       appt.EndTime.UTC().Format(time.RFC3339),
		Status:        string(appt.Status),
		Notes:         appt.Notes,
		CancelReason:  appt.CancelReason,
		CreatedAt:     appt.CreatedAt.UTC().Format(time.RFC3339),
	}
	if appt.CanceledAt != nil {
		resp.CanceledAt = appt.CanceledAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
