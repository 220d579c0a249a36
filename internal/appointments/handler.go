package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/caresync/clinic-scheduler/internal/schedule"
	"github.com/caresync/clinic-scheduler/pkg/logging"
)

// BookingService is the surface the HTTP layer needs from the coordinator.
type BookingService interface {
	Book(ctx context.Context, req *BookingRequest) (*Appointment, error)
	Appointments(ctx context.Context) ([]Appointment, error)
	AvailableSlots(ctx context.Context, doctor, date string) ([]string, error)
	Doctors() []string
}

// Handler handles HTTP requests for appointments
type Handler struct {
	svc    BookingService
	logger *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(svc BookingService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Create handles POST /api/appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.svc.Book(r.Context(), &req)
	if err != nil {
		h.logger.Error("booking failed", "error", err, "patient_email", req.PatientEmail)
		writeError(w, statusForError(err), messageForError(err))
		return
	}

	h.logger.Info("appointment created", "id", appt.ID, "doctor", appt.Doctor)
	writeJSON(w, http.StatusCreated, apiResponse{
		Status:  "success",
		Message: "Appointment created successfully",
		Data:    appt,
	})
}

// List handles GET /api/appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.Appointments(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		writeError(w, http.StatusInternalServerError, messageForError(err))
		return
	}
	if appts == nil {
		appts = []Appointment{}
	}
	writeJSON(w, http.StatusOK, apiResponse{Status: "success", Data: appts})
}

// AvailableSlotsRequest is the body for the availability query.
type AvailableSlotsRequest struct {
	Doctor string `json:"doctor"`
	Date   string `json:"date"`
}

// AvailableSlots handles POST /api/available-slots.
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	var req AvailableSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	free, err := h.svc.AvailableSlots(r.Context(), req.Doctor, req.Date)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownDoctor) {
			writeError(w, http.StatusBadRequest,
				"invalid doctor, available doctors: "+strings.Join(h.svc.Doctors(), ", "))
			return
		}
		writeError(w, statusForError(err), messageForError(err))
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Status: "success",
		Data: map[string]any{
			"doctor":          req.Doctor,
			"date":            req.Date,
			"available_slots": free,
		},
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, schedule.ErrInvalidSlot),
		errors.Is(err, schedule.ErrUnknownDoctor),
		errors.Is(err, schedule.ErrNoSlotAvailable):
		return http.StatusBadRequest
	case errors.Is(err, schedule.ErrSlotTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageForError(err error) string {
	for _, known := range []error{
		ErrValidation,
		schedule.ErrInvalidSlot,
		schedule.ErrUnknownDoctor,
		schedule.ErrNoSlotAvailable,
		schedule.ErrSlotTaken,
		ErrCalendar,
		ErrNotification,
		ErrPersistence,
	} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return ErrInternal.Error()
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Status: "error", Message: message})
}
