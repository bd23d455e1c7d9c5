package handlers

import (
	"net/http"

	"github.com/care4u/backend/internal/api/middleware"
	"github.com/care4u/backend/internal/application/services"
)

// AppointmentHandler handles the signed-in patient's appointments
type AppointmentHandler struct {
	service *services.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.List(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req services.AppointmentInput
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointment, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"appointment": appointment,
	})
}

// CancelAppointment handles POST /api/appointments/{id}/cancel
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.service.Cancel(r.Context(), middleware.UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"appointment": appointment,
	})
}
