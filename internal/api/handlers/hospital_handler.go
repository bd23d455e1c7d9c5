package handlers

import (
	"net/http"

	"github.com/care4u/backend/internal/api/middleware"
	"github.com/care4u/backend/internal/application/services"
	"github.com/care4u/backend/internal/domain/entities"
)

// HospitalHandler handles catalog, search and admin status requests
type HospitalHandler struct {
	hospitals    *services.HospitalService
	capabilities *services.CapabilityService
	history      *services.HistoryService
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(hospitals *services.HospitalService, capabilities *services.CapabilityService, history *services.HistoryService) *HospitalHandler {
	return &HospitalHandler{
		hospitals:    hospitals,
		capabilities: capabilities,
		history:      history,
	}
}

// SearchHospitals handles GET /api/hospitals
func (h *HospitalHandler) SearchHospitals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location, err := parseLocation(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	results, err := h.hospitals.Search(r.Context(), services.SearchRequest{
		Query:                q.Get("q"),
		Specialty:            q.Get("specialty"),
		SortBy:               entities.ParseSortKey(q.Get("sort")),
		RecommendedID:        q.Get("recommended"),
		RecommendationReason: q.Get("reason"),
		UserLocation:         location,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"hospitals": results,
		"count":     len(results),
	})
}

// GetSpecialties handles GET /api/hospitals/specialties
func (h *HospitalHandler) GetSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.hospitals.Specialties(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"specialties": specialties,
	})
}

// GetNearby handles GET /api/hospitals/nearby
func (h *HospitalHandler) GetNearby(w http.ResponseWriter, r *http.Request) {
	n, err := parseIntParam(r, "n", services.DefaultNearbyCount)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	location, err := parseLocation(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	hospitals, err := h.hospitals.Nearby(r.Context(), n, location)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// GetSystemStatus handles GET /api/hospitals/status
func (h *HospitalHandler) GetSystemStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.hospitals.SystemStatus(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  status,
	})
}

// SuggestHospitals handles GET /api/hospitals/suggest?q=
func (h *HospitalHandler) SuggestHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.hospitals.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// GetHospital handles GET /api/hospitals/{id}
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "hospital ID is required")
		return
	}

	hospital, err := h.hospitals.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	h.history.RecordBestEffort(r.Context(), middleware.UserIDFromContext(r.Context()), services.ViewedAction(hospital.Name), "")

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"hospital": hospital,
	})
}

// GetCapabilitySummary handles GET /api/hospitals/{id}/summary
func (h *HospitalHandler) GetCapabilitySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.capabilities.Summarize(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

// UpdateHospitalStatus handles PATCH /api/admin/hospitals/{id}/status
func (h *HospitalHandler) UpdateHospitalStatus(w http.ResponseWriter, r *http.Request) {
	var update entities.HospitalStatusUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	hospital, err := h.hospitals.UpdateStatus(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"hospital": hospital,
	})
}
