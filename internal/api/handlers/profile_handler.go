package handlers

import (
	"net/http"

	"github.com/care4u/backend/internal/api/middleware"
	"github.com/care4u/backend/internal/application/services"
)

// ProfileHandler handles the signed-in user's profile and medical data
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithProfile(w, profile)
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	profile, err := h.profiles.Update(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithProfile(w, profile)
}

// UpdateMedicalProfile handles PUT /api/profile/medical
func (h *ProfileHandler) UpdateMedicalProfile(w http.ResponseWriter, r *http.Request) {
	var req services.MedicalUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	patient, err := h.profiles.UpdateMedical(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"patient_profile": patient,
	})
}

func respondWithProfile(w http.ResponseWriter, profile *services.Profile) {
	body := map[string]interface{}{
		"success": true,
		"user":    profile.User,
	}
	if profile.Patient != nil {
		body["patient_profile"] = profile.Patient
	}
	respondWithJSON(w, http.StatusOK, body)
}
