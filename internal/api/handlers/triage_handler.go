package handlers

import (
	"net/http"

	"github.com/care4u/backend/internal/api/middleware"
	"github.com/care4u/backend/internal/application/services"
	"github.com/care4u/backend/internal/domain/entities"
)

// TriageHandler handles symptom assessment and voice search requests
type TriageHandler struct {
	triage *services.TriageService
	voice  *services.VoiceService
}

// NewTriageHandler creates a new triage handler
func NewTriageHandler(triage *services.TriageService, voice *services.VoiceService) *TriageHandler {
	return &TriageHandler{triage: triage, voice: voice}
}

type assessRequest struct {
	Symptoms  string `json:"symptoms"`
	Specialty string `json:"specialty"`
	Sort      string `json:"sort"`
}

// AssessSymptoms handles POST /api/triage
func (h *TriageHandler) AssessSymptoms(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.triage.Assess(r.Context(), middleware.UserIDFromContext(r.Context()), req.Symptoms, services.SearchOptions{
		Specialty: req.Specialty,
		SortBy:    entities.ParseSortKey(req.Sort),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

type voiceRequest struct {
	SpokenCondition string `json:"spoken_condition"`
}

// VoiceSearch handles POST /api/voice/search
func (h *TriageHandler) VoiceSearch(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.voice.Search(r.Context(), middleware.UserIDFromContext(r.Context()), req.SpokenCondition)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":                  true,
		"hospital_recommendations": result.HospitalRecommendations,
	})
}
