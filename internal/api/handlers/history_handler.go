package handlers

import (
	"net/http"

	"github.com/care4u/backend/internal/api/middleware"
	"github.com/care4u/backend/internal/application/services"
)

// HistoryHandler serves the signed-in user's activity log
type HistoryHandler struct {
	history *services.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// ListHistory handles GET /api/history?limit=
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", services.DefaultHistoryLimit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	entries, err := h.history.List(r.Context(), middleware.UserIDFromContext(r.Context()), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"history": entries,
		"count":   len(entries),
	})
}
