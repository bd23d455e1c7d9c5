package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/infrastructure/observability"
	apperrors "github.com/care4u/backend/pkg/errors"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// respondWithAppError maps service errors to a status code. Internal details
// are logged, never returned.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeForbidden:
		respondWithError(w, http.StatusForbidden, appErr.Message)
	case apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusBadGateway, apperrors.RetryableMessage)
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Internal error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError("request body is required")
		}
		return apperrors.NewValidationError("invalid request body")
	}
	return nil
}

// parseLocation reads optional lat/lng query parameters. Both or neither must be given.
func parseLocation(r *http.Request) (*entities.Location, error) {
	q := r.URL.Query()
	latRaw, lngRaw := q.Get("lat"), q.Get("lng")
	if latRaw == "" && lngRaw == "" {
		return nil, nil
	}

	lat, err := parseFinite(latRaw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid latitude parameter")
	}
	lng, err := parseFinite(lngRaw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid longitude parameter")
	}
	return &entities.Location{Latitude: lat, Longitude: lng}, nil
}

// parseFinite parses a float and rejects NaN and ±Inf, which ParseFloat accepts
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", raw)
	}
	return v, nil
}

func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.NewValidationError("invalid " + name + " parameter")
	}
	return n, nil
}
