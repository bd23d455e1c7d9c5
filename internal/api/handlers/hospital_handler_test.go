package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
)

func TestHospitalHandler_SearchHospitals(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name     string
		target   string
		expected []string
	}{
		{
			name:   "default distance order capped at five",
			target: "/api/hospitals",
			expected: []string{
				"community-health-clinic", "city-general-hospital", "university-trauma-center",
				"mercy-medical-center", "bayside-medical",
			},
		},
		{
			name:     "specialty filter sorted by wait",
			target:   "/api/hospitals?specialty=Trauma&sort=wait-time",
			expected: []string{"st-jude-regional", "university-trauma-center", "city-general-hospital"},
		},
		{
			name:   "recommended hospital is pinned",
			target: "/api/hospitals?recommended=mountain-view-general&reason=Closest+burn+unit",
			expected: []string{
				"mountain-view-general", "community-health-clinic", "city-general-hospital",
				"university-trauma-center", "mercy-medical-center",
			},
		},
		{
			name:     "no matches yields an empty list",
			target:   "/api/hospitals?q=zzz-no-such-hospital",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			api.hospital.SearchHospitals(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusOK, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, true, body["success"])
			assert.Equal(t, tt.expected, hospitalIDs(t, body["hospitals"]))
			assert.EqualValues(t, len(tt.expected), body["count"])
		})
	}

	t.Run("pinned entry carries the recommendation", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.hospital.SearchHospitals(w, httptest.NewRequest(http.MethodGet, "/api/hospitals?recommended=st-jude-regional&reason=Shortest+wait", nil))

		body := decodeBody(t, w)
		first := body["hospitals"].([]interface{})[0].(map[string]interface{})
		rec := first["recommendation"].(map[string]interface{})
		assert.Equal(t, true, rec["is_ai_recommended"])
		assert.Equal(t, "Shortest wait", rec["reason"])
	})

	t.Run("rejects a malformed location", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.hospital.SearchHospitals(w, httptest.NewRequest(http.MethodGet, "/api/hospitals?lat=north&lng=1", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid latitude parameter", decodeBody(t, w)["error"])
	})

	t.Run("rejects non-finite coordinates", func(t *testing.T) {
		for _, query := range []string{"lat=NaN&lng=0", "lat=0&lng=Inf", "lat=-Inf&lng=NaN"} {
			w := httptest.NewRecorder()
			api.hospital.SearchHospitals(w, httptest.NewRequest(http.MethodGet, "/api/hospitals?"+query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}

		w := httptest.NewRecorder()
		api.hospital.SearchHospitals(w, httptest.NewRequest(http.MethodGet, "/api/hospitals?lat=NaN&lng=0", nil))
		assert.Equal(t, "invalid latitude parameter", decodeBody(t, w)["error"])
	})
}

func TestHospitalHandler_CatalogViews(t *testing.T) {
	api := newTestAPI(t)

	t.Run("specialties", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.hospital.GetSpecialties(w, httptest.NewRequest(http.MethodGet, "/api/hospitals/specialties", nil))

		require.Equal(t, http.StatusOK, w.Code)
		specialties := decodeBody(t, w)["specialties"].([]interface{})
		assert.Contains(t, specialties, "Trauma")
		assert.NotEmpty(t, specialties)
	})

	t.Run("nearby", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.hospital.GetNearby(w, httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby?n=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"community-health-clinic", "city-general-hospital"}, hospitalIDs(t, decodeBody(t, w)["hospitals"]))
	})

	t.Run("nearby rejects a non-finite location", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.hospital.GetNearby(w, httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby?lat=NaN&lng=0", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid latitude parameter", decodeBody(t, w)["error"])
	})

	t.Run("nearby rejects a bad count", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.hospital.GetNearby(w, httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby?n=two", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("system status", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.hospital.GetSystemStatus(w, httptest.NewRequest(http.MethodGet, "/api/hospitals/status", nil))

		require.Equal(t, http.StatusOK, w.Code)
		status := decodeBody(t, w)["status"].(map[string]interface{})
		assert.EqualValues(t, 9, status["hospitals_nearby"])
		assert.EqualValues(t, 8, status["icu_capable"])
		assert.EqualValues(t, 3, status["emergency_ready"])
	})

	t.Run("suggest", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.hospital.SuggestHospitals(w, httptest.NewRequest(http.MethodGet, "/api/hospitals/suggest?q=trau", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"city-general-hospital", "st-jude-regional", "university-trauma-center"}, hospitalIDs(t, decodeBody(t, w)["hospitals"]))
	})
}

func TestHospitalHandler_GetHospital(t *testing.T) {
	api := newTestAPI(t)
	claims := api.registerPatient(t, "viewer@example.com")

	t.Run("records the view for signed-in users", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/hospitals/city-general-hospital", nil)
		req.SetPathValue("id", "city-general-hospital")
		w := httptest.NewRecorder()

		api.hospital.GetHospital(w, asUser(req, claims))

		require.Equal(t, http.StatusOK, w.Code)
		hospital := decodeBody(t, w)["hospital"].(map[string]interface{})
		assert.Equal(t, "city-general-hospital", hospital["id"])

		entries, err := api.historyRepo.ListByUser(context.Background(), claims.UserID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Action, hospital["name"])
	})

	t.Run("unknown hospital", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/hospitals/nowhere", nil)
		req.SetPathValue("id", "nowhere")
		w := httptest.NewRecorder()

		api.hospital.GetHospital(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, false, decodeBody(t, w)["success"])
	})
}

func TestHospitalHandler_GetCapabilitySummary(t *testing.T) {
	t.Run("returns the analyzer summary", func(t *testing.T) {
		api := newTestAPI(t)
		api.analyzer.On("SummarizeCapabilities", mock.Anything, mock.MatchedBy(func(h *entities.Hospital) bool {
			return h.ID == "bayside-medical"
		})).Return(&entities.CapabilitySummary{Summary: "Busy but well staffed."}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/hospitals/bayside-medical/summary", nil)
		req.SetPathValue("id", "bayside-medical")
		w := httptest.NewRecorder()
		api.hospital.GetCapabilitySummary(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		summary := decodeBody(t, w)["summary"].(map[string]interface{})
		assert.Equal(t, "bayside-medical", summary["hospital_id"])
		assert.Equal(t, "Busy but well staffed.", summary["summary"])
		api.analyzer.AssertExpectations(t)
	})

	t.Run("analyzer failure is a retryable bad gateway", func(t *testing.T) {
		api := newTestAPI(t)
		api.analyzer.On("SummarizeCapabilities", mock.Anything, mock.Anything).
			Return(nil, errors.New("upstream timeout")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/hospitals/bayside-medical/summary", nil)
		req.SetPathValue("id", "bayside-medical")
		w := httptest.NewRecorder()
		api.hospital.GetCapabilitySummary(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.NotContains(t, w.Body.String(), "upstream timeout")
	})
}

func TestHospitalHandler_UpdateHospitalStatus(t *testing.T) {
	api := newTestAPI(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := api.bus.Subscribe(ctx, providers.GetHospitalChannel("city-general-hospital"))
	require.NoError(t, err)

	req := newJSONRequest(t, http.MethodPatch, "/api/admin/hospitals/city-general-hospital/status", entities.HospitalStatusUpdate{
		BedsAvailable:           4,
		ICUBedsAvailable:        1,
		OperatingRoomsAvailable: 1,
		EstimatedWaitTime:       15,
	})
	req.SetPathValue("id", "city-general-hospital")
	w := httptest.NewRecorder()
	api.hospital.UpdateHospitalStatus(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	hospital := decodeBody(t, w)["hospital"].(map[string]interface{})
	assert.EqualValues(t, 15, hospital["estimated_wait_time"])

	select {
	case event := <-updates:
		assert.Equal(t, "city-general-hospital", event.HospitalID)
		assert.EqualValues(t, 15, event.ChangedFields["estimated_wait_time"])
	case <-time.After(2 * time.Second):
		t.Fatal("no hospital event published")
	}

	t.Run("rejects out of range values", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPatch, "/api/admin/hospitals/city-general-hospital/status", entities.HospitalStatusUpdate{
			EstimatedWaitTime: -1,
		})
		req.SetPathValue("id", "city-general-hospital")
		w := httptest.NewRecorder()
		api.hospital.UpdateHospitalStatus(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/admin/hospitals/city-general-hospital/status", nil)
		req.SetPathValue("id", "city-general-hospital")
		w := httptest.NewRecorder()
		api.hospital.UpdateHospitalStatus(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "request body is required", decodeBody(t, w)["error"])
	})
}
