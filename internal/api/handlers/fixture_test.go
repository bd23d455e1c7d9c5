package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/adapters/catalog"
	"github.com/care4u/backend/internal/adapters/events"
	"github.com/care4u/backend/internal/adapters/memory"
	"github.com/care4u/backend/internal/api/handlers"
	"github.com/care4u/backend/internal/api/middleware"
	"github.com/care4u/backend/internal/application/services"
	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/mocks"
	"github.com/care4u/backend/pkg/config"
)

type testAPI struct {
	hospital    *handlers.HospitalHandler
	triage      *handlers.TriageHandler
	auth        *handlers.AuthHandler
	profile     *handlers.ProfileHandler
	appointment *handlers.AppointmentHandler
	history     *handlers.HistoryHandler

	authService *services.AuthService
	analyzer    *mocks.SymptomAnalyzer
	bus         *events.MemoryEventBus
	historyRepo *memory.HistoryRepository
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	ds := catalog.MustReference()
	hospitals := catalog.NewMemoryHospitalRepository(ds.Hospitals)
	doctors := catalog.NewMemoryDoctorRepository(ds.Doctors)
	users := memory.NewUserRepository()
	profiles := memory.NewPatientProfileRepository()
	historyRepo := memory.NewHistoryRepository(100)

	api := &testAPI{
		analyzer:    new(mocks.SymptomAnalyzer),
		bus:         events.NewMemoryEventBus(),
		historyRepo: historyRepo,
	}
	t.Cleanup(func() { _ = api.bus.Close() })

	history := services.NewHistoryService(historyRepo)
	hospitalService := services.NewHospitalService(hospitals, nil, nil, api.bus, nil)
	api.authService = services.NewAuthService(users, profiles, config.AuthConfig{
		JWTSecret: "handler-test-secret",
		TokenTTL:  time.Hour,
	})

	api.hospital = handlers.NewHospitalHandler(hospitalService, services.NewCapabilityService(hospitals, api.analyzer), history)
	api.triage = handlers.NewTriageHandler(
		services.NewTriageService(hospitals, doctors, api.analyzer, nil, history, nil),
		services.NewVoiceService(hospitals, doctors, profiles, api.analyzer, history),
	)
	api.auth = handlers.NewAuthHandler(api.authService, false)
	api.profile = handlers.NewProfileHandler(services.NewProfileService(users, profiles, history))
	api.appointment = handlers.NewAppointmentHandler(services.NewAppointmentService(memory.NewAppointmentRepository(), hospitals))
	api.history = handlers.NewHistoryHandler(history)
	return api
}

// registerPatient creates an account and returns its claims
func (a *testAPI) registerPatient(t *testing.T, email string) *services.Claims {
	t.Helper()

	result, err := a.authService.Register(context.Background(), services.RegisterInput{
		Email:     email,
		Password:  "correct-horse",
		FirstName: "Pat",
		LastName:  "Ient",
	})
	require.NoError(t, err)

	claims, err := a.authService.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, entities.RolePatient, claims.Role)
	return claims
}

func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, claims *services.Claims) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func hospitalIDs(t *testing.T, raw interface{}) []string {
	t.Helper()

	list, ok := raw.([]interface{})
	require.True(t, ok, "expected a list, got %T", raw)
	ids := make([]string, 0, len(list))
	for _, item := range list {
		ids = append(ids, item.(map[string]interface{})["id"].(string))
	}
	return ids
}
