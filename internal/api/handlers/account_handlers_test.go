package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileHandler(t *testing.T) {
	api := newTestAPI(t)
	claims := api.registerPatient(t, "profile@example.com")

	t.Run("get includes the patient profile", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.profile.GetProfile(w, asUser(httptest.NewRequest(http.MethodGet, "/api/profile", nil), claims))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Pat", body["user"].(map[string]interface{})["first_name"])
		assert.Contains(t, body, "patient_profile")
	})

	t.Run("update personal fields", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPut, "/api/profile", map[string]string{
			"first_name": "Patricia",
			"address":    " 1 Main St ",
		})
		w := httptest.NewRecorder()
		api.profile.UpdateProfile(w, asUser(req, claims))

		require.Equal(t, http.StatusOK, w.Code)
		user := decodeBody(t, w)["user"].(map[string]interface{})
		assert.Equal(t, "Patricia", user["first_name"])
		assert.Equal(t, "Ient", user["last_name"])
		assert.Equal(t, "1 Main St", user["address"])
	})

	t.Run("blank first name", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPut, "/api/profile", map[string]string{"first_name": " "})
		w := httptest.NewRecorder()
		api.profile.UpdateProfile(w, asUser(req, claims))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "First name cannot be empty", decodeBody(t, w)["error"])
	})

	t.Run("update medical data", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPut, "/api/profile/medical", map[string]interface{}{
			"allergies":  []string{"penicillin", " "},
			"blood_type": "o+",
		})
		w := httptest.NewRecorder()
		api.profile.UpdateMedicalProfile(w, asUser(req, claims))

		require.Equal(t, http.StatusOK, w.Code)
		patient := decodeBody(t, w)["patient_profile"].(map[string]interface{})
		assert.Equal(t, "O+", patient["blood_type"])
		assert.Equal(t, []interface{}{"penicillin"}, patient["allergies"])
	})

	t.Run("invalid blood type", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPut, "/api/profile/medical", map[string]string{"blood_type": "Z"})
		w := httptest.NewRecorder()
		api.profile.UpdateMedicalProfile(w, asUser(req, claims))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAppointmentHandler(t *testing.T) {
	api := newTestAPI(t)
	owner := api.registerPatient(t, "owner@example.com")
	other := api.registerPatient(t, "other@example.com")

	booking := map[string]interface{}{
		"doctor_id":        "dr-sarah-johnson",
		"hospital_id":      "city-general-hospital",
		"appointment_date": time.Now().AddDate(0, 0, 7).UTC().Format(time.RFC3339),
		"time_slot":        "10:00",
		"reason_for_visit": "Follow-up",
	}

	w := httptest.NewRecorder()
	api.appointment.CreateAppointment(w, asUser(newJSONRequest(t, http.MethodPost, "/api/appointments", booking), owner))
	require.Equal(t, http.StatusCreated, w.Code)
	appointment := decodeBody(t, w)["appointment"].(map[string]interface{})
	assert.Equal(t, "scheduled", appointment["status"])
	assert.Equal(t, "in-person", appointment["consultation_mode"])
	id := appointment["id"].(string)

	t.Run("list shows only the caller's appointments", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.appointment.ListAppointments(w, asUser(httptest.NewRequest(http.MethodGet, "/api/appointments", nil), owner))
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, decodeBody(t, w)["count"])

		w = httptest.NewRecorder()
		api.appointment.ListAppointments(w, asUser(httptest.NewRequest(http.MethodGet, "/api/appointments", nil), other))
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 0, decodeBody(t, w)["count"])
	})

	t.Run("another patient cannot cancel", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/appointments/"+id+"/cancel", nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		api.appointment.CancelAppointment(w, asUser(req, other))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner cancels once", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/appointments/"+id+"/cancel", nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		api.appointment.CancelAppointment(w, asUser(req, owner))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "cancelled", decodeBody(t, w)["appointment"].(map[string]interface{})["status"])

		req = httptest.NewRequest(http.MethodPost, "/api/appointments/"+id+"/cancel", nil)
		req.SetPathValue("id", id)
		w = httptest.NewRecorder()
		api.appointment.CancelAppointment(w, asUser(req, owner))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown hospital", func(t *testing.T) {
		bad := map[string]interface{}{}
		for k, v := range booking {
			bad[k] = v
		}
		bad["hospital_id"] = "nowhere"

		w := httptest.NewRecorder()
		api.appointment.CreateAppointment(w, asUser(newJSONRequest(t, http.MethodPost, "/api/appointments", bad), owner))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Unknown hospital", decodeBody(t, w)["error"])
	})
}

func TestHistoryHandler(t *testing.T) {
	api := newTestAPI(t)
	claims := api.registerPatient(t, "history@example.com")

	for _, name := range []string{"Patricia", "Pat"} {
		req := newJSONRequest(t, http.MethodPut, "/api/profile", map[string]string{"first_name": name})
		w := httptest.NewRecorder()
		api.profile.UpdateProfile(w, asUser(req, claims))
		require.Equal(t, http.StatusOK, w.Code)
	}

	t.Run("honours the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.history.ListHistory(w, asUser(httptest.NewRequest(http.MethodGet, "/api/history?limit=1", nil), claims))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.EqualValues(t, 1, body["count"])
		entry := body["history"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "Updated Profile", entry["action"])
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.history.ListHistory(w, asUser(httptest.NewRequest(http.MethodGet, "/api/history?limit=-5", nil), claims))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
