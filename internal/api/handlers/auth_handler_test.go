package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/api/middleware"
)

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", middleware.AuthCookieName)
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	api := newTestAPI(t)

	w := httptest.NewRecorder()
	api.auth.Register(w, newJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":      "New.Patient@Example.com",
		"password":   "correct-horse",
		"first_name": "New",
		"last_name":  "Patient",
	}))

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "new.patient@example.com", user["email"])
	assert.Equal(t, "patient", user["role"])
	assert.NotContains(t, user, "password_hash")

	cookie := sessionCookie(t, w)
	assert.Equal(t, body["token"], cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.auth.Register(w, newJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
			"email":      "new.patient@example.com",
			"password":   "another-pass",
			"first_name": "Again",
			"last_name":  "Patient",
		}))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Email already registered", decodeBody(t, w)["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.auth.Register(w, newJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
			"email": "partial@example.com",
		}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing required fields", decodeBody(t, w)["error"])
	})
}

func TestAuthHandler_LoginLogoutMe(t *testing.T) {
	api := newTestAPI(t)
	claims := api.registerPatient(t, "returning@example.com")

	t.Run("login sets the session cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.auth.Login(w, newJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "returning@example.com",
			"password": "correct-horse",
		}))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, body["token"], sessionCookie(t, w).Value)
		assert.NotEmpty(t, body["user"].(map[string]interface{})["last_login"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.auth.Login(w, newJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "returning@example.com",
			"password": "wrong-password",
		}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeBody(t, w)["error"])
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("logout expires the cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.auth.Logout(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

		require.Equal(t, http.StatusOK, w.Code)
		cookie := sessionCookie(t, w)
		assert.Empty(t, cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
	})

	t.Run("me returns the current user", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.auth.Me(w, asUser(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), claims))

		require.Equal(t, http.StatusOK, w.Code)
		user := decodeBody(t, w)["user"].(map[string]interface{})
		assert.Equal(t, claims.UserID, user["id"])
	})

	t.Run("me without claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.auth.Me(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
