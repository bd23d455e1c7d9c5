package handlers

import (
	"net/http"
	"time"

	"github.com/care4u/backend/internal/api/middleware"
	"github.com/care4u/backend/internal/application/services"
)

// AuthHandler handles registration and sessions
type AuthHandler struct {
	auth         *services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler; secureCookie marks the session cookie Secure
func NewAuthHandler(auth *services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.auth.Register(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Token, result.ExpiresAt)
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    result.User,
		"token":   result.Token,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Token, result.ExpiresAt)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    result.User,
		"token":   result.Token,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), claims)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.auth.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
