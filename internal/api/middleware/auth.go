package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/care4u/backend/internal/application/services"
	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/infrastructure/observability"
	apperrors "github.com/care4u/backend/pkg/errors"
)

// AuthCookieName is the session cookie set on login and registration
const AuthCookieName = "auth-token"

type contextKey string

const claimsKey contextKey = "auth_claims"

// TokenVerifier validates a session token
type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// AccountChecker is implemented by verifiers that can confirm the account
// behind a token is still active. Verifiers without it trust the token alone.
type AccountChecker interface {
	EnsureActive(ctx context.Context, userID string) error
}

// Authenticator resolves the caller from the auth cookie or a Bearer header
type Authenticator struct {
	verifier TokenVerifier
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// RequireAuth rejects requests without a valid token
func (a *Authenticator) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		claims, err := a.verifier.Verify(token)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, unauthorizedMessage(err))
			return
		}
		if err := a.ensureActive(r.Context(), claims); err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeUnauthorized) {
				writeAuthError(w, http.StatusUnauthorized, unauthorizedMessage(err))
				return
			}
			observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to check account status")
			writeAuthError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		next(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// serves the request anonymously.
func (a *Authenticator) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := TokenFromRequest(r); token != "" {
			if claims, err := a.verifier.Verify(token); err == nil && a.ensureActive(r.Context(), claims) == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
		}
		next(w, r)
	}
}

func (a *Authenticator) ensureActive(ctx context.Context, claims *services.Claims) error {
	checker, ok := a.verifier.(AccountChecker)
	if !ok {
		return nil
	}
	return checker.EnsureActive(ctx, claims.UserID)
}

// RequireRole rejects authenticated callers outside roles
func (a *Authenticator) RequireRole(next http.HandlerFunc, roles ...entities.Role) http.HandlerFunc {
	return a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		for _, role := range roles {
			if claims.Role == role {
				next(w, r)
				return
			}
		}
		writeAuthError(w, http.StatusForbidden, "Forbidden")
	})
}

// TokenFromRequest prefers the Authorization header over the cookie
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	if c, err := r.Cookie(AuthCookieName); err == nil {
		return c.Value
	}
	return ""
}

// WithClaims stores verified claims in ctx
func WithClaims(ctx context.Context, claims *services.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the caller's claims, if authenticated
func ClaimsFromContext(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the caller's id, or "" for anonymous requests
func UserIDFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.UserID
	}
	return ""
}

func unauthorizedMessage(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Message
	}
	return "Unauthorized"
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
