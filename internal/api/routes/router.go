package routes

import (
	"net/http"

	"github.com/care4u/backend/internal/api/handlers"
	"github.com/care4u/backend/internal/api/middleware"
	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/infrastructure/observability"
)

// Handlers groups the route handlers served by the API
type Handlers struct {
	Hospital    *handlers.HospitalHandler
	Triage      *handlers.TriageHandler
	Auth        *handlers.AuthHandler
	Profile     *handlers.ProfileHandler
	Appointment *handlers.AppointmentHandler
	History     *handlers.HistoryHandler
	SSE         *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux             *http.ServeMux
	handlers        Handlers
	authenticator   *middleware.Authenticator
	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router; cacheMiddleware and metrics may be nil
func NewRouter(
	h Handlers,
	authenticator *middleware.Authenticator,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		handlers:        h,
		authenticator:   authenticator,
		cacheMiddleware: cacheMiddleware,
		allowedOrigins:  allowedOrigins,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	optional := r.authenticator.OptionalAuth
	required := r.authenticator.RequireAuth

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Hospital catalog
	hospital := r.handlers.Hospital
	r.mux.HandleFunc("GET /api/hospitals", optional(hospital.SearchHospitals))
	r.mux.HandleFunc("GET /api/hospitals/specialties", hospital.GetSpecialties)
	r.mux.HandleFunc("GET /api/hospitals/nearby", hospital.GetNearby)
	r.mux.HandleFunc("GET /api/hospitals/status", hospital.GetSystemStatus)
	r.mux.HandleFunc("GET /api/hospitals/suggest", hospital.SuggestHospitals)
	r.mux.HandleFunc("GET /api/hospitals/{id}", optional(hospital.GetHospital))
	r.mux.HandleFunc("GET /api/hospitals/{id}/summary", hospital.GetCapabilitySummary)
	r.mux.HandleFunc("PATCH /api/admin/hospitals/{id}/status", r.authenticator.RequireRole(
		hospital.UpdateHospitalStatus, entities.RoleAdmin, entities.RoleHospitalStaff,
	))

	// Symptom assessment
	r.mux.HandleFunc("POST /api/triage", optional(r.handlers.Triage.AssessSymptoms))
	r.mux.HandleFunc("POST /api/voice/search", optional(r.handlers.Triage.VoiceSearch))

	// Accounts
	auth := r.handlers.Auth
	r.mux.HandleFunc("POST /api/auth/register", auth.Register)
	r.mux.HandleFunc("POST /api/auth/login", auth.Login)
	r.mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	r.mux.HandleFunc("GET /api/auth/me", required(auth.Me))

	r.mux.HandleFunc("GET /api/profile", required(r.handlers.Profile.GetProfile))
	r.mux.HandleFunc("PUT /api/profile", required(r.handlers.Profile.UpdateProfile))
	r.mux.HandleFunc("PUT /api/profile/medical", required(r.handlers.Profile.UpdateMedicalProfile))

	r.mux.HandleFunc("GET /api/appointments", required(r.handlers.Appointment.ListAppointments))
	r.mux.HandleFunc("POST /api/appointments", required(r.handlers.Appointment.CreateAppointment))
	r.mux.HandleFunc("POST /api/appointments/{id}/cancel", required(r.handlers.Appointment.CancelAppointment))

	r.mux.HandleFunc("GET /api/history", required(r.handlers.History.ListHistory))

	// Live updates
	if r.handlers.SSE != nil {
		r.mux.HandleFunc("GET /api/stream/hospitals", r.handlers.SSE.StreamAllHospitals)
		r.mux.HandleFunc("GET /api/stream/hospitals/{id}", r.handlers.SSE.StreamHospitalUpdates)
		r.mux.HandleFunc("GET /api/stream/region", r.handlers.SSE.StreamRegionalUpdates)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
