package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/care4u/backend/internal/adapters/cache"
	"github.com/care4u/backend/internal/adapters/database"
	"github.com/care4u/backend/internal/adapters/events"
	"github.com/care4u/backend/internal/adapters/providers/analyzer"
	"github.com/care4u/backend/internal/adapters/providers/geolocation"
	"github.com/care4u/backend/internal/adapters/search"
	"github.com/care4u/backend/internal/api/handlers"
	"github.com/care4u/backend/internal/api/middleware"
	"github.com/care4u/backend/internal/api/routes"
	"github.com/care4u/backend/internal/application/services"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/clients/openai"
	"github.com/care4u/backend/internal/infrastructure/clients/redis"
	"github.com/care4u/backend/internal/infrastructure/clients/typesense"
	"github.com/care4u/backend/internal/infrastructure/observability"
	"github.com/care4u/backend/pkg/retry"
)

const (
	cacheWarmInterval = 5 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			observability.AttachOTelLogs(cfg.OTEL.ServiceName)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Redis backs both the response cache and the event bus. Without it the
	// server runs single-instance with in-process equivalents.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-process cache and event bus")
		cacheProvider = cache.NewMemoryAdapter()
		eventBus = events.NewMemoryEventBus()
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
	}

	hospitalRepo := database.NewCachedHospitalAdapter(st.hospitals, cacheProvider, metrics)

	var searchRepo repositories.HospitalSearchRepository
	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense, retry.DefaultConfig())
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, suggestions fall back to catalog scan")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		} else {
			searchRepo = search.NewTypesenseAdapter(tsClient)
			log.Info().Str("url", cfg.Typesense.URL).Msg("Typesense client initialized")
		}
	}

	geo, err := geolocation.NewProvider(cfg.Geolocation.Provider)
	if err != nil {
		return fmt.Errorf("failed to initialize geolocation provider: %w", err)
	}

	var symptomAnalyzer providers.SymptomAnalyzer = analyzer.Unavailable{}
	if llm, err := openai.NewClient(&cfg.OpenAI); err != nil {
		log.Warn().Err(err).Msg("OpenAI client not configured, triage and voice search are disabled")
	} else {
		symptomAnalyzer = analyzer.NewCachedAnalyzer(llm, cacheProvider, cfg.OpenAI.AnalysisTTL)
		log.Info().Str("model", cfg.OpenAI.Model).Msg("OpenAI client initialized")
	}

	// Services
	ranker := services.NewHospitalRankingService()
	historyService := services.NewHistoryService(st.history)
	hospitalService := services.NewHospitalService(hospitalRepo, searchRepo, geo, eventBus, ranker)
	triageService := services.NewTriageService(hospitalRepo, st.doctors, symptomAnalyzer, ranker, historyService, metrics)
	voiceService := services.NewVoiceService(hospitalRepo, st.doctors, st.profiles, symptomAnalyzer, historyService)
	capabilityService := services.NewCapabilityService(hospitalRepo, symptomAnalyzer)
	profileService := services.NewProfileService(st.users, st.profiles, historyService)
	appointmentService := services.NewAppointmentService(st.appointments, hospitalRepo)
	authService := services.NewAuthService(st.users, st.profiles, cfg.Auth)

	invalidation := services.NewCacheInvalidationService(cacheProvider, eventBus)
	if err := invalidation.Start(); err != nil {
		log.Warn().Err(err).Msg("Cache invalidation listener not started")
	} else {
		defer invalidation.Stop()
	}

	warming := services.NewCacheWarmingService(hospitalRepo)
	go warming.StartPeriodicWarming(ctx, cacheWarmInterval)

	router := routes.NewRouter(
		routes.Handlers{
			Hospital:    handlers.NewHospitalHandler(hospitalService, capabilityService, historyService),
			Triage:      handlers.NewTriageHandler(triageService, voiceService),
			Auth:        handlers.NewAuthHandler(authService, cfg.Auth.CookieSecure),
			Profile:     handlers.NewProfileHandler(profileService),
			Appointment: handlers.NewAppointmentHandler(appointmentService),
			History:     handlers.NewHistoryHandler(historyService),
			SSE:         handlers.NewSSEHandler(eventBus, geo),
		},
		middleware.NewAuthenticator(authService),
		middleware.NewCacheMiddleware(cacheProvider).WithMetrics(metrics),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No write timeout: event streams stay open for the life of the client
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("catalog", cfg.Catalog.Source).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server")
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	// Stop background workers and open streams before draining connections
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited")
	return nil
}
