package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/care4u/backend/internal/adapters/catalog"
	"github.com/care4u/backend/internal/adapters/database"
	"github.com/care4u/backend/internal/adapters/memory"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/clients/postgres"
	"github.com/care4u/backend/internal/infrastructure/observability"
	"github.com/care4u/backend/pkg/config"
)

const (
	catalogSourceMemory   = "memory"
	catalogSourcePostgres = "postgres"

	historyPerUser = 200
)

// stores bundles the repositories behind one catalog source
type stores struct {
	hospitals    repositories.HospitalRepository
	doctors      repositories.DoctorRepository
	users        repositories.UserRepository
	profiles     repositories.PatientProfileRepository
	appointments repositories.AppointmentRepository
	history      repositories.HistoryRepository

	pg *postgres.Client
}

func (s *stores) Close() {
	if s.pg == nil {
		return
	}
	if err := s.pg.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close PostgreSQL client")
	}
}

// openStores builds the repositories for the configured catalog source.
// The memory source serves the bundled reference dataset and keeps accounts
// in process; the postgres source persists everything.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Catalog.Source {
	case catalogSourceMemory:
		ref := catalog.MustReference()
		log.Info().
			Int("hospitals", len(ref.Hospitals)).
			Int("doctors", len(ref.Doctors)).
			Msg("Serving bundled reference catalog")
		return &stores{
			hospitals:    catalog.NewMemoryHospitalRepository(ref.Hospitals),
			doctors:      catalog.NewMemoryDoctorRepository(ref.Doctors),
			users:        memory.NewUserRepository(),
			profiles:     memory.NewPatientProfileRepository(),
			appointments: memory.NewAppointmentRepository(),
			history:      memory.NewHistoryRepository(historyPerUser),
		}, nil

	case catalogSourcePostgres:
		pg, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &stores{
			hospitals:    database.NewHospitalAdapter(pg),
			doctors:      database.NewDoctorAdapter(pg),
			users:        database.NewUserAdapter(pg),
			profiles:     database.NewPatientProfileAdapter(pg),
			appointments: database.NewAppointmentAdapter(pg),
			history:      database.NewHistoryAdapter(pg),
			pg:           pg,
		}, nil

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*postgres.Client, error) {
	pg, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL client: %w", err)
	}
	log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Database).Msg("PostgreSQL client initialized")
	return pg, nil
}

// loadConfig reads configuration and configures the global logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	return cfg, nil
}
