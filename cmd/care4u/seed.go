package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/care4u/backend/internal/adapters/catalog"
	"github.com/care4u/backend/internal/adapters/database"
	"github.com/care4u/backend/internal/application/services"
	"github.com/care4u/backend/internal/domain/entities"
	apperrors "github.com/care4u/backend/pkg/errors"
)

type seedOptions struct {
	reset         bool
	index         bool
	adminEmail    string
	adminPassword string
}

func seedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the reference hospitals and doctors into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.reset, "reset", false, "truncate every table before seeding")
	cmd.Flags().BoolVar(&opts.index, "index", false, "also index the seeded hospitals into Typesense")
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", "", "provision an admin account with this email")
	cmd.Flags().StringVar(&opts.adminPassword, "admin-password", "", "password for the provisioned admin account")
	cmd.MarkFlagsRequiredTogether("admin-email", "admin-password")

	return cmd
}

func runSeed(ctx context.Context, opts seedOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pg, err := openPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if opts.reset {
		if err := pg.Truncate(ctx); err != nil {
			return fmt.Errorf("failed to reset tables: %w", err)
		}
		log.Warn().Msg("All tables truncated")
	}

	ref, err := catalog.Reference()
	if err != nil {
		return fmt.Errorf("failed to load reference catalog: %w", err)
	}

	hospitals := database.NewHospitalAdapter(pg)
	for _, h := range ref.Hospitals {
		if err := hospitals.Upsert(ctx, h); err != nil {
			return fmt.Errorf("failed to seed hospital %s: %w", h.ID, err)
		}
	}

	doctors := database.NewDoctorAdapter(pg)
	for _, d := range ref.Doctors {
		if err := doctors.Upsert(ctx, d); err != nil {
			return fmt.Errorf("failed to seed doctor %s: %w", d.ID, err)
		}
	}

	log.Info().
		Int("hospitals", len(ref.Hospitals)).
		Int("doctors", len(ref.Doctors)).
		Msg("Reference catalog seeded")

	if opts.adminEmail != "" {
		auth := services.NewAuthService(database.NewUserAdapter(pg), database.NewPatientProfileAdapter(pg), cfg.Auth)
		admin, err := auth.Provision(ctx, services.RegisterInput{
			Email:     opts.adminEmail,
			Password:  opts.adminPassword,
			FirstName: "Care4U",
			LastName:  "Admin",
			Role:      entities.RoleAdmin,
		})
		var appErr *apperrors.AppError
		switch {
		case err == nil:
			log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("Admin account provisioned")
		case errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeConflict:
			log.Info().Str("email", opts.adminEmail).Msg("Admin account already exists")
		default:
			return fmt.Errorf("failed to provision admin: %w", err)
		}
	}

	if opts.index {
		return indexHospitals(ctx, cfg, ref.Hospitals, false)
	}
	return nil
}
