package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/care4u/backend/internal/adapters/search"
	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/infrastructure/clients/typesense"
	"github.com/care4u/backend/pkg/config"
	"github.com/care4u/backend/pkg/retry"
)

func indexCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the Typesense hospital index from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := openStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			hospitals, err := st.hospitals.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list hospitals: %w", err)
			}
			return indexHospitals(ctx, cfg, hospitals, reset)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop the collection before indexing")
	return cmd
}

func indexHospitals(ctx context.Context, cfg *config.Config, hospitals []*entities.Hospital, reset bool) error {
	if cfg.Typesense.URL == "" {
		return errors.New("TYPESENSE_URL is not set")
	}

	client, err := typesense.NewClient(ctx, &cfg.Typesense, retry.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize Typesense client: %w", err)
	}

	if reset {
		if err := client.DropSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to drop collection, continuing")
		}
	}
	if err := client.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}

	adapter := search.NewTypesenseAdapter(client)
	failed := 0
	for _, h := range hospitals {
		if err := adapter.Index(ctx, h); err != nil {
			log.Error().Err(err).Str("hospital_id", h.ID).Msg("Failed to index hospital")
			failed++
		}
	}

	log.Info().Int("indexed", len(hospitals)-failed).Int("failed", failed).Msg("Hospital index rebuilt")
	if failed > 0 {
		return fmt.Errorf("%d hospitals failed to index", failed)
	}
	return nil
}
