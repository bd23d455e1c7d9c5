package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pg, err := openPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			log.Info().Msg("Schema is up to date")
			return nil
		},
	}
}
