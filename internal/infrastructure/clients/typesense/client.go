package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/care4u/backend/internal/infrastructure/observability"
	"github.com/care4u/backend/pkg/config"
	"github.com/care4u/backend/pkg/retry"
)

const (
	HospitalsCollection = "hospitals"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client and waits for the server to become healthy
func NewClient(ctx context.Context, cfg *config.TypesenseConfig, retryCfg retry.Config) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	logger := observability.GetLogger()
	err := retry.DoWithLog(ctx, retryCfg, "Typesense",
		func() error {
			healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_, err := client.Health(healthCtx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	logger.Info().Str("url", cfg.URL).Msg("Connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the hospitals collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == HospitalsCollection {
			return nil
		}
	}

	_, err = c.client.Collections().Create(ctx, HospitalSchema())
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	observability.GetLogger().Info().Str("collection", HospitalsCollection).Msg("Created Typesense collection")
	return nil
}

// DropSchema deletes the hospitals collection and every indexed document
func (c *Client) DropSchema(ctx context.Context) error {
	if _, err := c.client.Collection(HospitalsCollection).Delete(ctx); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}

// HospitalSchema describes the hospitals collection
func HospitalSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: HospitalsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "address", Type: "string"},
			{Name: "specialties", Type: "string[]", Facet: pointer.True()},
			{Name: "tags", Type: "string[]"},
			{Name: "location", Type: "geopoint"},
			{Name: "distance", Type: "float"},
			{Name: "estimated_wait_time", Type: "int32"},
			{Name: "icu_beds_available", Type: "int32"},
			{Name: "has_helicopter_landing_pad", Type: "bool", Facet: pointer.True()},
		},
		DefaultSortingField: pointer.String("estimated_wait_time"),
	}
}
