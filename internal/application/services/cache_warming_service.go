package services

import (
	"context"
	"fmt"
	"time"

	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/observability"
)

// CacheWarmingService preloads the catalog through a read-through cached repository
type CacheWarmingService struct {
	hospitals repositories.HospitalRepository
}

// NewCacheWarmingService creates a new cache warming service. hospitals should be the cached repository.
func NewCacheWarmingService(hospitals repositories.HospitalRepository) *CacheWarmingService {
	return &CacheWarmingService{hospitals: hospitals}
}

// WarmCache loads the catalog list and every hospital record. Individual failures are logged.
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	hospitals, err := s.hospitals.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm hospital list: %w", err)
	}

	warmed := 0
	for _, h := range hospitals {
		if _, err := s.hospitals.GetByID(ctx, h.ID); err != nil {
			logger.Warn().Err(err).Str("hospital_id", h.ID).Msg("Failed to warm hospital")
			continue
		}
		warmed++
	}

	logger.Info().Int("hospitals", warmed).Dur("took", time.Since(start)).Msg("Cache warming completed")
	return nil
}

// StartPeriodicWarming warms once, then again every interval until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	logger := observability.GetLogger()
	if err := s.WarmCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial cache warming failed")
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(ctx); err != nil {
					logger.Warn().Err(err).Msg("Periodic cache warming failed")
				}
			}
		}
	}()
	logger.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}
