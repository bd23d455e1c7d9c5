package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/infrastructure/observability"
)

const invalidationTimeout = 5 * time.Second

// CacheInvalidationService drops cached hospital data when a status update is published
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelHospitalUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to hospital updates: %w", err)
	}

	s.wg.Add(1)
	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("Cache invalidation service started")
	return nil
}

// Stop stops the service and waits for the event loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	s.wg.Wait()
	observability.GetLogger().Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.HospitalEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.HospitalEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidationTimeout)
	defer cancel()

	logger := observability.GetLogger().With().
		Str("event_id", event.ID).
		Str("hospital_id", event.HospitalID).
		Str("event_type", string(event.EventType)).
		Logger()

	if err := s.InvalidateHospital(ctx, event.HospitalID); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate hospital cache")
		return
	}
	logger.Debug().Msg("Invalidated hospital cache")
}

// InvalidateHospital drops the hospital record, the catalog list, its
// capability summaries and every cached HTTP catalog response. Cached triage
// analyses key on catalog state and need no invalidation.
func (s *CacheInvalidationService) InvalidateHospital(ctx context.Context, hospitalID string) error {
	if err := s.cache.Delete(ctx, providers.HospitalCacheKey(hospitalID), providers.HospitalListCacheKey); err != nil {
		return fmt.Errorf("failed to delete hospital keys: %w", err)
	}
	for _, pattern := range []string{providers.SummaryCachePattern(hospitalID), providers.HTTPCachePrefix + "*"} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}
	return nil
}

// InvalidateAll drops every cached catalog entry, used after reseeding
func (s *CacheInvalidationService) InvalidateAll(ctx context.Context) error {
	patterns := []string{
		providers.HospitalListCacheKey,
		providers.HospitalCacheKey("*"),
		"summary:*",
		"analysis:*",
		providers.HTTPCachePrefix + "*",
	}
	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}
	observability.GetLogger().Info().Int("patterns", len(patterns)).Msg("Invalidated catalog caches")
	return nil
}
