package database

import (
	"context"
	"encoding/json"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/observability"
)

// CachedHospitalAdapter wraps a HospitalRepository with read-through caching
type CachedHospitalAdapter struct {
	adapter repositories.HospitalRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedHospitalAdapter creates a new cached hospital adapter
func NewCachedHospitalAdapter(adapter repositories.HospitalRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.HospitalRepository {
	return &CachedHospitalAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs (in seconds)
const (
	hospitalByIDTTL  = 300
	hospitalsListTTL = 60
)

// GetByID retrieves a hospital by ID with caching
func (a *CachedHospitalAdapter) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	cacheKey := providers.HospitalCacheKey(id)

	var hospital entities.Hospital
	if a.lookup(ctx, cacheKey, "hospital", &hospital) {
		return &hospital, nil
	}

	h, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.store(ctx, cacheKey, h, hospitalByIDTTL)
	return h, nil
}

// GetByIDs is served from the cached catalog, keeping the requested order
func (a *CachedHospitalAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Hospital, error) {
	if len(ids) == 0 {
		return []*entities.Hospital{}, nil
	}

	all, err := a.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Hospital, len(all))
	for _, h := range all {
		byID[h.ID] = h
	}
	out := make([]*entities.Hospital, 0, len(ids))
	for _, id := range ids {
		if h, ok := byID[id]; ok {
			out = append(out, h)
			delete(byID, id)
		}
	}
	return out, nil
}

// List retrieves the catalog with caching
func (a *CachedHospitalAdapter) List(ctx context.Context) ([]*entities.Hospital, error) {
	var hospitals []*entities.Hospital
	if a.lookup(ctx, providers.HospitalListCacheKey, "hospital_list", &hospitals) {
		return hospitals, nil
	}

	hospitals, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}
	a.store(ctx, providers.HospitalListCacheKey, hospitals, hospitalsListTTL)
	return hospitals, nil
}

// Upsert writes through and invalidates cached copies
func (a *CachedHospitalAdapter) Upsert(ctx context.Context, hospital *entities.Hospital) error {
	if err := a.adapter.Upsert(ctx, hospital); err != nil {
		return err
	}
	a.invalidate(ctx, hospital.ID)
	return nil
}

// UpdateStatus writes through and invalidates cached copies
func (a *CachedHospitalAdapter) UpdateStatus(ctx context.Context, id string, update entities.HospitalStatusUpdate) (*entities.Hospital, error) {
	h, err := a.adapter.UpdateStatus(ctx, id, update)
	if err != nil {
		return nil, err
	}
	a.invalidate(ctx, id)
	return h, nil
}

// lookup reports a hit and decodes into out; label keeps metric cardinality low.
func (a *CachedHospitalAdapter) lookup(ctx context.Context, key, label string, out interface{}) bool {
	cached, err := a.cache.Get(ctx, key)
	if err != nil {
		observability.RecordCacheMiss(ctx, a.metrics, label)
		return false
	}
	if err := json.Unmarshal(cached, out); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached hospital data")
		return false
	}
	observability.RecordCacheHit(ctx, a.metrics, label)
	return true
}

// store writes synchronously so a concurrent invalidation cannot be overtaken by a stale write.
func (a *CachedHospitalAdapter) store(ctx context.Context, key string, value interface{}, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to cache hospital data")
	}
}

func (a *CachedHospitalAdapter) invalidate(ctx context.Context, id string) {
	if err := a.cache.Delete(ctx, providers.HospitalCacheKey(id), providers.HospitalListCacheKey); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("hospital_id", id).Msg("Failed to invalidate hospital cache")
	}
}
