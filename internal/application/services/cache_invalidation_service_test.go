package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/adapters/cache"
	"github.com/care4u/backend/internal/adapters/events"
	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
)

func seedCache(t *testing.T, store providers.CacheProvider, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, store.Set(context.Background(), k, []byte("x"), 300))
	}
}

func cached(store providers.CacheProvider, key string) bool {
	ok, _ := store.Exists(context.Background(), key)
	return ok
}

func TestCacheInvalidationService_DropsHospitalKeysOnEvent(t *testing.T) {
	store := cache.NewMemoryAdapter()
	bus := events.NewMemoryEventBus()
	defer bus.Close()

	svc := NewCacheInvalidationService(store, bus)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	seedCache(t, store,
		providers.HospitalListCacheKey,
		providers.HospitalCacheKey("1"),
		providers.HospitalCacheKey("2"),
		"summary:1:abcd",
		"summary:2:abcd",
		providers.HTTPCachePrefix+"deadbeef",
	)

	event := entities.NewHospitalEvent("1", entities.HospitalEventTypeCapacityUpdate, entities.Location{}, map[string]interface{}{"beds_available": 3})
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelHospitalUpdates, event))

	assert.Eventually(t, func() bool {
		return !cached(store, providers.HospitalCacheKey("1"))
	}, time.Second, 10*time.Millisecond)

	assert.False(t, cached(store, providers.HospitalListCacheKey))
	assert.False(t, cached(store, "summary:1:abcd"))
	assert.False(t, cached(store, providers.HTTPCachePrefix+"deadbeef"))
	assert.True(t, cached(store, providers.HospitalCacheKey("2")))
	assert.True(t, cached(store, "summary:2:abcd"))
}

func TestCacheInvalidationService_InvalidateAll(t *testing.T) {
	store := cache.NewMemoryAdapter()
	svc := NewCacheInvalidationService(store, events.NewMemoryEventBus())

	seedCache(t, store, providers.HospitalListCacheKey, providers.HospitalCacheKey("1"), "summary:1:ab", "analysis:ff", "session:keep")

	require.NoError(t, svc.InvalidateAll(context.Background()))

	for _, k := range []string{providers.HospitalListCacheKey, providers.HospitalCacheKey("1"), "summary:1:ab", "analysis:ff"} {
		assert.False(t, cached(store, k), k)
	}
	assert.True(t, cached(store, "session:keep"))
}

func TestCacheInvalidationService_StopEndsLoop(t *testing.T) {
	bus := events.NewMemoryEventBus()
	svc := NewCacheInvalidationService(cache.NewMemoryAdapter(), bus)
	require.NoError(t, svc.Start())

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
