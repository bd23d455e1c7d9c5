package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/adapters/cache"
	"github.com/care4u/backend/internal/domain/providers"
)

func TestCacheMiddleware(t *testing.T) {
	store := cache.NewMemoryAdapter()
	var calls int32
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/api/hospitals/status" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})
	handler := NewCacheMiddleware(store).Middleware(next)

	serve := func(target string, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("second anonymous read is a hit", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		first := serve("/api/hospitals?specialty=Trauma", "")
		second := serve("/api/hospitals?specialty=Trauma", "")

		assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
		assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
		assert.Equal(t, `{"success":true}`, second.Body.String())
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("keys carry the invalidation prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/hospitals?specialty=Trauma", nil)
		key := NewCacheMiddleware(store).cacheKey(req)

		assert.True(t, strings.HasPrefix(key, providers.HTTPCachePrefix))
		exists, err := store.Exists(context.Background(), key)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("query parameter order shares an entry", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		serve("/api/hospitals?sort=wait-time&specialty=Cardiology", "")
		w := serve("/api/hospitals?specialty=Cardiology&sort=wait-time", "")

		assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("signed-in requests bypass the cache", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		w := serve("/api/hospitals?specialty=Trauma", "token")

		assert.Empty(t, w.Header().Get("X-Cache"))
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("hospital detail is never cached", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		serve("/api/hospitals/city-general-hospital", "")
		w := serve("/api/hospitals/city-general-hospital", "")

		assert.Empty(t, w.Header().Get("X-Cache"))
		assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	})

	t.Run("errors are not cached", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		serve("/api/hospitals/status", "")
		w := serve("/api/hospitals/status", "")

		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
		assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	})

	t.Run("invalidation clears cached responses", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		serve("/api/hospitals/nearby", "")
		require.NoError(t, store.DeletePattern(context.Background(), providers.HTTPCachePrefix+"*"))
		w := serve("/api/hospitals/nearby", "")

		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
		assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	})
}
