package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/infrastructure/observability"
)

// catalogReadTTL lists the anonymous catalog reads worth caching and for how
// long. Status updates purge every entry through the invalidation service, so
// these only bound staleness across instances that missed the event.
var catalogReadTTL = map[string]time.Duration{
	"/api/hospitals":             time.Minute,
	"/api/hospitals/specialties": 5 * time.Minute,
	"/api/hospitals/nearby":      time.Minute,
	"/api/hospitals/status":      30 * time.Second,
	"/api/hospitals/suggest":     time.Minute,
}

// CacheMiddleware caches anonymous catalog responses in the shared cache.
// Signed-in reads are never cached because they record history.
type CacheMiddleware struct {
	cache   providers.CacheProvider
	ttl     map[string]time.Duration
	metrics *observability.Metrics
}

// NewCacheMiddleware creates a response cache over the catalog read routes
func NewCacheMiddleware(cache providers.CacheProvider) *CacheMiddleware {
	return &CacheMiddleware{cache: cache, ttl: catalogReadTTL}
}

// WithMetrics reports hits and misses to the cache counters
func (m *CacheMiddleware) WithMetrics(metrics *observability.Metrics) *CacheMiddleware {
	m.metrics = metrics
	return m
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ttl, cacheable := m.ttl[r.URL.Path]
		if !cacheable || r.Method != http.MethodGet || m.cache == nil || TokenFromRequest(r) != "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		logger := observability.LoggerFromContext(ctx)
		key := m.cacheKey(r)

		if body, err := m.cache.Get(ctx, key); err == nil {
			observability.RecordCacheHit(ctx, m.metrics, r.URL.Path)
			// The mux never runs on a hit; cached paths are literal routes.
			r.Pattern = http.MethodGet + " " + r.URL.Path
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(body); err != nil {
				logger.Debug().Err(err).Msg("Client went away before cached body was written")
			}
			return
		}

		observability.RecordCacheMiss(ctx, m.metrics, r.URL.Path)
		w.Header().Set("X-Cache", "MISS")

		tee := &teeWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(tee, r)

		if tee.status != http.StatusOK || tee.body.Len() == 0 {
			return
		}
		if err := m.cache.Set(ctx, key, tee.body.Bytes(), int(ttl/time.Second)); err != nil {
			logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to cache catalog response")
		}
	})
}

// cacheKey hashes the path and the query in canonical order, so parameter
// order does not split the cache.
func (m *CacheMiddleware) cacheKey(r *http.Request) string {
	canonical := r.URL.Path
	if q := r.URL.Query(); len(q) > 0 {
		canonical += "?" + q.Encode()
	}
	sum := sha256.Sum256([]byte(canonical))
	return providers.HTTPCachePrefix + hex.EncodeToString(sum[:])
}

// teeWriter writes through to the client while keeping a copy of the body
type teeWriter struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (t *teeWriter) WriteHeader(status int) {
	if t.wroteHeader {
		return
	}
	t.status = status
	t.wroteHeader = true
	t.ResponseWriter.WriteHeader(status)
}

func (t *teeWriter) Write(p []byte) (int, error) {
	if !t.wroteHeader {
		t.WriteHeader(http.StatusOK)
	}
	t.body.Write(p)
	return t.ResponseWriter.Write(p)
}
