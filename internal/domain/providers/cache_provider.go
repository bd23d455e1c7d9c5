package providers

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes one or more keys from cache
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}

// HospitalListCacheKey holds the full catalog
const HospitalListCacheKey = "hospitals:list"

// HospitalCacheKey is the key of a single hospital record
func HospitalCacheKey(id string) string {
	return "hospital:" + id
}

// SummaryCachePattern matches every cached capability summary of one hospital
func SummaryCachePattern(hospitalID string) string {
	return "summary:" + hospitalID + ":*"
}

// HTTPCachePrefix namespaces cached HTTP responses
const HTTPCachePrefix = "http:cache:"
