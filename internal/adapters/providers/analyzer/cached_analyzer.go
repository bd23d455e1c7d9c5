package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/infrastructure/observability"
)

const summaryTTL = 30 * time.Minute

// CachedAnalyzer stores analyzer responses keyed by their normalised input.
// Voice responses are personalised and always pass through.
type CachedAnalyzer struct {
	next  providers.SymptomAnalyzer
	cache providers.CacheProvider
	ttl   time.Duration
}

var _ providers.SymptomAnalyzer = (*CachedAnalyzer)(nil)

// NewCachedAnalyzer wraps next; a non-positive ttl disables analysis caching.
func NewCachedAnalyzer(next providers.SymptomAnalyzer, cache providers.CacheProvider, ttl time.Duration) *CachedAnalyzer {
	return &CachedAnalyzer{next: next, cache: cache, ttl: ttl}
}

func (a *CachedAnalyzer) AnalyzeSymptoms(ctx context.Context, req providers.SymptomRequest) (*entities.SymptomAnalysis, error) {
	if a.ttl <= 0 {
		return a.next.AnalyzeSymptoms(ctx, req)
	}

	key := analysisKey(req)
	var cached entities.SymptomAnalysis
	if a.get(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := a.next.AnalyzeSymptoms(ctx, req)
	if err != nil {
		return nil, err
	}
	a.set(ctx, key, out, a.ttl)
	return out, nil
}

func (a *CachedAnalyzer) SearchByVoice(ctx context.Context, req providers.VoiceRequest) (*entities.VoiceSearchResult, error) {
	return a.next.SearchByVoice(ctx, req)
}

func (a *CachedAnalyzer) SummarizeCapabilities(ctx context.Context, hospital *entities.Hospital) (*entities.CapabilitySummary, error) {
	key := summaryKey(hospital)
	var cached entities.CapabilitySummary
	if a.get(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := a.next.SummarizeCapabilities(ctx, hospital)
	if err != nil {
		return nil, err
	}
	a.set(ctx, key, out, summaryTTL)
	return out, nil
}

func (a *CachedAnalyzer) get(ctx context.Context, key string, out interface{}) bool {
	data, err := a.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Discarding undecodable cached analysis")
		return false
	}
	return true
}

func (a *CachedAnalyzer) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, int(ttl.Seconds())); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to cache analysis")
	}
}

// NormalizeSymptoms lowercases and collapses whitespace.
func NormalizeSymptoms(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// analysisKey covers the live catalog state so a capacity change yields a new key.
func analysisKey(req providers.SymptomRequest) string {
	h := sha256.New()
	h.Write([]byte(NormalizeSymptoms(req.Symptoms)))
	for _, hospital := range req.Hospitals {
		fmt.Fprintf(h, "|%s", capabilityFingerprint(hospital))
	}
	for _, d := range req.Doctors {
		fmt.Fprintf(h, "|%s:%s", d.ID, d.HospitalID)
	}
	return "analysis:" + hex.EncodeToString(h.Sum(nil))[:32]
}

func summaryKey(hospital *entities.Hospital) string {
	sum := sha256.Sum256([]byte(capabilityFingerprint(hospital)))
	return fmt.Sprintf("summary:%s:%s", hospital.ID, hex.EncodeToString(sum[:])[:16])
}

func capabilityFingerprint(h *entities.Hospital) string {
	c := h.Capabilities
	return fmt.Sprintf("%s:%d:%d:%d:%d:%.1f:%t:%s",
		h.ID, c.BedsAvailable, c.ICUBedsAvailable, c.OperatingRoomsAvailable,
		h.EstimatedWaitTime, h.Distance, c.HasHelicopterPad, strings.Join(c.Specialties, ","))
}
