package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/adapters/cache"
	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/mocks"
)

func catalog() []*entities.Hospital {
	return []*entities.Hospital{{ID: "a", EstimatedWaitTime: 10}, {ID: "b", EstimatedWaitTime: 20}}
}

func TestCachedAnalyzer_NormalisedSymptomsHitCache(t *testing.T) {
	next := new(mocks.SymptomAnalyzer)
	a := NewCachedAnalyzer(next, cache.NewMemoryAdapter(), time.Minute)
	ctx := context.Background()

	next.On("AnalyzeSymptoms", mock.Anything, mock.Anything).
		Return(&entities.SymptomAnalysis{Analysis: "x", Urgency: entities.UrgencyLow}, nil).Once()

	first, err := a.AnalyzeSymptoms(ctx, providers.SymptomRequest{Symptoms: "Sore  throat", Hospitals: catalog()})
	require.NoError(t, err)
	second, err := a.AnalyzeSymptoms(ctx, providers.SymptomRequest{Symptoms: " sore throat ", Hospitals: catalog()})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	next.AssertNumberOfCalls(t, "AnalyzeSymptoms", 1)
}

func TestCachedAnalyzer_CatalogChangeMissesCache(t *testing.T) {
	next := new(mocks.SymptomAnalyzer)
	a := NewCachedAnalyzer(next, cache.NewMemoryAdapter(), time.Minute)
	ctx := context.Background()

	next.On("AnalyzeSymptoms", mock.Anything, mock.Anything).
		Return(&entities.SymptomAnalysis{Urgency: entities.UrgencyLow}, nil).Twice()

	_, err := a.AnalyzeSymptoms(ctx, providers.SymptomRequest{Symptoms: "cough", Hospitals: catalog()})
	require.NoError(t, err)

	changed := catalog()
	changed[0].EstimatedWaitTime = 90
	_, err = a.AnalyzeSymptoms(ctx, providers.SymptomRequest{Symptoms: "cough", Hospitals: changed})
	require.NoError(t, err)

	next.AssertNumberOfCalls(t, "AnalyzeSymptoms", 2)
}

func TestCachedAnalyzer_ErrorsAreNotCached(t *testing.T) {
	next := new(mocks.SymptomAnalyzer)
	a := NewCachedAnalyzer(next, cache.NewMemoryAdapter(), time.Minute)
	ctx := context.Background()

	next.On("AnalyzeSymptoms", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	next.On("AnalyzeSymptoms", mock.Anything, mock.Anything).Return(&entities.SymptomAnalysis{Urgency: entities.UrgencyHigh}, nil).Once()

	_, err := a.AnalyzeSymptoms(ctx, providers.SymptomRequest{Symptoms: "cough"})
	require.Error(t, err)
	out, err := a.AnalyzeSymptoms(ctx, providers.SymptomRequest{Symptoms: "cough"})
	require.NoError(t, err)
	assert.Equal(t, entities.UrgencyHigh, out.Urgency)
}

func TestCachedAnalyzer_VoiceIsNeverCached(t *testing.T) {
	next := new(mocks.SymptomAnalyzer)
	a := NewCachedAnalyzer(next, cache.NewMemoryAdapter(), time.Minute)

	next.On("SearchByVoice", mock.Anything, mock.Anything).
		Return(&entities.VoiceSearchResult{HospitalRecommendations: "go"}, nil).Twice()

	for i := 0; i < 2; i++ {
		_, err := a.SearchByVoice(context.Background(), providers.VoiceRequest{SpokenCondition: "stroke"})
		require.NoError(t, err)
	}
	next.AssertNumberOfCalls(t, "SearchByVoice", 2)
}

func TestCachedAnalyzer_SummaryKeyedByCapabilities(t *testing.T) {
	next := new(mocks.SymptomAnalyzer)
	store := cache.NewMemoryAdapter()
	a := NewCachedAnalyzer(next, store, time.Minute)
	ctx := context.Background()

	h := &entities.Hospital{ID: "a", Capabilities: entities.Capabilities{BedsAvailable: 3}}
	next.On("SummarizeCapabilities", mock.Anything, mock.Anything).
		Return(&entities.CapabilitySummary{HospitalID: "a", Summary: "ok"}, nil).Twice()

	_, err := a.SummarizeCapabilities(ctx, h)
	require.NoError(t, err)
	_, err = a.SummarizeCapabilities(ctx, h)
	require.NoError(t, err)
	next.AssertNumberOfCalls(t, "SummarizeCapabilities", 1)

	require.NoError(t, store.DeletePattern(ctx, providers.SummaryCachePattern("a")))
	_, err = a.SummarizeCapabilities(ctx, h)
	require.NoError(t, err)
	next.AssertNumberOfCalls(t, "SummarizeCapabilities", 2)
}

func TestNormalizeSymptoms(t *testing.T) {
	assert.Equal(t, "chest pain and sweating", NormalizeSymptoms("  Chest PAIN\tand\n sweating "))
}
