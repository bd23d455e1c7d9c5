package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
)

var (
	_ providers.SymptomAnalyzer     = (*SymptomAnalyzer)(nil)
	_ providers.EventBus            = (*EventBus)(nil)
	_ providers.GeolocationProvider = (*GeolocationProvider)(nil)
)

// SymptomAnalyzer mocks providers.SymptomAnalyzer
type SymptomAnalyzer struct {
	mock.Mock
}

func (m *SymptomAnalyzer) AnalyzeSymptoms(ctx context.Context, req providers.SymptomRequest) (*entities.SymptomAnalysis, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SymptomAnalysis), args.Error(1)
}

func (m *SymptomAnalyzer) SearchByVoice(ctx context.Context, req providers.VoiceRequest) (*entities.VoiceSearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VoiceSearchResult), args.Error(1)
}

func (m *SymptomAnalyzer) SummarizeCapabilities(ctx context.Context, h *entities.Hospital) (*entities.CapabilitySummary, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CapabilitySummary), args.Error(1)
}

// EventBus mocks providers.EventBus
type EventBus struct {
	mock.Mock
}

func (m *EventBus) Publish(ctx context.Context, channel string, event *entities.HospitalEvent) error {
	return m.Called(ctx, channel, event).Error(0)
}

func (m *EventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.HospitalEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.HospitalEvent), args.Error(1)
}

func (m *EventBus) Unsubscribe(ctx context.Context, channel string) error {
	return m.Called(ctx, channel).Error(0)
}

func (m *EventBus) Close() error {
	return m.Called().Error(0)
}

// GeolocationProvider mocks providers.GeolocationProvider
type GeolocationProvider struct {
	mock.Mock
}

func (m *GeolocationProvider) CalculateDistance(ctx context.Context, from, to providers.Coordinates) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}
