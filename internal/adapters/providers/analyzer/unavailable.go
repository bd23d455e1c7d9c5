package analyzer

import (
	"context"
	"errors"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
)

// ErrNotConfigured is returned when no language model has been configured
var ErrNotConfigured = errors.New("symptom analyzer is not configured")

// Unavailable stands in for the model when no API key is set. The catalog
// keeps working and every analysis fails with ErrNotConfigured.
type Unavailable struct{}

var _ providers.SymptomAnalyzer = Unavailable{}

func (Unavailable) AnalyzeSymptoms(ctx context.Context, req providers.SymptomRequest) (*entities.SymptomAnalysis, error) {
	return nil, ErrNotConfigured
}

func (Unavailable) SearchByVoice(ctx context.Context, req providers.VoiceRequest) (*entities.VoiceSearchResult, error) {
	return nil, ErrNotConfigured
}

func (Unavailable) SummarizeCapabilities(ctx context.Context, h *entities.Hospital) (*entities.CapabilitySummary, error) {
	return nil, ErrNotConfigured
}
