package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
)

func TestUnavailable_EveryCallFails(t *testing.T) {
	ctx := context.Background()
	var a providers.SymptomAnalyzer = Unavailable{}

	_, err := a.AnalyzeSymptoms(ctx, providers.SymptomRequest{Symptoms: "chest pain"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = a.SearchByVoice(ctx, providers.VoiceRequest{SpokenCondition: "broken arm"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = a.SummarizeCapabilities(ctx, &entities.Hospital{ID: "city"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
