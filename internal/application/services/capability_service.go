package services

import (
	"context"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/observability"
	apperrors "github.com/care4u/backend/pkg/errors"
)

// CapabilityService produces short emergency-capability summaries
type CapabilityService struct {
	hospitals repositories.HospitalRepository
	analyzer  providers.SymptomAnalyzer
}

// NewCapabilityService creates a new capability service
func NewCapabilityService(hospitals repositories.HospitalRepository, analyzer providers.SymptomAnalyzer) *CapabilityService {
	return &CapabilityService{hospitals: hospitals, analyzer: analyzer}
}

// Summarize describes one hospital's current capacity
func (s *CapabilityService) Summarize(ctx context.Context, hospitalID string) (*entities.CapabilitySummary, error) {
	hospital, err := s.hospitals.GetByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	summary, err := s.analyzer.SummarizeCapabilities(ctx, hospital)
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Str("hospital_id", hospitalID).Msg("Capability summary failed")
		return nil, apperrors.NewExternalError(apperrors.RetryableMessage, err)
	}
	summary.HospitalID = hospital.ID
	return summary, nil
}
