package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/observability"
	apperrors "github.com/care4u/backend/pkg/errors"
)

// VoiceService answers spoken queries with one paragraph from the analyzer.
// The paragraph is returned as-is; no ranking is applied to it.
type VoiceService struct {
	hospitals repositories.HospitalRepository
	doctors   repositories.DoctorRepository
	profiles  repositories.PatientProfileRepository
	analyzer  providers.SymptomAnalyzer
	history   *HistoryService
}

// NewVoiceService creates a new voice service; profiles and history may be nil
func NewVoiceService(
	hospitals repositories.HospitalRepository,
	doctors repositories.DoctorRepository,
	profiles repositories.PatientProfileRepository,
	analyzer providers.SymptomAnalyzer,
	history *HistoryService,
) *VoiceService {
	return &VoiceService{
		hospitals: hospitals,
		doctors:   doctors,
		profiles:  profiles,
		analyzer:  analyzer,
		history:   history,
	}
}

// Search forwards the spoken condition, personalised for known patients
func (s *VoiceService) Search(ctx context.Context, userID, spokenCondition string) (*entities.VoiceSearchResult, error) {
	spokenCondition = strings.TrimSpace(spokenCondition)
	if spokenCondition == "" {
		return nil, apperrors.NewValidationError("Please describe the condition")
	}

	catalog, err := s.hospitals.List(ctx)
	if err != nil {
		return nil, err
	}
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.SearchByVoice(ctx, providers.VoiceRequest{
		SpokenCondition: spokenCondition,
		Hospitals:       catalog,
		Doctors:         doctors,
		PatientContext:  s.patientContext(ctx, userID),
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("Voice search failed")
		return nil, apperrors.NewExternalError(apperrors.RetryableMessage, err)
	}

	s.history.RecordBestEffort(ctx, userID, ActionUsedVoiceAssistant, fmt.Sprintf("Query: '%s'", spokenCondition))
	return result, nil
}

// patientContext summarises what the analyzer should take into account; it
// is empty for anonymous callers and non-patients.
func (s *VoiceService) patientContext(ctx context.Context, userID string) string {
	if s.profiles == nil || userID == "" {
		return ""
	}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to load patient profile for voice search")
		}
		return ""
	}
	return DescribePatient(profile)
}

// DescribePatient renders known conditions, allergies and medications as one line
func DescribePatient(p *entities.PatientProfile) string {
	var parts []string
	if len(p.MedicalHistory) > 0 {
		parts = append(parts, "known conditions: "+strings.Join(p.MedicalHistory, ", "))
	}
	if len(p.Allergies) > 0 {
		parts = append(parts, "allergies: "+strings.Join(p.Allergies, ", "))
	}
	if len(p.CurrentMedications) > 0 {
		names := make([]string, 0, len(p.CurrentMedications))
		for _, m := range p.CurrentMedications {
			names = append(names, m.Name)
		}
		parts = append(parts, "current medications: "+strings.Join(names, ", "))
	}
	if p.BloodType != "" {
		parts = append(parts, "blood type: "+p.BloodType)
	}
	return strings.Join(parts, "; ")
}
