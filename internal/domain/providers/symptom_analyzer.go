package providers

import (
	"context"

	"github.com/care4u/backend/internal/domain/entities"
)

// SymptomRequest is everything the analyzer needs for one symptom assessment
type SymptomRequest struct {
	Symptoms  string
	Hospitals []*entities.Hospital
	Doctors   []*entities.Doctor
}

// VoiceRequest is everything the analyzer needs for one spoken query
type VoiceRequest struct {
	SpokenCondition string
	Hospitals       []*entities.Hospital
	Doctors         []*entities.Doctor
	// PatientContext is optional free text describing known conditions and allergies
	PatientContext string
}

// SymptomAnalyzer is the external AI collaborator
type SymptomAnalyzer interface {
	// AnalyzeSymptoms returns urgency, steps and hospital/doctor picks for free-text symptoms
	AnalyzeSymptoms(ctx context.Context, req SymptomRequest) (*entities.SymptomAnalysis, error)

	// SearchByVoice returns one spoken paragraph recommending hospitals
	SearchByVoice(ctx context.Context, req VoiceRequest) (*entities.VoiceSearchResult, error)

	// SummarizeCapabilities describes a hospital's emergency capacity
	SummarizeCapabilities(ctx context.Context, hospital *entities.Hospital) (*entities.CapabilitySummary, error)
}
