package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/observability"
	apperrors "github.com/care4u/backend/pkg/errors"
)

// SearchOptions are the filters applied to the ranked list of an assessment
type SearchOptions struct {
	Specialty string
	SortBy    entities.SortKey
}

// TriageService turns free-text symptoms into a classified, ranked recommendation
type TriageService struct {
	hospitals repositories.HospitalRepository
	doctors   repositories.DoctorRepository
	analyzer  providers.SymptomAnalyzer
	ranker    *HospitalRankingService
	history   *HistoryService
	metrics   *observability.Metrics
	inflight  singleflight.Group
}

// NewTriageService creates a new triage service; history and metrics may be nil
func NewTriageService(
	hospitals repositories.HospitalRepository,
	doctors repositories.DoctorRepository,
	analyzer providers.SymptomAnalyzer,
	ranker *HospitalRankingService,
	history *HistoryService,
	metrics *observability.Metrics,
) *TriageService {
	if ranker == nil {
		ranker = NewHospitalRankingService()
	}
	return &TriageService{
		hospitals: hospitals,
		doctors:   doctors,
		analyzer:  analyzer,
		ranker:    ranker,
		history:   history,
		metrics:   metrics,
	}
}

// Assess analyzes symptoms and composes the response. Identical concurrent
// requests from the same user share one analyzer call.
func (s *TriageService) Assess(ctx context.Context, userID, symptoms string, opts SearchOptions) (*entities.TriageResult, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return nil, apperrors.NewValidationError("Please describe your symptoms")
	}

	key := strings.Join([]string{userID, strings.ToLower(symptoms), opts.Specialty, string(opts.SortBy)}, "\x00")
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return s.assess(context.WithoutCancel(ctx), symptoms, opts)
	})
	if err != nil {
		return nil, err
	}
	result := v.(*entities.TriageResult)

	details := ""
	if result.SeverityBand != entities.SeverityBandClarification {
		details = fmt.Sprintf("%d hospitals found", len(result.RankedHospitals))
	}
	s.history.RecordBestEffort(ctx, userID, SearchedForAction(symptoms), details)

	return result, nil
}

func (s *TriageService) assess(ctx context.Context, symptoms string, opts SearchOptions) (*entities.TriageResult, error) {
	ctx, span := observability.StartSpan(ctx, "TriageService.Assess")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	catalog, err := s.hospitals.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	analysis, err := s.analyzer.AnalyzeSymptoms(ctx, providers.SymptomRequest{
		Symptoms:  symptoms,
		Hospitals: catalog,
		Doctors:   doctors,
	})
	if err != nil {
		observability.RecordError(span, err)
		logger.Error().Err(err).Msg("Symptom analysis failed")
		return nil, apperrors.NewExternalError(apperrors.RetryableMessage, err)
	}

	band := ClassifySeverityBand(analysis.Urgency)
	observability.RecordTriage(ctx, s.metrics, string(band))

	result := &entities.TriageResult{
		Analysis:     analysis.Analysis,
		Urgency:      analysis.Urgency,
		SeverityBand: band,
	}

	if band == entities.SeverityBandClarification {
		result.ClarifyingQuestions = append([]string{}, analysis.ClarifyingQuestions...)
		result.Caveat = entities.ClarificationCaveat
		return result, nil
	}

	result.SuggestedSteps = suggestedSteps(analysis.SuggestedSteps, band)
	result.RecommendedHospitals = resolveRecommendations(catalog, analysis.RecommendedHospitals)

	params := RankParams{Specialty: opts.Specialty, SortBy: opts.SortBy}
	if len(result.RecommendedHospitals) > 0 {
		first := result.RecommendedHospitals[0]
		params.Recommendation = &entities.ExternalRecommendation{
			HospitalID: first.ID,
			Reason:     first.Annotation.Reason,
		}
	}
	result.RankedHospitals = s.ranker.Rank(catalog, params)

	doctorsOut := analysis.RecommendedDoctors
	if len(doctorsOut) > entities.MaxRecommendedDoctors {
		doctorsOut = doctorsOut[:entities.MaxRecommendedDoctors]
	}
	result.RecommendedDoctors = append([]entities.DoctorRecommendation{}, doctorsOut...)

	logger.Info().
		Str("urgency", string(analysis.Urgency)).
		Str("band", string(band)).
		Int("recommended", len(result.RecommendedHospitals)).
		Msg("Symptom assessment completed")
	return result, nil
}

// suggestedSteps puts the emergency call first for urgent and critical bands.
func suggestedSteps(steps []string, band entities.SeverityBand) []string {
	out := make([]string, 0, len(steps)+1)
	if band == entities.SeverityBandUrgent || band == entities.SeverityBandCritical {
		out = append(out, entities.EmergencyCallStep)
		for _, step := range steps {
			if step != entities.EmergencyCallStep {
				out = append(out, step)
			}
		}
		return out
	}
	return append(out, steps...)
}

// resolveRecommendations keeps analyzer picks that exist in the catalog, in
// analyzer order, de-duplicated and capped.
func resolveRecommendations(catalog []*entities.Hospital, recs []entities.HospitalRecommendation) []entities.RankedHospital {
	byID := make(map[string]*entities.Hospital, len(catalog))
	for _, h := range catalog {
		byID[h.ID] = h
	}

	out := make([]entities.RankedHospital, 0, entities.MaxRecommendedHospitals)
	seen := make(map[string]bool)
	for _, rec := range recs {
		if len(out) == entities.MaxRecommendedHospitals {
			break
		}
		h, ok := byID[rec.HospitalID]
		if !ok || seen[rec.HospitalID] {
			continue
		}
		seen[rec.HospitalID] = true
		out = append(out, entities.RankedHospital{
			Hospital: h.Clone(),
			Annotation: &entities.RecommendationAnnotation{
				IsAIRecommended: true,
				Reason:          rec.Reason,
			},
		})
	}
	return out
}
