package services

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/care4u/backend/internal/domain/entities"
)

// RankParams are the user-controlled inputs of one ranking pass
type RankParams struct {
	Query          string
	Specialty      string
	SortBy         entities.SortKey
	Recommendation *entities.ExternalRecommendation
}

// HospitalRankingService filters, pins and orders catalog records.
// It holds no state and never mutates its inputs, so one instance can
// serve every request concurrently.
type HospitalRankingService struct {
	maxResults int
}

func NewHospitalRankingService() *HospitalRankingService {
	return &HospitalRankingService{maxResults: entities.MaxRankedResults}
}

// Rank returns at most five hospitals. A recommended hospital that passes
// the filters is pinned first with its annotation; one that fails them, or
// is not in the catalog, is ignored.
func (s *HospitalRankingService) Rank(catalog []*entities.Hospital, params RankParams) []entities.RankedHospital {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(params.Query))
	specialty := strings.TrimSpace(params.Specialty)

	var pinned *entities.RankedHospital
	remainder := make([]*entities.Hospital, 0, len(catalog))

	for _, h := range catalog {
		if h == nil || !matchesQuery(fold, h, query) || !matchesSpecialty(h, specialty) {
			continue
		}
		if pinned == nil && params.Recommendation != nil && h.ID == params.Recommendation.HospitalID {
			pinned = &entities.RankedHospital{
				Hospital: h.Clone(),
				Annotation: &entities.RecommendationAnnotation{
					IsAIRecommended: true,
					Reason:          params.Recommendation.Reason,
				},
			}
			continue
		}
		remainder = append(remainder, h)
	}

	less := lessByDistance
	if params.SortBy == entities.SortByWaitTime {
		less = lessByWaitTime
	}
	sort.SliceStable(remainder, func(i, j int) bool {
		return less(remainder[i], remainder[j])
	})

	results := make([]entities.RankedHospital, 0, s.maxResults)
	if pinned != nil {
		results = append(results, *pinned)
	}
	for _, h := range remainder {
		if len(results) == s.maxResults {
			break
		}
		results = append(results, entities.RankedHospital{Hospital: h})
	}

	return results
}

// ClassifySeverityBand maps an analyzer urgency to its display tier.
// Unknown labels fall into the clarification band so nothing is recommended
// on a response the service cannot interpret.
func ClassifySeverityBand(urgency entities.Urgency) entities.SeverityBand {
	switch urgency {
	case entities.UrgencyLow, entities.UrgencyMedium:
		return entities.SeverityBandInformational
	case entities.UrgencyHigh:
		return entities.SeverityBandUrgent
	case entities.UrgencyCritical:
		return entities.SeverityBandCritical
	default:
		return entities.SeverityBandClarification
	}
}

func matchesQuery(fold cases.Caser, h *entities.Hospital, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(fold.String(h.Name), query) || strings.Contains(fold.String(h.Address), query) {
		return true
	}
	for _, tag := range h.Capabilities.Specialties {
		if strings.Contains(fold.String(tag), query) {
			return true
		}
	}
	return false
}

func matchesSpecialty(h *entities.Hospital, specialty string) bool {
	if specialty == "" || strings.EqualFold(specialty, entities.SpecialtyAll) {
		return true
	}
	return h.HasSpecialty(specialty)
}

func lessByDistance(a, b *entities.Hospital) bool {
	return a.Distance < b.Distance
}

func lessByWaitTime(a, b *entities.Hospital) bool {
	return a.EstimatedWaitTime < b.EstimatedWaitTime
}
