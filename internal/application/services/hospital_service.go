package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/observability"
	apperrors "github.com/care4u/backend/pkg/errors"
)

const (
	DefaultNearbyCount = 4
	maxSuggestions     = 8

	maxBeds           = 100
	maxICUBeds        = 50
	maxOperatingRooms = 20
	maxWaitMinutes    = 300
)

// SearchRequest is one search-surface query
type SearchRequest struct {
	Query                string
	Specialty            string
	SortBy               entities.SortKey
	RecommendedID        string
	RecommendationReason string
	UserLocation         *entities.Location
}

// HospitalService handles business logic for the hospital catalog
type HospitalService struct {
	repo       repositories.HospitalRepository
	searchRepo repositories.HospitalSearchRepository
	geo        providers.GeolocationProvider
	eventBus   providers.EventBus
	ranker     *HospitalRankingService
}

// NewHospitalService creates a new hospital service; searchRepo, geo and eventBus may be nil
func NewHospitalService(
	repo repositories.HospitalRepository,
	searchRepo repositories.HospitalSearchRepository,
	geo providers.GeolocationProvider,
	eventBus providers.EventBus,
	ranker *HospitalRankingService,
) *HospitalService {
	if ranker == nil {
		ranker = NewHospitalRankingService()
	}
	return &HospitalService{
		repo:       repo,
		searchRepo: searchRepo,
		geo:        geo,
		eventBus:   eventBus,
		ranker:     ranker,
	}
}

// Catalog returns every hospital, with distances measured from userLocation when given
func (s *HospitalService) Catalog(ctx context.Context, userLocation *entities.Location) ([]*entities.Hospital, error) {
	hospitals, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if userLocation == nil || s.geo == nil {
		return hospitals, nil
	}

	from := providers.Coordinates{Latitude: userLocation.Latitude, Longitude: userLocation.Longitude}
	measured := make([]*entities.Hospital, 0, len(hospitals))
	for _, h := range hospitals {
		km, err := s.geo.CalculateDistance(ctx, from, providers.Coordinates{
			Latitude:  h.Location.Latitude,
			Longitude: h.Location.Longitude,
		})
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		c := h.Clone()
		c.Distance = entities.KilometersToMiles(km)
		measured = append(measured, c)
	}
	return measured, nil
}

// Search filters, pins and orders the catalog
func (s *HospitalService) Search(ctx context.Context, req SearchRequest) ([]entities.RankedHospital, error) {
	ctx, span := observability.StartSpan(ctx, "HospitalService.Search")
	defer span.End()

	catalog, err := s.Catalog(ctx, req.UserLocation)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	params := RankParams{
		Query:     req.Query,
		Specialty: req.Specialty,
		SortBy:    req.SortBy,
	}
	if req.RecommendedID != "" {
		params.Recommendation = &entities.ExternalRecommendation{
			HospitalID: req.RecommendedID,
			Reason:     req.RecommendationReason,
		}
	}

	return s.ranker.Rank(catalog, params), nil
}

// Specialties returns the sorted distinct specialty tags of the catalog
func (s *HospitalService) Specialties(ctx context.Context) ([]string, error) {
	hospitals, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, h := range hospitals {
		for _, tag := range h.Capabilities.Specialties {
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Nearby returns the n closest hospitals
func (s *HospitalService) Nearby(ctx context.Context, n int, userLocation *entities.Location) ([]*entities.Hospital, error) {
	if n <= 0 {
		n = DefaultNearbyCount
	}
	hospitals, err := s.Catalog(ctx, userLocation)
	if err != nil {
		return nil, err
	}

	sorted := append([]*entities.Hospital(nil), hospitals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// SystemStatus counts catalog-wide readiness
func (s *HospitalService) SystemStatus(ctx context.Context) (*entities.SystemStatus, error) {
	hospitals, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	status := &entities.SystemStatus{HospitalsNearby: len(hospitals)}
	for _, h := range hospitals {
		if h.IsICUCapable() {
			status.ICUCapable++
		}
		if h.IsEmergencyReady() {
			status.EmergencyReady++
		}
	}
	return status, nil
}

// Get retrieves one hospital
func (s *HospitalService) Get(ctx context.Context, id string) (*entities.Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

// Suggest returns hospitals matching a typed prefix, from the search index when available
func (s *HospitalService) Suggest(ctx context.Context, prefix string) ([]*entities.Hospital, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []*entities.Hospital{}, nil
	}

	if s.searchRepo != nil {
		hits, err := s.searchRepo.Suggest(ctx, prefix, maxSuggestions)
		if err == nil {
			return hits, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Search index unavailable, falling back to catalog scan")
	}

	hospitals, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(prefix)
	out := []*entities.Hospital{}
	for _, h := range hospitals {
		if hasWordPrefix(h.Name, lower) || specialtyHasPrefix(h, lower) {
			out = append(out, h)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out, nil
}

// UpdateStatus validates and stores live capacity, then announces the change
func (s *HospitalService) UpdateStatus(ctx context.Context, id string, update entities.HospitalStatusUpdate) (*entities.Hospital, error) {
	if err := ValidateStatusUpdate(update); err != nil {
		return nil, err
	}

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, update)
	if err != nil {
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, updated); err != nil {
			logger.Warn().Err(err).Str("hospital_id", id).Msg("Failed to reindex hospital")
		}
	}

	changed := changedFields(before, updated)
	if s.eventBus != nil && len(changed) > 0 {
		eventType := entities.HospitalEventTypeCapacityUpdate
		if _, onlyWait := changed["estimated_wait_time"]; onlyWait && len(changed) == 1 {
			eventType = entities.HospitalEventTypeWaitTimeUpdate
		}
		event := entities.NewHospitalEvent(id, eventType, updated.Location, changed)
		for _, channel := range []string{providers.EventChannelHospitalUpdates, providers.GetHospitalChannel(id)} {
			if err := s.eventBus.Publish(ctx, channel, event); err != nil {
				logger.Warn().Err(err).Str("channel", channel).Msg("Failed to publish hospital event")
			}
		}
	}

	logger.Info().Str("hospital_id", id).Int("changed_fields", len(changed)).Msg("Hospital status updated")
	return updated, nil
}

// ValidateStatusUpdate enforces the admin input ranges
func ValidateStatusUpdate(u entities.HospitalStatusUpdate) error {
	checks := []struct {
		name  string
		value int
		max   int
	}{
		{"beds_available", u.BedsAvailable, maxBeds},
		{"icu_beds_available", u.ICUBedsAvailable, maxICUBeds},
		{"operating_rooms_available", u.OperatingRoomsAvailable, maxOperatingRooms},
		{"estimated_wait_time", u.EstimatedWaitTime, maxWaitMinutes},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > c.max {
			return apperrors.NewValidationError(fmt.Sprintf("%s must be between 0 and %d", c.name, c.max))
		}
	}
	return nil
}

func changedFields(before, after *entities.Hospital) map[string]interface{} {
	changed := map[string]interface{}{}
	if before.Capabilities.BedsAvailable != after.Capabilities.BedsAvailable {
		changed["beds_available"] = after.Capabilities.BedsAvailable
	}
	if before.Capabilities.ICUBedsAvailable != after.Capabilities.ICUBedsAvailable {
		changed["icu_beds_available"] = after.Capabilities.ICUBedsAvailable
	}
	if before.Capabilities.OperatingRoomsAvailable != after.Capabilities.OperatingRoomsAvailable {
		changed["operating_rooms_available"] = after.Capabilities.OperatingRoomsAvailable
	}
	if before.EstimatedWaitTime != after.EstimatedWaitTime {
		changed["estimated_wait_time"] = after.EstimatedWaitTime
	}
	return changed
}

func hasWordPrefix(s, lowerPrefix string) bool {
	for _, word := range strings.Fields(strings.ToLower(s)) {
		if strings.HasPrefix(word, lowerPrefix) {
			return true
		}
	}
	return strings.HasPrefix(strings.ToLower(s), lowerPrefix)
}

func specialtyHasPrefix(h *entities.Hospital, lowerPrefix string) bool {
	for _, tag := range h.Capabilities.Specialties {
		if hasWordPrefix(tag, lowerPrefix) {
			return true
		}
	}
	return false
}
