package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	tsclient "github.com/care4u/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements hospital prefix search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.HospitalSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index indexes a hospital
func (a *TypesenseAdapter) Index(ctx context.Context, hospital *entities.Hospital) error {
	_, err := a.client.Client().Collection(tsclient.HospitalsCollection).Documents().Upsert(ctx, hospitalDocument(hospital))
	if err != nil {
		return fmt.Errorf("failed to index hospital: %w", err)
	}
	return nil
}

// Delete removes a hospital from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.HospitalsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete hospital from index: %w", err)
	}
	return nil
}

// Suggest returns hospitals whose name, address, specialties or tags start with prefix
func (a *TypesenseAdapter) Suggest(ctx context.Context, prefix string, limit int) ([]*entities.Hospital, error) {
	if limit <= 0 {
		limit = entities.MaxRankedResults
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(prefix),
		QueryBy: pointer.String("name,specialties,tags,address"),
		Prefix:  pointer.String("true"),
		SortBy:  pointer.String("_text_match:desc,estimated_wait_time:asc"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.HospitalsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search hospitals: %w", err)
	}

	hospitals := []*entities.Hospital{}
	if result.Hits == nil {
		return hospitals, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if h := hospitalFromDocument(*hit.Document); h != nil {
			hospitals = append(hospitals, h)
		}
	}
	return hospitals, nil
}

func hospitalDocument(h *entities.Hospital) map[string]interface{} {
	specialties := h.Capabilities.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return map[string]interface{}{
		"id":                         h.ID,
		"name":                       h.Name,
		"address":                    h.Address,
		"specialties":                specialties,
		"tags":                       BuildHospitalTags(h),
		"location":                   []float64{h.Location.Latitude, h.Location.Longitude},
		"distance":                   h.Distance,
		"estimated_wait_time":        h.EstimatedWaitTime,
		"icu_beds_available":         h.Capabilities.ICUBedsAvailable,
		"has_helicopter_landing_pad": h.Capabilities.HasHelicopterPad,
	}
}

// hospitalFromDocument rebuilds the indexed subset of a hospital; callers
// needing live capacity refetch by ID.
func hospitalFromDocument(doc map[string]interface{}) *entities.Hospital {
	id, ok := doc["id"].(string)
	if !ok || id == "" {
		return nil
	}

	h := &entities.Hospital{ID: id}
	h.Name, _ = doc["name"].(string)
	h.Address, _ = doc["address"].(string)

	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		h.Location.Latitude, _ = loc[0].(float64)
		h.Location.Longitude, _ = loc[1].(float64)
	}
	if v, ok := doc["distance"].(float64); ok {
		h.Distance = v
	}
	if v, ok := doc["estimated_wait_time"].(float64); ok {
		h.EstimatedWaitTime = int(v)
	}
	if v, ok := doc["icu_beds_available"].(float64); ok {
		h.Capabilities.ICUBedsAvailable = int(v)
	}
	h.Capabilities.HasHelicopterPad, _ = doc["has_helicopter_landing_pad"].(bool)

	h.Capabilities.Specialties = []string{}
	if specs, ok := doc["specialties"].([]interface{}); ok {
		for _, s := range specs {
			if str, ok := s.(string); ok {
				h.Capabilities.Specialties = append(h.Capabilities.Specialties, str)
			}
		}
	}
	return h
}
