package search

import (
	"sort"
	"strings"

	"github.com/care4u/backend/internal/domain/entities"
)

const MaxIndexedTags = 50

// BuildHospitalTags returns the lowercased, de-duplicated terms a hospital is findable by.
func BuildHospitalTags(h *entities.Hospital) []string {
	if h == nil {
		return nil
	}

	set := make(map[string]struct{})
	add(set, h.Name)
	add(set, strings.Split(h.Address, ",")...)
	add(set, h.Capabilities.Specialties...)
	if h.IsEmergencyReady() {
		add(set, "emergency ready")
	}
	if h.IsICUCapable() {
		add(set, "icu")
	}
	if h.Capabilities.HasHelicopterPad {
		add(set, "helipad")
	}

	return toSlice(set, MaxIndexedTags)
}

func add(set map[string]struct{}, terms ...string) {
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}
}

func toSlice(set map[string]struct{}, limit int) []string {
	result := make([]string, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	sort.Strings(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
