package entities

// SortKey selects the ascending order applied to unpinned results
type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByWaitTime SortKey = "wait-time"
)

// SpecialtyAll disables the specialty filter.
const SpecialtyAll = "all"

// MaxRankedResults caps every ranked list.
const MaxRankedResults = 5

// ParseSortKey maps user input to a SortKey, defaulting to distance.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByWaitTime, "waitTime", "wait_time":
		return SortByWaitTime
	default:
		return SortByDistance
	}
}

// ExternalRecommendation is a hospital picked by the AI collaborator
type ExternalRecommendation struct {
	HospitalID string `json:"hospital_id"`
	Reason     string `json:"reason"`
}

// RecommendationAnnotation marks a hospital as AI recommended
type RecommendationAnnotation struct {
	IsAIRecommended bool   `json:"is_ai_recommended"`
	Reason          string `json:"reason"`
}

// RankedHospital is a hospital with an optional recommendation overlay
type RankedHospital struct {
	*Hospital
	Annotation *RecommendationAnnotation `json:"recommendation,omitempty"`
}

// IsPinned reports whether the entry carries the AI recommendation.
func (r RankedHospital) IsPinned() bool {
	return r.Annotation != nil && r.Annotation.IsAIRecommended
}
