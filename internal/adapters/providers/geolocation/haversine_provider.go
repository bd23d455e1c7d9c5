package geolocation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/care4u/backend/internal/domain/providers"
)

const earthRadiusKm = 6371.0

// HaversineProvider computes great-circle distances locally
type HaversineProvider struct{}

// NewHaversineProvider creates a new haversine geolocation provider
func NewHaversineProvider() providers.GeolocationProvider {
	return &HaversineProvider{}
}

// NewProvider returns the provider named in configuration
func NewProvider(name string) (providers.GeolocationProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "haversine":
		return NewHaversineProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported geolocation provider: %s", name)
	}
}

// CalculateDistance calculates the distance between two points using Haversine formula
func (p *HaversineProvider) CalculateDistance(ctx context.Context, from, to providers.Coordinates) (float64, error) {
	if err := validate(from); err != nil {
		return 0, err
	}
	if err := validate(to); err != nil {
		return 0, err
	}

	lat1Rad := toRadians(from.Latitude)
	lat2Rad := toRadians(to.Latitude)
	deltaLat := toRadians(to.Latitude - from.Latitude)
	deltaLon := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

func validate(c providers.Coordinates) error {
	// Written as negated ranges so NaN fails too
	if !(c.Latitude >= -90 && c.Latitude <= 90) || !(c.Longitude >= -180 && c.Longitude <= 180) {
		return fmt.Errorf("coordinates out of range: %f, %f", c.Latitude, c.Longitude)
	}
	return nil
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
