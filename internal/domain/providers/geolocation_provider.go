package providers

import (
	"context"
)

// GeolocationProvider computes distances between coordinates
type GeolocationProvider interface {
	// CalculateDistance calculates the distance between two points in kilometers
	CalculateDistance(ctx context.Context, from, to Coordinates) (float64, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64
	Longitude float64
}
