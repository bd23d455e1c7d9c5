package geolocation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/domain/providers"
)

func TestHaversineProvider_CalculateDistance(t *testing.T) {
	p := NewHaversineProvider()

	// New York to Los Angeles
	km, err := p.CalculateDistance(context.Background(),
		providers.Coordinates{Latitude: 40.7128, Longitude: -74.0060},
		providers.Coordinates{Latitude: 34.0522, Longitude: -118.2437},
	)
	require.NoError(t, err)
	assert.InDelta(t, 3936, km, 10)
}

func TestHaversineProvider_SamePointIsZero(t *testing.T) {
	p := NewHaversineProvider()
	pt := providers.Coordinates{Latitude: 34.0522, Longitude: -118.2437}

	km, err := p.CalculateDistance(context.Background(), pt, pt)
	require.NoError(t, err)
	assert.Zero(t, km)
}

func TestHaversineProvider_RejectsOutOfRange(t *testing.T) {
	p := NewHaversineProvider()

	_, err := p.CalculateDistance(context.Background(),
		providers.Coordinates{Latitude: 91},
		providers.Coordinates{},
	)
	assert.Error(t, err)
}

func TestHaversineProvider_RejectsNonFinite(t *testing.T) {
	p := NewHaversineProvider()

	for _, c := range []providers.Coordinates{
		{Latitude: math.NaN()},
		{Longitude: math.NaN()},
		{Latitude: math.Inf(1)},
		{Longitude: math.Inf(-1)},
	} {
		_, err := p.CalculateDistance(context.Background(), c, providers.Coordinates{})
		assert.Error(t, err)

		_, err = p.CalculateDistance(context.Background(), providers.Coordinates{}, c)
		assert.Error(t, err)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("Haversine")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = NewProvider("google")
	assert.Error(t, err)
}
