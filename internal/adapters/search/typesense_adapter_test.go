package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/domain/entities"
)

func sampleHospital() *entities.Hospital {
	return &entities.Hospital{
		ID:                "st-jude-regional",
		Name:              "St. Jude Regional",
		Address:           "789 Oak Ave, Suburbia",
		Location:          entities.Location{Latitude: 34.1522, Longitude: -118.3437},
		Distance:          15.6,
		EstimatedWaitTime: 25,
		Capabilities: entities.Capabilities{
			BedsAvailable:           8,
			ICUBedsAvailable:        2,
			OperatingRoomsAvailable: 1,
			Specialties:             []string{"Trauma", "Burn Center"},
			HasHelicopterPad:        true,
		},
	}
}

func TestBuildHospitalTags(t *testing.T) {
	tags := BuildHospitalTags(sampleHospital())

	assert.ElementsMatch(t, []string{
		"st. jude regional",
		"789 oak ave",
		"suburbia",
		"trauma",
		"burn center",
		"emergency ready",
		"icu",
		"helipad",
	}, tags)
}

func TestBuildHospitalTagsNil(t *testing.T) {
	assert.Nil(t, BuildHospitalTags(nil))
}

func TestHospitalDocumentRoundTrip(t *testing.T) {
	h := sampleHospital()

	// Typesense returns JSON, so numbers come back as float64.
	raw, err := json.Marshal(hospitalDocument(h))
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))

	got := hospitalFromDocument(doc)
	require.NotNil(t, got)
	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, h.Address, got.Address)
	assert.Equal(t, h.Location, got.Location)
	assert.Equal(t, 25, got.EstimatedWaitTime)
	assert.Equal(t, 2, got.Capabilities.ICUBedsAvailable)
	assert.Equal(t, []string{"Trauma", "Burn Center"}, got.Capabilities.Specialties)
	assert.True(t, got.Capabilities.HasHelicopterPad)
}

func TestHospitalFromDocumentWithoutID(t *testing.T) {
	assert.Nil(t, hospitalFromDocument(map[string]interface{}{"name": "x"}))
}
