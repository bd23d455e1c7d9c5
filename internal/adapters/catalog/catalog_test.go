package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/domain/entities"
	apperrors "github.com/care4u/backend/pkg/errors"
)

func TestReference_LoadsDataset(t *testing.T) {
	ds, err := Reference()
	require.NoError(t, err)

	require.Len(t, ds.Hospitals, 9)
	require.Len(t, ds.Doctors, 6)

	stJude := ds.Hospitals[2]
	assert.Equal(t, "st-jude-regional", stJude.ID)
	assert.Equal(t, "St. Jude Regional", stJude.Name)
	assert.Equal(t, 15.6, stJude.Distance)
	assert.Equal(t, 25, stJude.EstimatedWaitTime)
	assert.Equal(t, []string{"Trauma", "Burn Center", "Neurosurgery"}, stJude.Capabilities.Specialties)
	assert.True(t, stJude.Capabilities.HasHelicopterPad)
	assert.Equal(t, 34.1522, stJude.Location.Latitude)

	assert.Equal(t, "Dr. Sarah Jenkins", ds.Doctors[2].Name)
	assert.Equal(t, "st-jude-regional", ds.Doctors[2].HospitalID)
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`
hospitals:
  - id: a
    name: A
  - id: a
    name: B
`))
	assert.Error(t, err)
}

func TestParse_RejectsNegativeDistance(t *testing.T) {
	_, err := Parse([]byte(`
hospitals:
  - id: a
    distance: -1
`))
	assert.Error(t, err)
}

func TestMemoryHospitalRepository_ListReturnsCopies(t *testing.T) {
	repo := NewMemoryHospitalRepository(MustReference().Hospitals)

	first, err := repo.List(context.Background())
	require.NoError(t, err)
	first[0].Name = "changed"
	first[0].Capabilities.Specialties[0] = "changed"

	second, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "City General Hospital", second[0].Name)
	assert.Equal(t, "Cardiology", second[0].Capabilities.Specialties[0])
}

func TestMemoryHospitalRepository_GetByIDs_DropsUnknown(t *testing.T) {
	repo := NewMemoryHospitalRepository(MustReference().Hospitals)

	got, err := repo.GetByIDs(context.Background(), []string{"bayside-medical", "nope", "st-jude-regional"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bayside-medical", got[0].ID)
	assert.Equal(t, "st-jude-regional", got[1].ID)
}

func TestMemoryHospitalRepository_UpdateStatus(t *testing.T) {
	repo := NewMemoryHospitalRepository(MustReference().Hospitals)
	ctx := context.Background()

	updated, err := repo.UpdateStatus(ctx, "mercy-medical-center", entities.HospitalStatusUpdate{
		BedsAvailable: 9, ICUBedsAvailable: 2, OperatingRoomsAvailable: 3, EstimatedWaitTime: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Capabilities.BedsAvailable)
	assert.Equal(t, 15, updated.EstimatedWaitTime)

	stored, err := repo.GetByID(ctx, "mercy-medical-center")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Capabilities.OperatingRoomsAvailable)

	_, err = repo.UpdateStatus(ctx, "missing", entities.HospitalStatusUpdate{})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMemoryDoctorRepository_GetByID(t *testing.T) {
	repo := NewMemoryDoctorRepository(MustReference().Doctors)

	d, err := repo.GetByID(context.Background(), "doc-6")
	require.NoError(t, err)
	assert.Equal(t, "Stroke Center", d.Specialty)

	_, err = repo.GetByID(context.Background(), "doc-99")
	assert.True(t, apperrors.IsNotFound(err))
}
