package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/mocks"
	apperrors "github.com/care4u/backend/pkg/errors"
)

var fixedNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func newAppointmentService() (*AppointmentService, *mocks.AppointmentRepository, *mocks.HospitalRepository) {
	repo := new(mocks.AppointmentRepository)
	hospitals := new(mocks.HospitalRepository)
	svc := NewAppointmentService(repo, hospitals)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, hospitals
}

func validAppointmentInput() AppointmentInput {
	return AppointmentInput{
		DoctorID:        "d1",
		HospitalID:      "1",
		AppointmentDate: fixedNow.AddDate(0, 0, 2),
		TimeSlot:        "10:00 AM",
		ReasonForVisit:  "Follow-up",
	}
}

func TestAppointmentService_CreateAppliesDefaults(t *testing.T) {
	svc, repo, hospitals := newAppointmentService()
	ctx := context.Background()

	hospitals.On("GetByID", ctx, "1").Return(&entities.Hospital{ID: "1"}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*entities.Appointment")).Return(nil)

	got, err := svc.Create(ctx, "p1", validAppointmentInput())
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PatientID)
	assert.Equal(t, entities.AppointmentStatusScheduled, got.Status)
	assert.Equal(t, entities.ConsultationInPerson, got.ConsultationMode)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, []string{}, got.Symptoms)
	repo.AssertExpectations(t)
}

func TestAppointmentService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *AppointmentInput)
		msg    string
	}{
		{"missing reason", func(in *AppointmentInput) { in.ReasonForVisit = "" }, "Missing required fields"},
		{"missing date", func(in *AppointmentInput) { in.AppointmentDate = time.Time{} }, "Missing required fields"},
		{"past date", func(in *AppointmentInput) { in.AppointmentDate = fixedNow.AddDate(0, 0, -1) }, "in the past"},
		{"bad mode", func(in *AppointmentInput) { in.ConsultationMode = "carrier-pigeon" }, "Invalid consultation mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newAppointmentService()
			in := validAppointmentInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), "p1", in)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			assert.Contains(t, err.Error(), tt.msg)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAppointmentService_CreateRejectsUnknownHospital(t *testing.T) {
	svc, repo, hospitals := newAppointmentService()
	ctx := context.Background()

	hospitals.On("GetByID", ctx, "1").Return(nil, apperrors.NewNotFoundError("hospital not found"))

	_, err := svc.Create(ctx, "p1", validAppointmentInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown hospital")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAppointmentService_Cancel(t *testing.T) {
	svc, repo, _ := newAppointmentService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "a1").Return(&entities.Appointment{ID: "a1", PatientID: "p1", Status: entities.AppointmentStatusScheduled}, nil)
	repo.On("UpdateStatus", ctx, "a1", entities.AppointmentStatusCancelled).Return(nil)

	got, err := svc.Cancel(ctx, "p1", "a1")
	require.NoError(t, err)
	assert.Equal(t, entities.AppointmentStatusCancelled, got.Status)
}

func TestAppointmentService_CancelOtherPatientsAppointment(t *testing.T) {
	svc, repo, _ := newAppointmentService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "a1").Return(&entities.Appointment{ID: "a1", PatientID: "p2", Status: entities.AppointmentStatusScheduled}, nil)

	_, err := svc.Cancel(ctx, "p1", "a1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAppointmentService_CancelTwice(t *testing.T) {
	svc, repo, _ := newAppointmentService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "a1").Return(&entities.Appointment{ID: "a1", PatientID: "p1", Status: entities.AppointmentStatusCancelled}, nil)

	_, err := svc.Cancel(ctx, "p1", "a1")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}
