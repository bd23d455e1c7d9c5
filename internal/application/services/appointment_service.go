package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/observability"
	apperrors "github.com/care4u/backend/pkg/errors"
)

// AppointmentInput is a booking request
type AppointmentInput struct {
	DoctorID         string                    `json:"doctor_id"`
	HospitalID       string                    `json:"hospital_id"`
	AppointmentDate  time.Time                 `json:"appointment_date"`
	TimeSlot         string                    `json:"time_slot"`
	ReasonForVisit   string                    `json:"reason_for_visit"`
	Symptoms         []string                  `json:"symptoms,omitempty"`
	ConsultationMode entities.ConsultationMode `json:"consultation_mode,omitempty"`
	Notes            string                    `json:"notes,omitempty"`
}

// AppointmentService handles appointment booking logic
type AppointmentService struct {
	repo      repositories.AppointmentRepository
	hospitals repositories.HospitalRepository
	now       func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(repo repositories.AppointmentRepository, hospitals repositories.HospitalRepository) *AppointmentService {
	return &AppointmentService{repo: repo, hospitals: hospitals, now: time.Now}
}

// List returns a patient's appointments, latest appointment date first
func (s *AppointmentService) List(ctx context.Context, patientID string) ([]*entities.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// Create books an appointment for a patient
func (s *AppointmentService) Create(ctx context.Context, patientID string, in AppointmentInput) (*entities.Appointment, error) {
	in.DoctorID = strings.TrimSpace(in.DoctorID)
	in.HospitalID = strings.TrimSpace(in.HospitalID)
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)
	in.ReasonForVisit = strings.TrimSpace(in.ReasonForVisit)

	if in.DoctorID == "" || in.HospitalID == "" || in.AppointmentDate.IsZero() || in.TimeSlot == "" || in.ReasonForVisit == "" {
		return nil, apperrors.NewValidationError("Missing required fields")
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if in.AppointmentDate.Before(today) {
		return nil, apperrors.NewValidationError("Cannot book an appointment in the past")
	}

	if in.ConsultationMode == "" {
		in.ConsultationMode = entities.ConsultationInPerson
	}
	if !in.ConsultationMode.IsValid() {
		return nil, apperrors.NewValidationError("Invalid consultation mode")
	}

	if _, err := s.hospitals.GetByID(ctx, in.HospitalID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidationError("Unknown hospital")
		}
		return nil, err
	}

	symptoms := compactStrings(in.Symptoms)
	appointment := &entities.Appointment{
		ID:               uuid.New().String(),
		PatientID:        patientID,
		DoctorID:         in.DoctorID,
		HospitalID:       in.HospitalID,
		AppointmentDate:  in.AppointmentDate,
		TimeSlot:         in.TimeSlot,
		ReasonForVisit:   in.ReasonForVisit,
		Symptoms:         symptoms,
		Status:           entities.AppointmentStatusScheduled,
		Notes:            strings.TrimSpace(in.Notes),
		ConsultationMode: in.ConsultationMode,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", appointment.ID).
		Str("hospital_id", appointment.HospitalID).
		Msg("Appointment booked")
	return appointment, nil
}

// Cancel cancels one of the patient's scheduled appointments
func (s *AppointmentService) Cancel(ctx context.Context, patientID, id string) (*entities.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Someone else's appointment looks the same as a missing one.
	if appointment.PatientID != patientID {
		return nil, apperrors.NewNotFoundError("appointment not found")
	}
	if appointment.Status != entities.AppointmentStatusScheduled {
		return nil, apperrors.NewConflictError("Only scheduled appointments can be cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, id, entities.AppointmentStatusCancelled); err != nil {
		return nil, err
	}
	appointment.Status = entities.AppointmentStatusCancelled
	appointment.UpdatedAt = s.now()
	return appointment, nil
}
