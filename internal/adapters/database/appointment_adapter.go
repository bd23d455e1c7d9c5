package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/care4u/backend/pkg/errors"
)

var appointmentColumns = []interface{}{
	"id", "patient_id", "doctor_id", "hospital_id", "appointment_date", "time_slot",
	"reason_for_visit", "symptoms", "status", "notes", "consultation_mode",
	"created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	a := &entities.Appointment{}
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.HospitalID,
		&a.AppointmentDate,
		&a.TimeSlot,
		&a.ReasonForVisit,
		pq.Array(&a.Symptoms),
		&a.Status,
		&a.Notes,
		&a.ConsultationMode,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Symptoms = nonNilStrings(a.Symptoms)
	return a, nil
}

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":                appointment.ID,
		"patient_id":        appointment.PatientID,
		"doctor_id":         appointment.DoctorID,
		"hospital_id":       appointment.HospitalID,
		"appointment_date":  appointment.AppointmentDate,
		"time_slot":         appointment.TimeSlot,
		"reason_for_visit":  appointment.ReasonForVisit,
		"symptoms":          pq.Array(nonNilStrings(appointment.Symptoms)),
		"status":            string(appointment.Status),
		"notes":             appointment.Notes,
		"consultation_mode": string(appointment.ConsultationMode),
		"created_at":        appointment.CreatedAt,
		"updated_at":        appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// UpdateStatus changes the status of an appointment
func (a *AppointmentAdapter) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) error {
	query, args, err := a.db.Update("appointments").
		Set(goqu.Record{
			"status":     string(status),
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return execOne(ctx, a.client, query, args, "appointment", id)
}

// ListByPatient retrieves a patient's appointments, newest appointment date first
func (a *AppointmentAdapter) ListByPatient(ctx context.Context, patientID string) ([]*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"patient_id": patientID}).
		Order(goqu.I("appointment_date").Desc(), goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := []*entities.Appointment{}
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}

	return appointments, rows.Err()
}
