package repositories

import (
	"context"

	"github.com/care4u/backend/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create creates a new appointment
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// UpdateStatus changes the status of an appointment
	UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) error

	// ListByPatient retrieves a patient's appointments, newest appointment date first
	ListByPatient(ctx context.Context, patientID string) ([]*entities.Appointment, error)
}
