package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// ConsultationMode is how the patient meets the doctor
type ConsultationMode string

const (
	ConsultationInPerson ConsultationMode = "in-person"
	ConsultationOnline   ConsultationMode = "online"
	ConsultationPhone    ConsultationMode = "phone"
)

// IsValid reports whether m is a known consultation mode
func (m ConsultationMode) IsValid() bool {
	switch m {
	case ConsultationInPerson, ConsultationOnline, ConsultationPhone:
		return true
	}
	return false
}

// Appointment represents a scheduled appointment
type Appointment struct {
	ID               string            `json:"id" db:"id"`
	PatientID        string            `json:"patient_id" db:"patient_id"`
	DoctorID         string            `json:"doctor_id" db:"doctor_id"`
	HospitalID       string            `json:"hospital_id" db:"hospital_id"`
	AppointmentDate  time.Time         `json:"appointment_date" db:"appointment_date"`
	TimeSlot         string            `json:"time_slot" db:"time_slot"`
	ReasonForVisit   string            `json:"reason_for_visit" db:"reason_for_visit"`
	Symptoms         []string          `json:"symptoms" db:"-"`
	Status           AppointmentStatus `json:"status" db:"status"`
	Notes            string            `json:"notes,omitempty" db:"notes"`
	ConsultationMode ConsultationMode  `json:"consultation_mode" db:"consultation_mode"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
}
