package entities

import (
	"time"
)

// Role represents what a user may do in the system
type Role string

const (
	RolePatient       Role = "patient"
	RoleDoctor        Role = "doctor"
	RoleAdmin         Role = "admin"
	RoleHospitalStaff Role = "hospital-staff"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin, RoleHospitalStaff:
		return true
	}
	return false
}

// User represents a user in the system
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Role         Role       `json:"role" db:"role"`
	Phone        string     `json:"phone,omitempty" db:"phone"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender       string     `json:"gender,omitempty" db:"gender"`
	Address      string     `json:"address,omitempty" db:"address"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Medication is one entry of a patient's current medication list
type Medication struct {
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// EmergencyContact is who to call for a patient
type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// PatientProfile holds medical data for users with the patient role
type PatientProfile struct {
	UserID             string           `json:"user_id" db:"user_id"`
	MedicalHistory     []string         `json:"medical_history" db:"-"`
	Allergies          []string         `json:"allergies" db:"-"`
	CurrentMedications []Medication     `json:"current_medications" db:"-"`
	BloodType          string           `json:"blood_type,omitempty" db:"blood_type"`
	EmergencyContact   EmergencyContact `json:"emergency_contact" db:"-"`
	InsuranceProvider  string           `json:"insurance_provider,omitempty" db:"insurance_provider"`
	InsuranceNumber    string           `json:"insurance_number,omitempty" db:"insurance_number"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// NewPatientProfile returns an empty profile for a freshly registered patient
func NewPatientProfile(userID string) *PatientProfile {
	return &PatientProfile{
		UserID:             userID,
		MedicalHistory:     []string{},
		Allergies:          []string{},
		CurrentMedications: []Medication{},
		UpdatedAt:          time.Now(),
	}
}
