package services

import (
	"context"
	"strings"
	"time"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	apperrors "github.com/care4u/backend/pkg/errors"
)

// Profile is a user with their medical data, present for patients only
type Profile struct {
	User    *entities.User           `json:"user"`
	Patient *entities.PatientProfile `json:"patient_profile,omitempty"`
}

// ProfileUpdate carries the editable personal fields. Nil fields are left alone.
type ProfileUpdate struct {
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	Address     *string    `json:"address,omitempty"`
}

// MedicalUpdate replaces the patient's medical data
type MedicalUpdate struct {
	MedicalHistory     []string                  `json:"medical_history"`
	Allergies          []string                  `json:"allergies"`
	CurrentMedications []entities.Medication     `json:"current_medications"`
	BloodType          string                    `json:"blood_type"`
	EmergencyContact   entities.EmergencyContact `json:"emergency_contact"`
	InsuranceProvider  string                    `json:"insurance_provider"`
	InsuranceNumber    string                    `json:"insurance_number"`
}

var validBloodTypes = map[string]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {}, "AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

// ProfileService reads and edits user profiles
type ProfileService struct {
	users    repositories.UserRepository
	profiles repositories.PatientProfileRepository
	history  *HistoryService
	now      func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(users repositories.UserRepository, profiles repositories.PatientProfileRepository, history *HistoryService) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, history: history, now: time.Now}
}

// Get returns the user and, for patients, their medical profile
func (s *ProfileService) Get(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &Profile{User: user}
	if user.Role != entities.RolePatient {
		return out, nil
	}

	patient, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		out.Patient = patient
	case apperrors.IsNotFound(err):
		out.Patient = entities.NewPatientProfile(userID)
	default:
		return nil, err
	}
	return out, nil
}

// Update edits personal fields
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileUpdate) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			return nil, apperrors.NewValidationError("First name cannot be empty")
		}
		user.FirstName = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if name == "" {
			return nil, apperrors.NewValidationError("Last name cannot be empty")
		}
		user.LastName = name
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.DateOfBirth != nil {
		if in.DateOfBirth.After(s.now()) {
			return nil, apperrors.NewValidationError("Date of birth cannot be in the future")
		}
		dob := *in.DateOfBirth
		user.DateOfBirth = &dob
	}
	if in.Gender != nil {
		user.Gender = strings.TrimSpace(*in.Gender)
	}
	if in.Address != nil {
		user.Address = strings.TrimSpace(*in.Address)
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.history.RecordBestEffort(ctx, userID, ActionUpdatedProfile, "")

	return s.Get(ctx, userID)
}

// UpdateMedical replaces a patient's medical data
func (s *ProfileService) UpdateMedical(ctx context.Context, userID string, in MedicalUpdate) (*entities.PatientProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != entities.RolePatient {
		return nil, apperrors.NewForbiddenError("Only patients have a medical profile")
	}

	bloodType := strings.ToUpper(strings.TrimSpace(in.BloodType))
	if bloodType != "" {
		if _, ok := validBloodTypes[bloodType]; !ok {
			return nil, apperrors.NewValidationError("Invalid blood type")
		}
	}
	for _, m := range in.CurrentMedications {
		if strings.TrimSpace(m.Name) == "" {
			return nil, apperrors.NewValidationError("Medication name is required")
		}
	}

	profile := &entities.PatientProfile{
		UserID:             userID,
		MedicalHistory:     compactStrings(in.MedicalHistory),
		Allergies:          compactStrings(in.Allergies),
		CurrentMedications: in.CurrentMedications,
		BloodType:          bloodType,
		EmergencyContact:   in.EmergencyContact,
		InsuranceProvider:  strings.TrimSpace(in.InsuranceProvider),
		InsuranceNumber:    strings.TrimSpace(in.InsuranceNumber),
		UpdatedAt:          s.now(),
	}
	if profile.CurrentMedications == nil {
		profile.CurrentMedications = []entities.Medication{}
	}

	err = s.profiles.Update(ctx, profile)
	if apperrors.IsNotFound(err) {
		err = s.profiles.Create(ctx, profile)
	}
	if err != nil {
		return nil, err
	}

	s.history.RecordBestEffort(ctx, userID, ActionUpdatedProfile, "Medical information")
	return profile, nil
}

// compactStrings trims entries and drops blanks
func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
