package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/care4u/backend/pkg/errors"
)

const pqUniqueViolation = "23505"

var userColumns = []interface{}{
	"id", "email", "password_hash", "first_name", "last_name", "role",
	"phone", "date_of_birth", "gender", "address",
	"is_verified", "is_active", "last_login", "created_at", "updated_at",
}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func scanUser(row rowScanner) (*entities.User, error) {
	u := &entities.User{}
	var dob, lastLogin sql.NullTime
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.Phone, &dob, &u.Gender, &u.Address,
		&u.IsVerified, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		u.DateOfBirth = &dob.Time
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}

// Create creates a new user; emails are stored lowercased
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	user.Email = strings.ToLower(user.Email)
	query, args, err := a.db.Insert("users").Rows(goqu.Record{
		"id":            user.ID,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"role":          string(user.Role),
		"phone":         user.Phone,
		"date_of_birth": user.DateOfBirth,
		"gender":        user.Gender,
		"address":       user.Address,
		"is_verified":   user.IsVerified,
		"is_active":     user.IsActive,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("User with this email already exists")
		}
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getBy(ctx, goqu.Ex{"id": id}, id)
}

// GetByEmail retrieves a user by email, case-insensitively
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getBy(ctx, goqu.Ex{"email": strings.ToLower(email)}, email)
}

func (a *UserAdapter) getBy(ctx context.Context, where goqu.Ex, key string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).From("users").Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	u, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", key))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return u, nil
}

// Update updates a user's profile fields
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	user.UpdatedAt = time.Now()
	query, args, err := a.db.Update("users").Set(goqu.Record{
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"phone":         user.Phone,
		"date_of_birth": user.DateOfBirth,
		"gender":        user.Gender,
		"address":       user.Address,
		"updated_at":    user.UpdatedAt,
	}).Where(goqu.Ex{"id": user.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return a.execOne(ctx, query, args, "user", user.ID)
}

// TouchLastLogin records a successful login
func (a *UserAdapter) TouchLastLogin(ctx context.Context, id string) error {
	query, args, err := a.db.Update("users").
		Set(goqu.Record{"last_login": time.Now()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return a.execOne(ctx, query, args, "user", id)
}

func (a *UserAdapter) execOne(ctx context.Context, query string, args []interface{}, kind, id string) error {
	return execOne(ctx, a.client, query, args, kind, id)
}

func execOne(ctx context.Context, client *postgres.Client, query string, args []interface{}, kind, id string) error {
	result, err := client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to update %s", kind), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", kind, id))
	}
	return nil
}

// PatientProfileAdapter implements the PatientProfileRepository interface
type PatientProfileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientProfileAdapter creates a new patient profile adapter
func NewPatientProfileAdapter(client *postgres.Client) repositories.PatientProfileRepository {
	return &PatientProfileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func profileRecord(p *entities.PatientProfile) (goqu.Record, error) {
	meds, err := json.Marshal(nonNilMedications(p.CurrentMedications))
	if err != nil {
		return nil, err
	}
	contact, err := json.Marshal(p.EmergencyContact)
	if err != nil {
		return nil, err
	}
	return goqu.Record{
		"medical_history":     pq.Array(nonNilStrings(p.MedicalHistory)),
		"allergies":           pq.Array(nonNilStrings(p.Allergies)),
		"current_medications": string(meds),
		"blood_type":          p.BloodType,
		"emergency_contact":   string(contact),
		"insurance_provider":  p.InsuranceProvider,
		"insurance_number":    p.InsuranceNumber,
		"updated_at":          p.UpdatedAt,
	}, nil
}

// Create creates the profile of a new patient
func (a *PatientProfileAdapter) Create(ctx context.Context, profile *entities.PatientProfile) error {
	record, err := profileRecord(profile)
	if err != nil {
		return apperrors.NewInternalError("failed to encode profile", err)
	}
	record["user_id"] = profile.UserID

	query, args, err := a.db.Insert("patient_profiles").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("patient profile already exists")
		}
		return apperrors.NewInternalError("failed to create patient profile", err)
	}
	return nil
}

// GetByUserID retrieves a patient's profile
func (a *PatientProfileAdapter) GetByUserID(ctx context.Context, userID string) (*entities.PatientProfile, error) {
	query, args, err := a.db.Select(
		"user_id", "medical_history", "allergies", "current_medications",
		"blood_type", "emergency_contact", "insurance_provider", "insurance_number", "updated_at",
	).From("patient_profiles").Where(goqu.Ex{"user_id": userID}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	p := &entities.PatientProfile{}
	var meds, contact []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&p.UserID,
		pq.Array(&p.MedicalHistory),
		pq.Array(&p.Allergies),
		&meds,
		&p.BloodType,
		&contact,
		&p.InsuranceProvider,
		&p.InsuranceNumber,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("patient profile not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient profile", err)
	}

	if len(meds) > 0 {
		if err := json.Unmarshal(meds, &p.CurrentMedications); err != nil {
			return nil, apperrors.NewInternalError("failed to decode medications", err)
		}
	}
	if len(contact) > 0 {
		if err := json.Unmarshal(contact, &p.EmergencyContact); err != nil {
			return nil, apperrors.NewInternalError("failed to decode emergency contact", err)
		}
	}
	p.MedicalHistory = nonNilStrings(p.MedicalHistory)
	p.Allergies = nonNilStrings(p.Allergies)
	p.CurrentMedications = nonNilMedications(p.CurrentMedications)
	return p, nil
}

// Update replaces a patient's profile
func (a *PatientProfileAdapter) Update(ctx context.Context, profile *entities.PatientProfile) error {
	profile.UpdatedAt = time.Now()
	record, err := profileRecord(profile)
	if err != nil {
		return apperrors.NewInternalError("failed to encode profile", err)
	}

	query, args, err := a.db.Update("patient_profiles").Set(record).Where(goqu.Ex{"user_id": profile.UserID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	return execOne(ctx, a.client, query, args, "patient profile", profile.UserID)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMedications(m []entities.Medication) []entities.Medication {
	if m == nil {
		return []entities.Medication{}
	}
	return m
}
