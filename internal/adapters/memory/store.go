// Package memory holds process-local implementations of the account
// repositories, used when no database is configured and in handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	apperrors "github.com/care4u/backend/pkg/errors"
)

var (
	_ repositories.UserRepository           = (*UserRepository)(nil)
	_ repositories.PatientProfileRepository = (*PatientProfileRepository)(nil)
	_ repositories.AppointmentRepository    = (*AppointmentRepository)(nil)
	_ repositories.HistoryRepository        = (*HistoryRepository)(nil)
)

// UserRepository stores users by id with a lowercase email index
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]entities.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]entities.User{}, byEmail: map[string]string{}}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return apperrors.NewConflictError("User with this email already exists")
	}
	u := *user
	u.Email = email
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[user.ID]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	u := *user
	u.Email = current.Email
	u.PasswordHash = current.PasswordHash
	r.byID[u.ID] = u
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	now := time.Now()
	u.LastLogin = &now
	r.byID[id] = u
	return nil
}

// PatientProfileRepository stores one profile per user
type PatientProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*entities.PatientProfile
}

func NewPatientProfileRepository() *PatientProfileRepository {
	return &PatientProfileRepository{profiles: map[string]*entities.PatientProfile{}}
}

func (r *PatientProfileRepository) Create(ctx context.Context, profile *entities.PatientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.UserID]; ok {
		return apperrors.NewConflictError("profile already exists")
	}
	r.profiles[profile.UserID] = copyProfile(profile)
	return nil
}

func (r *PatientProfileRepository) GetByUserID(ctx context.Context, userID string) (*entities.PatientProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("profile not found")
	}
	return copyProfile(p), nil
}

func (r *PatientProfileRepository) Update(ctx context.Context, profile *entities.PatientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.UserID]; !ok {
		return apperrors.NewNotFoundError("profile not found")
	}
	r.profiles[profile.UserID] = copyProfile(profile)
	return nil
}

func copyProfile(p *entities.PatientProfile) *entities.PatientProfile {
	c := *p
	c.MedicalHistory = append([]string{}, p.MedicalHistory...)
	c.Allergies = append([]string{}, p.Allergies...)
	c.CurrentMedications = append([]entities.Medication{}, p.CurrentMedications...)
	return &c
}

// AppointmentRepository stores appointments in booking order
type AppointmentRepository struct {
	mu           sync.RWMutex
	appointments []*entities.Appointment
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *entities.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *appointment
	c.Symptoms = append([]string{}, appointment.Symptoms...)
	r.appointments = append(r.appointments, &c)
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appointments {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("appointment not found")
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.appointments {
		if a.ID == id {
			a.Status = status
			a.UpdatedAt = time.Now()
			return nil
		}
	}
	return apperrors.NewNotFoundError("appointment not found")
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*entities.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entities.Appointment{}
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			c := *a
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].AppointmentDate.After(out[j].AppointmentDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// HistoryRepository keeps a bounded log per user
type HistoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]*entities.HistoryEntry
	max     int
}

// NewHistoryRepository keeps at most maxPerUser entries per user; 0 means unbounded
func NewHistoryRepository(maxPerUser int) *HistoryRepository {
	return &HistoryRepository{entries: map[string][]*entities.HistoryEntry{}, max: maxPerUser}
}

func (r *HistoryRepository) Create(ctx context.Context, entry *entities.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *entry
	list := append(r.entries[entry.UserID], &c)
	if r.max > 0 && len(list) > r.max {
		list = list[len(list)-r.max:]
	}
	r.entries[entry.UserID] = list
	return nil
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.entries[userID]
	out := make([]*entities.HistoryEntry, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		c := *list[i]
		out = append(out, &c)
	}
	return out, nil
}
