// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
)

var (
	_ repositories.HospitalRepository       = (*HospitalRepository)(nil)
	_ repositories.HospitalSearchRepository = (*HospitalSearchRepository)(nil)
	_ repositories.DoctorRepository         = (*DoctorRepository)(nil)
	_ repositories.UserRepository           = (*UserRepository)(nil)
	_ repositories.PatientProfileRepository = (*PatientProfileRepository)(nil)
	_ repositories.AppointmentRepository    = (*AppointmentRepository)(nil)
	_ repositories.HistoryRepository        = (*HistoryRepository)(nil)
)

// HospitalRepository mocks repositories.HospitalRepository
type HospitalRepository struct {
	mock.Mock
}

func (m *HospitalRepository) List(ctx context.Context) ([]*entities.Hospital, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Hospital), args.Error(1)
}

func (m *HospitalRepository) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Hospital), args.Error(1)
}

func (m *HospitalRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Hospital, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Hospital), args.Error(1)
}

func (m *HospitalRepository) Upsert(ctx context.Context, h *entities.Hospital) error {
	return m.Called(ctx, h).Error(0)
}

func (m *HospitalRepository) UpdateStatus(ctx context.Context, id string, update entities.HospitalStatusUpdate) (*entities.Hospital, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Hospital), args.Error(1)
}

// HospitalSearchRepository mocks repositories.HospitalSearchRepository
type HospitalSearchRepository struct {
	mock.Mock
}

func (m *HospitalSearchRepository) Suggest(ctx context.Context, prefix string, limit int) ([]*entities.Hospital, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Hospital), args.Error(1)
}

func (m *HospitalSearchRepository) Index(ctx context.Context, h *entities.Hospital) error {
	return m.Called(ctx, h).Error(0)
}

func (m *HospitalSearchRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// DoctorRepository mocks repositories.DoctorRepository
type DoctorRepository struct {
	mock.Mock
}

func (m *DoctorRepository) List(ctx context.Context) ([]*entities.Doctor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Doctor), args.Error(1)
}

func (m *DoctorRepository) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Doctor), args.Error(1)
}

func (m *DoctorRepository) Upsert(ctx context.Context, d *entities.Doctor) error {
	return m.Called(ctx, d).Error(0)
}

// UserRepository mocks repositories.UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *entities.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, u *entities.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// PatientProfileRepository mocks repositories.PatientProfileRepository
type PatientProfileRepository struct {
	mock.Mock
}

func (m *PatientProfileRepository) Create(ctx context.Context, p *entities.PatientProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *PatientProfileRepository) GetByUserID(ctx context.Context, userID string) (*entities.PatientProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PatientProfile), args.Error(1)
}

func (m *PatientProfileRepository) Update(ctx context.Context, p *entities.PatientProfile) error {
	return m.Called(ctx, p).Error(0)
}

// AppointmentRepository mocks repositories.AppointmentRepository
type AppointmentRepository struct {
	mock.Mock
}

func (m *AppointmentRepository) Create(ctx context.Context, a *entities.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *AppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*entities.Appointment, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

// HistoryRepository mocks repositories.HistoryRepository
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Create(ctx context.Context, e *entities.HistoryEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *HistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.HistoryEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.HistoryEntry), args.Error(1)
}
