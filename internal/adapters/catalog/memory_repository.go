package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	apperrors "github.com/care4u/backend/pkg/errors"
)

// MemoryHospitalRepository implements repositories.HospitalRepository over a slice
type MemoryHospitalRepository struct {
	mu        sync.RWMutex
	hospitals []*entities.Hospital
}

var _ repositories.HospitalRepository = (*MemoryHospitalRepository)(nil)

// NewMemoryHospitalRepository copies hospitals into a new repository
func NewMemoryHospitalRepository(hospitals []*entities.Hospital) *MemoryHospitalRepository {
	r := &MemoryHospitalRepository{hospitals: make([]*entities.Hospital, 0, len(hospitals))}
	for _, h := range hospitals {
		r.hospitals = append(r.hospitals, h.Clone())
	}
	return r
}

// List returns copies in insertion order
func (r *MemoryHospitalRepository) List(ctx context.Context) ([]*entities.Hospital, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Hospital, len(r.hospitals))
	for i, h := range r.hospitals {
		out[i] = h.Clone()
	}
	return out, nil
}

// GetByID retrieves a hospital by ID
func (r *MemoryHospitalRepository) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.hospitals[i].Clone(), nil
	}
	return nil, apperrors.NewNotFoundError("hospital not found")
}

// GetByIDs returns the known hospitals among ids, in the order requested
func (r *MemoryHospitalRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Hospital, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Hospital, 0, len(ids))
	for _, id := range ids {
		if i := r.indexOf(id); i >= 0 {
			out = append(out, r.hospitals[i].Clone())
		}
	}
	return out, nil
}

// Upsert creates or replaces a hospital
func (r *MemoryHospitalRepository) Upsert(ctx context.Context, hospital *entities.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := hospital.Clone()
	h.UpdatedAt = time.Now()
	if i := r.indexOf(h.ID); i >= 0 {
		r.hospitals[i] = h
		return nil
	}
	r.hospitals = append(r.hospitals, h)
	return nil
}

// UpdateStatus overwrites the live capacity fields of a hospital
func (r *MemoryHospitalRepository) UpdateStatus(ctx context.Context, id string, update entities.HospitalStatusUpdate) (*entities.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError("hospital not found")
	}

	h := r.hospitals[i].Clone()
	h.Capabilities.BedsAvailable = update.BedsAvailable
	h.Capabilities.ICUBedsAvailable = update.ICUBedsAvailable
	h.Capabilities.OperatingRoomsAvailable = update.OperatingRoomsAvailable
	h.EstimatedWaitTime = update.EstimatedWaitTime
	h.UpdatedAt = time.Now()
	r.hospitals[i] = h

	return h.Clone(), nil
}

func (r *MemoryHospitalRepository) indexOf(id string) int {
	for i, h := range r.hospitals {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// MemoryDoctorRepository implements repositories.DoctorRepository over a slice
type MemoryDoctorRepository struct {
	mu      sync.RWMutex
	doctors []*entities.Doctor
}

var _ repositories.DoctorRepository = (*MemoryDoctorRepository)(nil)

// NewMemoryDoctorRepository copies doctors into a new repository
func NewMemoryDoctorRepository(doctors []*entities.Doctor) *MemoryDoctorRepository {
	r := &MemoryDoctorRepository{}
	for _, d := range doctors {
		c := *d
		r.doctors = append(r.doctors, &c)
	}
	return r
}

func (r *MemoryDoctorRepository) List(ctx context.Context) ([]*entities.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Doctor, len(r.doctors))
	for i, d := range r.doctors {
		c := *d
		out[i] = &c
	}
	return out, nil
}

func (r *MemoryDoctorRepository) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.doctors {
		if d.ID == id {
			c := *d
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("doctor not found")
}

func (r *MemoryDoctorRepository) Upsert(ctx context.Context, doctor *entities.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *doctor
	for i, d := range r.doctors {
		if d.ID == doctor.ID {
			r.doctors[i] = &c
			return nil
		}
	}
	r.doctors = append(r.doctors, &c)
	return nil
}
