package repositories

import (
	"context"

	"github.com/care4u/backend/internal/domain/entities"
)

// HospitalRepository defines the interface for hospital catalog operations
type HospitalRepository interface {
	// List returns the full catalog in insertion order
	List(ctx context.Context) ([]*entities.Hospital, error)

	// GetByID retrieves a hospital by ID
	GetByID(ctx context.Context, id string) (*entities.Hospital, error)

	// GetByIDs retrieves multiple hospitals by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Hospital, error)

	// Upsert creates or replaces a hospital
	Upsert(ctx context.Context, hospital *entities.Hospital) error

	// UpdateStatus overwrites the live capacity fields of a hospital
	UpdateStatus(ctx context.Context, id string, update entities.HospitalStatusUpdate) (*entities.Hospital, error)
}

// HospitalSearchRepository is a prefix-search index over the catalog (e.g. Typesense)
type HospitalSearchRepository interface {
	// Suggest returns hospitals whose name, address or specialties start with prefix
	Suggest(ctx context.Context, prefix string, limit int) ([]*entities.Hospital, error)

	// Index indexes a hospital
	Index(ctx context.Context, hospital *entities.Hospital) error

	// Delete removes a hospital from the index
	Delete(ctx context.Context, id string) error
}

// DoctorRepository defines the interface for doctor directory operations
type DoctorRepository interface {
	// List returns all doctors
	List(ctx context.Context) ([]*entities.Doctor, error)

	// GetByID retrieves a doctor by ID
	GetByID(ctx context.Context, id string) (*entities.Doctor, error)

	// Upsert creates or replaces a doctor
	Upsert(ctx context.Context, doctor *entities.Doctor) error
}
