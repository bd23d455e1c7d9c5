package repositories

import (
	"context"

	"github.com/care4u/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update updates a user's profile fields
	Update(ctx context.Context, user *entities.User) error

	// TouchLastLogin records a successful login
	TouchLastLogin(ctx context.Context, id string) error
}

// PatientProfileRepository defines the interface for patient medical data
type PatientProfileRepository interface {
	// Create creates the profile of a new patient
	Create(ctx context.Context, profile *entities.PatientProfile) error

	// GetByUserID retrieves a patient's profile
	GetByUserID(ctx context.Context, userID string) (*entities.PatientProfile, error)

	// Update replaces a patient's profile
	Update(ctx context.Context, profile *entities.PatientProfile) error
}
