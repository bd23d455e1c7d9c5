package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/care4u/backend/pkg/errors"
)

var doctorColumns = []interface{}{"id", "name", "specialty", "hospital_id", "success_rate", "experience_years"}

// DoctorAdapter implements the DoctorRepository interface
type DoctorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *postgres.Client) repositories.DoctorRepository {
	return &DoctorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanDoctor(row rowScanner) (*entities.Doctor, error) {
	d := &entities.Doctor{}
	err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.HospitalID, &d.SuccessRate, &d.ExperienceYears)
	return d, err
}

// List returns all doctors
func (a *DoctorAdapter) List(ctx context.Context) ([]*entities.Doctor, error) {
	query, args, err := a.db.Select(doctorColumns...).From("doctors").Order(goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list doctors", err)
	}
	defer rows.Close()

	doctors := []*entities.Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan doctor", err)
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

// GetByID retrieves a doctor by ID
func (a *DoctorAdapter) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	query, args, err := a.db.Select(doctorColumns...).From("doctors").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	d, err := scanDoctor(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}
	return d, nil
}

// Upsert creates or replaces a doctor
func (a *DoctorAdapter) Upsert(ctx context.Context, d *entities.Doctor) error {
	query, args, err := a.db.Insert("doctors").
		Rows(goqu.Record{
			"id":               d.ID,
			"name":             d.Name,
			"specialty":        d.Specialty,
			"hospital_id":      d.HospitalID,
			"success_rate":     d.SuccessRate,
			"experience_years": d.ExperienceYears,
		}).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"name":             goqu.L("EXCLUDED.name"),
			"specialty":        goqu.L("EXCLUDED.specialty"),
			"hospital_id":      goqu.L("EXCLUDED.hospital_id"),
			"success_rate":     goqu.L("EXCLUDED.success_rate"),
			"experience_years": goqu.L("EXCLUDED.experience_years"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert doctor", err)
	}
	return nil
}
