package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/care4u/backend/pkg/errors"
)

var hospitalColumns = []interface{}{
	"id", "name", "address", "latitude", "longitude",
	"distance_miles", "estimated_wait_minutes",
	"beds_available", "icu_beds_available", "operating_rooms_available",
	"specialties", "has_helicopter_pad", "updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// HospitalAdapter implements the HospitalRepository interface
type HospitalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHospitalAdapter creates a new hospital adapter
func NewHospitalAdapter(client *postgres.Client) repositories.HospitalRepository {
	return &HospitalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanHospital(row rowScanner) (*entities.Hospital, error) {
	h := &entities.Hospital{}
	var specialties []string
	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Address,
		&h.Location.Latitude,
		&h.Location.Longitude,
		&h.Distance,
		&h.EstimatedWaitTime,
		&h.Capabilities.BedsAvailable,
		&h.Capabilities.ICUBedsAvailable,
		&h.Capabilities.OperatingRoomsAvailable,
		pq.Array(&specialties),
		&h.Capabilities.HasHelicopterPad,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if specialties == nil {
		specialties = []string{}
	}
	h.Capabilities.Specialties = specialties
	return h, nil
}

// List returns the full catalog in insertion order
func (a *HospitalAdapter) List(ctx context.Context) ([]*entities.Hospital, error) {
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Order(goqu.I("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.query(ctx, query, args...)
}

// GetByID retrieves a hospital by ID
func (a *HospitalAdapter) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	h, err := scanHospital(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get hospital", err)
	}
	return h, nil
}

// GetByIDs returns the known hospitals among ids, in the order requested
func (a *HospitalAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Hospital, error) {
	if len(ids) == 0 {
		return []*entities.Hospital{}, nil
	}

	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	found, err := a.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Hospital, len(found))
	for _, h := range found {
		byID[h.ID] = h
	}
	ordered := make([]*entities.Hospital, 0, len(found))
	for _, id := range ids {
		if h, ok := byID[id]; ok {
			ordered = append(ordered, h)
			delete(byID, id)
		}
	}
	return ordered, nil
}

// Upsert creates or replaces a hospital
func (a *HospitalAdapter) Upsert(ctx context.Context, h *entities.Hospital) error {
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = time.Now()
	}

	record := goqu.Record{
		"id":                        h.ID,
		"name":                      h.Name,
		"address":                   h.Address,
		"latitude":                  h.Location.Latitude,
		"longitude":                 h.Location.Longitude,
		"distance_miles":            h.Distance,
		"estimated_wait_minutes":    h.EstimatedWaitTime,
		"beds_available":            h.Capabilities.BedsAvailable,
		"icu_beds_available":        h.Capabilities.ICUBedsAvailable,
		"operating_rooms_available": h.Capabilities.OperatingRoomsAvailable,
		"specialties":               pq.Array(h.Capabilities.Specialties),
		"has_helicopter_pad":        h.Capabilities.HasHelicopterPad,
		"updated_at":                h.UpdatedAt,
	}

	update := goqu.Record{}
	for col := range record {
		if col != "id" {
			update[col] = goqu.L("EXCLUDED." + col)
		}
	}

	query, args, err := a.db.Insert("hospitals").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", update)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert hospital", err)
	}
	return nil
}

// UpdateStatus overwrites the live capacity fields and returns the new record
func (a *HospitalAdapter) UpdateStatus(ctx context.Context, id string, update entities.HospitalStatusUpdate) (*entities.Hospital, error) {
	query, args, err := a.db.Update("hospitals").
		Set(goqu.Record{
			"beds_available":            update.BedsAvailable,
			"icu_beds_available":        update.ICUBedsAvailable,
			"operating_rooms_available": update.OperatingRoomsAvailable,
			"estimated_wait_minutes":    update.EstimatedWaitTime,
			"updated_at":                time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		Returning(hospitalColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	h, err := scanHospital(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update hospital status", err)
	}
	return h, nil
}

func (a *HospitalAdapter) query(ctx context.Context, query string, args ...interface{}) ([]*entities.Hospital, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list hospitals", err)
	}
	defer rows.Close()

	hospitals := []*entities.Hospital{}
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hospital", err)
		}
		hospitals = append(hospitals, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate hospitals", err)
	}
	return hospitals, nil
}
