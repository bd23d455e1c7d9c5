package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/care4u/backend/pkg/errors"
)

// HistoryAdapter implements the HistoryRepository interface
type HistoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHistoryAdapter creates a new history adapter
func NewHistoryAdapter(client *postgres.Client) repositories.HistoryRepository {
	return &HistoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create appends an entry
func (a *HistoryAdapter) Create(ctx context.Context, entry *entities.HistoryEntry) error {
	query, args, err := a.db.Insert("history_entries").Rows(goqu.Record{
		"id":         entry.ID,
		"user_id":    entry.UserID,
		"action":     entry.Action,
		"details":    entry.Details,
		"created_at": entry.Timestamp,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record history", err)
	}
	return nil
}

// ListByUser returns the newest entries first
func (a *HistoryAdapter) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.HistoryEntry, error) {
	ds := a.db.Select("id", "user_id", "created_at", "action", "details").
		From("history_entries").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list history", err)
	}
	defer rows.Close()

	entries := []*entities.HistoryEntry{}
	for rows.Next() {
		e := &entities.HistoryEntry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.Action, &e.Details); err != nil {
			return nil, apperrors.NewInternalError("failed to scan history entry", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
