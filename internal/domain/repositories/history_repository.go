package repositories

import (
	"context"

	"github.com/care4u/backend/internal/domain/entities"
)

// HistoryRepository stores the per-user activity log
type HistoryRepository interface {
	// Create appends an entry
	Create(ctx context.Context, entry *entities.HistoryEntry) error

	// ListByUser returns the newest entries first
	ListByUser(ctx context.Context, userID string, limit int) ([]*entities.HistoryEntry, error)
}
