package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/observability"
	apperrors "github.com/care4u/backend/pkg/errors"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200

	ActionUsedVoiceAssistant = "Used Voice Assistant"
	ActionUpdatedProfile     = "Updated Profile"
)

// SearchedForAction is the history line of a symptom search
func SearchedForAction(symptoms string) string {
	return fmt.Sprintf("Searched for '%s'", symptoms)
}

// ViewedAction is the history line of an opened hospital
func ViewedAction(hospitalName string) string {
	return fmt.Sprintf("Viewed '%s'", hospitalName)
}

// HistoryService keeps the per-user activity log
type HistoryService struct {
	repo repositories.HistoryRepository
	now  func() time.Time
}

// NewHistoryService creates a new history service
func NewHistoryService(repo repositories.HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo, now: time.Now}
}

// Record appends an entry
func (s *HistoryService) Record(ctx context.Context, userID, action, details string) error {
	if userID == "" {
		return apperrors.NewValidationError("user id is required")
	}
	if action == "" {
		return apperrors.NewValidationError("action is required")
	}

	return s.repo.Create(ctx, &entities.HistoryEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Timestamp: s.now(),
		Action:    action,
		Details:   details,
	})
}

// RecordBestEffort records an entry for signed-in users and only logs failures.
// A nil service or anonymous caller is a no-op.
func (s *HistoryService) RecordBestEffort(ctx context.Context, userID, action, details string) {
	if s == nil || userID == "" {
		return
	}
	if err := s.Record(ctx, userID, action, details); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("user_id", userID).Str("action", action).Msg("Failed to record history")
	}
}

// List returns a user's newest entries first
func (s *HistoryService) List(ctx context.Context, userID string, limit int) ([]*entities.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
