package entities

import (
	"time"
)

// HistoryEntry is one line of a user's activity log
type HistoryEntry struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Timestamp time.Time `json:"timestamp" db:"created_at"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details,omitempty" db:"details"`
}
