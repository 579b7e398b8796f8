package storage

import (
	"context"

	"seatwatch/internal/models"
)

// Storage defines the interface for data storage operations
type Storage interface {
	// Preference operations

	// GetPreferences returns the chat's saved preferences. The second return
	// value is false when the chat has never saved any.
	GetPreferences(ctx context.Context, chatID int64) (models.Preferences, bool, error)
	SavePreferences(ctx context.Context, prefs models.Preferences) error

	// Search log operations

	// RecordSearch appends one started search to the audit log.
	RecordSearch(ctx context.Context, rec models.SearchRecord) error

	// GetRecentSearches returns the chat's last N searches, newest first.
	GetRecentSearches(ctx context.Context, chatID int64, limit int) ([]models.SearchRecord, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
