package stubs

import (
	"context"
	"sync"
	"time"

	"seatwatch/internal/models"
)

// MockDB is an in-memory implementation of the Storage interface for testing
// and for running the bot without ClickHouse.
type MockDB struct {
	mu       sync.RWMutex
	prefs    map[int64]models.Preferences
	searches []models.SearchRecord
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		prefs: make(map[int64]models.Preferences),
	}
}

// Initialize is a no-op for the in-memory store
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// GetPreferences returns the chat's saved preferences
func (m *MockDB) GetPreferences(ctx context.Context, chatID int64) (models.Preferences, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefs, ok := m.prefs[chatID]
	return prefs, ok, nil
}

// SavePreferences stores the chat's preferences
func (m *MockDB) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefs.UpdatedAt = time.Now().UTC()
	m.prefs[prefs.ChatID] = prefs
	return nil
}

// RecordSearch appends one search to the in-memory log
func (m *MockDB) RecordSearch(ctx context.Context, rec models.SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searches = append(m.searches, rec)
	return nil
}

// GetRecentSearches returns the chat's last N searches, newest first
func (m *MockDB) GetRecentSearches(ctx context.Context, chatID int64, limit int) ([]models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []models.SearchRecord
	for i := len(m.searches) - 1; i >= 0 && len(records) < limit; i-- {
		if m.searches[i].ChatID == chatID {
			records = append(records, m.searches[i])
		}
	}
	return records, nil
}

// Close is a no-op for the in-memory store
func (m *MockDB) Close() error {
	return nil
}
