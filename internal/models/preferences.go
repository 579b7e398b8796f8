package models

import "time"

// Preferences are the persisted per-chat settings.
type Preferences struct {
	ChatID      int64
	Language    string
	Origin      string
	Destination string
	Days        int
	UpdatedAt   time.Time
}

// SearchRecord is one row of the append-only search audit log.
type SearchRecord struct {
	ChatID      int64
	Kind        string
	Origin      string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	StartedAt   time.Time
}
