package ch

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"seatwatch/internal/models"
)

type ClickHouseDB struct {
	conn clickhouse.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	return nil
}

// GetPreferences returns the newest saved preferences row for the chat.
func (db *ClickHouseDB) GetPreferences(ctx context.Context, chatID int64) (models.Preferences, bool, error) {
	row := db.conn.QueryRow(ctx, `
		SELECT chat_id, language, origin, destination, days, updated_at
		FROM chat_preferences
		WHERE chat_id = ?
		ORDER BY updated_at DESC
		LIMIT 1`, chatID)

	var prefs models.Preferences
	var days uint16
	if err := row.Scan(&prefs.ChatID, &prefs.Language, &prefs.Origin, &prefs.Destination, &days, &prefs.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Preferences{}, false, nil
		}
		return models.Preferences{}, false, fmt.Errorf("failed to get preferences: %w", err)
	}
	prefs.Days = int(days)
	return prefs, true, nil
}

// SavePreferences appends a new preferences version; reads pick the newest.
func (db *ClickHouseDB) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	err := db.conn.Exec(ctx, `
		INSERT INTO chat_preferences (chat_id, language, origin, destination, days, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		prefs.ChatID, prefs.Language, prefs.Origin, prefs.Destination, uint16(prefs.Days), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// RecordSearch appends one started search to the audit log.
func (db *ClickHouseDB) RecordSearch(ctx context.Context, rec models.SearchRecord) error {
	err := db.conn.Exec(ctx, `
		INSERT INTO searches (chat_id, kind, origin, destination, start_date, end_date, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ChatID, rec.Kind, rec.Origin, rec.Destination, rec.StartDate, rec.EndDate, rec.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// GetRecentSearches returns the chat's last N searches, newest first.
func (db *ClickHouseDB) GetRecentSearches(ctx context.Context, chatID int64, limit int) ([]models.SearchRecord, error) {
	rows, err := db.conn.Query(ctx, `
		SELECT chat_id, kind, origin, destination, start_date, end_date, started_at
		FROM searches
		WHERE chat_id = ?
		ORDER BY started_at DESC
		LIMIT ?`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var records []models.SearchRecord
	for rows.Next() {
		var rec models.SearchRecord
		if err := rows.Scan(&rec.ChatID, &rec.Kind, &rec.Origin, &rec.Destination, &rec.StartDate, &rec.EndDate, &rec.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	return db.conn.Close()
}
