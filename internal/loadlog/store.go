// Package loadlog records every attempt to load the publication document.
package loadlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/publist/publist/internal/db"
)

// Status is the outcome of a load attempt.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Event is one recorded load attempt.
type Event struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Source           string    `json:"source"`
	Status           Status    `json:"status"`
	PublicationCount int       `json:"publication_count"`
	SelectedCount    int       `json:"selected_count"`
	Error            string    `json:"error,omitempty"`
}

// Store persists load events.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts an event. Missing ID and timestamp are filled in.
func (s *Store) Record(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO load_events (
			id, timestamp, source, status, publication_count, selected_count, error
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		e.Source,
		string(e.Status),
		e.PublicationCount,
		e.SelectedCount,
		e.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting load event: %w", err)
	}
	return nil
}

// Recent returns the newest events first. limit <= 0 means 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, source, status, publication_count, selected_count, error
		FROM load_events ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying load events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID retrieves a single event.
func (s *Store) GetByID(ctx context.Context, id string) (*Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, source, status, publication_count, selected_count, error
		FROM load_events WHERE id = ?`, id)
	return scanEvent(row)
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(sc scanner) (*Event, error) {
	var (
		e      Event
		ts     string
		status string
	)
	if err := sc.Scan(&e.ID, &ts, &e.Source, &status, &e.PublicationCount, &e.SelectedCount, &e.Error); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning load event: %w", err)
	}
	e.Status = Status(status)
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		e.Timestamp = t
	}
	return &e, nil
}
