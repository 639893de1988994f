package db

import (
	"context"
	"fmt"

	"portal/entities"
)

type IEventLogRepository interface {
	Store(ctx context.Context, entry entities.EventLogEntry) error
	GetAll(ctx context.Context) ([]entities.EventLogEntry, error)
}

// EventLogRepository appends every public event to an immutable log. Read
// models are rebuilt from it after projection changes.
type EventLogRepository struct {
	db *DB
}

func NewEventLogRepository(db *DB) EventLogRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventLogRepository{
		db: db,
	}
}

func (er EventLogRepository) Store(ctx context.Context, entry entities.EventLogEntry) error {
	_, err := er.db.Conn.ExecContext(ctx, `
		INSERT INTO
		    event_log (event_id, published_at, event_name, event_payload)
		VALUES
		    ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING;
`, entry.EventID, entry.PublishedAt, entry.EventName, entry.Payload)
	if err != nil {
		return fmt.Errorf("could not store event in log: %w", err)
	}

	return nil
}

func (er EventLogRepository) GetAll(ctx context.Context) ([]entities.EventLogEntry, error) {
	var entries []entities.EventLogEntry
	err := er.db.Conn.SelectContext(ctx, &entries, `
		SELECT
		    event_id, published_at, event_name, event_payload
		FROM
		    event_log
		ORDER BY published_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("could not read event log: %w", err)
	}

	return entries, nil
}
