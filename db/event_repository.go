package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"portal/entities"
	"portal/message/event"
	"portal/message/outbox"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

type IEventRepository interface {
	Create(ctx context.Context, communityEvent entities.Event) (entities.EventCreateResponse, error)
	Review(ctx context.Context, eventID uuid.UUID, approve bool, reason string) error
	EventByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
	ListUpcoming(ctx context.Context) ([]entities.Event, error)
	List(ctx context.Context, status string) ([]entities.Event, error)
}

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventRepository{
		db: db,
	}
}

func (er EventRepository) Create(ctx context.Context, communityEvent entities.Event) (entities.EventCreateResponse, error) {
	var response entities.EventCreateResponse

	err := updateInTx(ctx, er.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var eventID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO
			    events (organizer_id, title, venue, start_time, capacity, price_amount, price_currency)
			VALUES
			    ($1, $2, $3, $4, $5, $6, $7)
			RETURNING event_id`,
			communityEvent.OrganizerID, communityEvent.Title, communityEvent.Venue,
			communityEvent.StartTime, communityEvent.Capacity,
			communityEvent.TicketPrice.Amount, communityEvent.TicketPrice.Currency,
		).Scan(&eventID)
		if err != nil {
			return fmt.Errorf("could not insert event: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		err = event.NewBus(outboxPublisher).Publish(ctx, entities.EventSubmitted_v1{
			Header:      entities.NewEventHeader(),
			EventID:     eventID,
			OrganizerID: communityEvent.OrganizerID,
			Title:       communityEvent.Title,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		response = entities.EventCreateResponse{EventID: eventID}
		return nil
	})
	if err != nil {
		return entities.EventCreateResponse{}, err
	}

	return response, nil
}

// Review approves or rejects a submitted event. Only pending events
// transition; a second review gets a conflict.
func (er EventRepository) Review(ctx context.Context, eventID uuid.UUID, approve bool, reason string) error {
	status := entities.EventStatusRejected
	if approve {
		status = entities.EventStatusApproved
	}

	return updateInTx(ctx, er.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE events
			SET status = $1, reason = $2
			WHERE event_id = $3 AND status = 'pending'`,
			status, reason, eventID,
		)
		if err != nil {
			return fmt.Errorf("could not review event: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return echo.NewHTTPError(http.StatusConflict, "event is not awaiting review")
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		eventBus := event.NewBus(outboxPublisher)

		if approve {
			err = eventBus.Publish(ctx, entities.EventApproved_v1{
				Header:  entities.NewEventHeader(),
				EventID: eventID,
			})
		} else {
			err = eventBus.Publish(ctx, entities.EventRejected_v1{
				Header:  entities.NewEventHeader(),
				EventID: eventID,
				Reason:  reason,
			})
		}
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		return nil
	})
}

func (er EventRepository) EventByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error) {
	var communityEvent entities.Event
	err := er.db.Conn.GetContext(ctx, &communityEvent, `
		SELECT
		    event_id, organizer_id, title, venue, start_time, capacity,
		    price_amount AS "ticket_price.amount",
		    price_currency AS "ticket_price.currency",
		    status, reason
		FROM
		    events
		WHERE
		    event_id = $1
	`, eventID)
	if err == sql.ErrNoRows {
		return entities.Event{}, echo.NewHTTPError(http.StatusNotFound, "event not found")
	}
	if err != nil {
		return entities.Event{}, fmt.Errorf("could not get event: %w", err)
	}

	return communityEvent, nil
}

func (er EventRepository) ListUpcoming(ctx context.Context) ([]entities.Event, error) {
	var events []entities.Event
	err := er.db.Conn.SelectContext(ctx, &events, `
		SELECT
		    event_id, organizer_id, title, venue, start_time, capacity,
		    price_amount AS "ticket_price.amount",
		    price_currency AS "ticket_price.currency",
		    status, reason
		FROM
		    events
		WHERE
		    status = 'approved' AND start_time > now()
		ORDER BY start_time
	`)
	if err != nil {
		return nil, fmt.Errorf("could not list events: %w", err)
	}

	return events, nil
}

func (er EventRepository) List(ctx context.Context, status string) ([]entities.Event, error) {
	query := `
		SELECT
		    event_id, organizer_id, title, venue, start_time, capacity,
		    price_amount AS "ticket_price.amount",
		    price_currency AS "ticket_price.currency",
		    status, reason
		FROM
		    events`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY start_time`

	var events []entities.Event
	err := er.db.Conn.SelectContext(ctx, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list events: %w", err)
	}

	return events, nil
}
