package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"portal/entities"
	"portal/message/event"
	"portal/message/outbox"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

type ITicketRepository interface {
	Purchase(ctx context.Context, purchase entities.TicketPurchase) (entities.TicketPurchaseResponse, error)
	Refund(ctx context.Context, ticketID uuid.UUID) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]entities.Ticket, error)
}

type TicketRepository struct {
	db *DB
}

func NewTicketRepository(db *DB) TicketRepository {
	if db == nil {
		panic("db is nil")
	}
	return TicketRepository{
		db: db,
	}
}

// Purchase sells one ticket: capacity is re-checked inside the serializable
// transaction, the buyer pays the full price and the organizer receives the
// price minus the ticket fee.
func (tr TicketRepository) Purchase(ctx context.Context, purchase entities.TicketPurchase) (entities.TicketPurchaseResponse, error) {
	var response entities.TicketPurchaseResponse

	err := updateInTx(ctx, tr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var communityEvent entities.Event
		err := tx.GetContext(ctx, &communityEvent, `
			SELECT
			    event_id, organizer_id, title, venue, start_time, capacity,
			    price_amount AS "ticket_price.amount",
			    price_currency AS "ticket_price.currency",
			    status, reason
			FROM
			    events
			WHERE
			    event_id = $1
			FOR UPDATE
		`, purchase.EventID)
		if err == sql.ErrNoRows {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		if err != nil {
			return fmt.Errorf("could not get event: %w", err)
		}

		if communityEvent.Status != entities.EventStatusApproved {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "event is not approved")
		}
		if !communityEvent.StartTime.After(time.Now()) {
			return echo.NewHTTPError(http.StatusBadRequest, "event has already started")
		}

		soldTickets := 0
		err = tx.GetContext(ctx, &soldTickets, `
			SELECT
			    count(*) AS sold_tickets
			FROM
			    tickets
			WHERE
			    event_id = $1 AND status = 'confirmed'
		`, purchase.EventID)
		if err != nil {
			return fmt.Errorf("could not count sold tickets: %w", err)
		}
		if soldTickets >= communityEvent.Capacity {
			return echo.NewHTTPError(http.StatusBadRequest, "event is sold out")
		}

		settings, err := settingsTx(ctx, tx)
		if err != nil {
			return err
		}
		split, err := entities.SplitFee(communityEvent.TicketPrice, settings.TicketFeeBps)
		if err != nil {
			return fmt.Errorf("could not split ticket fee: %w", err)
		}

		buyer, err := walletForUpdateTx(ctx, tx, purchase.UserID)
		if err != nil {
			return err
		}
		organizer, err := walletForUpdateTx(ctx, tx, communityEvent.OrganizerID)
		if err != nil {
			return err
		}

		grossCents, err := split.Gross.Cents()
		if err != nil {
			return err
		}
		netCents, err := split.Net.Cents()
		if err != nil {
			return err
		}

		referenceID := purchase.TicketID.String()
		if err := debitWalletTx(ctx, tx, buyer, grossCents, entities.LedgerKindTicket, referenceID); err != nil {
			return err
		}
		if err := creditWalletTx(ctx, tx, organizer, netCents, entities.LedgerKindTicket, referenceID); err != nil {
			return err
		}
		if err := insertFeeTx(ctx, tx, purchase.UserID, entities.FeeSourceTicket, referenceID, split.Fee); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO
			    tickets (ticket_id, event_id, user_id, price_amount, price_currency, fee_amount, fee_currency)
			VALUES
			    ($1, $2, $3, $4, $5, $6, $7)`,
			purchase.TicketID, purchase.EventID, purchase.UserID,
			split.Gross.Amount, split.Gross.Currency, split.Fee.Amount, split.Fee.Currency,
		)
		if err != nil {
			return fmt.Errorf("could not insert ticket: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		eventBus := event.NewBus(outboxPublisher)

		err = eventBus.Publish(ctx, entities.TicketIssued_v1{
			Header:      entities.NewEventHeader(),
			TicketID:    purchase.TicketID,
			EventID:     purchase.EventID,
			UserID:      purchase.UserID,
			OrganizerID: communityEvent.OrganizerID,
			Price:       split.Gross,
			Fee:         split.Fee,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		err = eventBus.Publish(ctx, entities.FeeCollected_v1{
			Header:      entities.NewEventHeader(),
			UserID:      purchase.UserID,
			Source:      entities.FeeSourceTicket,
			ReferenceID: referenceID,
			Amount:      split.Fee,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		response = entities.TicketPurchaseResponse{
			TicketID: purchase.TicketID,
			Price:    split.Gross,
			Fee:      split.Fee,
		}
		return nil
	})
	if err != nil {
		return entities.TicketPurchaseResponse{}, err
	}

	return response, nil
}

// Refund returns the net price (price minus the already collected fee) from
// the organizer's wallet to the buyer. Already refunded tickets are a no-op
// so the command can be retried.
func (tr TicketRepository) Refund(ctx context.Context, ticketID uuid.UUID) error {
	return updateInTx(ctx, tr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var ticket entities.Ticket
		err := tx.GetContext(ctx, &ticket, `
			SELECT
			    ticket_id, event_id, user_id,
			    price_amount AS "price.amount",
			    price_currency AS "price.currency",
			    fee_amount AS "fee.amount",
			    fee_currency AS "fee.currency",
			    status, purchased_at
			FROM
			    tickets
			WHERE
			    ticket_id = $1
			FOR UPDATE
		`, ticketID)
		if err == sql.ErrNoRows {
			return echo.NewHTTPError(http.StatusNotFound, "ticket not found")
		}
		if err != nil {
			return fmt.Errorf("could not get ticket: %w", err)
		}
		if ticket.Status == entities.TicketStatusRefunded {
			return nil
		}

		var organizerID uuid.UUID
		err = tx.GetContext(ctx, &organizerID,
			`SELECT organizer_id FROM events WHERE event_id = $1`, ticket.EventID)
		if err != nil {
			return fmt.Errorf("could not get event organizer: %w", err)
		}

		priceCents, err := ticket.Price.Cents()
		if err != nil {
			return fmt.Errorf("could not parse ticket price: %w", err)
		}
		feeCents, err := ticket.Fee.Cents()
		if err != nil {
			return fmt.Errorf("could not parse ticket fee: %w", err)
		}
		netCents := priceCents - feeCents

		buyer, err := walletForUpdateTx(ctx, tx, ticket.UserID)
		if err != nil {
			return err
		}
		organizer, err := walletForUpdateTx(ctx, tx, organizerID)
		if err != nil {
			return err
		}

		referenceID := ticketID.String()
		if err := debitWalletTx(ctx, tx, organizer, netCents, entities.LedgerKindRefund, referenceID); err != nil {
			return err
		}
		if err := creditWalletTx(ctx, tx, buyer, netCents, entities.LedgerKindRefund, referenceID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE tickets SET status = 'refunded' WHERE ticket_id = $1`, ticketID)
		if err != nil {
			return fmt.Errorf("could not mark ticket refunded: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		err = event.NewBus(outboxPublisher).Publish(ctx, entities.TicketRefunded_v1{
			Header:      entities.NewEventHeader(),
			TicketID:    ticketID,
			UserID:      ticket.UserID,
			OrganizerID: organizerID,
			Refund:      entities.MoneyFromCents(netCents, ticket.Price.Currency),
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		return nil
	})
}

func (tr TicketRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]entities.Ticket, error) {
	var tickets []entities.Ticket
	err := tr.db.Conn.SelectContext(ctx, &tickets, `
		SELECT
		    ticket_id, event_id, user_id,
		    price_amount AS "price.amount",
		    price_currency AS "price.currency",
		    fee_amount AS "fee.amount",
		    fee_currency AS "fee.currency",
		    status, purchased_at
		FROM
		    tickets
		WHERE
		    user_id = $1 AND status = 'confirmed'
		ORDER BY purchased_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("could not get tickets: %w", err)
	}

	return tickets, nil
}
