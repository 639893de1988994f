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

type IInvoiceRepository interface {
	Create(ctx context.Context, invoice entities.Invoice) (entities.InvoiceCreateResponse, error)
	Pay(ctx context.Context, invoiceID uuid.UUID, payerID uuid.UUID) (entities.InvoicePayResponse, error)
	Void(ctx context.Context, invoiceID uuid.UUID) error
	InvoiceByID(ctx context.Context, invoiceID uuid.UUID) (entities.Invoice, error)
}

type InvoiceRepository struct {
	db *DB
}

func NewInvoiceRepository(db *DB) InvoiceRepository {
	if db == nil {
		panic("db is nil")
	}
	return InvoiceRepository{
		db: db,
	}
}

func (ir InvoiceRepository) Create(ctx context.Context, invoice entities.Invoice) (entities.InvoiceCreateResponse, error) {
	if invoice.IssuerID == invoice.PayerID {
		return entities.InvoiceCreateResponse{}, echo.NewHTTPError(http.StatusBadRequest, "cannot invoice yourself")
	}
	if !invoice.Amount.IsPositive() {
		return entities.InvoiceCreateResponse{}, echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}

	_, err := ir.db.Conn.ExecContext(ctx, `
		INSERT INTO
		    invoices (invoice_id, issuer_id, payer_id, amount, currency, memo)
		VALUES
		    ($1, $2, $3, $4, $5, $6)`,
		invoice.InvoiceID, invoice.IssuerID, invoice.PayerID,
		invoice.Amount.Amount, invoice.Amount.Currency, invoice.Memo,
	)
	if err != nil {
		return entities.InvoiceCreateResponse{}, fmt.Errorf("could not insert invoice: %w", err)
	}

	return entities.InvoiceCreateResponse{InvoiceID: invoice.InvoiceID}, nil
}

// Pay settles an issued invoice from the payer's wallet. The issuer receives
// the amount minus the invoice fee.
func (ir InvoiceRepository) Pay(ctx context.Context, invoiceID uuid.UUID, payerID uuid.UUID) (entities.InvoicePayResponse, error) {
	var response entities.InvoicePayResponse

	err := updateInTx(ctx, ir.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var invoice entities.Invoice
		err := tx.GetContext(ctx, &invoice, `
			SELECT
			    invoice_id, issuer_id, payer_id,
			    amount AS "amount.amount",
			    currency AS "amount.currency",
			    memo, status, issued_at, paid_at
			FROM
			    invoices
			WHERE
			    invoice_id = $1
			FOR UPDATE
		`, invoiceID)
		if err == sql.ErrNoRows {
			return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
		}
		if err != nil {
			return fmt.Errorf("could not get invoice: %w", err)
		}

		if invoice.Status != entities.InvoiceStatusIssued {
			return echo.NewHTTPError(http.StatusConflict, "invoice is not payable")
		}
		if invoice.PayerID != payerID {
			return echo.NewHTTPError(http.StatusForbidden, "invoice is addressed to another user")
		}

		settings, err := settingsTx(ctx, tx)
		if err != nil {
			return err
		}
		split, err := entities.SplitFee(invoice.Amount, settings.InvoiceFeeBps)
		if err != nil {
			return fmt.Errorf("could not split invoice fee: %w", err)
		}

		payer, err := walletForUpdateTx(ctx, tx, invoice.PayerID)
		if err != nil {
			return err
		}
		issuer, err := walletForUpdateTx(ctx, tx, invoice.IssuerID)
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

		referenceID := invoiceID.String()
		if err := debitWalletTx(ctx, tx, payer, grossCents, entities.LedgerKindInvoiceOut, referenceID); err != nil {
			return err
		}
		if err := creditWalletTx(ctx, tx, issuer, netCents, entities.LedgerKindInvoiceIn, referenceID); err != nil {
			return err
		}
		if err := insertFeeTx(ctx, tx, invoice.IssuerID, entities.FeeSourceInvoice, referenceID, split.Fee); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE invoices SET status = 'paid', paid_at = $1 WHERE invoice_id = $2`,
			time.Now().UTC(), invoiceID,
		)
		if err != nil {
			return fmt.Errorf("could not mark invoice paid: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		eventBus := event.NewBus(outboxPublisher)

		err = eventBus.Publish(ctx, entities.InvoicePaid_v1{
			Header:    entities.NewEventHeader(),
			InvoiceID: invoiceID,
			IssuerID:  invoice.IssuerID,
			PayerID:   invoice.PayerID,
			Gross:     split.Gross,
			Fee:       split.Fee,
			Net:       split.Net,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		err = eventBus.Publish(ctx, entities.FeeCollected_v1{
			Header:      entities.NewEventHeader(),
			UserID:      invoice.IssuerID,
			Source:      entities.FeeSourceInvoice,
			ReferenceID: referenceID,
			Amount:      split.Fee,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		response = entities.InvoicePayResponse{
			InvoiceID: invoiceID,
			Fee:       split.Fee,
			Net:       split.Net,
		}
		return nil
	})
	if err != nil {
		return entities.InvoicePayResponse{}, err
	}

	return response, nil
}

func (ir InvoiceRepository) Void(ctx context.Context, invoiceID uuid.UUID) error {
	res, err := ir.db.Conn.ExecContext(ctx,
		`UPDATE invoices SET status = 'void' WHERE invoice_id = $1 AND status = 'issued'`,
		invoiceID,
	)
	if err != nil {
		return fmt.Errorf("could not void invoice: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return echo.NewHTTPError(http.StatusConflict, "invoice is not voidable")
	}

	return nil
}

func (ir InvoiceRepository) InvoiceByID(ctx context.Context, invoiceID uuid.UUID) (entities.Invoice, error) {
	var invoice entities.Invoice
	err := ir.db.Conn.GetContext(ctx, &invoice, `
		SELECT
		    invoice_id, issuer_id, payer_id,
		    amount AS "amount.amount",
		    currency AS "amount.currency",
		    memo, status, issued_at, paid_at
		FROM
		    invoices
		WHERE
		    invoice_id = $1
	`, invoiceID)
	if err == sql.ErrNoRows {
		return entities.Invoice{}, echo.NewHTTPError(http.StatusNotFound, "invoice not found")
	}
	if err != nil {
		return entities.Invoice{}, fmt.Errorf("could not get invoice: %w", err)
	}

	return invoice, nil
}
