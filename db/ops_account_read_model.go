package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"portal/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// OpsAccountReadModel projects member activity into one JSONB document per
// user for the admin back-office. It is driven purely by events, so it can be
// rebuilt from the event log at any time.
type OpsAccountReadModel struct {
	conn     *DB
	eventBus *cqrs.EventBus
}

func NewOpsAccountReadModel(db *DB, eventBus *cqrs.EventBus) OpsAccountReadModel {
	if db == nil {
		panic("db is nil")
	}
	return OpsAccountReadModel{
		conn:     db,
		eventBus: eventBus,
	}
}

func (r OpsAccountReadModel) OnUserRegistered(ctx context.Context, event *entities.UserRegistered_v1) error {
	// this is the first event for a member, so we create the read model
	err := r.createReadModel(ctx, entities.OpsAccount{
		UserID:       event.UserID,
		Email:        event.Email,
		KycStatus:    "none",
		RegisteredAt: event.Header.PublishedAt,
		LastUpdate:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("could not create read model: %w", err)
	}

	return nil
}

func (r OpsAccountReadModel) OnKycSubmitted(ctx context.Context, event *entities.KycSubmitted_v1) error {
	return r.updateAccountReadModel(ctx, event.UserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.KycStatus = entities.KycStatusPending
		return rm, nil
	})
}

func (r OpsAccountReadModel) OnKycApproved(ctx context.Context, event *entities.KycApproved_v1) error {
	return r.updateAccountReadModel(ctx, event.UserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.KycStatus = entities.KycStatusApproved
		return rm, nil
	})
}

func (r OpsAccountReadModel) OnKycRejected(ctx context.Context, event *entities.KycRejected_v1) error {
	return r.updateAccountReadModel(ctx, event.UserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.KycStatus = entities.KycStatusRejected
		return rm, nil
	})
}

func (r OpsAccountReadModel) OnTransferCompleted(ctx context.Context, event *entities.TransferCompleted_v1) error {
	grossCents, err := event.Gross.Cents()
	if err != nil {
		return fmt.Errorf("could not parse transfer gross: %w", err)
	}
	netCents, err := event.Net.Cents()
	if err != nil {
		return fmt.Errorf("could not parse transfer net: %w", err)
	}

	referenceID := event.TransferID.String()
	err = r.updateAccountReadModel(ctx, event.FromUserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents -= grossCents
		rm.Currency = event.Gross.Currency
		return rm.WithEntry(event.Header.ID, entities.LedgerKindTransferOut, -grossCents, referenceID, event.Header.PublishedAt), nil
	})
	if err != nil {
		return err
	}

	return r.updateAccountReadModel(ctx, event.ToUserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents += netCents
		rm.Currency = event.Net.Currency
		return rm.WithEntry(event.Header.ID, entities.LedgerKindTransferIn, netCents, referenceID, event.Header.PublishedAt), nil
	})
}

func (r OpsAccountReadModel) OnRedeemCodeUsed(ctx context.Context, event *entities.RedeemCodeUsed_v1) error {
	cents, err := event.Amount.Cents()
	if err != nil {
		return fmt.Errorf("could not parse redeem amount: %w", err)
	}

	return r.updateAccountReadModel(ctx, event.UserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents += cents
		rm.Currency = event.Amount.Currency
		return rm.WithEntry(event.Header.ID, entities.LedgerKindRedeem, cents, event.Code, event.Header.PublishedAt), nil
	})
}

// OnTicketIssued projects both sides of the sale: the buyer pays the full
// price, the organizer receives the price minus the fee.
func (r OpsAccountReadModel) OnTicketIssued(ctx context.Context, event *entities.TicketIssued_v1) error {
	priceCents, err := event.Price.Cents()
	if err != nil {
		return fmt.Errorf("could not parse ticket price: %w", err)
	}
	feeCents, err := event.Fee.Cents()
	if err != nil {
		return fmt.Errorf("could not parse ticket fee: %w", err)
	}
	netCents := priceCents - feeCents

	referenceID := event.TicketID.String()
	err = r.updateAccountReadModel(ctx, event.UserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents -= priceCents
		rm.Currency = event.Price.Currency
		rm.TicketCount++
		return rm.WithEntry(event.Header.ID, entities.LedgerKindTicket, -priceCents, referenceID, event.Header.PublishedAt), nil
	})
	if err != nil {
		return err
	}

	return r.updateAccountReadModel(ctx, event.OrganizerID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents += netCents
		rm.Currency = event.Price.Currency
		return rm.WithEntry(event.Header.ID, entities.LedgerKindTicket, netCents, referenceID, event.Header.PublishedAt), nil
	})
}

// OnTicketRefunded mirrors OnTicketIssued: the net price moves back from the
// organizer to the buyer.
func (r OpsAccountReadModel) OnTicketRefunded(ctx context.Context, event *entities.TicketRefunded_v1) error {
	cents, err := event.Refund.Cents()
	if err != nil {
		return fmt.Errorf("could not parse refund amount: %w", err)
	}

	referenceID := event.TicketID.String()
	err = r.updateAccountReadModel(ctx, event.UserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents += cents
		if rm.TicketCount > 0 {
			rm.TicketCount--
		}
		return rm.WithEntry(event.Header.ID, entities.LedgerKindRefund, cents, referenceID, event.Header.PublishedAt), nil
	})
	if err != nil {
		return err
	}

	return r.updateAccountReadModel(ctx, event.OrganizerID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents -= cents
		return rm.WithEntry(event.Header.ID, entities.LedgerKindRefund, -cents, referenceID, event.Header.PublishedAt), nil
	})
}

func (r OpsAccountReadModel) OnWithdrawalPaid(ctx context.Context, event *entities.WithdrawalPaid_v1) error {
	cents, err := event.Amount.Cents()
	if err != nil {
		return fmt.Errorf("could not parse withdrawal amount: %w", err)
	}

	return r.updateAccountReadModel(ctx, event.UserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents -= cents
		return rm.WithEntry(event.Header.ID, entities.LedgerKindWithdrawal, -cents, event.WithdrawalID.String(), event.Header.PublishedAt), nil
	})
}

func (r OpsAccountReadModel) OnInvoicePaid(ctx context.Context, event *entities.InvoicePaid_v1) error {
	grossCents, err := event.Gross.Cents()
	if err != nil {
		return fmt.Errorf("could not parse invoice gross: %w", err)
	}
	netCents, err := event.Net.Cents()
	if err != nil {
		return fmt.Errorf("could not parse invoice net: %w", err)
	}

	referenceID := event.InvoiceID.String()
	err = r.updateAccountReadModel(ctx, event.PayerID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents -= grossCents
		return rm.WithEntry(event.Header.ID, entities.LedgerKindInvoiceOut, -grossCents, referenceID, event.Header.PublishedAt), nil
	})
	if err != nil {
		return err
	}

	return r.updateAccountReadModel(ctx, event.IssuerID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.BalanceCents += netCents
		return rm.WithEntry(event.Header.ID, entities.LedgerKindInvoiceIn, netCents, referenceID, event.Header.PublishedAt), nil
	})
}

func (r OpsAccountReadModel) OnFeeCollected(ctx context.Context, event *entities.FeeCollected_v1) error {
	cents, err := event.Amount.Cents()
	if err != nil {
		return fmt.Errorf("could not parse fee amount: %w", err)
	}

	return r.updateAccountReadModel(ctx, event.UserID, func(rm entities.OpsAccount) (entities.OpsAccount, error) {
		rm.FeesPaidCents += cents
		return rm, nil
	})
}

func (r OpsAccountReadModel) GetAll(ctx context.Context) ([]entities.OpsAccount, error) {
	var payloads [][]byte
	err := r.conn.Conn.SelectContext(ctx, &payloads,
		`SELECT payload FROM read_model_ops_accounts`)
	if err != nil {
		return nil, fmt.Errorf("could not get ops accounts: %w", err)
	}

	accounts := make([]entities.OpsAccount, 0, len(payloads))
	for _, payload := range payloads {
		var account entities.OpsAccount
		if err := json.Unmarshal(payload, &account); err != nil {
			return nil, fmt.Errorf("could not unmarshal ops account: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (r OpsAccountReadModel) GetByID(ctx context.Context, userID uuid.UUID) (entities.OpsAccount, error) {
	var payload []byte
	err := r.conn.Conn.QueryRowContext(ctx,
		`SELECT payload FROM read_model_ops_accounts WHERE user_id = $1`,
		userID,
	).Scan(&payload)
	if err != nil {
		return entities.OpsAccount{}, err
	}

	var account entities.OpsAccount
	if err := json.Unmarshal(payload, &account); err != nil {
		return entities.OpsAccount{}, fmt.Errorf("could not unmarshal ops account: %w", err)
	}

	return account, nil
}

func (r OpsAccountReadModel) createReadModel(ctx context.Context, account entities.OpsAccount) error {
	payload, err := json.Marshal(account)
	if err != nil {
		return err
	}

	_, err = r.conn.Conn.ExecContext(ctx, `
		INSERT INTO
		    read_model_ops_accounts (payload, user_id)
		VALUES
		    ($1, $2)
		ON CONFLICT (user_id) DO NOTHING; -- read model may be already updated by another event - we don't want to override
`, payload, account.UserID)
	if err != nil {
		return fmt.Errorf("could not create read model: %w", err)
	}

	return nil
}

func (r OpsAccountReadModel) updateAccountReadModel(
	ctx context.Context,
	userID uuid.UUID,
	updateFunc func(rm entities.OpsAccount) (entities.OpsAccount, error),
) error {
	err := updateInTx(
		ctx,
		r.conn.Conn,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			rm, err := r.findModelByUserID(ctx, tx, userID)
			if err == sql.ErrNoRows {
				// events arrived out of order - spin until the read model is created
				return fmt.Errorf("read model for user %s not exist yet", userID)
			} else if err != nil {
				return fmt.Errorf("could not find read model: %w", err)
			}

			updatedRm, err := updateFunc(rm)
			if err != nil {
				return err
			}

			return r.updateModel(ctx, tx, updatedRm)
		},
	)
	if err != nil {
		return err
	}

	if r.eventBus != nil {
		err = r.eventBus.Publish(ctx, entities.InternalOpsAccountUpdated_v1{
			Header: entities.NewEventHeader(),
			UserID: userID,
		})
		if err != nil {
			log.FromContext(ctx).WithField("error", err.Error()).Error("Could not publish internal ops event")
		}
	}

	return nil
}

func (r OpsAccountReadModel) updateModel(ctx context.Context, tx *sqlx.Tx, readModel entities.OpsAccount) error {
	readModel.LastUpdate = time.Now()

	payload, err := json.Marshal(readModel)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO
		    read_model_ops_accounts (payload, user_id)
		VALUES
		    ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET payload = excluded.payload;
		`, payload, readModel.UserID)
	if err != nil {
		return fmt.Errorf("could not update read model: %w", err)
	}

	return nil
}

func (r OpsAccountReadModel) findModelByUserID(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (entities.OpsAccount, error) {
	var payload []byte

	err := tx.QueryRowContext(ctx,
		`SELECT payload FROM read_model_ops_accounts WHERE user_id = $1`,
		userID,
	).Scan(&payload)
	if err != nil {
		return entities.OpsAccount{}, err
	}

	var account entities.OpsAccount
	if err := json.Unmarshal(payload, &account); err != nil {
		return entities.OpsAccount{}, fmt.Errorf("could not unmarshal ops account: %w", err)
	}

	return account, nil
}
