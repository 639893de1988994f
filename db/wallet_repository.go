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

type IWalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (entities.WalletView, error)
	Transfer(ctx context.Context, transfer entities.Transfer) (entities.TransferResponse, error)
	SetSuspended(ctx context.Context, walletID uuid.UUID, suspended bool) error
}

type WalletRepository struct {
	db *DB
}

func NewWalletRepository(db *DB) WalletRepository {
	if db == nil {
		panic("db is nil")
	}
	return WalletRepository{
		db: db,
	}
}

func (wr WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (entities.WalletView, error) {
	var wallet entities.Wallet
	err := wr.db.Conn.GetContext(ctx, &wallet, `
		SELECT
		    wallet_id, user_id,
		    amount AS "balance.amount",
		    currency AS "balance.currency",
		    suspended, created_at
		FROM
		    wallets
		WHERE
		    user_id = $1
	`, userID)
	if err == sql.ErrNoRows {
		return entities.WalletView{}, echo.NewHTTPError(http.StatusNotFound, "wallet not found")
	}
	if err != nil {
		return entities.WalletView{}, fmt.Errorf("could not get wallet: %w", err)
	}

	var entries []entities.LedgerEntry
	err = wr.db.Conn.SelectContext(ctx, &entries, `
		SELECT
		    entry_id, wallet_id, kind,
		    amount AS "amount.amount",
		    currency AS "amount.currency",
		    reference_id, created_at
		FROM
		    wallet_ledger
		WHERE
		    wallet_id = $1
		ORDER BY created_at DESC
	`, wallet.WalletID)
	if err != nil {
		return entities.WalletView{}, fmt.Errorf("could not get wallet ledger: %w", err)
	}

	return entities.WalletView{Wallet: wallet, Entries: entries}, nil
}

// Transfer moves money between two member wallets, cutting the P2P fee out of
// the credited side. Everything, including the published events, happens in
// one serializable transaction.
func (wr WalletRepository) Transfer(ctx context.Context, transfer entities.Transfer) (entities.TransferResponse, error) {
	if transfer.FromUserID == transfer.ToUserID {
		return entities.TransferResponse{}, echo.NewHTTPError(http.StatusBadRequest, "cannot transfer to the same user")
	}
	if !transfer.Amount.IsPositive() {
		return entities.TransferResponse{}, echo.NewHTTPError(http.StatusBadRequest, "transfer amount must be positive")
	}

	var response entities.TransferResponse

	err := updateInTx(ctx, wr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		settings, err := settingsTx(ctx, tx)
		if err != nil {
			return err
		}

		split, err := entities.SplitFee(transfer.Amount, settings.P2PFeeBps)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		// lock both wallets in user-id order, whoever is sending; opposite
		// transfers taking the locks in request order would deadlock
		var sender, receiver walletRow
		if transfer.FromUserID.String() < transfer.ToUserID.String() {
			sender, err = walletForUpdateTx(ctx, tx, transfer.FromUserID)
			if err != nil {
				return err
			}
			receiver, err = walletForUpdateTx(ctx, tx, transfer.ToUserID)
			if err != nil {
				return err
			}
		} else {
			receiver, err = walletForUpdateTx(ctx, tx, transfer.ToUserID)
			if err != nil {
				return err
			}
			sender, err = walletForUpdateTx(ctx, tx, transfer.FromUserID)
			if err != nil {
				return err
			}
		}

		if sender.Currency != transfer.Amount.Currency || receiver.Currency != transfer.Amount.Currency {
			return echo.NewHTTPError(http.StatusBadRequest, "currency mismatch")
		}
		if receiver.Suspended {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "receiver wallet is suspended")
		}

		grossCents, err := split.Gross.Cents()
		if err != nil {
			return err
		}
		netCents, err := split.Net.Cents()
		if err != nil {
			return err
		}

		referenceID := transfer.TransferID.String()
		if err := debitWalletTx(ctx, tx, sender, grossCents, entities.LedgerKindTransferOut, referenceID); err != nil {
			return err
		}
		if err := creditWalletTx(ctx, tx, receiver, netCents, entities.LedgerKindTransferIn, referenceID); err != nil {
			return err
		}
		if err := insertFeeTx(ctx, tx, transfer.FromUserID, entities.FeeSourceP2P, referenceID, split.Fee); err != nil {
			return err
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		eventBus := event.NewBus(outboxPublisher)

		err = eventBus.Publish(ctx, entities.TransferCompleted_v1{
			Header:     entities.NewEventHeader(),
			TransferID: transfer.TransferID,
			FromUserID: transfer.FromUserID,
			ToUserID:   transfer.ToUserID,
			Gross:      split.Gross,
			Fee:        split.Fee,
			Net:        split.Net,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		err = eventBus.Publish(ctx, entities.FeeCollected_v1{
			Header:      entities.NewEventHeader(),
			UserID:      transfer.FromUserID,
			Source:      entities.FeeSourceP2P,
			ReferenceID: referenceID,
			Amount:      split.Fee,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		response = entities.TransferResponse{
			TransferID: transfer.TransferID,
			Fee:        split.Fee,
			Net:        split.Net,
		}
		return nil
	})
	if err != nil {
		return entities.TransferResponse{}, err
	}

	return response, nil
}

func (wr WalletRepository) SetSuspended(ctx context.Context, walletID uuid.UUID, suspended bool) error {
	res, err := wr.db.Conn.ExecContext(ctx,
		`UPDATE wallets SET suspended = $1 WHERE wallet_id = $2`,
		suspended, walletID,
	)
	if err != nil {
		return fmt.Errorf("could not update wallet suspension: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "wallet not found")
	}

	return nil
}

type IWithdrawalRepository interface {
	Request(ctx context.Context, userID uuid.UUID, amount entities.Money) (entities.WithdrawalCreateResponse, error)
	Reject(ctx context.Context, withdrawalID uuid.UUID, reason string) error
	Payout(ctx context.Context, withdrawalID uuid.UUID) error
	List(ctx context.Context, status string) ([]entities.Withdrawal, error)
}

type WithdrawalRepository struct {
	db *DB
}

func NewWithdrawalRepository(db *DB) WithdrawalRepository {
	if db == nil {
		panic("db is nil")
	}
	return WithdrawalRepository{
		db: db,
	}
}

// Request records a withdrawal for later admin review. Funds stay in the
// wallet until the payout command runs.
func (wr WithdrawalRepository) Request(ctx context.Context, userID uuid.UUID, amount entities.Money) (entities.WithdrawalCreateResponse, error) {
	var response entities.WithdrawalCreateResponse

	err := updateInTx(ctx, wr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var kycApproved bool
		err := tx.GetContext(ctx, &kycApproved, `
			SELECT EXISTS (
			    SELECT 1 FROM kyc_applications WHERE user_id = $1 AND status = 'approved'
			)`, userID)
		if err != nil {
			return fmt.Errorf("could not check kyc status: %w", err)
		}
		if !kycApproved {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "withdrawals require an approved KYC application")
		}

		settings, err := settingsTx(ctx, tx)
		if err != nil {
			return err
		}

		amountCents, err := amount.Cents()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
		}
		minCents, err := (entities.Money{Amount: settings.MinWithdrawalAmount, Currency: settings.MinWithdrawalCurrency}).Cents()
		if err != nil {
			return fmt.Errorf("could not parse minimum withdrawal amount: %w", err)
		}
		if amountCents < minCents {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("withdrawal amount below minimum of %s", settings.MinWithdrawalAmount))
		}

		wallet, err := walletForUpdateTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if wallet.Suspended {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "wallet is suspended")
		}
		balance, err := wallet.cents()
		if err != nil {
			return err
		}
		if balance < amountCents {
			return echo.NewHTTPError(http.StatusBadRequest, "insufficient funds")
		}

		split, err := entities.SplitFee(amount, settings.WithdrawalFeeBps)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		withdrawalID := uuid.New()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO
			    withdrawals (withdrawal_id, user_id, amount, currency, fee_amount)
			VALUES
			    ($1, $2, $3, $4, $5)`,
			withdrawalID, userID, split.Gross.Amount, split.Gross.Currency, split.Fee.Amount,
		)
		if err != nil {
			return fmt.Errorf("could not insert withdrawal: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		err = event.NewBus(outboxPublisher).Publish(ctx, entities.WithdrawalRequested_v1{
			Header:       entities.NewEventHeader(),
			WithdrawalID: withdrawalID,
			UserID:       userID,
			Amount:       split.Gross,
			Fee:          split.Fee,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		response = entities.WithdrawalCreateResponse{
			WithdrawalID: withdrawalID,
			Fee:          split.Fee,
		}
		return nil
	})
	if err != nil {
		return entities.WithdrawalCreateResponse{}, err
	}

	return response, nil
}

func (wr WithdrawalRepository) Reject(ctx context.Context, withdrawalID uuid.UUID, reason string) error {
	return updateInTx(ctx, wr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var userID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			UPDATE withdrawals
			SET status = 'rejected', reviewed_at = $1
			WHERE withdrawal_id = $2 AND status = 'requested'
			RETURNING user_id`,
			time.Now().UTC(), withdrawalID,
		).Scan(&userID)
		if err == sql.ErrNoRows {
			return echo.NewHTTPError(http.StatusConflict, "withdrawal is not awaiting review")
		}
		if err != nil {
			return fmt.Errorf("could not reject withdrawal: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		err = event.NewBus(outboxPublisher).Publish(ctx, entities.WithdrawalRejected_v1{
			Header:       entities.NewEventHeader(),
			WithdrawalID: withdrawalID,
			UserID:       userID,
			Reason:       reason,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		return nil
	})
}

// Payout executes an approved withdrawal: the wallet is debited for the gross
// amount and the platform keeps the fee. Safe to retry - a withdrawal that is
// no longer in requested state is a no-op.
func (wr WithdrawalRepository) Payout(ctx context.Context, withdrawalID uuid.UUID) error {
	return updateInTx(ctx, wr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var w entities.Withdrawal
		err := tx.GetContext(ctx, &w, `
			SELECT
			    withdrawal_id, user_id,
			    amount AS "amount.amount",
			    currency AS "amount.currency",
			    fee_amount AS "fee.amount",
			    currency AS "fee.currency",
			    status, requested_at, reviewed_at
			FROM
			    withdrawals
			WHERE
			    withdrawal_id = $1
			FOR UPDATE
		`, withdrawalID)
		if err == sql.ErrNoRows {
			return echo.NewHTTPError(http.StatusNotFound, "withdrawal not found")
		}
		if err != nil {
			return fmt.Errorf("could not get withdrawal: %w", err)
		}
		if w.Status != entities.WithdrawalStatusRequested {
			return nil
		}

		wallet, err := walletForUpdateTx(ctx, tx, w.UserID)
		if err != nil {
			return err
		}

		grossCents, err := w.Amount.Cents()
		if err != nil {
			return fmt.Errorf("could not parse withdrawal amount: %w", err)
		}

		if err := debitWalletTx(ctx, tx, wallet, grossCents, entities.LedgerKindWithdrawal, withdrawalID.String()); err != nil {
			return err
		}
		if err := insertFeeTx(ctx, tx, w.UserID, entities.FeeSourceWithdrawal, withdrawalID.String(), w.Fee); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE withdrawals SET status = 'paid', reviewed_at = $1 WHERE withdrawal_id = $2`,
			time.Now().UTC(), withdrawalID,
		)
		if err != nil {
			return fmt.Errorf("could not mark withdrawal paid: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		eventBus := event.NewBus(outboxPublisher)

		err = eventBus.Publish(ctx, entities.WithdrawalPaid_v1{
			Header:       entities.NewEventHeader(),
			WithdrawalID: withdrawalID,
			UserID:       w.UserID,
			Amount:       w.Amount,
			Fee:          w.Fee,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		err = eventBus.Publish(ctx, entities.FeeCollected_v1{
			Header:      entities.NewEventHeader(),
			UserID:      w.UserID,
			Source:      entities.FeeSourceWithdrawal,
			ReferenceID: withdrawalID.String(),
			Amount:      w.Fee,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		return nil
	})
}

func (wr WithdrawalRepository) List(ctx context.Context, status string) ([]entities.Withdrawal, error) {
	query := `
		SELECT
		    withdrawal_id, user_id,
		    amount AS "amount.amount",
		    currency AS "amount.currency",
		    fee_amount AS "fee.amount",
		    currency AS "fee.currency",
		    status, requested_at, reviewed_at
		FROM
		    withdrawals`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY requested_at DESC`

	var withdrawals []entities.Withdrawal
	err := wr.db.Conn.SelectContext(ctx, &withdrawals, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list withdrawals: %w", err)
	}

	return withdrawals, nil
}
