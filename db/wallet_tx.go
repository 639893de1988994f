package db

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

// walletRow is the FOR UPDATE projection used inside money-moving
// transactions.
type walletRow struct {
	WalletID  uuid.UUID `db:"wallet_id"`
	UserID    uuid.UUID `db:"user_id"`
	Amount    string    `db:"amount"`
	Currency  string    `db:"currency"`
	Suspended bool      `db:"suspended"`
}

func (w walletRow) cents() (int64, error) {
	return entities.Money{Amount: w.Amount, Currency: w.Currency}.Cents()
}

func walletForUpdateTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (walletRow, error) {
	var w walletRow
	err := tx.GetContext(ctx, &w, `
		SELECT
		    wallet_id, user_id, amount, currency, suspended
		FROM
		    wallets
		WHERE
		    user_id = $1
		FOR UPDATE
	`, userID)
	if err != nil {
		return walletRow{}, fmt.Errorf("could not get wallet for user %s: %w", userID, err)
	}
	w.Currency = strings.TrimSpace(w.Currency)

	return w, nil
}

func creditWalletTx(ctx context.Context, tx *sqlx.Tx, w walletRow, cents int64, kind string, referenceID string) error {
	balance, err := w.cents()
	if err != nil {
		return fmt.Errorf("could not parse wallet balance: %w", err)
	}

	newBalance := entities.MoneyFromCents(balance+cents, w.Currency)
	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET amount = $1 WHERE wallet_id = $2`,
		newBalance.Amount, w.WalletID,
	)
	if err != nil {
		return fmt.Errorf("could not credit wallet: %w", err)
	}

	return insertLedgerTx(ctx, tx, w, cents, kind, referenceID)
}

func debitWalletTx(ctx context.Context, tx *sqlx.Tx, w walletRow, cents int64, kind string, referenceID string) error {
	if w.Suspended {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "wallet is suspended")
	}

	balance, err := w.cents()
	if err != nil {
		return fmt.Errorf("could not parse wallet balance: %w", err)
	}
	if balance < cents {
		return echo.NewHTTPError(http.StatusBadRequest, "insufficient funds")
	}

	newBalance := entities.MoneyFromCents(balance-cents, w.Currency)
	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET amount = $1 WHERE wallet_id = $2`,
		newBalance.Amount, w.WalletID,
	)
	if err != nil {
		return fmt.Errorf("could not debit wallet: %w", err)
	}

	return insertLedgerTx(ctx, tx, w, -cents, kind, referenceID)
}

func insertLedgerTx(ctx context.Context, tx *sqlx.Tx, w walletRow, cents int64, kind string, referenceID string) error {
	amount := entities.MoneyFromCents(cents, w.Currency)
	_, err := tx.ExecContext(ctx, `
		INSERT INTO
		    wallet_ledger (entry_id, wallet_id, kind, amount, currency, reference_id)
		VALUES
		    ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), w.WalletID, kind, amount.Amount, amount.Currency, referenceID,
	)
	if err != nil {
		return fmt.Errorf("could not insert ledger entry: %w", err)
	}

	return nil
}

func insertFeeTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, source string, referenceID string, fee entities.Money) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO
		    fee_ledger (fee_id, user_id, source, reference_id, amount, currency, collected_at)
		VALUES
		    ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), userID, source, referenceID, fee.Amount, fee.Currency, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("could not insert fee ledger entry: %w", err)
	}

	return nil
}

type settingsRow struct {
	P2PFeeBps             int64  `db:"p2p_fee_bps"`
	TicketFeeBps          int64  `db:"ticket_fee_bps"`
	InvoiceFeeBps         int64  `db:"invoice_fee_bps"`
	WithdrawalFeeBps      int64  `db:"withdrawal_fee_bps"`
	MinWithdrawalAmount   string `db:"min_withdrawal_amount"`
	MinWithdrawalCurrency string `db:"min_withdrawal_currency"`
}

func settingsTx(ctx context.Context, tx *sqlx.Tx) (settingsRow, error) {
	var s settingsRow
	err := tx.GetContext(ctx, &s, `
		SELECT
		    p2p_fee_bps, ticket_fee_bps, invoice_fee_bps, withdrawal_fee_bps,
		    min_withdrawal_amount, min_withdrawal_currency
		FROM
		    system_settings
		WHERE
		    id = 1
	`)
	if err != nil {
		return settingsRow{}, fmt.Errorf("could not get system settings: %w", err)
	}
	s.MinWithdrawalCurrency = strings.TrimSpace(s.MinWithdrawalCurrency)

	return s, nil
}
