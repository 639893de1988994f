package db

import (
	"context"
	"fmt"
	"strings"

	"portal/entities"
)

type ISettingsRepository interface {
	Get(ctx context.Context) (entities.SystemSettings, error)
	Update(ctx context.Context, settings entities.SystemSettings) error
}

type SettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) SettingsRepository {
	if db == nil {
		panic("db is nil")
	}
	return SettingsRepository{
		db: db,
	}
}

func (sr SettingsRepository) Get(ctx context.Context) (entities.SystemSettings, error) {
	var row settingsRow
	err := sr.db.Conn.GetContext(ctx, &row, `
		SELECT
		    p2p_fee_bps, ticket_fee_bps, invoice_fee_bps, withdrawal_fee_bps,
		    min_withdrawal_amount, min_withdrawal_currency
		FROM
		    system_settings
		WHERE
		    id = 1
	`)
	if err != nil {
		return entities.SystemSettings{}, fmt.Errorf("could not get system settings: %w", err)
	}

	return entities.SystemSettings{
		P2PFeeBps:        row.P2PFeeBps,
		TicketFeeBps:     row.TicketFeeBps,
		InvoiceFeeBps:    row.InvoiceFeeBps,
		WithdrawalFeeBps: row.WithdrawalFeeBps,
		MinWithdrawalAmount: entities.Money{
			Amount:   row.MinWithdrawalAmount,
			Currency: strings.TrimSpace(row.MinWithdrawalCurrency),
		},
	}, nil
}

func (sr SettingsRepository) Update(ctx context.Context, settings entities.SystemSettings) error {
	for _, bps := range []int64{
		settings.P2PFeeBps, settings.TicketFeeBps, settings.InvoiceFeeBps, settings.WithdrawalFeeBps,
	} {
		if bps < 0 || bps > 10000 {
			return fmt.Errorf("fee basis points out of range: %d", bps)
		}
	}

	_, err := sr.db.Conn.ExecContext(ctx, `
		UPDATE system_settings
		SET p2p_fee_bps = $1,
		    ticket_fee_bps = $2,
		    invoice_fee_bps = $3,
		    withdrawal_fee_bps = $4,
		    min_withdrawal_amount = $5,
		    min_withdrawal_currency = $6
		WHERE id = 1`,
		settings.P2PFeeBps, settings.TicketFeeBps, settings.InvoiceFeeBps,
		settings.WithdrawalFeeBps, settings.MinWithdrawalAmount.Amount,
		settings.MinWithdrawalAmount.Currency,
	)
	if err != nil {
		return fmt.Errorf("could not update system settings: %w", err)
	}

	return nil
}
