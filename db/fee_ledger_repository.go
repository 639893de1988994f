package db

import (
	"context"
	"fmt"

	"portal/entities"
)

type IFeeLedgerRepository interface {
	List(ctx context.Context, source string) ([]entities.FeeLedgerEntry, error)
}

// FeeLedgerRepository only reads - fee rows are inserted by the money-moving
// transactions that collect them.
type FeeLedgerRepository struct {
	db *DB
}

func NewFeeLedgerRepository(db *DB) FeeLedgerRepository {
	if db == nil {
		panic("db is nil")
	}
	return FeeLedgerRepository{
		db: db,
	}
}

func (fr FeeLedgerRepository) List(ctx context.Context, source string) ([]entities.FeeLedgerEntry, error) {
	query := `
		SELECT
		    fee_id, user_id, source, reference_id,
		    amount AS "amount.amount",
		    currency AS "amount.currency",
		    collected_at
		FROM
		    fee_ledger`
	args := []any{}
	if source != "" {
		query += ` WHERE source = $1`
		args = append(args, source)
	}
	query += ` ORDER BY collected_at DESC`

	var entries []entities.FeeLedgerEntry
	err := fr.db.Conn.SelectContext(ctx, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list fee ledger: %w", err)
	}

	return entries, nil
}
