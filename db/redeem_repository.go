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
	"github.com/lithammer/shortuuid/v3"
	"github.com/samber/lo"
)

type IRedeemRepository interface {
	CreatePool(ctx context.Context, pool entities.RedeemPool) (entities.RedeemPoolCreateResponse, error)
	PoolByID(ctx context.Context, poolID uuid.UUID) (entities.RedeemPoolView, error)
	Redeem(ctx context.Context, code string, userID uuid.UUID) (entities.RedeemResponse, error)
}

type RedeemRepository struct {
	db *DB
}

func NewRedeemRepository(db *DB) RedeemRepository {
	if db == nil {
		panic("db is nil")
	}
	return RedeemRepository{
		db: db,
	}
}

func (rr RedeemRepository) CreatePool(ctx context.Context, pool entities.RedeemPool) (entities.RedeemPoolCreateResponse, error) {
	if pool.Quantity < 1 {
		return entities.RedeemPoolCreateResponse{}, echo.NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
	}
	if !pool.Amount.IsPositive() {
		return entities.RedeemPoolCreateResponse{}, echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}

	var response entities.RedeemPoolCreateResponse

	err := updateInTx(ctx, rr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO
			    redeem_pools (pool_id, amount, currency, quantity, created_by)
			VALUES
			    ($1, $2, $3, $4, $5)`,
			pool.PoolID, pool.Amount.Amount, pool.Amount.Currency, pool.Quantity, pool.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("could not insert redeem pool: %w", err)
		}

		codes := lo.Times(pool.Quantity, func(int) string {
			return shortuuid.New()
		})
		for _, code := range codes {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO redeem_codes (code, pool_id) VALUES ($1, $2)`,
				code, pool.PoolID,
			)
			if err != nil {
				return fmt.Errorf("could not insert redeem code: %w", err)
			}
		}

		response = entities.RedeemPoolCreateResponse{PoolID: pool.PoolID, Codes: codes}
		return nil
	})
	if err != nil {
		return entities.RedeemPoolCreateResponse{}, err
	}

	return response, nil
}

func (rr RedeemRepository) PoolByID(ctx context.Context, poolID uuid.UUID) (entities.RedeemPoolView, error) {
	var pool entities.RedeemPool
	err := rr.db.Conn.GetContext(ctx, &pool, `
		SELECT
		    pool_id,
		    amount AS "amount.amount",
		    currency AS "amount.currency",
		    quantity, created_by, created_at
		FROM
		    redeem_pools
		WHERE
		    pool_id = $1
	`, poolID)
	if err == sql.ErrNoRows {
		return entities.RedeemPoolView{}, echo.NewHTTPError(http.StatusNotFound, "pool not found")
	}
	if err != nil {
		return entities.RedeemPoolView{}, fmt.Errorf("could not get redeem pool: %w", err)
	}

	remaining := 0
	err = rr.db.Conn.GetContext(ctx, &remaining, `
		SELECT
		    count(*) AS remaining
		FROM
		    redeem_codes
		WHERE
		    pool_id = $1 AND status = 'unused'
	`, poolID)
	if err != nil {
		return entities.RedeemPoolView{}, fmt.Errorf("could not count remaining codes: %w", err)
	}

	return entities.RedeemPoolView{Pool: pool, Remaining: remaining}, nil
}

// Redeem marks the code used and credits the wallet in one transaction, so a
// code can never credit twice.
func (rr RedeemRepository) Redeem(ctx context.Context, code string, userID uuid.UUID) (entities.RedeemResponse, error) {
	var response entities.RedeemResponse

	err := updateInTx(ctx, rr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var poolID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			UPDATE redeem_codes
			SET status = 'used', used_by = $1, used_at = $2
			WHERE code = $3 AND status = 'unused'
			RETURNING pool_id`,
			userID, time.Now().UTC(), code,
		).Scan(&poolID)
		if err == sql.ErrNoRows {
			var exists bool
			if err := tx.GetContext(ctx, &exists,
				`SELECT EXISTS (SELECT 1 FROM redeem_codes WHERE code = $1)`, code); err != nil {
				return fmt.Errorf("could not check redeem code: %w", err)
			}
			if exists {
				return echo.NewHTTPError(http.StatusConflict, "code already used")
			}
			return echo.NewHTTPError(http.StatusNotFound, "unknown code")
		}
		if err != nil {
			return fmt.Errorf("could not claim redeem code: %w", err)
		}

		var amount entities.Money
		err = tx.GetContext(ctx, &amount, `
			SELECT
			    amount AS "amount",
			    currency AS "currency"
			FROM
			    redeem_pools
			WHERE
			    pool_id = $1
		`, poolID)
		if err != nil {
			return fmt.Errorf("could not get pool amount: %w", err)
		}

		wallet, err := walletForUpdateTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		cents, err := amount.Cents()
		if err != nil {
			return fmt.Errorf("could not parse pool amount: %w", err)
		}
		if err := creditWalletTx(ctx, tx, wallet, cents, entities.LedgerKindRedeem, code); err != nil {
			return err
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		err = event.NewBus(outboxPublisher).Publish(ctx, entities.RedeemCodeUsed_v1{
			Header: entities.NewEventHeader(),
			Code:   code,
			PoolID: poolID,
			UserID: userID,
			Amount: entities.MoneyFromCents(cents, wallet.Currency),
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		response = entities.RedeemResponse{Amount: entities.MoneyFromCents(cents, wallet.Currency)}
		return nil
	})
	if err != nil {
		return entities.RedeemResponse{}, err
	}

	return response, nil
}
