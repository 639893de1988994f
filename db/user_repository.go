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
	"github.com/lib/pq"
)

type IUserRepository interface {
	Create(ctx context.Context, user entities.User, currency string) (entities.UserCreateResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID) (entities.User, error)
}

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) UserRepository {
	if db == nil {
		panic("db is nil")
	}
	return UserRepository{
		db: db,
	}
}

// Create registers a user together with an empty wallet. Both rows and the
// UserRegistered event are committed atomically.
func (ur UserRepository) Create(ctx context.Context, user entities.User, currency string) (entities.UserCreateResponse, error) {
	var response entities.UserCreateResponse

	err := updateInTx(ctx, ur.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO
			    users (user_id, email, name, role)
			VALUES
			    ($1, $2, $3, $4)`,
			user.UserID, user.Email, user.Name, user.Role,
		)
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		if err != nil {
			return fmt.Errorf("could not insert user: %w", err)
		}

		walletID := uuid.New()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO
			    wallets (wallet_id, user_id, currency)
			VALUES
			    ($1, $2, $3)`,
			walletID, user.UserID, currency,
		)
		if err != nil {
			return fmt.Errorf("could not insert wallet: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		err = event.NewBus(outboxPublisher).Publish(ctx, entities.UserRegistered_v1{
			Header:   entities.NewEventHeader(),
			UserID:   user.UserID,
			WalletID: walletID,
			Email:    user.Email,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		response = entities.UserCreateResponse{UserID: user.UserID, WalletID: walletID}
		return nil
	})
	if err != nil {
		return entities.UserCreateResponse{}, err
	}

	return response, nil
}

func (ur UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (entities.User, error) {
	var user entities.User
	err := ur.db.Conn.GetContext(ctx, &user, `
		SELECT
		    user_id, email, name, role, created_at
		FROM
		    users
		WHERE
		    user_id = $1
	`, userID)
	if err == sql.ErrNoRows {
		return entities.User{}, echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("could not get user: %w", err)
	}

	return user, nil
}
