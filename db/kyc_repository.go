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

type IKycRepository interface {
	Create(ctx context.Context, application entities.KycApplication) (entities.KycCreateResponse, error)
	Review(ctx context.Context, applicationID uuid.UUID, approve bool, reason string, reviewer uuid.UUID) error
	List(ctx context.Context, status string) ([]entities.KycApplication, error)
}

type KycRepository struct {
	db *DB
}

func NewKycRepository(db *DB) KycRepository {
	if db == nil {
		panic("db is nil")
	}
	return KycRepository{
		db: db,
	}
}

func (kr KycRepository) Create(ctx context.Context, application entities.KycApplication) (entities.KycCreateResponse, error) {
	var response entities.KycCreateResponse

	err := updateInTx(ctx, kr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var pendingExists bool
		err := tx.GetContext(ctx, &pendingExists, `
			SELECT EXISTS (
			    SELECT 1 FROM kyc_applications WHERE user_id = $1 AND status = 'pending'
			)`, application.UserID)
		if err != nil {
			return fmt.Errorf("could not check pending applications: %w", err)
		}
		if pendingExists {
			return echo.NewHTTPError(http.StatusConflict, "a pending application already exists for this user")
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO
			    kyc_applications (application_id, user_id, full_name, document_number, document_url)
			VALUES
			    ($1, $2, $3, $4, $5)`,
			application.ApplicationID, application.UserID, application.FullName,
			application.DocumentNumber, application.DocumentURL,
		)
		if err != nil {
			return fmt.Errorf("could not insert kyc application: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		err = event.NewBus(outboxPublisher).Publish(ctx, entities.KycSubmitted_v1{
			Header:        entities.NewEventHeader(),
			ApplicationID: application.ApplicationID,
			UserID:        application.UserID,
		})
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		response = entities.KycCreateResponse{
			ApplicationID: application.ApplicationID,
			DocumentURL:   application.DocumentURL,
		}
		return nil
	})
	if err != nil {
		return entities.KycCreateResponse{}, err
	}

	return response, nil
}

// Review flips a pending application to approved or rejected. Approved and
// rejected are terminal, so only pending rows match the update.
func (kr KycRepository) Review(ctx context.Context, applicationID uuid.UUID, approve bool, reason string, reviewer uuid.UUID) error {
	status := entities.KycStatusRejected
	if approve {
		status = entities.KycStatusApproved
	}

	return updateInTx(ctx, kr.db.Conn, sql.LevelSerializable, func(ctx context.Context, tx *sqlx.Tx) error {
		var userID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			UPDATE kyc_applications
			SET status = $1, reason = $2, reviewed_at = $3, reviewed_by = $4
			WHERE application_id = $5 AND status = 'pending'
			RETURNING user_id`,
			status, reason, time.Now().UTC(), reviewer, applicationID,
		).Scan(&userID)
		if err == sql.ErrNoRows {
			return echo.NewHTTPError(http.StatusConflict, "application is not awaiting review")
		}
		if err != nil {
			return fmt.Errorf("could not review kyc application: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("error creating event outbox publisher: %w", err)
		}
		eventBus := event.NewBus(outboxPublisher)

		if approve {
			err = eventBus.Publish(ctx, entities.KycApproved_v1{
				Header:        entities.NewEventHeader(),
				ApplicationID: applicationID,
				UserID:        userID,
			})
		} else {
			err = eventBus.Publish(ctx, entities.KycRejected_v1{
				Header:        entities.NewEventHeader(),
				ApplicationID: applicationID,
				UserID:        userID,
				Reason:        reason,
			})
		}
		if err != nil {
			return fmt.Errorf("could not publish event: %w", err)
		}

		return nil
	})
}

func (kr KycRepository) List(ctx context.Context, status string) ([]entities.KycApplication, error) {
	query := `
		SELECT
		    application_id, user_id, full_name, document_number, document_url,
		    status, reason, submitted_at, reviewed_at, reviewed_by
		FROM
		    kyc_applications`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at`

	var applications []entities.KycApplication
	err := kr.db.Conn.SelectContext(ctx, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list kyc applications: %w", err)
	}

	return applications, nil
}
