package migrations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portal/db"
	"portal/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

// MigrateOpsAccountsReadModel rebuilds the ops accounts projection from the
// event log. Run it after a projection change; replaying is safe because
// OnUserRegistered is an upsert and the balance math is deterministic.
func MigrateOpsAccountsReadModel(ctx context.Context, eventLog db.IEventLogRepository, rm db.OpsAccountReadModel) error {
	var entries []entities.EventLogEntry

	logger := log.FromContext(ctx)
	logger.Info("Migrating ops accounts read model")

	timeout := time.Now().Add(time.Second * 10)

	// events are not immediately available in the log, so we need to wait for them
	for {
		var err error
		entries, err = eventLog.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("could not get events from log: %w", err)
		}
		if len(entries) > 0 {
			break
		}

		if time.Now().After(timeout) {
			return fmt.Errorf("timeout while waiting for events in log")
		}

		time.Sleep(time.Millisecond * 100)
	}

	logger.WithField("events_count", len(entries)).Info("Has events to migrate")

	for _, entry := range entries {
		start := time.Now()

		logger.WithFields(logrus.Fields{
			"event_name": entry.EventName,
			"event_id":   entry.EventID,
		}).Info("Migrating event")

		err := migrateEvent(ctx, entry, rm)
		if err != nil {
			return fmt.Errorf("could not migrate event %s (%s): %w", entry.EventID, entry.EventName, err)
		}

		logger.WithField("duration", time.Since(start)).Info("Event migrated")
	}

	return nil
}

func migrateEvent(ctx context.Context, entry entities.EventLogEntry, rm db.OpsAccountReadModel) error {
	switch entry.EventName {
	case "UserRegistered_v1":
		event, err := unmarshalLogEvent[entities.UserRegistered_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnUserRegistered(ctx, event)
	case "KycSubmitted_v1":
		event, err := unmarshalLogEvent[entities.KycSubmitted_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnKycSubmitted(ctx, event)
	case "KycApproved_v1":
		event, err := unmarshalLogEvent[entities.KycApproved_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnKycApproved(ctx, event)
	case "KycRejected_v1":
		event, err := unmarshalLogEvent[entities.KycRejected_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnKycRejected(ctx, event)
	case "TransferCompleted_v1":
		event, err := unmarshalLogEvent[entities.TransferCompleted_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnTransferCompleted(ctx, event)
	case "RedeemCodeUsed_v1":
		event, err := unmarshalLogEvent[entities.RedeemCodeUsed_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnRedeemCodeUsed(ctx, event)
	case "TicketIssued_v1":
		event, err := unmarshalLogEvent[entities.TicketIssued_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnTicketIssued(ctx, event)
	case "TicketRefunded_v1":
		event, err := unmarshalLogEvent[entities.TicketRefunded_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnTicketRefunded(ctx, event)
	case "WithdrawalPaid_v1":
		event, err := unmarshalLogEvent[entities.WithdrawalPaid_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnWithdrawalPaid(ctx, event)
	case "InvoicePaid_v1":
		event, err := unmarshalLogEvent[entities.InvoicePaid_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnInvoicePaid(ctx, event)
	case "FeeCollected_v1":
		event, err := unmarshalLogEvent[entities.FeeCollected_v1](entry)
		if err != nil {
			return err
		}
		return rm.OnFeeCollected(ctx, event)
	default:
		// events that don't feed the projection (receipts, event approvals)
		// are skipped
		return nil
	}
}

func unmarshalLogEvent[T any](entry entities.EventLogEntry) (*T, error) {
	eventInstance := new(T)

	err := json.Unmarshal(entry.Payload, &eventInstance)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal event %s: %w", entry.EventName, err)
	}

	return eventInstance, nil
}
