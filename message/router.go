package message

import (
	"context"
	"encoding/json"
	"fmt"

	"portal/entities"
	"portal/message/command"
	"portal/message/event"
	"portal/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// OpsAccountsReadModel is implemented by db.OpsAccountReadModel. The indirection
// keeps this package free of a db import.
type OpsAccountsReadModel interface {
	OnUserRegistered(ctx context.Context, event *entities.UserRegistered_v1) error
	OnKycSubmitted(ctx context.Context, event *entities.KycSubmitted_v1) error
	OnKycApproved(ctx context.Context, event *entities.KycApproved_v1) error
	OnKycRejected(ctx context.Context, event *entities.KycRejected_v1) error
	OnTransferCompleted(ctx context.Context, event *entities.TransferCompleted_v1) error
	OnRedeemCodeUsed(ctx context.Context, event *entities.RedeemCodeUsed_v1) error
	OnTicketIssued(ctx context.Context, event *entities.TicketIssued_v1) error
	OnTicketRefunded(ctx context.Context, event *entities.TicketRefunded_v1) error
	OnWithdrawalPaid(ctx context.Context, event *entities.WithdrawalPaid_v1) error
	OnInvoicePaid(ctx context.Context, event *entities.InvoicePaid_v1) error
	OnFeeCollected(ctx context.Context, event *entities.FeeCollected_v1) error
}

type EventLogStore interface {
	Store(ctx context.Context, entry entities.EventLogEntry) error
}

func NewWatermillRouter(
	pgSubscriber message.Subscriber,
	publisher message.Publisher,
	redisClient *redis.Client,
	commandProcessorConfig cqrs.CommandProcessorConfig,
	eventProcessorConfig cqrs.EventProcessorConfig,
	commandHandler command.Handler,
	eventHandler event.Handler,
	opsReadModel OpsAccountsReadModel,
	eventLog EventLogStore,
	watermillLogger watermill.LoggerAdapter,
) *message.Router {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		panic(err)
	}

	useMiddlewares(router, watermillLogger)

	_, err = outbox.NewForwarder(pgSubscriber, publisher, watermillLogger, router)
	if err != nil {
		panic(err)
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		panic(err)
	}

	commandProcessor, err := cqrs.NewCommandProcessorWithConfig(router, commandProcessorConfig)
	if err != nil {
		panic(err)
	}

	err = commandProcessor.AddHandlers(
		cqrs.NewCommandHandler(
			"RefundTicket",
			commandHandler.RefundTicket,
		),
		cqrs.NewCommandHandler(
			"ProcessWithdrawal",
			commandHandler.ProcessWithdrawal,
		),
	)
	if err != nil {
		panic(err)
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"StoreReceipt",
			eventHandler.StoreReceipt,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnUserRegistered",
			opsReadModel.OnUserRegistered,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnKycSubmitted",
			opsReadModel.OnKycSubmitted,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnKycApproved",
			opsReadModel.OnKycApproved,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnKycRejected",
			opsReadModel.OnKycRejected,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnTransferCompleted",
			opsReadModel.OnTransferCompleted,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnRedeemCodeUsed",
			opsReadModel.OnRedeemCodeUsed,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnTicketIssued",
			opsReadModel.OnTicketIssued,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnTicketRefunded",
			opsReadModel.OnTicketRefunded,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnWithdrawalPaid",
			opsReadModel.OnWithdrawalPaid,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnInvoicePaid",
			opsReadModel.OnInvoicePaid,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnFeeCollected",
			opsReadModel.OnFeeCollected,
		),
	)
	if err != nil {
		panic(err)
	}

	// every public event lands in the append-only event log, regardless of type
	router.AddNoPublisherHandler(
		"events_log",
		"events",
		NewRedisSubscriber(redisClient, "svc-portal.events.events_log", watermillLogger),
		func(msg *message.Message) error {
			entry, err := eventLogEntryFromMessage(msg)
			if err != nil {
				return err
			}

			return eventLog.Store(msg.Context(), entry)
		},
	)

	return router
}

func eventLogEntryFromMessage(msg *message.Message) (entities.EventLogEntry, error) {
	var envelope struct {
		Header entities.EventHeader `json:"header"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return entities.EventLogEntry{}, fmt.Errorf("could not unmarshal event header: %w", err)
	}

	eventName := msg.Metadata.Get("name")
	if eventName == "" {
		return entities.EventLogEntry{}, fmt.Errorf("message %s has no event name", msg.UUID)
	}

	eventID, err := uuid.Parse(envelope.Header.ID)
	if err != nil {
		return entities.EventLogEntry{}, fmt.Errorf("could not parse event id: %w", err)
	}

	return entities.EventLogEntry{
		EventID:     eventID,
		PublishedAt: envelope.Header.PublishedAt,
		EventName:   eventName,
		Payload:     msg.Payload,
	}, nil
}
