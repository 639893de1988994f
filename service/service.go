package service

import (
	"context"
	"net/http"

	"portal/db"
	portalHttp "portal/http"
	"portal/message"
	"portal/message/command"
	"portal/message/event"
	"portal/message/outbox"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
	bindAddr        string
}

func New(
	redisClient *redis.Client,
	documentStore event.DocumentStore,
	conn db.DB,
	bindAddr string,
	jwtSecret string,
) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := message.NewRedisPublisher(redisClient, watermillLogger)

	eventBus := event.NewBus(redisPublisher)
	commandBus := command.NewCommandBus(redisPublisher)

	userRepo := db.NewUserRepository(&conn)
	kycRepo := db.NewKycRepository(&conn)
	walletRepo := db.NewWalletRepository(&conn)
	withdrawalRepo := db.NewWithdrawalRepository(&conn)
	redeemRepo := db.NewRedeemRepository(&conn)
	eventRepo := db.NewEventRepository(&conn)
	ticketRepo := db.NewTicketRepository(&conn)
	invoiceRepo := db.NewInvoiceRepository(&conn)
	newsRepo := db.NewNewsRepository(&conn)
	settingsRepo := db.NewSettingsRepository(&conn)
	feeLedgerRepo := db.NewFeeLedgerRepository(&conn)
	opsReadModel := db.NewOpsAccountReadModel(&conn, eventBus)
	eventLogRepo := db.NewEventLogRepository(&conn)

	eventsHandler := event.NewHandler(documentStore, eventBus)
	commandsHandler := command.NewHandler(ticketRepo, withdrawalRepo)

	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)
	commandProcessorConfig := command.NewCommandProcessorConfig(redisClient, watermillLogger)

	pgSubscriber := outbox.SubscribeForPGMessages(conn.Conn, watermillLogger)
	watermillRouter := message.NewWatermillRouter(
		pgSubscriber,
		redisPublisher,
		redisClient,
		commandProcessorConfig,
		eventProcessorConfig,
		commandsHandler,
		eventsHandler,
		opsReadModel,
		eventLogRepo,
		watermillLogger,
	)

	echoRouter := portalHttp.NewHttpRouter(
		eventBus,
		commandBus,
		jwtSecret,
		userRepo,
		kycRepo,
		walletRepo,
		withdrawalRepo,
		redeemRepo,
		eventRepo,
		ticketRepo,
		invoiceRepo,
		newsRepo,
		settingsRepo,
		feeLedgerRepo,
		opsReadModel,
		documentStore,
	)

	return Service{
		watermillRouter: watermillRouter,
		echoRouter:      echoRouter,
		bindAddr:        bindAddr,
	}
}

func (s Service) Run(
	ctx context.Context,
) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// don't accept HTTP traffic before the message router is ready
		<-s.watermillRouter.Running()

		err := s.echoRouter.Start(s.bindAddr)
		if err != nil && err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
