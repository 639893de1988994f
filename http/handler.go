package http

import (
	"context"

	"portal/entities"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/google/uuid"
)

type Handler struct {
	eventBus *cqrs.EventBus
	cmdBus   *cqrs.CommandBus

	userRepo        UserRepository
	kycRepo         KycRepository
	walletRepo      WalletRepository
	withdrawalRepo  WithdrawalRepository
	redeemRepo      RedeemRepository
	eventRepo       EventRepository
	ticketRepo      TicketRepository
	invoiceRepo     InvoiceRepository
	newsRepo        NewsRepository
	settingsRepo    SettingsRepository
	feeLedgerRepo   FeeLedgerRepository
	opsAccountsRepo OpsAccountsRepository
	documentStore   DocumentStore
}

type UserRepository interface {
	Create(ctx context.Context, user entities.User, currency string) (entities.UserCreateResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID) (entities.User, error)
}

type KycRepository interface {
	Create(ctx context.Context, application entities.KycApplication) (entities.KycCreateResponse, error)
	Review(ctx context.Context, applicationID uuid.UUID, approve bool, reason string, reviewer uuid.UUID) error
	List(ctx context.Context, status string) ([]entities.KycApplication, error)
}

type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (entities.WalletView, error)
	Transfer(ctx context.Context, transfer entities.Transfer) (entities.TransferResponse, error)
	SetSuspended(ctx context.Context, walletID uuid.UUID, suspended bool) error
}

type WithdrawalRepository interface {
	Request(ctx context.Context, userID uuid.UUID, amount entities.Money) (entities.WithdrawalCreateResponse, error)
	Reject(ctx context.Context, withdrawalID uuid.UUID, reason string) error
	List(ctx context.Context, status string) ([]entities.Withdrawal, error)
}

type RedeemRepository interface {
	CreatePool(ctx context.Context, pool entities.RedeemPool) (entities.RedeemPoolCreateResponse, error)
	PoolByID(ctx context.Context, poolID uuid.UUID) (entities.RedeemPoolView, error)
	Redeem(ctx context.Context, code string, userID uuid.UUID) (entities.RedeemResponse, error)
}

type EventRepository interface {
	Create(ctx context.Context, communityEvent entities.Event) (entities.EventCreateResponse, error)
	Review(ctx context.Context, eventID uuid.UUID, approve bool, reason string) error
	ListUpcoming(ctx context.Context) ([]entities.Event, error)
	List(ctx context.Context, status string) ([]entities.Event, error)
}

type TicketRepository interface {
	Purchase(ctx context.Context, purchase entities.TicketPurchase) (entities.TicketPurchaseResponse, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]entities.Ticket, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice entities.Invoice) (entities.InvoiceCreateResponse, error)
	Pay(ctx context.Context, invoiceID uuid.UUID, payerID uuid.UUID) (entities.InvoicePayResponse, error)
	Void(ctx context.Context, invoiceID uuid.UUID) error
	InvoiceByID(ctx context.Context, invoiceID uuid.UUID) (entities.Invoice, error)
}

type NewsRepository interface {
	Create(ctx context.Context, post entities.NewsPost) (entities.NewsPostCreateResponse, error)
	Publish(ctx context.Context, postID uuid.UUID) error
	ListPublished(ctx context.Context) ([]entities.NewsPost, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (entities.SystemSettings, error)
	Update(ctx context.Context, settings entities.SystemSettings) error
}

type FeeLedgerRepository interface {
	List(ctx context.Context, source string) ([]entities.FeeLedgerEntry, error)
}

type OpsAccountsRepository interface {
	GetAll(ctx context.Context) ([]entities.OpsAccount, error)
	GetByID(ctx context.Context, userID uuid.UUID) (entities.OpsAccount, error)
}

type DocumentStore interface {
	StoreDocument(ctx context.Context, name string, content string) (string, error)
}
