package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	eventBus *cqrs.EventBus,
	cmdBus *cqrs.CommandBus,
	jwtSecret string,
	userRepo UserRepository,
	kycRepo KycRepository,
	walletRepo WalletRepository,
	withdrawalRepo WithdrawalRepository,
	redeemRepo RedeemRepository,
	eventRepo EventRepository,
	ticketRepo TicketRepository,
	invoiceRepo InvoiceRepository,
	newsRepo NewsRepository,
	settingsRepo SettingsRepository,
	feeLedgerRepo FeeLedgerRepository,
	opsAccountsRepo OpsAccountsRepository,
	documentStore DocumentStore,
) *echo.Echo {
	e := libHttp.NewEcho()

	e.Use(otelecho.Middleware("portal"))
	e.Use(metricsMiddleware)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler := Handler{
		eventBus:        eventBus,
		cmdBus:          cmdBus,
		userRepo:        userRepo,
		kycRepo:         kycRepo,
		walletRepo:      walletRepo,
		withdrawalRepo:  withdrawalRepo,
		redeemRepo:      redeemRepo,
		eventRepo:       eventRepo,
		ticketRepo:      ticketRepo,
		invoiceRepo:     invoiceRepo,
		newsRepo:        newsRepo,
		settingsRepo:    settingsRepo,
		feeLedgerRepo:   feeLedgerRepo,
		opsAccountsRepo: opsAccountsRepo,
		documentStore:   documentStore,
	}

	e.POST("/users", handler.PostUsers)
	e.GET("/users/:user_id", handler.GetUser)

	e.POST("/kyc", handler.PostKyc)

	e.GET("/wallets/:user_id", handler.GetWallet)
	e.POST("/wallets/transfer", handler.PostTransfer)
	e.POST("/wallets/:user_id/withdrawals", handler.PostWithdrawal)

	e.POST("/redeem", handler.PostRedeem)

	e.POST("/events", handler.PostEvents)
	e.GET("/events", handler.GetEvents)
	e.POST("/events/:event_id/tickets", handler.PostPurchaseTicket)
	e.PUT("/ticket-refund/:ticket_id", handler.PutTicketRefund)
	e.GET("/tickets", handler.GetTickets)

	e.POST("/invoices", handler.PostInvoices)
	e.POST("/invoices/:invoice_id/pay", handler.PostPayInvoice)
	e.GET("/invoices/:invoice_id", handler.GetInvoice)

	e.GET("/news", handler.GetNews)

	admin := e.Group("/admin", AdminAuth(jwtSecret))
	admin.GET("/kyc", handler.GetKycApplications)
	admin.PUT("/kyc/:application_id/review", handler.PutKycReview)
	admin.PUT("/wallets/:wallet_id/suspend", handler.PutWalletSuspend)
	admin.PUT("/wallets/:wallet_id/unsuspend", handler.PutWalletUnsuspend)
	admin.GET("/withdrawals", handler.GetWithdrawals)
	admin.PUT("/withdrawals/:withdrawal_id/review", handler.PutWithdrawalReview)
	admin.POST("/redeem-pools", handler.PostRedeemPools)
	admin.GET("/redeem-pools/:pool_id", handler.GetRedeemPool)
	admin.PUT("/events/:event_id/review", handler.PutEventReview)
	admin.GET("/events", handler.GetAdminEvents)
	admin.PUT("/invoices/:invoice_id/void", handler.PutInvoiceVoid)
	admin.POST("/news", handler.PostNews)
	admin.PUT("/news/:post_id/publish", handler.PutNewsPublish)
	admin.GET("/settings", handler.GetSettings)
	admin.PUT("/settings", handler.PutSettings)
	admin.GET("/fees", handler.GetFees)

	ops := e.Group("/ops", AdminAuth(jwtSecret))
	ops.GET("/accounts", handler.GetOpsAccounts)
	ops.GET("/accounts/:user_id", handler.GetOpsAccountByID)

	return e
}
