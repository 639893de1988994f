package db

import (
	"context"
	"testing"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceLifecycle(t *testing.T) {
	conn := DB{Conn: getDb()}
	ctx := context.Background()

	issuer := createTestUser(t, &conn)
	payer := createTestUser(t, &conn)
	fundWallet(t, &conn, payer.UserID, "150.00")

	invoiceRepo := NewInvoiceRepository(&conn)

	invoice, err := invoiceRepo.Create(ctx, entities.Invoice{
		InvoiceID: uuid.New(),
		IssuerID:  issuer.UserID,
		PayerID:   payer.UserID,
		Amount:    entities.Money{Amount: "100.00", Currency: "USD"},
		Memo:      "consulting",
	})
	require.NoError(t, err)

	// only the addressed payer can pay
	stranger := createTestUser(t, &conn)
	_, err = invoiceRepo.Pay(ctx, invoice.InvoiceID, stranger.UserID)
	assert.Error(t, err)

	// default invoice fee is 250 bps, charged to the issuer
	response, err := invoiceRepo.Pay(ctx, invoice.InvoiceID, payer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "2.50", response.Fee.Amount)
	assert.Equal(t, "97.50", response.Net.Amount)

	walletRepo := NewWalletRepository(&conn)

	payerView, err := walletRepo.GetByUserID(ctx, payer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", payerView.Wallet.Balance.Amount)

	issuerView, err := walletRepo.GetByUserID(ctx, issuer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "97.50", issuerView.Wallet.Balance.Amount)

	// paid invoices cannot be paid again or voided
	_, err = invoiceRepo.Pay(ctx, invoice.InvoiceID, payer.UserID)
	assert.Error(t, err)

	err = invoiceRepo.Void(ctx, invoice.InvoiceID)
	assert.Error(t, err)

	stored, err := invoiceRepo.InvoiceByID(ctx, invoice.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, entities.InvoiceStatusPaid, stored.Status)
}

func TestInvoiceCannotBillYourself(t *testing.T) {
	conn := DB{Conn: getDb()}

	user := createTestUser(t, &conn)

	invoiceRepo := NewInvoiceRepository(&conn)

	_, err := invoiceRepo.Create(context.Background(), entities.Invoice{
		InvoiceID: uuid.New(),
		IssuerID:  user.UserID,
		PayerID:   user.UserID,
		Amount:    entities.Money{Amount: "10.00", Currency: "USD"},
	})
	assert.Error(t, err)
}
