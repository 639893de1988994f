package db

import (
	"context"
	"testing"
	"time"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketPurchaseAndRefund(t *testing.T) {
	conn := DB{Conn: getDb()}
	ctx := context.Background()

	organizer := createTestUser(t, &conn)
	buyer := createTestUser(t, &conn)
	fundWallet(t, &conn, buyer.UserID, "100.00")

	eventRepo := NewEventRepository(&conn)
	communityEvent, err := eventRepo.Create(ctx, entities.Event{
		EventID:     uuid.New(),
		OrganizerID: organizer.UserID,
		Title:       "Community Meetup",
		Venue:       "Town Hall",
		StartTime:   time.Now().Add(time.Hour * 24),
		Capacity:    1,
		TicketPrice: entities.Money{Amount: "40.00", Currency: "USD"},
	})
	require.NoError(t, err)

	ticketRepo := NewTicketRepository(&conn)

	// pending events are not sellable
	_, err = ticketRepo.Purchase(ctx, entities.TicketPurchase{
		TicketID: uuid.New(),
		EventID:  communityEvent.EventID,
		UserID:   buyer.UserID,
	})
	assert.Error(t, err)

	err = eventRepo.Review(ctx, communityEvent.EventID, true, "")
	require.NoError(t, err)

	// default ticket fee is 500 bps
	response, err := ticketRepo.Purchase(ctx, entities.TicketPurchase{
		TicketID: uuid.New(),
		EventID:  communityEvent.EventID,
		UserID:   buyer.UserID,
	})
	require.NoError(t, err)
	assert.Equal(t, "40.00", response.Price.Amount)
	assert.Equal(t, "2.00", response.Fee.Amount)

	walletRepo := NewWalletRepository(&conn)

	buyerView, err := walletRepo.GetByUserID(ctx, buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "60.00", buyerView.Wallet.Balance.Amount)

	organizerView, err := walletRepo.GetByUserID(ctx, organizer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "38.00", organizerView.Wallet.Balance.Amount)

	// capacity is 1, the event is sold out now
	other := createTestUser(t, &conn)
	fundWallet(t, &conn, other.UserID, "100.00")
	_, err = ticketRepo.Purchase(ctx, entities.TicketPurchase{
		TicketID: uuid.New(),
		EventID:  communityEvent.EventID,
		UserID:   other.UserID,
	})
	assert.Error(t, err)

	// refund returns the net amount, the fee stays collected
	err = ticketRepo.Refund(ctx, response.TicketID)
	require.NoError(t, err)

	buyerView, err = walletRepo.GetByUserID(ctx, buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "98.00", buyerView.Wallet.Balance.Amount)

	organizerView, err = walletRepo.GetByUserID(ctx, organizer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", organizerView.Wallet.Balance.Amount)

	// refunding twice is a no-op
	err = ticketRepo.Refund(ctx, response.TicketID)
	require.NoError(t, err)

	buyerView, err = walletRepo.GetByUserID(ctx, buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "98.00", buyerView.Wallet.Balance.Amount)

	tickets, err := ticketRepo.GetByUser(ctx, buyer.UserID)
	require.NoError(t, err)
	assert.Empty(t, tickets, "refunded tickets are not listed")
}
