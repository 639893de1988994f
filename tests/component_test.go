package tests

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"portal/api"
	"portal/db"
	"portal/message"
	"portal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	redisClient := message.NewRedisClient(os.Getenv("REDIS_ADDR"))
	defer redisClient.Close()

	conn, err := db.NewDBConn(os.Getenv("POSTGRES_URL"))
	require.NoError(t, err)
	defer conn.Close()
	conn.MigrateSchema()

	documentStore := &api.ImageHostMock{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		svc := service.New(
			redisClient,
			documentStore,
			conn,
			":8080",
			testJWTSecret,
		)
		assert.NoError(t, svc.Run(ctx))
	}()
	waitForHttpServer(t)

	token := adminToken(t)

	// two members, both start with an empty wallet
	var alice, bob struct {
		UserID   uuid.UUID `json:"user_id"`
		WalletID uuid.UUID `json:"wallet_id"`
	}
	doRequest(t, http.MethodPost, "/users",
		map[string]string{"email": uuid.NewString() + "@example.com", "name": "Alice"}, "", &alice)
	doRequest(t, http.MethodPost, "/users",
		map[string]string{"email": uuid.NewString() + "@example.com", "name": "Bob"}, "", &bob)

	// fund Alice with a redeem code
	var pool struct {
		PoolID uuid.UUID `json:"pool_id"`
		Codes  []string  `json:"codes"`
	}
	doRequest(t, http.MethodPost, "/admin/redeem-pools",
		map[string]any{"amount": Money{Amount: "100.00", Currency: "USD"}, "quantity": 1}, token, &pool)
	require.Len(t, pool.Codes, 1)

	doRequest(t, http.MethodPost, "/redeem",
		map[string]any{"user_id": alice.UserID, "code": pool.Codes[0]}, "", nil)

	// P2P transfer, 1.5% fee on the sender side
	var transfer struct {
		Fee Money `json:"fee"`
		Net Money `json:"net"`
	}
	doRequest(t, http.MethodPost, "/wallets/transfer", map[string]any{
		"from_user_id": alice.UserID,
		"to_user_id":   bob.UserID,
		"amount":       Money{Amount: "30.00", Currency: "USD"},
	}, "", &transfer)
	assert.Equal(t, "0.45", transfer.Fee.Amount)
	assert.Equal(t, "29.55", transfer.Net.Amount)

	assertWalletBalance(t, alice.UserID, "70.00")
	assertWalletBalance(t, bob.UserID, "29.55")

	// Bob organizes an event, Alice buys the only ticket
	var communityEvent struct {
		EventID uuid.UUID `json:"event_id"`
	}
	doRequest(t, http.MethodPost, "/events", map[string]any{
		"organizer_id": bob.UserID,
		"title":        "Community Meetup",
		"venue":        "Town Hall",
		"start_time":   time.Now().Add(time.Hour * 24).Format(time.RFC3339),
		"capacity":     1,
		"ticket_price": Money{Amount: "20.00", Currency: "USD"},
	}, "", &communityEvent)

	doRequest(t, http.MethodPut, "/admin/events/"+communityEvent.EventID.String()+"/review",
		map[string]string{"decision": "approve"}, token, nil)

	var ticket struct {
		TicketID uuid.UUID `json:"ticket_id"`
	}
	doRequest(t, http.MethodPost, "/events/"+communityEvent.EventID.String()+"/tickets",
		map[string]any{"user_id": alice.UserID}, "", &ticket)

	assertWalletBalance(t, alice.UserID, "50.00")

	// the receipt is rendered and uploaded asynchronously
	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			_, ok := documentStore.Document(ticket.TicketID.String() + "-receipt.html")
			assert.True(t, ok, "receipt for ticket %s not stored", ticket.TicketID)
		},
		10*time.Second,
		100*time.Millisecond,
	)

	// the ops projection catches up from the published events: Alice redeemed
	// 100.00, sent 30.00 and bought the 20.00 ticket
	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			account, ok := getOpsAccount(t, token, alice.UserID)
			if !ok {
				return
			}
			assert.Equal(t, "none", account.KycStatus)
			assert.Equal(t, int64(5000), account.BalanceCents)
			assert.Equal(t, 1, account.TicketCount)
			assert.Len(t, account.Entries, 3)
		},
		10*time.Second,
		100*time.Millisecond,
	)

	// Bob's side: 29.55 transfer net plus 19.00 ticket net (5% fee off 20.00)
	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			account, ok := getOpsAccount(t, token, bob.UserID)
			if !ok {
				return
			}
			assert.Equal(t, int64(4855), account.BalanceCents)
			assert.Equal(t, 0, account.TicketCount)
			assert.Len(t, account.Entries, 2)
		},
		10*time.Second,
		100*time.Millisecond,
	)
}

type opsAccountView struct {
	UserID       uuid.UUID `json:"user_id"`
	KycStatus    string    `json:"kyc_status"`
	BalanceCents int64     `json:"balance_cents"`
	TicketCount  int       `json:"ticket_count"`
	Entries      map[string]struct {
		Kind        string `json:"kind"`
		AmountCents int64  `json:"amount_cents"`
	} `json:"entries"`
}

func getOpsAccount(t *assert.CollectT, token string, userID uuid.UUID) (opsAccountView, bool) {
	var account opsAccountView

	req, err := http.NewRequest(http.MethodGet, baseURL+"/ops/accounts/"+userID.String(), nil)
	if !assert.NoError(t, err) {
		return account, false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if !assert.NoError(t, err) {
		return account, false
	}
	defer resp.Body.Close()
	if !assert.Equal(t, http.StatusOK, resp.StatusCode) {
		return account, false
	}
	if !assert.NoError(t, decodeJSON(resp, &account)) {
		return account, false
	}

	return account, true
}

func assertWalletBalance(t *testing.T, userID uuid.UUID, expected string) {
	t.Helper()

	var view struct {
		Wallet struct {
			Balance Money `json:"balance"`
		} `json:"wallet"`
	}
	doRequest(t, http.MethodGet, "/wallets/"+userID.String(), nil, "", &view)
	assert.Equal(t, expected, view.Wallet.Balance.Amount)
}
