package db

import (
	"context"
	"testing"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemCodeOnce(t *testing.T) {
	conn := DB{Conn: getDb()}
	ctx := context.Background()

	admin := createTestUser(t, &conn)
	member := createTestUser(t, &conn)

	redeemRepo := NewRedeemRepository(&conn)

	pool, err := redeemRepo.CreatePool(ctx, entities.RedeemPool{
		PoolID:    uuid.New(),
		Amount:    entities.Money{Amount: "25.00", Currency: "USD"},
		Quantity:  3,
		CreatedBy: admin.UserID,
	})
	require.NoError(t, err)
	require.Len(t, pool.Codes, 3)

	response, err := redeemRepo.Redeem(ctx, pool.Codes[0], member.UserID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", response.Amount.Amount)

	walletRepo := NewWalletRepository(&conn)
	view, err := walletRepo.GetByUserID(ctx, member.UserID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", view.Wallet.Balance.Amount)

	// same code a second time
	_, err = redeemRepo.Redeem(ctx, pool.Codes[0], member.UserID)
	assert.Error(t, err)

	// unknown code
	_, err = redeemRepo.Redeem(ctx, "no-such-code", member.UserID)
	assert.Error(t, err)

	poolView, err := redeemRepo.PoolByID(ctx, pool.PoolID)
	require.NoError(t, err)
	assert.Equal(t, 2, poolView.Remaining)
}

func TestCreatePoolRejectsZeroQuantity(t *testing.T) {
	conn := DB{Conn: getDb()}

	admin := createTestUser(t, &conn)

	redeemRepo := NewRedeemRepository(&conn)

	_, err := redeemRepo.CreatePool(context.Background(), entities.RedeemPool{
		PoolID:    uuid.New(),
		Amount:    entities.Money{Amount: "25.00", Currency: "USD"},
		Quantity:  0,
		CreatedBy: admin.UserID,
	})
	assert.Error(t, err)
}
