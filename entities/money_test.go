package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyCents(t *testing.T) {
	cents, err := Money{Amount: "123.45", Currency: "USD"}.Cents()
	require.NoError(t, err)
	assert.Equal(t, int64(12345), cents)

	cents, err = Money{Amount: "50", Currency: "USD"}.Cents()
	require.NoError(t, err)
	assert.Equal(t, int64(5000), cents)

	cents, err = Money{Amount: "0.5", Currency: "USD"}.Cents()
	require.NoError(t, err)
	assert.Equal(t, int64(50), cents)

	cents, err = Money{Amount: "-10.01", Currency: "USD"}.Cents()
	require.NoError(t, err)
	assert.Equal(t, int64(-1001), cents)

	_, err = Money{Amount: "1.234", Currency: "USD"}.Cents()
	assert.Error(t, err)

	_, err = Money{Amount: "", Currency: "USD"}.Cents()
	assert.Error(t, err)

	_, err = Money{Amount: "abc", Currency: "USD"}.Cents()
	assert.Error(t, err)
}

func TestMoneyCentsRejectsEmbeddedSigns(t *testing.T) {
	// a sign anywhere but the very front must not parse
	for _, amount := range []string{"10.-1", "1.-5", "1.+5", "--5.00", "+5.00", "-+5.00", "5-0.00", "-", "."} {
		_, err := Money{Amount: amount, Currency: "USD"}.Cents()
		assert.Error(t, err, "amount %q must be rejected", amount)
	}
}

func TestMoneyFromCents(t *testing.T) {
	assert.Equal(t, "123.45", MoneyFromCents(12345, "USD").Amount)
	assert.Equal(t, "0.05", MoneyFromCents(5, "USD").Amount)
	assert.Equal(t, "-1.00", MoneyFromCents(-100, "USD").Amount)
	assert.Equal(t, "USD", MoneyFromCents(1, "USD").Currency)
}

func TestSplitFee(t *testing.T) {
	// 1.5% of 100.00 is exactly 1.50
	split, err := SplitFee(Money{Amount: "100.00", Currency: "USD"}, 150)
	require.NoError(t, err)
	assert.Equal(t, "1.50", split.Fee.Amount)
	assert.Equal(t, "98.50", split.Net.Amount)
	assert.Equal(t, "100.00", split.Gross.Amount)

	// 1.5% of 0.10 is 0.0015, rounds half-up to zero cents
	split, err = SplitFee(Money{Amount: "0.10", Currency: "USD"}, 150)
	require.NoError(t, err)
	assert.Equal(t, "0.00", split.Fee.Amount)
	assert.Equal(t, "0.10", split.Net.Amount)

	// 5% of 0.10 is exactly half a cent, rounds up
	split, err = SplitFee(Money{Amount: "0.10", Currency: "USD"}, 500)
	require.NoError(t, err)
	assert.Equal(t, "0.01", split.Fee.Amount)
	assert.Equal(t, "0.09", split.Net.Amount)
}

func TestSplitFeeNetPlusFeeEqualsGross(t *testing.T) {
	for _, amount := range []string{"0.01", "0.99", "33.33", "100.00", "999999.99"} {
		for _, bps := range []int64{0, 1, 150, 500, 9999, 10000} {
			split, err := SplitFee(Money{Amount: amount, Currency: "USD"}, bps)
			require.NoError(t, err)

			gross, err := split.Gross.Cents()
			require.NoError(t, err)
			fee, err := split.Fee.Cents()
			require.NoError(t, err)
			net, err := split.Net.Cents()
			require.NoError(t, err)

			assert.Equal(t, gross, fee+net, "amount %s bps %d", amount, bps)
		}
	}
}

func TestSplitFeeRejectsInvalidInput(t *testing.T) {
	_, err := SplitFee(Money{Amount: "100.00", Currency: "USD"}, -1)
	assert.Error(t, err)

	_, err = SplitFee(Money{Amount: "100.00", Currency: "USD"}, 10001)
	assert.Error(t, err)

	_, err = SplitFee(Money{Amount: "0.00", Currency: "USD"}, 100)
	assert.Error(t, err)

	_, err = SplitFee(Money{Amount: "-5.00", Currency: "USD"}, 100)
	assert.Error(t, err)
}
