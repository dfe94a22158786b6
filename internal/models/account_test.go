package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	acc := NewAccount("  Alice ", "alice@example.com", "hash")

	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "alice", acc.UsernameKey)
	assert.True(t, acc.Balance.IsZero())
	assert.Equal(t, int64(0), acc.Version)
	assert.NoError(t, acc.Validate())
}

func TestAccount_CreditDebit(t *testing.T) {
	acc := NewAccount("alice", "", "hash")

	require.NoError(t, acc.Credit(decimal.NewFromInt(50)))
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(50)))

	err := acc.Debit(decimal.NewFromInt(51))
	assert.ErrorIs(t, err, ErrNegativeBalance)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(50)), "failed debit must not touch the balance")

	require.NoError(t, acc.Debit(decimal.NewFromInt(50)))
	assert.True(t, acc.Balance.IsZero())

	assert.ErrorIs(t, acc.Credit(decimal.Zero), ErrNonPositiveAmount)
	assert.ErrorIs(t, acc.Debit(decimal.NewFromInt(-1)), ErrNonPositiveAmount)
}

func TestAccount_Clone(t *testing.T) {
	acc := NewAccount("alice", "", "hash")
	c := acc.Clone()
	require.NoError(t, c.Credit(decimal.NewFromInt(10)))

	assert.True(t, acc.Balance.IsZero())
}

func TestUserClaims_Owns(t *testing.T) {
	claims := &UserClaims{AccountID: "id", Username: "Alice"}

	assert.True(t, claims.Owns("alice"))
	assert.True(t, claims.Owns("ALICE"))
	assert.False(t, claims.Owns("bob"))
}

func TestTransaction_Validate(t *testing.T) {
	id, name := "acc-2", "bob"
	amount := decimal.NewFromInt(10)

	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{"recharge", Transaction{AccountID: "acc-1", Amount: amount, Kind: KindRecharge}, false},
		{"cashback", Transaction{AccountID: "acc-1", Amount: amount, Kind: KindCashback}, false},
		{"sent with counterparty", Transaction{AccountID: "acc-1", Amount: amount, Kind: KindSent, CounterpartyID: &id, CounterpartyName: &name}, false},
		{"received without counterparty", Transaction{AccountID: "acc-1", Amount: amount, Kind: KindReceived}, true},
		{"recharge with counterparty", Transaction{AccountID: "acc-1", Amount: amount, Kind: KindRecharge, CounterpartyID: &id, CounterpartyName: &name}, true},
		{"zero amount", Transaction{AccountID: "acc-1", Amount: decimal.Zero, Kind: KindRecharge}, true},
		{"unknown kind", Transaction{AccountID: "acc-1", Amount: amount, Kind: "REFUND"}, true},
		{"missing account", Transaction{Amount: amount, Kind: KindRecharge}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
