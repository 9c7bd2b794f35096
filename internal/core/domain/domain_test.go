package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidOperationAmount_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   bool
	}{
		{"zero rejected", "0", false},
		{"negative rejected", "-10.00", false},
		{"small amount accepted", "0.01", true},
		{"ceiling accepted", "50000.00", true},
		{"just above ceiling rejected", "50000.01", false},
		{"sub-cent rounds to zero", "0.001", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ValidOperationAmount(d))
		})
	}
}

func TestRoundAmount(t *testing.T) {
	d := decimal.RequireFromString("10.005")
	assert.Equal(t, "10.01", RoundAmount(d).StringFixed(2))

	d = decimal.RequireFromString("75.00")
	assert.True(t, RoundAmount(d).Equal(decimal.RequireFromString("75")))
}

func TestClassify_LegacyTransferLegs(t *testing.T) {
	tests := []struct {
		name        string
		txType      TransactionType
		description string
		want        TransactionType
	}{
		{"received transfer", TransactionTypeDeposit, "transfer received from account 123", TransactionTypeTransferIn},
		{"transferred from phrase", TransactionTypeDeposit, "Transferred from Mario Rossi", TransactionTypeTransferIn},
		{"sent transfer", TransactionTypeWithdrawal, "transfer to account 456", TransactionTypeTransferOut},
		{"transferred to phrase", TransactionTypeWithdrawal, "Transferred to savings", TransactionTypeTransferOut},
		{"plain deposit untouched", TransactionTypeDeposit, "salary", TransactionTypeDeposit},
		{"plain withdrawal untouched", TransactionTypeWithdrawal, "ATM", TransactionTypeWithdrawal},
		{"withdrawal with incoming phrase untouched", TransactionTypeWithdrawal, "transfer from account 1", TransactionTypeWithdrawal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Type: tt.txType, Description: tt.description}
			assert.Equal(t, tt.want, Classify(tx))
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	// Authoritative transfer rows keep their type even when the description
	// still carries a trigger phrase.
	tx := &Transaction{Type: TransactionTypeTransferIn, Description: "transfer received from account 123"}
	first := Classify(tx)
	tx.Type = first
	assert.Equal(t, first, Classify(tx))
	assert.Equal(t, TransactionTypeTransferIn, first)

	out := &Transaction{Type: TransactionTypeTransferOut, Description: "transfer to account 9"}
	assert.Equal(t, TransactionTypeTransferOut, Classify(out))
}

func TestTransactionType_Incoming(t *testing.T) {
	assert.True(t, TransactionTypeDeposit.Incoming())
	assert.True(t, TransactionTypeTransferIn.Incoming())
	assert.False(t, TransactionTypeWithdrawal.Incoming())
	assert.False(t, TransactionTypeTransferOut.Incoming())
}

func TestAccount_IsActive(t *testing.T) {
	a := &Account{Status: AccountStatusActive}
	assert.True(t, a.IsActive())
	a.Status = AccountStatusInactive
	assert.False(t, a.IsActive())
}
