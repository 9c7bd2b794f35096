package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement on an account.
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "deposit"
	TransactionTypeWithdrawal  TransactionType = "withdrawal"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal,
		TransactionTypeTransferIn, TransactionTypeTransferOut:
		return true
	}
	return false
}

// Incoming returns true for types that increase the balance.
func (t TransactionType) Incoming() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeTransferIn
}

// Transaction is one immutable entry of an account's journal. Rows are only
// ever inserted; BalanceAfter snapshots the account balance at commit time.
// TransferID correlates the two legs of a transfer and is nil for single-leg
// operations.
type Transaction struct {
	ID           int64           `json:"id"`
	AccountID    int64           `json:"account_id"`
	Type         TransactionType `json:"transaction_type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description"`
	TransferID   *uuid.UUID      `json:"transfer_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Trigger phrases for read-time reclassification of legacy transfer legs.
// Older data persisted transfer legs as plain deposit/withdrawal rows and
// encoded the transfer direction only in the description.
var (
	transferInPhrases  = []string{"transferred from", "transfer from", "from account "}
	transferOutPhrases = []string{"transferred to", "transfer to", "to account "}
)

// Classify returns the effective type of a transaction as reported in
// history listings. A deposit whose description marks it as a received
// transfer reads as transfer_in, symmetrically for withdrawals. Rows that
// already carry an authoritative transfer type, and rows matching no phrase,
// keep their persisted type, so classification is idempotent.
func Classify(t *Transaction) TransactionType {
	desc := strings.ToLower(t.Description)
	switch t.Type {
	case TransactionTypeDeposit:
		if containsAny(desc, transferInPhrases) {
			return TransactionTypeTransferIn
		}
	case TransactionTypeWithdrawal:
		if containsAny(desc, transferOutPhrases) {
			return TransactionTypeTransferOut
		}
	}
	return t.Type
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
