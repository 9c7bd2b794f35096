package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a bank account.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t AccountType) bool {
	return t == AccountTypeChecking || t == AccountTypeSavings
}

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Account is a customer bank account. Its balance is mutated only by the
// ledger and transfer services and always equals the BalanceAfter of the
// most recently committed transaction on the account.
type Account struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"account_number"`
	Type          AccountType     `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	UserID        int64           `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsActive returns true if the account accepts operations.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// MarshalJSON renders the balance with exactly two fraction digits.
// decimal.Decimal's own marshaler trims trailing zeros, which would turn
// 499.50 into "499.5" on the wire.
func (a Account) MarshalJSON() ([]byte, error) {
	type alias Account
	return json.Marshal(struct {
		alias
		Balance string `json:"balance"`
	}{alias(a), a.Balance.StringFixed(2)})
}

// AccountStats holds per-account aggregates shown on the account detail view.
type AccountStats struct {
	TransactionCount    int64           `json:"transaction_count"`
	LastTransactionAt   *time.Time      `json:"last_transaction_at,omitempty"`
	MonthlyIncome       decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses     decimal.Decimal `json:"monthly_expenses"`
	MonthlyTransactions int64           `json:"monthly_transactions"`
}

// MarshalJSON renders the monetary aggregates with two fraction digits.
func (s AccountStats) MarshalJSON() ([]byte, error) {
	type alias AccountStats
	return json.Marshal(struct {
		alias
		MonthlyIncome   string `json:"monthly_income"`
		MonthlyExpenses string `json:"monthly_expenses"`
	}{alias(s), s.MonthlyIncome.StringFixed(2), s.MonthlyExpenses.StringFixed(2)})
}
