package dto

import (
	"time"

	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
)

// RegisterRequest is the request body for customer registration.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email,max=254"`
	Password  string  `json:"password" binding:"required,min=8,max=128"`
	FirstName string  `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string  `json:"last_name" binding:"required,min=1,max=100"`
	Phone     *string `json:"phone,omitempty" binding:"omitempty,max=20"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the response body for register and login.
type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"` // Unix timestamp
}

// OpenAccountRequest is the request body for opening an account.
type OpenAccountRequest struct {
	Type string `json:"type" binding:"required,oneof=checking savings"`
}

// AccountDetailResponse is the account plus its journal aggregates.
type AccountDetailResponse struct {
	Account *domain.Account      `json:"account"`
	Stats   *domain.AccountStats `json:"stats"`
}

// LedgerRequest is the request body for deposits and withdrawals.
type LedgerRequest struct {
	AccountID   int64           `json:"account_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
}

// TransferRequest is the request body for transfers. ToAccount takes an
// account id, an account number, or an IBAN-like string.
type TransferRequest struct {
	FromAccountID int64           `json:"from_account_id" binding:"required"`
	ToAccount     string          `json:"to_account" binding:"required,max=64"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"max=255"`
}

// HistoryQuery binds the history filter query parameters.
type HistoryQuery struct {
	AccountID *int64     `form:"account_id"`
	Type      *string    `form:"type" binding:"omitempty,oneof=deposit withdrawal transfer_in transfer_out"`
	DateFrom  *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to" time_format:"2006-01-02"`
	Limit     int        `form:"limit" binding:"omitempty,min=1,max=500"`
}

// TransactionResponse is a journal row as reported to callers. Type carries
// the classified type.
type TransactionResponse struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"account_id"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	BalanceAfter string    `json:"balance_after"`
	Description  string    `json:"description"`
	TransferID   *string   `json:"transfer_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToTransactionResponse maps a journal row, reporting the given effective type.
func ToTransactionResponse(t *domain.Transaction, effective domain.TransactionType) TransactionResponse {
	resp := TransactionResponse{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Type:         string(effective),
		Amount:       t.Amount.StringFixed(2),
		BalanceAfter: t.BalanceAfter.StringFixed(2),
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
	}
	if t.TransferID != nil {
		id := t.TransferID.String()
		resp.TransferID = &id
	}
	return resp
}

// TransferResponse reports both legs' outcome of a completed transfer.
type TransferResponse struct {
	TransferID     string `json:"transfer_id"`
	FromAccount    int64  `json:"from_account"`
	ToAccount      int64  `json:"to_account"`
	Amount         string `json:"amount"`
	NewFromBalance string `json:"new_from_balance"`
	NewToBalance   string `json:"new_to_balance"`
}

// ToTransferResponse maps a transfer result.
func ToTransferResponse(r *ports.TransferResult) TransferResponse {
	return TransferResponse{
		TransferID:     r.TransferID.String(),
		FromAccount:    r.SourceAccountID,
		ToAccount:      r.DestAccountID,
		Amount:         r.Amount.StringFixed(2),
		NewFromBalance: r.NewSourceBalance.StringFixed(2),
		NewToBalance:   r.NewDestBalance.StringFixed(2),
	}
}
