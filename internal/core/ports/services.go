package ports

import (
	"context"
	"time"

	"mybank-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles password hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService issues and verifies bearer tokens. Handlers consume the
// verdict; nothing else in the core inspects token internals.
type TokenService interface {
	Generate(userID int64, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed token claims.
type TokenClaims struct {
	UserID int64
	Email  string
}

// LoginLimiter throttles failed authentication per identifier. Check records
// the attempt and fails once the attempt count inside the current window
// exceeds the configured maximum; Reset clears the counter after a
// successful login.
type LoginLimiter interface {
	Check(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

// --- Service Ports (Business Logic) ---

// LedgerService applies single-leg balance mutations.
type LedgerService interface {
	Deposit(ctx context.Context, req LedgerRequest) (*domain.Transaction, error)
	Withdraw(ctx context.Context, req LedgerRequest) (*domain.Transaction, error)
}

// LedgerRequest holds validated input for a single-leg operation.
type LedgerRequest struct {
	UserID      int64
	AccountID   int64
	Amount      decimal.Decimal
	Description string
}

// TransferService orchestrates two-leg atomic transfers.
type TransferService interface {
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// TransferRequest holds validated input for a transfer. DestIdentifier is
// resolved through the account resolver (primary key, prefixed number, or
// IBAN-like string).
type TransferRequest struct {
	UserID          int64
	SourceAccountID int64
	DestIdentifier  string
	Amount          decimal.Decimal
	Description     string
}

// TransferResult reports both post-transfer balances.
type TransferResult struct {
	TransferID       uuid.UUID       `json:"transfer_id"`
	SourceAccountID  int64           `json:"from_account"`
	DestAccountID    int64           `json:"to_account"`
	Amount           decimal.Decimal `json:"amount"`
	NewSourceBalance decimal.Decimal `json:"new_from_balance"`
	NewDestBalance   decimal.Decimal `json:"new_to_balance"`
}

// AccountService manages account lifecycle and identifier resolution.
type AccountService interface {
	Open(ctx context.Context, userID int64, accountType domain.AccountType) (*domain.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	GetOwned(ctx context.Context, accountID, userID int64) (*domain.Account, error)
	GetStats(ctx context.Context, accountID, userID int64) (*domain.AccountStats, error)
	Resolve(ctx context.Context, identifier string) (*domain.Account, error)
}

// HistoryService lists classified transaction history.
type HistoryService interface {
	ListTransactions(ctx context.Context, params HistoryParams) ([]HistoryEntry, error)
}

// HistoryParams extends the repository filters with the effective-type
// filter applied after classification.
type HistoryParams struct {
	UserID    int64
	AccountID *int64
	Type      *domain.TransactionType
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
}

// HistoryEntry is a journal row together with its effective type.
type HistoryEntry struct {
	domain.Transaction
	EffectiveType domain.TransactionType `json:"effective_type"`
}

// AuthService defines registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// RegisterRequest holds input for customer registration.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// AuthResult holds the authenticated user and a fresh token.
type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}
