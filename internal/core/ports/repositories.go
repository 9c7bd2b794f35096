package ports

import (
	"context"
	"time"

	"mybank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx run inside atomic scopes and take row locks so
// concurrent balance mutations of one account serialize.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	GetOwned(ctx context.Context, id, userID int64) (*domain.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	ExistsByUserAndType(ctx context.Context, userID int64, accountType domain.AccountType) (bool, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, accountID int64, balance decimal.Decimal) error
}

// TransactionRepository defines persistence for the append-only journal.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, error)
	GetAccountStats(ctx context.Context, accountID int64) (*domain.AccountStats, error)
}

// TransactionListParams holds filters for history listing. The Type filter is
// an effective (post-classification) type and is applied by the history
// service, not by the repository.
type TransactionListParams struct {
	UserID    int64
	AccountID *int64
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
