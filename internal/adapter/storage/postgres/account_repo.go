package postgres

import (
	"context"
	"errors"
	"fmt"

	"mybank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, account_number, account_type, balance, status, user_id, created_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account and fills in the generated id.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (account_number, account_type, balance, status, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		a.AccountNumber, a.Type, a.Balance, a.Status, a.UserID, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account by primary key (non-locking read).
func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByNumber fetches an account by its opaque account number.
func (r *AccountRepo) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_number = $1`, accountColumns)
	return scanAccount(r.pool.QueryRow(ctx, query, accountNumber))
}

// GetOwned fetches an account only when it belongs to the given user.
// A foreign account is indistinguishable from an absent one.
func (r *AccountRepo) GetOwned(ctx context.Context, id, userID int64) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1 AND user_id = $2`, accountColumns)
	return scanAccount(r.pool.QueryRow(ctx, query, id, userID))
}

// ListByUser fetches all accounts of a user, newest first.
func (r *AccountRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE user_id = $1 ORDER BY created_at DESC`, accountColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a := domain.Account{}
		if err := rows.Scan(&a.ID, &a.AccountNumber, &a.Type, &a.Balance, &a.Status, &a.UserID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// ExistsByUserAndType reports whether the user already holds an account of
// the given type.
func (r *AccountRepo) ExistsByUserAndType(ctx context.Context, userID int64, accountType domain.AccountType) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE user_id = $1 AND account_type = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, accountType).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account type exists: %w", err)
	}
	return exists, nil
}

// GetByIDForUpdate fetches an account with a pessimistic row lock.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1 FOR UPDATE`, accountColumns)
	return scanAccount(tx.QueryRow(ctx, query, id))
}

// UpdateBalance updates an account balance within a transaction.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, accountID int64, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, accountID)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %d", accountID)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(&a.ID, &a.AccountNumber, &a.Type, &a.Balance, &a.Status, &a.UserID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}
