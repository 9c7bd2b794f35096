package postgres

import (
	"context"
	"fmt"
	"strings"

	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. The journal is
// append-only: there is no update or delete path.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a journal row within a database transaction and fills in
// the generated id.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (account_id, transaction_type, amount, balance_after, description, transfer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := tx.QueryRow(ctx, query,
		t.AccountID, t.Type, t.Amount, t.BalanceAfter,
		t.Description, t.TransferID, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List fetches journal rows for the user's accounts, newest first. Ownership
// is enforced by joining through accounts; the effective-type filter is
// applied later by the history service.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argIdx))
	args = append(args, params.UserID)
	argIdx++

	if params.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("t.account_id = $%d", argIdx))
		args = append(args, *params.AccountID)
		argIdx++
	}
	if params.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("t.created_at >= $%d", argIdx))
		args = append(args, *params.DateFrom)
		argIdx++
	}
	if params.DateTo != nil {
		// DateTo arrives as a date at midnight; rows written any time on
		// that calendar day are still in range.
		conditions = append(conditions, fmt.Sprintf("t.created_at < $%d", argIdx))
		args = append(args, params.DateTo.AddDate(0, 0, 1))
		argIdx++
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`SELECT t.id, t.account_id, t.transaction_type, t.amount, t.balance_after,
		t.description, t.transfer_id, t.created_at
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE %s ORDER BY t.created_at DESC LIMIT $%d`,
		strings.Join(conditions, " AND "), argIdx)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.BalanceAfter,
			&t.Description, &t.TransferID, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// GetAccountStats retrieves journal aggregates for the account detail view.
func (r *TransactionRepo) GetAccountStats(ctx context.Context, accountID int64) (*domain.AccountStats, error) {
	query := `SELECT
		COUNT(*) AS total,
		MAX(created_at) AS last_at,
		COALESCE(SUM(amount) FILTER (WHERE transaction_type IN ('deposit', 'transfer_in')
			AND created_at >= date_trunc('month', now())), 0) AS monthly_income,
		COALESCE(SUM(amount) FILTER (WHERE transaction_type IN ('withdrawal', 'transfer_out')
			AND created_at >= date_trunc('month', now())), 0) AS monthly_expenses,
		COUNT(*) FILTER (WHERE created_at >= date_trunc('month', now())) AS monthly_count
		FROM transactions WHERE account_id = $1`

	stats := &domain.AccountStats{}
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&stats.TransactionCount, &stats.LastTransactionAt,
		&stats.MonthlyIncome, &stats.MonthlyExpenses, &stats.MonthlyTransactions,
	)
	if err != nil {
		return nil, fmt.Errorf("get account stats: %w", err)
	}
	return stats, nil
}
