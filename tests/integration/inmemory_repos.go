package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[int64]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("email already exists")
		}
	}
	r.nextID++
	u.ID = r.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// --- In-Memory Account Repo ---

// accountRec pairs an account with its row lock. GetByIDForUpdate takes the
// lock and hands its release to the enclosing memTx, mirroring
// SELECT ... FOR UPDATE semantics.
type accountRec struct {
	mu      sync.Mutex
	account domain.Account
}

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]*accountRec
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[int64]*accountRec)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.accounts[a.ID] = &accountRec{account: *a}
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := rec.account
	return &copied, nil
}

func (r *inMemoryAccountRepo) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.accounts {
		if rec.account.AccountNumber == accountNumber {
			copied := rec.account
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) GetOwned(ctx context.Context, id, userID int64) (*domain.Account, error) {
	account, err := r.GetByID(ctx, id)
	if err != nil || account == nil || account.UserID != userID {
		return nil, err
	}
	return account, nil
}

func (r *inMemoryAccountRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Account
	for _, rec := range r.accounts {
		if rec.account.UserID == userID {
			result = append(result, rec.account)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *inMemoryAccountRepo) ExistsByUserAndType(ctx context.Context, userID int64, accountType domain.AccountType) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.accounts {
		if rec.account.UserID == userID && rec.account.Type == accountType {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryAccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Account, error) {
	r.mu.RLock()
	rec, ok := r.accounts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	mtx, ok := tx.(*memTx)
	if !ok {
		return nil, fmt.Errorf("row lock requires a memTx")
	}
	rec.mu.Lock()
	mtx.onRelease(rec.mu.Unlock)

	r.mu.RLock()
	copied := rec.account
	r.mu.RUnlock()
	return &copied, nil
}

func (r *inMemoryAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, accountID int64, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.accounts[accountID]
	if !ok {
		return fmt.Errorf("account not found")
	}
	rec.account.Balance = balance
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	nextID       int64
	transactions []domain.Transaction
	accounts     *inMemoryAccountRepo
}

func newInMemoryTransactionRepo(accounts *inMemoryAccountRepo) *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{accounts: accounts}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Transaction
	for _, t := range r.transactions {
		owner, err := r.accounts.GetByID(ctx, t.AccountID)
		if err != nil || owner == nil || owner.UserID != params.UserID {
			continue
		}
		if params.AccountID != nil && t.AccountID != *params.AccountID {
			continue
		}
		if params.DateFrom != nil && t.CreatedAt.Before(*params.DateFrom) {
			continue
		}
		if params.DateTo != nil && !t.CreatedAt.Before(params.DateTo.AddDate(0, 0, 1)) {
			continue
		}
		result = append(result, t)
	}

	// Newest first, id as tiebreak for rows written in the same instant.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *inMemoryTransactionRepo) GetAccountStats(ctx context.Context, accountID int64) (*domain.AccountStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.AccountStats{
		MonthlyIncome:   decimal.Zero,
		MonthlyExpenses: decimal.Zero,
	}
	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.UTC)

	for i := range r.transactions {
		t := r.transactions[i]
		if t.AccountID != accountID {
			continue
		}
		stats.TransactionCount++
		if stats.LastTransactionAt == nil || t.CreatedAt.After(*stats.LastTransactionAt) {
			created := t.CreatedAt
			stats.LastTransactionAt = &created
		}
		if t.CreatedAt.Before(monthStart) {
			continue
		}
		stats.MonthlyTransactions++
		if t.Type.Incoming() {
			stats.MonthlyIncome = stats.MonthlyIncome.Add(t.Amount)
		} else {
			stats.MonthlyExpenses = stats.MonthlyExpenses.Add(t.Amount)
		}
	}
	return stats, nil
}

// --- In-Memory Transactor ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{}, nil
}

// memTx implements pgx.Tx over in-memory state. Row locks taken through
// GetByIDForUpdate are released exactly once, on Commit or Rollback.
type memTx struct {
	mu       sync.Mutex
	done     bool
	releases []func()
}

func (t *memTx) onRelease(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.releases = append(t.releases, fn)
}

func (t *memTx) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	for i := len(t.releases) - 1; i >= 0; i-- {
		t.releases[i]()
	}
}

func (t *memTx) Commit(ctx context.Context) error   { t.finish(); return nil }
func (t *memTx) Rollback(ctx context.Context) error { t.finish(); return nil }

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }
