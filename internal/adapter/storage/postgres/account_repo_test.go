package postgres

import (
	"context"
	"testing"
	"time"

	"mybank-ledger/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(userID int64) *domain.Account {
	return &domain.Account{
		ID:            1,
		AccountNumber: "123456789012",
		Type:          domain.AccountTypeChecking,
		Balance:       decimal.RequireFromString("100.00"),
		Status:        domain.AccountStatusActive,
		UserID:        userID,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func accountColumnNames() []string {
	return []string{"id", "account_number", "account_type", "balance", "status", "user_id", "created_at"}
}

func accountRow(a *domain.Account) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumnNames()).AddRow(
		a.ID, a.AccountNumber, a.Type, a.Balance, a.Status, a.UserID, a.CreatedAt,
	)
}

func TestAccountRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(7)
	a.ID = 0

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(a.AccountNumber, a.Type, a.Balance, a.Status, a.UserID, a.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	err = repo.Create(context.Background(), a)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(7)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id").
		WithArgs(a.ID).
		WillReturnRows(accountRow(a))

	result, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.AccountNumber, result.AccountNumber)
	assert.True(t, a.Balance.Equal(result.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id").
		WithArgs(int64(999)).
		WillReturnRows(pgxmock.NewRows(accountColumnNames()))

	result, err := repo.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, result, "missing row maps to nil, not error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(7)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE account_number").
		WithArgs(a.AccountNumber).
		WillReturnRows(accountRow(a))

	result, err := repo.GetByNumber(context.Background(), a.AccountNumber)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetOwned_ForeignAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id .+ AND user_id").
		WithArgs(int64(1), int64(99)).
		WillReturnRows(pgxmock.NewRows(accountColumnNames()))

	result, err := repo.GetOwned(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(7)
	b := newTestAccount(7)
	b.ID = 2
	b.Type = domain.AccountTypeSavings
	b.AccountNumber = "210987654321"

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE user_id").
		WithArgs(int64(7)).
		WillReturnRows(accountRow(a).AddRow(
			b.ID, b.AccountNumber, b.Type, b.Balance, b.Status, b.UserID, b.CreatedAt,
		))

	result, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, domain.AccountTypeSavings, result[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ExistsByUserAndType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7), domain.AccountTypeSavings).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUserAndType(context.Background(), 7, domain.AccountTypeSavings)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount(7)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id .+ FOR UPDATE").
		WithArgs(a.ID).
		WillReturnRows(accountRow(a))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(ctx, tx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, a.Balance.Equal(result.Balance))

	require.NoError(t, tx.Commit(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	newBalance := decimal.RequireFromString("150.00")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance").
		WithArgs(newBalance, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	err = repo.UpdateBalance(ctx, tx, 1, newBalance)
	assert.NoError(t, err)

	require.NoError(t, tx.Commit(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_UpdateBalance_NoRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance").
		WithArgs(pgxmock.AnyArg(), int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	err = repo.UpdateBalance(ctx, tx, 404, decimal.Zero)
	assert.Error(t, err)

	require.NoError(t, tx.Rollback(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
