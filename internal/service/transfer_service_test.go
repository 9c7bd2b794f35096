package service

import (
	"context"
	"testing"

	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"
	"mybank-ledger/internal/core/ports/mocks"
	"mybank-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type transferTestDeps struct {
	svc         *TransferServiceImpl
	accountRepo *mocks.MockAccountRepository
	txRepo      *mocks.MockTransactionRepository
	accounts    *mocks.MockAccountService
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupTransferService(t *testing.T, legacyTypes bool) *transferTestDeps {
	ctrl := gomock.NewController(t)
	d := &transferTestDeps{
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		accounts:    mocks.NewMockAccountService(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewTransferService(
		d.transactor, d.accountRepo, d.txRepo, d.accounts, legacyTypes, zerolog.Nop(),
	)
	return d
}

func TestTransferService_Transfer_Success(t *testing.T) {
	d := setupTransferService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	source := activeAccount(5, 7, "200.00")
	dest := activeAccount(2, 8, "50.00")
	dest.AccountNumber = "999888777666"

	d.accountRepo.EXPECT().GetOwned(ctx, int64(5), int64(7)).Return(source, nil)
	d.accounts.EXPECT().Resolve(ctx, "999888777666").Return(dest, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)

	// Rows lock in ascending id order; dest id 2 goes first.
	gomock.InOrder(
		d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(2)).Return(dest, nil),
		d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(5)).Return(source, nil),
	)

	var legs []*domain.Transaction
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, entry *domain.Transaction) error {
			legs = append(legs, entry)
			return nil
		}).Times(2)
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, int64(5), decimalEq("120.00")).Return(nil)
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, int64(2), decimalEq("130.00")).Return(nil)

	result, err := d.svc.Transfer(ctx, ports.TransferRequest{
		UserID:          7,
		SourceAccountID: 5,
		DestIdentifier:  "999888777666",
		Amount:          decimal.RequireFromString("80.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(5), result.SourceAccountID)
	assert.Equal(t, int64(2), result.DestAccountID)
	assert.True(t, result.NewSourceBalance.Equal(decimal.RequireFromString("120.00")))
	assert.True(t, result.NewDestBalance.Equal(decimal.RequireFromString("130.00")))

	require.Len(t, legs, 2)
	out, in := legs[0], legs[1]
	assert.Equal(t, domain.TransactionTypeTransferOut, out.Type)
	assert.Equal(t, domain.TransactionTypeTransferIn, in.Type)
	assert.Equal(t, int64(5), out.AccountID)
	assert.Equal(t, int64(2), in.AccountID)
	require.NotNil(t, out.TransferID)
	require.NotNil(t, in.TransferID)
	assert.Equal(t, *out.TransferID, *in.TransferID)
	assert.Equal(t, result.TransferID, *out.TransferID)

	// Double-entry: amounts match, balance deltas cancel.
	assert.True(t, out.Amount.Equal(in.Amount))
}

func TestTransferService_Transfer_LegacyTypes(t *testing.T) {
	d := setupTransferService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	source := activeAccount(1, 7, "100.00")
	dest := activeAccount(2, 8, "0")
	dest.AccountNumber = "999888777666"

	d.accountRepo.EXPECT().GetOwned(ctx, int64(1), int64(7)).Return(source, nil)
	d.accounts.EXPECT().Resolve(ctx, "2").Return(dest, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(source, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(2)).Return(dest, nil)

	var legs []*domain.Transaction
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, entry *domain.Transaction) error {
			legs = append(legs, entry)
			return nil
		}).Times(2)
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, int64(1), gomock.Any()).Return(nil)
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, int64(2), gomock.Any()).Return(nil)

	_, err := d.svc.Transfer(ctx, ports.TransferRequest{
		UserID:          7,
		SourceAccountID: 1,
		DestIdentifier:  "2",
		Amount:          decimal.RequireFromString("25.00"),
	})
	require.NoError(t, err)

	// Legacy journals store plain types; the description still classifies.
	require.Len(t, legs, 2)
	assert.Equal(t, domain.TransactionTypeWithdrawal, legs[0].Type)
	assert.Equal(t, domain.TransactionTypeDeposit, legs[1].Type)
	assert.Equal(t, domain.TransactionTypeTransferOut, domain.Classify(legs[0]))
	assert.Equal(t, domain.TransactionTypeTransferIn, domain.Classify(legs[1]))
}

func TestTransferService_Transfer_InvalidAmountFirst(t *testing.T) {
	d := setupTransferService(t, false)
	defer d.ctrl.Finish()

	// No repository calls expected: amount validation runs before any lookup.
	result, err := d.svc.Transfer(context.Background(), ports.TransferRequest{
		UserID:          7,
		SourceAccountID: 5,
		DestIdentifier:  "2",
		Amount:          decimal.RequireFromString("-5"),
	})
	assert.Nil(t, result)
	assertAppError(t, err, "LEDGER_001")
}

func TestTransferService_Transfer_SourceNotOwned(t *testing.T) {
	d := setupTransferService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.accountRepo.EXPECT().GetOwned(ctx, int64(5), int64(7)).Return(nil, nil)

	result, err := d.svc.Transfer(ctx, ports.TransferRequest{
		UserID:          7,
		SourceAccountID: 5,
		DestIdentifier:  "2",
		Amount:          decimal.RequireFromString("10"),
	})
	assert.Nil(t, result)
	assertAppError(t, err, "ACCT_001")
}

func TestTransferService_Transfer_DestinationUnresolved(t *testing.T) {
	d := setupTransferService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.accountRepo.EXPECT().GetOwned(ctx, int64(5), int64(7)).Return(activeAccount(5, 7, "100"), nil)
	d.accounts.EXPECT().Resolve(ctx, "bogus").Return(nil, apperror.ErrAccountNotFound())

	result, err := d.svc.Transfer(ctx, ports.TransferRequest{
		UserID:          7,
		SourceAccountID: 5,
		DestIdentifier:  "bogus",
		Amount:          decimal.RequireFromString("10"),
	})
	assert.Nil(t, result)
	assertAppError(t, err, "ACCT_001")
}

func TestTransferService_Transfer_SameAccount(t *testing.T) {
	d := setupTransferService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	source := activeAccount(5, 7, "100")
	d.accountRepo.EXPECT().GetOwned(ctx, int64(5), int64(7)).Return(source, nil)
	d.accounts.EXPECT().Resolve(ctx, "5").Return(source, nil)

	result, err := d.svc.Transfer(ctx, ports.TransferRequest{
		UserID:          7,
		SourceAccountID: 5,
		DestIdentifier:  "5",
		Amount:          decimal.RequireFromString("10"),
	})
	assert.Nil(t, result)
	assertAppError(t, err, "LEDGER_003")
}

func TestTransferService_Transfer_InsufficientFunds(t *testing.T) {
	d := setupTransferService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	source := activeAccount(1, 7, "9.99")
	dest := activeAccount(2, 8, "0")

	d.accountRepo.EXPECT().GetOwned(ctx, int64(1), int64(7)).Return(source, nil)
	d.accounts.EXPECT().Resolve(ctx, "2").Return(dest, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(source, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(2)).Return(dest, nil)

	result, err := d.svc.Transfer(ctx, ports.TransferRequest{
		UserID:          7,
		SourceAccountID: 1,
		DestIdentifier:  "2",
		Amount:          decimal.RequireFromString("10.00"),
	})
	assert.Nil(t, result)
	assertAppError(t, err, "LEDGER_002")
}

func TestTransferService_Transfer_InactiveDestination(t *testing.T) {
	d := setupTransferService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	source := activeAccount(1, 7, "100")
	dest := activeAccount(2, 8, "0")
	dest.Status = domain.AccountStatusInactive

	d.accountRepo.EXPECT().GetOwned(ctx, int64(1), int64(7)).Return(source, nil)
	d.accounts.EXPECT().Resolve(ctx, "2").Return(dest, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(source, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(2)).Return(dest, nil)

	result, err := d.svc.Transfer(ctx, ports.TransferRequest{
		UserID:          7,
		SourceAccountID: 1,
		DestIdentifier:  "2",
		Amount:          decimal.RequireFromString("10"),
	})
	assert.Nil(t, result)
	assertAppError(t, err, "LEDGER_004")
}
