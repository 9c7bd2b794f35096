package service

import (
	"context"
	"fmt"
	"time"

	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"
	"mybank-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService. Every mutation runs in a
// single database transaction with the account row locked for the duration.
type LedgerServiceImpl struct {
	transactor  ports.DBTransactor
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	log         zerolog.Logger
}

func NewLedgerService(
	transactor ports.DBTransactor,
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		transactor:  transactor,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		log:         log,
	}
}

// Deposit credits an owned, active account.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, req ports.LedgerRequest) (*domain.Transaction, error) {
	return s.apply(ctx, req, domain.TransactionTypeDeposit)
}

// Withdraw debits an owned, active account. The balance never goes negative.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, req ports.LedgerRequest) (*domain.Transaction, error) {
	return s.apply(ctx, req, domain.TransactionTypeWithdrawal)
}

func (s *LedgerServiceImpl) apply(ctx context.Context, req ports.LedgerRequest, txType domain.TransactionType) (*domain.Transaction, error) {
	if !domain.ValidOperationAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	amount := domain.RoundAmount(req.Amount)

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	account, err := s.accountRepo.GetByIDForUpdate(ctx, tx, req.AccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil || account.UserID != req.UserID {
		return nil, apperror.ErrAccountNotFound()
	}
	if !account.IsActive() {
		return nil, apperror.ErrAccountInactive()
	}

	newBalance := account.Balance.Add(amount)
	if txType == domain.TransactionTypeWithdrawal {
		newBalance = account.Balance.Sub(amount)
		if newBalance.IsNegative() {
			return nil, apperror.ErrInsufficientFunds()
		}
	}
	newBalance = domain.RoundAmount(newBalance)

	entry := &domain.Transaction{
		AccountID:    account.ID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: newBalance,
		Description:  req.Description,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, tx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record transaction: %w", err))
	}
	if err := s.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit transaction: %w", err))
	}

	s.log.Info().
		Int64("account_id", account.ID).
		Str("type", string(txType)).
		Str("amount", amount.String()).
		Str("balance_after", newBalance.String()).
		Msg("ledger entry recorded")

	return entry, nil
}
