package service

import (
	"context"
	"fmt"
	"time"

	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"
	"mybank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TransferServiceImpl implements ports.TransferService. Both legs of a
// transfer are written in one database transaction with both account rows
// locked in ascending id order, so two concurrent transfers between the same
// pair of accounts never deadlock.
type TransferServiceImpl struct {
	transactor  ports.DBTransactor
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	accounts    ports.AccountService
	legacyTypes bool
	log         zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl. When legacyTypes is
// set the legs are stored as plain deposit/withdrawal rows and the transfer
// semantics live in the description, as older journals did.
func NewTransferService(
	transactor ports.DBTransactor,
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	accounts ports.AccountService,
	legacyTypes bool,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		transactor:  transactor,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		accounts:    accounts,
		legacyTypes: legacyTypes,
		log:         log,
	}
}

// Transfer moves funds between two accounts. Validation happens in a fixed
// order: amount, source ownership, destination resolution, distinct accounts,
// sufficient funds.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	if !domain.ValidOperationAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	amount := domain.RoundAmount(req.Amount)

	source, err := s.accountRepo.GetOwned(ctx, req.SourceAccountID, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get source account: %w", err))
	}
	if source == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	dest, err := s.accounts.Resolve(ctx, req.DestIdentifier)
	if err != nil {
		return nil, err
	}
	if dest.ID == source.ID {
		return nil, apperror.ErrSameAccount()
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	// Lock both rows in ascending id order regardless of direction.
	firstID, secondID := source.ID, dest.ID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}
	first, err := s.accountRepo.GetByIDForUpdate(ctx, tx, firstID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	second, err := s.accountRepo.GetByIDForUpdate(ctx, tx, secondID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if first == nil || second == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	source, dest = first, second
	if source.ID != req.SourceAccountID {
		source, dest = second, first
	}
	if !source.IsActive() || !dest.IsActive() {
		return nil, apperror.ErrAccountInactive()
	}

	newSourceBalance := source.Balance.Sub(amount)
	if newSourceBalance.IsNegative() {
		return nil, apperror.ErrInsufficientFunds()
	}
	newSourceBalance = domain.RoundAmount(newSourceBalance)
	newDestBalance := domain.RoundAmount(dest.Balance.Add(amount))

	transferID := uuid.New()
	now := time.Now().UTC()

	outType, inType := domain.TransactionTypeTransferOut, domain.TransactionTypeTransferIn
	if s.legacyTypes {
		outType, inType = domain.TransactionTypeWithdrawal, domain.TransactionTypeDeposit
	}

	outLeg := &domain.Transaction{
		AccountID:    source.ID,
		Type:         outType,
		Amount:       amount,
		BalanceAfter: newSourceBalance,
		Description:  legDescription("Transfer to account "+dest.AccountNumber, req.Description),
		TransferID:   &transferID,
		CreatedAt:    now,
	}
	inLeg := &domain.Transaction{
		AccountID:    dest.ID,
		Type:         inType,
		Amount:       amount,
		BalanceAfter: newDestBalance,
		Description:  legDescription("Transfer from account "+source.AccountNumber, req.Description),
		TransferID:   &transferID,
		CreatedAt:    now,
	}

	if err := s.txRepo.Create(ctx, tx, outLeg); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record outgoing leg: %w", err))
	}
	if err := s.txRepo.Create(ctx, tx, inLeg); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record incoming leg: %w", err))
	}
	if err := s.accountRepo.UpdateBalance(ctx, tx, source.ID, newSourceBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update source balance: %w", err))
	}
	if err := s.accountRepo.UpdateBalance(ctx, tx, dest.ID, newDestBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update destination balance: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit transaction: %w", err))
	}

	s.log.Info().
		Str("transfer_id", transferID.String()).
		Int64("from_account", source.ID).
		Int64("to_account", dest.ID).
		Str("amount", amount.String()).
		Msg("transfer completed")

	return &ports.TransferResult{
		TransferID:       transferID,
		SourceAccountID:  source.ID,
		DestAccountID:    dest.ID,
		Amount:           amount,
		NewSourceBalance: newSourceBalance,
		NewDestBalance:   newDestBalance,
	}, nil
}

func legDescription(base, custom string) string {
	if custom == "" {
		return base
	}
	return base + ": " + custom
}
