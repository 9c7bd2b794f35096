package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"
	"mybank-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// resolverThreshold is the identifier length above which an opaque string is
// treated as an IBAN-like value carrying the account number in its tail.
const resolverThreshold = 10

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	prefix      string
	numberLen   int
	log         zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl. prefix is the bank's
// transfer formatting prefix; numberLen the account-number length extracted
// from IBAN-like identifiers.
func NewAccountService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	prefix string,
	numberLen int,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		prefix:      prefix,
		numberLen:   numberLen,
		log:         log,
	}
}

// Open creates a new account with zero balance and active status. A user
// holds at most one account per type.
func (s *AccountServiceImpl) Open(ctx context.Context, userID int64, accountType domain.AccountType) (*domain.Account, error) {
	if !domain.ValidAccountType(accountType) {
		return nil, apperror.Validation("invalid account type")
	}

	exists, err := s.accountRepo.ExistsByUserAndType(ctx, userID, accountType)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check account type: %w", err))
	}
	if exists {
		return nil, apperror.ErrDuplicateAccountType(string(accountType))
	}

	account := &domain.Account{
		AccountNumber: generateAccountNumber(),
		Type:          accountType,
		Balance:       decimal.Zero,
		Status:        domain.AccountStatusActive,
		UserID:        userID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	s.log.Info().
		Int64("account_id", account.ID).
		Int64("user_id", userID).
		Str("type", string(accountType)).
		Msg("account opened")

	return account, nil
}

// ListByUser returns all accounts of the user.
func (s *AccountServiceImpl) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, nil
}

// GetOwned returns the account only when it belongs to the user; a foreign
// account reads as not found.
func (s *AccountServiceImpl) GetOwned(ctx context.Context, accountID, userID int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetOwned(ctx, accountID, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

// GetStats returns journal aggregates for an owned account.
func (s *AccountServiceImpl) GetStats(ctx context.Context, accountID, userID int64) (*domain.AccountStats, error) {
	if _, err := s.GetOwned(ctx, accountID, userID); err != nil {
		return nil, err
	}

	stats, err := s.txRepo.GetAccountStats(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("account stats: %w", err))
	}
	return stats, nil
}

// Resolve maps a caller-supplied destination identifier to an account.
// The heuristic is preserved as-is for caller compatibility:
//  1. an all-numeric identifier is a primary key;
//  2. an identifier carrying the bank prefix is a prefixed account number;
//  3. an identifier longer than 10 characters carries the account number in
//     its trailing characters;
//  4. anything else does not resolve.
func (s *AccountServiceImpl) Resolve(ctx context.Context, identifier string) (*domain.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperror.ErrAccountNotFound()
	}

	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		return s.found(s.accountRepo.GetByID(ctx, id))
	}

	if strings.Contains(identifier, s.prefix) {
		number := strings.Replace(identifier, s.prefix, "", 1)
		return s.found(s.accountRepo.GetByNumber(ctx, number))
	}

	if len(identifier) > resolverThreshold {
		number := identifier
		if len(number) > s.numberLen {
			number = number[len(number)-s.numberLen:]
		}
		return s.found(s.accountRepo.GetByNumber(ctx, number))
	}

	return nil, apperror.ErrAccountNotFound()
}

func (s *AccountServiceImpl) found(account *domain.Account, err error) (*domain.Account, error) {
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

// generateAccountNumber builds a 12-digit account number from the current
// millisecond timestamp and a random 3-digit pad.
func generateAccountNumber() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ts) > 9 {
		ts = ts[len(ts)-9:]
	}
	return fmt.Sprintf("%s%03d", ts, rand.Intn(1000))
}
