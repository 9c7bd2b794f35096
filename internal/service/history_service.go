package service

import (
	"context"
	"fmt"

	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"
	"mybank-ledger/pkg/apperror"
)

// HistoryServiceImpl implements ports.HistoryService. Each row is classified
// from its description before filtering, so legacy journals written as plain
// deposit/withdrawal rows still report transfer legs correctly.
type HistoryServiceImpl struct {
	txRepo ports.TransactionRepository
}

func NewHistoryService(txRepo ports.TransactionRepository) *HistoryServiceImpl {
	return &HistoryServiceImpl{txRepo: txRepo}
}

// ListTransactions returns the newest-first journal of the user's accounts.
// The type filter applies to the classified type, not the stored one.
func (s *HistoryServiceImpl) ListTransactions(ctx context.Context, params ports.HistoryParams) ([]ports.HistoryEntry, error) {
	if params.DateFrom != nil && params.DateTo != nil && params.DateTo.Before(*params.DateFrom) {
		return nil, apperror.Validation("date_to precedes date_from")
	}
	if params.Type != nil && !domain.ValidTransactionType(*params.Type) {
		return nil, apperror.Validation("invalid transaction type")
	}

	rows, err := s.txRepo.List(ctx, ports.TransactionListParams{
		UserID:    params.UserID,
		AccountID: params.AccountID,
		DateFrom:  params.DateFrom,
		DateTo:    params.DateTo,
		Limit:     params.Limit,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}

	entries := make([]ports.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		effective := domain.Classify(&row)
		if params.Type != nil && effective != *params.Type {
			continue
		}
		entries = append(entries, ports.HistoryEntry{
			Transaction:   row,
			EffectiveType: effective,
		})
	}
	return entries, nil
}
