package handler

import (
	"context"

	"mybank-ledger/internal/adapter/http/dto"
	"mybank-ledger/internal/adapter/http/middleware"
	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"
	"mybank-ledger/pkg/apperror"
	"mybank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles ledger operations and history.
type TransactionHandler struct {
	ledgerSvc   ports.LedgerService
	transferSvc ports.TransferService
	historySvc  ports.HistoryService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	ledgerSvc ports.LedgerService,
	transferSvc ports.TransferService,
	historySvc ports.HistoryService,
) *TransactionHandler {
	return &TransactionHandler{
		ledgerSvc:   ledgerSvc,
		transferSvc: transferSvc,
		historySvc:  historySvc,
	}
}

// Deposit handles POST /api/v1/transactions/deposit.
func (h *TransactionHandler) Deposit(c *gin.Context) {
	h.applyLedgerOp(c, h.ledgerSvc.Deposit)
}

// Withdraw handles POST /api/v1/transactions/withdrawal.
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	h.applyLedgerOp(c, h.ledgerSvc.Withdraw)
}

func (h *TransactionHandler) applyLedgerOp(
	c *gin.Context,
	op func(ctx context.Context, req ports.LedgerRequest) (*domain.Transaction, error),
) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.LedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	entry, err := op(c.Request.Context(), ports.LedgerRequest{
		UserID:      userID,
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToTransactionResponse(entry, entry.Type))
}

// Transfer handles POST /api/v1/transactions/transfer.
func (h *TransactionHandler) Transfer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.transferSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		UserID:          userID,
		SourceAccountID: req.FromAccountID,
		DestIdentifier:  req.ToAccount,
		Amount:          req.Amount,
		Description:     req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToTransferResponse(result))
}

// List handles GET /api/v1/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var query dto.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	params := ports.HistoryParams{
		UserID:    userID,
		AccountID: query.AccountID,
		DateFrom:  query.DateFrom,
		DateTo:    query.DateTo,
		Limit:     query.Limit,
	}
	if query.Type != nil {
		filter := domain.TransactionType(*query.Type)
		params.Type = &filter
	}

	entries, err := h.historySvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.ToTransactionResponse(&entries[i].Transaction, entries[i].EffectiveType))
	}

	response.OK(c, items)
}
