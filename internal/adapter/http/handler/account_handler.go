package handler

import (
	"strconv"

	"mybank-ledger/internal/adapter/http/dto"
	"mybank-ledger/internal/adapter/http/middleware"
	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"
	"mybank-ledger/pkg/apperror"
	"mybank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles account endpoints.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// List handles GET /api/v1/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	accounts, err := h.accountSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, accounts)
}

// Open handles POST /api/v1/accounts.
func (h *AccountHandler) Open(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	account, err := h.accountSvc.Open(c.Request.Context(), userID, domain.AccountType(req.Type))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, account)
}

// Get handles GET /api/v1/accounts/:id: account detail plus journal
// aggregates. A foreign or unknown account answers 404.
func (h *AccountHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	account, err := h.accountSvc.GetOwned(c.Request.Context(), accountID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, err := h.accountSvc.GetStats(c.Request.Context(), accountID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AccountDetailResponse{
		Account: account,
		Stats:   stats,
	})
}
