package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication (AUTH) ----

func ErrMissingToken() *AppError {
	return New("AUTH_001", "Missing authentication token", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidCredentials() *AppError {
	return New("AUTH_003", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_004", "Email is already registered", http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrTooManyAttempts() *AppError {
	return New("RATE_001", "Too many failed attempts, retry later", http.StatusTooManyRequests)
}

// ---- Validation (VAL) ----

func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- Accounts (ACCT) ----

func ErrAccountNotFound() *AppError {
	return New("ACCT_001", "Account not found", http.StatusNotFound)
}

func ErrNotFound(entity string) *AppError {
	return New("ACCT_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrDuplicateAccountType(t string) *AppError {
	return New("ACCT_003", fmt.Sprintf("An account of type %s already exists", t), http.StatusBadRequest)
}

// ---- Ledger (LEDGER) ----

func ErrInvalidAmount() *AppError {
	return New("LEDGER_001", "Amount must be positive and at most 50000.00", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New("LEDGER_002", "Insufficient balance", http.StatusBadRequest)
}

func ErrSameAccount() *AppError {
	return New("LEDGER_003", "Source and destination account are the same", http.StatusBadRequest)
}

func ErrAccountInactive() *AppError {
	return New("LEDGER_004", "Account is not active", http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps a store or infrastructure failure. The client receives
// a generic message; the wrapped cause stays in the logs.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
