package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// Transfer engine errors.
var (
	// ErrInvalidAmount indicates a zero or negative amount was supplied for a money movement.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientBalance indicates the source account balance cannot cover the requested amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAccountNotFound indicates a referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrReceiverNotFound indicates an account number could not be resolved to an owner.
	ErrReceiverNotFound = errors.New("receiver account number not found")

	// ErrCommitConflict indicates a concurrent write race persisted across all retry attempts.
	ErrCommitConflict = errors.New("commit conflict after retries")

	// ErrAccountNumberExhausted indicates account number generation gave up after the retry bound.
	ErrAccountNumberExhausted = errors.New("account number space exhausted")
)

// ErrInvalidTransition indicates a loan application was moved out of a terminal state.
var ErrInvalidTransition = errors.New("invalid loan state transition")

// ErrFraudCheckFailed indicates the fraud sentinel could not complete its evaluation.
// Callers treat this as a suspicious verdict (fail-closed).
var ErrFraudCheckFailed = errors.New("fraud check failed")

// ErrTransactionBlocked indicates a transfer was rejected because the fraud
// sentinel flagged it and blocking mode is enabled.
var ErrTransactionBlocked = errors.New("transaction blocked by fraud policy")

// AppError is a structured error carrying an HTTP-ish status code alongside a
// message and an optional wrapped cause. Repositories use it for infrastructure
// failures that have no domain-level sentinel.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping an optional cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewBadRequestError creates an AppError with a 400 status code.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// NewInternalError creates an AppError with a 500 status code.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: err}
}
