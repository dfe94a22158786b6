package errors

import "net/http"

var (
	ErrAccountNotFound = &DomainError{
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "account not found",
		Status:  http.StatusNotFound,
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient funds",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrSelfTransfer = &DomainError{
		Code:    "SELF_TRANSFER",
		Message: "cannot transfer to the same account",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrConcurrentModification = &DomainError{
		Code:    "CONCURRENT_MODIFICATION",
		Message: "account was modified concurrently, please retry",
		Status:  http.StatusConflict,
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than zero",
		Status:  http.StatusBadRequest,
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
		Status:  http.StatusNotFound,
	}
	ErrForbidden = &DomainError{
		Code:    "FORBIDDEN",
		Message: "access denied",
		Status:  http.StatusForbidden,
	}
)
