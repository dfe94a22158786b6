package errors

import "net/http"

var (
	ErrUsernameTaken = &DomainError{
		Code:    "USERNAME_TAKEN",
		Message: "username is already taken",
		Status:  http.StatusConflict,
	}
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid username or password",
		Status:  http.StatusUnauthorized,
	}
	ErrInvalidToken = &DomainError{
		Code:    "INVALID_TOKEN",
		Message: "invalid token",
		Status:  http.StatusUnauthorized,
	}
)
