// Package errors defines the domain errors returned by the wallet services
// and the HTTP status each one maps to.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// DomainError is a caller-facing failure with a stable code.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// WithDetail returns a copy of e carrying a more specific message. The copy
// still matches e under errors.Is.
func (e *DomainError) WithDetail(format string, args ...interface{}) error {
	return &detailedError{base: e, message: fmt.Sprintf(format, args...)}
}

type detailedError struct {
	base    *DomainError
	message string
}

func (e *detailedError) Error() string { return e.message }
func (e *detailedError) Unwrap() error { return e.base }

// InternalError wraps an infrastructure failure (database, cache, token
// signing) that the caller cannot act on.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	if e.Op == "" {
		return "internal error: " + e.Err.Error()
	}
	return fmt.Sprintf("internal error during %s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// Internal wraps err as an InternalError. A nil err stays nil.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &InternalError{Op: op, Err: err}
}

// StatusOf returns the HTTP status for err: the DomainError status when err
// carries one, 500 otherwise.
func StatusOf(err error) int {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the stable code carried by err, or "INTERNAL_ERROR".
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL_ERROR"
}

// IsInternal reports whether err is an infrastructure failure.
func IsInternal(err error) bool {
	var ie *InternalError
	return stderrors.As(err, &ie)
}
