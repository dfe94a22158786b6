package wallet

import (
	"errors"

	apperrors "tuplepay/internal/errors"
	"tuplepay/internal/repositories"
)

// translateStoreError maps repository failures onto domain errors. Domain
// errors raised inside a commit scope pass through unchanged.
func translateStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *apperrors.DomainError
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, repositories.ErrAccountNotFound):
		return apperrors.ErrAccountNotFound
	case errors.Is(err, repositories.ErrVersionConflict):
		return apperrors.ErrConcurrentModification
	case apperrors.IsInternal(err):
		return err
	default:
		return apperrors.Internal(op, err)
	}
}

// resultOf classifies err for the operation result metric.
func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, apperrors.ErrConcurrentModification):
		return ResultConflict
	case apperrors.IsInternal(err):
		return ResultError
	default:
		return ResultRejected
	}
}
