package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// postgres SQLSTATEs raised when concurrent transactions collide.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translateDBError reports a transaction aborted by postgres because of a
// concurrent writer as ErrVersionConflict. Other errors are returned as is.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s", ErrVersionConflict, pgErr.Message)
		}
	}
	return err
}
