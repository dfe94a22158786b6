package repositories

import (
	"context"
	"errors"

	"tuplepay/internal/models"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrVersionConflict     = errors.New("account version conflict")
	ErrInvalidAccountData  = errors.New("invalid account data")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateTx         = errors.New("transaction already recorded")
)

// AccountRepository defines the account persistence operations
type AccountRepository interface {
	// Create stores a new account. Usernames are unique case-insensitively.
	Create(ctx context.Context, account *models.Account) error

	// GetByID retrieves an account by id
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// GetForUpdate retrieves an account and holds its row lock until the
	// surrounding commit scope ends. Callers locking several accounts must
	// do so in ascending id order.
	GetForUpdate(ctx context.Context, id string) (*models.Account, error)

	// GetByUsername retrieves an account by username, ignoring case
	GetByUsername(ctx context.Context, username string) (*models.Account, error)

	// CompareAndSwap writes account.Balance only if the stored version still
	// equals expectedVersion. On success the stored version and
	// account.Version become expectedVersion+1; otherwise ErrVersionConflict
	// (or ErrAccountNotFound) is returned and nothing changes.
	CompareAndSwap(ctx context.Context, account *models.Account, expectedVersion int64) error
}
