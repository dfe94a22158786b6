package repositories

import (
	"context"

	"tuplepay/internal/models"
)

// TransactionRepository is the append-only ledger of account entries.
type TransactionRepository interface {
	Append(ctx context.Context, tx *models.Transaction) error
	FindByID(ctx context.Context, id string) (*models.Transaction, error)

	// FindByAccount returns the entries of one statement, oldest first.
	FindByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
	FindByKind(ctx context.Context, accountID string, kind models.TransactionKind) ([]models.Transaction, error)
}

// Store groups the repositories behind one commit scope.
type Store interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository

	// ExecuteInTransaction runs fn against a store whose writes commit
	// together when fn returns nil and are all discarded otherwise.
	ExecuteInTransaction(ctx context.Context, fn func(Store) error) error
}
