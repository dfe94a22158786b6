package wallet

import (
	"context"

	"tuplepay/internal/models"

	"github.com/shopspring/decimal"
)

// Service defines the wallet ledger operations
type Service interface {
	// Recharge credits amount to the account, then credits any cashback
	// the policy awards.
	Recharge(ctx context.Context, accountID string, amount decimal.Decimal) (*RechargeResult, error)

	// Transfer moves amount between two accounts identified by username and
	// returns the receiver's updated account.
	Transfer(ctx context.Context, fromUsername, toUsername string, amount decimal.Decimal) (*models.Account, error)

	// ViewStatement returns the current state of an account.
	ViewStatement(ctx context.Context, accountID string) (*models.Account, error)
}

// StatementCache keeps read-through copies of accounts.
type StatementCache interface {
	GetAccount(ctx context.Context, accountID string) (*models.Account, bool, error)
	// CacheAccount never replaces a cached copy whose Version is the same
	// or higher.
	CacheAccount(ctx context.Context, account *models.Account) error
	InvalidateAccounts(ctx context.Context, accountIDs ...string) error
}
