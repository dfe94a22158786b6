package repositories

import (
	"context"

	"gorm.io/gorm"
)

type store struct {
	db           *gorm.DB
	accounts     AccountRepository
	transactions TransactionRepository
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &store{
		db:           db,
		accounts:     NewAccountRepository(db),
		transactions: NewTransactionRepository(db),
	}
}

func (s *store) Accounts() AccountRepository         { return s.accounts }
func (s *store) Transactions() TransactionRepository { return s.transactions }

func (s *store) ExecuteInTransaction(ctx context.Context, fn func(Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return translateDBError(err)
}
