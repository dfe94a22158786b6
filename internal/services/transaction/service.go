// Package transaction is the read side of the ledger: statements, cashback
// history and single entries of one account.
package transaction

import (
	"context"
	"errors"
	"fmt"

	apperrors "tuplepay/internal/errors"
	"tuplepay/internal/models"
	"tuplepay/internal/repositories"
)

type Service interface {
	// ListTransactions returns every ledger entry of the account, oldest first.
	ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error)

	// ListCashbacks returns only the CASHBACK entries of the account.
	ListCashbacks(ctx context.Context, accountID string) ([]models.Transaction, error)

	// GetTransaction returns one entry if it belongs to the account.
	GetTransaction(ctx context.Context, accountID, transactionID string) (*models.Transaction, error)
}

type service struct {
	store repositories.Store
}

func NewService(store repositories.Store) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{store: store}
}

func (s *service) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return nil, err
	}
	txs, err := s.store.Transactions().FindByAccount(ctx, accountID)
	if err != nil {
		return nil, apperrors.Internal("list transactions", err)
	}
	return txs, nil
}

func (s *service) ListCashbacks(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return nil, err
	}
	txs, err := s.store.Transactions().FindByKind(ctx, accountID, models.KindCashback)
	if err != nil {
		return nil, apperrors.Internal("list cashbacks", err)
	}
	return txs, nil
}

func (s *service) GetTransaction(ctx context.Context, accountID, transactionID string) (*models.Transaction, error) {
	tx, err := s.store.Transactions().FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Internal("get transaction", err)
	}
	if tx.AccountID != accountID {
		return nil, apperrors.ErrForbidden.WithDetail("transaction %s belongs to another account", transactionID)
	}
	return tx, nil
}

func (s *service) ensureAccount(ctx context.Context, accountID string) error {
	if _, err := s.store.Accounts().GetByID(ctx, accountID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return apperrors.Internal("read account", fmt.Errorf("account %s: %w", accountID, err))
	}
	return nil
}
