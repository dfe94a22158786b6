package repositories

import (
	"context"
	"errors"
	"fmt"

	"tuplepay/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

func (r *transactionRepository) Append(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	result := r.db.WithContext(ctx).Create(tx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTx
		}
		return fmt.Errorf("failed to create transaction: %w", translateDBError(result.Error))
	}
	return nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) FindByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("timestamp ASC, id ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get account transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) FindByKind(ctx context.Context, accountID string, kind models.TransactionKind) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND kind = ?", accountID, kind).
		Order("timestamp ASC, id ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get %s transactions: %w", kind, err)
	}
	return txs, nil
}
