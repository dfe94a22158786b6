package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tuplepay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.Balance.IsNegative() || models.NormalizeUsername(account.Username) == "" {
		return ErrInvalidAccountData
	}

	if _, err := r.GetByUsername(ctx, account.Username); err == nil {
		return ErrDuplicateUsername
	} else if !errors.Is(err, ErrAccountNotFound) {
		return err
	}

	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetForUpdate(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account: %w", translateDBError(err))
	}
	return &account, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("username_key = ?", models.NormalizeUsername(username)).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) CompareAndSwap(ctx context.Context, account *models.Account, expectedVersion int64) error {
	if account.Balance.IsNegative() {
		return fmt.Errorf("%w: %v", ErrInvalidAccountData, models.ErrNegativeBalance)
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND version = ?", account.ID, expectedVersion).
		Updates(map[string]interface{}{
			"balance":    account.Balance,
			"version":    gorm.Expr("version + ?", 1),
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", translateDBError(result.Error))
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", account.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if count == 0 {
			return ErrAccountNotFound
		}
		return ErrVersionConflict
	}

	account.Version = expectedVersion + 1
	account.UpdatedAt = now
	return nil
}
