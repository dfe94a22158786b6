package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNegativeBalance   = errors.New("balance cannot go below zero")
)

// Account is a wallet holder. The balance is never negative and Version is
// bumped by every committed write.
type Account struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username     string          `gorm:"not null" json:"username"`
	UsernameKey  string          `gorm:"uniqueIndex;not null" json:"-"`
	Email        string          `json:"email"`
	PasswordHash string          `gorm:"not null" json:"-"`
	Balance      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	Version      int64           `gorm:"not null;default:0" json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewAccount builds an account with a fresh id, zero balance and version 0.
func NewAccount(username, email, passwordHash string) *Account {
	return &Account{
		ID:           uuid.NewString(),
		Username:     username,
		UsernameKey:  NormalizeUsername(username),
		Email:        email,
		PasswordHash: passwordHash,
		Balance:      decimal.Zero,
	}
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.UsernameKey = NormalizeUsername(a.Username)
	return a.Validate()
}

// NormalizeUsername is the case-insensitive lookup key of a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Credit adds a positive amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Debit removes a positive amount, refusing to take the balance below zero.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if a.Balance.LessThan(amount) {
		return ErrNegativeBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Validate checks the stored invariants of the account.
func (a *Account) Validate() error {
	if a.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	if a.UsernameKey == "" {
		return errors.New("username is required")
	}
	return nil
}

// Clone returns a copy that shares no mutable state with a.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}
