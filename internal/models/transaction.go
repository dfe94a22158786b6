package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

// Ledger entry kinds
const (
	KindRecharge TransactionKind = "RECHARGE"
	KindSent     TransactionKind = "SENT"
	KindReceived TransactionKind = "RECEIVED"
	KindCashback TransactionKind = "CASHBACK"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindRecharge, KindSent, KindReceived, KindCashback:
		return true
	}
	return false
}

// IsTransfer reports whether k is one half of a peer-to-peer transfer.
func (k TransactionKind) IsTransfer() bool {
	return k == KindSent || k == KindReceived
}

// Transaction is an immutable ledger entry. AccountID is the statement the
// entry belongs to; the counterparty fields are only set for transfers.
type Transaction struct {
	ID               string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	AccountID        string          `gorm:"type:varchar(36);index:idx_tx_account_ts;not null" json:"account_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Kind             TransactionKind `gorm:"type:varchar(16);index;not null" json:"kind"`
	Timestamp        time.Time       `gorm:"index:idx_tx_account_ts;not null" json:"timestamp"`
	CounterpartyID   *string         `gorm:"type:varchar(36)" json:"counterparty_id,omitempty"`
	CounterpartyName *string         `json:"counterparty_name,omitempty"`
	SenderID         *string         `gorm:"type:varchar(36)" json:"sender_id,omitempty"`
	SenderName       *string         `json:"sender_name,omitempty"`
}

// Validate checks amount, kind and the counterparty rules of an entry.
func (t *Transaction) Validate() error {
	if t.AccountID == "" {
		return errors.New("transaction account is required")
	}
	if !t.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("unknown transaction kind %q", t.Kind)
	}
	hasCounterparty := t.CounterpartyID != nil && t.CounterpartyName != nil
	if t.Kind.IsTransfer() && !hasCounterparty {
		return fmt.Errorf("%s transaction requires a counterparty", t.Kind)
	}
	if !t.Kind.IsTransfer() && (t.CounterpartyID != nil || t.CounterpartyName != nil) {
		return fmt.Errorf("%s transaction cannot have a counterparty", t.Kind)
	}
	return nil
}
