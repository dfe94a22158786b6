package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// RechargeResult is the outcome of a successful recharge
type RechargeResult struct {
	Balance  decimal.Decimal `json:"balance"`
	Cashback decimal.Decimal `json:"cashback"`
}

// WalletConfig holds configuration for wallet operations
type WalletConfig struct {
	// NotificationTimeout bounds each hand-off to the notification publisher.
	NotificationTimeout time.Duration
	// Now is the wall clock used to stamp ledger entries.
	Now func() time.Time
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	// Operation metrics
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)

	// Cache metrics
	RecordCacheHit(key string)
	RecordCacheMiss(key string)

	// Error metrics
	RecordError(operation, errType string)

	// Transaction metrics
	RecordTransaction(kind string, amount float64)
	RecordCashback(amount float64)
}
