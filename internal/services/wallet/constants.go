package wallet

import "time"

// Operation names used in metrics and logs
const (
	OpRecharge      = "recharge"
	OpTransfer      = "transfer"
	OpViewStatement = "view_statement"
)

// Operation results
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// Default configuration values
const (
	DefaultNotificationTimeout = 5 * time.Second
)
