/*
Package wallet provides the wallet ledger core.

The wallet service handles every balance-mutating operation:
- Recharge, with a randomized cashback credited on top
- Peer-to-peer transfer between two accounts
- Statement lookup

Usage:

	// Create a new wallet service
	policy, _ := cashback.NewPolicy(cashback.Config{LowerFraction: 0.05, UpperFraction: 0.10}, nil)
	svc := wallet.NewService(store, policy, publisher, cache, wallet.WalletConfig{}, metrics)

	// Recharge an account
	res, err := svc.Recharge(ctx, accountID, decimal.NewFromInt(100))

	// Transfer between two account holders
	receiver, err := svc.Transfer(ctx, "alice", "bob", decimal.NewFromInt(30))

	// Read the current balance
	account, err := svc.ViewStatement(ctx, accountID)

Concurrency:

Accounts carry a version that every committed write bumps. A write only
succeeds if the stored version still equals the version the caller read;
otherwise the operation fails with ErrConcurrentModification and the caller
must resubmit it. There is no internal retry.

Recharge persists its credits and ledger entries in one commit scope, and
so does Transfer: the debit, the credit and the SENT and RECEIVED entries
either all commit or none do.

Error Handling:

The service returns domain errors from the internal/errors package:
- ErrAccountNotFound: unknown account id or username
- ErrInsufficientFunds: sender balance below the transfer amount
- ErrSelfTransfer: sender and receiver are the same holder
- ErrConcurrentModification: the account changed since it was read
- ErrInvalidAmount: amount is not positive
Infrastructure failures are wrapped as *errors.InternalError.

Notifications:

Recharge and transfer notices are handed to a notification.Publisher from a
separate goroutine once the ledger write has committed. Publish failures are
logged and never change the result of the operation.

Metrics:

The service collects metrics for:
- Operation durations and outcomes
- Statement cache hit/miss rates
- Ledger entry volumes by kind
- Cashback awarded
*/
package wallet
