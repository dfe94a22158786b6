package wallet

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	apperrors "tuplepay/internal/errors"
	"tuplepay/internal/models"
	"tuplepay/internal/repositories"
	"tuplepay/internal/services/cashback"
	"tuplepay/internal/services/notification"

	"github.com/shopspring/decimal"
)

type service struct {
	store     repositories.Store
	policy    *cashback.Policy
	publisher notification.Publisher
	cache     StatementCache
	config    WalletConfig
	metrics   MetricsCollector
	clock     *ledgerClock
}

// NewService creates a new wallet service
func NewService(
	store repositories.Store,
	policy *cashback.Policy,
	publisher notification.Publisher,
	cache StatementCache,
	config WalletConfig,
	metrics MetricsCollector,
) Service {
	if store == nil {
		panic("store is required")
	}
	if policy == nil {
		panic("cashback policy is required")
	}

	// Notifications and caching are optional
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if cache == nil {
		cache = noopStatementCache{}
	}
	if config.NotificationTimeout == 0 {
		config.NotificationTimeout = DefaultNotificationTimeout
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:     store,
		policy:    policy,
		publisher: publisher,
		cache:     cache,
		config:    config,
		metrics:   metrics,
		clock:     newLedgerClock(config.Now),
	}
}

func (s *service) Recharge(ctx context.Context, accountID string, amount decimal.Decimal) (result *RechargeResult, err error) {
	defer s.observe(OpRecharge, time.Now(), &err)

	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	account, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, translateStoreError("read account", err)
	}

	var awarded decimal.Decimal
	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		// The credit is checked against the version read above, so a
		// concurrent writer surfaces here as a conflict.
		if err := s.credit(ctx, tx, account, amount); err != nil {
			return err
		}

		awarded = s.policy.Compute(amount).Awarded
		if awarded.IsPositive() {
			if err := s.credit(ctx, tx, account, awarded); err != nil {
				return err
			}
			if err := s.record(ctx, tx, &models.Transaction{
				AccountID: account.ID,
				Amount:    awarded,
				Kind:      models.KindCashback,
			}); err != nil {
				return err
			}
		}

		return s.record(ctx, tx, &models.Transaction{
			AccountID: account.ID,
			Amount:    amount,
			Kind:      models.KindRecharge,
		})
	})
	if err != nil {
		return nil, translateStoreError("recharge", err)
	}

	s.refresh(ctx, account)
	s.metrics.RecordTransaction(string(models.KindRecharge), amount.InexactFloat64())
	if awarded.IsPositive() {
		s.metrics.RecordTransaction(string(models.KindCashback), awarded.InexactFloat64())
		s.metrics.RecordCashback(awarded.InexactFloat64())
	}

	s.notify(notification.Message{
		Kind:      notification.KindRecharge,
		To:        account.Email,
		Recipient: account.Username,
		Amount:    amount,
		Cashback:  awarded,
	})

	return &RechargeResult{Balance: account.Balance, Cashback: awarded}, nil
}

func (s *service) Transfer(ctx context.Context, fromUsername, toUsername string, amount decimal.Decimal) (receiver *models.Account, err error) {
	defer s.observe(OpTransfer, time.Now(), &err)

	if strings.EqualFold(strings.TrimSpace(fromUsername), strings.TrimSpace(toUsername)) {
		return nil, apperrors.ErrSelfTransfer
	}
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	from, err := s.resolve(ctx, fromUsername)
	if err != nil {
		return nil, err
	}
	to, err := s.resolve(ctx, toUsername)
	if err != nil {
		return nil, err
	}

	var sender *models.Account
	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		locked, err := lockInOrder(ctx, tx, from.ID, to.ID)
		if err != nil {
			return err
		}
		sender, receiver = locked[from.ID], locked[to.ID]

		if sender.Balance.LessThan(amount) {
			return apperrors.ErrInsufficientFunds
		}

		// Writes follow the lock order as well.
		for _, id := range sortedIDs(from.ID, to.ID) {
			if id == sender.ID {
				err = s.debit(ctx, tx, sender, amount)
			} else {
				err = s.credit(ctx, tx, receiver, amount)
			}
			if err != nil {
				return err
			}
		}

		receiverID, receiverName := receiver.ID, receiver.Username
		senderID, senderName := sender.ID, sender.Username
		if err := s.record(ctx, tx, &models.Transaction{
			AccountID:        sender.ID,
			Amount:           amount,
			Kind:             models.KindSent,
			CounterpartyID:   &receiverID,
			CounterpartyName: &receiverName,
			SenderID:         &senderID,
			SenderName:       &senderName,
		}); err != nil {
			return err
		}
		// The RECEIVED entry mirrors the receiver as its own counterparty;
		// the paying side is carried by the sender fields.
		return s.record(ctx, tx, &models.Transaction{
			AccountID:        receiver.ID,
			Amount:           amount,
			Kind:             models.KindReceived,
			CounterpartyID:   &receiverID,
			CounterpartyName: &receiverName,
			SenderID:         &senderID,
			SenderName:       &senderName,
		})
	})
	if err != nil {
		return nil, translateStoreError("transfer", err)
	}

	s.refresh(ctx, sender, receiver)
	s.metrics.RecordTransaction(string(models.KindSent), amount.InexactFloat64())

	s.notify(
		notification.Message{
			Kind:      notification.KindTransferReceived,
			To:        receiver.Email,
			Recipient: receiver.Username,
			Sender:    sender.Username,
			Amount:    amount,
		},
		notification.Message{
			Kind:      notification.KindTransferSent,
			To:        sender.Email,
			Recipient: receiver.Username,
			Sender:    sender.Username,
			Amount:    amount,
		},
	)

	return receiver, nil
}

func (s *service) ViewStatement(ctx context.Context, accountID string) (account *models.Account, err error) {
	defer s.observe(OpViewStatement, time.Now(), &err)

	cached, found, err := s.cache.GetAccount(ctx, accountID)
	if err != nil {
		log.Printf("⚠️ Statement cache lookup failed for %s: %v", accountID, err)
	} else if found {
		s.metrics.RecordCacheHit(accountID)
		return cached, nil
	}
	s.metrics.RecordCacheMiss(accountID)

	account, err = s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, translateStoreError("read account", err)
	}

	if err := s.cache.CacheAccount(ctx, account); err != nil {
		log.Printf("⚠️ Failed to cache statement for %s: %v", accountID, err)
	}
	return account, nil
}

func (s *service) resolve(ctx context.Context, username string) (*models.Account, error) {
	account, err := s.store.Accounts().GetByUsername(ctx, username)
	if err != nil {
		err = translateStoreError("resolve account", err)
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound.WithDetail("account %q not found", username)
		}
		return nil, err
	}
	return account, nil
}

// credit and debit apply a balance change and persist it by compare-and-swap
// against the version the caller last saw.
func (s *service) credit(ctx context.Context, tx repositories.Store, account *models.Account, amount decimal.Decimal) error {
	expected := account.Version
	if err := account.Credit(amount); err != nil {
		return apperrors.ErrInvalidAmount
	}
	return tx.Accounts().CompareAndSwap(ctx, account, expected)
}

func (s *service) debit(ctx context.Context, tx repositories.Store, account *models.Account, amount decimal.Decimal) error {
	expected := account.Version
	if err := account.Debit(amount); err != nil {
		return apperrors.ErrInsufficientFunds
	}
	return tx.Accounts().CompareAndSwap(ctx, account, expected)
}

func (s *service) record(ctx context.Context, tx repositories.Store, entry *models.Transaction) error {
	entry.Timestamp = s.clock.Next()
	return tx.Transactions().Append(ctx, entry)
}

// refresh stores the committed accounts in the statement cache. The cache
// keeps whichever copy has the higher version, so a statement read that
// raced the commit cannot overwrite it. If the write fails the entry is
// dropped instead.
func (s *service) refresh(ctx context.Context, accounts ...*models.Account) {
	for _, account := range accounts {
		err := s.cache.CacheAccount(ctx, account)
		if err == nil {
			continue
		}
		log.Printf("⚠️ Failed to refresh statement cache for %s: %v", account.ID, err)
		if err := s.cache.InvalidateAccounts(ctx, account.ID); err != nil {
			log.Printf("⚠️ Failed to invalidate statement cache for %s: %v", account.ID, err)
		}
	}
}

// lockInOrder reads the accounts under row locks in ascending id order, so
// two opposite transfers cannot wait on each other.
func lockInOrder(ctx context.Context, tx repositories.Store, ids ...string) (map[string]*models.Account, error) {
	locked := make(map[string]*models.Account, len(ids))
	for _, id := range sortedIDs(ids...) {
		account, err := tx.Accounts().GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = account
	}
	return locked, nil
}

func sortedIDs(ids ...string) []string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return sorted
}

// notify hands messages to the publisher off the request path. Failures are
// logged and never reach the caller.
func (s *service) notify(msgs ...notification.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.NotificationTimeout)
		defer cancel()
		for _, msg := range msgs {
			if err := s.publisher.Publish(ctx, msg); err != nil {
				log.Printf("⚠️ Failed to publish %s notification for %s: %v", msg.Kind, msg.Recipient, err)
			}
		}
	}()
}

func (s *service) observe(op string, start time.Time, err *error) {
	s.metrics.RecordOperationDuration(op, time.Since(start))
	s.metrics.RecordOperationResult(op, resultOf(*err))
	if *err != nil {
		s.metrics.RecordError(op, apperrors.CodeOf(*err))
	}
}
