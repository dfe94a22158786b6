package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tuplepay/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestGormStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return NewStore(db)
}

// runStoreContract runs the same cases against every Store implementation.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	createAccount := func(t *testing.T, s Store, username string) *models.Account {
		t.Helper()
		acc := models.NewAccount(username, username+"@example.com", "hash")
		require.NoError(t, s.Accounts().Create(ctx, acc))
		return acc
	}

	t.Run("create and read back", func(t *testing.T) {
		s := newStore(t)
		acc := createAccount(t, s, "Alice")

		byID, err := s.Accounts().GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", byID.Username)
		assert.True(t, byID.Balance.IsZero())
		assert.Equal(t, int64(0), byID.Version)

		byName, err := s.Accounts().GetByUsername(ctx, "aLiCe")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, byName.ID)
	})

	t.Run("unknown account", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Accounts().GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrAccountNotFound)

		_, err = s.Accounts().GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("username unique ignoring case", func(t *testing.T) {
		s := newStore(t)
		createAccount(t, s, "alice")

		err := s.Accounts().Create(ctx, models.NewAccount("ALICE", "", "hash"))
		assert.ErrorIs(t, err, ErrDuplicateUsername)
	})

	t.Run("compare and swap", func(t *testing.T) {
		s := newStore(t)
		acc := createAccount(t, s, "alice")

		acc.Balance = decimal.NewFromInt(100)
		require.NoError(t, s.Accounts().CompareAndSwap(ctx, acc, 0))
		assert.Equal(t, int64(1), acc.Version)

		stale := acc.Clone()
		stale.Balance = decimal.NewFromInt(500)
		err := s.Accounts().CompareAndSwap(ctx, stale, 0)
		assert.ErrorIs(t, err, ErrVersionConflict)

		stored, err := s.Accounts().GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.True(t, stored.Balance.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, int64(1), stored.Version)

		ghost := models.NewAccount("ghost", "", "hash")
		assert.ErrorIs(t, s.Accounts().CompareAndSwap(ctx, ghost, 0), ErrAccountNotFound)
	})

	t.Run("negative balance rejected", func(t *testing.T) {
		s := newStore(t)
		acc := createAccount(t, s, "alice")

		acc.Balance = decimal.NewFromInt(-1)
		assert.ErrorIs(t, s.Accounts().CompareAndSwap(ctx, acc, 0), ErrInvalidAccountData)
	})

	t.Run("transaction rolls back every write", func(t *testing.T) {
		s := newStore(t)
		acc := createAccount(t, s, "alice")
		boom := errors.New("boom")

		err := s.ExecuteInTransaction(ctx, func(tx Store) error {
			current, err := tx.Accounts().GetByID(ctx, acc.ID)
			require.NoError(t, err)
			current.Balance = decimal.NewFromInt(10)
			require.NoError(t, tx.Accounts().CompareAndSwap(ctx, current, current.Version))
			require.NoError(t, tx.Transactions().Append(ctx, &models.Transaction{
				AccountID: acc.ID,
				Amount:    decimal.NewFromInt(10),
				Kind:      models.KindRecharge,
				Timestamp: time.Now().UTC(),
			}))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		stored, err := s.Accounts().GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.True(t, stored.Balance.IsZero())
		assert.Equal(t, int64(0), stored.Version)

		txs, err := s.Transactions().FindByAccount(ctx, acc.ID)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("transaction commits", func(t *testing.T) {
		s := newStore(t)
		acc := createAccount(t, s, "alice")

		err := s.ExecuteInTransaction(ctx, func(tx Store) error {
			current, err := tx.Accounts().GetByID(ctx, acc.ID)
			if err != nil {
				return err
			}
			current.Balance = decimal.NewFromInt(25)
			return tx.Accounts().CompareAndSwap(ctx, current, current.Version)
		})
		require.NoError(t, err)

		stored, err := s.Accounts().GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.True(t, stored.Balance.Equal(decimal.NewFromInt(25)))
		assert.Equal(t, int64(1), stored.Version)
	})

	t.Run("ledger append and queries", func(t *testing.T) {
		s := newStore(t)
		alice := createAccount(t, s, "alice")
		bob := createAccount(t, s, "bob")
		base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		bobID, bobName := bob.ID, bob.Username

		entries := []*models.Transaction{
			{AccountID: alice.ID, Amount: decimal.NewFromInt(100), Kind: models.KindRecharge, Timestamp: base.Add(2 * time.Second)},
			{AccountID: alice.ID, Amount: decimal.NewFromInt(7), Kind: models.KindCashback, Timestamp: base.Add(1 * time.Second)},
			{AccountID: alice.ID, Amount: decimal.NewFromInt(30), Kind: models.KindSent, Timestamp: base.Add(3 * time.Second), CounterpartyID: &bobID, CounterpartyName: &bobName},
			{AccountID: bob.ID, Amount: decimal.NewFromInt(30), Kind: models.KindReceived, Timestamp: base.Add(3 * time.Second), CounterpartyID: &bobID, CounterpartyName: &bobName},
		}
		for _, e := range entries {
			require.NoError(t, s.Transactions().Append(ctx, e))
			assert.NotEmpty(t, e.ID)
		}

		aliceTxs, err := s.Transactions().FindByAccount(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, aliceTxs, 3)
		assert.Equal(t, models.KindCashback, aliceTxs[0].Kind)
		assert.Equal(t, models.KindRecharge, aliceTxs[1].Kind)
		assert.Equal(t, models.KindSent, aliceTxs[2].Kind)
		require.NotNil(t, aliceTxs[2].CounterpartyName)
		assert.Equal(t, "bob", *aliceTxs[2].CounterpartyName)

		cashbacks, err := s.Transactions().FindByKind(ctx, alice.ID, models.KindCashback)
		require.NoError(t, err)
		require.Len(t, cashbacks, 1)
		assert.True(t, cashbacks[0].Amount.Equal(decimal.NewFromInt(7)))

		found, err := s.Transactions().FindByID(ctx, entries[3].ID)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, found.AccountID)

		_, err = s.Transactions().FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrTransactionNotFound)

		err = s.Transactions().Append(ctx, entries[0])
		assert.ErrorIs(t, err, ErrDuplicateTx)
	})

	t.Run("get for update inside a transaction", func(t *testing.T) {
		s := newStore(t)
		acc := createAccount(t, s, "alice")

		err := s.ExecuteInTransaction(ctx, func(tx Store) error {
			locked, err := tx.Accounts().GetForUpdate(ctx, acc.ID)
			if err != nil {
				return err
			}
			locked.Balance = decimal.NewFromInt(7)
			return tx.Accounts().CompareAndSwap(ctx, locked, locked.Version)
		})
		require.NoError(t, err)

		stored, err := s.Accounts().GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.True(t, stored.Balance.Equal(decimal.NewFromInt(7)))

		err = s.ExecuteInTransaction(ctx, func(tx Store) error {
			_, err := tx.Accounts().GetForUpdate(ctx, "missing")
			return err
		})
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("invalid entry rejected", func(t *testing.T) {
		s := newStore(t)
		acc := createAccount(t, s, "alice")

		err := s.Transactions().Append(ctx, &models.Transaction{
			AccountID: acc.ID,
			Amount:    decimal.Zero,
			Kind:      models.KindRecharge,
			Timestamp: time.Now().UTC(),
		})
		assert.Error(t, err)
	})
}

func TestGormStore(t *testing.T) {
	runStoreContract(t, newTestGormStore)
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestMemoryStore_ConcurrentCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	acc := models.NewAccount("alice", "", "hash")
	require.NoError(t, s.Accounts().Create(ctx, acc))

	const writers = 8
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			mine := acc.Clone()
			mine.Balance = decimal.NewFromInt(10)
			results <- s.Accounts().CompareAndSwap(ctx, mine, 0)
		}()
	}

	var ok, conflicts int
	for i := 0; i < writers; i++ {
		if err := <-results; err == nil {
			ok++
		} else if errors.Is(err, ErrVersionConflict) {
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, conflicts)
}

func TestTranslateDBError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantConflict bool
	}{
		{"deadlock", &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}, true},
		{"serialization failure", fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"other error", errors.New("connection reset by peer"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateDBError(tt.err)
			assert.Equal(t, tt.wantConflict, errors.Is(got, ErrVersionConflict))
			if !tt.wantConflict {
				assert.Equal(t, tt.err, got)
			}
		})
	}

	assert.NoError(t, translateDBError(nil))
}
