package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"tuplepay/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and local development.
// ExecuteInTransaction holds the store lock for the whole callback and
// restores a snapshot when the callback fails.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	accounts   map[string]*models.Account
	byUsername map[string]string
	txs        map[string]*models.Transaction
	byAccount  map[string][]string
}

func newMemoryState() *memoryState {
	return &memoryState{
		accounts:   make(map[string]*models.Account),
		byUsername: make(map[string]string),
		txs:        make(map[string]*models.Transaction),
		byAccount:  make(map[string][]string),
	}
}

func (st *memoryState) clone() *memoryState {
	c := newMemoryState()
	for id, acc := range st.accounts {
		c.accounts[id] = acc.Clone()
	}
	for k, v := range st.byUsername {
		c.byUsername[k] = v
	}
	for id, tx := range st.txs {
		c.txs[id] = tx
	}
	for id, ids := range st.byAccount {
		c.byAccount[id] = append([]string(nil), ids...)
	}
	return c
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

func (m *MemoryStore) Accounts() AccountRepository         { return &memoryView{root: m} }
func (m *MemoryStore) Transactions() TransactionRepository { return &memoryView{root: m} }

func (m *MemoryStore) ExecuteInTransaction(ctx context.Context, fn func(Store) error) error {
	return (&memoryView{root: m}).ExecuteInTransaction(ctx, fn)
}

// memoryView serves both repositories. Inside a transaction the lock is
// already held, so it accesses the state directly.
type memoryView struct {
	root *MemoryStore
	inTx bool
}

func (v *memoryView) with(fn func(st *memoryState) error) error {
	if v.inTx {
		return fn(v.root.state)
	}
	v.root.mu.Lock()
	defer v.root.mu.Unlock()
	return fn(v.root.state)
}

func (v *memoryView) Accounts() AccountRepository         { return v }
func (v *memoryView) Transactions() TransactionRepository { return v }

func (v *memoryView) ExecuteInTransaction(ctx context.Context, fn func(Store) error) error {
	if v.inTx {
		return fn(v)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	v.root.mu.Lock()
	defer v.root.mu.Unlock()

	snapshot := v.root.state.clone()
	if err := fn(&memoryView{root: v.root, inTx: true}); err != nil {
		v.root.state = snapshot
		return err
	}
	return nil
}

func (v *memoryView) Create(_ context.Context, account *models.Account) error {
	key := models.NormalizeUsername(account.Username)
	if key == "" || account.Balance.IsNegative() {
		return ErrInvalidAccountData
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.UsernameKey = key

	return v.with(func(st *memoryState) error {
		if _, taken := st.byUsername[key]; taken {
			return ErrDuplicateUsername
		}
		if _, exists := st.accounts[account.ID]; exists {
			return ErrInvalidAccountData
		}
		now := time.Now().UTC()
		account.CreatedAt, account.UpdatedAt = now, now
		st.accounts[account.ID] = account.Clone()
		st.byUsername[key] = account.ID
		return nil
	})
}

func (v *memoryView) GetByID(_ context.Context, id string) (*models.Account, error) {
	var found *models.Account
	err := v.with(func(st *memoryState) error {
		acc, ok := st.accounts[id]
		if !ok {
			return ErrAccountNotFound
		}
		found = acc.Clone()
		return nil
	})
	return found, err
}

// GetForUpdate needs no row lock: a commit scope already holds the store lock.
func (v *memoryView) GetForUpdate(ctx context.Context, id string) (*models.Account, error) {
	return v.GetByID(ctx, id)
}

func (v *memoryView) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	var found *models.Account
	err := v.with(func(st *memoryState) error {
		id, ok := st.byUsername[models.NormalizeUsername(username)]
		if !ok {
			return ErrAccountNotFound
		}
		found = st.accounts[id].Clone()
		return nil
	})
	return found, err
}

func (v *memoryView) CompareAndSwap(_ context.Context, account *models.Account, expectedVersion int64) error {
	if account.Balance.IsNegative() {
		return ErrInvalidAccountData
	}
	return v.with(func(st *memoryState) error {
		stored, ok := st.accounts[account.ID]
		if !ok {
			return ErrAccountNotFound
		}
		if stored.Version != expectedVersion {
			return ErrVersionConflict
		}
		now := time.Now().UTC()
		updated := stored.Clone()
		updated.Balance = account.Balance
		updated.Version = expectedVersion + 1
		updated.UpdatedAt = now
		st.accounts[account.ID] = updated

		account.Version = updated.Version
		account.UpdatedAt = now
		return nil
	})
}

func (v *memoryView) Append(_ context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	return v.with(func(st *memoryState) error {
		if _, exists := st.txs[tx.ID]; exists {
			return ErrDuplicateTx
		}
		stored := *tx
		st.txs[tx.ID] = &stored
		st.byAccount[tx.AccountID] = append(st.byAccount[tx.AccountID], tx.ID)
		return nil
	})
}

func (v *memoryView) FindByID(_ context.Context, id string) (*models.Transaction, error) {
	var found *models.Transaction
	err := v.with(func(st *memoryState) error {
		tx, ok := st.txs[id]
		if !ok {
			return ErrTransactionNotFound
		}
		c := *tx
		found = &c
		return nil
	})
	return found, err
}

func (v *memoryView) FindByAccount(_ context.Context, accountID string) ([]models.Transaction, error) {
	return v.collect(accountID, func(*models.Transaction) bool { return true })
}

func (v *memoryView) FindByKind(_ context.Context, accountID string, kind models.TransactionKind) ([]models.Transaction, error) {
	return v.collect(accountID, func(tx *models.Transaction) bool { return tx.Kind == kind })
}

func (v *memoryView) collect(accountID string, keep func(*models.Transaction) bool) ([]models.Transaction, error) {
	result := []models.Transaction{}
	err := v.with(func(st *memoryState) error {
		for _, id := range st.byAccount[accountID] {
			if tx := st.txs[id]; keep(tx) {
				result = append(result, *tx)
			}
		}
		return nil
	})
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].ID < result[j].ID
		}
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, err
}
