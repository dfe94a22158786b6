// Package cache keeps read-through copies of account statements in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tuplepay/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

func (s *CacheService) accountKey(accountID string) string {
	return s.GenerateKey("account", "statement", accountID)
}

// setIfNewerScript writes ARGV[1] unless the cached value already carries a
// version >= ARGV[2]. ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfNewerScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current then
	local ok, cached = pcall(cjson.decode, current)
	if ok and type(cached) == 'table' and tonumber(cached['version']) ~= nil
		and tonumber(cached['version']) >= tonumber(ARGV[2]) then
		return 0
	end
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// CacheAccount stores the statement view of an account. A copy already in
// the cache with the same or a higher version is kept.
func (s *CacheService) CacheAccount(ctx context.Context, account *models.Account) error {
	if account == nil {
		return errors.New("cannot cache nil account")
	}
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	err = setIfNewerScript.Run(ctx, s.client,
		[]string{s.accountKey(account.ID)},
		string(data), account.Version, s.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to cache account: %w", err)
	}
	return nil
}

// GetAccount returns the cached account, or found=false on a miss.
func (s *CacheService) GetAccount(ctx context.Context, accountID string) (*models.Account, bool, error) {
	var account models.Account
	found, err := s.Get(ctx, s.accountKey(accountID), &account)
	if err != nil || !found {
		return nil, false, err
	}
	return &account, true, nil
}

// InvalidateAccounts drops the cached statements of the given accounts.
func (s *CacheService) InvalidateAccounts(ctx context.Context, accountIDs ...string) error {
	if len(accountIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		keys = append(keys, s.accountKey(id))
	}
	return s.Delete(ctx, keys...)
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
