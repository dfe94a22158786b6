package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tuplepay/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_AccountRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	svc := NewCacheService(client, 5*time.Minute)

	acc := &models.Account{ID: "acc-1", Username: "alice", Balance: decimal.NewFromInt(120), Version: 3}
	data, err := json.Marshal(acc)
	require.NoError(t, err)
	key := "account:statement:acc-1"

	mock.ExpectEvalSha(setIfNewerScript.Hash(), []string{key}, string(data), int64(3), int64(300000)).SetVal(int64(1))
	mock.ExpectGet(key).SetVal(string(data))

	require.NoError(t, svc.CacheAccount(ctx, acc))

	cached, found, err := svc.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alice", cached.Username)
	assert.True(t, cached.Balance.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, int64(3), cached.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheService_CacheAccountKeepsNewerCopy(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	svc := NewCacheService(client, time.Minute)

	stale := &models.Account{ID: "acc-1", Username: "alice", Balance: decimal.Zero, Version: 1}
	data, err := json.Marshal(stale)
	require.NoError(t, err)

	// the script reports 0 when the cached copy is at least as new
	mock.ExpectEvalSha(setIfNewerScript.Hash(), []string{"account:statement:acc-1"}, string(data), int64(1), int64(60000)).SetVal(int64(0))

	assert.NoError(t, svc.CacheAccount(ctx, stale))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheService_CacheAccountError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewCacheService(client, time.Minute)

	acc := &models.Account{ID: "acc-1", Username: "alice", Version: 2}
	data, err := json.Marshal(acc)
	require.NoError(t, err)
	mock.ExpectEvalSha(setIfNewerScript.Hash(), []string{"account:statement:acc-1"}, string(data), int64(2), int64(60000)).
		SetErr(errors.New("connection refused"))

	assert.Error(t, svc.CacheAccount(context.Background(), acc))
}

func TestCacheService_Miss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewCacheService(client, time.Minute)

	mock.ExpectGet("account:statement:acc-1").RedisNil()

	cached, found, err := svc.GetAccount(context.Background(), "acc-1")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, cached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheService_GetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewCacheService(client, time.Minute)

	mock.ExpectGet("account:statement:acc-1").SetErr(errors.New("connection refused"))

	_, found, err := svc.GetAccount(context.Background(), "acc-1")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestCacheService_InvalidateAccounts(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewCacheService(client, time.Minute)

	mock.ExpectDel("account:statement:a", "account:statement:b").SetVal(2)

	require.NoError(t, svc.InvalidateAccounts(context.Background(), "a", "b"))
	require.NoError(t, svc.InvalidateAccounts(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheService_CacheNilAccount(t *testing.T) {
	client, _ := redismock.NewClientMock()
	svc := NewCacheService(client, time.Minute)

	assert.Error(t, svc.CacheAccount(context.Background(), nil))
}

func TestCacheService_HealthAndStats(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewCacheService(client, time.Minute)

	mock.ExpectPing().SetVal("PONG")
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	assert.NoError(t, svc.HealthCheck(context.Background()))
	assert.Error(t, svc.HealthCheck(context.Background()))
	assert.NotNil(t, svc.GetStats())
	assert.NoError(t, mock.ExpectationsWereMet())
}
