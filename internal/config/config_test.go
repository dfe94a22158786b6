package config

import (
	"testing"
	"time"

	"tuplepay/internal/services/cashback"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TP_STRING", "value")
	t.Setenv("TP_EMPTY", "")
	t.Setenv("TP_INT", "42")
	t.Setenv("TP_BAD_INT", "forty-two")
	t.Setenv("TP_FLOAT", " 0.25 ")
	t.Setenv("TP_DURATION", "90s")

	assert.Equal(t, "value", GetEnv("TP_STRING", "default"))
	assert.Equal(t, "default", GetEnv("TP_EMPTY", "default"))
	assert.Equal(t, "default", GetEnv("TP_MISSING", "default"))
	assert.Equal(t, 42, GetIntEnv("TP_INT", 1))
	assert.Equal(t, 1, GetIntEnv("TP_BAD_INT", 1))
	assert.InDelta(t, 0.25, GetFloatEnv("TP_FLOAT", 0), 1e-9)
	assert.Equal(t, 90*time.Second, GetDurationEnv("TP_DURATION", time.Second))
	assert.Equal(t, time.Second, GetDurationEnv("TP_MISSING", time.Second))
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("CASHBACK_LOWER_FRACTION", "0.01")
	t.Setenv("CASHBACK_UPPER_FRACTION", "0.02")
	t.Setenv("NOTIFICATION_DRIVER", "redis")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "ledger", cfg.DB.Name)
	assert.Contains(t, cfg.DB.DSN(), "dbname=ledger")
	assert.InDelta(t, 0.01, cfg.Cashback.LowerFraction, 1e-9)
	assert.InDelta(t, 0.02, cfg.Cashback.UpperFraction, 1e-9)
	assert.Equal(t, "redis", cfg.NotificationDriver)
}

func TestLoad_CashbackBoundsAreFractions(t *testing.T) {
	cfg := Load()
	_, err := cashback.NewPolicy(cashback.Config{
		LowerFraction: cfg.Cashback.LowerFraction,
		UpperFraction: cfg.Cashback.UpperFraction,
	}, nil)
	require.NoError(t, err, "defaults must form a valid fraction range")

	t.Setenv("CASHBACK_LOWER_FRACTION", "0.2")
	t.Setenv("CASHBACK_UPPER_FRACTION", "0.3")
	cfg = Load()
	_, err = cashback.NewPolicy(cashback.Config{
		LowerFraction: cfg.Cashback.LowerFraction,
		UpperFraction: cfg.Cashback.UpperFraction,
	}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.Cashback.LowerFraction, 1e-9)
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	assert.True(t, IsProduction())

	t.Setenv("ENV", "staging")
	assert.False(t, IsProduction())
}
