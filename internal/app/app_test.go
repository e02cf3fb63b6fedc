package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/artemshadrunov/currency-api/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Memory(t *testing.T) {
	cfg := &config.AppConfig{Cache: config.Cache{Backend: config.CacheBackendMemory, MaxItems: 16}}

	store, closeStore, err := newStore(context.Background(), cfg)
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), time.Minute))
	got, ok, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), got)
}

func TestNewStore_RedisUsesInstancePrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.AppConfig{
		Cache: config.Cache{Backend: config.CacheBackendRedis},
		Redis: config.Redis{Addr: mr.Addr(), InstanceName: "CurrencyConverter_"},
	}

	store, closeStore, err := newStore(context.Background(), cfg)
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Set(context.Background(), "exchange_rate_USD_EUR_2025-01-01", []byte(`"1"`), time.Minute))
	require.True(t, mr.Exists("CurrencyConverter_exchange_rate_USD_EUR_2025-01-01"))
}

func TestNewStore_UnknownBackend(t *testing.T) {
	_, _, err := newStore(context.Background(), &config.AppConfig{Cache: config.Cache{Backend: "memcached"}})
	require.Error(t, err)
}
