package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, "BTC", cfg.Market.Symbol)
	require.Equal(t, time.Second, cfg.Market.TickInterval)
	require.Equal(t, 15, cfg.Market.Depth)
	require.Equal(t, 0.0005, cfg.Market.SpreadStep)
	require.Equal(t, 0.0002, cfg.Market.Jitter)
	require.Equal(t, 2*time.Second, cfg.Market.TradeMinInterval)
	require.Equal(t, 5*time.Second, cfg.Market.TradeMaxInterval)
	require.Equal(t, 5.0, cfg.Staking.CompoundBonusPct)
	require.Equal(t, 1500*time.Millisecond, cfg.Staking.ConfirmDelay)
	require.Equal(t, 125, cfg.Leverage.Max)
	require.Equal(t, "gemini-2.5-flash", cfg.Assistant.Model)
	require.False(t, cfg.Tracing.Enabled)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	body := []byte(`
market:
  symbol: ETH
  tick_interval: 250ms
  depth: 10
  seed: 42
leverage:
  max: 50
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("ZYNTRA_MARKET_DEPTH", "20")
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/db")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "ETH", cfg.Market.Symbol)
	require.Equal(t, 250*time.Millisecond, cfg.Market.TickInterval)
	require.Equal(t, 20, cfg.Market.Depth)
	require.Equal(t, uint64(42), cfg.Market.Seed)
	require.Equal(t, 50, cfg.Leverage.Max)
	require.Equal(t, "tg-token", cfg.Telegram.Token)
	require.Equal(t, int64(12345), cfg.Telegram.ChatID)
	require.Equal(t, "postgres://u:p@localhost:5432/db", cfg.Postgres.DSN)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte("market:\n  jitter: 0.001\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("leverage:\n  min: 0\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("market:\n  trade_min_interval: 10s\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
}
