package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

func Test_Load(t *testing.T) {
	t.Run("exits stay allowed when the key is omitted", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
trading:
  paper: true
`))
		require.NoError(t, err)
		require.NotNil(t, cfg.Risk.AllowExitsWhenTripped)
		require.True(t, cfg.ExitsAllowedWhenTripped())
	})

	t.Run("explicit false survives defaulting", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
trading:
  paper: true
risk:
  allow_exits_when_tripped: false
`))
		require.NoError(t, err)
		require.False(t, cfg.ExitsAllowedWhenTripped())
	})

	t.Run("fills defaults for omitted sections", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
trading:
  paper: true
`))
		require.NoError(t, err)
		require.Equal(t, 60, cfg.Risk.CorrelationLookbackDays)
		require.Equal(t, 0.01, cfg.Reconciliation.TolerancePct)
		require.Equal(t, "SPY", cfg.Trading.BenchmarkSymbol)
		require.Equal(t, "reports", cfg.Reports.Dir)
		require.Equal(t, 3, cfg.Broker.MaxRetries)
	})

	t.Run("rejects contradictory paper and live flags", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
trading:
  paper: true
  live_trading_enabled: true
`))
		require.Error(t, err)
	})
}
