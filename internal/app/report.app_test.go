package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"tradeloop/internal/domain"
	"tradeloop/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_ReportHandler_Write(t *testing.T) {
	dir := t.TempDir()
	handler := ReportHandler{Dir: filepath.Join(dir, "reports")}
	ctx := logger.AddToContext(context.Background(), logger.New())

	report := &domain.DailyReport{
		Date:   "2024-06-03",
		Mode:   "live",
		Regime: domain.Regime_Normal,
		SignalCounts: map[domain.TerminalState]int{
			domain.TerminalState_Executed:       2,
			domain.TerminalState_RejectedByHeat: 1,
		},
		Trades: []domain.Trade{
			{
				Symbol:    "AAPL",
				Side:      "BUY",
				Shares:    10,
				ExecPrice: decimal.NewFromFloat(150.10),
				TotalCost: decimal.NewFromFloat(2.30),
				Notional:  decimal.NewFromFloat(1503.30),
			},
		},
		GlobalExposure: decimal.NewFromInt(1500),
		Cash:           decimal.NewFromFloat(98496.70),
		Reconciliation: []domain.ReconciliationSummary{
			{Phase: "pre", Passed: true},
			{Phase: "post", Passed: false, Discrepancies: []domain.Discrepancy{{Field: "cash"}}},
		},
		SystemStatus: domain.SystemStatus_Paused,
		PauseReason:  "post reconciliation mismatch",
		Metrics:      &domain.RunMetrics{TotalReturn: 0.0123, WinRate: 1},
		RuntimeMs:    42,
	}

	err := handler.Write(ctx, report)
	require.NoError(t, err)

	t.Run("json artifact round-trips", func(t *testing.T) {
		b, err := os.ReadFile(filepath.Join(handler.Dir, "2024-06-03.json"))
		require.NoError(t, err)

		var stored domain.DailyReport
		require.NoError(t, json.Unmarshal(b, &stored))
		require.Equal(t, "2024-06-03", stored.Date)
		require.Equal(t, 2, stored.SignalCounts[domain.TerminalState_Executed])
		require.Equal(t, domain.SystemStatus_Paused, stored.SystemStatus)
		require.Len(t, stored.Reconciliation, 2)
	})

	t.Run("text summary names the highlights", func(t *testing.T) {
		b, err := os.ReadFile(filepath.Join(handler.Dir, "2024-06-03.txt"))
		require.NoError(t, err)

		summary := string(b)
		require.Contains(t, summary, "trading session 2024-06-03 (live)")
		require.Contains(t, summary, "EXECUTED")
		require.Contains(t, summary, "BUY 10 AAPL @ 150.10")
		require.Contains(t, summary, "FAILED (1 discrepancies)")
		require.Contains(t, summary, "post reconciliation mismatch")
	})
}
