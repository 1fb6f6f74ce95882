package l1_service

import (
	"testing"

	"tradeloop/internal/config"
	"tradeloop/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_Cost(t *testing.T) {
	cfg := &config.Config{
		Cost: config.CostConfig{
			SlippagePct:         0.001,
			SlippagePctVolatile: 0.002,
			CommissionFlat:      1,
			CommissionPerShare:  0.005,
		},
	}
	costService := NewCostService(cfg)

	t.Run("buy fills above the requested price", func(t *testing.T) {
		out := costService.Cost(decimal.NewFromInt(100), 50, domain.Side_Buy, domain.Regime_Normal)

		require.True(t, out.ExecPrice.Equal(decimal.NewFromFloat(100.1)), out.ExecPrice.String())
		require.True(t, out.Slippage.Equal(decimal.NewFromInt(5)), out.Slippage.String())
		require.True(t, out.Commission.Equal(decimal.NewFromFloat(1.25)), out.Commission.String())
		require.True(t, out.TotalCost.Equal(decimal.NewFromFloat(6.25)), out.TotalCost.String())
	})

	t.Run("sell fills below the requested price", func(t *testing.T) {
		out := costService.Cost(decimal.NewFromInt(100), 50, domain.Side_Sell, domain.Regime_Normal)

		require.True(t, out.ExecPrice.Equal(decimal.NewFromFloat(99.9)), out.ExecPrice.String())
		require.True(t, out.Slippage.Equal(decimal.NewFromInt(5)), out.Slippage.String())
	})

	t.Run("volatile regime doubles slippage", func(t *testing.T) {
		normal := costService.Cost(decimal.NewFromInt(100), 50, domain.Side_Buy, domain.Regime_Normal)
		volatile := costService.Cost(decimal.NewFromInt(100), 50, domain.Side_Buy, domain.Regime_Volatile)

		require.True(t, volatile.Slippage.Equal(normal.Slippage.Mul(decimal.NewFromInt(2))))
	})

	t.Run("identical inputs give identical outputs", func(t *testing.T) {
		a := costService.Cost(decimal.NewFromFloat(42.42), 7, domain.Side_Buy, domain.Regime_Calm)
		b := costService.Cost(decimal.NewFromFloat(42.42), 7, domain.Side_Buy, domain.Regime_Calm)

		require.Equal(t, a, b)
	})
}
