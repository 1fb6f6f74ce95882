package calculator

import (
	"testing"

	"tradeloop/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_DailyReturns(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		returns := DailyReturns([]float64{100, 110, 99})

		require.Equal(t, "", cmp.Diff(
			[]float64{0.1, -0.1},
			returns,
		))
	})

	t.Run("zero price yields zero return", func(t *testing.T) {
		returns := DailyReturns([]float64{0, 100})

		require.Equal(t, []float64{0}, returns)
	})
}

func Test_ReturnCorrelation(t *testing.T) {
	t.Run("identical return series correlate at 1", func(t *testing.T) {
		a := []float64{100, 102, 101, 105, 103}
		b := []float64{50, 51, 50.5, 52.5, 51.5}

		corr, err := ReturnCorrelation(a, b)
		require.NoError(t, err)
		require.InDelta(t, 1.0, corr, 1e-9)
	})

	t.Run("opposite moves correlate at -1", func(t *testing.T) {
		a := []float64{100, 110, 99, 108.9}
		b := []float64{100, 90, 99, 89.1}

		corr, err := ReturnCorrelation(a, b)
		require.NoError(t, err)
		require.InDelta(t, -1.0, corr, 1e-9)
	})

	t.Run("mismatched lengths error", func(t *testing.T) {
		_, err := ReturnCorrelation([]float64{1, 2, 3}, []float64{1, 2})
		require.Error(t, err)
	})

	t.Run("too few prices error", func(t *testing.T) {
		_, err := ReturnCorrelation([]float64{1, 2}, []float64{1, 2})
		require.Error(t, err)
	})
}

func Test_AverageTrueRange(t *testing.T) {
	t.Run("mean absolute close move", func(t *testing.T) {
		atr, err := AverageTrueRange([]float64{100, 102, 99, 103}, 3)
		require.NoError(t, err)

		// moves: 2, 3, 4
		require.InDelta(t, 3.0, atr, 1e-9)
	})

	t.Run("lookback capped to available history", func(t *testing.T) {
		atr, err := AverageTrueRange([]float64{100, 104}, 14)
		require.NoError(t, err)
		require.InDelta(t, 4.0, atr, 1e-9)
	})
}

func Test_MaxDrawdown(t *testing.T) {
	t.Run("known curve", func(t *testing.T) {
		dd := MaxDrawdown([]float64{100, 120, 90, 110})
		require.InDelta(t, 0.25, dd, 1e-9)
	})

	t.Run("monotonic rise has zero drawdown", func(t *testing.T) {
		require.Zero(t, MaxDrawdown([]float64{100, 101, 102}))
	})

	t.Run("empty series", func(t *testing.T) {
		require.Zero(t, MaxDrawdown(nil))
	})
}

func Test_ClassifyRegime(t *testing.T) {
	t.Run("flat benchmark is calm", func(t *testing.T) {
		returns := make([]float64, 30)
		require.Equal(t, domain.Regime_Calm, ClassifyRegime(returns))
	})

	t.Run("wild swings are volatile", func(t *testing.T) {
		returns := []float64{}
		for i := 0; i < 30; i++ {
			if i%2 == 0 {
				returns = append(returns, 0.05)
			} else {
				returns = append(returns, -0.05)
			}
		}
		require.Equal(t, domain.Regime_Volatile, ClassifyRegime(returns))
	})

	t.Run("too short a series defaults to normal", func(t *testing.T) {
		require.Equal(t, domain.Regime_Normal, ClassifyRegime([]float64{0.01}))
	})
}
