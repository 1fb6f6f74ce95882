package calculator

import (
	"math"

	"tradeloop/internal/domain"
)

// annualized vol boundaries between regimes
const (
	calmVolCeiling     = 0.10
	volatileVolFloor   = 0.25
	tradingDaysPerYear = 252
)

// ClassifyRegime buckets the market by realized volatility of the
// benchmark's daily returns over the supplied window.
func ClassifyRegime(benchmarkReturns []float64) domain.Regime {
	vol, err := RealizedVol(benchmarkReturns)
	if err != nil || len(benchmarkReturns) < 2 {
		return domain.Regime_Normal
	}

	annualized := vol * math.Sqrt(tradingDaysPerYear)
	switch {
	case annualized < calmVolCeiling:
		return domain.Regime_Calm
	case annualized > volatileVolFloor:
		return domain.Regime_Volatile
	default:
		return domain.Regime_Normal
	}
}
