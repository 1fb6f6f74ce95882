package calculator

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// DailyReturns converts a price series into simple day-over-day returns.
// The output has len(prices)-1 entries.
func DailyReturns(prices []float64) []float64 {
	returns := []float64{}
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	return returns
}

// ReturnCorrelation computes the Pearson correlation between the daily
// returns of two equally long price series.
func ReturnCorrelation(pricesA, pricesB []float64) (float64, error) {
	if len(pricesA) != len(pricesB) {
		return 0, fmt.Errorf("cannot correlate series of length %d and %d", len(pricesA), len(pricesB))
	}
	if len(pricesA) < 3 {
		return 0, fmt.Errorf("need at least 3 prices to correlate, got %d", len(pricesA))
	}

	corr, err := stats.Correlation(DailyReturns(pricesA), DailyReturns(pricesB))
	if err != nil {
		return 0, err
	}

	return corr, nil
}

// AverageTrueRange approximates ATR from a close-only series as the mean
// absolute close-to-close move over the lookback. We don't store intraday
// highs/lows, so this is the standard close proxy.
func AverageTrueRange(prices []float64, lookback int) (float64, error) {
	if len(prices) < 2 {
		return 0, fmt.Errorf("need at least 2 prices for ATR, got %d", len(prices))
	}
	if lookback > len(prices)-1 {
		lookback = len(prices) - 1
	}

	sum := 0.0
	for i := len(prices) - lookback; i < len(prices); i++ {
		sum += math.Abs(prices[i] - prices[i-1])
	}

	return sum / float64(lookback), nil
}

// MaxDrawdown returns the largest peak-to-trough decline of a value
// series, as a positive fraction (0.25 means -25%).
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	maxDd := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > maxDd {
				maxDd = dd
			}
		}
	}

	return maxDd
}

// RealizedVol is the sample standard deviation of a daily return series.
func RealizedVol(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, nil
	}
	return stats.StandardDeviationSample(returns)
}
