package calculator

import (
	"math"

	"tradeloop/internal/domain"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

type CalculateMetricsInput struct {
	// daily return series for the run or backtest window, in order
	DailyReturns []float64
	// realized P&L of every closed (full or partial sell) trade
	ClosedTradePnl []decimal.Decimal
	StartValue     float64
	EndValue       float64
}

// CalculateMetrics derives the full performance profile for a run. Every
// ratio is computed on every run; a degenerate input produces a zero
// ratio rather than an error.
func CalculateMetrics(in CalculateMetricsInput) (*domain.RunMetrics, error) {
	out := &domain.RunMetrics{
		TradingDays:  len(in.DailyReturns),
		ClosedTrades: len(in.ClosedTradePnl),
	}

	if in.StartValue > 0 {
		out.TotalReturn = (in.EndValue - in.StartValue) / in.StartValue
	}

	if len(in.DailyReturns) >= 2 {
		mean, err := stats.Mean(in.DailyReturns)
		if err != nil {
			return nil, err
		}
		stdev, err := stats.StandardDeviationSample(in.DailyReturns)
		if err != nil {
			return nil, err
		}

		out.AnnualizedStdev = stdev * math.Sqrt(tradingDaysPerYear)
		if stdev > 0 {
			out.SharpeRatio = mean / stdev * math.Sqrt(tradingDaysPerYear)
		}

		downside := []float64{}
		for _, r := range in.DailyReturns {
			if r < 0 {
				downside = append(downside, r)
			}
		}
		if len(downside) >= 2 {
			downsideStdev, err := stats.StandardDeviationSample(downside)
			if err != nil {
				return nil, err
			}
			if downsideStdev > 0 {
				out.SortinoRatio = mean / downsideStdev * math.Sqrt(tradingDaysPerYear)
			}
		}
	}

	// drawdown over the cumulative equity curve implied by the returns
	equity := []float64{1}
	for _, r := range in.DailyReturns {
		equity = append(equity, equity[len(equity)-1]*(1+r))
	}
	out.MaxDrawdown = MaxDrawdown(equity)
	if out.MaxDrawdown > 0 {
		out.CalmarRatio = out.TotalReturn / out.MaxDrawdown
	}

	if in.StartValue > 0 && in.EndValue > 0 && len(in.DailyReturns) > 0 {
		out.CAGR = math.Pow(in.EndValue/in.StartValue, tradingDaysPerYear/float64(len(in.DailyReturns))) - 1
	}

	wins := 0
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	for _, pnl := range in.ClosedTradePnl {
		if pnl.IsPositive() {
			wins++
			grossProfit = grossProfit.Add(pnl)
		} else {
			grossLoss = grossLoss.Add(pnl.Abs())
		}
	}
	out.WinningTrades = wins
	if len(in.ClosedTradePnl) > 0 {
		out.WinRate = float64(wins) / float64(len(in.ClosedTradePnl))
	}
	if grossLoss.IsPositive() {
		out.ProfitFactor = grossProfit.Div(grossLoss).InexactFloat64()
	}

	return out, nil
}
