package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetPrice struct {
	Symbol string
	Date   time.Time
	Price  decimal.Decimal
}

// DailyReport is the per-session artifact. One is written for every run,
// including halted ones.
type DailyReport struct {
	Date              string                  `json:"date"`
	Mode              string                  `json:"mode"`
	Regime            Regime                  `json:"regime"`
	SignalCounts      map[TerminalState]int   `json:"signalCounts"`
	Trades            []Trade                 `json:"trades"`
	PortfolioHeat     float64                 `json:"portfolioHeat"`
	Drawdown          float64                 `json:"drawdown"`
	CircuitBreaker    bool                    `json:"circuitBreakerTripped"`
	Exposure          map[string]string       `json:"exposureByStrategy"`
	GlobalExposure    decimal.Decimal         `json:"globalExposure"`
	Cash              decimal.Decimal         `json:"cash"`
	Reconciliation    []ReconciliationSummary `json:"reconciliation"`
	SystemStatus      SystemStatus            `json:"systemStatus"`
	PauseReason       string                  `json:"pauseReason,omitempty"`
	Metrics           *RunMetrics             `json:"metrics,omitempty"`
	RuntimeMs         int64                   `json:"runtimeMs"`
	ErrorCount        int                     `json:"errorCount"`
	UnresolvedSignals int                     `json:"unresolvedSignals"`
}

type ReconciliationSummary struct {
	Phase         string        `json:"phase"`
	Passed        bool          `json:"passed"`
	Discrepancies []Discrepancy `json:"discrepancies,omitempty"`
}

type RunMetrics struct {
	TotalReturn     float64 `json:"totalReturn"`
	CAGR            float64 `json:"cagr"`
	AnnualizedStdev float64 `json:"annualizedStdev"`
	SharpeRatio     float64 `json:"sharpeRatio"`
	SortinoRatio    float64 `json:"sortinoRatio"`
	CalmarRatio     float64 `json:"calmarRatio"`
	MaxDrawdown     float64 `json:"maxDrawdown"`
	WinRate         float64 `json:"winRate"`
	ProfitFactor    float64 `json:"profitFactor"`
	ClosedTrades    int     `json:"closedTrades"`
	WinningTrades   int     `json:"winningTrades"`
	TradingDays     int     `json:"tradingDays"`
}
