package app

import (
	"context"
	"fmt"
	"time"

	"tradeloop/internal/calculator"
	"tradeloop/internal/config"
	"tradeloop/internal/domain"
	"tradeloop/internal/logger"
	l1_service "tradeloop/internal/service/l1"
	l2_service "tradeloop/internal/service/l2"
	l3_service "tradeloop/internal/service/l3"
	"tradeloop/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// trailing benchmark days used to classify the day's regime
const regimeLookbackDays = 30

// BacktestHandler replays the live pipeline over historical prices, day
// by day, with a simulated executor in place of the broker. Positions
// carry across consecutive windows run on the same handler: a window's
// return includes unrealized P&L from positions entered in an earlier
// window, even when the window itself trades nothing.
type BacktestHandler struct {
	Config       *config.Config
	PositionBook l2_service.PositionBookService
	Ledger       l2_service.LedgerService
	RiskGate     l3_service.RiskGateService
	Executor     l3_service.ExecutorService
}

func NewBacktestHandler(cfg *config.Config, startingCash decimal.Decimal) *BacktestHandler {
	positionBook := l2_service.NewPositionBookService(nil, startingCash)
	riskGate := l3_service.NewRiskGateService(cfg, positionBook)
	costService := l1_service.NewCostService(cfg)

	return &BacktestHandler{
		Config:       cfg,
		PositionBook: positionBook,
		Ledger:       l2_service.NewLedgerService(nil),
		RiskGate:     riskGate,
		Executor:     l3_service.NewSimulatedExecutor(costService, positionBook, nil, l3_service.AlwaysActive()),
	}
}

type BacktestWindowInput struct {
	Start       time.Time
	End         time.Time
	Signals     []*domain.Signal
	Prices      *l1_service.PriceCache
	Allocations map[uuid.UUID]decimal.Decimal
}

type BacktestWindowResult struct {
	Metrics           *domain.RunMetrics
	Trades            []domain.Trade
	SignalCounts      map[domain.TerminalState]int
	EquityCurve       []float64
	EndSnapshot       *domain.PortfolioSnapshot
	UnresolvedSignals int
}

func (h *BacktestHandler) Run(ctx context.Context, in BacktestWindowInput) (*BacktestWindowResult, error) {
	log := logger.FromContext(ctx)

	days := []time.Time{}
	for _, d := range in.Prices.TradingDays() {
		if !util.DateLte(in.Start, d) || !util.DateLte(d, in.End) {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no trading days between %s and %s", in.Start.Format(time.DateOnly), in.End.Format(time.DateOnly))
	}

	signalsByDay := map[string][]*domain.Signal{}
	for _, s := range in.Signals {
		key := s.AsOfDate.Format(time.DateOnly)
		signalsByDay[key] = append(signalsByDay[key], s)
	}

	startPositions := len(h.PositionBook.AllPositions())
	closedBefore := len(h.PositionBook.ClosedTradePnl())

	// breaker state and signal counts are per window; positions are not
	h.RiskGate.ResetBreaker()
	h.Ledger.BeginRun()

	trades := []domain.Trade{}
	startEquity := h.equityOn(in.Prices, days[0])
	equityCurve := []float64{startEquity}

	for _, day := range days {
		h.RiskGate.UpdateBreaker(ctx, equityCurve)
		regime := h.classifyRegime(ctx, in.Prices, day)

		for _, signal := range signalsByDay[day.Format(time.DateOnly)] {
			trade := h.processSignal(ctx, processSignalInput{
				signal:      signal,
				prices:      in.Prices,
				day:         day,
				regime:      regime,
				allocations: in.Allocations,
			})
			if trade != nil {
				trades = append(trades, *trade)
			}
		}

		equityCurve = append(equityCurve, h.equityOn(in.Prices, day))
	}

	dailyReturns := calculator.DailyReturns(equityCurve)
	closedPnl := h.PositionBook.ClosedTradePnl()[closedBefore:]

	metrics, err := calculator.CalculateMetrics(calculator.CalculateMetricsInput{
		DailyReturns:   dailyReturns,
		ClosedTradePnl: closedPnl,
		StartValue:     equityCurve[0],
		EndValue:       equityCurve[len(equityCurve)-1],
	})
	if err != nil {
		return nil, fmt.Errorf("failed to calculate window metrics: %w", err)
	}

	// a window that begins flat, trades nothing, and ends flat returned
	// exactly zero; anything else leaking in is float noise
	endPositions := len(h.PositionBook.AllPositions())
	if startPositions == 0 && len(trades) == 0 && endPositions == 0 {
		metrics.TotalReturn = 0
	}

	unresolved := h.Ledger.ValidateRun(in.Signals)
	if unresolved > 0 {
		log.Errorw("window left signals without terminal states", "count", unresolved)
	}

	return &BacktestWindowResult{
		Metrics:           metrics,
		Trades:            trades,
		SignalCounts:      h.Ledger.Counts(),
		EquityCurve:       equityCurve,
		EndSnapshot:       h.PositionBook.Snapshot(days[len(days)-1]),
		UnresolvedSignals: unresolved,
	}, nil
}

type processSignalInput struct {
	signal      *domain.Signal
	prices      *l1_service.PriceCache
	day         time.Time
	regime      domain.Regime
	allocations map[uuid.UUID]decimal.Decimal
}

// processSignal drives one signal to its terminal state. Per-signal
// failures are recorded and swallowed so the rest of the day proceeds.
func (h *BacktestHandler) processSignal(ctx context.Context, in processSignalInput) *domain.Trade {
	log := logger.FromContext(ctx)

	record := func(state domain.TerminalState, reason string) {
		if err := h.Ledger.Record(ctx, nil, in.signal, state, reason); err != nil {
			log.Errorw("failed to record terminal state", "signalID", in.signal.SignalID, "error", err)
		}
	}

	allocation, ok := in.allocations[in.signal.StrategyID]
	if !ok {
		record(domain.TerminalState_Error, fmt.Sprintf("no capital allocation for strategy %s", in.signal.StrategyID))
		return nil
	}

	order, rejection := h.RiskGate.Evaluate(ctx, l3_service.EvaluateInput{
		Signal:     in.signal,
		Prices:     in.prices,
		AsOf:       in.day,
		Regime:     in.regime,
		Allocation: allocation,
		Equity:     decimal.NewFromFloat(h.equityOn(in.prices, in.day)),
	})
	if rejection != nil {
		record(rejection.State, rejection.Reason)
		return nil
	}

	trade, err := h.Executor.Execute(ctx, nil, order, in.regime)
	if err != nil {
		record(domain.TerminalState_Error, fmt.Sprintf("execution failed: %v", err))
		return nil
	}

	record(domain.TerminalState_Executed, fmt.Sprintf("filled %d shares at %s", trade.Shares, trade.ExecPrice.StringFixed(2)))

	return trade
}

func (h *BacktestHandler) equityOn(prices *l1_service.PriceCache, day time.Time) float64 {
	priceMap := map[string]decimal.Decimal{}
	for _, p := range h.PositionBook.AllPositions() {
		if price, err := prices.Get(p.Symbol, day); err == nil {
			priceMap[p.Symbol] = decimal.NewFromFloat(price)
		}
	}

	return h.PositionBook.Equity(priceMap).InexactFloat64()
}

func (h *BacktestHandler) classifyRegime(ctx context.Context, prices *l1_service.PriceCache, day time.Time) domain.Regime {
	series, err := prices.SeriesEndingAt(h.Config.Trading.BenchmarkSymbol, day, regimeLookbackDays+1)
	if err != nil {
		logger.FromContext(ctx).Warnf("defaulting to NORMAL regime: %v", err)
		return domain.Regime_Normal
	}

	return calculator.ClassifyRegime(calculator.DailyReturns(series))
}
