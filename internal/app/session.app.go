package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tradeloop/internal/calculator"
	"tradeloop/internal/config"
	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/domain"
	"tradeloop/internal/logger"
	"tradeloop/internal/repository"
	l1_service "tradeloop/internal/service/l1"
	l2_service "tradeloop/internal/service/l2"
	l3_service "tradeloop/internal/service/l3"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// trailing broker snapshots used for the session equity curve
const equityHistoryDays = 90

// SessionHandler runs one daily trading session end to end: reconcile
// against the broker, drive every pending signal to a terminal state,
// reconcile again, compute metrics, and write the artifact. A session
// that halts still writes its artifact with the reason.
type SessionHandler struct {
	Config                       *config.Config
	Db                           *sql.DB
	SignalRepository             repository.SignalRepository
	BrokerRepository             repository.BrokerRepository
	BrokerStateRepository        repository.BrokerStateRepository
	StrategyAllocationRepository repository.StrategyAllocationRepository
	PriceService                 l1_service.PriceService
	PositionBook                 l2_service.PositionBookService
	Ledger                       l2_service.LedgerService
	RiskGate                     l3_service.RiskGateService
	Executor                     l3_service.ExecutorService
	Reconciliation               l3_service.ReconciliationService
	Reports                      ReportHandler
}

func (h *SessionHandler) Run(ctx context.Context, date time.Time) (*domain.DailyReport, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	mode := "paper"
	if h.Config.IsLive() {
		mode = "live"
	}
	// a warm handler may serve many sessions; counts belong to this one
	h.Ledger.BeginRun()

	report := &domain.DailyReport{
		Date:         date.Format(time.DateOnly),
		Mode:         mode,
		Regime:       domain.Regime_Normal,
		SignalCounts: map[domain.TerminalState]int{},
		Trades:       []domain.Trade{},
		Exposure:     map[string]string{},
		SystemStatus: domain.SystemStatus_Active,
	}
	defer func() {
		report.RuntimeMs = time.Since(start).Milliseconds()
		report.Cash = h.PositionBook.Cash()
		report.GlobalExposure = h.PositionBook.GlobalExposure()
		if err := h.Reports.Write(ctx, report); err != nil {
			log.Errorw("failed to write daily artifact", "error", err)
		}
	}()

	status, err := h.Reconciliation.SystemStatus(ctx)
	if err != nil {
		report.ErrorCount++
		return report, err
	}
	if status == domain.SystemStatus_Paused {
		report.SystemStatus = domain.SystemStatus_Paused
		report.PauseReason = "system paused before session start, operator resume required"
		log.Warn("session skipped: system is paused")
		return report, nil
	}

	open, err := h.BrokerRepository.IsMarketOpen(ctx)
	if err != nil {
		report.ErrorCount++
		return report, err
	}
	if !open {
		report.PauseReason = "market closed"
		log.Infow("session skipped: market closed", "date", report.Date)
		return report, nil
	}

	if err := h.reconcile(ctx, report, "pre", date); err != nil {
		return report, err
	}

	signals, err := h.pendingSignals(date)
	if err != nil {
		report.ErrorCount++
		return report, err
	}
	allocations, err := h.loadAllocations()
	if err != nil {
		report.ErrorCount++
		return report, err
	}

	prices, err := h.loadPrices(signals, date)
	if err != nil {
		report.ErrorCount++
		return report, err
	}

	benchmarkSeries, err := prices.SeriesEndingAt(h.Config.Trading.BenchmarkSymbol, date, regimeLookbackDays+1)
	if err != nil {
		log.Warnf("defaulting to NORMAL regime: %v", err)
	} else {
		report.Regime = calculator.ClassifyRegime(calculator.DailyReturns(benchmarkSeries))
	}

	equityCurve, err := h.equityHistory(date)
	if err != nil {
		report.ErrorCount++
		return report, err
	}
	h.RiskGate.UpdateBreaker(ctx, equityCurve)

	for _, signal := range signals {
		trade := h.processSignal(ctx, report, signal, prices, date, allocations)
		if trade != nil {
			report.Trades = append(report.Trades, *trade)
		}
	}

	if err := h.reconcile(ctx, report, "post", date); err != nil {
		return report, err
	}

	h.finalizeReport(ctx, report, signals, equityCurve, date)

	return report, nil
}

func (h *SessionHandler) reconcile(ctx context.Context, report *domain.DailyReport, phase string, date time.Time) error {
	log := logger.FromContext(ctx)

	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		report.ErrorCount++
		return fmt.Errorf("failed to begin %s reconciliation tx: %w", phase, err)
	}

	snapshot, recErr := h.Reconciliation.Reconcile(ctx, tx, phase, date)
	if recErr != nil {
		var mismatch domain.ReconciliationMismatch
		if !errors.As(recErr, &mismatch) {
			tx.Rollback()
			report.ErrorCount++
			return recErr
		}
		// the failed snapshot and the PAUSED transition commit together
		if err := tx.Commit(); err != nil {
			report.ErrorCount++
			return fmt.Errorf("failed to commit %s reconciliation: %w", phase, err)
		}
		report.Reconciliation = append(report.Reconciliation, domain.ReconciliationSummary{
			Phase:         phase,
			Passed:        false,
			Discrepancies: snapshot.Discrepancies,
		})
		report.SystemStatus = domain.SystemStatus_Paused
		report.PauseReason = recErr.Error()
		log.Errorw("session halted on reconciliation failure", "phase", phase)
		return recErr
	}

	if err := tx.Commit(); err != nil {
		report.ErrorCount++
		return fmt.Errorf("failed to commit %s reconciliation: %w", phase, err)
	}

	report.Reconciliation = append(report.Reconciliation, domain.ReconciliationSummary{
		Phase:  phase,
		Passed: true,
	})

	return nil
}

func (h *SessionHandler) pendingSignals(date time.Time) ([]*domain.Signal, error) {
	rows, err := h.SignalRepository.List(repository.SignalListFilter{AsOfDate: &date})
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}

	signals := []*domain.Signal{}
	for _, row := range rows {
		if row.TerminalState != nil {
			continue
		}
		signals = append(signals, &domain.Signal{
			SignalID:    row.SignalID,
			StrategyID:  row.StrategyID,
			Symbol:      row.Symbol,
			Side:        domain.Side(row.Side),
			Confidence:  row.Confidence,
			AsOfDate:    row.AsOfDate,
			GeneratedAt: row.GeneratedAt,
		})
	}

	return signals, nil
}

func (h *SessionHandler) loadAllocations() (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := h.StrategyAllocationRepository.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list strategy allocations: %w", err)
	}

	allocations := map[uuid.UUID]decimal.Decimal{}
	for _, row := range rows {
		if row.Status != model.AllocationStatus_Active {
			continue
		}
		allocations[row.StrategyID] = row.CapitalAllocation
	}

	return allocations, nil
}

func (h *SessionHandler) loadPrices(signals []*domain.Signal, date time.Time) (*l1_service.PriceCache, error) {
	symbolSet := map[string]bool{h.Config.Trading.BenchmarkSymbol: true}
	for _, s := range signals {
		symbolSet[s.Symbol] = true
	}
	for _, p := range h.PositionBook.AllPositions() {
		symbolSet[p.Symbol] = true
	}
	symbols := []string{}
	for symbol := range symbolSet {
		symbols = append(symbols, symbol)
	}

	// enough history for the longest lookback any check needs, padded
	// for weekends and holidays
	lookback := h.Config.Risk.CorrelationLookbackDays
	if h.Config.Risk.AtrLookbackDays > lookback {
		lookback = h.Config.Risk.AtrLookbackDays
	}
	if regimeLookbackDays > lookback {
		lookback = regimeLookbackDays
	}
	start := date.AddDate(0, 0, -(lookback*2 + 10))

	return h.PriceService.LoadCache(symbols, start, date)
}

// equityHistory rebuilds the session equity curve from trailing broker
// snapshots. The broker's portfolio value is the system of record here,
// not the local book.
func (h *SessionHandler) equityHistory(date time.Time) ([]float64, error) {
	rows, err := h.BrokerStateRepository.ListSince(date.AddDate(0, 0, -equityHistoryDays))
	if err != nil {
		return nil, fmt.Errorf("failed to load equity history: %w", err)
	}

	curve := []float64{}
	for _, row := range rows {
		curve = append(curve, row.PortfolioValue.InexactFloat64())
	}

	return curve, nil
}

func (h *SessionHandler) processSignal(
	ctx context.Context,
	report *domain.DailyReport,
	signal *domain.Signal,
	prices *l1_service.PriceCache,
	date time.Time,
	allocations map[uuid.UUID]decimal.Decimal,
) *domain.Trade {
	log := logger.FromContext(ctx)

	record := func(tx *sql.Tx, state domain.TerminalState, reason string) {
		if err := h.Ledger.Record(ctx, tx, signal, state, reason); err != nil {
			report.ErrorCount++
			log.Errorw("failed to record terminal state", "signalID", signal.SignalID, "error", err)
		}
	}

	allocation, ok := allocations[signal.StrategyID]
	if !ok {
		record(nil, domain.TerminalState_Error, fmt.Sprintf("no active capital allocation for strategy %s", signal.StrategyID))
		return nil
	}

	priceMap := map[string]decimal.Decimal{}
	for _, p := range h.PositionBook.AllPositions() {
		if price, err := prices.Get(p.Symbol, date); err == nil {
			priceMap[p.Symbol] = decimal.NewFromFloat(price)
		}
	}

	order, rejection := h.RiskGate.Evaluate(ctx, l3_service.EvaluateInput{
		Signal:     signal,
		Prices:     prices,
		AsOf:       date,
		Regime:     report.Regime,
		Allocation: allocation,
		Equity:     h.PositionBook.Equity(priceMap),
	})
	if rejection != nil {
		record(nil, rejection.State, rejection.Reason)
		return nil
	}

	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		report.ErrorCount++
		record(nil, domain.TerminalState_Error, fmt.Sprintf("failed to begin tx: %v", err))
		return nil
	}

	trade, err := h.Executor.Execute(ctx, tx, order, report.Regime)
	if err != nil {
		tx.Rollback()

		var transient repository.BrokerTransientError
		switch {
		case errors.As(err, &transient):
			record(nil, domain.TerminalState_RejectedByBroker, fmt.Sprintf("broker retries exhausted: %v", transient))
		case errors.Is(err, l3_service.ErrSystemPaused):
			record(nil, domain.TerminalState_Error, "system paused mid-session")
		default:
			report.ErrorCount++
			record(nil, domain.TerminalState_Error, fmt.Sprintf("execution failed: %v", err))
		}
		return nil
	}

	record(tx, domain.TerminalState_Executed, fmt.Sprintf("filled %d shares at %s", trade.Shares, trade.ExecPrice.StringFixed(2)))

	if err := tx.Commit(); err != nil {
		report.ErrorCount++
		log.Errorw("failed to commit trade tx", "signalID", signal.SignalID, "error", err)
		return nil
	}

	return trade
}

func (h *SessionHandler) finalizeReport(ctx context.Context, report *domain.DailyReport, signals []*domain.Signal, equityCurve []float64, date time.Time) {
	log := logger.FromContext(ctx)

	report.SignalCounts = h.Ledger.Counts()
	report.UnresolvedSignals = h.Ledger.ValidateRun(signals)
	if report.UnresolvedSignals > 0 {
		log.Errorw("session left signals without terminal states", "count", report.UnresolvedSignals)
	}

	tripped, _ := h.RiskGate.BreakerTripped()
	report.CircuitBreaker = tripped
	report.Drawdown = calculator.MaxDrawdown(equityCurve)

	for _, p := range h.PositionBook.AllPositions() {
		strategy := p.StrategyID.String()
		exposure := h.PositionBook.Exposure(p.StrategyID)
		report.Exposure[strategy] = exposure.StringFixed(2)
	}
	if len(equityCurve) > 0 {
		equity := equityCurve[len(equityCurve)-1]
		if equity > 0 {
			report.PortfolioHeat = h.PositionBook.GlobalExposure().InexactFloat64() / equity
		}
	}

	metrics, err := calculator.CalculateMetrics(calculator.CalculateMetricsInput{
		DailyReturns:   calculator.DailyReturns(equityCurve),
		ClosedTradePnl: h.PositionBook.ClosedTradePnl(),
		StartValue:     firstOrZero(equityCurve),
		EndValue:       lastOrZero(equityCurve),
	})
	if err != nil {
		report.ErrorCount++
		log.Errorw("failed to compute run metrics", "error", err)
		return
	}
	report.Metrics = metrics
}

func firstOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}

func lastOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}
