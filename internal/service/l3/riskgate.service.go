package l3_service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"tradeloop/internal/calculator"
	"tradeloop/internal/config"
	"tradeloop/internal/domain"
	"tradeloop/internal/logger"
	l1_service "tradeloop/internal/service/l1"
	l2_service "tradeloop/internal/service/l2"

	"github.com/shopspring/decimal"
)

// Rejection names why the risk gate refused a signal. The state goes to
// the ledger verbatim.
type Rejection struct {
	State  domain.TerminalState
	Reason string
}

type EvaluateInput struct {
	Signal     *domain.Signal
	Prices     *l1_service.PriceCache
	AsOf       time.Time
	Regime     domain.Regime
	Allocation decimal.Decimal
	Equity     decimal.Decimal
}

// RiskGateService turns a raw signal into a sized order or a named
// rejection. Checks run in a fixed order and the first failure wins:
// circuit breaker, correlation, sizing, heat. The breaker runs first
// because a tripped session refuses every new entry no matter what the
// other checks would say.
type RiskGateService interface {
	Evaluate(ctx context.Context, in EvaluateInput) (*domain.SizedOrder, *Rejection)
	UpdateBreaker(ctx context.Context, equityCurve []float64) bool
	TripBreaker(reason string)
	BreakerTripped() (bool, string)
	ResetBreaker()
}

type riskGateHandler struct {
	Config       *config.Config
	PositionBook l2_service.PositionBookService

	mu            sync.Mutex
	tripped       bool
	trippedReason string
}

func NewRiskGateService(cfg *config.Config, positionBook l2_service.PositionBookService) RiskGateService {
	return &riskGateHandler{
		Config:       cfg,
		PositionBook: positionBook,
	}
}

func (h *riskGateHandler) Evaluate(ctx context.Context, in EvaluateInput) (*domain.SizedOrder, *Rejection) {
	if tripped, reason := h.BreakerTripped(); tripped {
		if in.Signal.Side == domain.Side_Buy || !h.Config.ExitsAllowedWhenTripped() {
			return nil, &Rejection{
				State:  domain.TerminalState_RejectedByCircuitBreaker,
				Reason: reason,
			}
		}
		// tripped, but policy allows exits through
	}

	if in.Signal.Side == domain.Side_Sell {
		return h.sizeExit(in)
	}

	if rejection := h.checkCorrelation(ctx, in); rejection != nil {
		return nil, rejection
	}

	order, rejection := h.sizeEntry(in)
	if rejection != nil {
		return nil, rejection
	}

	if rejection := h.checkHeat(in, order); rejection != nil {
		return nil, rejection
	}

	return order, nil
}

// sizeExit closes the full held position. Selling what isn't held is a
// sizing failure, not an error.
func (h *riskGateHandler) sizeExit(in EvaluateInput) (*domain.SizedOrder, *Rejection) {
	held := h.PositionBook.Position(in.Signal.StrategyID, in.Signal.Symbol)
	if held == nil || held.Shares == 0 {
		return nil, &Rejection{
			State:  domain.TerminalState_RejectedBySizing,
			Reason: fmt.Sprintf("no open position in %s to exit", in.Signal.Symbol),
		}
	}

	price, err := in.Prices.Get(in.Signal.Symbol, in.AsOf)
	if err != nil {
		return nil, &Rejection{
			State:  domain.TerminalState_Error,
			Reason: fmt.Sprintf("failed to price exit: %v", err),
		}
	}

	return &domain.SizedOrder{
		Signal:         *in.Signal,
		Shares:         held.Shares,
		RequestedPrice: decimal.NewFromFloat(price),
	}, nil
}

func (h *riskGateHandler) checkCorrelation(ctx context.Context, in EvaluateInput) *Rejection {
	log := logger.FromContext(ctx)
	lookback := h.Config.Risk.CorrelationLookbackDays

	candidateSeries, err := in.Prices.SeriesEndingAt(in.Signal.Symbol, in.AsOf, lookback+1)
	if err != nil {
		return &Rejection{
			State:  domain.TerminalState_Error,
			Reason: fmt.Sprintf("failed to load %s price series: %v", in.Signal.Symbol, err),
		}
	}

	for _, position := range h.PositionBook.AllPositions() {
		if position.Symbol == in.Signal.Symbol {
			continue
		}
		heldSeries, err := in.Prices.SeriesEndingAt(position.Symbol, in.AsOf, lookback+1)
		if err != nil {
			log.Warnf("skipping correlation against %s: %v", position.Symbol, err)
			continue
		}
		corr, err := calculator.ReturnCorrelation(candidateSeries, heldSeries)
		if err != nil {
			log.Warnf("skipping correlation against %s: %v", position.Symbol, err)
			continue
		}
		if corr > h.Config.Risk.CorrelationThreshold {
			return &Rejection{
				State:  domain.TerminalState_RejectedByCorrelation,
				Reason: fmt.Sprintf("correlation %.2f with open position %s exceeds %.2f", corr, position.Symbol, h.Config.Risk.CorrelationThreshold),
			}
		}
	}

	return nil
}

// sizeEntry applies the volatility-adjusted sizing rule: risk capital per
// trade divided by the ATR-based stop distance, floored to whole shares.
func (h *riskGateHandler) sizeEntry(in EvaluateInput) (*domain.SizedOrder, *Rejection) {
	price, err := in.Prices.Get(in.Signal.Symbol, in.AsOf)
	if err != nil {
		return nil, &Rejection{
			State:  domain.TerminalState_Error,
			Reason: fmt.Sprintf("failed to price %s: %v", in.Signal.Symbol, err),
		}
	}

	series, err := in.Prices.SeriesEndingAt(in.Signal.Symbol, in.AsOf, h.Config.Risk.AtrLookbackDays+1)
	if err != nil {
		return nil, &Rejection{
			State:  domain.TerminalState_Error,
			Reason: fmt.Sprintf("failed to load %s price series: %v", in.Signal.Symbol, err),
		}
	}
	atr, err := calculator.AverageTrueRange(series, h.Config.Risk.AtrLookbackDays)
	if err != nil {
		return nil, &Rejection{
			State:  domain.TerminalState_Error,
			Reason: fmt.Sprintf("failed to compute atr for %s: %v", in.Signal.Symbol, err),
		}
	}

	stopDistance := atr * h.Config.Risk.AtrStopMultiple
	if stopDistance <= 0 {
		return nil, &Rejection{
			State:  domain.TerminalState_RejectedBySizing,
			Reason: fmt.Sprintf("zero stop distance for %s", in.Signal.Symbol),
		}
	}

	riskCapital := in.Allocation.InexactFloat64() * h.Config.Risk.RiskPerTradePct
	shares := int64(math.Floor(riskCapital / stopDistance))
	if shares == 0 {
		return nil, &Rejection{
			State:  domain.TerminalState_RejectedBySizing,
			Reason: fmt.Sprintf("sizing rule produced 0 shares (risk capital %.2f, stop distance %.4f)", riskCapital, stopDistance),
		}
	}

	return &domain.SizedOrder{
		Signal:         *in.Signal,
		Shares:         shares,
		RequestedPrice: decimal.NewFromFloat(price),
		StopDistance:   decimal.NewFromFloat(stopDistance),
	}, nil
}

func (h *riskGateHandler) checkHeat(in EvaluateInput, order *domain.SizedOrder) *Rejection {
	if in.Equity.IsZero() {
		return &Rejection{
			State:  domain.TerminalState_RejectedByHeat,
			Reason: "zero equity",
		}
	}

	newNotional := order.RequestedPrice.Mul(decimal.NewFromInt(order.Shares))
	heat := h.PositionBook.GlobalExposure().Add(newNotional).Div(in.Equity).InexactFloat64()
	ceiling := h.Config.HeatCeilingFor(in.Regime)
	if heat > ceiling {
		return &Rejection{
			State:  domain.TerminalState_RejectedByHeat,
			Reason: fmt.Sprintf("portfolio heat %.4f exceeds %.4f ceiling (%s regime)", heat, ceiling, in.Regime),
		}
	}

	return nil
}

// UpdateBreaker checks the session equity curve against the drawdown and
// realized-vol thresholds and trips the breaker if either is breached.
// A tripped breaker stays tripped for the rest of the session.
func (h *riskGateHandler) UpdateBreaker(ctx context.Context, equityCurve []float64) bool {
	log := logger.FromContext(ctx)

	if tripped, _ := h.BreakerTripped(); tripped {
		return true
	}
	if len(equityCurve) < 2 {
		return false
	}

	if dd := calculator.MaxDrawdown(equityCurve); dd > h.Config.Risk.CircuitBreakerDrawdown {
		reason := fmt.Sprintf("drawdown %.4f breached %.4f threshold", dd, h.Config.Risk.CircuitBreakerDrawdown)
		log.Warnf("circuit breaker tripped: %s", reason)
		h.TripBreaker(reason)
		return true
	}

	returns := calculator.DailyReturns(equityCurve)
	vol, err := calculator.RealizedVol(returns)
	if err == nil && vol > h.Config.Risk.CircuitBreakerDailyVol {
		reason := fmt.Sprintf("realized vol %.4f breached %.4f threshold", vol, h.Config.Risk.CircuitBreakerDailyVol)
		log.Warnf("circuit breaker tripped: %s", reason)
		h.TripBreaker(reason)
		return true
	}

	return false
}

func (h *riskGateHandler) TripBreaker(reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tripped = true
	h.trippedReason = reason
}

func (h *riskGateHandler) BreakerTripped() (bool, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tripped, h.trippedReason
}

func (h *riskGateHandler) ResetBreaker() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tripped = false
	h.trippedReason = ""
}
