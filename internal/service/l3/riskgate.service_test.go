package l3_service

import (
	"context"
	"testing"
	"time"

	"tradeloop/internal/config"
	"tradeloop/internal/domain"
	l1_service "tradeloop/internal/service/l1"
	l2_service "tradeloop/internal/service/l2"
	"tradeloop/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testRiskConfig() *config.Config {
	return &config.Config{
		Risk: config.RiskConfig{
			CorrelationLookbackDays: 5,
			CorrelationThreshold:    0.65,
			RiskPerTradePct:         0.01,
			AtrLookbackDays:         3,
			AtrStopMultiple:         2,
			HeatCeiling:             0.5,
			HeatCeilingVolatile:     0.1,
			CircuitBreakerDrawdown:  0.03,
			CircuitBreakerDailyVol:  0.04,
			AllowExitsWhenTripped:   util.BoolPointer(true),
		},
	}
}

// XYZ trends up in an alternating +2/-1 pattern; CORR doubles it tick for
// tick (return correlation 1); DIV mirrors it (strongly negative).
func testPriceCache() *l1_service.PriceCache {
	days := []time.Time{}
	xyz := []float64{100, 102, 101, 103, 102, 104, 103, 105, 104, 106}
	div := []float64{100, 98, 99, 97, 98, 96, 97, 95, 96, 94}

	prices := map[string]map[string]float64{
		"XYZ": {}, "CORR": {}, "DIV": {},
	}
	for i := 0; i < len(xyz); i++ {
		d := time.Date(2024, 3, i+1, 0, 0, 0, 0, time.UTC)
		days = append(days, d)
		key := d.Format(time.DateOnly)
		prices["XYZ"][key] = xyz[i]
		prices["CORR"][key] = xyz[i] * 2
		prices["DIV"][key] = div[i]
	}

	return l1_service.NewPriceCacheForTests(prices, days)
}

func testEvaluateInput(signal *domain.Signal, prices *l1_service.PriceCache) EvaluateInput {
	return EvaluateInput{
		Signal:     signal,
		Prices:     prices,
		AsOf:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Regime:     domain.Regime_Normal,
		Allocation: decimal.NewFromInt(100_000),
		Equity:     decimal.NewFromInt(100_000),
	}
}

func bookWithPosition(t *testing.T, strategyID uuid.UUID, symbol string) l2_service.PositionBookService {
	t.Helper()
	book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
	err := book.Apply(nil, &domain.Trade{
		TradeID:    uuid.New(),
		StrategyID: strategyID,
		Symbol:     symbol,
		Side:       domain.Side_Buy,
		Shares:     10,
		ExecPrice:  decimal.NewFromInt(100),
		Notional:   decimal.NewFromInt(1000),
		ExecutedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return book
}

func Test_RiskGate_Evaluate(t *testing.T) {
	ctx := context.Background()
	strategyID := uuid.New()
	prices := testPriceCache()

	t.Run("uncorrelated entry passes all checks", func(t *testing.T) {
		book := bookWithPosition(t, strategyID, "XYZ")
		gate := NewRiskGateService(testRiskConfig(), book)

		signal := &domain.Signal{SignalID: uuid.New(), StrategyID: strategyID, Symbol: "DIV", Side: domain.Side_Buy}
		order, rejection := gate.Evaluate(ctx, testEvaluateInput(signal, prices))

		require.Nil(t, rejection)
		require.NotNil(t, order)
		require.Greater(t, order.Shares, int64(0))
		require.True(t, order.RequestedPrice.Equal(decimal.NewFromInt(94)), order.RequestedPrice.String())
	})

	t.Run("correlated entry rejects", func(t *testing.T) {
		book := bookWithPosition(t, strategyID, "XYZ")
		gate := NewRiskGateService(testRiskConfig(), book)

		signal := &domain.Signal{SignalID: uuid.New(), StrategyID: strategyID, Symbol: "CORR", Side: domain.Side_Buy}
		order, rejection := gate.Evaluate(ctx, testEvaluateInput(signal, prices))

		require.Nil(t, order)
		require.NotNil(t, rejection)
		require.Equal(t, domain.TerminalState_RejectedByCorrelation, rejection.State)
	})

	t.Run("zero computed shares rejects by sizing", func(t *testing.T) {
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		gate := NewRiskGateService(testRiskConfig(), book)

		signal := &domain.Signal{SignalID: uuid.New(), StrategyID: strategyID, Symbol: "DIV", Side: domain.Side_Buy}
		in := testEvaluateInput(signal, prices)
		in.Allocation = decimal.NewFromInt(100)

		order, rejection := gate.Evaluate(ctx, in)

		require.Nil(t, order)
		require.NotNil(t, rejection)
		require.Equal(t, domain.TerminalState_RejectedBySizing, rejection.State)
	})

	t.Run("heat ceiling rejects", func(t *testing.T) {
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		gate := NewRiskGateService(testRiskConfig(), book)

		signal := &domain.Signal{SignalID: uuid.New(), StrategyID: strategyID, Symbol: "DIV", Side: domain.Side_Buy}
		in := testEvaluateInput(signal, prices)
		// tiny equity makes any sized order breach the ceiling
		in.Equity = decimal.NewFromInt(1000)

		order, rejection := gate.Evaluate(ctx, in)

		require.Nil(t, order)
		require.NotNil(t, rejection)
		require.Equal(t, domain.TerminalState_RejectedByHeat, rejection.State)
	})

	t.Run("exit without a position rejects by sizing", func(t *testing.T) {
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		gate := NewRiskGateService(testRiskConfig(), book)

		signal := &domain.Signal{SignalID: uuid.New(), StrategyID: strategyID, Symbol: "DIV", Side: domain.Side_Sell}
		order, rejection := gate.Evaluate(ctx, testEvaluateInput(signal, prices))

		require.Nil(t, order)
		require.Equal(t, domain.TerminalState_RejectedBySizing, rejection.State)
	})

	t.Run("exit sizes the full held position", func(t *testing.T) {
		book := bookWithPosition(t, strategyID, "XYZ")
		gate := NewRiskGateService(testRiskConfig(), book)

		signal := &domain.Signal{SignalID: uuid.New(), StrategyID: strategyID, Symbol: "XYZ", Side: domain.Side_Sell}
		order, rejection := gate.Evaluate(ctx, testEvaluateInput(signal, prices))

		require.Nil(t, rejection)
		require.Equal(t, int64(10), order.Shares)
	})
}

func Test_RiskGate_CircuitBreaker(t *testing.T) {
	ctx := context.Background()
	strategyID := uuid.New()
	prices := testPriceCache()

	t.Run("tripped breaker rejects every new entry", func(t *testing.T) {
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		gate := NewRiskGateService(testRiskConfig(), book)
		gate.TripBreaker("drawdown breach")

		for i := 0; i < 3; i++ {
			signal := &domain.Signal{SignalID: uuid.New(), StrategyID: strategyID, Symbol: "DIV", Side: domain.Side_Buy}
			order, rejection := gate.Evaluate(ctx, testEvaluateInput(signal, prices))

			require.Nil(t, order)
			require.Equal(t, domain.TerminalState_RejectedByCircuitBreaker, rejection.State)
		}
	})

	t.Run("exits pass through a tripped breaker when policy allows", func(t *testing.T) {
		book := bookWithPosition(t, strategyID, "XYZ")
		gate := NewRiskGateService(testRiskConfig(), book)
		gate.TripBreaker("drawdown breach")

		signal := &domain.Signal{SignalID: uuid.New(), StrategyID: strategyID, Symbol: "XYZ", Side: domain.Side_Sell}
		order, rejection := gate.Evaluate(ctx, testEvaluateInput(signal, prices))

		require.Nil(t, rejection)
		require.Equal(t, int64(10), order.Shares)
	})

	t.Run("exits rejected when policy forbids them", func(t *testing.T) {
		cfg := testRiskConfig()
		cfg.Risk.AllowExitsWhenTripped = util.BoolPointer(false)
		book := bookWithPosition(t, strategyID, "XYZ")
		gate := NewRiskGateService(cfg, book)
		gate.TripBreaker("drawdown breach")

		signal := &domain.Signal{SignalID: uuid.New(), StrategyID: strategyID, Symbol: "XYZ", Side: domain.Side_Sell}
		order, rejection := gate.Evaluate(ctx, testEvaluateInput(signal, prices))

		require.Nil(t, order)
		require.Equal(t, domain.TerminalState_RejectedByCircuitBreaker, rejection.State)
	})

	t.Run("drawdown beyond threshold trips", func(t *testing.T) {
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		gate := NewRiskGateService(testRiskConfig(), book)

		require.False(t, gate.UpdateBreaker(ctx, []float64{100_000, 99_000}))
		require.True(t, gate.UpdateBreaker(ctx, []float64{100_000, 96_000}))

		tripped, reason := gate.BreakerTripped()
		require.True(t, tripped)
		require.NotEmpty(t, reason)
	})

	t.Run("reset clears the trip", func(t *testing.T) {
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		gate := NewRiskGateService(testRiskConfig(), book)
		gate.TripBreaker("x")
		gate.ResetBreaker()

		tripped, _ := gate.BreakerTripped()
		require.False(t, tripped)
	})
}
