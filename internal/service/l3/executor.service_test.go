package l3_service

import (
	"context"
	"errors"
	"testing"

	"tradeloop/internal/config"
	"tradeloop/internal/domain"
	"tradeloop/internal/repository"
	mock_repository "tradeloop/internal/repository/mocks"
	l1_service "tradeloop/internal/service/l1"
	l2_service "tradeloop/internal/service/l2"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pausedStatus struct{}

func (pausedStatus) SystemStatus(ctx context.Context) (domain.SystemStatus, error) {
	return domain.SystemStatus_Paused, nil
}

func testCostService() l1_service.CostService {
	return l1_service.NewCostService(&config.Config{
		Cost: config.CostConfig{
			SlippagePct:        0.001,
			CommissionFlat:     1,
			CommissionPerShare: 0.005,
		},
	})
}

func testOrder(side domain.Side, shares int64) *domain.SizedOrder {
	return &domain.SizedOrder{
		Signal: domain.Signal{
			SignalID:   uuid.New(),
			StrategyID: uuid.New(),
			Symbol:     "AAPL",
			Side:       side,
		},
		Shares:         shares,
		RequestedPrice: decimal.NewFromInt(150),
	}
}

func Test_SimulatedExecutor(t *testing.T) {
	ctx := context.Background()

	t.Run("buy satisfies the notional formula", func(t *testing.T) {
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		executor := NewSimulatedExecutor(testCostService(), book, nil, AlwaysActive())

		trade, err := executor.Execute(ctx, nil, testOrder(domain.Side_Buy, 10), domain.Regime_Normal)
		require.NoError(t, err)

		require.True(t, trade.Notional.Equal(trade.ExpectedNotional()), trade.Notional.String())
		require.True(t, trade.TotalCost.Equal(trade.SlippageCost.Add(trade.CommissionCost)))
		require.True(t, trade.ExecPrice.GreaterThan(trade.RequestedPrice))

		// the fill landed in the book
		require.True(t, book.Cash().Equal(decimal.NewFromInt(100_000).Sub(trade.Notional)))
		require.Equal(t, int64(10), book.Position(trade.StrategyID, "AAPL").Shares)
	})

	t.Run("sell satisfies the notional formula", func(t *testing.T) {
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		executor := NewSimulatedExecutor(testCostService(), book, nil, AlwaysActive())

		buy := testOrder(domain.Side_Buy, 10)
		_, err := executor.Execute(ctx, nil, buy, domain.Regime_Normal)
		require.NoError(t, err)

		sell := testOrder(domain.Side_Sell, 10)
		sell.Signal.StrategyID = buy.Signal.StrategyID

		trade, err := executor.Execute(ctx, nil, sell, domain.Regime_Normal)
		require.NoError(t, err)

		require.True(t, trade.Notional.Equal(trade.ExpectedNotional()))
		require.True(t, trade.ExecPrice.LessThan(trade.RequestedPrice))
		require.NotNil(t, trade.RealizedPnl)
	})

	t.Run("refuses orders while paused", func(t *testing.T) {
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		executor := NewSimulatedExecutor(testCostService(), book, nil, pausedStatus{})

		_, err := executor.Execute(ctx, nil, testOrder(domain.Side_Buy, 10), domain.Regime_Normal)
		require.ErrorIs(t, err, ErrSystemPaused)

		// nothing reached the book
		require.True(t, book.Cash().Equal(decimal.NewFromInt(100_000)))
	})
}

func Test_BrokerExecutor(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the broker fill onto the trade", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		broker := mock_repository.NewMockBrokerRepository(ctrl)
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		executor := NewBrokerExecutor(testCostService(), book, nil, broker, AlwaysActive())

		order := testOrder(domain.Side_Buy, 10)
		filled := decimal.NewFromFloat(150.25)
		broker.EXPECT().SubmitOrder(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req repository.SubmitOrderRequest) (*repository.SubmitOrderResponse, error) {
				require.Equal(t, order.Signal.SignalID, req.ClientOrderID)
				require.Equal(t, "AAPL", req.Symbol)
				require.Equal(t, int64(10), req.Shares)
				return &repository.SubmitOrderResponse{
					OrderID:     "abc123",
					Status:      "filled",
					FilledQty:   decimal.NewFromInt(10),
					FilledPrice: &filled,
				}, nil
			},
		)

		trade, err := executor.Execute(ctx, nil, order, domain.Regime_Normal)
		require.NoError(t, err)

		require.True(t, trade.ExecPrice.Equal(filled))
		// slippage is the realized deviation from the requested price
		require.True(t, trade.SlippageCost.Equal(decimal.NewFromFloat(2.5)), trade.SlippageCost.String())
		require.True(t, trade.Notional.Equal(trade.ExpectedNotional()))
	})

	t.Run("transient broker failure surfaces as BrokerTransientError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		broker := mock_repository.NewMockBrokerRepository(ctrl)
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		executor := NewBrokerExecutor(testCostService(), book, nil, broker, AlwaysActive())

		broker.EXPECT().SubmitOrder(gomock.Any(), gomock.Any()).Return(
			nil,
			repository.BrokerTransientError{Op: "SubmitOrder", Err: errors.New("deadline exceeded")},
		)

		_, err := executor.Execute(ctx, nil, testOrder(domain.Side_Buy, 10), domain.Regime_Normal)
		require.Error(t, err)

		var transient repository.BrokerTransientError
		require.True(t, errors.As(err, &transient))
		require.True(t, book.Cash().Equal(decimal.NewFromInt(100_000)))
	})

	t.Run("refuses orders while paused without touching the broker", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		broker := mock_repository.NewMockBrokerRepository(ctrl)
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))
		executor := NewBrokerExecutor(testCostService(), book, nil, broker, pausedStatus{})

		_, err := executor.Execute(ctx, nil, testOrder(domain.Side_Buy, 10), domain.Regime_Normal)
		require.ErrorIs(t, err, ErrSystemPaused)
	})
}
