package l2_service

import (
	"testing"
	"time"

	"tradeloop/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func buyTrade(strategyID uuid.UUID, symbol string, shares int64, execPrice, totalCost decimal.Decimal) *domain.Trade {
	gross := execPrice.Mul(decimal.NewFromInt(shares))
	return &domain.Trade{
		TradeID:    uuid.New(),
		StrategyID: strategyID,
		Symbol:     symbol,
		Side:       domain.Side_Buy,
		Shares:     shares,
		ExecPrice:  execPrice,
		TotalCost:  totalCost,
		Notional:   gross.Add(totalCost),
		ExecutedAt: time.Now().UTC(),
	}
}

func sellTrade(strategyID uuid.UUID, symbol string, shares int64, execPrice, totalCost decimal.Decimal) *domain.Trade {
	gross := execPrice.Mul(decimal.NewFromInt(shares))
	return &domain.Trade{
		TradeID:    uuid.New(),
		StrategyID: strategyID,
		Symbol:     symbol,
		Side:       domain.Side_Sell,
		Shares:     shares,
		ExecPrice:  execPrice,
		TotalCost:  totalCost,
		Notional:   gross.Sub(totalCost),
		ExecutedAt: time.Now().UTC(),
	}
}

func Test_PositionBook_Apply(t *testing.T) {
	strategyID := uuid.New()

	t.Run("buy from flat", func(t *testing.T) {
		book := NewPositionBookService(nil, decimal.NewFromInt(100_000))

		// 10 shares @ 150.00 with 2.30 of costs: notional 1502.30
		trade := buyTrade(strategyID, "AAPL", 10, decimal.NewFromInt(150), decimal.NewFromFloat(2.30))
		require.NoError(t, book.Apply(nil, trade))

		position := book.Position(strategyID, "AAPL")
		require.NotNil(t, position)
		require.Equal(t, int64(10), position.Shares)
		require.True(t, position.AvgPrice.Equal(decimal.NewFromInt(150)), position.AvgPrice.String())

		// cash decreases by exactly the trade's notional
		require.True(t, book.Cash().Equal(decimal.NewFromFloat(98_497.70)), book.Cash().String())
	})

	t.Run("second buy weights the average price", func(t *testing.T) {
		book := NewPositionBookService(nil, decimal.NewFromInt(100_000))

		require.NoError(t, book.Apply(nil, buyTrade(strategyID, "AAPL", 10, decimal.NewFromInt(100), decimal.Zero)))
		require.NoError(t, book.Apply(nil, buyTrade(strategyID, "AAPL", 30, decimal.NewFromInt(120), decimal.Zero)))

		position := book.Position(strategyID, "AAPL")
		require.Equal(t, int64(40), position.Shares)
		require.True(t, position.AvgPrice.Equal(decimal.NewFromInt(115)), position.AvgPrice.String())
	})

	t.Run("sell realizes pnl net of costs", func(t *testing.T) {
		book := NewPositionBookService(nil, decimal.NewFromInt(100_000))

		require.NoError(t, book.Apply(nil, buyTrade(strategyID, "AAPL", 10, decimal.NewFromInt(100), decimal.Zero)))

		sell := sellTrade(strategyID, "AAPL", 4, decimal.NewFromInt(110), decimal.NewFromInt(2))
		require.NoError(t, book.Apply(nil, sell))

		// (110-100)*4 - 2
		require.NotNil(t, sell.RealizedPnl)
		require.True(t, sell.RealizedPnl.Equal(decimal.NewFromInt(38)), sell.RealizedPnl.String())

		position := book.Position(strategyID, "AAPL")
		require.Equal(t, int64(6), position.Shares)

		pnls := book.ClosedTradePnl()
		require.Len(t, pnls, 1)
		require.True(t, pnls[0].Equal(decimal.NewFromInt(38)))
	})

	t.Run("full close deletes the position", func(t *testing.T) {
		book := NewPositionBookService(nil, decimal.NewFromInt(100_000))

		require.NoError(t, book.Apply(nil, buyTrade(strategyID, "AAPL", 10, decimal.NewFromInt(100), decimal.Zero)))
		require.NoError(t, book.Apply(nil, sellTrade(strategyID, "AAPL", 10, decimal.NewFromInt(100), decimal.Zero)))

		require.Nil(t, book.Position(strategyID, "AAPL"))
		require.Empty(t, book.AllPositions())
	})

	t.Run("overselling is a NegativeShareError", func(t *testing.T) {
		book := NewPositionBookService(nil, decimal.NewFromInt(100_000))

		require.NoError(t, book.Apply(nil, buyTrade(strategyID, "AAPL", 5, decimal.NewFromInt(100), decimal.Zero)))

		err := book.Apply(nil, sellTrade(strategyID, "AAPL", 6, decimal.NewFromInt(100), decimal.Zero))
		require.Error(t, err)

		negative, ok := err.(domain.NegativeShareError)
		require.True(t, ok)
		require.Equal(t, int64(5), negative.Held)
		require.Equal(t, int64(6), negative.Selling)

		// the book is untouched
		require.Equal(t, int64(5), book.Position(strategyID, "AAPL").Shares)
	})

	t.Run("selling with no position at all", func(t *testing.T) {
		book := NewPositionBookService(nil, decimal.NewFromInt(100_000))

		err := book.Apply(nil, sellTrade(strategyID, "AAPL", 1, decimal.NewFromInt(100), decimal.Zero))
		require.Error(t, err)
	})

	t.Run("zero-share sell of an unheld symbol is rejected, not a panic", func(t *testing.T) {
		book := NewPositionBookService(nil, decimal.NewFromInt(100_000))

		err := book.Apply(nil, sellTrade(strategyID, "AAPL", 0, decimal.NewFromInt(100), decimal.Zero))
		require.Error(t, err)

		negative, ok := err.(domain.NegativeShareError)
		require.True(t, ok)
		require.Equal(t, int64(0), negative.Held)
		require.Equal(t, int64(0), negative.Selling)
		require.True(t, book.Cash().Equal(decimal.NewFromInt(100_000)))
	})
}

func Test_PositionBook_Exposure(t *testing.T) {
	strategyA := uuid.New()
	strategyB := uuid.New()
	book := NewPositionBookService(nil, decimal.NewFromInt(100_000))

	require.NoError(t, book.Apply(nil, buyTrade(strategyA, "AAPL", 10, decimal.NewFromInt(100), decimal.Zero)))
	require.NoError(t, book.Apply(nil, buyTrade(strategyB, "MSFT", 5, decimal.NewFromInt(200), decimal.Zero)))

	require.True(t, book.Exposure(strategyA).Equal(decimal.NewFromInt(1000)))
	require.True(t, book.Exposure(strategyB).Equal(decimal.NewFromInt(1000)))
	require.True(t, book.GlobalExposure().Equal(decimal.NewFromInt(2000)))
}

func Test_PositionBook_Equity(t *testing.T) {
	strategyID := uuid.New()
	book := NewPositionBookService(nil, decimal.NewFromInt(10_000))

	require.NoError(t, book.Apply(nil, buyTrade(strategyID, "AAPL", 10, decimal.NewFromInt(100), decimal.Zero)))

	t.Run("marks at supplied prices", func(t *testing.T) {
		equity := book.Equity(map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(110)})
		// 9000 cash + 10*110
		require.True(t, equity.Equal(decimal.NewFromInt(10_100)), equity.String())
	})

	t.Run("missing price falls back to cost", func(t *testing.T) {
		equity := book.Equity(nil)
		require.True(t, equity.Equal(decimal.NewFromInt(10_000)), equity.String())
	})
}

func Test_PositionBook_Snapshot(t *testing.T) {
	strategyID := uuid.New()
	book := NewPositionBookService(nil, decimal.NewFromInt(50_000))

	require.NoError(t, book.Apply(nil, buyTrade(strategyID, "AAPL", 10, decimal.NewFromInt(100), decimal.Zero)))

	snapshot := book.Snapshot(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))

	// mutating the snapshot must not reach the book
	snapshot.Positions["AAPL"].Shares = 999
	require.Equal(t, int64(10), book.Position(strategyID, "AAPL").Shares)
	require.True(t, snapshot.Cash.Equal(decimal.NewFromInt(49_000)))
}
