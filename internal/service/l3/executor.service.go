package l3_service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/domain"
	"tradeloop/internal/logger"
	"tradeloop/internal/repository"
	l1_service "tradeloop/internal/service/l1"
	l2_service "tradeloop/internal/service/l2"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrSystemPaused is returned for every order submitted while the system
// is PAUSED. The refusal lives here so no call site can forget it.
var ErrSystemPaused = errors.New("system is paused, refusing order submission")

// StatusSource reports whether the system may trade. The reconciliation
// engine is the live implementation; backtests use AlwaysActive.
type StatusSource interface {
	SystemStatus(ctx context.Context) (domain.SystemStatus, error)
}

type alwaysActive struct{}

func (alwaysActive) SystemStatus(ctx context.Context) (domain.SystemStatus, error) {
	return domain.SystemStatus_Active, nil
}

func AlwaysActive() StatusSource {
	return alwaysActive{}
}

// ExecutorService turns an approved, sized order into a trade. The
// simulated implementation fills against the cost model; the broker
// implementation submits to Alpaca and maps the response back. Both apply
// the resulting trade to the position book before returning.
type ExecutorService interface {
	Execute(ctx context.Context, tx *sql.Tx, order *domain.SizedOrder, regime domain.Regime) (*domain.Trade, error)
}

type simulatedExecutorHandler struct {
	CostService     l1_service.CostService
	PositionBook    l2_service.PositionBookService
	TradeRepository repository.TradeRepository
	Status          StatusSource
}

func NewSimulatedExecutor(
	costService l1_service.CostService,
	positionBook l2_service.PositionBookService,
	tradeRepository repository.TradeRepository,
	status StatusSource,
) ExecutorService {
	return &simulatedExecutorHandler{
		CostService:     costService,
		PositionBook:    positionBook,
		TradeRepository: tradeRepository,
		Status:          status,
	}
}

func (h *simulatedExecutorHandler) Execute(ctx context.Context, tx *sql.Tx, order *domain.SizedOrder, regime domain.Regime) (*domain.Trade, error) {
	if err := requireActive(ctx, h.Status); err != nil {
		return nil, err
	}

	breakdown := h.CostService.Cost(order.RequestedPrice, order.Shares, order.Signal.Side, regime)
	trade := buildTrade(order, breakdown.ExecPrice, breakdown.Slippage, breakdown.Commission, order.Signal.AsOfDate)

	if err := h.PositionBook.Apply(tx, trade); err != nil {
		return nil, err
	}

	if err := persistTrade(tx, h.TradeRepository, trade); err != nil {
		return nil, err
	}

	return trade, nil
}

type brokerExecutorHandler struct {
	CostService      l1_service.CostService
	PositionBook     l2_service.PositionBookService
	TradeRepository  repository.TradeRepository
	BrokerRepository repository.BrokerRepository
	Status           StatusSource
	now              func() time.Time
}

func NewBrokerExecutor(
	costService l1_service.CostService,
	positionBook l2_service.PositionBookService,
	tradeRepository repository.TradeRepository,
	brokerRepository repository.BrokerRepository,
	status StatusSource,
) ExecutorService {
	return &brokerExecutorHandler{
		CostService:      costService,
		PositionBook:     positionBook,
		TradeRepository:  tradeRepository,
		BrokerRepository: brokerRepository,
		Status:           status,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (h *brokerExecutorHandler) Execute(ctx context.Context, tx *sql.Tx, order *domain.SizedOrder, regime domain.Regime) (*domain.Trade, error) {
	log := logger.FromContext(ctx)

	if err := requireActive(ctx, h.Status); err != nil {
		return nil, err
	}

	// client order id is the signal id, so a retried submission after a
	// crash dedupes at the broker
	response, err := h.BrokerRepository.SubmitOrder(ctx, repository.SubmitOrderRequest{
		ClientOrderID: order.Signal.SignalID,
		Symbol:        order.Signal.Symbol,
		Shares:        order.Shares,
		Side:          order.Signal.Side,
		LimitPrice:    &order.RequestedPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit order for signal %s: %w", order.Signal.SignalID, err)
	}

	breakdown := h.CostService.Cost(order.RequestedPrice, order.Shares, order.Signal.Side, regime)
	execPrice := breakdown.ExecPrice
	slippage := breakdown.Slippage
	if response.FilledPrice != nil {
		execPrice = *response.FilledPrice
		slippage = execPrice.Sub(order.RequestedPrice).Abs().Mul(decimal.NewFromInt(order.Shares))
	} else {
		log.Warnw("broker returned no fill price, falling back to modeled fill",
			"orderID", response.OrderID,
			"status", response.Status,
		)
	}

	trade := buildTrade(order, execPrice, slippage, breakdown.Commission, h.now())

	if err := h.PositionBook.Apply(tx, trade); err != nil {
		return nil, err
	}

	if err := persistTrade(tx, h.TradeRepository, trade); err != nil {
		return nil, err
	}

	return trade, nil
}

func requireActive(ctx context.Context, status StatusSource) error {
	systemStatus, err := status.SystemStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to check system status: %w", err)
	}
	if systemStatus == domain.SystemStatus_Paused {
		return ErrSystemPaused
	}

	return nil
}

func buildTrade(order *domain.SizedOrder, execPrice, slippage, commission decimal.Decimal, executedAt time.Time) *domain.Trade {
	totalCost := slippage.Add(commission)
	gross := execPrice.Mul(decimal.NewFromInt(order.Shares))

	notional := gross.Add(totalCost)
	if order.Signal.Side == domain.Side_Sell {
		notional = gross.Sub(totalCost)
	}

	signalID := order.Signal.SignalID
	return &domain.Trade{
		TradeID:        uuid.New(),
		StrategyID:     order.Signal.StrategyID,
		SignalID:       &signalID,
		Symbol:         order.Signal.Symbol,
		Side:           order.Signal.Side,
		Shares:         order.Shares,
		RequestedPrice: order.RequestedPrice,
		ExecPrice:      execPrice,
		SlippageCost:   slippage,
		CommissionCost: commission,
		TotalCost:      totalCost,
		Notional:       notional,
		ExecutedAt:     executedAt,
	}
}

func persistTrade(tx *sql.Tx, tradeRepository repository.TradeRepository, trade *domain.Trade) error {
	if tradeRepository == nil {
		return nil
	}
	_, err := tradeRepository.Add(tx, model.Trade{
		TradeID:        trade.TradeID,
		StrategyID:     trade.StrategyID,
		SignalID:       trade.SignalID,
		Symbol:         trade.Symbol,
		Side:           model.TradeSide(trade.Side),
		Shares:         trade.Shares,
		RequestedPrice: trade.RequestedPrice,
		ExecPrice:      trade.ExecPrice,
		SlippageCost:   trade.SlippageCost,
		CommissionCost: trade.CommissionCost,
		TotalCost:      trade.TotalCost,
		Notional:       trade.Notional,
		ExecutedAt:     trade.ExecutedAt,
		RealizedPnl:    trade.RealizedPnl,
	})

	return err
}
