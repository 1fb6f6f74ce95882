package repository

import (
	"context"
	"fmt"
	"time"

	"tradeloop/internal/domain"
	"tradeloop/internal/logger"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BrokerTransientError marks a broker call that failed but is worth
// retrying. Once the retries are exhausted the caller converts the
// failure into a terminal REJECTED_BY_BROKER disposition instead of
// propagating it.
type BrokerTransientError struct {
	Op  string
	Err error
}

func (e BrokerTransientError) Error() string {
	return fmt.Sprintf("transient broker failure in %s: %v", e.Op, e.Err)
}

func (e BrokerTransientError) Unwrap() error {
	return e.Err
}

type BrokerAccount struct {
	Cash           decimal.Decimal
	PortfolioValue decimal.Decimal
	BuyingPower    decimal.Decimal
}

type SubmitOrderRequest struct {
	ClientOrderID uuid.UUID
	Symbol        string
	Shares        int64
	Side          domain.Side
	LimitPrice    *decimal.Decimal
}

type SubmitOrderResponse struct {
	OrderID     string
	Status      string
	FilledQty   decimal.Decimal
	FilledPrice *decimal.Decimal
}

// RetryPolicy bounds every network call: per-attempt deadline, capped
// attempts, linear backoff between them. A call exceeding the deadline is
// a transient failure, never treated as success.
type RetryPolicy struct {
	MaxRetries  int
	Backoff     time.Duration
	CallTimeout time.Duration
}

// BrokerRepository is the single gateway through which order submission
// and account/position queries reach the outside world. Retries live
// here, not at call sites.
type BrokerRepository interface {
	GetPositions(ctx context.Context) ([]domain.BrokerPosition, error)
	GetAccount(ctx context.Context) (*BrokerAccount, error)
	SubmitOrder(ctx context.Context, req SubmitOrderRequest) (*SubmitOrderResponse, error)
	IsMarketOpen(ctx context.Context) (bool, error)
}

func NewAlpacaBrokerRepository(apiKey, apiSecret, endpoint string, retry RetryPolicy) BrokerRepository {
	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   endpoint,
	})

	return alpacaBrokerHandler{
		Client: client,
		Retry:  retry,
	}
}

type alpacaBrokerHandler struct {
	Client *alpaca.Client
	Retry  RetryPolicy
}

// withRetry runs fn up to MaxRetries+1 times with backoff. Each attempt
// gets its own deadline; an attempt that outlives it counts as a failure.
func withRetry[T any](ctx context.Context, policy RetryPolicy, op string, fn func(context.Context) (T, error)) (T, error) {
	log := logger.FromContext(ctx)

	var zero T
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, BrokerTransientError{Op: op, Err: ctx.Err()}
			case <-time.After(policy.Backoff * time.Duration(attempt)):
			}
			log.Warnw("retrying broker call", "op", op, "attempt", attempt, "lastErr", lastErr)
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if policy.CallTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, policy.CallTimeout)
		}

		type result struct {
			out T
			err error
		}
		done := make(chan result, 1)
		go func() {
			out, err := fn(attemptCtx)
			done <- result{out, err}
		}()

		select {
		case r := <-done:
			if cancel != nil {
				cancel()
			}
			if r.err == nil {
				return r.out, nil
			}
			lastErr = r.err
		case <-attemptCtx.Done():
			if cancel != nil {
				cancel()
			}
			lastErr = fmt.Errorf("broker call deadline exceeded: %w", attemptCtx.Err())
		}
	}

	return zero, BrokerTransientError{Op: op, Err: lastErr}
}

func (h alpacaBrokerHandler) GetPositions(ctx context.Context) ([]domain.BrokerPosition, error) {
	positions, err := withRetry(ctx, h.Retry, "GetPositions", func(context.Context) ([]alpaca.Position, error) {
		return h.Client.GetPositions()
	})
	if err != nil {
		return nil, err
	}

	out := []domain.BrokerPosition{}
	for _, p := range positions {
		avgPrice := decimal.Zero
		if p.AvgEntryPrice.IsPositive() {
			avgPrice = p.AvgEntryPrice
		}
		out = append(out, domain.BrokerPosition{
			Symbol:   p.Symbol,
			Shares:   p.Qty,
			AvgPrice: avgPrice,
		})
	}

	return out, nil
}

func (h alpacaBrokerHandler) GetAccount(ctx context.Context) (*BrokerAccount, error) {
	acct, err := withRetry(ctx, h.Retry, "GetAccount", func(context.Context) (*alpaca.Account, error) {
		return h.Client.GetAccount()
	})
	if err != nil {
		return nil, err
	}

	return &BrokerAccount{
		Cash:           acct.Cash,
		PortfolioValue: acct.PortfolioValue,
		BuyingPower:    acct.BuyingPower,
	}, nil
}

func (h alpacaBrokerHandler) IsMarketOpen(ctx context.Context) (bool, error) {
	clock, err := withRetry(ctx, h.Retry, "GetClock", func(context.Context) (*alpaca.Clock, error) {
		return h.Client.GetClock()
	})
	if err != nil {
		return false, err
	}
	return clock.IsOpen, nil
}

func (h alpacaBrokerHandler) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (*SubmitOrderResponse, error) {
	if req.Shares <= 0 {
		return nil, fmt.Errorf("order of %d %s %s not sent: shares must be positive", req.Shares, req.Side, req.Symbol)
	}

	side := alpaca.Buy
	if req.Side == domain.Side_Sell {
		side = alpaca.Sell
	}
	qty := decimal.NewFromInt(req.Shares)
	orderType := alpaca.Market
	if req.LimitPrice != nil {
		orderType = alpaca.Limit
	}

	order, err := withRetry(ctx, h.Retry, "PlaceOrder", func(context.Context) (*alpaca.Order, error) {
		return h.Client.PlaceOrder(alpaca.PlaceOrderRequest{
			Symbol:        req.Symbol,
			Qty:           &qty,
			Side:          side,
			Type:          orderType,
			LimitPrice:    req.LimitPrice,
			TimeInForce:   alpaca.Day,
			ClientOrderID: req.ClientOrderID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return &SubmitOrderResponse{
		OrderID:     order.ID,
		Status:      string(order.Status),
		FilledQty:   order.FilledQty,
		FilledPrice: order.FilledAvgPrice,
	}, nil
}
