package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade is an executed fill. Created only by the executor and immutable
// after creation.
type Trade struct {
	TradeID        uuid.UUID
	StrategyID     uuid.UUID
	SignalID       *uuid.UUID
	Symbol         string
	Side           Side
	Shares         int64
	RequestedPrice decimal.Decimal
	ExecPrice      decimal.Decimal
	SlippageCost   decimal.Decimal
	CommissionCost decimal.Decimal
	TotalCost      decimal.Decimal
	Notional       decimal.Decimal
	ExecutedAt     time.Time
	RealizedPnl    *decimal.Decimal
}

// ExpectedNotional returns exec_price * shares + total_cost for buys,
// exec_price * shares - total_cost for sells.
func (t Trade) ExpectedNotional() decimal.Decimal {
	gross := t.ExecPrice.Mul(decimal.NewFromInt(t.Shares))
	if t.Side == Side_Sell {
		return gross.Sub(t.TotalCost)
	}
	return gross.Add(t.TotalCost)
}

// SizedOrder is a signal that survived every risk check, with the share
// count the sizing rule produced. It is the only thing the executor accepts.
type SizedOrder struct {
	Signal         Signal
	Shares         int64
	RequestedPrice decimal.Decimal
	StopDistance   decimal.Decimal
}
