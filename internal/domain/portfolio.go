package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position is owned exclusively by the position book; nothing else
// mutates it. Unique per (strategy, symbol).
type Position struct {
	StrategyID  uuid.UUID
	Symbol      string
	Shares      int64
	AvgPrice    decimal.Decimal
	LastUpdated time.Time
}

func (p Position) DeepCopy() *Position {
	return &Position{
		StrategyID:  p.StrategyID,
		Symbol:      p.Symbol,
		Shares:      p.Shares,
		AvgPrice:    p.AvgPrice,
		LastUpdated: p.LastUpdated,
	}
}

// PortfolioSnapshot is an immutable view of the position book plus cash,
// handed to reconciliation and metrics. Positions are keyed by symbol,
// aggregated across strategies.
type PortfolioSnapshot struct {
	Date      time.Time
	Cash      decimal.Decimal
	Positions map[string]*Position
}

func (p PortfolioSnapshot) HeldSymbols() []string {
	symbols := []string{}
	for symbol := range p.Positions {
		symbols = append(symbols, symbol)
	}
	return symbols
}

func (p PortfolioSnapshot) TotalValue(priceMap map[string]decimal.Decimal) (decimal.Decimal, error) {
	totalValue := p.Cash
	for symbol, position := range p.Positions {
		price, ok := priceMap[symbol]
		if !ok {
			return decimal.Zero, fmt.Errorf("cannot compute portfolio total value: price map missing %s", symbol)
		}
		totalValue = totalValue.Add(price.Mul(decimal.NewFromInt(position.Shares)))
	}

	return totalValue, nil
}
