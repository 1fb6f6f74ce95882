package cmd

import (
	"context"

	"tradeloop/internal/domain"
	"tradeloop/internal/repository"

	"github.com/shopspring/decimal"
)

// UseMockBroker swaps the Alpaca client for an in-process broker that
// fills everything at the requested limit price. Dev environments only.
const UseMockBroker = false

type mockBrokerHandler struct {
	cash      decimal.Decimal
	positions []domain.BrokerPosition
}

func NewMockBrokerRepository(cash decimal.Decimal) repository.BrokerRepository {
	return &mockBrokerHandler{cash: cash}
}

func (m *mockBrokerHandler) GetPositions(ctx context.Context) ([]domain.BrokerPosition, error) {
	return m.positions, nil
}

func (m *mockBrokerHandler) GetAccount(ctx context.Context) (*repository.BrokerAccount, error) {
	portfolioValue := m.cash
	for _, p := range m.positions {
		portfolioValue = portfolioValue.Add(p.Shares.Mul(p.AvgPrice))
	}

	return &repository.BrokerAccount{
		Cash:           m.cash,
		PortfolioValue: portfolioValue,
		BuyingPower:    m.cash,
	}, nil
}

func (m *mockBrokerHandler) IsMarketOpen(ctx context.Context) (bool, error) {
	return true, nil
}

func (m *mockBrokerHandler) SubmitOrder(ctx context.Context, req repository.SubmitOrderRequest) (*repository.SubmitOrderResponse, error) {
	price := decimal.NewFromInt(100)
	if req.LimitPrice != nil {
		price = *req.LimitPrice
	}
	shares := decimal.NewFromInt(req.Shares)

	if req.Side == domain.Side_Buy {
		m.cash = m.cash.Sub(price.Mul(shares))
		m.positions = append(m.positions, domain.BrokerPosition{
			Symbol:   req.Symbol,
			Shares:   shares,
			AvgPrice: price,
		})
	} else {
		m.cash = m.cash.Add(price.Mul(shares))
		kept := m.positions[:0]
		for _, p := range m.positions {
			if p.Symbol != req.Symbol {
				kept = append(kept, p)
			}
		}
		m.positions = kept
	}

	return &repository.SubmitOrderResponse{
		OrderID:     req.ClientOrderID.String(),
		Status:      "filled",
		FilledQty:   shares,
		FilledPrice: &price,
	}, nil
}
