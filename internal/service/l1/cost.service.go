package l1_service

import (
	"tradeloop/internal/config"
	"tradeloop/internal/domain"

	"github.com/shopspring/decimal"
)

type CostBreakdown struct {
	ExecPrice  decimal.Decimal
	Slippage   decimal.Decimal
	Commission decimal.Decimal
	TotalCost  decimal.Decimal
}

// CostService prices a fill. It is a pure function of its inputs: the
// backtest path and the live path call the exact same code, which is what
// makes their results comparable.
type CostService interface {
	Cost(price decimal.Decimal, shares int64, side domain.Side, regime domain.Regime) CostBreakdown
}

type costServiceHandler struct {
	cfg *config.Config
}

func NewCostService(cfg *config.Config) CostService {
	return costServiceHandler{cfg: cfg}
}

func (h costServiceHandler) Cost(price decimal.Decimal, shares int64, side domain.Side, regime domain.Regime) CostBreakdown {
	slippagePct := decimal.NewFromFloat(h.cfg.SlippagePctFor(regime))
	qty := decimal.NewFromInt(shares)

	// slippage moves the fill against us: up on buys, down on sells
	priceImpact := price.Mul(slippagePct)
	execPrice := price.Add(priceImpact)
	if side == domain.Side_Sell {
		execPrice = price.Sub(priceImpact)
	}

	slippage := priceImpact.Mul(qty)
	commission := decimal.NewFromFloat(h.cfg.Cost.CommissionFlat).
		Add(decimal.NewFromFloat(h.cfg.Cost.CommissionPerShare).Mul(qty))

	return CostBreakdown{
		ExecPrice:  execPrice,
		Slippage:   slippage,
		Commission: commission,
		TotalCost:  slippage.Add(commission),
	}
}
