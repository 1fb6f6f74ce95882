package l2_service

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/domain"
	"tradeloop/internal/repository"
	"tradeloop/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type positionKey struct {
	strategyID uuid.UUID
	symbol     string
}

// PositionBookService tracks cash and open positions. Apply is the only
// way either changes; everything else is a read.
type PositionBookService interface {
	Apply(tx *sql.Tx, trade *domain.Trade) error
	Position(strategyID uuid.UUID, symbol string) *domain.Position
	Positions(strategyID uuid.UUID) []*domain.Position
	AllPositions() []*domain.Position
	Cash() decimal.Decimal
	Exposure(strategyID uuid.UUID) decimal.Decimal
	GlobalExposure() decimal.Decimal
	Equity(prices map[string]decimal.Decimal) decimal.Decimal
	Snapshot(date time.Time) *domain.PortfolioSnapshot
	ClosedTradePnl() []decimal.Decimal
}

type positionBookHandler struct {
	// nil in backtests, which never persist positions
	PositionRepository repository.PositionRepository

	mu        sync.Mutex
	cash      decimal.Decimal
	positions map[positionKey]*domain.Position
	closedPnl []decimal.Decimal
}

func NewPositionBookService(positionRepository repository.PositionRepository, startingCash decimal.Decimal) PositionBookService {
	return &positionBookHandler{
		PositionRepository: positionRepository,
		cash:               startingCash,
		positions:          map[positionKey]*domain.Position{},
	}
}

// NewPositionBookFromRepository hydrates the book from the positions table.
// Used on live startup so the local view survives restarts.
func NewPositionBookFromRepository(positionRepository repository.PositionRepository, startingCash decimal.Decimal) (PositionBookService, error) {
	h := &positionBookHandler{
		PositionRepository: positionRepository,
		cash:               startingCash,
		positions:          map[positionKey]*domain.Position{},
	}

	rows, err := positionRepository.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	for _, row := range rows {
		h.positions[positionKey{row.StrategyID, row.Symbol}] = &domain.Position{
			StrategyID:  row.StrategyID,
			Symbol:      row.Symbol,
			Shares:      row.Shares,
			AvgPrice:    row.AvgPrice,
			LastUpdated: row.LastUpdated,
		}
	}

	return h, nil
}

func (h *positionBookHandler) Apply(tx *sql.Tx, trade *domain.Trade) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := positionKey{trade.StrategyID, trade.Symbol}
	held := h.positions[key]

	switch trade.Side {
	case domain.Side_Buy:
		return h.applyBuy(tx, key, held, trade)
	case domain.Side_Sell:
		return h.applySell(tx, key, held, trade)
	}

	return fmt.Errorf("unrecognized trade side %q", trade.Side)
}

func (h *positionBookHandler) applyBuy(tx *sql.Tx, key positionKey, held *domain.Position, trade *domain.Trade) error {
	shares := decimal.NewFromInt(trade.Shares)

	if held == nil {
		held = &domain.Position{
			StrategyID: trade.StrategyID,
			Symbol:     trade.Symbol,
		}
		h.positions[key] = held
	}

	// avg price is share-weighted on exec price; costs hit cash, not basis
	prev := decimal.NewFromInt(held.Shares)
	total := prev.Add(shares)
	held.AvgPrice = held.AvgPrice.Mul(prev).Add(trade.ExecPrice.Mul(shares)).Div(total)
	held.Shares += trade.Shares
	held.LastUpdated = trade.ExecutedAt

	h.cash = h.cash.Sub(trade.Notional)

	return h.persist(tx, key, held)
}

func (h *positionBookHandler) applySell(tx *sql.Tx, key positionKey, held *domain.Position, trade *domain.Trade) error {
	heldShares := int64(0)
	if held != nil {
		heldShares = held.Shares
	}
	// zero-share sells of unheld symbols fall through the oversell check,
	// so reject anything that is not a positive sale of held shares
	if held == nil || trade.Shares <= 0 || trade.Shares > heldShares {
		return domain.NegativeShareError{
			StrategyID: trade.StrategyID,
			Symbol:     trade.Symbol,
			Held:       heldShares,
			Selling:    trade.Shares,
		}
	}

	shares := decimal.NewFromInt(trade.Shares)
	realized := trade.ExecPrice.Sub(held.AvgPrice).Mul(shares).Sub(trade.TotalCost)
	trade.RealizedPnl = util.DecimalPointer(realized)
	h.closedPnl = append(h.closedPnl, realized)

	held.Shares -= trade.Shares
	held.LastUpdated = trade.ExecutedAt
	h.cash = h.cash.Add(trade.Notional)

	if held.Shares == 0 {
		delete(h.positions, key)
		if h.PositionRepository != nil {
			return h.PositionRepository.Delete(tx, key.strategyID, key.symbol)
		}
		return nil
	}

	return h.persist(tx, key, held)
}

func (h *positionBookHandler) persist(tx *sql.Tx, key positionKey, held *domain.Position) error {
	if h.PositionRepository == nil {
		return nil
	}
	_, err := h.PositionRepository.Upsert(tx, model.Position{
		StrategyID: key.strategyID,
		Symbol:     key.symbol,
		Shares:     held.Shares,
		AvgPrice:   held.AvgPrice,
	})

	return err
}

func (h *positionBookHandler) Position(strategyID uuid.UUID, symbol string) *domain.Position {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p, ok := h.positions[positionKey{strategyID, symbol}]; ok {
		return p.DeepCopy()
	}

	return nil
}

func (h *positionBookHandler) Positions(strategyID uuid.UUID) []*domain.Position {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := []*domain.Position{}
	for key, p := range h.positions {
		if key.strategyID == strategyID {
			out = append(out, p.DeepCopy())
		}
	}

	return out
}

func (h *positionBookHandler) AllPositions() []*domain.Position {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := []*domain.Position{}
	for _, p := range h.positions {
		out = append(out, p.DeepCopy())
	}

	return out
}

func (h *positionBookHandler) Cash() decimal.Decimal {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cash
}

// Exposure is the notional value of a strategy's open positions at cost.
func (h *positionBookHandler) Exposure(strategyID uuid.UUID) decimal.Decimal {
	h.mu.Lock()
	defer h.mu.Unlock()

	exposure := decimal.Zero
	for key, p := range h.positions {
		if key.strategyID == strategyID {
			exposure = exposure.Add(p.AvgPrice.Mul(decimal.NewFromInt(p.Shares)))
		}
	}

	return exposure
}

func (h *positionBookHandler) GlobalExposure() decimal.Decimal {
	h.mu.Lock()
	defer h.mu.Unlock()

	exposure := decimal.Zero
	for _, p := range h.positions {
		exposure = exposure.Add(p.AvgPrice.Mul(decimal.NewFromInt(p.Shares)))
	}

	return exposure
}

// Equity marks positions at the given prices and adds cash. Symbols with
// no price are valued at cost.
func (h *positionBookHandler) Equity(prices map[string]decimal.Decimal) decimal.Decimal {
	h.mu.Lock()
	defer h.mu.Unlock()

	equity := h.cash
	for _, p := range h.positions {
		price, ok := prices[p.Symbol]
		if !ok {
			price = p.AvgPrice
		}
		equity = equity.Add(price.Mul(decimal.NewFromInt(p.Shares)))
	}

	return equity
}

func (h *positionBookHandler) Snapshot(date time.Time) *domain.PortfolioSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	snapshot := &domain.PortfolioSnapshot{
		Date:      date,
		Cash:      h.cash,
		Positions: map[string]*domain.Position{},
	}
	// the broker sees one aggregate position per symbol, so strategies
	// holding the same symbol merge: shares sum, basis is share-weighted
	for _, p := range h.positions {
		existing, ok := snapshot.Positions[p.Symbol]
		if !ok {
			snapshot.Positions[p.Symbol] = p.DeepCopy()
			continue
		}
		totalShares := existing.Shares + p.Shares
		if totalShares > 0 {
			existingCost := existing.AvgPrice.Mul(decimal.NewFromInt(existing.Shares))
			addedCost := p.AvgPrice.Mul(decimal.NewFromInt(p.Shares))
			existing.AvgPrice = existingCost.Add(addedCost).Div(decimal.NewFromInt(totalShares))
		}
		existing.Shares = totalShares
		if p.LastUpdated.After(existing.LastUpdated) {
			existing.LastUpdated = p.LastUpdated
		}
	}

	return snapshot
}

func (h *positionBookHandler) ClosedTradePnl() []decimal.Decimal {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]decimal.Decimal, len(h.closedPnl))
	copy(out, h.closedPnl)

	return out
}
