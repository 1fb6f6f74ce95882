package l3_service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/domain"
	"tradeloop/internal/logger"
	"tradeloop/internal/repository"
	l2_service "tradeloop/internal/service/l2"
	"tradeloop/internal/util"

	"github.com/shopspring/decimal"
)

// ReconciliationService compares the local position book against the
// broker's view of the account, before the trading window opens and again
// after execution. Any discrepancy beyond tolerance pauses the system;
// only an explicit operator resume reactivates it.
type ReconciliationService interface {
	StatusSource
	Reconcile(ctx context.Context, tx *sql.Tx, phase string, asOf time.Time) (*domain.BrokerSnapshot, error)
	Pause(ctx context.Context, tx *sql.Tx, reason string) error
	Resume(ctx context.Context, tx *sql.Tx) error
}

type reconciliationHandler struct {
	PositionBook          l2_service.PositionBookService
	BrokerRepository      repository.BrokerRepository
	BrokerStateRepository repository.BrokerStateRepository
	SystemStateRepository repository.SystemStateRepository
	TolerancePct          float64
}

func NewReconciliationService(
	positionBook l2_service.PositionBookService,
	brokerRepository repository.BrokerRepository,
	brokerStateRepository repository.BrokerStateRepository,
	systemStateRepository repository.SystemStateRepository,
	tolerancePct float64,
) ReconciliationService {
	return &reconciliationHandler{
		PositionBook:          positionBook,
		BrokerRepository:      brokerRepository,
		BrokerStateRepository: brokerStateRepository,
		SystemStateRepository: systemStateRepository,
		TolerancePct:          tolerancePct,
	}
}

func (h *reconciliationHandler) Reconcile(ctx context.Context, tx *sql.Tx, phase string, asOf time.Time) (*domain.BrokerSnapshot, error) {
	log := logger.FromContext(ctx)

	account, err := h.BrokerRepository.GetAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch broker account: %w", err)
	}
	brokerPositions, err := h.BrokerRepository.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch broker positions: %w", err)
	}

	snapshot := &domain.BrokerSnapshot{
		Date:           asOf,
		Cash:           account.Cash,
		PortfolioValue: account.PortfolioValue,
		BuyingPower:    account.BuyingPower,
		Positions:      brokerPositions,
	}

	passed, discrepancies := CompareSnapshots(h.PositionBook.Snapshot(asOf), snapshot, h.TolerancePct)
	snapshot.Status = domain.ReconciliationStatus_Passed
	snapshot.Discrepancies = discrepancies
	if !passed {
		snapshot.Status = domain.ReconciliationStatus_Failed
	}

	if h.BrokerStateRepository != nil {
		if _, err := h.BrokerStateRepository.Add(tx, *snapshot); err != nil {
			return nil, fmt.Errorf("failed to persist broker snapshot: %w", err)
		}
	}

	if !passed {
		reason := fmt.Sprintf("%s reconciliation failed with %d discrepancies", phase, len(discrepancies))
		log.Errorw("reconciliation failed, pausing system",
			"phase", phase,
			"discrepancies", discrepancies,
		)
		if err := h.Pause(ctx, tx, reason); err != nil {
			return snapshot, err
		}
		return snapshot, domain.ReconciliationMismatch{Discrepancies: discrepancies}
	}

	log.Infow("reconciliation passed", "phase", phase)

	return snapshot, nil
}

// CompareSnapshots checks cash, then per-symbol shares and avg price, in
// both directions. Relative differences within tolerance are rounding
// noise; anything larger is a discrepancy.
func CompareSnapshots(local *domain.PortfolioSnapshot, broker *domain.BrokerSnapshot, tolerancePct float64) (bool, []domain.Discrepancy) {
	discrepancies := []domain.Discrepancy{}

	if d := compareValues("cash", "", local.Cash, broker.Cash, tolerancePct); d != nil {
		discrepancies = append(discrepancies, *d)
	}

	brokerBySymbol := map[string]domain.BrokerPosition{}
	for _, p := range broker.Positions {
		brokerBySymbol[p.Symbol] = p
	}

	for symbol, localPosition := range local.Positions {
		localShares := decimal.NewFromInt(localPosition.Shares)
		brokerPosition, ok := brokerBySymbol[symbol]
		if !ok {
			discrepancies = append(discrepancies, domain.Discrepancy{
				Field:  "shares",
				Symbol: symbol,
				Local:  localShares,
				Delta:  localShares,
			})
			continue
		}
		if d := compareValues("shares", symbol, localShares, brokerPosition.Shares, tolerancePct); d != nil {
			discrepancies = append(discrepancies, *d)
		}
		if d := compareValues("avg_price", symbol, localPosition.AvgPrice, brokerPosition.AvgPrice, tolerancePct); d != nil {
			discrepancies = append(discrepancies, *d)
		}
	}

	for _, brokerPosition := range broker.Positions {
		if _, ok := local.Positions[brokerPosition.Symbol]; !ok {
			discrepancies = append(discrepancies, domain.Discrepancy{
				Field:  "shares",
				Symbol: brokerPosition.Symbol,
				Broker: brokerPosition.Shares,
				Delta:  brokerPosition.Shares.Neg(),
			})
		}
	}

	return len(discrepancies) == 0, discrepancies
}

func compareValues(field, symbol string, local, broker decimal.Decimal, tolerancePct float64) *domain.Discrepancy {
	delta := local.Sub(broker)
	if delta.IsZero() {
		return nil
	}

	denominator := broker.Abs()
	withinTolerance := false
	if !denominator.IsZero() {
		relative := delta.Abs().Div(denominator).InexactFloat64()
		withinTolerance = relative <= tolerancePct
	}
	if withinTolerance {
		return nil
	}

	return &domain.Discrepancy{
		Field:  field,
		Symbol: symbol,
		Local:  local,
		Broker: broker,
		Delta:  delta,
	}
}

func (h *reconciliationHandler) SystemStatus(ctx context.Context) (domain.SystemStatus, error) {
	state, err := h.SystemStateRepository.Get()
	if err != nil {
		return "", fmt.Errorf("failed to read system state: %w", err)
	}

	return domain.SystemStatus(state.Status), nil
}

func (h *reconciliationHandler) Pause(ctx context.Context, tx *sql.Tx, reason string) error {
	if _, err := h.SystemStateRepository.Set(tx, model.SystemStatus_Paused, util.StringPointer(reason)); err != nil {
		return fmt.Errorf("failed to pause system: %w", err)
	}

	return nil
}

func (h *reconciliationHandler) Resume(ctx context.Context, tx *sql.Tx) error {
	logger.FromContext(ctx).Warn("operator resume: system transitioning PAUSED -> ACTIVE")
	if _, err := h.SystemStateRepository.Set(tx, model.SystemStatus_Active, nil); err != nil {
		return fmt.Errorf("failed to resume system: %w", err)
	}

	return nil
}
