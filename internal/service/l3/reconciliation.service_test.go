package l3_service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/domain"
	"tradeloop/internal/repository"
	mock_repository "tradeloop/internal/repository/mocks"
	l2_service "tradeloop/internal/service/l2"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func localSnapshot(cash float64, positions map[string]*domain.Position) *domain.PortfolioSnapshot {
	return &domain.PortfolioSnapshot{
		Date:      time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Cash:      decimal.NewFromFloat(cash),
		Positions: positions,
	}
}

func Test_CompareSnapshots(t *testing.T) {
	t.Run("identical snapshots pass", func(t *testing.T) {
		local := localSnapshot(50_000, map[string]*domain.Position{
			"AAPL": {Symbol: "AAPL", Shares: 10, AvgPrice: decimal.NewFromInt(150)},
		})
		broker := &domain.BrokerSnapshot{
			Cash: decimal.NewFromInt(50_000),
			Positions: []domain.BrokerPosition{
				{Symbol: "AAPL", Shares: decimal.NewFromInt(10), AvgPrice: decimal.NewFromInt(150)},
			},
		}

		passed, discrepancies := CompareSnapshots(local, broker, 0.01)
		require.True(t, passed)
		require.Empty(t, discrepancies)
	})

	t.Run("cash delta within tolerance passes", func(t *testing.T) {
		local := localSnapshot(50_200, map[string]*domain.Position{})
		broker := &domain.BrokerSnapshot{Cash: decimal.NewFromInt(50_000)}

		passed, _ := CompareSnapshots(local, broker, 0.01)
		require.True(t, passed)
	})

	t.Run("cash delta beyond tolerance fails", func(t *testing.T) {
		local := localSnapshot(55_000, map[string]*domain.Position{})
		broker := &domain.BrokerSnapshot{Cash: decimal.NewFromInt(50_000)}

		passed, discrepancies := CompareSnapshots(local, broker, 0.01)
		require.False(t, passed)
		require.Len(t, discrepancies, 1)
		require.Equal(t, "cash", discrepancies[0].Field)
		require.True(t, discrepancies[0].Delta.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("share count mismatch fails", func(t *testing.T) {
		local := localSnapshot(0, map[string]*domain.Position{
			"AAPL": {Symbol: "AAPL", Shares: 10, AvgPrice: decimal.NewFromInt(150)},
		})
		broker := &domain.BrokerSnapshot{
			Positions: []domain.BrokerPosition{
				{Symbol: "AAPL", Shares: decimal.NewFromInt(7), AvgPrice: decimal.NewFromInt(150)},
			},
		}

		passed, discrepancies := CompareSnapshots(local, broker, 0.01)
		require.False(t, passed)
		require.Equal(t, "shares", discrepancies[0].Field)
		require.Equal(t, "AAPL", discrepancies[0].Symbol)
	})

	t.Run("position only held locally fails", func(t *testing.T) {
		local := localSnapshot(0, map[string]*domain.Position{
			"AAPL": {Symbol: "AAPL", Shares: 10, AvgPrice: decimal.NewFromInt(150)},
		})
		broker := &domain.BrokerSnapshot{}

		passed, _ := CompareSnapshots(local, broker, 0.01)
		require.False(t, passed)
	})

	t.Run("position only held at broker fails", func(t *testing.T) {
		local := localSnapshot(0, map[string]*domain.Position{})
		broker := &domain.BrokerSnapshot{
			Positions: []domain.BrokerPosition{
				{Symbol: "TSLA", Shares: decimal.NewFromInt(3), AvgPrice: decimal.NewFromInt(200)},
			},
		}

		passed, discrepancies := CompareSnapshots(local, broker, 0.01)
		require.False(t, passed)
		require.Equal(t, "TSLA", discrepancies[0].Symbol)
	})
}

type fakeSystemStateRepository struct {
	status model.SystemStatus
	reason *string
}

func (f *fakeSystemStateRepository) Get() (*model.SystemState, error) {
	return &model.SystemState{SystemStateID: 1, Status: f.status, Reason: f.reason}, nil
}

func (f *fakeSystemStateRepository) Set(tx *sql.Tx, status model.SystemStatus, reason *string) (*model.SystemState, error) {
	f.status = status
	f.reason = reason
	return f.Get()
}

type fakeBrokerStateRepository struct {
	added []domain.BrokerSnapshot
}

func (f *fakeBrokerStateRepository) Add(tx *sql.Tx, snapshot domain.BrokerSnapshot) (*model.BrokerState, error) {
	f.added = append(f.added, snapshot)
	return &model.BrokerState{BrokerStateID: uuid.New()}, nil
}

func (f *fakeBrokerStateRepository) ListOnDay(date time.Time) ([]model.BrokerState, error) {
	return nil, nil
}

func (f *fakeBrokerStateRepository) ListSince(date time.Time) ([]model.BrokerState, error) {
	return nil, nil
}

func Test_Reconcile(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	setup := func(t *testing.T, brokerCash decimal.Decimal) (ReconciliationService, *fakeSystemStateRepository, *fakeBrokerStateRepository) {
		t.Helper()
		ctrl := gomock.NewController(t)
		broker := mock_repository.NewMockBrokerRepository(ctrl)
		broker.EXPECT().GetAccount(gomock.Any()).Return(&repository.BrokerAccount{
			Cash:           brokerCash,
			PortfolioValue: brokerCash,
			BuyingPower:    brokerCash,
		}, nil)
		broker.EXPECT().GetPositions(gomock.Any()).Return([]domain.BrokerPosition{}, nil)

		systemState := &fakeSystemStateRepository{status: model.SystemStatus_Active}
		brokerState := &fakeBrokerStateRepository{}
		book := l2_service.NewPositionBookService(nil, decimal.NewFromInt(100_000))

		return NewReconciliationService(book, broker, brokerState, systemState, 0.01), systemState, brokerState
	}

	t.Run("zero delta passes and stays active", func(t *testing.T) {
		service, systemState, brokerState := setup(t, decimal.NewFromInt(100_000))

		snapshot, err := service.Reconcile(ctx, nil, "pre", asOf)
		require.NoError(t, err)
		require.Equal(t, domain.ReconciliationStatus_Passed, snapshot.Status)
		require.Equal(t, model.SystemStatus_Active, systemState.status)
		require.Len(t, brokerState.added, 1)
	})

	t.Run("cash delta beyond tolerance pauses the system", func(t *testing.T) {
		service, systemState, brokerState := setup(t, decimal.NewFromInt(90_000))

		snapshot, err := service.Reconcile(ctx, nil, "pre", asOf)
		require.Error(t, err)

		var mismatch domain.ReconciliationMismatch
		require.True(t, errors.As(err, &mismatch))
		require.NotEmpty(t, mismatch.Discrepancies)

		require.Equal(t, domain.ReconciliationStatus_Failed, snapshot.Status)
		require.Equal(t, model.SystemStatus_Paused, systemState.status)
		// the failed snapshot is still persisted for the audit trail
		require.Len(t, brokerState.added, 1)
		require.Equal(t, domain.ReconciliationStatus_Failed, brokerState.added[0].Status)
	})

	t.Run("resume transitions back to active", func(t *testing.T) {
		service, systemState, _ := setup(t, decimal.NewFromInt(90_000))

		_, err := service.Reconcile(ctx, nil, "pre", asOf)
		require.Error(t, err)
		require.Equal(t, model.SystemStatus_Paused, systemState.status)

		require.NoError(t, service.Resume(ctx, nil))

		status, err := service.SystemStatus(ctx)
		require.NoError(t, err)
		require.Equal(t, domain.SystemStatus_Active, status)
	})
}
