package l2_service

import (
	"context"
	"testing"
	"time"

	"tradeloop/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSignal(side domain.Side) *domain.Signal {
	return &domain.Signal{
		SignalID:    uuid.New(),
		StrategyID:  uuid.New(),
		Symbol:      "AAPL",
		Side:        side,
		Confidence:  0.8,
		AsOfDate:    time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		GeneratedAt: time.Now().UTC(),
	}
}

func Test_LedgerService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("first record sets terminal state", func(t *testing.T) {
		ledger := NewLedgerService(nil)
		signal := newSignal(domain.Side_Buy)

		err := ledger.Record(ctx, nil, signal, domain.TerminalState_Executed, "filled")
		require.NoError(t, err)

		require.NotNil(t, signal.TerminalState)
		require.Equal(t, domain.TerminalState_Executed, *signal.TerminalState)
		require.Equal(t, "filled", *signal.TerminalReason)
	})

	t.Run("second record is a violation", func(t *testing.T) {
		ledger := NewLedgerService(nil)
		signal := newSignal(domain.Side_Buy)

		require.NoError(t, ledger.Record(ctx, nil, signal, domain.TerminalState_RejectedByHeat, "too hot"))

		err := ledger.Record(ctx, nil, signal, domain.TerminalState_Executed, "filled")
		require.Error(t, err)

		violation, ok := err.(domain.TerminalStateViolation)
		require.True(t, ok)
		require.Equal(t, signal.SignalID, violation.SignalID)
		require.Equal(t, domain.TerminalState_RejectedByHeat, *violation.Existing)

		// the first disposition survives
		require.Equal(t, domain.TerminalState_RejectedByHeat, *signal.TerminalState)
	})

	t.Run("already-terminal signal is a violation", func(t *testing.T) {
		ledger := NewLedgerService(nil)
		signal := newSignal(domain.Side_Buy)
		state := domain.TerminalState_Executed
		signal.TerminalState = &state

		err := ledger.Record(ctx, nil, signal, domain.TerminalState_Error, "boom")
		require.Error(t, err)
	})

	t.Run("unrecognized state is a violation", func(t *testing.T) {
		ledger := NewLedgerService(nil)
		signal := newSignal(domain.Side_Buy)

		err := ledger.Record(ctx, nil, signal, domain.TerminalState("SHRUGGED"), "")
		require.Error(t, err)
		require.Nil(t, signal.TerminalState)
	})
}

func Test_LedgerService_ValidateRun(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerService(nil)

	resolved := newSignal(domain.Side_Buy)
	dropped := newSignal(domain.Side_Sell)

	require.NoError(t, ledger.Record(ctx, nil, resolved, domain.TerminalState_RejectedBySizing, "0 shares"))

	require.Equal(t, 1, ledger.ValidateRun([]*domain.Signal{resolved, dropped}))
	require.Equal(t, 0, ledger.ValidateRun([]*domain.Signal{resolved}))
}

func Test_LedgerService_Counts(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerService(nil)

	require.NoError(t, ledger.Record(ctx, nil, newSignal(domain.Side_Buy), domain.TerminalState_Executed, ""))
	require.NoError(t, ledger.Record(ctx, nil, newSignal(domain.Side_Buy), domain.TerminalState_Executed, ""))
	require.NoError(t, ledger.Record(ctx, nil, newSignal(domain.Side_Buy), domain.TerminalState_RejectedByCorrelation, ""))

	counts := ledger.Counts()
	require.Equal(t, 2, counts[domain.TerminalState_Executed])
	require.Equal(t, 1, counts[domain.TerminalState_RejectedByCorrelation])

	// a new run starts from zero, but the one-shot record is untouched
	ledger.BeginRun()
	require.Empty(t, ledger.Counts())

	repeat := newSignal(domain.Side_Buy)
	require.NoError(t, ledger.Record(ctx, nil, repeat, domain.TerminalState_Executed, ""))
	require.Error(t, ledger.Record(ctx, nil, repeat, domain.TerminalState_Error, ""))
	require.Equal(t, map[domain.TerminalState]int{domain.TerminalState_Executed: 1}, ledger.Counts())
}
