package l2_service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/domain"
	"tradeloop/internal/logger"
	"tradeloop/internal/repository"
	"tradeloop/internal/util"

	"github.com/google/uuid"
)

// LedgerService is the terminal-state bookkeeper. Every signal the risk
// gate touches ends up here exactly once; a second record for the same
// signal is a TerminalStateViolation.
type LedgerService interface {
	Record(ctx context.Context, tx *sql.Tx, signal *domain.Signal, state domain.TerminalState, reason string) error
	// BeginRun starts a fresh disposition tally. The one-shot record
	// survives across runs; only the counts reset.
	BeginRun()
	ValidateRun(signals []*domain.Signal) int
	Counts() map[domain.TerminalState]int
}

type ledgerServiceHandler struct {
	// nil in backtests, which keep no durable record
	SignalRepository repository.SignalRepository

	mu        sync.Mutex
	recorded  map[uuid.UUID]domain.TerminalState
	runCounts map[domain.TerminalState]int
}

func NewLedgerService(signalRepository repository.SignalRepository) LedgerService {
	return &ledgerServiceHandler{
		SignalRepository: signalRepository,
		recorded:         map[uuid.UUID]domain.TerminalState{},
		runCounts:        map[domain.TerminalState]int{},
	}
}

func (h *ledgerServiceHandler) BeginRun() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runCounts = map[domain.TerminalState]int{}
}

func (h *ledgerServiceHandler) Record(ctx context.Context, tx *sql.Tx, signal *domain.Signal, state domain.TerminalState, reason string) error {
	log := logger.FromContext(ctx)

	if !state.IsValid() {
		return domain.TerminalStateViolation{SignalID: signal.SignalID, Proposed: state}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.recorded[signal.SignalID]; ok {
		return domain.TerminalStateViolation{SignalID: signal.SignalID, Existing: &existing, Proposed: state}
	}
	if signal.IsTerminal() {
		return domain.TerminalStateViolation{SignalID: signal.SignalID, Existing: signal.TerminalState, Proposed: state}
	}

	// durable first: the in-memory view only advances once the row is
	// written, so a crash can never leave a recorded-but-unpersisted state
	terminalAt := util.TimePointer(time.Now().UTC())
	if h.SignalRepository != nil {
		updated, err := h.SignalRepository.SetTerminalState(tx, signal.SignalID, model.SignalTerminalState(state), util.StringPointer(reason))
		if err != nil {
			return err
		}
		terminalAt = updated.TerminalAt
	}

	h.recorded[signal.SignalID] = state
	h.runCounts[state]++
	signal.TerminalState = &state
	signal.TerminalReason = util.StringPointer(reason)
	signal.TerminalAt = terminalAt

	log.Infow("signal resolved",
		"signalID", signal.SignalID,
		"symbol", signal.Symbol,
		"state", state,
		"reason", reason,
	)

	return nil
}

// ValidateRun returns how many of the given signals never reached a
// terminal state. Anything non-zero means the run lost a signal.
func (h *ledgerServiceHandler) ValidateRun(signals []*domain.Signal) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	missing := 0
	for _, s := range signals {
		if _, ok := h.recorded[s.SignalID]; !ok && !s.IsTerminal() {
			missing++
		}
	}

	return missing
}

// Counts reports dispositions recorded since the last BeginRun, so a
// long-lived handler never attributes an earlier run's signals to the
// current one.
func (h *ledgerServiceHandler) Counts() map[domain.TerminalState]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	counts := map[domain.TerminalState]int{}
	for state, n := range h.runCounts {
		counts[state] = n
	}

	return counts
}
