package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TerminalStateViolation means a second terminal state was recorded for a
// signal, or the state wasn't one of the recognized values.
type TerminalStateViolation struct {
	SignalID uuid.UUID
	Existing *TerminalState
	Proposed TerminalState
}

func (e TerminalStateViolation) Error() string {
	if e.Existing != nil {
		return fmt.Sprintf("signal %s already terminal (%s), cannot record %s", e.SignalID, *e.Existing, e.Proposed)
	}
	return fmt.Sprintf("unrecognized terminal state %q for signal %s", e.Proposed, e.SignalID)
}

// NegativeShareError means a sell would drive a position's share count
// below zero.
type NegativeShareError struct {
	StrategyID uuid.UUID
	Symbol     string
	Held       int64
	Selling    int64
}

func (e NegativeShareError) Error() string {
	return fmt.Sprintf("sell of %d %s for strategy %s exceeds %d held shares", e.Selling, e.Symbol, e.StrategyID, e.Held)
}

// ConfigurationError aborts startup before any market interaction.
type ConfigurationError struct {
	Reason string
}

func (e ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ReconciliationMismatch is fatal to the run: the system transitions to
// PAUSED and refuses new orders until an operator resumes it.
type ReconciliationMismatch struct {
	Discrepancies []Discrepancy
}

func (e ReconciliationMismatch) Error() string {
	worst := decimal.Zero
	for _, d := range e.Discrepancies {
		if d.Delta.Abs().GreaterThan(worst) {
			worst = d.Delta.Abs()
		}
	}
	return fmt.Sprintf("reconciliation failed with %d discrepancies (worst delta %s)", len(e.Discrepancies), worst)
}
