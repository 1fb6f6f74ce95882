package domain

import (
	"time"

	"github.com/google/uuid"
)

type Side string

const (
	Side_Buy  Side = "BUY"
	Side_Sell Side = "SELL"
)

// TerminalState is the single, final disposition of a signal. Every signal
// accepted by the risk gate acquires exactly one of these, exactly once.
type TerminalState string

const (
	TerminalState_Executed                 TerminalState = "EXECUTED"
	TerminalState_RejectedByCorrelation    TerminalState = "REJECTED_BY_CORRELATION"
	TerminalState_RejectedByHeat           TerminalState = "REJECTED_BY_HEAT"
	TerminalState_RejectedByCircuitBreaker TerminalState = "REJECTED_BY_CIRCUIT_BREAKER"
	TerminalState_RejectedBySizing         TerminalState = "REJECTED_BY_SIZING"
	TerminalState_RejectedByBroker         TerminalState = "REJECTED_BY_BROKER"
	TerminalState_Error                    TerminalState = "ERROR"
)

func (s TerminalState) IsValid() bool {
	switch s {
	case TerminalState_Executed,
		TerminalState_RejectedByCorrelation,
		TerminalState_RejectedByHeat,
		TerminalState_RejectedByCircuitBreaker,
		TerminalState_RejectedBySizing,
		TerminalState_RejectedByBroker,
		TerminalState_Error:
		return true
	}
	return false
}

type Signal struct {
	SignalID    uuid.UUID
	StrategyID  uuid.UUID
	Symbol      string
	Side        Side
	Confidence  float64
	AsOfDate    time.Time
	GeneratedAt time.Time

	// set at most once, via the signal ledger
	TerminalState  *TerminalState
	TerminalReason *string
	TerminalAt     *time.Time
}

func (s Signal) IsTerminal() bool {
	return s.TerminalState != nil
}
