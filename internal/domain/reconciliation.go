package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReconciliationStatus string

const (
	ReconciliationStatus_Passed ReconciliationStatus = "PASSED"
	ReconciliationStatus_Failed ReconciliationStatus = "FAILED"
)

// SystemStatus gates execution. While PAUSED the executor refuses every
// new order submission until an operator explicitly resumes.
type SystemStatus string

const (
	SystemStatus_Active SystemStatus = "ACTIVE"
	SystemStatus_Paused SystemStatus = "PAUSED"
)

type BrokerPosition struct {
	Symbol   string          `json:"symbol"`
	Shares   decimal.Decimal `json:"shares"`
	AvgPrice decimal.Decimal `json:"avgPrice"`
}

// BrokerSnapshot is the broker's view of the account, captured once per
// reconciliation run. Append-only; never derived from local state.
type BrokerSnapshot struct {
	Date           time.Time
	Cash           decimal.Decimal
	PortfolioValue decimal.Decimal
	BuyingPower    decimal.Decimal
	Positions      []BrokerPosition
	Status         ReconciliationStatus
	Discrepancies  []Discrepancy
}

type Discrepancy struct {
	Field  string          `json:"field"`
	Symbol string          `json:"symbol,omitempty"`
	Local  decimal.Decimal `json:"local"`
	Broker decimal.Decimal `json:"broker"`
	Delta  decimal.Decimal `json:"delta"`
}

type AllocationStatus string

const (
	AllocationStatus_Active   AllocationStatus = "ACTIVE"
	AllocationStatus_Disabled AllocationStatus = "DISABLED"
)

// StrategyAllocation bounds a strategy's exposure. Mutated only by
// operator configuration, never by the execution loop.
type StrategyAllocation struct {
	StrategyID        uuid.UUID
	CapitalAllocation decimal.Decimal
	Status            AllocationStatus
}
