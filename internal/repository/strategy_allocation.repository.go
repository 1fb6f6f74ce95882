package repository

import (
	"database/sql"
	"fmt"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
)

type StrategyAllocationRepository interface {
	Get(strategyID uuid.UUID) (*model.StrategyAllocation, error)
	List() ([]model.StrategyAllocation, error)
}

type strategyAllocationRepositoryHandler struct {
	Db *sql.DB
}

func NewStrategyAllocationRepository(db *sql.DB) StrategyAllocationRepository {
	return strategyAllocationRepositoryHandler{Db: db}
}

func (h strategyAllocationRepositoryHandler) Get(strategyID uuid.UUID) (*model.StrategyAllocation, error) {
	query := table.StrategyAllocation.
		SELECT(table.StrategyAllocation.AllColumns).
		WHERE(table.StrategyAllocation.StrategyID.EQ(postgres.UUID(strategyID)))

	result := model.StrategyAllocation{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation for strategy %s: %w", strategyID, err)
	}

	return &result, nil
}

func (h strategyAllocationRepositoryHandler) List() ([]model.StrategyAllocation, error) {
	query := table.StrategyAllocation.SELECT(table.StrategyAllocation.AllColumns)
	result := []model.StrategyAllocation{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list strategy allocations: %w", err)
	}

	return result, nil
}
