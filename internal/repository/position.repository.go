package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type PositionRepository interface {
	Upsert(tx *sql.Tx, p model.Position) (*model.Position, error)
	Delete(tx *sql.Tx, strategyID uuid.UUID, symbol string) error
	List() ([]model.Position, error)
}

type positionRepositoryHandler struct {
	Db *sql.DB
}

func NewPositionRepository(db *sql.DB) PositionRepository {
	return positionRepositoryHandler{Db: db}
}

func (h positionRepositoryHandler) Upsert(tx *sql.Tx, p model.Position) (*model.Position, error) {
	p.LastUpdated = time.Now().UTC()
	query := table.Position.
		INSERT(table.Position.AllColumns).
		MODEL(p).
		ON_CONFLICT(table.Position.StrategyID, table.Position.Symbol).
		DO_UPDATE(postgres.SET(
			table.Position.Shares.SET(table.Position.EXCLUDED.Shares),
			table.Position.AvgPrice.SET(table.Position.EXCLUDED.AvgPrice),
			table.Position.LastUpdated.SET(table.Position.EXCLUDED.LastUpdated),
		)).
		RETURNING(table.Position.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Position{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert position %s/%s: %w", p.StrategyID, p.Symbol, err)
	}

	return &out, nil
}

func (h positionRepositoryHandler) Delete(tx *sql.Tx, strategyID uuid.UUID, symbol string) error {
	query := table.Position.
		DELETE().
		WHERE(
			table.Position.StrategyID.EQ(postgres.UUID(strategyID)).
				AND(table.Position.Symbol.EQ(postgres.String(symbol))),
		)

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to delete position %s/%s: %w", strategyID, symbol, err)
	}

	return nil
}

func (h positionRepositoryHandler) List() ([]model.Position, error) {
	query := table.Position.SELECT(table.Position.AllColumns)
	result := []model.Position{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	return result, nil
}
