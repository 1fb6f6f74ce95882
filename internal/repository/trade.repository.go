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

type TradeRepository interface {
	Add(tx *sql.Tx, t model.Trade) (*model.Trade, error)
	Get(tradeID uuid.UUID) (*model.Trade, error)
	List(filter TradeListFilter) ([]model.Trade, error)
}

type tradeRepositoryHandler struct {
	Db *sql.DB
}

func NewTradeRepository(db *sql.DB) TradeRepository {
	return tradeRepositoryHandler{Db: db}
}

func (h tradeRepositoryHandler) Add(tx *sql.Tx, t model.Trade) (*model.Trade, error) {
	t.CreatedAt = time.Now().UTC()
	query := table.Trade.
		INSERT(table.Trade.MutableColumns).
		MODEL(t).
		RETURNING(table.Trade.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Trade{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trade: %w", err)
	}

	return &out, nil
}

func (h tradeRepositoryHandler) Get(tradeID uuid.UUID) (*model.Trade, error) {
	query := table.Trade.
		SELECT(table.Trade.AllColumns).
		WHERE(table.Trade.TradeID.EQ(postgres.UUID(tradeID)))

	result := model.Trade{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade %s: %w", tradeID, err)
	}

	return &result, nil
}

type TradeListFilter struct {
	StrategyID    *uuid.UUID
	ExecutedAfter *time.Time
}

func (h tradeRepositoryHandler) List(filter TradeListFilter) ([]model.Trade, error) {
	query := table.Trade.SELECT(table.Trade.AllColumns).ORDER_BY(table.Trade.ExecutedAt.ASC())

	conditions := []postgres.BoolExpression{}
	if filter.StrategyID != nil {
		conditions = append(conditions, table.Trade.StrategyID.EQ(postgres.UUID(*filter.StrategyID)))
	}
	if filter.ExecutedAfter != nil {
		conditions = append(conditions, table.Trade.ExecutedAt.GT_EQ(postgres.TimestampzT(*filter.ExecutedAfter)))
	}
	if len(conditions) > 0 {
		query = query.WHERE(postgres.AND(conditions...))
	}

	result := []model.Trade{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}

	return result, nil
}
