package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/db/models/postgres/public/table"
	"tradeloop/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

// BrokerStateRepository persists broker snapshots. Rows are append-only;
// there is intentionally no update path.
type BrokerStateRepository interface {
	Add(tx *sql.Tx, snapshot domain.BrokerSnapshot) (*model.BrokerState, error)
	ListOnDay(date time.Time) ([]model.BrokerState, error)
	ListSince(date time.Time) ([]model.BrokerState, error)
}

type brokerStateRepositoryHandler struct {
	Db *sql.DB
}

func NewBrokerStateRepository(db *sql.DB) BrokerStateRepository {
	return brokerStateRepositoryHandler{Db: db}
}

func (h brokerStateRepositoryHandler) Add(tx *sql.Tx, snapshot domain.BrokerSnapshot) (*model.BrokerState, error) {
	positionsJson, err := json.Marshal(snapshot.Positions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal broker positions: %w", err)
	}

	var discrepanciesJson *string
	if len(snapshot.Discrepancies) > 0 {
		b, err := json.Marshal(snapshot.Discrepancies)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal discrepancies: %w", err)
		}
		s := string(b)
		discrepanciesJson = &s
	}

	row := model.BrokerState{
		BrokerStateID:        uuid.New(),
		Date:                 snapshot.Date,
		Cash:                 snapshot.Cash,
		PortfolioValue:       snapshot.PortfolioValue,
		BuyingPower:          snapshot.BuyingPower,
		Positions:            string(positionsJson),
		ReconciliationStatus: model.ReconciliationStatus(snapshot.Status),
		Discrepancies:        discrepanciesJson,
		CreatedAt:            time.Now().UTC(),
	}

	query := table.BrokerState.
		INSERT(table.BrokerState.AllColumns).
		MODEL(row).
		RETURNING(table.BrokerState.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.BrokerState{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert broker state: %w", err)
	}

	return &out, nil
}

func (h brokerStateRepositoryHandler) ListOnDay(date time.Time) ([]model.BrokerState, error) {
	query := table.BrokerState.
		SELECT(table.BrokerState.AllColumns).
		WHERE(table.BrokerState.Date.EQ(postgres.DateT(date))).
		ORDER_BY(table.BrokerState.CreatedAt.ASC())

	result := []model.BrokerState{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list broker state on %v: %w", date, err)
	}

	return result, nil
}

func (h brokerStateRepositoryHandler) ListSince(date time.Time) ([]model.BrokerState, error) {
	query := table.BrokerState.
		SELECT(table.BrokerState.AllColumns).
		WHERE(table.BrokerState.Date.GT_EQ(postgres.DateT(date))).
		ORDER_BY(table.BrokerState.Date.ASC(), table.BrokerState.CreatedAt.ASC())

	result := []model.BrokerState{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list broker state since %v: %w", date, err)
	}

	return result, nil
}
