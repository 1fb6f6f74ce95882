package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// singleton row id for the system state table
const systemStateID = 1

// SystemStateRepository persists the ACTIVE/PAUSED switch so a pause
// survives process restarts. The executor consults it before every
// submission.
type SystemStateRepository interface {
	Get() (*model.SystemState, error)
	Set(tx *sql.Tx, status model.SystemStatus, reason *string) (*model.SystemState, error)
}

type systemStateRepositoryHandler struct {
	Db *sql.DB
}

func NewSystemStateRepository(db *sql.DB) SystemStateRepository {
	return systemStateRepositoryHandler{Db: db}
}

func (h systemStateRepositoryHandler) Get() (*model.SystemState, error) {
	query := table.SystemState.
		SELECT(table.SystemState.AllColumns).
		WHERE(table.SystemState.SystemStateID.EQ(postgres.Int32(systemStateID)))

	result := model.SystemState{}
	err := query.Query(h.Db, &result)
	if errors.Is(err, qrm.ErrNoRows) {
		// no row yet means the system has never been paused
		return &model.SystemState{
			SystemStateID: systemStateID,
			Status:        model.SystemStatus_Active,
			UpdatedAt:     time.Now().UTC(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get system state: %w", err)
	}

	return &result, nil
}

func (h systemStateRepositoryHandler) Set(tx *sql.Tx, status model.SystemStatus, reason *string) (*model.SystemState, error) {
	row := model.SystemState{
		SystemStateID: systemStateID,
		Status:        status,
		Reason:        reason,
		UpdatedAt:     time.Now().UTC(),
	}
	query := table.SystemState.
		INSERT(table.SystemState.AllColumns).
		MODEL(row).
		ON_CONFLICT(table.SystemState.SystemStateID).
		DO_UPDATE(postgres.SET(
			table.SystemState.Status.SET(table.SystemState.EXCLUDED.Status),
			table.SystemState.Reason.SET(table.SystemState.EXCLUDED.Reason),
			table.SystemState.UpdatedAt.SET(table.SystemState.EXCLUDED.UpdatedAt),
		)).
		RETURNING(table.SystemState.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.SystemState{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to set system state: %w", err)
	}

	return &out, nil
}
