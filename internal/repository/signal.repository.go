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

type SignalRepository interface {
	Add(tx *sql.Tx, s model.Signal) (*model.Signal, error)
	Get(signalID uuid.UUID) (*model.Signal, error)
	List(filter SignalListFilter) ([]model.Signal, error)
	SetTerminalState(tx *sql.Tx, signalID uuid.UUID, state model.SignalTerminalState, reason *string) (*model.Signal, error)
}

type signalRepositoryHandler struct {
	Db *sql.DB
}

func NewSignalRepository(db *sql.DB) SignalRepository {
	return signalRepositoryHandler{Db: db}
}

func (h signalRepositoryHandler) Add(tx *sql.Tx, s model.Signal) (*model.Signal, error) {
	s.CreatedAt = time.Now().UTC()
	s.ModifiedAt = time.Now().UTC()
	query := table.Signal.
		INSERT(table.Signal.MutableColumns).
		MODEL(s).
		RETURNING(table.Signal.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Signal{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert signal: %w", err)
	}

	return &out, nil
}

func (h signalRepositoryHandler) Get(signalID uuid.UUID) (*model.Signal, error) {
	query := table.Signal.
		SELECT(table.Signal.AllColumns).
		WHERE(table.Signal.SignalID.EQ(postgres.UUID(signalID)))

	result := model.Signal{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get signal %s: %w", signalID, err)
	}

	return &result, nil
}

type SignalListFilter struct {
	AsOfDate   *time.Time
	StrategyID *uuid.UUID
}

func (h signalRepositoryHandler) List(filter SignalListFilter) ([]model.Signal, error) {
	query := table.Signal.SELECT(table.Signal.AllColumns)

	conditions := []postgres.BoolExpression{}
	if filter.AsOfDate != nil {
		conditions = append(conditions, table.Signal.AsOfDate.EQ(postgres.DateT(*filter.AsOfDate)))
	}
	if filter.StrategyID != nil {
		conditions = append(conditions, table.Signal.StrategyID.EQ(postgres.UUID(*filter.StrategyID)))
	}
	if len(conditions) > 0 {
		query = query.WHERE(postgres.AND(conditions...))
	}

	result := []model.Signal{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}

	return result, nil
}

// SetTerminalState persists a signal's one-shot disposition. The WHERE
// clause requires terminal_state to still be null, so a competing writer
// cannot overwrite an existing disposition; qrm.ErrNoRows comes back if
// the signal was already terminal.
func (h signalRepositoryHandler) SetTerminalState(tx *sql.Tx, signalID uuid.UUID, state model.SignalTerminalState, reason *string) (*model.Signal, error) {
	now := time.Now().UTC()
	s := model.Signal{
		TerminalState:  &state,
		TerminalReason: reason,
		TerminalAt:     &now,
		ModifiedAt:     now,
	}
	query := table.Signal.
		UPDATE(
			table.Signal.TerminalState,
			table.Signal.TerminalReason,
			table.Signal.TerminalAt,
			table.Signal.ModifiedAt,
		).
		MODEL(s).
		WHERE(
			table.Signal.SignalID.EQ(postgres.UUID(signalID)).
				AND(table.Signal.TerminalState.IS_NULL()),
		).
		RETURNING(table.Signal.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Signal{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to set terminal state on signal %s: %w", signalID, err)
	}

	return &out, nil
}
