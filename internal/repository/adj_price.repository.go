package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/db/models/postgres/public/table"
	"tradeloop/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/shopspring/decimal"
)

type AdjustedPriceRepository interface {
	Add(tx *sql.Tx, prices []model.AdjustedPrice) error
	Get(symbol string, date time.Time) (float64, error)
	GetManyOnDay(symbols []string, date time.Time) (map[string]decimal.Decimal, error)
	List(symbols []string, start, end time.Time) ([]domain.AssetPrice, error)
	ListTradingDays(start, end time.Time) ([]time.Time, error)
}

type adjustedPriceRepositoryHandler struct {
	Db *sql.DB
}

func NewAdjustedPriceRepository(db *sql.DB) AdjustedPriceRepository {
	return adjustedPriceRepositoryHandler{Db: db}
}

func (h adjustedPriceRepositoryHandler) Add(tx *sql.Tx, prices []model.AdjustedPrice) error {
	if len(prices) == 0 {
		return nil
	}
	query := table.AdjustedPrice.
		INSERT(table.AdjustedPrice.AllColumns).
		MODELS(prices).
		ON_CONFLICT(table.AdjustedPrice.Symbol, table.AdjustedPrice.Date).
		DO_UPDATE(postgres.SET(
			table.AdjustedPrice.Price.SET(table.AdjustedPrice.EXCLUDED.Price),
		))

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add adjusted prices: %w", err)
	}

	return nil
}

func (h adjustedPriceRepositoryHandler) Get(symbol string, date time.Time) (float64, error) {
	// most recent trading day lte the requested date, so weekends and
	// holidays resolve to the prior close
	query := table.AdjustedPrice.
		SELECT(table.AdjustedPrice.AllColumns).
		WHERE(
			table.AdjustedPrice.Symbol.EQ(postgres.String(symbol)).
				AND(table.AdjustedPrice.Date.LT_EQ(postgres.DateT(date))),
		).
		ORDER_BY(table.AdjustedPrice.Date.DESC()).
		LIMIT(1)

	result := model.AdjustedPrice{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return 0, fmt.Errorf("failed to get price for %s on %v: %w", symbol, date, err)
	}

	return result.Price, nil
}

func (h adjustedPriceRepositoryHandler) GetManyOnDay(symbols []string, date time.Time) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, symbol := range symbols {
		price, err := h.Get(symbol, date)
		if err != nil {
			return nil, err
		}
		out[symbol] = decimal.NewFromFloat(price)
	}

	return out, nil
}

func (h adjustedPriceRepositoryHandler) List(symbols []string, start, end time.Time) ([]domain.AssetPrice, error) {
	symbolExpressions := []postgres.Expression{}
	for _, s := range symbols {
		symbolExpressions = append(symbolExpressions, postgres.String(s))
	}
	query := table.AdjustedPrice.
		SELECT(table.AdjustedPrice.AllColumns).
		WHERE(
			table.AdjustedPrice.Symbol.IN(symbolExpressions...).
				AND(table.AdjustedPrice.Date.BETWEEN(postgres.DateT(start), postgres.DateT(end))),
		).
		ORDER_BY(table.AdjustedPrice.Date.ASC())

	rows := []model.AdjustedPrice{}
	err := query.Query(h.Db, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	out := []domain.AssetPrice{}
	for _, r := range rows {
		out = append(out, domain.AssetPrice{
			Symbol: r.Symbol,
			Date:   r.Date,
			Price:  decimal.NewFromFloat(r.Price),
		})
	}

	return out, nil
}

func (h adjustedPriceRepositoryHandler) ListTradingDays(start, end time.Time) ([]time.Time, error) {
	query := postgres.
		SELECT(table.AdjustedPrice.Date).
		DISTINCT().
		FROM(table.AdjustedPrice).
		WHERE(table.AdjustedPrice.Date.BETWEEN(postgres.DateT(start), postgres.DateT(end))).
		ORDER_BY(table.AdjustedPrice.Date.ASC())

	rows := []model.AdjustedPrice{}
	err := query.Query(h.Db, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list trading days: %w", err)
	}

	out := []time.Time{}
	for _, r := range rows {
		out = append(out, r.Date)
	}

	return out, nil
}
