package internal

import (
	"fmt"
	"os"
	"time"

	"tradeloop/internal/db/models/postgres/public/model"
	"tradeloop/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// IngestPrices pulls daily adjusted closes for a symbol from Yahoo and
// upserts them. Re-running for the same range is safe.
func IngestPrices(
	symbol string,
	start time.Time,
	adjPricesRepository repository.AdjustedPriceRepository,
) error {
	now := time.Now()
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&now),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	models := []model.AdjustedPrice{}
	for iter.Next() {
		models = append(models, model.AdjustedPrice{
			Symbol:    symbol,
			Date:      time.Unix(int64(iter.Bar().Timestamp), 0).UTC(),
			Price:     iter.Bar().AdjClose.InexactFloat64(),
			CreatedAt: time.Now().UTC(),
		})
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}
	if len(models) == 0 {
		return fmt.Errorf("no prices returned for %s", symbol)
	}

	return adjPricesRepository.Add(nil, models)
}

type priceCsvRow struct {
	Symbol string  `csv:"symbol"`
	Date   string  `csv:"date"`
	Price  float64 `csv:"price"`
}

// IngestPricesFromCsv loads a symbol,date,price file into the prices
// table. Backtests on canned datasets go through here instead of Yahoo.
func IngestPricesFromCsv(
	path string,
	adjPricesRepository repository.AdjustedPriceRepository,
) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows := []priceCsvRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	models := make([]model.AdjustedPrice, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			return 0, fmt.Errorf("bad date %q in %s: %w", row.Date, path, err)
		}
		models = append(models, model.AdjustedPrice{
			Symbol:    row.Symbol,
			Date:      date,
			Price:     row.Price,
			CreatedAt: time.Now().UTC(),
		})
	}
	if len(models) == 0 {
		return 0, fmt.Errorf("no rows in %s", path)
	}

	if err := adjPricesRepository.Add(nil, models); err != nil {
		return 0, err
	}

	return len(models), nil
}
