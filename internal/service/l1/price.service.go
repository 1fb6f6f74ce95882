package l1_service

import (
	"fmt"
	"sort"
	"time"

	"tradeloop/internal/repository"
)

/**

behavior - load everything the run will need up front, then answer price
lookups without db round trips. non-trading days resolve to the most
recent prior trading day.

*/

type PriceService interface {
	LoadCache(symbols []string, start, end time.Time) (*PriceCache, error)
}

type priceServiceHandler struct {
	AdjPriceRepository repository.AdjustedPriceRepository
}

func NewPriceService(adjPriceRepository repository.AdjustedPriceRepository) PriceService {
	return priceServiceHandler{
		AdjPriceRepository: adjPriceRepository,
	}
}

type PriceCache struct {
	// symbol -> date (yyyy-mm-dd) -> price
	prices      map[string]map[string]float64
	tradingDays []time.Time
}

func (h priceServiceHandler) LoadCache(symbols []string, start, end time.Time) (*PriceCache, error) {
	assetPrices, err := h.AdjPriceRepository.List(symbols, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load price cache: %w", err)
	}

	tradingDays, err := h.AdjPriceRepository.ListTradingDays(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load trading days: %w", err)
	}

	cache := map[string]map[string]float64{}
	for _, p := range assetPrices {
		if _, ok := cache[p.Symbol]; !ok {
			cache[p.Symbol] = map[string]float64{}
		}
		cache[p.Symbol][p.Date.Format(time.DateOnly)] = p.Price.InexactFloat64()
	}

	return &PriceCache{
		prices:      cache,
		tradingDays: tradingDays,
	}, nil
}

func (pr *PriceCache) TradingDays() []time.Time {
	return pr.tradingDays
}

// Get retrieves the price for an asset on the given day, falling back to
// the most recent prior trading day in the cache window.
func (pr *PriceCache) Get(symbol string, date time.Time) (float64, error) {
	symbolPrices, ok := pr.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("price cache miss: no prices loaded for %s", symbol)
	}
	if price, ok := symbolPrices[date.Format(time.DateOnly)]; ok {
		return price, nil
	}

	for i := len(pr.tradingDays) - 1; i >= 0; i-- {
		d := pr.tradingDays[i]
		if d.After(date) {
			continue
		}
		if price, ok := symbolPrices[d.Format(time.DateOnly)]; ok {
			return price, nil
		}
	}

	return 0, fmt.Errorf("price cache miss %s %s", symbol, date.Format(time.DateOnly))
}

// SeriesEndingAt returns up to n trading-day prices for symbol, ending at
// the last trading day on or before end, in chronological order.
func (pr *PriceCache) SeriesEndingAt(symbol string, end time.Time, n int) ([]float64, error) {
	symbolPrices, ok := pr.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("price cache miss: no prices loaded for %s", symbol)
	}

	days := []time.Time{}
	for _, d := range pr.tradingDays {
		if d.After(end) {
			break
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	series := []float64{}
	for _, d := range days {
		if price, ok := symbolPrices[d.Format(time.DateOnly)]; ok {
			series = append(series, price)
		}
	}
	if len(series) > n {
		series = series[len(series)-n:]
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no prices for %s on or before %s", symbol, end.Format(time.DateOnly))
	}

	return series, nil
}

// NewPriceCacheForTests builds a cache directly from a price map; only
// tests and the csv-driven backtest loader should use it.
func NewPriceCacheForTests(prices map[string]map[string]float64, tradingDays []time.Time) *PriceCache {
	return &PriceCache{
		prices:      prices,
		tradingDays: tradingDays,
	}
}
