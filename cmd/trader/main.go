package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"tradeloop/cmd"
	"tradeloop/internal"
	"tradeloop/internal/app"
	"tradeloop/internal/config"
	"tradeloop/internal/domain"
	"tradeloop/internal/logger"
	"tradeloop/internal/util"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "trader",
		Short: "daily trading cycle engine",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(backtestCmd())
	rootCmd.AddCommand(resumeCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(apiCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runCmd() *cobra.Command {
	var dateStr string

	c := &cobra.Command{
		Use:   "run",
		Short: "run one daily trading session",
		RunE: func(c *cobra.Command, args []string) error {
			deps, err := cmd.InitializeDependencies(configPath)
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(deps)

			date := time.Now().UTC().Truncate(24 * time.Hour)
			if dateStr != "" {
				date, err = time.Parse(time.DateOnly, dateStr)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", dateStr, err)
				}
			}

			session := &app.SessionHandler{
				Config:                       deps.Config,
				Db:                           deps.Db,
				SignalRepository:             deps.SignalRepository,
				BrokerRepository:             deps.BrokerRepository,
				BrokerStateRepository:        deps.BrokerStateRepository,
				StrategyAllocationRepository: deps.StrategyAllocationRepository,
				PriceService:                 deps.PriceService,
				PositionBook:                 deps.PositionBook,
				Ledger:                       deps.Ledger,
				RiskGate:                     deps.RiskGate,
				Executor:                     deps.Executor,
				Reconciliation:               deps.Reconciliation,
				Reports:                      app.ReportHandler{Dir: deps.Config.Reports.Dir},
			}

			ctx := logger.AddToContext(c.Context(), logger.New())
			report, err := session.Run(ctx, date)
			if err != nil {
				return err
			}
			fmt.Printf("session %s complete: %d trades, status %s\n", report.Date, len(report.Trades), report.SystemStatus)
			return nil
		},
	}
	c.Flags().StringVar(&dateStr, "date", "", "session date (yyyy-mm-dd), defaults to today")

	return c
}

func backtestCmd() *cobra.Command {
	var (
		startStr     string
		endStr       string
		startingCash float64
		signalsCsv   string
	)

	c := &cobra.Command{
		Use:   "backtest",
		Short: "replay the pipeline over historical prices",
		RunE: func(c *cobra.Command, args []string) error {
			deps, err := cmd.InitializeDependencies(configPath)
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(deps)

			start, err := time.Parse(time.DateOnly, startStr)
			if err != nil {
				return fmt.Errorf("invalid --start %q: %w", startStr, err)
			}
			end, err := time.Parse(time.DateOnly, endStr)
			if err != nil {
				return fmt.Errorf("invalid --end %q: %w", endStr, err)
			}

			signals, err := loadSignalsCsv(signalsCsv)
			if err != nil {
				return err
			}

			symbolSet := map[string]bool{deps.Config.Trading.BenchmarkSymbol: true}
			allocations := map[uuid.UUID]decimal.Decimal{}
			for _, s := range signals {
				symbolSet[s.Symbol] = true
				if _, ok := allocations[s.StrategyID]; !ok {
					allocation, err := deps.StrategyAllocationRepository.Get(s.StrategyID)
					if err != nil {
						return fmt.Errorf("failed to load allocation for strategy %s: %w", s.StrategyID, err)
					}
					allocations[s.StrategyID] = allocation.CapitalAllocation
				}
			}
			symbols := []string{}
			for symbol := range symbolSet {
				symbols = append(symbols, symbol)
			}

			// pad lookback so the first window day has full history
			prices, err := deps.PriceService.LoadCache(symbols, start.AddDate(0, 0, -200), end)
			if err != nil {
				return err
			}

			handler := app.NewBacktestHandler(deps.Config, decimal.NewFromFloat(startingCash))
			ctx := logger.AddToContext(c.Context(), logger.New())
			result, err := handler.Run(ctx, app.BacktestWindowInput{
				Start:       start,
				End:         end,
				Signals:     signals,
				Prices:      prices,
				Allocations: allocations,
			})
			if err != nil {
				return err
			}

			fmt.Printf("backtest %s..%s: %d trades\n", startStr, endStr, len(result.Trades))
			util.Pprint(result.Metrics)
			if result.UnresolvedSignals > 0 {
				return fmt.Errorf("%d signals never reached a terminal state", result.UnresolvedSignals)
			}
			return nil
		},
	}
	c.Flags().StringVar(&startStr, "start", "", "window start (yyyy-mm-dd)")
	c.Flags().StringVar(&endStr, "end", "", "window end (yyyy-mm-dd)")
	c.Flags().Float64Var(&startingCash, "cash", 100_000, "starting cash")
	c.Flags().StringVar(&signalsCsv, "signals", "", "csv of candidate signals")
	c.MarkFlagRequired("start")
	c.MarkFlagRequired("end")
	c.MarkFlagRequired("signals")

	return c
}

func resumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "operator resume: transition PAUSED -> ACTIVE",
		RunE: func(c *cobra.Command, args []string) error {
			deps, err := cmd.InitializeDependencies(configPath)
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(deps)

			ctx := logger.AddToContext(c.Context(), logger.New())
			tx, err := deps.Db.BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			if err := deps.Reconciliation.Resume(ctx, tx); err != nil {
				tx.Rollback()
				return err
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			fmt.Println("system resumed")
			return nil
		},
	}
}

func ingestCmd() *cobra.Command {
	var (
		symbols  []string
		csvPath  string
		startStr string
	)

	c := &cobra.Command{
		Use:   "ingest",
		Short: "load daily prices from yahoo or a csv file",
		RunE: func(c *cobra.Command, args []string) error {
			deps, err := cmd.InitializeDependencies(configPath)
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(deps)

			if csvPath != "" {
				n, err := internal.IngestPricesFromCsv(csvPath, deps.AdjustedPriceRepository)
				if err != nil {
					return err
				}
				fmt.Printf("loaded %d prices from %s\n", n, csvPath)
				return nil
			}

			start := time.Now().AddDate(-5, 0, 0)
			if startStr != "" {
				start, err = time.Parse(time.DateOnly, startStr)
				if err != nil {
					return fmt.Errorf("invalid --start %q: %w", startStr, err)
				}
			}
			for _, symbol := range symbols {
				if err := internal.IngestPrices(symbol, start, deps.AdjustedPriceRepository); err != nil {
					return err
				}
				fmt.Println("added", symbol)
			}
			return nil
		},
	}
	c.Flags().StringSliceVar(&symbols, "symbols", nil, "symbols to pull from yahoo")
	c.Flags().StringVar(&csvPath, "csv", "", "csv file of symbol,date,price rows")
	c.Flags().StringVar(&startStr, "start", "", "history start (yyyy-mm-dd)")

	return c
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <yyyy-mm-dd>",
		Short: "print the daily summary for a session date",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if _, err := time.Parse(time.DateOnly, args[0]); err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}

			b, err := os.ReadFile(filepath.Join(cfg.Reports.Dir, args[0]+".txt"))
			if err != nil {
				return fmt.Errorf("no report for %s: %w", args[0], err)
			}
			fmt.Print(string(b))
			return nil
		},
	}
}

func apiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "serve the operator api",
		RunE: func(c *cobra.Command, args []string) error {
			deps, err := cmd.InitializeDependencies(configPath)
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(deps)

			return deps.ApiHandler.StartApi(deps.Config.Api.Port)
		},
	}
}

type signalCsvRow struct {
	SignalID   string  `csv:"signal_id"`
	StrategyID string  `csv:"strategy_id"`
	Symbol     string  `csv:"symbol"`
	Side       string  `csv:"side"`
	Confidence float64 `csv:"confidence"`
	AsOfDate   string  `csv:"as_of_date"`
}

func loadSignalsCsv(path string) ([]*domain.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows := []signalCsvRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	signals := make([]*domain.Signal, 0, len(rows))
	for _, row := range rows {
		signalID := uuid.New()
		if row.SignalID != "" {
			signalID, err = uuid.Parse(row.SignalID)
			if err != nil {
				return nil, fmt.Errorf("bad signal_id %q: %w", row.SignalID, err)
			}
		}
		strategyID, err := uuid.Parse(row.StrategyID)
		if err != nil {
			return nil, fmt.Errorf("bad strategy_id %q: %w", row.StrategyID, err)
		}
		asOf, err := time.Parse(time.DateOnly, row.AsOfDate)
		if err != nil {
			return nil, fmt.Errorf("bad as_of_date %q: %w", row.AsOfDate, err)
		}
		side := domain.Side(row.Side)
		if side != domain.Side_Buy && side != domain.Side_Sell {
			return nil, fmt.Errorf("bad side %q for signal %s", row.Side, signalID)
		}
		signals = append(signals, &domain.Signal{
			SignalID:    signalID,
			StrategyID:  strategyID,
			Symbol:      row.Symbol,
			Side:        side,
			Confidence:  row.Confidence,
			AsOfDate:    asOf,
			GeneratedAt: time.Now().UTC(),
		})
	}

	return signals, nil
}
