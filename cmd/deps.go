package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"tradeloop/api"
	"tradeloop/internal/config"
	"tradeloop/internal/repository"
	l1_service "tradeloop/internal/service/l1"
	l2_service "tradeloop/internal/service/l2"
	l3_service "tradeloop/internal/service/l3"
	"tradeloop/internal/util"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Dependencies is the fully wired object graph for the live/paper paths.
// Backtests build their own lighter graph via app.NewBacktestHandler.
type Dependencies struct {
	Config                       *config.Config
	Db                           *sql.DB
	Secrets                      *util.Secrets
	SignalRepository             repository.SignalRepository
	TradeRepository              repository.TradeRepository
	PositionRepository           repository.PositionRepository
	AdjustedPriceRepository      repository.AdjustedPriceRepository
	BrokerStateRepository        repository.BrokerStateRepository
	StrategyAllocationRepository repository.StrategyAllocationRepository
	SystemStateRepository        repository.SystemStateRepository
	BrokerRepository             repository.BrokerRepository
	PriceService                 l1_service.PriceService
	CostService                  l1_service.CostService
	PositionBook                 l2_service.PositionBookService
	Ledger                       l2_service.LedgerService
	RiskGate                     l3_service.RiskGateService
	Executor                     l3_service.ExecutorService
	Reconciliation               l3_service.ReconciliationService
	ApiHandler                   *api.ApiHandler
}

func CloseDependencies(deps *Dependencies) {
	err := deps.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies(configPath string) (*Dependencies, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	// paper/live disagreement is fatal here, before anything touches the market
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	signalRepository := repository.NewSignalRepository(dbConn)
	tradeRepository := repository.NewTradeRepository(dbConn)
	positionRepository := repository.NewPositionRepository(dbConn)
	adjustedPriceRepository := repository.NewAdjustedPriceRepository(dbConn)
	brokerStateRepository := repository.NewBrokerStateRepository(dbConn)
	strategyAllocationRepository := repository.NewStrategyAllocationRepository(dbConn)
	systemStateRepository := repository.NewSystemStateRepository(dbConn)

	brokerRepository := repository.NewAlpacaBrokerRepository(
		secrets.Alpaca.ApiKey,
		secrets.Alpaca.ApiSecret,
		secrets.Alpaca.Endpoint,
		repository.RetryPolicy{
			MaxRetries:  cfg.Broker.MaxRetries,
			Backoff:     cfg.BrokerBackoff(),
			CallTimeout: cfg.BrokerCallTimeout(),
		},
	)
	if UseMockBroker {
		brokerRepository = NewMockBrokerRepository(decimal.NewFromInt(100_000))
	}

	account, err := brokerRepository.GetAccount(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch broker account at startup: %w", err)
	}

	positionBook, err := l2_service.NewPositionBookFromRepository(positionRepository, account.Cash)
	if err != nil {
		return nil, err
	}

	priceService := l1_service.NewPriceService(adjustedPriceRepository)
	costService := l1_service.NewCostService(cfg)
	ledger := l2_service.NewLedgerService(signalRepository)
	riskGate := l3_service.NewRiskGateService(cfg, positionBook)
	reconciliation := l3_service.NewReconciliationService(
		positionBook,
		brokerRepository,
		brokerStateRepository,
		systemStateRepository,
		cfg.Reconciliation.TolerancePct,
	)
	executor := l3_service.NewBrokerExecutor(costService, positionBook, tradeRepository, brokerRepository, reconciliation)

	apiHandler := &api.ApiHandler{
		Db:                    dbConn,
		JwtSecret:             secrets.Jwt,
		ReportsDir:            cfg.Reports.Dir,
		PositionBook:          positionBook,
		Reconciliation:        reconciliation,
		BrokerStateRepository: brokerStateRepository,
		TradeRepository:       tradeRepository,
		AdjPriceRepository:    adjustedPriceRepository,
	}

	return &Dependencies{
		Config:                       cfg,
		Db:                           dbConn,
		Secrets:                      secrets,
		SignalRepository:             signalRepository,
		TradeRepository:              tradeRepository,
		PositionRepository:           positionRepository,
		AdjustedPriceRepository:      adjustedPriceRepository,
		BrokerStateRepository:        brokerStateRepository,
		StrategyAllocationRepository: strategyAllocationRepository,
		SystemStateRepository:        systemStateRepository,
		BrokerRepository:             brokerRepository,
		PriceService:                 priceService,
		CostService:                  costService,
		PositionBook:                 positionBook,
		Ledger:                       ledger,
		RiskGate:                     riskGate,
		Executor:                     executor,
		Reconciliation:               reconciliation,
		ApiHandler:                   apiHandler,
	}, nil
}
