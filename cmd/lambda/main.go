package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tradeloop/api"
	"tradeloop/cmd"
	"tradeloop/internal/app"
	"tradeloop/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

type lambdaHandler struct {
	apiHandler *api.ApiHandler
	session    *app.SessionHandler
}

// Handler serves two event shapes from one function: API Gateway proxy
// requests are routed into the gin engine, and EventBridge scheduled
// events (no HTTP method) run the daily trading session.
func (m lambdaHandler) Handler(ctx context.Context, raw json.RawMessage) (events.APIGatewayProxyResponse, error) {
	req := events.APIGatewayProxyRequest{}
	if err := json.Unmarshal(raw, &req); err == nil && req.HTTPMethod != "" {
		engine := m.apiHandler.InitializeRouterEngine()
		ginLambda := ginadapter.New(engine)

		return ginLambda.ProxyWithContext(ctx, req)
	}

	ctx = logger.AddToContext(ctx, logger.New())
	report, err := m.session.Run(ctx, time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: 500, Body: err.Error()}, err
	}

	body, _ := json.Marshal(report)

	return events.APIGatewayProxyResponse{StatusCode: 200, Body: string(body)}, nil
}

func main() {
	deps, err := cmd.InitializeDependencies("config.yaml")
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	handler := lambdaHandler{
		apiHandler: deps.ApiHandler,
		session: &app.SessionHandler{
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
		},
	}
	lambda.Start(handler.Handler)
}
