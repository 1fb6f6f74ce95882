package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"tradeloop/internal/repository"
	l2_service "tradeloop/internal/service/l2"
	l3_service "tradeloop/internal/service/l3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApiHandler exposes the operator surface: system status, daily
// artifacts, open positions, and the resume endpoint that lifts a
// reconciliation pause.
type ApiHandler struct {
	Db                    *sql.DB
	JwtSecret             string
	ReportsDir            string
	PositionBook          l2_service.PositionBookService
	Reconciliation        l3_service.ReconciliationService
	BrokerStateRepository repository.BrokerStateRepository
	TradeRepository       repository.TradeRepository
	AdjPriceRepository    repository.AdjustedPriceRepository
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to tradeloop"})
	})
	router.GET("/status", m.status)
	router.GET("/positions", m.positions)
	router.GET("/trades", m.trades)
	router.GET("/reports/:date", m.report)
	router.POST("/resume", m.requireOperator, m.resume)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(500, gin.H{
		"error": err.Error(),
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m ApiHandler) status(c *gin.Context) {
	systemStatus, err := m.Reconciliation.SystemStatus(c)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	snapshots, err := m.BrokerStateRepository.ListOnDay(time.Now().UTC())
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	reconciliations := make([]gin.H, 0, len(snapshots))
	for _, s := range snapshots {
		reconciliations = append(reconciliations, gin.H{
			"status":         s.ReconciliationStatus,
			"portfolioValue": s.PortfolioValue,
			"createdAt":      s.CreatedAt,
		})
	}

	c.JSON(200, gin.H{
		"systemStatus":         systemStatus,
		"cash":                 m.PositionBook.Cash(),
		"globalExposure":       m.PositionBook.GlobalExposure(),
		"reconciliationsToday": reconciliations,
	})
}

// positions marks the book to the latest stored close so the operator
// sees equity, not just cost basis.
func (m ApiHandler) positions(c *gin.Context) {
	positions := m.PositionBook.AllPositions()

	symbols := make([]string, 0, len(positions))
	for _, p := range positions {
		symbols = append(symbols, p.Symbol)
	}
	marks, err := m.AdjPriceRepository.GetManyOnDay(symbols, time.Now().UTC())
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"positions": positions,
		"equity":    m.PositionBook.Equity(marks),
		"cash":      m.PositionBook.Cash(),
	})
}

func (m ApiHandler) trades(c *gin.Context) {
	filter := repository.TradeListFilter{}

	if s := c.Query("strategyId"); s != "" {
		strategyID, err := uuid.Parse(s)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid strategyId %q: %w", s, err), c, 400)
			return
		}
		filter.StrategyID = &strategyID
	}
	if s := c.Query("since"); s != "" {
		since, err := time.Parse(time.DateOnly, s)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid since %q: %w", s, err), c, 400)
			return
		}
		filter.ExecutedAfter = &since
	}

	trades, err := m.TradeRepository.List(filter)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{"trades": trades})
}

func (m ApiHandler) report(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid date %q: %w", date, err), c, 400)
		return
	}

	path := filepath.Join(m.ReportsDir, date+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			returnErrorJsonCode(fmt.Errorf("no report for %s", date), c, 404)
			return
		}
		returnErrorJson(err, c)
		return
	}

	c.Data(200, "application/json", b)
}

// resume is the only path out of PAUSED. It is deliberately manual: the
// operator asserts the root cause is addressed by calling it.
func (m ApiHandler) resume(c *gin.Context) {
	tx, err := m.Db.BeginTx(c, nil)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	if err := m.Reconciliation.Resume(c, tx); err != nil {
		tx.Rollback()
		returnErrorJson(err, c)
		return
	}
	if err := tx.Commit(); err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{"systemStatus": "ACTIVE"})
}

func (m ApiHandler) requireOperator(c *gin.Context) {
	claims, err := parseOperatorJWT(c.GetHeader("Authorization"), m.JwtSecret)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("unauthorized: %w", err), c, http.StatusUnauthorized)
		return
	}
	if claims.Role != "operator" {
		returnErrorJsonCode(fmt.Errorf("forbidden: role %q cannot resume", claims.Role), c, http.StatusForbidden)
		return
	}

	c.Next()
}
