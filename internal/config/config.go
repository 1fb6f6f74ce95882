package config

import (
	"fmt"
	"os"
	"time"

	"tradeloop/internal/domain"
	"tradeloop/internal/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Trading        TradingConfig        `yaml:"trading"`
	Risk           RiskConfig           `yaml:"risk"`
	Cost           CostConfig           `yaml:"cost"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
	Broker         BrokerConfig         `yaml:"broker"`
	Reports        ReportsConfig        `yaml:"reports"`
	Api            ApiConfig            `yaml:"api"`
}

type TradingConfig struct {
	// Paper and LiveTradingEnabled must agree before any real order goes
	// out. A mismatch is fatal at startup.
	Paper              bool   `yaml:"paper"`
	LiveTradingEnabled bool   `yaml:"live_trading_enabled"`
	BenchmarkSymbol    string `yaml:"benchmark_symbol"`
}

type RiskConfig struct {
	CorrelationLookbackDays int     `yaml:"correlation_lookback_days"`
	CorrelationThreshold    float64 `yaml:"correlation_threshold"`
	RiskPerTradePct         float64 `yaml:"risk_per_trade_pct"`
	AtrLookbackDays         int     `yaml:"atr_lookback_days"`
	AtrStopMultiple         float64 `yaml:"atr_stop_multiple"`
	HeatCeiling             float64 `yaml:"heat_ceiling"`
	HeatCeilingVolatile     float64 `yaml:"heat_ceiling_volatile"`
	CircuitBreakerDrawdown  float64 `yaml:"circuit_breaker_drawdown"`
	CircuitBreakerDailyVol  float64 `yaml:"circuit_breaker_daily_vol"`
	// Pointer so an omitted key is distinguishable from an explicit false;
	// nil defaults to true.
	AllowExitsWhenTripped *bool `yaml:"allow_exits_when_tripped"`
}

type CostConfig struct {
	SlippagePct         float64 `yaml:"slippage_pct"`
	SlippagePctVolatile float64 `yaml:"slippage_pct_volatile"`
	CommissionFlat      float64 `yaml:"commission_flat"`
	CommissionPerShare  float64 `yaml:"commission_per_share"`
}

type ReconciliationConfig struct {
	TolerancePct float64 `yaml:"tolerance_pct"`
}

type BrokerConfig struct {
	MaxRetries     int `yaml:"max_retries"`
	BackoffMs      int `yaml:"backoff_ms"`
	CallTimeoutSec int `yaml:"call_timeout_sec"`
}

type ReportsConfig struct {
	Dir string `yaml:"dir"`
}

type ApiConfig struct {
	Port int `yaml:"port"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Risk.CorrelationLookbackDays == 0 {
		cfg.Risk.CorrelationLookbackDays = 60
	}
	if cfg.Risk.CorrelationThreshold == 0 {
		cfg.Risk.CorrelationThreshold = 0.65
	}
	if cfg.Risk.RiskPerTradePct == 0 {
		cfg.Risk.RiskPerTradePct = 0.01
	}
	if cfg.Risk.AtrLookbackDays == 0 {
		cfg.Risk.AtrLookbackDays = 14
	}
	if cfg.Risk.AtrStopMultiple == 0 {
		cfg.Risk.AtrStopMultiple = 2.0
	}
	if cfg.Risk.HeatCeiling == 0 {
		cfg.Risk.HeatCeiling = 0.20
	}
	if cfg.Risk.HeatCeilingVolatile == 0 {
		cfg.Risk.HeatCeilingVolatile = 0.10
	}
	if cfg.Risk.CircuitBreakerDrawdown == 0 {
		cfg.Risk.CircuitBreakerDrawdown = 0.03
	}
	if cfg.Risk.CircuitBreakerDailyVol == 0 {
		cfg.Risk.CircuitBreakerDailyVol = 0.04
	}
	if cfg.Risk.AllowExitsWhenTripped == nil {
		cfg.Risk.AllowExitsWhenTripped = util.BoolPointer(true)
	}
	if cfg.Cost.SlippagePct == 0 {
		cfg.Cost.SlippagePct = 0.001
	}
	if cfg.Cost.SlippagePctVolatile == 0 {
		cfg.Cost.SlippagePctVolatile = 0.002
	}
	if cfg.Cost.CommissionPerShare == 0 {
		cfg.Cost.CommissionPerShare = 0.005
	}
	if cfg.Reconciliation.TolerancePct == 0 {
		cfg.Reconciliation.TolerancePct = 0.01
	}
	if cfg.Broker.MaxRetries == 0 {
		cfg.Broker.MaxRetries = 3
	}
	if cfg.Broker.BackoffMs == 0 {
		cfg.Broker.BackoffMs = 500
	}
	if cfg.Broker.CallTimeoutSec == 0 {
		cfg.Broker.CallTimeoutSec = 10
	}
	if cfg.Trading.BenchmarkSymbol == "" {
		cfg.Trading.BenchmarkSymbol = "SPY"
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = "reports"
	}
	if cfg.Api.Port == 0 {
		cfg.Api.Port = 3009
	}
}

// Validate enforces the paper/live agreement: submitting real orders
// requires paper=false AND live_trading_enabled=true, and the two flags
// may never contradict each other.
func (c *Config) Validate() error {
	if !c.Trading.Paper && !c.Trading.LiveTradingEnabled {
		return domain.ConfigurationError{Reason: "paper=false but live_trading_enabled=false; refusing to start ambiguous live session"}
	}
	if c.Trading.Paper && c.Trading.LiveTradingEnabled {
		return domain.ConfigurationError{Reason: "paper=true but live_trading_enabled=true; flags disagree"}
	}
	if c.Risk.CorrelationThreshold < 0 || c.Risk.CorrelationThreshold > 1 {
		return domain.ConfigurationError{Reason: fmt.Sprintf("correlation_threshold %f outside [0, 1]", c.Risk.CorrelationThreshold)}
	}
	if c.Reconciliation.TolerancePct < 0 {
		return domain.ConfigurationError{Reason: "reconciliation tolerance_pct cannot be negative"}
	}
	return nil
}

func (c *Config) IsLive() bool {
	return !c.Trading.Paper && c.Trading.LiveTradingEnabled
}

func (c *Config) BrokerBackoff() time.Duration {
	return time.Duration(c.Broker.BackoffMs) * time.Millisecond
}

func (c *Config) BrokerCallTimeout() time.Duration {
	return time.Duration(c.Broker.CallTimeoutSec) * time.Second
}

// ExitsAllowedWhenTripped reports whether SELL signals may still pass the
// risk gate while the circuit breaker is tripped. Unset means allowed.
func (c *Config) ExitsAllowedWhenTripped() bool {
	return c.Risk.AllowExitsWhenTripped == nil || *c.Risk.AllowExitsWhenTripped
}

// HeatCeilingFor returns the regime-dependent portfolio heat ceiling.
func (c *Config) HeatCeilingFor(regime domain.Regime) float64 {
	if regime == domain.Regime_Volatile {
		return c.Risk.HeatCeilingVolatile
	}
	return c.Risk.HeatCeiling
}

// SlippagePctFor returns the regime-adjusted slippage percentage.
func (c *Config) SlippagePctFor(regime domain.Regime) float64 {
	if regime == domain.Regime_Volatile {
		return c.Cost.SlippagePctVolatile
	}
	return c.Cost.SlippagePct
}
