package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tradeloop/internal/domain"
	"tradeloop/internal/logger"
)

// ReportHandler writes the per-session artifact pair: a JSON document for
// machines and a short text summary for operators. Every run gets one,
// including runs that halted.
type ReportHandler struct {
	Dir string
}

func (h ReportHandler) Write(ctx context.Context, report *domain.DailyReport) error {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create reports dir: %w", err)
	}

	jsonPath := filepath.Join(h.Dir, report.Date+".json")
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal daily report: %w", err)
	}
	if err := os.WriteFile(jsonPath, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	textPath := filepath.Join(h.Dir, report.Date+".txt")
	if err := os.WriteFile(textPath, []byte(formatSummary(report)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", textPath, err)
	}

	log.Infow("wrote daily artifact", "json", jsonPath, "summary", textPath)

	return nil
}

func formatSummary(report *domain.DailyReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "trading session %s (%s)\n", report.Date, report.Mode)
	fmt.Fprintf(&sb, "regime: %s | system: %s", report.Regime, report.SystemStatus)
	if report.PauseReason != "" {
		fmt.Fprintf(&sb, " (%s)", report.PauseReason)
	}
	sb.WriteString("\n\n")

	states := make([]string, 0, len(report.SignalCounts))
	for state := range report.SignalCounts {
		states = append(states, string(state))
	}
	sort.Strings(states)
	sb.WriteString("signals:\n")
	for _, state := range states {
		fmt.Fprintf(&sb, "  %-30s %d\n", state, report.SignalCounts[domain.TerminalState(state)])
	}
	if report.UnresolvedSignals > 0 {
		fmt.Fprintf(&sb, "  %-30s %d\n", "UNRESOLVED", report.UnresolvedSignals)
	}

	sb.WriteString("\ntrades:\n")
	if len(report.Trades) == 0 {
		sb.WriteString("  none\n")
	}
	for _, t := range report.Trades {
		fmt.Fprintf(&sb, "  %s %d %s @ %s (cost %s, notional %s)\n",
			t.Side, t.Shares, t.Symbol, t.ExecPrice.StringFixed(2), t.TotalCost.StringFixed(2), t.Notional.StringFixed(2))
	}

	fmt.Fprintf(&sb, "\nrisk: heat %.4f | drawdown %.4f | circuit breaker tripped: %t\n",
		report.PortfolioHeat, report.Drawdown, report.CircuitBreaker)
	fmt.Fprintf(&sb, "exposure: global %s | cash %s\n",
		report.GlobalExposure.StringFixed(2), report.Cash.StringFixed(2))

	sb.WriteString("\nreconciliation:\n")
	if len(report.Reconciliation) == 0 {
		sb.WriteString("  not run\n")
	}
	for _, r := range report.Reconciliation {
		result := "passed"
		if !r.Passed {
			result = fmt.Sprintf("FAILED (%d discrepancies)", len(r.Discrepancies))
		}
		fmt.Fprintf(&sb, "  %-5s %s\n", r.Phase, result)
	}

	if report.Metrics != nil {
		m := report.Metrics
		fmt.Fprintf(&sb, "\nmetrics: return %.4f | sharpe %.2f | sortino %.2f | calmar %.2f | max dd %.4f | win rate %.2f | profit factor %.2f\n",
			m.TotalReturn, m.SharpeRatio, m.SortinoRatio, m.CalmarRatio, m.MaxDrawdown, m.WinRate, m.ProfitFactor)
	}

	fmt.Fprintf(&sb, "\nruntime %dms, %d errors\n", report.RuntimeMs, report.ErrorCount)

	return sb.String()
}
