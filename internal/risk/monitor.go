// Package risk enforces portfolio exposure limits before execution and
// tracks drawdown, concentration, and alert history.
package risk

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/metrics"
	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/types"
)

const (
	maxHistoryEntries = 100
	maxAlerts         = 50
)

// Monitor checks signals against configured risk limits. Safe for
// concurrent use.
type Monitor struct {
	mu        sync.Mutex
	limits    store.RiskConfig
	positions map[string]float64
	history   []types.RiskMetrics
	alerts    []types.Alert
}

// Compile-time interface check
var _ interfaces.RiskMonitor = (*Monitor)(nil)

func NewMonitor(limits store.RiskConfig) *Monitor {
	return &Monitor{
		limits:    limits,
		positions: make(map[string]float64),
	}
}

// CheckSignal runs all risk checks against the portfolio. It returns
// whether the signal may proceed plus the names of failed checks.
func (m *Monitor) CheckSignal(ctx context.Context, signal types.Signal, portfolio types.Portfolio) (bool, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	failed := []string{}
	if !m.checkPositionSize(signal, portfolio) {
		failed = append(failed, "position_size")
	}
	if !m.checkConcentration(signal, portfolio) {
		failed = append(failed, "concentration")
	}
	if !m.checkCorrelation(portfolio) {
		failed = append(failed, "correlation")
	}
	if !m.checkDrawdown(portfolio) {
		failed = append(failed, "drawdown")
	}

	if len(failed) > 0 {
		for _, check := range failed {
			metrics.RiskCheckFailuresTotal.WithLabelValues(check).Inc()
		}
		m.addAlert("RISK_LIMIT_EXCEEDED", fmt.Sprintf("Failed checks: %v", failed))
		logger.Risk(ctx, signal.ContractID, "RISK_LIMIT_EXCEEDED", "failed_checks", failed)
		return false, failed
	}
	return true, nil
}

// checkPositionSize verifies the confidence-scaled position stays under
// the per-position cap.
func (m *Monitor) checkPositionSize(signal types.Signal, portfolio types.Portfolio) bool {
	if portfolio.TotalValue <= 0 {
		return false
	}
	proposed := portfolio.TotalValue * m.limits.MaxPositionSize * signal.Confidence
	maxAllowed := portfolio.TotalValue * m.limits.MaxPositionSize
	return proposed <= maxAllowed
}

// checkConcentration caps existing exposure to a single contract at
// twice the per-position limit.
func (m *Monitor) checkConcentration(signal types.Signal, portfolio types.Portfolio) bool {
	if signal.ContractID == "" || portfolio.TotalValue <= 0 {
		return true
	}
	exposure := 0.0
	for _, pos := range portfolio.Positions {
		if pos.ContractID == signal.ContractID {
			exposure += math.Abs(pos.Size)
		}
	}
	concentration := exposure / portfolio.TotalValue
	return concentration <= m.limits.MaxPositionSize*2
}

// checkCorrelation is a proxy: a crowded book is assumed correlated.
func (m *Monitor) checkCorrelation(portfolio types.Portfolio) bool {
	return len(portfolio.Positions) < m.limits.MaxOpenPositions
}

// checkDrawdown compares the portfolio value against its recorded peak.
func (m *Monitor) checkDrawdown(portfolio types.Portfolio) bool {
	peak := m.peakValue()
	if peak <= 0 {
		return true
	}
	drawdown := (peak - portfolio.TotalValue) / peak
	return drawdown <= m.limits.MaxDrawdown
}

func (m *Monitor) peakValue() float64 {
	peak := 0.0
	for _, entry := range m.history {
		if entry.TotalValue > peak {
			peak = entry.TotalValue
		}
	}
	return peak
}

// RecordExecution updates the internal position tracking after a fill.
func (m *Monitor) RecordExecution(ctx context.Context, execution types.Execution) {
	if execution.Status != types.StatusExecuted {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delta := execution.Size
	if execution.Action == types.ActionSell {
		delta = -execution.Size
	}
	m.positions[execution.ContractID] += delta
	logger.Debug(ctx, "Updated position tracking",
		"contract_id", execution.ContractID,
		"size", m.positions[execution.ContractID],
	)
}

// Metrics computes a point-in-time risk snapshot and appends it to the
// bounded history used for drawdown tracking.
func (m *Monitor) Metrics(ctx context.Context, portfolio types.Portfolio) types.RiskMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := types.RiskMetrics{
		TotalValue:   portfolio.TotalValue,
		NumPositions: len(portfolio.Positions),
		Limits: types.RiskLimits{
			MaxPositionSize: m.limits.MaxPositionSize,
			MaxDrawdown:     m.limits.MaxDrawdown,
			VarLimit:        m.limits.VarLimit,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	totalExposure := 0.0
	var largest *types.LargestPosition
	for _, pos := range portfolio.Positions {
		size := math.Abs(pos.Size)
		totalExposure += size
		if largest == nil || size > math.Abs(largest.Size) {
			largest = &types.LargestPosition{ContractID: pos.ContractID, Size: pos.Size}
		}
	}
	out.LargestPosition = largest
	if portfolio.TotalValue > 0 {
		out.Concentration = totalExposure / portfolio.TotalValue
	}

	if peak := m.peakValue(); peak > 0 {
		out.Drawdown = (peak - portfolio.TotalValue) / peak
	}

	m.history = append(m.history, out)
	if len(m.history) > maxHistoryEntries {
		m.history = m.history[len(m.history)-maxHistoryEntries:]
	}
	return out
}

func (m *Monitor) addAlert(alertType, message string) {
	m.alerts = append(m.alerts, types.Alert{
		Type:      alertType,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[len(m.alerts)-maxAlerts:]
	}
}

// Alerts returns recorded alerts, optionally filtered by type.
func (m *Monitor) Alerts(alertType string) []types.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []types.Alert{}
	for _, alert := range m.alerts {
		if alertType == "" || alert.Type == alertType {
			out = append(out, alert)
		}
	}
	return out
}

// ClearAlerts drops all recorded alerts.
func (m *Monitor) ClearAlerts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = nil
}
