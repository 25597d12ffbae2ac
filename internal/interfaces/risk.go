package interfaces

import (
	"context"

	"kalshi-hedge-fund/internal/types"
)

// RiskMonitor validates signals against exposure limits and tracks
// portfolio risk over time.
type RiskMonitor interface {
	// CheckSignal returns true when the signal passes all risk checks.
	// The second return value names the failed checks.
	CheckSignal(ctx context.Context, signal types.Signal, portfolio types.Portfolio) (bool, []string)
	RecordExecution(ctx context.Context, execution types.Execution)
	Metrics(ctx context.Context, portfolio types.Portfolio) types.RiskMetrics
	Alerts(alertType string) []types.Alert
	ClearAlerts()
}
