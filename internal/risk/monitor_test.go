package risk

import (
	"context"
	"fmt"
	"testing"

	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/types"
)

func testLimits() store.RiskConfig {
	return store.RiskConfig{
		MaxPositionSize:  0.05,
		MaxDrawdown:      0.20,
		VarLimit:         0.02,
		MaxOpenPositions: 20,
	}
}

func portfolio(value float64, positions ...types.Position) types.Portfolio {
	return types.Portfolio{TotalValue: value, CashBalance: value, Positions: positions}
}

func TestCheckSignalPasses(t *testing.T) {
	m := NewMonitor(testLimits())
	signal := types.Signal{ContractID: "A", Action: types.ActionBuy, Confidence: 0.8}

	ok, failed := m.CheckSignal(context.Background(), signal, portfolio(10000))
	if !ok {
		t.Fatalf("expected signal to pass, failed checks: %v", failed)
	}
	if len(m.Alerts("")) != 0 {
		t.Error("passing signal should not raise alerts")
	}
}

func TestCheckSignalEmptyPortfolio(t *testing.T) {
	m := NewMonitor(testLimits())
	signal := types.Signal{ContractID: "A", Action: types.ActionBuy, Confidence: 0.8}

	ok, failed := m.CheckSignal(context.Background(), signal, portfolio(0))
	if ok {
		t.Fatal("expected failure with zero portfolio value")
	}
	if len(failed) == 0 || failed[0] != "position_size" {
		t.Errorf("expected position_size failure, got %v", failed)
	}
}

func TestCheckConcentration(t *testing.T) {
	m := NewMonitor(testLimits())
	signal := types.Signal{ContractID: "A", Action: types.ActionBuy, Confidence: 0.8}

	// Existing exposure to A at 15% of portfolio blows the 10% cap
	// (2x the 5% per-position limit).
	p := portfolio(10000, types.Position{ContractID: "A", Size: 1500})
	ok, failed := m.CheckSignal(context.Background(), signal, p)
	if ok {
		t.Fatal("expected concentration failure")
	}
	if !contains(failed, "concentration") {
		t.Errorf("expected concentration in failed checks, got %v", failed)
	}
}

func TestCheckCorrelationTooManyPositions(t *testing.T) {
	m := NewMonitor(testLimits())
	signal := types.Signal{ContractID: "NEW", Action: types.ActionBuy, Confidence: 0.8}

	positions := make([]types.Position, 20)
	for i := range positions {
		positions[i] = types.Position{ContractID: fmt.Sprintf("C%d", i), Size: 10}
	}
	ok, failed := m.CheckSignal(context.Background(), signal, portfolio(10000, positions...))
	if ok {
		t.Fatal("expected correlation failure with 20 positions")
	}
	if !contains(failed, "correlation") {
		t.Errorf("expected correlation in failed checks, got %v", failed)
	}
}

func TestCheckDrawdown(t *testing.T) {
	m := NewMonitor(testLimits())
	ctx := context.Background()

	// Record a peak, then drop 30%.
	m.Metrics(ctx, portfolio(10000))
	signal := types.Signal{ContractID: "A", Action: types.ActionBuy, Confidence: 0.8}

	ok, failed := m.CheckSignal(ctx, signal, portfolio(7000))
	if ok {
		t.Fatal("expected drawdown failure")
	}
	if !contains(failed, "drawdown") {
		t.Errorf("expected drawdown in failed checks, got %v", failed)
	}

	// A 10% drop stays within the 20% limit.
	ok, _ = m.CheckSignal(ctx, signal, portfolio(9000))
	if !ok {
		t.Error("10%% drawdown should pass")
	}
}

func TestMetrics(t *testing.T) {
	m := NewMonitor(testLimits())
	p := portfolio(10000,
		types.Position{ContractID: "A", Size: 200},
		types.Position{ContractID: "B", Size: -500},
	)

	got := m.Metrics(context.Background(), p)
	if got.TotalValue != 10000 || got.NumPositions != 2 {
		t.Errorf("unexpected metrics %+v", got)
	}
	if got.LargestPosition == nil || got.LargestPosition.ContractID != "B" {
		t.Errorf("expected B as largest position, got %+v", got.LargestPosition)
	}
	if got.Concentration != 0.07 {
		t.Errorf("expected concentration 0.07, got %v", got.Concentration)
	}
	if got.Limits.MaxPositionSize != 0.05 {
		t.Errorf("expected limits echoed, got %+v", got.Limits)
	}
}

func TestMetricsHistoryBounded(t *testing.T) {
	m := NewMonitor(testLimits())
	for i := 0; i < 150; i++ {
		m.Metrics(context.Background(), portfolio(10000))
	}
	if len(m.history) != maxHistoryEntries {
		t.Errorf("expected history capped at %d, got %d", maxHistoryEntries, len(m.history))
	}
}

func TestAlertsBoundedAndFiltered(t *testing.T) {
	m := NewMonitor(testLimits())
	for i := 0; i < 60; i++ {
		m.addAlert("RISK_LIMIT_EXCEEDED", fmt.Sprintf("alert %d", i))
	}
	m.addAlert("OTHER", "different type")

	all := m.Alerts("")
	if len(all) != maxAlerts {
		t.Errorf("expected alerts capped at %d, got %d", maxAlerts, len(all))
	}

	filtered := m.Alerts("OTHER")
	if len(filtered) != 1 || filtered[0].Message != "different type" {
		t.Errorf("unexpected filtered alerts %v", filtered)
	}

	m.ClearAlerts()
	if len(m.Alerts("")) != 0 {
		t.Error("expected alerts cleared")
	}
}

func TestRecordExecution(t *testing.T) {
	m := NewMonitor(testLimits())
	ctx := context.Background()

	m.RecordExecution(ctx, types.Execution{
		Status: types.StatusExecuted, ContractID: "A", Action: types.ActionBuy, Size: 100,
	})
	m.RecordExecution(ctx, types.Execution{
		Status: types.StatusExecuted, ContractID: "A", Action: types.ActionSell, Size: 30,
	})
	// Skipped executions must not move positions.
	m.RecordExecution(ctx, types.Execution{
		Status: types.StatusSkipped, ContractID: "A", Action: types.ActionBuy, Size: 999,
	})

	if got := m.positions["A"]; got != 70 {
		t.Errorf("expected net position 70, got %v", got)
	}
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
