package engine

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"testing"

	"kalshi-hedge-fund/internal/collector/mock"
	"kalshi-hedge-fund/internal/report"
	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/types"
)

func newTestTrader(t *testing.T) (*Trader, *mock.Collector) {
	t.Helper()
	t.Setenv("FUND_LOG_DIR", t.TempDir())
	collector := mock.New()
	cfg := store.Default()
	return NewTrader(cfg, collector), collector
}

func TestExecuteSignalBuy(t *testing.T) {
	trader, _ := newTestTrader(t)
	ctx := context.Background()

	execution, err := trader.ExecuteSignal(ctx, types.Signal{
		ContractID: "FED-CUT-MAR",
		Action:     types.ActionBuy,
		Confidence: 0.8,
	})
	if err != nil {
		t.Fatalf("ExecuteSignal: %v", err)
	}
	if execution.Status != types.StatusExecuted {
		t.Fatalf("expected EXECUTED, got %q (%s)", execution.Status, execution.Reason)
	}
	if execution.OrderID == "" {
		t.Error("expected order id")
	}
	// Buys lift the ask, which sits above the 0.62 mid.
	if execution.Price <= 0.62 {
		t.Errorf("buy should cross the spread above mid, got %v", execution.Price)
	}
}

func TestExecuteSignalSellPrice(t *testing.T) {
	trader, _ := newTestTrader(t)

	execution, err := trader.ExecuteSignal(context.Background(), types.Signal{
		ContractID: "FED-CUT-MAR",
		Action:     types.ActionSell,
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("ExecuteSignal: %v", err)
	}
	if execution.Status != types.StatusExecuted {
		t.Fatalf("expected EXECUTED, got %q (%s)", execution.Status, execution.Reason)
	}
	if execution.Price >= 0.62 {
		t.Errorf("sell should hit the bid below mid, got %v", execution.Price)
	}
}

func TestExecutedTradesAppearInDailyReport(t *testing.T) {
	trader, _ := newTestTrader(t)
	ctx := context.Background()

	for _, action := range []string{types.ActionBuy, types.ActionSell} {
		execution, err := trader.ExecuteSignal(ctx, types.Signal{
			ContractID: "FED-CUT-MAR",
			Action:     action,
			Confidence: 0.8,
		})
		if err != nil {
			t.Fatalf("ExecuteSignal %s: %v", action, err)
		}
		if execution.Status != types.StatusExecuted {
			t.Fatalf("expected EXECUTED %s, got %q (%s)", action, execution.Status, execution.Reason)
		}
	}

	path, err := report.NewSummarizer().SummarizeToday()
	if err != nil {
		t.Fatalf("SummarizeToday: %v", err)
	}
	if path == "" {
		t.Fatal("expected a report for the executed trades")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header, FED-CUT-MAR and TOTAL", len(records))
	}
	row := records[1]
	if row[0] != "FED-CUT-MAR" {
		t.Fatalf("contract = %q", row[0])
	}
	buys, _ := strconv.ParseFloat(row[1], 64)
	sells, _ := strconv.ParseFloat(row[3], 64)
	if buys <= 0 {
		t.Errorf("buy_contracts = %s, want the executed buy aggregated", row[1])
	}
	if sells <= 0 {
		t.Errorf("sell_contracts = %s, want the executed sell aggregated", row[3])
	}
}

func TestExecuteSignalHoldSkipped(t *testing.T) {
	trader, _ := newTestTrader(t)

	execution, err := trader.ExecuteSignal(context.Background(), types.Signal{
		ContractID: "FED-CUT-MAR",
		Action:     types.ActionHold,
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("ExecuteSignal: %v", err)
	}
	if execution.Status != types.StatusSkipped {
		t.Errorf("expected SKIPPED for HOLD, got %q", execution.Status)
	}
}

func TestExecuteSignalInvalidRejected(t *testing.T) {
	trader, _ := newTestTrader(t)

	execution, err := trader.ExecuteSignal(context.Background(), types.Signal{
		ContractID: "FED-CUT-MAR",
		Action:     "SHORT",
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("ExecuteSignal: %v", err)
	}
	if execution.Status != types.StatusRejected {
		t.Errorf("expected REJECTED for invalid action, got %q", execution.Status)
	}
}

func TestExecuteSignalUnknownContractFails(t *testing.T) {
	trader, _ := newTestTrader(t)

	execution, err := trader.ExecuteSignal(context.Background(), types.Signal{
		ContractID: "MISSING",
		Action:     types.ActionBuy,
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("ExecuteSignal: %v", err)
	}
	if execution.Status != types.StatusFailed {
		t.Errorf("expected FAILED for unknown contract, got %q", execution.Status)
	}
}

func TestPositionSize(t *testing.T) {
	portfolio := types.Portfolio{TotalValue: 10000}
	signal := types.Signal{Confidence: 0.8}

	// 10000 * 0.05 * 0.8 = 400
	if got := positionSize(signal, portfolio, 0.05); got != 400 {
		t.Errorf("expected size 400, got %v", got)
	}

	// Cap at 10% of portfolio: 10000 * 0.5 * 1.0 = 5000 -> 1000
	if got := positionSize(types.Signal{Confidence: 1}, portfolio, 0.5); got != 1000 {
		t.Errorf("expected cap at 1000, got %v", got)
	}

	// Floor at $10: 10000 * 0.05 * 0.001 = 0.5 -> 10
	if got := positionSize(types.Signal{Confidence: 0.001}, portfolio, 0.05); got != 10 {
		t.Errorf("expected floor at 10, got %v", got)
	}

	// Empty portfolio produces no size.
	if got := positionSize(signal, types.Portfolio{}, 0.05); got != 0 {
		t.Errorf("expected 0 for empty portfolio, got %v", got)
	}
}

func TestOrderPriceEmptyBook(t *testing.T) {
	if got := orderPrice(types.ActionBuy, types.OrderBook{}); got != 0.5 {
		t.Errorf("expected fallback 0.5, got %v", got)
	}
}

func TestPortfolioValuation(t *testing.T) {
	trader, collector := newTestTrader(t)
	ctx := context.Background()

	collector.SetBalance(5000)
	if _, err := collector.PlaceOrder(ctx, types.OrderRequest{
		ContractID: "FED-CUT-MAR", Side: "buy", Size: 100, Price: 0.6,
	}); err != nil {
		t.Fatalf("seed position: %v", err)
	}

	portfolio, err := trader.Portfolio(ctx)
	if err != nil {
		t.Fatalf("Portfolio: %v", err)
	}
	// Cash 5000 - 60 = 4940, position 100 @ 0.62 current = 62.
	want := 4940 + 100*0.62
	if portfolio.TotalValue != want {
		t.Errorf("expected total %v, got %v", want, portfolio.TotalValue)
	}
	if !portfolio.Simulated {
		t.Error("dry-run portfolio should be marked simulated")
	}
}

func TestCloseCancelsOpenOrders(t *testing.T) {
	trader, collector := newTestTrader(t)
	ctx := context.Background()

	if err := trader.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The mock fills immediately, so no open orders should remain either way.
	orders, err := collector.Orders(ctx, "open")
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("expected no open orders, got %d", len(orders))
	}
}
