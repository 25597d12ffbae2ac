package fund

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kalshi-hedge-fund/internal/collector/mock"
	"kalshi-hedge-fund/internal/engine"
	"kalshi-hedge-fund/internal/risk"
	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/types"
)

// stubReasoner returns a fixed analysis or error.
type stubReasoner struct {
	analysis types.EventAnalysis
	err      error
}

func (s *stubReasoner) AnalyzeEvent(ctx context.Context, contract types.Contract, extra map[string]any) (types.EventAnalysis, error) {
	if s.err != nil {
		return types.EventAnalysis{}, s.err
	}
	out := s.analysis
	out.ContractID = contract.ID
	return out, nil
}

func (s *stubReasoner) ResearchPlan(ctx context.Context, contract types.Contract) (types.ResearchPlan, error) {
	return types.ResearchPlan{ContractID: contract.ID}, nil
}

func (s *stubReasoner) FactCheck(ctx context.Context, information string, contract types.Contract) (types.FactCheck, error) {
	return types.FactCheck{Credibility: "unknown"}, nil
}

func bullishReasoner() *stubReasoner {
	return &stubReasoner{
		analysis: types.EventAnalysis{
			Model:           "stub",
			MarketSentiment: "bullish",
			Recommendations: []types.Recommendation{
				{Action: types.ActionBuy, Confidence: 0.95, Reasoning: "underpriced"},
			},
		},
	}
}

// stubPublisher records published events in memory.
type stubPublisher struct {
	signals    []types.Signal
	executions []types.Execution
	alerts     []types.Alert
	closed     bool
}

func (s *stubPublisher) PublishSignal(ctx context.Context, signal types.Signal) error {
	s.signals = append(s.signals, signal)
	return nil
}

func (s *stubPublisher) PublishTrade(ctx context.Context, execution types.Execution) error {
	s.executions = append(s.executions, execution)
	return nil
}

func (s *stubPublisher) PublishAlert(ctx context.Context, alert types.Alert) error {
	s.alerts = append(s.alerts, alert)
	return nil
}

func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func newTestFund(t *testing.T, reasoner *stubReasoner) (*Fund, *mock.Collector) {
	f, collector, _ := newTestFundWithOptions(t, reasoner, Options{})
	return f, collector
}

func newTestFundWithOptions(t *testing.T, reasoner *stubReasoner, opts Options) (*Fund, *mock.Collector, *store.Config) {
	t.Helper()
	t.Setenv("FUND_LOG_DIR", t.TempDir())

	cfg := store.Default()
	// The default 0.7 gate mutes most test signals; relax it so the
	// pipeline paths are reachable.
	cfg.Trading.MinConfidence = 0.5
	collector := mock.New()
	trader := engine.NewTrader(cfg, collector)
	monitor := risk.NewMonitor(cfg.Risk)
	return New(cfg, collector, reasoner, trader, monitor, opts), collector, cfg
}

func TestGetContract(t *testing.T) {
	f, _ := newTestFund(t, bullishReasoner())
	contract, err := f.GetContract(context.Background(), "FED-CUT-MAR")
	if err != nil {
		t.Fatalf("GetContract: %v", err)
	}
	if contract.ID != "FED-CUT-MAR" {
		t.Errorf("unexpected contract %+v", contract)
	}
}

func TestAnalyzeContract(t *testing.T) {
	f, _ := newTestFund(t, bullishReasoner())
	ctx := context.Background()

	contract, _ := f.GetContract(ctx, "FED-CUT-MAR")
	a, err := f.AnalyzeContract(ctx, contract)
	if err != nil {
		t.Fatalf("AnalyzeContract: %v", err)
	}
	if a.ContractID != "FED-CUT-MAR" {
		t.Errorf("unexpected analysis id %q", a.ContractID)
	}
	if a.LLM.MarketSentiment != "bullish" {
		t.Errorf("expected LLM analysis carried through, got %+v", a.LLM)
	}
	if a.Ensemble.Probability <= 0 || a.Ensemble.Probability >= 1 {
		t.Errorf("ensemble probability out of range: %v", a.Ensemble.Probability)
	}
}

func TestAnalyzeContractLLMFailureSoft(t *testing.T) {
	f, _ := newTestFund(t, &stubReasoner{err: errors.New("provider down")})
	ctx := context.Background()

	contract, _ := f.GetContract(ctx, "FED-CUT-MAR")
	a, err := f.AnalyzeContract(ctx, contract)
	if err != nil {
		t.Fatalf("expected soft failure, got %v", err)
	}
	if a.LLM.Model != "fallback" {
		t.Errorf("expected fallback LLM analysis, got %+v", a.LLM)
	}
	if a.Ensemble.ContractID != "FED-CUT-MAR" {
		t.Error("ensemble analysis should still run")
	}
}

func TestGenerateSignal(t *testing.T) {
	f, _ := newTestFund(t, bullishReasoner())
	ctx := context.Background()

	contract, _ := f.GetContract(ctx, "FED-CUT-MAR")
	a, _ := f.AnalyzeContract(ctx, contract)
	signal, err := f.GenerateSignal(ctx, a)
	if err != nil {
		t.Fatalf("GenerateSignal: %v", err)
	}
	if signal.ContractID != "FED-CUT-MAR" {
		t.Errorf("unexpected signal %+v", signal)
	}
	if signal.Action != types.ActionBuy {
		t.Errorf("bullish inputs should produce BUY, got %q (%v)", signal.Action, signal.Reasons)
	}
}

func TestGenerateSignalRiskGatePublishesAlert(t *testing.T) {
	pub := &stubPublisher{}
	f, collector, _ := newTestFundWithOptions(t, bullishReasoner(), Options{Publisher: pub})
	ctx := context.Background()

	// Drive drawdown over the limit: record a peak, then crash the balance.
	p, _ := f.trader.Portfolio(ctx)
	f.risk.Metrics(ctx, p)
	collector.SetBalance(1000)

	contract, _ := f.GetContract(ctx, "FED-CUT-MAR")
	a, _ := f.AnalyzeContract(ctx, contract)
	signal, err := f.GenerateSignal(ctx, a)
	if err != nil {
		t.Fatalf("GenerateSignal: %v", err)
	}
	if signal.Action != types.ActionHold {
		t.Fatalf("expected risk-gated HOLD, got %q", signal.Action)
	}
	if len(pub.alerts) != 1 {
		t.Fatalf("alerts published = %d, want 1", len(pub.alerts))
	}
	alert := pub.alerts[0]
	if alert.Type != "RISK_LIMIT_EXCEEDED" {
		t.Errorf("alert type = %q", alert.Type)
	}
	if !strings.Contains(alert.Message, "FED-CUT-MAR") || !strings.Contains(alert.Message, "drawdown") {
		t.Errorf("alert message = %q, want contract and failed check named", alert.Message)
	}
	// The gated HOLD still goes out as a signal event.
	if len(pub.signals) != 1 {
		t.Errorf("signals published = %d, want 1", len(pub.signals))
	}
}

func TestGenerateSignalRiskGate(t *testing.T) {
	f, collector := newTestFund(t, bullishReasoner())
	ctx := context.Background()

	// Drive drawdown over the limit: record a peak, then crash the balance.
	p, _ := f.trader.Portfolio(ctx)
	f.risk.Metrics(ctx, p)
	collector.SetBalance(1000)

	contract, _ := f.GetContract(ctx, "FED-CUT-MAR")
	a, _ := f.AnalyzeContract(ctx, contract)
	signal, err := f.GenerateSignal(ctx, a)
	if err != nil {
		t.Fatalf("GenerateSignal: %v", err)
	}
	if signal.Action != types.ActionHold {
		t.Errorf("expected risk-gated HOLD, got %q", signal.Action)
	}
	found := false
	for _, r := range signal.Reasons {
		if len(r) >= 20 && r[:20] == "Risk limits exceeded" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected risk reason, got %v", signal.Reasons)
	}
}

func TestExecuteTradeLowConfidenceSkipped(t *testing.T) {
	f, _ := newTestFund(t, bullishReasoner())

	execution, err := f.ExecuteTrade(context.Background(), types.Signal{
		ContractID: "FED-CUT-MAR",
		Action:     types.ActionBuy,
		Confidence: 0.3,
	})
	if err != nil {
		t.Fatalf("ExecuteTrade: %v", err)
	}
	if execution.Status != types.StatusSkipped || execution.Reason != "Low confidence" {
		t.Errorf("expected low-confidence skip, got %+v", execution)
	}
}

func TestExecuteTradeExecutes(t *testing.T) {
	f, _ := newTestFund(t, bullishReasoner())

	execution, err := f.ExecuteTrade(context.Background(), types.Signal{
		ContractID: "FED-CUT-MAR",
		Action:     types.ActionBuy,
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("ExecuteTrade: %v", err)
	}
	if execution.Status != types.StatusExecuted {
		t.Errorf("expected EXECUTED, got %+v", execution)
	}
}

func TestRunStrategy(t *testing.T) {
	f, _ := newTestFund(t, bullishReasoner())

	result, err := f.RunStrategy(context.Background(), []string{"FED-CUT-MAR", "NO-SUCH-CONTRACT"})
	if err != nil {
		t.Fatalf("RunStrategy: %v", err)
	}
	if result.TotalContracts != 2 || len(result.Results) != 2 {
		t.Fatalf("unexpected result shape %+v", result)
	}

	first := result.Results[0]
	if first.Error != "" || first.Analysis == nil || first.Signal == nil || first.Execution == nil {
		t.Errorf("expected full pipeline for known contract, got %+v", first)
	}

	second := result.Results[1]
	if second.Error == "" {
		t.Error("expected error recorded for unknown contract")
	}
	if second.Analysis != nil {
		t.Error("unknown contract should not produce analysis")
	}
}

func TestPortfolioStatus(t *testing.T) {
	f, _ := newTestFund(t, bullishReasoner())

	status, err := f.PortfolioStatus(context.Background())
	if err != nil {
		t.Fatalf("PortfolioStatus: %v", err)
	}
	if status.Portfolio.TotalValue != 10000 {
		t.Errorf("expected seeded balance, got %v", status.Portfolio.TotalValue)
	}
	if status.RiskMetrics.Limits.MaxPositionSize != 0.05 {
		t.Errorf("expected risk limits echoed, got %+v", status.RiskMetrics)
	}
}

func TestShutdown(t *testing.T) {
	f, _ := newTestFund(t, bullishReasoner())
	if err := f.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
