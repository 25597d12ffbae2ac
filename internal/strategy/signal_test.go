package strategy

import (
	"math"
	"testing"

	"kalshi-hedge-fund/internal/types"
)

func analysisWith(llmAction string, llmConf, prob, ensembleConf float64) types.Analysis {
	return types.Analysis{
		ContractID: "TEST",
		LLM: types.EventAnalysis{
			Recommendations: []types.Recommendation{
				{Action: llmAction, Confidence: llmConf, Reasoning: "model view"},
			},
		},
		Ensemble: types.EnsembleResult{
			ContractID:  "TEST",
			Probability: prob,
			Confidence:  ensembleConf,
		},
	}
}

func TestGenerateBuySignal(t *testing.T) {
	g := NewGenerator(0.5)
	signal := g.Generate(analysisWith(types.ActionBuy, 0.9, 0.8, 0.8))

	if signal.Action != types.ActionBuy {
		t.Errorf("expected BUY, got %q", signal.Action)
	}
	// llm 0.9*0.6 + stat (0.8*0.6*2 capped at 1 => 0.48)... statistical
	// confidence = min(0.8*(0.8-0.5)*2, 1) = 0.48
	want := 0.9*0.6 + 0.48*0.4
	if math.Abs(signal.Confidence-want) > 1e-9 {
		t.Errorf("expected confidence %v, got %v", want, signal.Confidence)
	}
	if signal.Probability != 0.8 {
		t.Errorf("expected probability carried through, got %v", signal.Probability)
	}
}

func TestGenerateSellSignal(t *testing.T) {
	g := NewGenerator(0.3)
	signal := g.Generate(analysisWith(types.ActionSell, 0.85, 0.2, 0.8))
	if signal.Action != types.ActionSell {
		t.Errorf("expected SELL, got %q", signal.Action)
	}
}

func TestGenerateConfidenceGate(t *testing.T) {
	g := NewGenerator(0.7)
	signal := g.Generate(analysisWith(types.ActionBuy, 0.4, 0.65, 0.5))

	if signal.Action != types.ActionHold {
		t.Errorf("expected HOLD below confidence gate, got %q", signal.Action)
	}
	found := false
	for _, r := range signal.Reasons {
		if r == "Below confidence threshold" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected threshold reason, got %v", signal.Reasons)
	}
}

func TestGenerateDisagreementHolds(t *testing.T) {
	// LLM says buy, statistics say sell: the weighted action value lands
	// between the thresholds.
	g := NewGenerator(0.0)
	signal := g.Generate(analysisWith(types.ActionBuy, 0.9, 0.2, 0.9))
	if signal.Action != types.ActionHold {
		t.Errorf("expected HOLD on disagreement, got %q", signal.Action)
	}
}

func TestGenerateNoRecommendations(t *testing.T) {
	g := NewGenerator(0.0)
	analysis := types.Analysis{
		ContractID: "TEST",
		Ensemble:   types.EnsembleResult{Probability: 0.5, Confidence: 0.8},
	}
	signal := g.Generate(analysis)
	if signal.Action != types.ActionHold {
		t.Errorf("expected HOLD without recommendations, got %q", signal.Action)
	}
}

func TestLLMSignalPicksBestRecommendation(t *testing.T) {
	llm := types.EventAnalysis{
		Recommendations: []types.Recommendation{
			{Action: types.ActionHold, Confidence: 0.4},
			{Action: types.ActionBuy, Confidence: 0.9, Reasoning: "underpriced"},
			{Action: types.ActionSell, Confidence: 0.2},
		},
	}
	got := llmSignal(llm)
	if got.action != types.ActionBuy || got.confidence != 0.9 {
		t.Errorf("expected best recommendation, got %+v", got)
	}
}

func TestStatisticalSignalThresholds(t *testing.T) {
	cases := []struct {
		prob   float64
		action string
	}{
		{0.75, types.ActionBuy},
		{0.25, types.ActionSell},
		{0.55, types.ActionHold},
	}
	for _, tc := range cases {
		got := statisticalSignal(types.EnsembleResult{Probability: tc.prob, Confidence: 0.8})
		if got.action != tc.action {
			t.Errorf("prob %v: expected %q, got %q", tc.prob, tc.action, got.action)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := types.Signal{ContractID: "A", Action: types.ActionBuy, Confidence: 0.8}
	if err := Validate(valid); err != nil {
		t.Errorf("expected valid signal, got %v", err)
	}

	for _, bad := range []types.Signal{
		{ContractID: "A", Action: "SHORT", Confidence: 0.5},
		{ContractID: "A", Action: types.ActionBuy, Confidence: 1.5},
		{Action: types.ActionBuy, Confidence: 0.5},
	} {
		if err := Validate(bad); err == nil {
			t.Errorf("expected error for %+v", bad)
		}
	}
}
