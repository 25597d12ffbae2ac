// Package noop provides a Reasoner that returns neutral results. Used
// when no LLM provider is configured so the statistical ensemble still
// drives signals.
package noop

import (
	"context"
	"time"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/types"
)

type NoopReasoner struct{}

// Compile-time interface check
var _ interfaces.Reasoner = (*NoopReasoner)(nil)

func NewNoopReasoner() *NoopReasoner {
	return &NoopReasoner{}
}

func (n *NoopReasoner) AnalyzeEvent(ctx context.Context, contract types.Contract, extra map[string]any) (types.EventAnalysis, error) {
	return types.EventAnalysis{
		ContractID:      contract.ID,
		Model:           "noop",
		KeyFactors:      []string{"LLM analysis not available"},
		MarketSentiment: "neutral",
		RiskFactors:     []string{"Limited analysis capability"},
		Timeline:        "Manual analysis required",
		Timestamp:       time.Now().Unix(),
	}, nil
}

func (n *NoopReasoner) ResearchPlan(ctx context.Context, contract types.Contract) (types.ResearchPlan, error) {
	return types.ResearchPlan{
		ContractID:       contract.ID,
		InformationNeeds: []string{"Manual research required"},
		DataSources:      []string{"Kalshi API", "News sources"},
		PriorityTasks:    []string{"Manual analysis"},
		SuccessMetrics:   []string{"Manual assessment"},
		Timestamp:        time.Now().Unix(),
	}, nil
}

func (n *NoopReasoner) FactCheck(ctx context.Context, information string, contract types.Contract) (types.FactCheck, error) {
	return types.FactCheck{
		Credibility:     "unknown",
		Confidence:      0,
		Reasoning:       "LLM fact-checking not available",
		Recommendations: []string{"Manual verification required"},
	}, nil
}
