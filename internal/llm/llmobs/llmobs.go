package llmobs

import (
	"context"
	"time"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/metrics"
	"kalshi-hedge-fund/internal/trace"
	"kalshi-hedge-fund/internal/types"
)

// observableReasoner wraps a Reasoner with observability (logging & tracing)
type observableReasoner struct {
	reasoner interfaces.Reasoner
}

// Compile-time interface check
var _ interfaces.Reasoner = (*observableReasoner)(nil)

// Wrap wraps a reasoner with observability middleware
func Wrap(reasoner interfaces.Reasoner) interfaces.Reasoner {
	return &observableReasoner{
		reasoner: reasoner,
	}
}

func (or *observableReasoner) AnalyzeEvent(ctx context.Context, contract types.Contract, extra map[string]any) (types.EventAnalysis, error) {
	ctx, span := trace.StartSpan(ctx, "llm.AnalyzeEvent")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting event analysis",
		"contract_id", contract.ID,
		"title", contract.Title,
		"price", contract.CurrentPrice,
	)

	start := time.Now()
	analysis, err := or.reasoner.AnalyzeEvent(ctx, contract, extra)
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Event analysis failed", err,
			"contract_id", contract.ID,
		)
		return types.EventAnalysis{}, err
	}

	logger.InfoSkip(ctx, 1, "Event analysis received",
		"contract_id", contract.ID,
		"model", analysis.Model,
		"sentiment", analysis.MarketSentiment,
		"recommendations", len(analysis.Recommendations),
		"parsed", analysis.Raw == "",
	)
	return analysis, nil
}

func (or *observableReasoner) ResearchPlan(ctx context.Context, contract types.Contract) (types.ResearchPlan, error) {
	ctx, span := trace.StartSpan(ctx, "llm.ResearchPlan")
	defer span.End()

	start := time.Now()
	plan, err := or.reasoner.ResearchPlan(ctx, contract)
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Research plan generation failed", err,
			"contract_id", contract.ID,
		)
		return types.ResearchPlan{}, err
	}

	logger.InfoSkip(ctx, 1, "Research plan received",
		"contract_id", contract.ID,
		"priority_tasks", len(plan.PriorityTasks),
	)
	return plan, nil
}

func (or *observableReasoner) FactCheck(ctx context.Context, information string, contract types.Contract) (types.FactCheck, error) {
	ctx, span := trace.StartSpan(ctx, "llm.FactCheck")
	defer span.End()

	start := time.Now()
	fc, err := or.reasoner.FactCheck(ctx, information, contract)
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Fact check failed", err,
			"contract_id", contract.ID,
		)
		return types.FactCheck{}, err
	}

	logger.InfoSkip(ctx, 1, "Fact check received",
		"contract_id", contract.ID,
		"credibility", fc.Credibility,
		"confidence", fc.Confidence,
	)
	return fc, nil
}
