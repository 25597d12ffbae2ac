package interfaces

import (
	"context"

	"kalshi-hedge-fund/internal/types"
)

// Reasoner produces LLM-backed research for an event contract.
type Reasoner interface {
	// AnalyzeEvent reasons about a contract and returns a structured
	// analysis. extra carries additional context such as scraped
	// headlines or market history.
	AnalyzeEvent(ctx context.Context, contract types.Contract, extra map[string]any) (types.EventAnalysis, error)
	ResearchPlan(ctx context.Context, contract types.Contract) (types.ResearchPlan, error)
	FactCheck(ctx context.Context, information string, contract types.Contract) (types.FactCheck, error)
}
