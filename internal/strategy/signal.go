// Package strategy turns a contract analysis into an actionable
// trading signal.
package strategy

import (
	"fmt"
	"strings"
	"time"

	"kalshi-hedge-fund/internal/types"
)

// Source weights and thresholds for combining the LLM and statistical
// signals.
const (
	llmWeight  = 0.6
	statWeight = 0.4

	buyThreshold  = 0.6
	sellThreshold = 0.4
)

type sourceSignal struct {
	action     string
	confidence float64
	reason     string
}

// Generator combines LLM and statistical signals under a minimum
// confidence gate.
type Generator struct {
	minConfidence float64
}

func NewGenerator(minConfidence float64) *Generator {
	return &Generator{minConfidence: minConfidence}
}

// Generate produces a signal from the combined analysis. Signals below
// the confidence gate are forced to HOLD.
func (g *Generator) Generate(analysis types.Analysis) types.Signal {
	llm := llmSignal(analysis.LLM)
	stat := statisticalSignal(analysis.Ensemble)

	value := actionValue(llm.action)*llmWeight + actionValue(stat.action)*statWeight
	confidence := llm.confidence*llmWeight + stat.confidence*statWeight

	action := valueToAction(value)
	reasons := []string{
		"llm: " + llm.reason,
		"statistical: " + stat.reason,
	}
	if confidence < g.minConfidence {
		action = types.ActionHold
		reasons = append(reasons, "Below confidence threshold")
	}

	return types.Signal{
		ContractID:  analysis.ContractID,
		Action:      action,
		Confidence:  confidence,
		Probability: analysis.Ensemble.Probability,
		Reasons:     reasons,
		Timestamp:   time.Now().Unix(),
	}
}

// llmSignal picks the highest-confidence LLM recommendation.
func llmSignal(llm types.EventAnalysis) sourceSignal {
	if len(llm.Recommendations) == 0 {
		return sourceSignal{action: types.ActionHold, reason: "No LLM recommendations"}
	}

	best := llm.Recommendations[0]
	for _, rec := range llm.Recommendations[1:] {
		if rec.Confidence > best.Confidence {
			best = rec
		}
	}

	reason := best.Reasoning
	if reason == "" {
		reason = "LLM recommendation"
	}
	return sourceSignal{
		action:     strings.ToUpper(best.Action),
		confidence: best.Confidence,
		reason:     reason,
	}
}

// statisticalSignal derives direction from the ensemble probability.
// Confidence scales with how far the probability sits from even odds.
func statisticalSignal(ensemble types.EnsembleResult) sourceSignal {
	prob := ensemble.Probability
	reason := fmt.Sprintf("Statistical probability: %.2f", prob)

	switch {
	case prob > buyThreshold:
		return sourceSignal{
			action:     types.ActionBuy,
			confidence: min1(ensemble.Confidence * (prob - 0.5) * 2),
			reason:     reason,
		}
	case prob < sellThreshold:
		return sourceSignal{
			action:     types.ActionSell,
			confidence: min1(ensemble.Confidence * (0.5 - prob) * 2),
			reason:     reason,
		}
	default:
		return sourceSignal{
			action:     types.ActionHold,
			confidence: ensemble.Confidence * 0.5,
			reason:     reason,
		}
	}
}

func actionValue(action string) float64 {
	switch strings.ToUpper(action) {
	case types.ActionBuy:
		return 1.0
	case types.ActionSell:
		return 0.0
	default:
		return 0.5
	}
}

func valueToAction(value float64) string {
	switch {
	case value > buyThreshold:
		return types.ActionBuy
	case value < sellThreshold:
		return types.ActionSell
	default:
		return types.ActionHold
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// Validate checks signal shape before execution.
func Validate(signal types.Signal) error {
	switch signal.Action {
	case types.ActionBuy, types.ActionSell, types.ActionHold:
	default:
		return fmt.Errorf("invalid action %q", signal.Action)
	}
	if signal.Confidence < 0 || signal.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range", signal.Confidence)
	}
	if signal.ContractID == "" {
		return fmt.Errorf("missing contract id")
	}
	return nil
}
