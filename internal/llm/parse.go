package llm

import (
	"encoding/json"
	"strings"
	"time"

	"kalshi-hedge-fund/internal/types"
)

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ParseEventAnalysis decodes a model response into an EventAnalysis.
// Responses that are not valid JSON degrade to a neutral analysis with
// the raw text preserved.
func ParseEventAnalysis(response, contractID, model string) types.EventAnalysis {
	out := types.EventAnalysis{
		ContractID: contractID,
		Model:      model,
		Timestamp:  time.Now().Unix(),
	}

	cleaned := stripFences(response)
	if !strings.HasPrefix(cleaned, "{") {
		out.Raw = response
		out.MarketSentiment = "neutral"
		return out
	}

	var parsed struct {
		Probabilities   map[string]types.OutcomeAssessment `json:"probability_assessment"`
		KeyFactors      []string                           `json:"key_factors"`
		MarketSentiment string                             `json:"market_sentiment"`
		RiskFactors     []string                           `json:"risk_factors"`
		Recommendations []types.Recommendation             `json:"trading_recommendations"`
		Timeline        string                             `json:"timeline_considerations"`
		RelatedEvents   []string                           `json:"related_events"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		out.Raw = response
		out.MarketSentiment = "neutral"
		return out
	}

	for name, oa := range parsed.Probabilities {
		oa.Probability = clamp01(oa.Probability)
		oa.Confidence = clamp01(oa.Confidence)
		parsed.Probabilities[name] = oa
	}
	for i := range parsed.Recommendations {
		rec := &parsed.Recommendations[i]
		rec.Action = strings.ToUpper(strings.TrimSpace(rec.Action))
		switch rec.Action {
		case types.ActionBuy, types.ActionSell, types.ActionHold:
		default:
			rec.Action = types.ActionHold
		}
		rec.Confidence = clamp01(rec.Confidence)
	}
	if parsed.MarketSentiment == "" {
		parsed.MarketSentiment = "neutral"
	}

	out.Probabilities = parsed.Probabilities
	out.KeyFactors = parsed.KeyFactors
	out.MarketSentiment = parsed.MarketSentiment
	out.RiskFactors = parsed.RiskFactors
	out.Recommendations = parsed.Recommendations
	out.Timeline = parsed.Timeline
	out.RelatedEvents = parsed.RelatedEvents
	return out
}

// ParseResearchPlan decodes a model response into a ResearchPlan.
func ParseResearchPlan(response, contractID string) types.ResearchPlan {
	out := types.ResearchPlan{
		ContractID: contractID,
		Timestamp:  time.Now().Unix(),
	}

	cleaned := stripFences(response)
	if !strings.HasPrefix(cleaned, "{") {
		out.Raw = response
		return out
	}

	var parsed struct {
		InformationNeeds []string `json:"information_needs"`
		DataSources      []string `json:"data_sources"`
		Timeline         struct {
			Immediate []string `json:"immediate"`
			ShortTerm []string `json:"short_term"`
			Ongoing   []string `json:"ongoing"`
		} `json:"timeline"`
		PriorityTasks  []string `json:"priority_tasks"`
		SuccessMetrics []string `json:"success_metrics"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		out.Raw = response
		return out
	}

	out.InformationNeeds = parsed.InformationNeeds
	out.DataSources = parsed.DataSources
	out.Immediate = parsed.Timeline.Immediate
	out.ShortTerm = parsed.Timeline.ShortTerm
	out.Ongoing = parsed.Timeline.Ongoing
	out.PriorityTasks = parsed.PriorityTasks
	out.SuccessMetrics = parsed.SuccessMetrics
	return out
}

// ParseFactCheck decodes a model response into a FactCheck. Unparseable
// responses get credibility "unknown" with the raw text preserved.
func ParseFactCheck(response string) types.FactCheck {
	cleaned := stripFences(response)
	if strings.HasPrefix(cleaned, "{") {
		var fc types.FactCheck
		if err := json.Unmarshal([]byte(cleaned), &fc); err == nil {
			if fc.Credibility == "" {
				fc.Credibility = "unknown"
			}
			fc.Confidence = clamp01(fc.Confidence)
			return fc
		}
	}
	return types.FactCheck{
		Credibility: "unknown",
		Confidence:  0.5,
		Raw:         response,
	}
}
