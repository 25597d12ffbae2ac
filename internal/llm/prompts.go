// Package llm holds the prompts and response parsing shared by the
// Reasoner implementations.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"kalshi-hedge-fund/internal/types"
)

// System prompts per analysis type.
const (
	SystemEventAnalysis = `You are an expert financial analyst specializing in event-driven trading on prediction markets.
Analyze the given Kalshi event contract and provide insights on:
1. Event probability assessment
2. Key factors that could influence the outcome
3. Market sentiment analysis
4. Risk factors and uncertainties
5. Trading recommendations

Be objective, data-driven, and consider multiple scenarios.`

	SystemResearchPlanning = `You are a research strategist for a quantitative hedge fund.
Given an event contract, create a comprehensive research plan that includes:
1. Key information needs
2. Data sources to investigate
3. Timeline for research
4. Priority research tasks
5. Success metrics

Focus on actionable insights that can inform trading decisions.`

	SystemFactChecking = `You are a fact-checking specialist for financial markets.
Verify the accuracy and reliability of information related to the event contract.
Consider:
1. Source credibility
2. Information recency
3. Potential biases
4. Conflicting information
5. Confidence level in the information

Provide a confidence score and reasoning for your assessment.`
)

// ContractInfo flattens the contract fields the model needs into a
// readable block for prompting.
func ContractInfo(contract types.Contract) string {
	parts := []string{}
	if contract.Title != "" {
		parts = append(parts, "Title: "+contract.Title)
	}
	if contract.Description != "" {
		parts = append(parts, "Description: "+contract.Description)
	}
	if len(contract.Outcomes) > 0 {
		b, _ := json.Marshal(contract.Outcomes)
		parts = append(parts, "Outcomes: "+string(b))
	}
	if contract.ExpirationDate != "" {
		parts = append(parts, "Expiration: "+contract.ExpirationDate)
	}
	parts = append(parts, fmt.Sprintf("Current Price: %.2f", contract.CurrentPrice))
	return strings.Join(parts, "\n")
}

// AnalysisPrompt builds the event analysis user prompt. Extra context
// (news headlines, market stats) is appended as JSON when present.
func AnalysisPrompt(contract types.Contract, extra map[string]any) string {
	var sb strings.Builder
	sb.WriteString("Please analyze the following Kalshi event contract:\n\n")
	sb.WriteString(ContractInfo(contract))
	if len(extra) > 0 {
		b, _ := json.Marshal(extra)
		sb.WriteString("\n\nAdditional context:\n")
		sb.Write(b)
	}
	sb.WriteString(`

Provide a comprehensive analysis including:
1. Probability assessment for each outcome
2. Key factors that could influence the result
3. Market sentiment analysis
4. Risk factors and uncertainties
5. Trading recommendations with confidence levels
6. Timeline considerations
7. Related events or correlations to monitor

Format your response as JSON with the following structure:
{
    "probability_assessment": {
        "outcome_1": {"probability": 0.0, "confidence": 0.0, "reasoning": ""}
    },
    "key_factors": ["factor1", "factor2"],
    "market_sentiment": "bullish/bearish/neutral",
    "risk_factors": ["risk1", "risk2"],
    "trading_recommendations": [
        {"action": "BUY/SELL/HOLD", "outcome": "outcome_name", "confidence": 0.0, "reasoning": ""}
    ],
    "timeline_considerations": "text",
    "related_events": ["event1", "event2"]
}`)
	return sb.String()
}

// ResearchPrompt builds the research planning user prompt.
func ResearchPrompt(contract types.Contract) string {
	return fmt.Sprintf(`Create a research plan for the following event contract:

%s

Provide a structured research plan including:
1. Key information needs
2. Data sources to investigate
3. Timeline for research
4. Priority research tasks
5. Success metrics

Format your response as JSON with the following structure:
{
    "information_needs": ["need1", "need2"],
    "data_sources": ["source1", "source2"],
    "timeline": {
        "immediate": ["task1"],
        "short_term": ["task1"],
        "ongoing": ["task1"]
    },
    "priority_tasks": ["task1", "task2"],
    "success_metrics": ["metric1", "metric2"]
}`, ContractInfo(contract))
}

// FactCheckPrompt builds the fact-checking user prompt.
func FactCheckPrompt(information string, contract types.Contract) string {
	return fmt.Sprintf(`Information to fact-check: %s

Event context:
%s

Please fact-check this information and provide:
1. Credibility assessment
2. Confidence score (0-1)
3. Reasoning
4. Potential biases or issues
5. Recommendations

Format your response as JSON with the following structure:
{
    "credibility": "high/medium/low/unknown",
    "confidence": 0.0,
    "reasoning": "text",
    "biases": ["bias1"],
    "recommendations": ["rec1"]
}`, information, ContractInfo(contract))
}
