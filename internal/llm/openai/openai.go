package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/llm"
	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/trace"
	"kalshi-hedge-fund/internal/types"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

type OpenAIReasoner struct {
	cfg      *store.Config
	endpoint string
}

// Compile-time interface check
var _ interfaces.Reasoner = (*OpenAIReasoner)(nil)

func NewOpenAIReasoner(cfg *store.Config) *OpenAIReasoner {
	endpoint := os.Getenv("OPENAI_API_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &OpenAIReasoner{cfg: cfg, endpoint: endpoint}
}

func (r *OpenAIReasoner) complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model":       r.cfg.LLM.Model,
		"messages":    []map[string]string{{"role": "system", "content": system}, {"role": "user", "content": prompt}},
		"temperature": r.cfg.LLM.Temperature,
		"max_tokens":  r.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(bb))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var res struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}

func (r *OpenAIReasoner) AnalyzeEvent(ctx context.Context, contract types.Contract, extra map[string]any) (types.EventAnalysis, error) {
	out, err := r.complete(ctx, llm.SystemEventAnalysis, llm.AnalysisPrompt(contract, extra))
	if err != nil {
		return types.EventAnalysis{}, err
	}
	return llm.ParseEventAnalysis(out, contract.ID, r.cfg.LLM.Model), nil
}

func (r *OpenAIReasoner) ResearchPlan(ctx context.Context, contract types.Contract) (types.ResearchPlan, error) {
	out, err := r.complete(ctx, llm.SystemResearchPlanning, llm.ResearchPrompt(contract))
	if err != nil {
		return types.ResearchPlan{}, err
	}
	return llm.ParseResearchPlan(out, contract.ID), nil
}

func (r *OpenAIReasoner) FactCheck(ctx context.Context, information string, contract types.Contract) (types.FactCheck, error) {
	out, err := r.complete(ctx, llm.SystemFactChecking, llm.FactCheckPrompt(information, contract))
	if err != nil {
		return types.FactCheck{}, err
	}
	return llm.ParseFactCheck(out), nil
}
