package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/llm"
	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/trace"
	"kalshi-hedge-fund/internal/types"
)

// ClaudeReasoner implements the Reasoner interface using the Anthropic
// messages API.
type ClaudeReasoner struct {
	cfg      *store.Config
	endpoint string
}

// Compile-time interface check
var _ interfaces.Reasoner = (*ClaudeReasoner)(nil)

// NewClaudeReasoner creates a new Claude-backed reasoner. Set
// CLAUDE_API_ENDPOINT to route through a proxy/bedrock/vertex.
func NewClaudeReasoner(cfg *store.Config) *ClaudeReasoner {
	endpoint := "https://api.anthropic.com/v1/messages"
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeReasoner{cfg: cfg, endpoint: endpoint}
}

func (r *ClaudeReasoner) complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return "", errors.New("CLAUDE_API_KEY missing")
	}

	reqBody := map[string]any{
		"model":  r.cfg.LLM.Model,
		"system": system,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  r.cfg.LLM.MaxTokens,
		"temperature": r.cfg.LLM.Temperature,
	}
	bb, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(bb))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("claude http %d: %s", resp.StatusCode, string(body))
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return extractText(respBytes)
}

// extractText pulls the assistant text out of a messages API response,
// tolerating the older completion-style shapes some proxies return.
func extractText(respBytes []byte) (string, error) {
	var res struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Completion string `json:"completion"`
	}
	if err := json.Unmarshal(respBytes, &res); err != nil {
		return "", fmt.Errorf("decode claude response: %w", err)
	}

	var sb strings.Builder
	for _, block := range res.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if out := strings.TrimSpace(sb.String()); out != "" {
		return out, nil
	}
	if out := strings.TrimSpace(res.Completion); out != "" {
		return out, nil
	}
	return "", errors.New("empty claude response")
}

func (r *ClaudeReasoner) AnalyzeEvent(ctx context.Context, contract types.Contract, extra map[string]any) (types.EventAnalysis, error) {
	out, err := r.complete(ctx, llm.SystemEventAnalysis, llm.AnalysisPrompt(contract, extra))
	if err != nil {
		return types.EventAnalysis{}, err
	}
	return llm.ParseEventAnalysis(out, contract.ID, r.cfg.LLM.Model), nil
}

func (r *ClaudeReasoner) ResearchPlan(ctx context.Context, contract types.Contract) (types.ResearchPlan, error) {
	out, err := r.complete(ctx, llm.SystemResearchPlanning, llm.ResearchPrompt(contract))
	if err != nil {
		return types.ResearchPlan{}, err
	}
	return llm.ParseResearchPlan(out, contract.ID), nil
}

func (r *ClaudeReasoner) FactCheck(ctx context.Context, information string, contract types.Contract) (types.FactCheck, error) {
	out, err := r.complete(ctx, llm.SystemFactChecking, llm.FactCheckPrompt(information, contract))
	if err != nil {
		return types.FactCheck{}, err
	}
	return llm.ParseFactCheck(out), nil
}
