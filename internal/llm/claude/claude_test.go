package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/types"
)

func TestExtractText(t *testing.T) {
	messages := `{"content": [{"type": "text", "text": "{\"market_sentiment\": \"bearish\"}"}]}`
	out, err := extractText([]byte(messages))
	if err != nil {
		t.Fatalf("extractText: %v", err)
	}
	if out != `{"market_sentiment": "bearish"}` {
		t.Errorf("unexpected text %q", out)
	}

	completion := `{"completion": "plain completion text"}`
	out, err = extractText([]byte(completion))
	if err != nil {
		t.Fatalf("extractText (completion): %v", err)
	}
	if out != "plain completion text" {
		t.Errorf("unexpected text %q", out)
	}

	if _, err := extractText([]byte(`{}`)); err == nil {
		t.Error("expected error for empty response")
	}
}

func TestAnalyzeEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("unexpected api key header %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("missing anthropic-version header")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": `{"market_sentiment": "bullish"}`},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("CLAUDE_API_KEY", "test-key")
	t.Setenv("CLAUDE_API_ENDPOINT", srv.URL)

	reasoner := NewClaudeReasoner(store.Default())
	analysis, err := reasoner.AnalyzeEvent(context.Background(), types.Contract{ID: "A", Title: "Test"}, nil)
	if err != nil {
		t.Fatalf("AnalyzeEvent: %v", err)
	}
	if analysis.MarketSentiment != "bullish" {
		t.Errorf("unexpected sentiment %q", analysis.MarketSentiment)
	}
}

func TestAnalyzeEventMissingKey(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "")
	reasoner := NewClaudeReasoner(store.Default())
	if _, err := reasoner.AnalyzeEvent(context.Background(), types.Contract{ID: "A"}, nil); err == nil {
		t.Fatal("expected error without API key")
	}
}
