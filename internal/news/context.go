package news

import (
	"context"
	"strings"
	"time"

	"kalshi-hedge-fund/internal/api"
	"kalshi-hedge-fund/internal/types"
)

// Common words dropped from contract titles before searching.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "at": true,
	"on": true, "to": true, "of": true, "by": true, "will": true,
	"be": true, "is": true, "for": true, "above": true, "below": true,
}

// Service wires the scraper into contract analysis.
type Service struct {
	scraper     *Scraper
	articles    *api.Client
	maxArticles int
}

func NewService(maxArticles int, timeout time.Duration) *Service {
	return &Service{
		scraper:     NewScraper(timeout),
		articles:    api.NewClient(api.WithTimeout(timeout), api.WithLogging(true)),
		maxArticles: maxArticles,
	}
}

// ContractContext scrapes headlines for the contract and returns them
// as extra context for the LLM. A failed scrape yields nil context, not
// an error: analysis proceeds without news.
func (s *Service) ContractContext(ctx context.Context, contract types.Contract) map[string]any {
	query := SearchQuery(contract)
	if query == "" {
		return nil
	}

	headlines, err := s.scraper.ScrapeHeadlines(ctx, query, s.maxArticles)
	if err != nil || len(headlines) == 0 {
		return nil
	}
	s.enrichSummaries(ctx, headlines)

	items := make([]map[string]string, 0, len(headlines))
	for _, h := range headlines {
		item := map[string]string{
			"source": h.Source,
			"title":  h.Title,
		}
		if h.Summary != "" {
			item["summary"] = h.Summary
		}
		if h.PublishedAt != "" {
			item["published_at"] = h.PublishedAt
		}
		items = append(items, item)
	}
	return map[string]any{"news_headlines": items}
}

// SearchQuery reduces a contract title to its content words.
func SearchQuery(contract types.Contract) string {
	words := strings.Fields(strings.ToLower(contract.Title))
	kept := []string{}
	for _, w := range words {
		w = strings.Trim(w, ".,?!:;\"'")
		if w == "" || stopwords[w] {
			continue
		}
		kept = append(kept, w)
	}
	// Cap the query length; search pages choke on long queries.
	if len(kept) > 6 {
		kept = kept[:6]
	}
	return strings.Join(kept, " ")
}
