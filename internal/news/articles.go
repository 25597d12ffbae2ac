package news

import (
	"context"

	"kalshi-hedge-fund/internal/api"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/types"
)

// maxArticleFetches bounds how many article pages we pull per contract.
const maxArticleFetches = 2

// enrichSummaries fetches article pages for headlines that came back
// without a summary and extracts their leading paragraphs. Fetch
// failures leave the headline as-is.
func (s *Service) enrichSummaries(ctx context.Context, headlines []types.Headline) {
	fetched := 0
	for i := range headlines {
		if fetched >= maxArticleFetches {
			return
		}
		if headlines[i].Summary != "" || headlines[i].URL == "" {
			continue
		}

		resp, err := s.articles.GET(ctx, headlines[i].URL, api.BrowserHeaders())
		if err != nil {
			logger.Debug(ctx, "Article fetch failed", "url", headlines[i].URL, "error", err)
			continue
		}
		fetched++

		if summary := ExtractSummary(resp.String()); summary != "" {
			headlines[i].Summary = summary
		}
	}
}
