// Package news scrapes headlines related to an event contract and
// shapes them into extra context for LLM analysis.
package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/types"
)

// Scraper fetches headlines from news search pages.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

// Source defines a news source configuration.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // "{query}" is replaced with the URL-escaped query
	Selectors  HeadlineSelectors
	RateLimit  time.Duration
}

// HeadlineSelectors defines CSS selectors for extracting headline data.
type HeadlineSelectors struct {
	Container   string
	Title       string
	URL         string
	Summary     string
	PublishedAt string
}

// NewScraper creates a scraper with the default source list.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "GoogleNews",
			BaseURL:    "https://news.google.com",
			SearchPath: "/search?q={query}&hl=en-US&gl=US&ceid=US:en",
			Selectors: HeadlineSelectors{
				Container:   "article",
				Title:       "h3, h4",
				URL:         "a",
				PublishedAt: "time",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "Reuters",
			BaseURL:    "https://www.reuters.com",
			SearchPath: "/site-search/?query={query}",
			Selectors: HeadlineSelectors{
				Container:   "li.search-results__item__2oqiX, div.search-result-content",
				Title:       "a, h3",
				URL:         "a",
				Summary:     "p",
				PublishedAt: "time",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// ScrapeHeadlines fetches headlines for the query from all sources.
// Per-source failures are logged and skipped.
func (s *Scraper) ScrapeHeadlines(ctx context.Context, query string, maxHeadlines int) ([]types.Headline, error) {
	logger.Info(ctx, "Starting headline scraping", "query", query, "sources", len(s.sources))

	perSource := maxHeadlines / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	all := []types.Headline{}
	for _, source := range s.sources {
		headlines, err := s.scrapeSource(ctx, source, query, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "query", query)
			continue
		}
		all = append(all, headlines...)

		time.Sleep(source.RateLimit)
	}

	if len(all) > maxHeadlines {
		all = all[:maxHeadlines]
	}
	logger.Info(ctx, "Headline scraping completed", "query", query, "headlines", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source Source, query string, maxHeadlines int) ([]types.Headline, error) {
	headlines := []types.Headline{}

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(source.BaseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.Container, func(e *colly.HTMLElement) {
		if len(headlines) >= maxHeadlines {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}

		link := e.ChildAttr(source.Selectors.URL, "href")
		if link == "" {
			return
		}
		if strings.HasPrefix(link, "./") {
			link = source.BaseURL + link[1:]
		} else if !strings.HasPrefix(link, "http") {
			link = source.BaseURL + link
		}

		headlines = append(headlines, types.Headline{
			Source:      source.Name,
			Title:       title,
			URL:         link,
			Summary:     strings.TrimSpace(e.ChildText(source.Selectors.Summary)),
			PublishedAt: strings.TrimSpace(e.ChildText(source.Selectors.PublishedAt)),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{query}", url.QueryEscape(query))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", searchURL, err)
	}
	c.Wait()

	return headlines, nil
}

// ExtractSummary pulls the leading paragraphs from an article page.
func ExtractSummary(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	paragraphs := []string{}
	doc.Find("article p, div.article-body p, div.story-content p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 20 {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < 3
	})
	return strings.Join(paragraphs, "\n\n")
}

func domainOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
