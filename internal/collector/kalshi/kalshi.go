package kalshi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/metrics"
	"kalshi-hedge-fund/internal/types"
)

// Params configures the Kalshi API client.
type Params struct {
	BaseURL           string
	APIKey            string
	APISecret         string
	RequestsPerSecond int
	Timeout           time.Duration
}

// Client is the Kalshi trading API collector. It handles bearer
// authentication and token-bucket rate limiting.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	limiter    *rateLimiter
}

var _ interfaces.Collector = (*Client)(nil)

// NewClient creates a Kalshi API client.
func NewClient(p Params) *Client {
	if p.BaseURL == "" {
		p.BaseURL = "https://trading-api.kalshi.com"
	}
	if p.RequestsPerSecond <= 0 {
		p.RequestsPerSecond = 10
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(p.BaseURL, "/"),
		apiKey:    p.APIKey,
		apiSecret: p.APISecret,
		httpClient: &http.Client{
			Timeout: p.Timeout,
		},
		limiter: newRateLimiter(p.RequestsPerSecond, time.Second/time.Duration(p.RequestsPerSecond)),
	}
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, params url.Values, body any) ([]byte, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.KalshiRequestDuration.WithLabelValues(metricEndpoint(endpoint)).Observe(time.Since(start).Seconds())
	}()

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u = u + "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kalshi request %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read kalshi response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("kalshi API returned status %d for %s %s", resp.StatusCode, method, endpoint)
	}
	return data, nil
}

// metricEndpoint collapses ID-bearing paths so the metric label set stays bounded.
func metricEndpoint(endpoint string) string {
	parts := strings.Split(strings.TrimPrefix(endpoint, "/"), "/")
	if len(parts) >= 2 && parts[0] == "contracts" {
		if len(parts) == 3 {
			return "/contracts/{id}/" + parts[2]
		}
		if len(parts) == 2 {
			return "/contracts/{id}"
		}
	}
	if len(parts) == 2 && parts[0] == "orders" {
		return "/orders/{id}"
	}
	return endpoint
}

// GetContract retrieves a single contract by ID.
func (c *Client) GetContract(ctx context.Context, id string) (types.Contract, error) {
	data, err := c.makeRequest(ctx, http.MethodGet, "/contracts/"+id, nil, nil)
	if err != nil {
		return types.Contract{}, err
	}
	var contract types.Contract
	if err := json.Unmarshal(data, &contract); err != nil {
		return types.Contract{}, fmt.Errorf("decode contract: %w", err)
	}
	return contract, nil
}

// ListContracts retrieves contracts, optionally filtered by series.
func (c *Client) ListContracts(ctx context.Context, seriesID string, limit int) ([]types.Contract, error) {
	if limit <= 0 {
		limit = 100
	}
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))
	if seriesID != "" {
		params.Set("series_id", seriesID)
	}

	data, err := c.makeRequest(ctx, http.MethodGet, "/contracts", params, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Contracts []types.Contract `json:"contracts"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode contracts: %w", err)
	}
	return resp.Contracts, nil
}

// SearchContracts matches contracts whose title or description contains
// the query. The filtering is client-side over up to 1000 contracts.
func (c *Client) SearchContracts(ctx context.Context, query string, limit int) ([]types.Contract, error) {
	if limit <= 0 {
		limit = 50
	}

	all, err := c.ListContracts(ctx, "", 1000)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matches := []types.Contract{}
	for _, contract := range all {
		title := strings.ToLower(contract.Title)
		description := strings.ToLower(contract.Description)
		if strings.Contains(title, q) || strings.Contains(description, q) {
			matches = append(matches, contract)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

// ActiveContracts returns all contracts with active status.
func (c *Client) ActiveContracts(ctx context.Context) ([]types.Contract, error) {
	all, err := c.ListContracts(ctx, "", 1000)
	if err != nil {
		return nil, err
	}

	active := []types.Contract{}
	for _, contract := range all {
		if strings.EqualFold(contract.Status, "active") {
			active = append(active, contract)
		}
	}
	return active, nil
}

// ListSeries retrieves the available contract series.
func (c *Client) ListSeries(ctx context.Context, limit int) ([]types.Series, error) {
	if limit <= 0 {
		limit = 100
	}
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))

	data, err := c.makeRequest(ctx, http.MethodGet, "/series", params, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Series []types.Series `json:"series"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}
	return resp.Series, nil
}

// MarketHistory returns price history for a contract within the window.
// Zero times are omitted from the query.
func (c *Client) MarketHistory(ctx context.Context, id string, from, to time.Time) ([]types.PricePoint, error) {
	params := url.Values{}
	if !from.IsZero() {
		params.Set("start_time", from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		params.Set("end_time", to.Format(time.RFC3339))
	}

	data, err := c.makeRequest(ctx, http.MethodGet, "/contracts/"+id+"/history", params, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		History []types.PricePoint `json:"history"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return resp.History, nil
}

// OrderBook returns the order book for a contract.
func (c *Client) OrderBook(ctx context.Context, id string) (types.OrderBook, error) {
	data, err := c.makeRequest(ctx, http.MethodGet, "/contracts/"+id+"/book", nil, nil)
	if err != nil {
		return types.OrderBook{}, err
	}
	var book types.OrderBook
	if err := json.Unmarshal(data, &book); err != nil {
		return types.OrderBook{}, fmt.Errorf("decode order book: %w", err)
	}
	return book, nil
}

// Positions returns the user's open positions.
func (c *Client) Positions(ctx context.Context) ([]types.Position, error) {
	data, err := c.makeRequest(ctx, http.MethodGet, "/positions", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Positions []types.Position `json:"positions"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode positions: %w", err)
	}
	return resp.Positions, nil
}

// Orders returns the user's orders, optionally filtered by status.
func (c *Client) Orders(ctx context.Context, status string) ([]types.Order, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}

	data, err := c.makeRequest(ctx, http.MethodGet, "/orders", params, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Orders []types.Order `json:"orders"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return resp.Orders, nil
}

// Balance returns the user's account balance.
func (c *Client) Balance(ctx context.Context) (types.Balance, error) {
	data, err := c.makeRequest(ctx, http.MethodGet, "/user/balance", nil, nil)
	if err != nil {
		return types.Balance{}, err
	}
	var balance types.Balance
	if err := json.Unmarshal(data, &balance); err != nil {
		return types.Balance{}, fmt.Errorf("decode balance: %w", err)
	}
	return balance, nil
}

// PlaceOrder submits an order.
func (c *Client) PlaceOrder(ctx context.Context, req types.OrderRequest) (types.Order, error) {
	data, err := c.makeRequest(ctx, http.MethodPost, "/orders", nil, req)
	if err != nil {
		return types.Order{}, err
	}
	var order types.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return types.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return order, nil
}

// CancelOrder cancels an order by ID.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	_, err := c.makeRequest(ctx, http.MethodDelete, "/orders/"+orderID, nil, nil)
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
