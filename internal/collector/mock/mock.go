// Package mock provides an in-memory Collector for dry-run mode and tests.
package mock

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/types"
)

// Collector serves canned contract data and tracks simulated orders,
// positions, and balance in memory. Safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	contracts map[string]types.Contract
	orders    map[string]types.Order
	positions map[string]*types.Position
	balance   float64
}

var _ interfaces.Collector = (*Collector)(nil)

// New creates a mock collector seeded with a handful of sample
// contracts and a starting cash balance.
func New() *Collector {
	c := &Collector{
		contracts: make(map[string]types.Contract),
		orders:    make(map[string]types.Order),
		positions: make(map[string]*types.Position),
		balance:   10000,
	}
	for _, contract := range sampleContracts() {
		c.contracts[contract.ID] = contract
	}
	return c
}

func sampleContracts() []types.Contract {
	expiry := time.Now().UTC().AddDate(0, 1, 0).Format(time.RFC3339)
	return []types.Contract{
		{
			ID:             "FED-CUT-MAR",
			SeriesID:       "FED",
			Title:          "Fed cuts rates at the March meeting",
			Description:    "Resolves YES if the FOMC lowers the target rate in March",
			Status:         "active",
			Outcomes:       []string{"yes", "no"},
			CurrentPrice:   0.62,
			Volume:         15400,
			ExpirationDate: expiry,
		},
		{
			ID:             "CPI-ABOVE-3",
			SeriesID:       "CPI",
			Title:          "CPI year-over-year above 3%",
			Description:    "Resolves YES if the next CPI print shows YoY inflation above 3%",
			Status:         "active",
			Outcomes:       []string{"yes", "no"},
			CurrentPrice:   0.41,
			Volume:         8900,
			ExpirationDate: expiry,
		},
		{
			ID:             "GDP-Q2-POS",
			SeriesID:       "GDP",
			Title:          "Q2 GDP growth positive",
			Description:    "Resolves YES if the advance Q2 GDP estimate is positive",
			Status:         "closed",
			Outcomes:       []string{"yes", "no"},
			CurrentPrice:   0.88,
			Volume:         3200,
			ExpirationDate: expiry,
		},
	}
}

// AddContract registers an extra contract, for tests.
func (c *Collector) AddContract(contract types.Contract) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contracts[contract.ID] = contract
}

// SetBalance overrides the simulated cash balance, for tests.
func (c *Collector) SetBalance(balance float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance = balance
}

func (c *Collector) GetContract(ctx context.Context, id string) (types.Contract, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	contract, ok := c.contracts[id]
	if !ok {
		return types.Contract{}, fmt.Errorf("contract %s not found", id)
	}
	return contract, nil
}

func (c *Collector) ListContracts(ctx context.Context, seriesID string, limit int) ([]types.Contract, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	out := []types.Contract{}
	for _, contract := range c.contracts {
		if seriesID != "" && contract.SeriesID != seriesID {
			continue
		}
		out = append(out, contract)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (c *Collector) SearchContracts(ctx context.Context, query string, limit int) ([]types.Contract, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	q := strings.ToLower(query)
	out := []types.Contract{}
	for _, contract := range c.contracts {
		if strings.Contains(strings.ToLower(contract.Title), q) ||
			strings.Contains(strings.ToLower(contract.Description), q) {
			out = append(out, contract)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (c *Collector) ActiveContracts(ctx context.Context) ([]types.Contract, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []types.Contract{}
	for _, contract := range c.contracts {
		if strings.EqualFold(contract.Status, "active") {
			out = append(out, contract)
		}
	}
	return out, nil
}

// ListSeries derives the series list from the contracts on hand.
func (c *Collector) ListSeries(ctx context.Context, limit int) ([]types.Series, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	seen := map[string]bool{}
	out := []types.Series{}
	for _, contract := range c.contracts {
		if contract.SeriesID == "" || seen[contract.SeriesID] {
			continue
		}
		seen[contract.SeriesID] = true
		out = append(out, types.Series{ID: contract.SeriesID, Title: contract.Title})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// MarketHistory synthesizes a smooth random-walk-looking series ending
// at the contract's current price.
func (c *Collector) MarketHistory(ctx context.Context, id string, from, to time.Time) ([]types.PricePoint, error) {
	contract, err := c.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -7)
	}

	const points = 48
	step := to.Sub(from) / points
	out := make([]types.PricePoint, 0, points)
	for i := 0; i < points; i++ {
		frac := float64(i) / float64(points-1)
		wiggle := 0.03 * math.Sin(float64(i)/4)
		price := contract.CurrentPrice - 0.05*(1-frac) + wiggle
		price = math.Max(0.01, math.Min(0.99, price))
		out = append(out, types.PricePoint{
			Ts:     from.Add(step * time.Duration(i)).Unix(),
			Price:  price,
			Volume: 100 + 50*math.Abs(math.Sin(float64(i))),
		})
	}
	return out, nil
}

// OrderBook fabricates a tight book around the current price.
func (c *Collector) OrderBook(ctx context.Context, id string) (types.OrderBook, error) {
	contract, err := c.GetContract(ctx, id)
	if err != nil {
		return types.OrderBook{}, err
	}
	mid := contract.CurrentPrice
	book := types.OrderBook{}
	for i := 1; i <= 3; i++ {
		spread := 0.01 * float64(i)
		book.Bids = append(book.Bids, types.PriceLevel{
			Price: math.Max(0.01, mid-spread),
			Count: 50 * i,
		})
		book.Asks = append(book.Asks, types.PriceLevel{
			Price: math.Min(0.99, mid+spread),
			Count: 50 * i,
		})
	}
	return book, nil
}

func (c *Collector) Positions(ctx context.Context) ([]types.Position, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []types.Position{}
	for _, p := range c.positions {
		out = append(out, *p)
	}
	return out, nil
}

func (c *Collector) Orders(ctx context.Context, status string) ([]types.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []types.Order{}
	for _, o := range c.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (c *Collector) Balance(ctx context.Context) (types.Balance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.Balance{Balance: c.balance}, nil
}

// PlaceOrder fills immediately at the requested price and updates the
// simulated position and cash balance.
func (c *Collector) PlaceOrder(ctx context.Context, req types.OrderRequest) (types.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	contract, ok := c.contracts[req.ContractID]
	if !ok {
		return types.Order{}, fmt.Errorf("contract %s not found", req.ContractID)
	}

	cost := req.Size * req.Price
	if strings.EqualFold(req.Side, "buy") {
		if cost > c.balance {
			return types.Order{}, fmt.Errorf("insufficient balance: need %.2f, have %.2f", cost, c.balance)
		}
		c.balance -= cost
	} else {
		c.balance += cost
	}

	order := types.Order{
		OrderID:    uuid.New().String(),
		ContractID: req.ContractID,
		Side:       strings.ToLower(req.Side),
		Status:     "filled",
		Size:       req.Size,
		Price:      req.Price,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	c.orders[order.OrderID] = order

	pos, ok := c.positions[req.ContractID]
	if !ok {
		pos = &types.Position{ContractID: req.ContractID, CurrentPrice: contract.CurrentPrice}
		c.positions[req.ContractID] = pos
	}
	delta := req.Size
	if order.Side == "sell" {
		delta = -req.Size
	}
	newSize := pos.Size + delta
	if newSize != 0 {
		pos.AvgPrice = (pos.AvgPrice*pos.Size + req.Price*delta) / newSize
	}
	pos.Size = newSize
	if pos.Size == 0 {
		delete(c.positions, req.ContractID)
	}
	return order, nil
}

func (c *Collector) CancelOrder(ctx context.Context, orderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	order, ok := c.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s not found", orderID)
	}
	order.Status = "canceled"
	c.orders[orderID] = order
	return nil
}

func (c *Collector) Close() error { return nil }
