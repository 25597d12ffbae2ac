// Package engine executes trading signals against the Kalshi API and
// tracks the resulting portfolio.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/strategy"
	"kalshi-hedge-fund/internal/tradelog"
	"kalshi-hedge-fund/internal/types"
)

// Position sizing bounds in dollars / portfolio fraction.
const (
	minPositionDollars   = 10.0
	maxPortfolioFraction = 0.1
)

// Trader sizes and places orders for signals. In dry-run mode the
// collector is expected to simulate fills.
type Trader struct {
	cfg       *store.Config
	collector interfaces.Collector
	dryRun    bool
}

// Compile-time interface check
var _ interfaces.Trader = (*Trader)(nil)

func NewTrader(cfg *store.Config, collector interfaces.Collector) *Trader {
	return &Trader{
		cfg:       cfg,
		collector: collector,
		dryRun:    cfg.Mode == "DRY_RUN",
	}
}

// ExecuteSignal sizes and places an order for the signal. HOLD signals
// and zero-size positions are skipped, invalid signals rejected. Errors
// from the venue surface as FAILED executions rather than hard errors.
func (t *Trader) ExecuteSignal(ctx context.Context, signal types.Signal) (types.Execution, error) {
	if err := strategy.Validate(signal); err != nil {
		return types.Execution{
			Status:     types.StatusRejected,
			Reason:     "Invalid signal: " + err.Error(),
			ContractID: signal.ContractID,
			Timestamp:  now(),
		}, nil
	}

	if signal.Action == types.ActionHold {
		return types.Execution{
			Status:     types.StatusSkipped,
			Reason:     "HOLD signal - no trade needed",
			ContractID: signal.ContractID,
			Action:     signal.Action,
			Timestamp:  now(),
		}, nil
	}

	portfolio, err := t.Portfolio(ctx)
	if err != nil {
		return failed(signal, fmt.Errorf("fetch portfolio: %w", err)), nil
	}

	size := positionSize(signal, portfolio, t.cfg.Risk.MaxPositionSize)
	if size <= 0 {
		return types.Execution{
			Status:     types.StatusSkipped,
			Reason:     "Zero position size",
			ContractID: signal.ContractID,
			Action:     signal.Action,
			Timestamp:  now(),
		}, nil
	}

	book, err := t.collector.OrderBook(ctx, signal.ContractID)
	if err != nil {
		return failed(signal, fmt.Errorf("fetch order book: %w", err)), nil
	}
	price := orderPrice(signal.Action, book)

	order, err := t.collector.PlaceOrder(ctx, types.OrderRequest{
		ContractID: signal.ContractID,
		Side:       strings.ToLower(signal.Action),
		Size:       size,
		Price:      price,
		Type:       "market",
	})
	if err != nil {
		return failed(signal, fmt.Errorf("place order: %w", err)), nil
	}

	execution := types.Execution{
		Status:     types.StatusExecuted,
		ContractID: signal.ContractID,
		Action:     signal.Action,
		OrderID:    order.OrderID,
		Size:       size,
		Price:      price,
		Timestamp:  now(),
	}

	logger.Trade(ctx, signal.ContractID, signal.Action, size, price, order.OrderID,
		"dry_run", t.dryRun,
	)
	if err := tradelog.Append(tradelog.Entry{
		ContractID: signal.ContractID,
		Side:       signal.Action,
		OrderID:    order.OrderID,
		Size:       size,
		Price:      price,
		Confidence: signal.Confidence,
	}); err != nil {
		logger.Warn(ctx, "Trade log append failed", "error", err)
	}
	return execution, nil
}

// positionSize computes the dollar size: the per-position cap scaled by
// confidence, floored at $10 and capped at 10% of the portfolio.
func positionSize(signal types.Signal, portfolio types.Portfolio, maxPositionSize float64) float64 {
	if portfolio.TotalValue <= 0 {
		return 0
	}
	adjusted := portfolio.TotalValue * maxPositionSize * signal.Confidence
	maxSize := portfolio.TotalValue * maxPortfolioFraction
	return math.Max(minPositionDollars, math.Min(adjusted, maxSize))
}

// orderPrice crosses the spread: buys lift the best ask, sells hit the
// best bid. An empty book falls back to even odds.
func orderPrice(action string, book types.OrderBook) float64 {
	if action == types.ActionBuy {
		if len(book.Asks) > 0 {
			return book.Asks[0].Price
		}
	} else if len(book.Bids) > 0 {
		return book.Bids[0].Price
	}
	return 0.5
}

// Portfolio values cash plus open positions at their current prices.
func (t *Trader) Portfolio(ctx context.Context) (types.Portfolio, error) {
	balance, err := t.collector.Balance(ctx)
	if err != nil {
		return types.Portfolio{}, fmt.Errorf("fetch balance: %w", err)
	}
	positions, err := t.collector.Positions(ctx)
	if err != nil {
		return types.Portfolio{}, fmt.Errorf("fetch positions: %w", err)
	}

	total := balance.Balance
	for _, pos := range positions {
		price := pos.CurrentPrice
		if price == 0 {
			price = 0.5
		}
		total += pos.Size * price
	}

	return types.Portfolio{
		TotalValue:  total,
		CashBalance: balance.Balance,
		Positions:   positions,
		Timestamp:   now(),
		Simulated:   t.dryRun,
	}, nil
}

func (t *Trader) Positions(ctx context.Context) ([]types.Position, error) {
	return t.collector.Positions(ctx)
}

func (t *Trader) Orders(ctx context.Context, status string) ([]types.Order, error) {
	return t.collector.Orders(ctx, status)
}

// CancelOrder cancels a single order by ID.
func (t *Trader) CancelOrder(ctx context.Context, orderID string) (types.Execution, error) {
	if err := t.collector.CancelOrder(ctx, orderID); err != nil {
		return types.Execution{
			Status:    types.StatusFailed,
			Reason:    err.Error(),
			OrderID:   orderID,
			Timestamp: now(),
		}, err
	}
	return types.Execution{
		Status:    "CANCELLED",
		OrderID:   orderID,
		Timestamp: now(),
	}, nil
}

// Close cancels all open orders before shutdown.
func (t *Trader) Close(ctx context.Context) error {
	orders, err := t.Orders(ctx, "open")
	if err != nil {
		return fmt.Errorf("list open orders: %w", err)
	}
	for _, order := range orders {
		if err := t.collector.CancelOrder(ctx, order.OrderID); err != nil {
			logger.ErrorWithErr(ctx, "Failed to cancel order on shutdown", err, "order_id", order.OrderID)
		}
	}
	return nil
}

func failed(signal types.Signal, err error) types.Execution {
	return types.Execution{
		Status:     types.StatusFailed,
		Reason:     err.Error(),
		ContractID: signal.ContractID,
		Action:     signal.Action,
		Timestamp:  now(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
