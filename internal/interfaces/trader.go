package interfaces

import (
	"context"

	"kalshi-hedge-fund/internal/types"
)

// Trader executes signals against the market and tracks the portfolio.
type Trader interface {
	ExecuteSignal(ctx context.Context, signal types.Signal) (types.Execution, error)
	Portfolio(ctx context.Context) (types.Portfolio, error)
	Positions(ctx context.Context) ([]types.Position, error)
	Orders(ctx context.Context, status string) ([]types.Order, error)
	CancelOrder(ctx context.Context, orderID string) (types.Execution, error)
	Close(ctx context.Context) error
}
