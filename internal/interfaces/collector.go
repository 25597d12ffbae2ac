package interfaces

import (
	"context"
	"time"

	"kalshi-hedge-fund/internal/types"
)

// Collector is the market-data and order surface of the Kalshi API.
type Collector interface {
	GetContract(ctx context.Context, id string) (types.Contract, error)
	ListContracts(ctx context.Context, seriesID string, limit int) ([]types.Contract, error)
	SearchContracts(ctx context.Context, query string, limit int) ([]types.Contract, error)
	ActiveContracts(ctx context.Context) ([]types.Contract, error)
	ListSeries(ctx context.Context, limit int) ([]types.Series, error)
	MarketHistory(ctx context.Context, id string, from, to time.Time) ([]types.PricePoint, error)
	OrderBook(ctx context.Context, id string) (types.OrderBook, error)
	Positions(ctx context.Context) ([]types.Position, error)
	Orders(ctx context.Context, status string) ([]types.Order, error)
	Balance(ctx context.Context) (types.Balance, error)
	PlaceOrder(ctx context.Context, req types.OrderRequest) (types.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	Close() error
}
