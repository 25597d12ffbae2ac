package collectorobs

import (
	"context"
	"time"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/trace"
	"kalshi-hedge-fund/internal/types"
)

// observableCollector wraps a Collector with observability (logging & tracing)
type observableCollector struct {
	collector interfaces.Collector
}

// Compile-time interface check
var _ interfaces.Collector = (*observableCollector)(nil)

// Wrap wraps a collector with observability middleware
func Wrap(collector interfaces.Collector) interfaces.Collector {
	return &observableCollector{
		collector: collector,
	}
}

func (oc *observableCollector) GetContract(ctx context.Context, id string) (types.Contract, error) {
	ctx, span := trace.StartSpan(ctx, "collector.GetContract")
	defer span.End()

	contract, err := oc.collector.GetContract(ctx, id)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch contract", err, "contract_id", id)
		return types.Contract{}, err
	}

	logger.DebugSkip(ctx, 1, "Fetched contract",
		"contract_id", contract.ID,
		"status", contract.Status,
		"price", contract.CurrentPrice,
	)
	return contract, nil
}

func (oc *observableCollector) ListContracts(ctx context.Context, seriesID string, limit int) ([]types.Contract, error) {
	ctx, span := trace.StartSpan(ctx, "collector.ListContracts")
	defer span.End()

	contracts, err := oc.collector.ListContracts(ctx, seriesID, limit)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to list contracts", err, "series_id", seriesID)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Listed contracts", "series_id", seriesID, "count", len(contracts))
	return contracts, nil
}

func (oc *observableCollector) SearchContracts(ctx context.Context, query string, limit int) ([]types.Contract, error) {
	ctx, span := trace.StartSpan(ctx, "collector.SearchContracts")
	defer span.End()

	start := time.Now()
	contracts, err := oc.collector.SearchContracts(ctx, query, limit)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Contract search failed", err, "query", query)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Contract search completed",
		"query", query,
		"matches", len(contracts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return contracts, nil
}

func (oc *observableCollector) ActiveContracts(ctx context.Context) ([]types.Contract, error) {
	ctx, span := trace.StartSpan(ctx, "collector.ActiveContracts")
	defer span.End()

	contracts, err := oc.collector.ActiveContracts(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch active contracts", err)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Fetched active contracts", "count", len(contracts))
	return contracts, nil
}

func (oc *observableCollector) ListSeries(ctx context.Context, limit int) ([]types.Series, error) {
	ctx, span := trace.StartSpan(ctx, "collector.ListSeries")
	defer span.End()

	series, err := oc.collector.ListSeries(ctx, limit)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to list series", err)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Listed series", "count", len(series))
	return series, nil
}

func (oc *observableCollector) MarketHistory(ctx context.Context, id string, from, to time.Time) ([]types.PricePoint, error) {
	ctx, span := trace.StartSpan(ctx, "collector.MarketHistory")
	defer span.End()

	points, err := oc.collector.MarketHistory(ctx, id, from, to)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch market history", err, "contract_id", id)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Fetched market history", "contract_id", id, "points", len(points))
	return points, nil
}

func (oc *observableCollector) OrderBook(ctx context.Context, id string) (types.OrderBook, error) {
	ctx, span := trace.StartSpan(ctx, "collector.OrderBook")
	defer span.End()

	book, err := oc.collector.OrderBook(ctx, id)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch order book", err, "contract_id", id)
		return types.OrderBook{}, err
	}

	logger.DebugSkip(ctx, 1, "Fetched order book",
		"contract_id", id,
		"bids", len(book.Bids),
		"asks", len(book.Asks),
	)
	return book, nil
}

func (oc *observableCollector) Positions(ctx context.Context) ([]types.Position, error) {
	ctx, span := trace.StartSpan(ctx, "collector.Positions")
	defer span.End()

	positions, err := oc.collector.Positions(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch positions", err)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Fetched positions", "count", len(positions))
	return positions, nil
}

func (oc *observableCollector) Orders(ctx context.Context, status string) ([]types.Order, error) {
	ctx, span := trace.StartSpan(ctx, "collector.Orders")
	defer span.End()

	orders, err := oc.collector.Orders(ctx, status)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch orders", err, "status", status)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Fetched orders", "status", status, "count", len(orders))
	return orders, nil
}

func (oc *observableCollector) Balance(ctx context.Context) (types.Balance, error) {
	ctx, span := trace.StartSpan(ctx, "collector.Balance")
	defer span.End()

	balance, err := oc.collector.Balance(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch balance", err)
		return types.Balance{}, err
	}

	logger.DebugSkip(ctx, 1, "Fetched balance", "balance", balance.Balance)
	return balance, nil
}

func (oc *observableCollector) PlaceOrder(ctx context.Context, req types.OrderRequest) (types.Order, error) {
	ctx, span := trace.StartSpan(ctx, "collector.PlaceOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing order",
		"contract_id", req.ContractID,
		"side", req.Side,
		"size", req.Size,
		"price", req.Price,
	)

	order, err := oc.collector.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Order placement failed", err,
			"contract_id", req.ContractID,
			"side", req.Side,
		)
		return types.Order{}, err
	}

	logger.InfoSkip(ctx, 1, "Order placed",
		"order_id", order.OrderID,
		"contract_id", order.ContractID,
		"status", order.Status,
	)
	return order, nil
}

func (oc *observableCollector) CancelOrder(ctx context.Context, orderID string) error {
	ctx, span := trace.StartSpan(ctx, "collector.CancelOrder")
	defer span.End()

	if err := oc.collector.CancelOrder(ctx, orderID); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Order cancellation failed", err, "order_id", orderID)
		return err
	}

	logger.InfoSkip(ctx, 1, "Order canceled", "order_id", orderID)
	return nil
}

func (oc *observableCollector) Close() error {
	return oc.collector.Close()
}
