package engineobs

import (
	"context"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/metrics"
	"kalshi-hedge-fund/internal/trace"
	"kalshi-hedge-fund/internal/types"
)

// observableTrader wraps a Trader with observability (logging & tracing)
type observableTrader struct {
	trader interfaces.Trader
}

// Compile-time interface check
var _ interfaces.Trader = (*observableTrader)(nil)

// Wrap wraps a trader with observability middleware
func Wrap(trader interfaces.Trader) interfaces.Trader {
	return &observableTrader{
		trader: trader,
	}
}

func (ot *observableTrader) ExecuteSignal(ctx context.Context, signal types.Signal) (types.Execution, error) {
	ctx, span := trace.StartSpan(ctx, "engine.ExecuteSignal")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Executing signal",
		"contract_id", signal.ContractID,
		"action", signal.Action,
		"confidence", signal.Confidence,
	)

	execution, err := ot.trader.ExecuteSignal(ctx, signal)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Signal execution failed", err,
			"contract_id", signal.ContractID,
			"action", signal.Action,
		)
		return types.Execution{}, err
	}

	metrics.TradesTotal.WithLabelValues(execution.Status).Inc()
	logger.InfoSkip(ctx, 1, "Signal execution finished",
		"contract_id", signal.ContractID,
		"status", execution.Status,
		"order_id", execution.OrderID,
		"size", execution.Size,
		"price", execution.Price,
		"reason", execution.Reason,
	)
	return execution, nil
}

func (ot *observableTrader) Portfolio(ctx context.Context) (types.Portfolio, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Portfolio")
	defer span.End()

	portfolio, err := ot.trader.Portfolio(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Portfolio retrieval failed", err)
		return types.Portfolio{}, err
	}

	logger.DebugSkip(ctx, 1, "Portfolio retrieved",
		"total_value", portfolio.TotalValue,
		"cash_balance", portfolio.CashBalance,
		"positions", len(portfolio.Positions),
	)
	return portfolio, nil
}

func (ot *observableTrader) Positions(ctx context.Context) ([]types.Position, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Positions")
	defer span.End()
	return ot.trader.Positions(ctx)
}

func (ot *observableTrader) Orders(ctx context.Context, status string) ([]types.Order, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Orders")
	defer span.End()
	return ot.trader.Orders(ctx, status)
}

func (ot *observableTrader) CancelOrder(ctx context.Context, orderID string) (types.Execution, error) {
	ctx, span := trace.StartSpan(ctx, "engine.CancelOrder")
	defer span.End()

	execution, err := ot.trader.CancelOrder(ctx, orderID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Order cancellation failed", err, "order_id", orderID)
		return execution, err
	}

	logger.InfoSkip(ctx, 1, "Order cancelled", "order_id", orderID)
	return execution, nil
}

func (ot *observableTrader) Close(ctx context.Context) error {
	return ot.trader.Close(ctx)
}
