// Package collectorcache adds a read-through cache in front of the
// contract read paths of a Collector. Write paths and account state
// pass through uncached.
package collectorcache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kalshi-hedge-fund/internal/cache"
	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/metrics"
	"kalshi-hedge-fund/internal/types"
)

type cachingCollector struct {
	collector interfaces.Collector
	cache     cache.Cache
	ttl       time.Duration
}

// Compile-time interface check
var _ interfaces.Collector = (*cachingCollector)(nil)

// Wrap adds caching to a collector's contract lookups.
func Wrap(collector interfaces.Collector, c cache.Cache, ttl time.Duration) interfaces.Collector {
	return &cachingCollector{
		collector: collector,
		cache:     c,
		ttl:       ttl,
	}
}

func (cc *cachingCollector) GetContract(ctx context.Context, id string) (types.Contract, error) {
	key := cc.cache.Key("contract", id)

	var cached types.Contract
	found, err := cc.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn(ctx, "Cache read failed", "key", key, "error", err)
	}
	if found {
		metrics.ContractCacheHitsTotal.Inc()
		return cached, nil
	}

	contract, err := cc.collector.GetContract(ctx, id)
	if err != nil {
		return types.Contract{}, err
	}
	if err := cc.cache.Set(ctx, key, contract, cc.ttl); err != nil {
		logger.Warn(ctx, "Cache write failed", "key", key, "error", err)
	}
	return contract, nil
}

func (cc *cachingCollector) SearchContracts(ctx context.Context, query string, limit int) ([]types.Contract, error) {
	key := cc.cache.Key("search", fmt.Sprintf("%s:%d", strings.ToLower(query), limit))

	var cached []types.Contract
	found, err := cc.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn(ctx, "Cache read failed", "key", key, "error", err)
	}
	if found {
		metrics.ContractCacheHitsTotal.Inc()
		return cached, nil
	}

	contracts, err := cc.collector.SearchContracts(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if err := cc.cache.Set(ctx, key, contracts, cc.ttl); err != nil {
		logger.Warn(ctx, "Cache write failed", "key", key, "error", err)
	}
	return contracts, nil
}

func (cc *cachingCollector) ListContracts(ctx context.Context, seriesID string, limit int) ([]types.Contract, error) {
	return cc.collector.ListContracts(ctx, seriesID, limit)
}

func (cc *cachingCollector) ActiveContracts(ctx context.Context) ([]types.Contract, error) {
	return cc.collector.ActiveContracts(ctx)
}

func (cc *cachingCollector) ListSeries(ctx context.Context, limit int) ([]types.Series, error) {
	return cc.collector.ListSeries(ctx, limit)
}

func (cc *cachingCollector) MarketHistory(ctx context.Context, id string, from, to time.Time) ([]types.PricePoint, error) {
	return cc.collector.MarketHistory(ctx, id, from, to)
}

func (cc *cachingCollector) OrderBook(ctx context.Context, id string) (types.OrderBook, error) {
	return cc.collector.OrderBook(ctx, id)
}

func (cc *cachingCollector) Positions(ctx context.Context) ([]types.Position, error) {
	return cc.collector.Positions(ctx)
}

func (cc *cachingCollector) Orders(ctx context.Context, status string) ([]types.Order, error) {
	return cc.collector.Orders(ctx, status)
}

func (cc *cachingCollector) Balance(ctx context.Context) (types.Balance, error) {
	return cc.collector.Balance(ctx)
}

func (cc *cachingCollector) PlaceOrder(ctx context.Context, req types.OrderRequest) (types.Order, error) {
	return cc.collector.PlaceOrder(ctx, req)
}

func (cc *cachingCollector) CancelOrder(ctx context.Context, orderID string) error {
	return cc.collector.CancelOrder(ctx, orderID)
}

func (cc *cachingCollector) Close() error {
	if err := cc.cache.Close(); err != nil {
		logger.Warn(context.Background(), "Cache close failed", "error", err)
	}
	return cc.collector.Close()
}
