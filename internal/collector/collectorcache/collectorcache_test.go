package collectorcache

import (
	"context"
	"testing"
	"time"

	"kalshi-hedge-fund/internal/cache"
	"kalshi-hedge-fund/internal/collector/mock"
	"kalshi-hedge-fund/internal/types"
)

func TestGetContractReadThrough(t *testing.T) {
	underlying := mock.New()
	underlying.AddContract(types.Contract{
		ID:           "CACHED",
		Title:        "Cached contract",
		Status:       "active",
		CurrentPrice: 0.33,
	})

	c := Wrap(underlying, cache.NewMemory("test"), time.Minute)
	ctx := context.Background()

	first, err := c.GetContract(ctx, "CACHED")
	if err != nil {
		t.Fatalf("GetContract: %v", err)
	}

	// Mutate the source; the cached snapshot should still be served.
	underlying.AddContract(types.Contract{
		ID:           "CACHED",
		Title:        "Cached contract",
		Status:       "active",
		CurrentPrice: 0.99,
	})

	second, err := c.GetContract(ctx, "CACHED")
	if err != nil {
		t.Fatalf("GetContract (cached): %v", err)
	}
	if second.CurrentPrice != first.CurrentPrice {
		t.Errorf("expected cached price %v, got %v", first.CurrentPrice, second.CurrentPrice)
	}
}

func TestGetContractErrorNotCached(t *testing.T) {
	c := Wrap(mock.New(), cache.NewMemory("test"), time.Minute)
	if _, err := c.GetContract(context.Background(), "MISSING"); err == nil {
		t.Fatal("expected error for unknown contract")
	}
}

func TestSearchContractsCached(t *testing.T) {
	underlying := mock.New()
	c := Wrap(underlying, cache.NewMemory("test"), time.Minute)
	ctx := context.Background()

	first, err := c.SearchContracts(ctx, "fed", 10)
	if err != nil {
		t.Fatalf("SearchContracts: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected at least one match for seeded contracts")
	}

	underlying.AddContract(types.Contract{ID: "FED-NEW", Title: "Fed emergency meeting", Status: "active"})

	second, err := c.SearchContracts(ctx, "fed", 10)
	if err != nil {
		t.Fatalf("SearchContracts (cached): %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("expected cached result of %d matches, got %d", len(first), len(second))
	}
}

// trackingCache wraps an in-memory cache and records Close calls.
type trackingCache struct {
	cache.Cache
	closed bool
}

func (c *trackingCache) Close() error {
	c.closed = true
	return c.Cache.Close()
}

func TestCloseClosesCache(t *testing.T) {
	tracked := &trackingCache{Cache: cache.NewMemory("test")}
	c := Wrap(mock.New(), tracked, time.Minute)

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !tracked.closed {
		t.Error("expected wrapped cache to be closed")
	}
}

func TestWritePathsPassThrough(t *testing.T) {
	underlying := mock.New()
	c := Wrap(underlying, cache.NewMemory("test"), time.Minute)
	ctx := context.Background()

	order, err := c.PlaceOrder(ctx, types.OrderRequest{
		ContractID: "FED-CUT-MAR",
		Side:       "buy",
		Size:       5,
		Price:      0.6,
		Type:       "limit",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.Status != "filled" {
		t.Errorf("unexpected order status %q", order.Status)
	}

	positions, err := c.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(positions) != 1 {
		t.Errorf("expected 1 position, got %d", len(positions))
	}
}
