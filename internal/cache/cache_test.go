package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemory("fund")
	ctx := context.Background()

	type snapshot struct {
		ID    string  `json:"id"`
		Price float64 `json:"price"`
	}

	key := c.Key("contract", "ABC")
	if key != "fund:contract:ABC" {
		t.Errorf("unexpected key %q", key)
	}

	if err := c.Set(ctx, key, snapshot{ID: "ABC", Price: 0.55}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got snapshot
	found, err := c.Get(ctx, key, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || got.ID != "ABC" || got.Price != 0.55 {
		t.Errorf("unexpected cached value found=%v %+v", found, got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemory("fund")
	var out map[string]any
	found, err := c.Get(context.Background(), "fund:contract:NOPE", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected cache miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemory("fund")
	ctx := context.Background()
	key := c.Key("contract", "TTL")

	if err := c.Set(ctx, key, "value", time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var out string
	found, err := c.Get(ctx, key, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected entry to expire")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemory("fund")
	ctx := context.Background()
	key := c.Key("contract", "DEL")

	if err := c.Set(ctx, key, "value", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var out string
	found, _ := c.Get(ctx, key, &out)
	if found {
		t.Error("expected entry to be deleted")
	}
}
