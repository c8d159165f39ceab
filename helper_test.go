package gametrad

import (
	"testing"
	"time"
)

// day returns a deterministic event time, n days after a fixed epoch.
func day(n int) time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func mustStockIn(t *testing.T, item string, at time.Time, qty int64, cost float64) StockInEvent {
	t.Helper()
	e, err := NewStockIn(item, at, qty, M(cost), "")
	if err != nil {
		t.Fatalf("NewStockIn(%q) failed: %v", item, err)
	}
	return e
}

func mustStockOut(t *testing.T, item string, at time.Time, qty int64, price, fee, deposit float64) StockOutEvent {
	t.Helper()
	e, err := NewStockOut(item, at, qty, M(price), M(fee), M(deposit), "")
	if err != nil {
		t.Fatalf("NewStockOut(%q) failed: %v", item, err)
	}
	return e
}

// seedStore fills a memory store with a small trading session: two buys
// and a sale of 铁剑, plus an untouched stack of 金创药.
func seedStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	for _, e := range []StockInEvent{
		mustStockIn(t, "铁剑", day(0), 10, 30),
		mustStockIn(t, "铁剑", day(1), 10, 50),
		mustStockIn(t, "金创药", day(1), 5, 10),
	} {
		if err := store.InsertStockIn(e); err != nil {
			t.Fatalf("InsertStockIn() failed: %v", err)
		}
	}
	if err := store.InsertStockOut(mustStockOut(t, "铁剑", day(2), 5, 6, 2, 0)); err != nil {
		t.Fatalf("InsertStockOut() failed: %v", err)
	}
	return store
}

// assertMoney compares a Money against its expected decimal rendering.
func assertMoney(t *testing.T, name string, got Money, want float64) {
	t.Helper()
	if !got.Equal(M(want)) {
		t.Errorf("%s = %s, want %v", name, got.Decimal(), want)
	}
}
