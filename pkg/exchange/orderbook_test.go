package exchange

import (
	"fmt"
	"testing"
)

func restingOrder(id int64, side Side, price int64) *Order {
	return &Order{
		ID:        id,
		Trader:    fmt.Sprintf("t%d", id),
		Side:      side,
		Ticker:    "ZRX",
		Amount:    10,
		Price:     price,
		Timestamp: id,
	}
}

func TestBuySideHighestPriceFirst(t *testing.T) {
	side := newBookSide(BUY)
	side.insert(restingOrder(1, BUY, 10))
	side.insert(restingOrder(2, BUY, 12))
	side.insert(restingOrder(3, BUY, 11))

	snap := side.snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d, want 3", len(snap))
	}
	if snap[0].Price != 12 || snap[1].Price != 11 || snap[2].Price != 10 {
		t.Errorf("buy side not sorted highest first: %+v", snap)
	}
	if best := side.peekBest(); best.ID != 2 {
		t.Errorf("peekBest ID = %d, want 2", best.ID)
	}
}

func TestSellSideLowestPriceFirst(t *testing.T) {
	side := newBookSide(SELL)
	side.insert(restingOrder(1, SELL, 12))
	side.insert(restingOrder(2, SELL, 10))
	side.insert(restingOrder(3, SELL, 11))

	snap := side.snapshot()
	if snap[0].Price != 10 || snap[1].Price != 11 || snap[2].Price != 12 {
		t.Errorf("sell side not sorted lowest first: %+v", snap)
	}
	if best := side.peekBest(); best.ID != 2 {
		t.Errorf("peekBest ID = %d, want 2", best.ID)
	}
}

func TestEqualPriceEarlierTimestampFirst(t *testing.T) {
	side := newBookSide(SELL)
	side.insert(restingOrder(5, SELL, 10))
	side.insert(restingOrder(6, SELL, 10))
	side.insert(restingOrder(7, SELL, 10))

	snap := side.snapshot()
	for i, wantID := range []int64{5, 6, 7} {
		if snap[i].ID != wantID {
			t.Errorf("snapshot[%d].ID = %d, want %d (FIFO within price level)", i, snap[i].ID, wantID)
		}
	}
}

func TestRemoveBestIfFilled(t *testing.T) {
	side := newBookSide(SELL)
	first := restingOrder(1, SELL, 10)
	second := restingOrder(2, SELL, 10)
	side.insert(first)
	side.insert(second)

	// partial fill is a no-op
	first.Filled = 5
	side.removeBestIfFilled()
	if best := side.peekBest(); best.ID != 1 {
		t.Fatalf("partially filled order removed, best = %d", best.ID)
	}

	first.Filled = first.Amount
	side.removeBestIfFilled()
	if best := side.peekBest(); best == nil || best.ID != 2 {
		t.Errorf("filled order not removed, best = %+v", best)
	}
	if snap := side.snapshot(); len(snap) != 1 {
		t.Errorf("snapshot len = %d, want 1", len(snap))
	}
}

func TestOrderingHoldsAfterRemovals(t *testing.T) {
	side := newBookSide(BUY)
	for i := int64(1); i <= 6; i++ {
		side.insert(restingOrder(i, BUY, 10+i%3))
	}

	// drain the two best and re-check the total order each time
	for drained := 0; drained < 2; drained++ {
		best := side.peekBest()
		best.Filled = best.Amount
		side.removeBestIfFilled()

		snap := side.snapshot()
		for i := 1; i < len(snap); i++ {
			prev, cur := snap[i-1], snap[i]
			if prev.Price < cur.Price {
				t.Fatalf("worse price before better: %+v before %+v", prev, cur)
			}
			if prev.Price == cur.Price && prev.Timestamp > cur.Timestamp {
				t.Fatalf("later order before earlier at same price: %+v before %+v", prev, cur)
			}
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	side := newBookSide(SELL)
	side.insert(restingOrder(1, SELL, 10))

	snap := side.snapshot()
	snap[0].Filled = 99

	if side.peekBest().Filled != 0 {
		t.Error("mutating a snapshot touched the book")
	}
}

func BenchmarkBookSideInsert(b *testing.B) {
	side := newBookSide(BUY)
	for i := 0; i < b.N; i++ {
		side.insert(restingOrder(int64(i), BUY, int64(100+i%50)))
	}
}
