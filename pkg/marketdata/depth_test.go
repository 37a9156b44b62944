package marketdata

import (
	"testing"

	"github.com/joripage/spotdex/pkg/exchange"
)

func TestAggregateFoldsPriceLevels(t *testing.T) {
	orders := []exchange.Order{
		{ID: 1, Price: 12, Amount: 10, Filled: 4},
		{ID: 2, Price: 12, Amount: 5},
		{ID: 3, Price: 11, Amount: 7},
	}

	levels := aggregate(orders)
	if len(levels) != 2 {
		t.Fatalf("levels = %d, want 2", len(levels))
	}
	if levels[0].Price != 12 || levels[0].Amount != 11 || levels[0].Orders != 2 {
		t.Errorf("level 0 = %+v, want price 12 amount 11 orders 2", levels[0])
	}
	if levels[1].Price != 11 || levels[1].Amount != 7 || levels[1].Orders != 1 {
		t.Errorf("level 1 = %+v, want price 11 amount 7 orders 1", levels[1])
	}
}

func TestAggregateEmpty(t *testing.T) {
	if levels := aggregate(nil); len(levels) != 0 {
		t.Errorf("levels = %d, want 0", len(levels))
	}
}
