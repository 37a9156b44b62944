package exchange

import "sort"

// priceHeap implements heap.Interface over distinct price levels. The less
// function decides priority: descending for the buy side, ascending for the
// sell side.
type priceHeap struct {
	prices []int64
	less   func(i, j int64) bool
	index  map[int64]bool
}

func newPriceHeap(less func(i, j int64) bool) *priceHeap {
	return &priceHeap{
		prices: []int64{},
		less:   less,
		index:  make(map[int64]bool),
	}
}

func (h priceHeap) Len() int {
	return len(h.prices)
}

func (h priceHeap) Less(i, j int) bool {
	return h.less(h.prices[i], h.prices[j])
}

func (h priceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
}

func (h *priceHeap) Push(x any) {
	price := x.(int64)
	if !h.index[price] {
		h.index[price] = true
		h.prices = append(h.prices, price)
	}
}

func (h *priceHeap) Pop() any {
	n := len(h.prices)
	price := h.prices[n-1]
	h.prices = h.prices[:n-1]
	delete(h.index, price)
	return price
}

func (h *priceHeap) Peek() (int64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

// sorted returns every price level in priority order.
func (h *priceHeap) sorted() []int64 {
	out := make([]int64, len(h.prices))
	copy(out, h.prices)
	sort.Slice(out, func(i, j int) bool { return h.less(out[i], out[j]) })
	return out
}
