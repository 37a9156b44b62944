package exchange

import (
	"container/heap"

	"github.com/gammazero/deque"
)

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

func (s Side) Opposite() Side {
	if s == BUY {
		return SELL
	}
	return BUY
}

// Order is a resting limit order. Amount, Price, Trader, Ticker and Side are
// immutable after creation; only Filled moves, and only upward. The order
// leaves its book the instant Filled == Amount. Timestamp is the insertion
// sequence number, unique per engine, used as the price-level tie break.
type Order struct {
	ID        int64
	Trader    string
	Side      Side
	Ticker    Ticker
	Amount    int64
	Filled    int64
	Price     int64
	Timestamp int64
}

func (o *Order) Remaining() int64 {
	return o.Amount - o.Filled
}

// bookSide holds the resting orders of one (ticker, side) pair in matching
// priority order: price levels ranked by the heap, FIFO within a level.
// Insertion order within a level is timestamp order, so the structure is
// strict price-then-time priority.
type bookSide struct {
	levels map[int64]*deque.Deque[*Order]
	heap   *priceHeap
}

func newBookSide(side Side) *bookSide {
	less := func(i, j int64) bool { return i < j } // sell: lowest first
	if side == BUY {
		less = func(i, j int64) bool { return i > j } // buy: highest first
	}
	return &bookSide{
		levels: make(map[int64]*deque.Deque[*Order]),
		heap:   newPriceHeap(less),
	}
}

func (s *bookSide) insert(order *Order) {
	if s.levels[order.Price] == nil {
		s.levels[order.Price] = &deque.Deque[*Order]{}
		heap.Push(s.heap, order.Price)
	}
	s.levels[order.Price].PushBack(order)
}

// peekBest returns the highest-priority resting order without removing it,
// dropping exhausted price levels along the way.
func (s *bookSide) peekBest() *Order {
	for {
		price, ok := s.heap.Peek()
		if !ok {
			return nil
		}
		q := s.levels[price]
		if q == nil || q.Len() == 0 {
			heap.Pop(s.heap)
			delete(s.levels, price)
			continue
		}
		return q.Front()
	}
}

// removeBestIfFilled drops the best resting order once it is fully filled.
// No-op while Filled < Amount.
func (s *bookSide) removeBestIfFilled() {
	best := s.peekBest()
	if best == nil || best.Filled < best.Amount {
		return
	}
	q := s.levels[best.Price]
	q.PopFront()
	if q.Len() == 0 {
		heap.Pop(s.heap)
		delete(s.levels, best.Price)
	}
}

// snapshot copies the resting orders in matching priority order. The copies
// are detached; mutating them does not touch the book.
func (s *bookSide) snapshot() []Order {
	var out []Order
	for _, price := range s.heap.sorted() {
		q := s.levels[price]
		if q == nil {
			continue
		}
		for i := 0; i < q.Len(); i++ {
			out = append(out, *q.At(i))
		}
	}
	return out
}

// orderBook holds both sides for one traded asset. An order belongs to
// exactly one side, fixed at creation.
type orderBook struct {
	ticker Ticker
	buys   *bookSide
	sells  *bookSide
}

func newOrderBook(ticker Ticker) *orderBook {
	return &orderBook{
		ticker: ticker,
		buys:   newBookSide(BUY),
		sells:  newBookSide(SELL),
	}
}

func (b *orderBook) side(side Side) *bookSide {
	if side == BUY {
		return b.buys
	}
	return b.sells
}
