package exchange

// Trade is one settled match between a taker submission and a resting order.
// Price is always the resting order's price; market orders carry none.
type Trade struct {
	MakerOrderID int64
	Maker        string
	Taker        string
	Ticker       Ticker
	TakerSide    Side
	Price        int64
	Qty          int64
}
