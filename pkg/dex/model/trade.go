package model

import "time"

// Trade is the settlement record published on the trade topic and persisted
// by the worker. Quantities are integer custody units; Price is quote units
// per unit of the traded asset, always the resting order's price.
type Trade struct {
	TradeID      string
	Ticker       string
	MakerOrderID string
	Maker        string
	Taker        string
	TakerSide    OrderSide
	Price        int64
	Qty          int64
	Timestamp    time.Time
}
