package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetInfo struct {
	Ticker  string `json:"ticker"`
	IsQuote bool   `json:"isQuote"`
}

type RegisterAssetRequest struct {
	Ticker  string `json:"ticker"`
	IsQuote bool   `json:"isQuote"`
}

type TransferRequest struct {
	Ticker string `json:"ticker"`
	Amount int64  `json:"amount"`
}

type BalanceInfo struct {
	Ticker  string `json:"ticker"`
	Balance int64  `json:"balance"`
}

type SubmitOrderRequest struct {
	ClientOrderID string          `json:"clientOrderId"`
	Account       string          `json:"account"`
	Ticker        string          `json:"ticker"`
	Side          string          `json:"side"`
	Type          string          `json:"type"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
}

type SubmitOrderResponse struct {
	Status        string `json:"status"`
	ClientOrderID string `json:"clientOrderId"`
}

type OrderInfo struct {
	OrderID   int64  `json:"orderId"`
	Trader    string `json:"trader"`
	Side      string `json:"side"`
	Ticker    string `json:"ticker"`
	Amount    int64  `json:"amount"`
	Filled    int64  `json:"filled"`
	Price     int64  `json:"price"`
	Timestamp int64  `json:"timestamp"`
}

type TradeUpdate struct {
	Type      string    `json:"type"`
	Ticker    string    `json:"ticker"`
	TakerSide string    `json:"takerSide"`
	Price     int64     `json:"price"`
	Qty       int64     `json:"qty"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderUpdate struct {
	Type          string `json:"type"`
	ClientOrderID string `json:"clientOrderId"`
	OrderID       string `json:"orderId"`
	Account       string `json:"account"`
	Ticker        string `json:"ticker"`
	Status        string `json:"status"`
	CumQuantity   string `json:"cumQuantity"`
	LeavesQty     string `json:"leavesQty"`
	LastPrice     string `json:"lastPrice"`
	LastQuantity  string `json:"lastQuantity"`
	RejectReason  string `json:"rejectReason,omitempty"`
}

type WSSubscribeRequest struct {
	Op       string   `json:"op"`
	Channels []string `json:"channels"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
