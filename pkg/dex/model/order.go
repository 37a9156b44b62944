package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingNew      OrderStatus = "PendingNew"
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusRejected        OrderStatus = "Rejected"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
)

// Order is the gateway-facing view of a submission: decimal quantities at the
// edge, engine fill state folded in as it happens.
type Order struct {
	GatewayID string
	OrderID   string

	Account      string
	Ticker       string
	Side         OrderSide
	Type         OrderType
	Price        decimal.Decimal
	Quantity     decimal.Decimal
	TransactTime time.Time

	Status         OrderStatus
	CumQuantity    decimal.Decimal
	LeavesQuantity decimal.Decimal
	LastQuantity   decimal.Decimal
	LastPrice      decimal.Decimal
	RejectReason   string
}

func (o *Order) UpdateAddOrder(add *AddOrder) {
	o.GatewayID = add.GatewayID
	o.Account = add.Account
	o.Ticker = add.Ticker
	o.Side = add.Side
	o.Type = add.Type
	o.Price = add.Price
	o.Quantity = add.Quantity
	o.TransactTime = add.TransactTime
	o.Status = OrderStatusPendingNew
	o.LeavesQuantity = add.Quantity
}

// ApplyFill folds one settled trade into the order's fill state.
func (o *Order) ApplyFill(qty, price decimal.Decimal) {
	o.CumQuantity = o.CumQuantity.Add(qty)
	o.LeavesQuantity = o.Quantity.Sub(o.CumQuantity)
	o.LastQuantity = qty
	o.LastPrice = price
	if o.CumQuantity.GreaterThanOrEqual(o.Quantity) {
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartiallyFilled
	}
}

// IsEnd reports whether the order can no longer change state.
func (o *Order) IsEnd() bool {
	switch o.Status {
	case OrderStatusFilled, OrderStatusRejected:
		return true
	}
	// market orders never rest; any remainder was dropped at submission
	return o.Type == OrderTypeMarket
}
