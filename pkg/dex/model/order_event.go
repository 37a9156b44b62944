package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent is one row of the order journal, persisted write-behind.
type OrderEvent struct {
	EventID   string
	OrderID   string
	GatewayID string
	Status    OrderStatus
	Qty       decimal.Decimal
	Price     decimal.Decimal
	Timestamp time.Time
}

func NewOrderEvent(order Order, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:   NewEventID(order.OrderID, order.Status),
		OrderID:   order.OrderID,
		GatewayID: order.GatewayID,
		Status:    order.Status,
		Qty:       order.LastQuantity,
		Price:     order.LastPrice,
		Timestamp: ts,
	}
}

func NewEventID(orderID string, status OrderStatus) string {
	return fmt.Sprintf("%s-%s", orderID, status)
}
