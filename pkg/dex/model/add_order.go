package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AddOrder struct {
	GatewayID    string
	Account      string
	Ticker       string
	Type         OrderType
	Price        decimal.Decimal
	Side         OrderSide
	TransactTime time.Time
	Quantity     decimal.Decimal
}
