package fixgateway

import (
	"errors"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	"github.com/joripage/spotdex/pkg/dex/model"
)

var errSessionNotFound = errors.New("session not found")

var (
	orderStatusMapping = map[model.OrderStatus]enum.OrdStatus{
		model.OrderStatusPendingNew:      enum.OrdStatus_PENDING_NEW,
		model.OrderStatusNew:             enum.OrdStatus_NEW,
		model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
		model.OrderStatusFilled:          enum.OrdStatus_FILLED,
		model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
	}

	execTypeMapping = map[model.OrderStatus]enum.ExecType{
		model.OrderStatusPendingNew:      enum.ExecType_PENDING_NEW,
		model.OrderStatusNew:             enum.ExecType_NEW,
		model.OrderStatusPartiallyFilled: enum.ExecType_TRADE,
		model.OrderStatusFilled:          enum.ExecType_TRADE,
		model.OrderStatusRejected:        enum.ExecType_REJECTED,
	}

	sideMapping = map[model.OrderSide]enum.Side{
		model.OrderSideBuy:  enum.Side_BUY,
		model.OrderSideSell: enum.Side_SELL,
	}
)

// MessagePool recycles quickfix messages between reports.
type MessagePool struct {
	pool sync.Pool
}

func NewMessagePool() *MessagePool {
	return &MessagePool{
		pool: sync.Pool{
			New: func() interface{} {
				m := quickfix.NewMessage()
				resetMessage(m)
				return m
			},
		},
	}
}

func (mp *MessagePool) Get() *quickfix.Message {
	m := mp.pool.Get().(*quickfix.Message)
	resetMessage(m)
	return m
}

func (mp *MessagePool) Put(m *quickfix.Message) {
	resetMessage(m)
	mp.pool.Put(m)
}

func resetMessage(m *quickfix.Message) {
	m.Header.Init()
	m.Body.Init()
	m.Trailer.Init()
	m.Header.Clear()
	m.Body.Clear()
	m.Trailer.Clear()
}

var execReportPool = NewMessagePool()

func orderReportToExecutionReport(order model.Order, sessionID *quickfix.SessionID) error {
	msg := execReportPool.Get()
	execReportMsg := executionreport.FromMessage(msg)

	execReportMsg.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	execReportMsg.SetOrderID(order.OrderID)
	execReportMsg.SetExecID(model.NewEventID(order.OrderID, order.Status))
	execReportMsg.SetExecType(execTypeMapping[order.Status])
	execReportMsg.SetOrdStatus(orderStatusMapping[order.Status])
	execReportMsg.SetSide(sideMapping[order.Side])
	execReportMsg.SetSymbol(order.Ticker)
	execReportMsg.SetLeavesQty(order.LeavesQuantity, 0)
	execReportMsg.SetCumQty(order.CumQuantity, 0)
	execReportMsg.SetAvgPx(avgPrice(order), 2)

	execReportMsg.SetClOrdID(order.GatewayID)
	execReportMsg.SetAccount(order.Account)
	execReportMsg.SetOrderQty(order.Quantity, 0)
	execReportMsg.SetPrice(order.Price, 0)
	execReportMsg.SetTransactTime(order.TransactTime)
	execReportMsg.SetLastQty(order.LastQuantity, 0)
	execReportMsg.SetLastPx(order.LastPrice, 0)
	if order.RejectReason != "" {
		execReportMsg.SetText(order.RejectReason)
	}

	err := quickfix.SendToTarget(execReportMsg, *sessionID)

	execReportPool.Put(msg)
	return err
}

// avgPrice reports LastPrice as a stand-in average. Fills settle per level,
// so the true average would need the full fill history; LastPx carries the
// per-fill price either way.
func avgPrice(order model.Order) decimal.Decimal {
	return order.LastPrice
}
