package dex

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	eventstore "github.com/joripage/spotdex/pkg/dex/event_store"
	"github.com/joripage/spotdex/pkg/dex/model"
	"github.com/joripage/spotdex/pkg/exchange"
	kafkawrapper "github.com/joripage/spotdex/pkg/kafka_wrapper"
)

// Dex sits between the order gateways and the matching engine: it maps
// gateway submissions onto engine calls, journals order events, reports
// execution status back to the gateway, and publishes settled trades.
type Dex struct {
	orderGateway OrderGateway
	engine       *exchange.Engine
	eventstore   eventstore.EventStore

	producer   *kafkawrapper.Producer
	tradeTopic string
	eventTopic string
	depth      DepthPublisher

	orderIDMapping syncOrderMap
}

func NewDex(orderGateway OrderGateway, engine *exchange.Engine) *Dex {
	return &Dex{
		orderGateway: orderGateway,
		engine:       engine,
		eventstore:   eventstore.NewInMemoryEventStore(),
	}
}

// SetProducer wires the Kafka persistence pipeline; optional. Settled
// trades go to tradeTopic, order journal rows to eventTopic.
func (s *Dex) SetProducer(p *kafkawrapper.Producer, tradeTopic, eventTopic string) {
	s.producer = p
	s.tradeTopic = tradeTopic
	s.eventTopic = eventTopic
}

// SetDepthPublisher wires the market-data depth cache; optional.
func (s *Dex) SetDepthPublisher(p DepthPublisher) {
	s.depth = p
}

func (s *Dex) Start(ctx context.Context) error {
	return s.orderGateway.Start(ctx)
}

// AddOrder admits one gateway submission. Limit orders rest; market orders
// match immediately and report their fills. Engine rejections come back as
// a Rejected report plus the engine error.
func (s *Dex) AddOrder(ctx context.Context, addOrder *model.AddOrder) error {
	if orderID := s.eventstore.GetOrderID(addOrder.GatewayID); orderID != "" {
		return errDuplicateOrder
	}

	order := &model.Order{}
	order.UpdateAddOrder(addOrder)

	qty, ok := toUnits(addOrder.Quantity)
	if !ok {
		return s.reject(ctx, order, errNonIntegralAmount)
	}
	price, ok := toUnits(addOrder.Price)
	if !ok && addOrder.Type == model.OrderTypeLimit {
		return s.reject(ctx, order, errNonIntegralAmount)
	}

	ticker := exchange.Ticker(addOrder.Ticker)
	side := exchange.Side(addOrder.Side)

	switch addOrder.Type {
	case model.OrderTypeLimit:
		resting, err := s.engine.CreateLimitOrder(addOrder.Account, ticker, qty, price, side)
		if err != nil {
			return s.reject(ctx, order, err)
		}
		order.OrderID = strconv.FormatInt(resting.ID, 10)
		order.Status = model.OrderStatusNew
		s.AddOrderToMap(order)
		s.report(ctx, order)

	case model.OrderTypeMarket:
		order.OrderID = uuid.NewString()
		trades, err := s.engine.CreateMarketOrder(addOrder.Account, ticker, qty, side)
		if err != nil && len(trades) == 0 {
			return s.reject(ctx, order, err)
		}
		order.Status = model.OrderStatusNew
		s.report(ctx, order)
		s.processTrades(ctx, order, trades)
		if err != nil {
			return err
		}
	}

	if s.depth != nil {
		if err := s.depth.PublishDepth(ctx, addOrder.Ticker); err != nil {
			zap.S().Warnf("publish depth %s: %v", addOrder.Ticker, err)
		}
	}

	return nil
}

// processTrades folds settled trades into the taker and every touched maker,
// reporting and publishing each one.
func (s *Dex) processTrades(ctx context.Context, taker *model.Order, trades []exchange.Trade) {
	now := time.Now()
	for _, tr := range trades {
		qty := decimal.NewFromInt(tr.Qty)
		price := decimal.NewFromInt(tr.Price)

		taker.ApplyFill(qty, price)
		s.report(ctx, taker)

		makerID := strconv.FormatInt(tr.MakerOrderID, 10)
		maker, err := s.GetOrderByOrderID(makerID)
		if err != nil {
			zap.S().Warnf("trade makerOrderID=%s not tracked", makerID)
		} else {
			maker.ApplyFill(qty, price)
			s.report(ctx, maker)
			if maker.IsEnd() {
				s.DeleteOrderByOrderID(makerID)
			}
		}

		if s.producer != nil {
			trade := &model.Trade{
				TradeID:      uuid.NewString(),
				Ticker:       string(tr.Ticker),
				MakerOrderID: makerID,
				Maker:        tr.Maker,
				Taker:        tr.Taker,
				TakerSide:    model.OrderSide(tr.TakerSide),
				Price:        tr.Price,
				Qty:          tr.Qty,
				Timestamp:    now,
			}
			if err := s.producer.PublishJSON(ctx, s.tradeTopic, trade.Ticker, trade, nil); err != nil {
				zap.S().Warnf("publish trade %s: %v", trade.TradeID, err)
			}
		}
	}
}

func (s *Dex) reject(ctx context.Context, order *model.Order, err error) error {
	order.Status = model.OrderStatusRejected
	order.RejectReason = err.Error()
	s.report(ctx, order)
	return err
}

// report journals the order's current state and forwards it to the gateway.
func (s *Dex) report(ctx context.Context, order *model.Order) {
	bkOrder := *order
	event := model.NewOrderEvent(bkOrder, time.Now())
	s.eventstore.AddEvent(event)
	if s.producer != nil && s.eventTopic != "" {
		if err := s.producer.PublishJSON(ctx, s.eventTopic, event.OrderID, event, nil); err != nil {
			zap.S().Warnf("publish order event %s: %v", event.EventID, err)
		}
	}
	s.orderGateway.OnOrderReport(ctx, bkOrder)
}

// toUnits converts a gateway decimal into integer custody units.
func toUnits(d decimal.Decimal) (int64, bool) {
	if !d.IsInteger() {
		return 0, false
	}
	return d.IntPart(), true
}
