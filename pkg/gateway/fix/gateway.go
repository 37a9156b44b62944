package fixgateway

import (
	"context"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"go.uber.org/zap"

	"github.com/joripage/spotdex/pkg/dex/model"
)

// OrderEntry is the slice of the exchange the gateway submits into.
type OrderEntry interface {
	AddOrder(ctx context.Context, addOrder *model.AddOrder) error
}

type FixGateway struct {
	cfg      *FixGatewayConfig
	app      *Application
	exchange OrderEntry

	// ClOrdID -> originating session, for report routing
	requestMapping sync.Map
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	return &FixGateway{
		cfg:            cfg,
		requestMapping: sync.Map{},
	}
}

func (s *FixGateway) AddExchange(e OrderEntry) {
	s.exchange = e
}

func (s *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		zap.S().Errorf("start fix app err=%v", err)
		return err
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

func (s *FixGateway) AddOrder(ctx context.Context, newOrderSingle *NewOrderSingle) {
	orderType := map[enum.OrdType]model.OrderType{
		enum.OrdType_LIMIT:  model.OrderTypeLimit,
		enum.OrdType_MARKET: model.OrderTypeMarket,
	}[newOrderSingle.OrdType]

	side := map[enum.Side]model.OrderSide{
		enum.Side_BUY:  model.OrderSideBuy,
		enum.Side_SELL: model.OrderSideSell,
	}[newOrderSingle.Side]

	s.addRequestToMap(newOrderSingle.ClOrdID, newOrderSingle.SessionID)

	if err := s.exchange.AddOrder(ctx, &model.AddOrder{
		GatewayID:    newOrderSingle.ClOrdID,
		Account:      newOrderSingle.Account,
		Ticker:       newOrderSingle.Symbol,
		Type:         orderType,
		Price:        newOrderSingle.Price,
		Side:         side,
		TransactTime: newOrderSingle.TransactTime,
		Quantity:     newOrderSingle.OrderQty,
	}); err != nil {
		zap.S().Infof("add order clOrdID=%s err=%v", newOrderSingle.ClOrdID, err)
	}
}

// OnOrderReport sends an ExecutionReport back to the session that
// originated the order.
func (s *FixGateway) OnOrderReport(ctx context.Context, order model.Order) {
	sessionID, err := s.getRequestByClOrdID(order.GatewayID)
	if err != nil {
		// order came in through another gateway
		return
	}
	if err := orderReportToExecutionReport(order, sessionID); err != nil {
		zap.S().Warnf("send report clOrdID=%s err=%v", order.GatewayID, err)
	}
}

func (s *FixGateway) addRequestToMap(clOrdID string, sessionID *quickfix.SessionID) {
	s.requestMapping.Store(clOrdID, sessionID)
}

func (s *FixGateway) getRequestByClOrdID(clOrdID string) (*quickfix.SessionID, error) {
	v, ok := s.requestMapping.Load(clOrdID)
	if !ok {
		return nil, errSessionNotFound
	}
	return v.(*quickfix.SessionID), nil
}
