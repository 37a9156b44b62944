package fixgateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joripage/go_util/pkg/shardqueue"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/fix44/ordercancelreplacerequest"
	"github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/quickfixgo/tag"
	"go.uber.org/zap"
)

// Application implements the quickfix.Application interface and routes
// inbound order flow onto the exchange through a sharded queue keyed by
// ClOrdID, so reports for one order never race each other.
type Application struct {
	*quickfix.MessageRouter
	cfg        AppConfig
	quickEvent chan bool
	dispatcher chan *inboundMsg
	shardQueue *shardqueue.Shardqueue

	gateway *FixGateway
}

type AppConfig struct {
	enableQueue      bool
	enableShardQueue bool
}

type inboundMsg struct {
	msg       *quickfix.Message
	sessionID quickfix.SessionID
}

const (
	numShards = 16
	queueSize = 1_000_000
)

func newApplication(cfg AppConfig, gateway *FixGateway) *Application {
	app := &Application{
		MessageRouter: quickfix.NewMessageRouter(),
		cfg:           cfg,
		quickEvent:    make(chan bool, 1),
		gateway:       gateway,
	}

	app.AddRoute(newordersingle.Route(app.onNewOrderSingle))
	app.AddRoute(ordercancelrequest.Route(app.onOrderCancelRequest))
	app.AddRoute(ordercancelreplacerequest.Route(app.onOrderCancelReplaceRequest))

	if app.cfg.enableShardQueue {
		app.shardQueue = shardqueue.NewShardQueue(numShards, queueSize)
		app.shardQueue.Start(func(msg interface{}) error {
			if v, ok := msg.(*inboundMsg); ok {
				app.Route(v.msg, v.sessionID)
			}
			return nil
		})
	} else if app.cfg.enableQueue {
		app.dispatcher = make(chan *inboundMsg, queueSize)
		go app.runDispatcher()
	}

	return app
}

func startApp(configFilepath string, gateway *FixGateway) (*Application, error) {
	cfg, err := os.Open(configFilepath)
	if err != nil {
		return nil, fmt.Errorf("error opening %v, %v", configFilepath, err)
	}
	defer cfg.Close() // nolint

	stringData, readErr := io.ReadAll(cfg)
	if readErr != nil {
		return nil, fmt.Errorf("error reading cfg: %s,", readErr)
	}

	appSettings, err := quickfix.ParseSettings(bytes.NewReader(stringData))
	if err != nil {
		return nil, fmt.Errorf("error reading cfg: %s,", err)
	}

	app := newApplication(AppConfig{
		enableShardQueue: true,
	}, gateway)

	logFactory, _ := file.NewLogFactory(appSettings)
	acceptor, err := quickfix.NewAcceptor(app, quickfix.NewMemoryStoreFactory(), appSettings, logFactory)
	if err != nil {
		return nil, fmt.Errorf("unable to create acceptor: %s", err)
	}

	err = acceptor.Start()
	if err != nil {
		return nil, fmt.Errorf("unable to start FIX acceptor: %s", err)
	}

	go func() {
		<-app.quickEvent
		acceptor.Stop()
	}()

	return app, nil
}

func stopApp(a *Application) {
	select {
	case a.quickEvent <- true:
	default:
	}
}

// OnCreate implemented as part of Application interface
func (a Application) OnCreate(sessionID quickfix.SessionID) {}

// OnLogon implemented as part of Application interface
func (a Application) OnLogon(sessionID quickfix.SessionID) {}

// OnLogout implemented as part of Application interface
func (a Application) OnLogout(sessionID quickfix.SessionID) {}

// ToAdmin implemented as part of Application interface
func (a Application) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}

// ToApp implemented as part of Application interface
func (a Application) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}

// FromAdmin implemented as part of Application interface
func (a Application) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

// FromApp implemented as part of Application interface, uses Router on incoming application messages
func (a *Application) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) (reject quickfix.MessageRejectError) {
	if a.cfg.enableShardQueue {
		a.shardQueue.Shard(getRoutingKey(msg, sessionID), &inboundMsg{msg, sessionID})
		return nil
	} else if a.cfg.enableQueue {
		a.dispatcher <- &inboundMsg{msg, sessionID}
		return nil
	}

	return a.Route(msg, sessionID)
}

func getRoutingKey(msg *quickfix.Message, sessionID quickfix.SessionID) string {
	if clOrdID, err := msg.Body.GetString(tag.ClOrdID); err == nil && clOrdID != "" {
		return clOrdID
	}

	if msgType, err := msg.Header.GetString(tag.MsgType); err == nil {
		return "MSGTYPE:" + msgType
	}

	return sessionID.String()
}

func (a *Application) runDispatcher() {
	for msg := range a.dispatcher {
		if err := a.Route(msg.msg, msg.sessionID); err != nil {
			zap.S().Warnf("route error: %v", err)
		}
	}
}

func (a *Application) onNewOrderSingle(msg newordersingle.NewOrderSingle, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, _ := msg.GetClOrdID()
	symbol, _ := msg.GetSymbol()
	side, _ := msg.GetSide()
	ordType, _ := msg.GetOrdType()
	price, _ := msg.GetPrice()
	orderQty, _ := msg.GetOrderQty()
	account, _ := msg.GetAccount()
	transactTime, _ := msg.GetTransactTime()

	m := &NewOrderSingle{
		SessionID: &sessionID,

		Account:      account,
		ClOrdID:      clOrdID,
		Symbol:       symbol,
		OrdType:      ordType,
		Price:        price,
		Side:         side,
		TransactTime: transactTime,
		OrderQty:     orderQty,
	}

	a.gateway.AddOrder(context.Background(), m)
	return nil
}

// Orders cannot be pulled once they rest on the book, so cancel and
// cancel/replace flows are rejected outright.
func (a *Application) onOrderCancelRequest(msg ordercancelrequest.OrderCancelRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return quickfix.NewBusinessMessageRejectError("order cancellation not supported", 0, nil)
}

func (a *Application) onOrderCancelReplaceRequest(msg ordercancelreplacerequest.OrderCancelReplaceRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return quickfix.NewBusinessMessageRejectError("order replacement not supported", 0, nil)
}
