// tradegen is a FIX initiator that funds two accounts over the REST API and
// then trades them against each other, for smoke-testing a running exchange.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	fix44nos "github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/shopspring/decimal"
)

const (
	apiBase = "http://localhost:8080/api/v1"

	maker = "alice"
	taker = "bob"
)

var tickers = []string{"ZRX", "BAT", "REP"}

type InitiatorApp struct {
	sessionID *quickfix.SessionID
}

func (a *InitiatorApp) OnCreate(sessionID quickfix.SessionID) {
	a.sessionID = &sessionID
}

func (a *InitiatorApp) OnLogon(sessionID quickfix.SessionID) {
	log.Println("Logon success", sessionID)
	go sendOrders(sessionID)
}

func (a *InitiatorApp) OnLogout(sessionID quickfix.SessionID)                       {}
func (a *InitiatorApp) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}
func (a *InitiatorApp) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}
func (a *InitiatorApp) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}
func (a *InitiatorApp) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func post(path, ticker string, amount int64) error {
	body, _ := json.Marshal(map[string]interface{}{
		"ticker": ticker,
		"amount": amount,
	})
	resp, err := http.Post(apiBase+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close() // nolint
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST %s %s: status %d", path, ticker, resp.StatusCode)
	}
	return nil
}

func deposit(account, ticker string, amount int64) error {
	if err := post(fmt.Sprintf("/accounts/%s/faucet", account), ticker, amount); err != nil {
		return err
	}
	return post(fmt.Sprintf("/accounts/%s/deposits", account), ticker, amount)
}

func fund() {
	if err := deposit(maker, "DAI", 1_000_000); err != nil {
		log.Println(err)
	}
	for _, t := range tickers {
		if err := deposit(taker, t, 100_000); err != nil {
			log.Println(err)
		}
	}
}

func sendOrders(sessionID quickfix.SessionID) {
	fund()

	for i := 0; ; i++ {
		ticker := tickers[rand.Intn(len(tickers))]
		price := int64(90 + rand.Intn(20))
		qty := int64(1 + rand.Intn(50))

		orderBuy := fix44nos.New(
			field.NewClOrdID(randSeq(17)),
			field.NewSide(enum.Side_BUY),
			field.NewTransactTime(time.Now()),
			field.NewOrdType(enum.OrdType_LIMIT))
		orderBuy.SetSymbol(ticker)
		orderBuy.SetAccount(maker)
		orderBuy.SetPrice(decimal.NewFromInt(price), 0)
		orderBuy.SetOrderQty(decimal.NewFromInt(qty), 0)
		orderBuy.SetSenderCompID(sessionID.SenderCompID)
		orderBuy.SetTargetCompID(sessionID.TargetCompID)
		if err := quickfix.Send(orderBuy); err != nil {
			log.Println(err)
		}

		orderSell := fix44nos.New(
			field.NewClOrdID(randSeq(17)),
			field.NewSide(enum.Side_SELL),
			field.NewTransactTime(time.Now()),
			field.NewOrdType(enum.OrdType_MARKET))
		orderSell.SetSymbol(ticker)
		orderSell.SetAccount(taker)
		orderSell.SetOrderQty(decimal.NewFromInt(qty), 0)
		orderSell.SetSenderCompID(sessionID.SenderCompID)
		orderSell.SetTargetCompID(sessionID.TargetCompID)
		if err := quickfix.Send(orderSell); err != nil {
			log.Println(err)
		}

		time.Sleep(100 * time.Millisecond)
	}
}

func main() {
	cfgPath := os.Args[1]
	log.Println("cfgPath:", cfgPath)
	app := &InitiatorApp{}

	cfg, err := os.Open(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	defer cfg.Close() // nolint

	settings, err := quickfix.ParseSettings(cfg)
	if err != nil {
		log.Fatal(err)
	}

	storeFactory := quickfix.NewMemoryStoreFactory()
	logFactory, _ := file.NewLogFactory(settings)
	initiator, err := quickfix.NewInitiator(app, storeFactory, settings, logFactory)
	if err != nil {
		log.Fatal(err)
	}
	err = initiator.Start()
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Initiator started...")
	select {}
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func randSeq(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
