package dex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/spotdex/pkg/custody"
	"github.com/joripage/spotdex/pkg/dex/model"
	"github.com/joripage/spotdex/pkg/exchange"
)

// recordingGateway captures every order report in arrival order.
type recordingGateway struct {
	reports []model.Order
}

func (g *recordingGateway) Start(ctx context.Context) error { return nil }

func (g *recordingGateway) OnOrderReport(ctx context.Context, order model.Order) {
	g.reports = append(g.reports, order)
}

func (g *recordingGateway) lastReport(t *testing.T) model.Order {
	t.Helper()
	if len(g.reports) == 0 {
		t.Fatal("no order reports")
	}
	return g.reports[len(g.reports)-1]
}

func newTestDex(t *testing.T) (*Dex, *recordingGateway, *exchange.Engine, *custody.Vault) {
	t.Helper()

	registry := exchange.NewAssetRegistry()
	for _, a := range []exchange.Asset{
		{Ticker: "DAI", IsQuote: true},
		{Ticker: "ZRX"},
	} {
		if err := registry.Register(a); err != nil {
			t.Fatalf("register %s: %v", a.Ticker, err)
		}
	}

	vault := custody.NewVault()
	engine := exchange.NewEngine(registry, vault)
	gw := &recordingGateway{}
	return NewDex(gw, engine), gw, engine, vault
}

func fund(t *testing.T, engine *exchange.Engine, vault *custody.Vault, trader string, ticker exchange.Ticker, amount int64) {
	t.Helper()
	vault.Mint(trader, ticker, amount)
	vault.Approve(trader, ticker, amount)
	if err := engine.Deposit(trader, ticker, amount); err != nil {
		t.Fatalf("deposit %s %s: %v", trader, ticker, err)
	}
}

func limitOrder(gatewayID, account string, side model.OrderSide, qty, price int64) *model.AddOrder {
	return &model.AddOrder{
		GatewayID:    gatewayID,
		Account:      account,
		Ticker:       "ZRX",
		Type:         model.OrderTypeLimit,
		Price:        decimal.NewFromInt(price),
		Side:         side,
		TransactTime: time.Now(),
		Quantity:     decimal.NewFromInt(qty),
	}
}

func marketOrder(gatewayID, account string, side model.OrderSide, qty int64) *model.AddOrder {
	return &model.AddOrder{
		GatewayID:    gatewayID,
		Account:      account,
		Ticker:       "ZRX",
		Type:         model.OrderTypeMarket,
		Side:         side,
		TransactTime: time.Now(),
		Quantity:     decimal.NewFromInt(qty),
	}
}

func TestAddOrderLimitRests(t *testing.T) {
	d, gw, engine, vault := newTestDex(t)
	fund(t, engine, vault, "alice", "DAI", 1000)

	if err := d.AddOrder(context.Background(), limitOrder("c1", "alice", model.OrderSideBuy, 10, 10)); err != nil {
		t.Fatalf("AddOrder: %v", err)
	}

	report := gw.lastReport(t)
	if report.Status != model.OrderStatusNew {
		t.Errorf("status = %s, want New", report.Status)
	}
	if report.OrderID == "" {
		t.Error("expected engine order ID on report")
	}

	orders := engine.Orders("ZRX", exchange.BUY)
	if len(orders) != 1 {
		t.Fatalf("resting orders = %d, want 1", len(orders))
	}
}

func TestAddOrderDuplicateGatewayID(t *testing.T) {
	d, _, engine, vault := newTestDex(t)
	fund(t, engine, vault, "alice", "DAI", 1000)

	if err := d.AddOrder(context.Background(), limitOrder("c1", "alice", model.OrderSideBuy, 10, 10)); err != nil {
		t.Fatalf("AddOrder: %v", err)
	}
	err := d.AddOrder(context.Background(), limitOrder("c1", "alice", model.OrderSideBuy, 5, 10))
	if !errors.Is(err, errDuplicateOrder) {
		t.Fatalf("expected errDuplicateOrder, got %v", err)
	}
}

func TestAddOrderRejectsNonIntegralQuantity(t *testing.T) {
	d, gw, engine, vault := newTestDex(t)
	fund(t, engine, vault, "alice", "DAI", 1000)

	order := limitOrder("c1", "alice", model.OrderSideBuy, 10, 10)
	order.Quantity = decimal.NewFromFloat(1.5)

	err := d.AddOrder(context.Background(), order)
	if !errors.Is(err, errNonIntegralAmount) {
		t.Fatalf("expected errNonIntegralAmount, got %v", err)
	}
	if report := gw.lastReport(t); report.Status != model.OrderStatusRejected {
		t.Errorf("status = %s, want Rejected", report.Status)
	}
}

func TestAddOrderEngineRejection(t *testing.T) {
	d, gw, _, _ := newTestDex(t)

	// no funding, eligibility check fails
	err := d.AddOrder(context.Background(), limitOrder("c1", "alice", model.OrderSideBuy, 10, 10))
	if !errors.Is(err, exchange.ErrInsufficientQuoteBalance) {
		t.Fatalf("expected ErrInsufficientQuoteBalance, got %v", err)
	}

	report := gw.lastReport(t)
	if report.Status != model.OrderStatusRejected {
		t.Errorf("status = %s, want Rejected", report.Status)
	}
	if report.RejectReason == "" {
		t.Error("expected a reject reason")
	}
}

func TestAddOrderMarketFillsAndReports(t *testing.T) {
	d, gw, engine, vault := newTestDex(t)
	fund(t, engine, vault, "alice", "DAI", 1000)
	fund(t, engine, vault, "bob", "ZRX", 100)

	if err := d.AddOrder(context.Background(), limitOrder("c1", "alice", model.OrderSideBuy, 10, 10)); err != nil {
		t.Fatalf("limit: %v", err)
	}
	if err := d.AddOrder(context.Background(), marketOrder("c2", "bob", model.OrderSideSell, 5)); err != nil {
		t.Fatalf("market: %v", err)
	}

	var taker, maker *model.Order
	for i := range gw.reports {
		r := gw.reports[i]
		switch r.GatewayID {
		case "c2":
			taker = &r
		case "c1":
			if r.Status == model.OrderStatusPartiallyFilled {
				maker = &r
			}
		}
	}

	if taker == nil || taker.Status != model.OrderStatusFilled {
		t.Fatalf("taker final report = %+v, want Filled", taker)
	}
	if !taker.LastPrice.Equal(decimal.NewFromInt(10)) {
		t.Errorf("taker LastPrice = %s, want 10", taker.LastPrice)
	}
	if maker == nil {
		t.Fatal("maker never reported PartiallyFilled")
	}
	if !maker.CumQuantity.Equal(decimal.NewFromInt(5)) {
		t.Errorf("maker CumQuantity = %s, want 5", maker.CumQuantity)
	}

	// settlement
	if got := engine.BalanceOf("bob", "DAI"); got != 50 {
		t.Errorf("bob DAI = %d, want 50", got)
	}
	if got := engine.BalanceOf("alice", "ZRX"); got != 5 {
		t.Errorf("alice ZRX = %d, want 5", got)
	}
}

func TestAddOrderMarketEmptyBook(t *testing.T) {
	d, gw, engine, vault := newTestDex(t)
	fund(t, engine, vault, "bob", "ZRX", 100)

	if err := d.AddOrder(context.Background(), marketOrder("c1", "bob", model.OrderSideSell, 5)); err != nil {
		t.Fatalf("market on empty book: %v", err)
	}

	report := gw.lastReport(t)
	if report.Status != model.OrderStatusNew {
		t.Errorf("status = %s, want New (remainder dropped, nothing filled)", report.Status)
	}
	if got := engine.BalanceOf("bob", "ZRX"); got != 100 {
		t.Errorf("bob ZRX = %d, want 100", got)
	}
}

func TestMakerRemovedWhenFilled(t *testing.T) {
	d, _, engine, vault := newTestDex(t)
	fund(t, engine, vault, "alice", "DAI", 1000)
	fund(t, engine, vault, "bob", "ZRX", 100)

	if err := d.AddOrder(context.Background(), limitOrder("c1", "alice", model.OrderSideBuy, 10, 10)); err != nil {
		t.Fatalf("limit: %v", err)
	}
	if err := d.AddOrder(context.Background(), marketOrder("c2", "bob", model.OrderSideSell, 10)); err != nil {
		t.Fatalf("market: %v", err)
	}

	if orders := engine.Orders("ZRX", exchange.BUY); len(orders) != 0 {
		t.Errorf("resting orders = %d, want 0", len(orders))
	}
	// fully filled maker is dropped from tracking
	if _, err := d.GetOrderByOrderID("1"); !errors.Is(err, errOrderIDNotFound) {
		t.Errorf("expected maker to be dropped, got %v", err)
	}
}
