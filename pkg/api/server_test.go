package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joripage/spotdex/pkg/custody"
	"github.com/joripage/spotdex/pkg/dex"
	"github.com/joripage/spotdex/pkg/exchange"
)

func newTestServer(t *testing.T) *Server {
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
	d := dex.NewDex(dex.NewGatewayMux(), engine)

	// no depth publisher, the deployment may run without redis
	return NewServer(&Config{Addr: ":0"}, d, engine, registry, nil)
}

func TestServerWithoutDepthCache(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/markets/ZRX/depth", nil)
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("depth status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	// the rest of the API still serves
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/v1/assets", nil)
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("assets status = %d, body %s", rec.Code, rec.Body.String())
	}
	var assets []AssetInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &assets); err != nil {
		t.Fatalf("unmarshal assets: %v", err)
	}
	if len(assets) != 2 {
		t.Errorf("assets = %+v", assets)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/health", nil)
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestServerGetOrdersEmptyBook(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/markets/ZRX/orders/buy", nil)
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("orders status = %d, body %s", rec.Code, rec.Body.String())
	}
	var orders []OrderInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &orders); err != nil {
		t.Fatalf("unmarshal orders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("orders = %+v", orders)
	}
}
