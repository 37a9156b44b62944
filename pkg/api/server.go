// Package api exposes the exchange over REST and websocket: asset
// administration, custody transfers, order entry, and market data reads
// served from the depth cache.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/joripage/spotdex/pkg/custody"
	"github.com/joripage/spotdex/pkg/dex"
	"github.com/joripage/spotdex/pkg/dex/model"
	"github.com/joripage/spotdex/pkg/exchange"
	"github.com/joripage/spotdex/pkg/marketdata"
)

type Config struct {
	Addr string `yaml:"addr"`
}

// Server is also an order gateway: reports for orders submitted over REST
// come back through OnOrderReport and are pushed to websocket subscribers.
type Server struct {
	cfg      *Config
	exchange *dex.Dex
	engine   *exchange.Engine
	registry *exchange.AssetRegistry
	depth    *marketdata.Publisher

	router *mux.Router
	hub    *Hub

	vault *custody.Vault
}

func NewServer(cfg *Config, d *dex.Dex, engine *exchange.Engine, registry *exchange.AssetRegistry, depth *marketdata.Publisher) *Server {
	s := &Server{
		cfg:      cfg,
		exchange: d,
		engine:   engine,
		registry: registry,
		depth:    depth,
		router:   mux.NewRouter(),
		hub:      NewHub(),
	}

	s.setupRoutes()

	engine.RegisterTradeCallback(s.broadcastTrades)

	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/assets", s.handleRegisterAsset).Methods("POST")
	api.HandleFunc("/assets", s.handleGetAssets).Methods("GET")

	api.HandleFunc("/accounts/{account}/faucet", s.handleFaucet).Methods("POST")
	api.HandleFunc("/accounts/{account}/deposits", s.handleDeposit).Methods("POST")
	api.HandleFunc("/accounts/{account}/withdrawals", s.handleWithdraw).Methods("POST")
	api.HandleFunc("/accounts/{account}/balances", s.handleGetBalances).Methods("GET")

	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")

	api.HandleFunc("/markets/{ticker}/depth", s.handleGetDepth).Methods("GET")
	api.HandleFunc("/markets/{ticker}/orders/{side}", s.handleGetOrders).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start implements dex.OrderGateway. The HTTP listener runs in the
// background so the caller's startup sequence is not blocked.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := c.Handler(s.router)

	go func() {
		zap.S().Infof("api server listening on %s", s.cfg.Addr)
		if err := http.ListenAndServe(s.cfg.Addr, handler); err != nil {
			zap.S().Errorf("api server: %v", err)
		}
	}()

	return nil
}

// OnOrderReport implements dex.OrderGateway, pushing order state to the
// account's websocket channel.
func (s *Server) OnOrderReport(ctx context.Context, order model.Order) {
	s.hub.BroadcastToChannel("orders:"+order.Account, OrderUpdate{
		Type:          "order",
		ClientOrderID: order.GatewayID,
		OrderID:       order.OrderID,
		Account:       order.Account,
		Ticker:        order.Ticker,
		Status:        string(order.Status),
		CumQuantity:   order.CumQuantity.String(),
		LeavesQty:     order.LeavesQuantity.String(),
		LastPrice:     order.LastPrice.String(),
		LastQuantity:  order.LastQuantity.String(),
		RejectReason:  order.RejectReason,
	})
}

func (s *Server) broadcastTrades(trades []exchange.Trade) {
	now := time.Now()
	for _, tr := range trades {
		s.hub.BroadcastToChannel("trades:"+string(tr.Ticker), TradeUpdate{
			Type:      "trade",
			Ticker:    string(tr.Ticker),
			TakerSide: string(tr.TakerSide),
			Price:     tr.Price,
			Qty:       tr.Qty,
			Timestamp: now,
		})
	}
}

func (s *Server) handleRegisterAsset(w http.ResponseWriter, r *http.Request) {
	var req RegisterAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Ticker == "" {
		respondError(w, http.StatusBadRequest, "missing ticker", "")
		return
	}

	err := s.registry.Register(exchange.Asset{
		Ticker:  exchange.Ticker(req.Ticker),
		IsQuote: req.IsQuote,
	})
	switch {
	case errors.Is(err, exchange.ErrDuplicateAsset), errors.Is(err, exchange.ErrDuplicateQuoteAsset):
		respondError(w, http.StatusConflict, err.Error(), "")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	respondJSON(w, AssetInfo{Ticker: req.Ticker, IsQuote: req.IsQuote})
}

func (s *Server) handleGetAssets(w http.ResponseWriter, r *http.Request) {
	assets := s.registry.Assets()
	response := make([]AssetInfo, len(assets))
	for i, a := range assets {
		response[i] = AssetInfo{Ticker: string(a.Ticker), IsQuote: a.IsQuote}
	}
	respondJSON(w, response)
}

// SetFaucet enables the faucet endpoint backed by the in-memory vault.
// Demo environments only.
func (s *Server) SetFaucet(v *custody.Vault) {
	s.vault = v
}

// handleFaucet mints external balance for the account and authorizes the
// exchange to pull it, so a subsequent deposit succeeds.
func (s *Server) handleFaucet(w http.ResponseWriter, r *http.Request) {
	if s.vault == nil {
		respondError(w, http.StatusNotFound, "faucet disabled", "")
		return
	}
	account := mux.Vars(r)["account"]

	var req TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "amount must be positive", "")
		return
	}

	ticker := exchange.Ticker(req.Ticker)
	if _, err := s.registry.Resolve(ticker); err != nil {
		respondError(w, http.StatusNotFound, err.Error(), "")
		return
	}

	s.vault.Mint(account, ticker, req.Amount)
	s.vault.Approve(account, ticker, s.vault.ExternalBalanceOf(account, ticker))

	respondJSON(w, BalanceInfo{
		Ticker:  req.Ticker,
		Balance: s.vault.ExternalBalanceOf(account, ticker),
	})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]

	var req TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := s.engine.Deposit(account, exchange.Ticker(req.Ticker), req.Amount); err != nil {
		respondTransferError(w, err)
		return
	}
	respondJSON(w, BalanceInfo{
		Ticker:  req.Ticker,
		Balance: s.engine.BalanceOf(account, exchange.Ticker(req.Ticker)),
	})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]

	var req TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := s.engine.Withdraw(account, exchange.Ticker(req.Ticker), req.Amount); err != nil {
		respondTransferError(w, err)
		return
	}
	respondJSON(w, BalanceInfo{
		Ticker:  req.Ticker,
		Balance: s.engine.BalanceOf(account, exchange.Ticker(req.Ticker)),
	})
}

func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]

	assets := s.registry.Assets()
	response := make([]BalanceInfo, len(assets))
	for i, a := range assets {
		response[i] = BalanceInfo{
			Ticker:  string(a.Ticker),
			Balance: s.engine.BalanceOf(account, a.Ticker),
		}
	}
	respondJSON(w, response)
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Account == "" || req.Ticker == "" {
		respondError(w, http.StatusBadRequest, "missing account or ticker", "")
		return
	}

	side, ok := parseSide(req.Side)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid side", req.Side)
		return
	}
	orderType, ok := parseOrderType(req.Type)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid order type", req.Type)
		return
	}

	clOrdID := req.ClientOrderID
	if clOrdID == "" {
		clOrdID = uuid.NewString()
	}

	err := s.exchange.AddOrder(r.Context(), &model.AddOrder{
		GatewayID:    clOrdID,
		Account:      req.Account,
		Ticker:       req.Ticker,
		Type:         orderType,
		Price:        req.Price,
		Side:         side,
		TransactTime: time.Now(),
		Quantity:     req.Quantity,
	})
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error(), "")
		return
	}

	respondJSON(w, SubmitOrderResponse{Status: "accepted", ClientOrderID: clOrdID})
}

func (s *Server) handleGetDepth(w http.ResponseWriter, r *http.Request) {
	if s.depth == nil {
		respondError(w, http.StatusServiceUnavailable, "depth cache disabled", "")
		return
	}
	ticker := mux.Vars(r)["ticker"]

	depth, err := s.depth.Depth(r.Context(), ticker)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "depth unavailable", err.Error())
		return
	}
	respondJSON(w, depth)
}

func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ticker := vars["ticker"]

	side, ok := parseSide(vars["side"])
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid side", vars["side"])
		return
	}

	orders := s.engine.Orders(exchange.Ticker(ticker), exchange.Side(side))
	response := make([]OrderInfo, len(orders))
	for i, o := range orders {
		response[i] = OrderInfo{
			OrderID:   o.ID,
			Trader:    o.Trader,
			Side:      string(o.Side),
			Ticker:    string(o.Ticker),
			Amount:    o.Amount,
			Filled:    o.Filled,
			Price:     o.Price,
			Timestamp: o.Timestamp,
		}
	}
	respondJSON(w, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func respondTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exchange.ErrUnknownAsset):
		respondError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, exchange.ErrInsufficientBalance),
		errors.Is(err, exchange.ErrExternalTransfer),
		errors.Is(err, exchange.ErrInvalidAmount):
		respondError(w, http.StatusUnprocessableEntity, err.Error(), "")
	default:
		respondError(w, http.StatusInternalServerError, err.Error(), "")
	}
}

func parseSide(s string) (model.OrderSide, bool) {
	switch strings.ToUpper(s) {
	case "BUY":
		return model.OrderSideBuy, true
	case "SELL":
		return model.OrderSideSell, true
	}
	return "", false
}

func parseOrderType(s string) (model.OrderType, bool) {
	switch strings.ToUpper(s) {
	case "LIMIT":
		return model.OrderTypeLimit, true
	case "MARKET":
		return model.OrderTypeMarket, true
	}
	return "", false
}
