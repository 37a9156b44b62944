package exchange

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Engine validates and admits orders, walks the opposite book for market
// orders, and settles balances. It owns the ledger and the books exclusively.
//
// Every submission runs under one mutex: the balance-sufficiency check and the
// debit/credit it authorizes must be atomic, otherwise two concurrent orders
// could both pass the check against the same balance and overdraw it.
type Engine struct {
	mu       sync.Mutex
	registry *AssetRegistry
	ledger   *Ledger
	books    map[Ticker]*orderBook

	nextOrderID int64
	nextSeq     int64

	callbacks []func([]Trade)
}

func NewEngine(registry *AssetRegistry, custody Custody) *Engine {
	return &Engine{
		registry: registry,
		ledger:   NewLedger(registry, custody),
		books:    make(map[Ticker]*orderBook),
	}
}

func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// RegisterTradeCallback subscribes fn to the trades of every subsequent
// market-order submission. Callbacks run outside the engine lock.
func (e *Engine) RegisterTradeCallback(fn func([]Trade)) {
	e.callbacks = append(e.callbacks, fn)
}

// Deposit and Withdraw run under the engine lock so custody movements never
// interleave with settlement.

func (e *Engine) Deposit(trader string, ticker Ticker, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.Deposit(trader, ticker, amount)
}

func (e *Engine) Withdraw(trader string, ticker Ticker, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.Withdraw(trader, ticker, amount)
}

func (e *Engine) BalanceOf(trader string, ticker Ticker) int64 {
	return e.ledger.BalanceOf(trader, ticker)
}

// CreateLimitOrder admits a resting order. The balance check establishes
// eligibility only; nothing is escrowed until fill, matching the reference
// behavior of checking available balance without locking it.
func (e *Engine) CreateLimitOrder(trader string, ticker Ticker, amount, price int64, side Side) (*Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	asset, err := e.registry.Resolve(ticker)
	if err != nil {
		return nil, err
	}
	if asset.IsQuote {
		return nil, ErrQuoteAssetNotTradable
	}

	switch side {
	case BUY:
		notional := decimal.NewFromInt(amount).Mul(decimal.NewFromInt(price))
		quote := e.registry.QuoteTicker()
		if decimal.NewFromInt(e.ledger.BalanceOf(trader, quote)).LessThan(notional) {
			return nil, ErrInsufficientQuoteBalance
		}
	case SELL:
		if e.ledger.BalanceOf(trader, ticker) < amount {
			return nil, ErrInsufficientAssetBalance
		}
	}

	e.nextOrderID++
	e.nextSeq++
	order := &Order{
		ID:        e.nextOrderID,
		Trader:    trader,
		Side:      side,
		Ticker:    ticker,
		Amount:    amount,
		Price:     price,
		Timestamp: e.nextSeq,
	}
	e.getOrCreateBook(ticker).side(side).insert(order)

	return order, nil
}

// CreateMarketOrder matches against the best opposite resting orders until
// the requested amount is exhausted or the book runs dry. Any unmatched
// remainder is dropped; market orders never rest. Settlement already applied
// for earlier steps is never rolled back.
func (e *Engine) CreateMarketOrder(trader string, ticker Ticker, amount int64, side Side) ([]Trade, error) {
	e.mu.Lock()
	trades, err := e.marketOrderLocked(trader, ticker, amount, side)
	e.mu.Unlock()

	if len(trades) > 0 {
		for _, cb := range e.callbacks {
			cb(trades)
		}
	}
	return trades, err
}

func (e *Engine) marketOrderLocked(trader string, ticker Ticker, amount int64, side Side) ([]Trade, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	asset, err := e.registry.Resolve(ticker)
	if err != nil {
		return nil, err
	}
	if asset.IsQuote {
		return nil, ErrQuoteAssetNotTradable
	}

	quote := e.registry.QuoteTicker()
	counterSide := e.getOrCreateBook(ticker).side(side.Opposite())

	// Upfront affordability: sellers must hold the full amount; buyers are
	// checked against the full amount at the current best resting price,
	// the way the reference system does before walking the book.
	switch side {
	case SELL:
		if e.ledger.BalanceOf(trader, ticker) < amount {
			return nil, ErrInsufficientAssetBalance
		}
	case BUY:
		if best := counterSide.peekBest(); best != nil {
			notional := decimal.NewFromInt(amount).Mul(decimal.NewFromInt(best.Price))
			if decimal.NewFromInt(e.ledger.BalanceOf(trader, quote)).LessThan(notional) {
				return nil, ErrInsufficientQuoteBalance
			}
		}
	}

	var trades []Trade
	remaining := amount

	for remaining > 0 {
		counter := counterSide.peekBest()
		if counter == nil {
			break // book ran dry, remainder is dropped
		}

		tradeQty := min(remaining, counter.Remaining())
		stepNotional := decimal.NewFromInt(tradeQty).Mul(decimal.NewFromInt(counter.Price))

		buyer, seller := trader, counter.Trader
		if side == SELL {
			buyer, seller = counter.Trader, trader
		}

		// The best-price estimate under-checks against worse levels, so each
		// step re-validates the buyer before debiting. A shortfall here stops
		// matching; earlier settled steps stand.
		if decimal.NewFromInt(e.ledger.BalanceOf(buyer, quote)).LessThan(stepNotional) {
			return trades, ErrInsufficientQuoteBalance
		}
		notional := stepNotional.IntPart() // fits, bounded by the buyer's balance
		if e.ledger.BalanceOf(seller, ticker) < tradeQty {
			// Maker eligibility was checked at placement, not escrowed; the
			// balance can have been spent since.
			return trades, ErrInsufficientAssetBalance
		}

		if err := e.ledger.debit(buyer, quote, notional); err != nil {
			return trades, err
		}
		e.ledger.credit(seller, quote, notional)
		if err := e.ledger.debit(seller, ticker, tradeQty); err != nil {
			return trades, err
		}
		e.ledger.credit(buyer, ticker, tradeQty)

		counter.Filled += tradeQty
		remaining -= tradeQty

		trades = append(trades, Trade{
			MakerOrderID: counter.ID,
			Maker:        counter.Trader,
			Taker:        trader,
			Ticker:       ticker,
			TakerSide:    side,
			Price:        counter.Price,
			Qty:          tradeQty,
		})

		counterSide.removeBestIfFilled()
	}

	return trades, nil
}

// Orders returns a read-only snapshot of the resting orders of one
// (ticker, side) pair in matching priority order.
func (e *Engine) Orders(ticker Ticker, side Side) []Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	book, ok := e.books[ticker]
	if !ok {
		return nil
	}
	return book.side(side).snapshot()
}

func (e *Engine) getOrCreateBook(ticker Ticker) *orderBook {
	if book, ok := e.books[ticker]; ok {
		return book
	}
	book := newOrderBook(ticker)
	e.books[ticker] = book
	return book
}
