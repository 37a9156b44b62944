// Package marketdata maintains per-ticker depth snapshots in redis so that
// API reads never touch the matching engine's lock.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joripage/spotdex/pkg/exchange"
)

const depthKeyPrefix = "depth:"

// PriceLevel is one aggregated book level.
type PriceLevel struct {
	Price  int64 `json:"price"`
	Amount int64 `json:"amount"`
	Orders int   `json:"orders"`
}

// Depth is a full snapshot of one ticker's book, bids best-first and asks
// best-first.
type Depth struct {
	Ticker    string       `json:"ticker"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Timestamp time.Time    `json:"timestamp"`
}

// Publisher snapshots the engine's books into redis after every submission.
type Publisher struct {
	engine *exchange.Engine
	client *redis.Client
	ttl    time.Duration
}

func NewPublisher(engine *exchange.Engine, client *redis.Client) *Publisher {
	return &Publisher{
		engine: engine,
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (p *Publisher) PublishDepth(ctx context.Context, ticker string) error {
	depth := p.snapshot(ticker)

	b, err := json.Marshal(depth)
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, depthKey(ticker), b, p.ttl).Err(); err != nil {
		return fmt.Errorf("set depth %s: %w", ticker, err)
	}
	return nil
}

// Depth reads the cached snapshot, falling back to a live one on a miss.
func (p *Publisher) Depth(ctx context.Context, ticker string) (*Depth, error) {
	b, err := p.client.Get(ctx, depthKey(ticker)).Bytes()
	if err == redis.Nil {
		depth := p.snapshot(ticker)
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := p.PublishDepth(bgCtx, ticker); err != nil {
				zap.S().Warnf("backfill depth %s: %v", ticker, err)
			}
		}()
		return depth, nil
	}
	if err != nil {
		return nil, err
	}

	var depth Depth
	if err := json.Unmarshal(b, &depth); err != nil {
		return nil, err
	}
	return &depth, nil
}

func (p *Publisher) snapshot(ticker string) *Depth {
	bids := aggregate(p.engine.Orders(exchange.Ticker(ticker), exchange.BUY))
	asks := aggregate(p.engine.Orders(exchange.Ticker(ticker), exchange.SELL))
	return &Depth{
		Ticker:    ticker,
		Bids:      bids,
		Asks:      asks,
		Timestamp: time.Now(),
	}
}

// aggregate folds orders, already in priority order, into per-price levels.
func aggregate(orders []exchange.Order) []PriceLevel {
	levels := make([]PriceLevel, 0)
	for _, o := range orders {
		n := len(levels)
		if n > 0 && levels[n-1].Price == o.Price {
			levels[n-1].Amount += o.Remaining()
			levels[n-1].Orders++
			continue
		}
		levels = append(levels, PriceLevel{
			Price:  o.Price,
			Amount: o.Remaining(),
			Orders: 1,
		})
	}
	return levels
}

func depthKey(ticker string) string {
	return depthKeyPrefix + ticker
}
