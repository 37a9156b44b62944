// Package worker drains the Kafka persistence topics into postgres so the
// matching path never waits on the database.
package worker

import (
	"context"
	"encoding/json"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/joripage/spotdex/pkg/dex/model"
	"github.com/joripage/spotdex/pkg/dex/repo"
	kafkawrapper "github.com/joripage/spotdex/pkg/kafka_wrapper"
)

type Worker struct {
	orderEvent repo.IOrderEvent
	trade      repo.ITrade
}

func NewWorker(repo repo.IRepo) *Worker {
	return &Worker{
		orderEvent: repo.OrderEvent(),
		trade:      repo.Trade(),
	}
}

// ConsumeTrades blocks draining cg into the trades table.
func (w *Worker) ConsumeTrades(ctx context.Context, cg *kafkawrapper.ConsumerGroup) error {
	return cg.Run(ctx, func(ctx context.Context, msgs []kafkawrapper.Message) error {
		records := make([]*model.Trade, 0, len(msgs))
		for _, msg := range msgs {
			var tr model.Trade
			if err := json.Unmarshal(msg.Value, &tr); err != nil {
				zap.S().Warnf("unmarshal trade offset=%d: %v", msg.Offset, err)
				continue
			}
			records = append(records, &tr)
		}
		if len(records) == 0 {
			return nil
		}
		_, err := w.trade.BulkCreate(ctx, records)
		return err
	})
}

// ConsumeOrderEvents blocks draining cg into the order_events table.
func (w *Worker) ConsumeOrderEvents(ctx context.Context, cg *kafkawrapper.ConsumerGroup) error {
	return cg.Run(ctx, func(ctx context.Context, msgs []kafkawrapper.Message) error {
		records := make([]*model.OrderEvent, 0, len(msgs))
		for _, msg := range msgs {
			var ev model.OrderEvent
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				zap.S().Warnf("unmarshal order event offset=%d: %v", msg.Offset, err)
				continue
			}
			records = append(records, &ev)
		}
		if len(records) == 0 {
			return nil
		}
		_, err := w.orderEvent.BulkCreate(ctx, records)
		return err
	})
}
