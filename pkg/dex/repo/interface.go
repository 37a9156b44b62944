package repo

import (
	"context"

	"github.com/joripage/spotdex/pkg/dex/model"
)

type IOrderEvent interface {
	Create(ctx context.Context, record *model.OrderEvent) (*model.OrderEvent, error)
	BulkCreate(ctx context.Context, records []*model.OrderEvent) ([]*model.OrderEvent, error)
}

type ITrade interface {
	Create(ctx context.Context, record *model.Trade) (*model.Trade, error)
	BulkCreate(ctx context.Context, records []*model.Trade) ([]*model.Trade, error)
}
