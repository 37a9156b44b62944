package eventstore

import "github.com/joripage/spotdex/pkg/dex/model"

// EventStore journals order events and indexes the gateway-id to order-id
// mapping used for duplicate detection and report routing.
type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	GetOrderID(gatewayID string) string
	Events(orderID string) []*model.OrderEvent
	DeleteByOrderID(orderID string)
}
