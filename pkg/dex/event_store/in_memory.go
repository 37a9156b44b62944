package eventstore

import (
	"sync"

	"github.com/joripage/spotdex/pkg/dex/model"
)

type InMemoryEventStore struct {
	mu      sync.RWMutex
	orders  map[string][]*model.OrderEvent
	orderID map[string]string // GatewayID -> OrderID
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		orders:  make(map[string][]*model.OrderEvent),
		orderID: make(map[string]string),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[ev.OrderID] = append(s.orders[ev.OrderID], ev)
	if ev.GatewayID != "" {
		s.orderID[ev.GatewayID] = ev.OrderID
	}
}

func (s *InMemoryEventStore) GetOrderID(gatewayID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.orderID[gatewayID]
}

func (s *InMemoryEventStore) Events(orderID string) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.orders[orderID]
	out := make([]*model.OrderEvent, len(evs))
	copy(out, evs)
	return out
}

func (s *InMemoryEventStore) DeleteByOrderID(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.orders[orderID] {
		if ev.GatewayID != "" {
			delete(s.orderID, ev.GatewayID)
		}
	}
	delete(s.orders, orderID)
}
