package dex

import (
	"sync"

	"github.com/joripage/spotdex/pkg/dex/model"
)

type syncOrderMap struct {
	m sync.Map
}

func (s *Dex) AddOrderToMap(order *model.Order) {
	s.orderIDMapping.m.Store(order.OrderID, order)
}

func (s *Dex) GetOrderByOrderID(orderID string) (*model.Order, error) {
	order, ok := s.orderIDMapping.m.Load(orderID)
	if !ok {
		return nil, errOrderIDNotFound
	}
	return order.(*model.Order), nil
}

func (s *Dex) DeleteOrderByOrderID(orderID string) {
	s.orderIDMapping.m.Delete(orderID)
	s.eventstore.DeleteByOrderID(orderID)
}
