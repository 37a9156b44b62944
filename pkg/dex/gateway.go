package dex

import (
	"context"

	"github.com/joripage/spotdex/pkg/dex/model"
)

type OrderGateway interface {
	Start(ctx context.Context) error

	// dex to client
	OnOrderReport(ctx context.Context, order model.Order)
}

// DepthPublisher is notified after every submission that may have changed a
// book; implementations snapshot and publish the depth for the ticker.
type DepthPublisher interface {
	PublishDepth(ctx context.Context, ticker string) error
}

// GatewayMux fans order reports out to every registered gateway. Each
// gateway decides from the GatewayID whether a report belongs to it.
type GatewayMux struct {
	gateways []OrderGateway
}

func NewGatewayMux(gateways ...OrderGateway) *GatewayMux {
	return &GatewayMux{gateways: gateways}
}

// Add registers a gateway; call before Start.
func (m *GatewayMux) Add(g OrderGateway) {
	m.gateways = append(m.gateways, g)
}

func (m *GatewayMux) Start(ctx context.Context) error {
	for _, g := range m.gateways {
		if err := g.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *GatewayMux) OnOrderReport(ctx context.Context, order model.Order) {
	for _, g := range m.gateways {
		g.OnOrderReport(ctx, order)
	}
}
