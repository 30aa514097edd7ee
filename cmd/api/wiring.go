package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/adapter/discovery"
	"github.com/gsbenevides2/hassbridge/internal/adapter/hub"
	"github.com/gsbenevides2/hassbridge/internal/adapter/pcpower"
	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/port"
	"github.com/gsbenevides2/hassbridge/internal/core/service"
	"github.com/gsbenevides2/hassbridge/internal/mqtt"

	"go.uber.org/zap"
)

// bridge is everything a command needs, built from the loaded config.
type bridge struct {
	hub       *hub.Client
	mqtt      *mqtt.MQTTClient
	publisher *discovery.Publisher
	services  *service.Services

	stopConnecting context.CancelFunc
	connecting     chan struct{}
}

// newBridge connects to the broker only when discovery is enabled. An
// unreachable broker does not fail the bridge: the connection is retried in
// the background and discovery catches up once it is up.
func newBridge(ctx context.Context) (*bridge, error) {
	b := &bridge{hub: hub.NewClient(cfg.Hub, logger)}

	var publisher port.DiscoveryPublisher = discovery.NopPublisher{}
	if cfg.MQTT.HADiscoveryEnable {
		b.mqtt = mqtt.CreateMQTTClient(cfg, mqtt.OptsFromConfig(cfg), logger)
		b.publisher = discovery.NewPublisher(b.mqtt, cfg.MQTT, logger)
		if err := b.mqtt.Connect(ctx); err != nil {
			logger.Warn("broker unreachable, retrying in background",
				zap.Error(fmt.Errorf("%w: %w", domain.ErrDiscoveryPublish, err)))
			b.keepConnecting(ctx)
		}
		publisher = b.publisher
	}

	sctx := service.NewContext(b.hub, publisher, cfg.Catalog, logger)
	b.services = service.NewServices(sctx, pcpower.NewHTTPShutdowner(cfg.PC, logger))
	return b, nil
}

func (b *bridge) keepConnecting(ctx context.Context) {
	ctx, b.stopConnecting = context.WithCancel(ctx)
	b.connecting = make(chan struct{})
	go func() {
		defer close(b.connecting)
		_ = b.mqtt.KeepConnecting(ctx)
	}()
}

func (b *bridge) close() {
	if b.stopConnecting != nil {
		b.stopConnecting()
		<-b.connecting
	}
	if b.publisher != nil {
		b.publisher.Stop()
	}
	if b.mqtt != nil {
		b.mqtt.Disconnect(250 * time.Millisecond)
	}
}
