package service

import (
	"context"
	"sync"
	"testing"

	"github.com/gsbenevides2/hassbridge/internal/adapter/hub"
	"github.com/gsbenevides2/hassbridge/internal/adapter/hub/hubtest"
	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/port"
	"github.com/gsbenevides2/hassbridge/internal/util"

	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []domain.Component
	handlers  map[string]port.CommandHandler
}

func (p *recordingPublisher) Publish(_ context.Context, c domain.Component) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, c)
	return nil
}

func (p *recordingPublisher) Bind(ctx context.Context, c domain.Component, handler port.CommandHandler) error {
	p.mu.Lock()
	if p.handlers == nil {
		p.handlers = map[string]port.CommandHandler{}
	}
	c.Command = true
	p.handlers[c.ObjectId] = handler
	p.mu.Unlock()
	return p.Publish(ctx, c)
}

type recordingShutdowner struct {
	ips []string
}

func (s *recordingShutdowner) Shutdown(_ context.Context, ip string) error {
	s.ips = append(s.ips, ip)
	return nil
}

type fixture struct {
	stub       *hubtest.Hub
	publisher  *recordingPublisher
	shutdowner *recordingShutdowner
	services   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := util.LoadTestConfig()
	stub := hubtest.New(cfg.Hub.Token)
	t.Cleanup(stub.Close)
	cfg.Hub.Url = stub.URL()

	f := &fixture{
		stub:       stub,
		publisher:  &recordingPublisher{},
		shutdowner: &recordingShutdowner{},
	}
	client := hub.NewClient(cfg.Hub, zap.NewNop())
	sctx := NewContext(client, f.publisher, cfg.Catalog, zap.NewNop())
	f.services = NewServices(sctx, f.shutdowner)
	return f
}

func testCatalog() config.CatalogConfig {
	return util.LoadTestConfig().Catalog
}
